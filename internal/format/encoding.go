package format

import "encoding/binary"

// Binary encoding utilities for arena words.
//
// Every header, footer and free-list link is a single little-endian 64-bit
// word. These helpers are the only code that reinterprets arena bytes as
// integers; callers above this package work with offsets and decoded values.
//
// Implementation: Uses encoding/binary.LittleEndian, which the compiler
// inlines to a single load/store on little-endian targets.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+WordSize], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+WordSize])
}

// PutOffset stores an arena offset as a word. Offsets are never negative.
func PutOffset(b []byte, off, v int) {
	binary.LittleEndian.PutUint64(b[off:off+WordSize], uint64(v))
}

// ReadOffset loads an arena offset previously stored with PutOffset.
func ReadOffset(b []byte, off int) int {
	return int(binary.LittleEndian.Uint64(b[off : off+WordSize]))
}
