// Package buf contains overflow-checked arithmetic and bounds-checked slicing
// used when turning client-supplied sizes into arena offsets.
package buf

import "math/bits"

// AddU64 adds a and b, returning ok = false when the sum wraps.
func AddU64(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// MulOverflowSafe multiplies a and b, returning ok = false when the product
// does not fit in 64 bits. This is the count * elementSize check performed
// before a zero-initialized allocation.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, false
	}
	return lo, true
}

// Range returns b[off:off+n] with its capacity clamped to the range, or
// ok = false when the range does not lie inside b. n is unsigned so sizes
// taken from clients never need a narrowing conversion first.
func Range(b []byte, off int, n uint64) ([]byte, bool) {
	if off < 0 || off > len(b) || n > uint64(len(b)-off) {
		return nil, false
	}
	end := off + int(n)
	return b[off:end:end], true
}

// Within reports whether b[off:off+n] is inside b.
func Within(b []byte, off int, n uint64) bool {
	_, ok := Range(b, off, n)
	return ok
}
