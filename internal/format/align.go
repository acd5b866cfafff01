package format

// Alignment utilities for the arena layout.
// Block sizes and payload offsets are multiples of the 16-byte alignment unit.

// Align16 returns n aligned up to the next 16-byte boundary.
// Used for block sizes and growth amounts.
//
// Example:
//
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(17) = 32
func Align16(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned reports whether n is a multiple of the alignment unit.
func IsAligned(n int) bool {
	return n&AlignmentMask == 0
}

// RoundUp rounds n up to the next multiple of unit. unit must be positive.
//
// Example:
//
//	RoundUp(1, 4096)    = 4096
//	RoundUp(4096, 4096) = 4096
//	RoundUp(4097, 4096) = 8192
func RoundUp(n, unit int) int {
	return unit * ((n + unit - 1) / unit)
}
