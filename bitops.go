package hll

import "math/bits"

// LeadingZeros64 returns the number of leading zero bits of x in a 64-bit
// representation. LeadingZeros64(0) is 64; LeadingZeros64(^uint64(0)) is 0.
//
// This is the only primitive the bit-operations layer exposes; everything
// else the sketch needs (register index, run length) is derived from it.
func LeadingZeros64(x uint64) uint8 {
	return uint8(bits.LeadingZeros64(x))
}
