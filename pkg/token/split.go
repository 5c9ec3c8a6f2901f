package token

import "math/bits"

// SplitAmount decomposes amount into the distinct powers of two that
// sum to it (its binary expansion), the only split policy this token
// engine supports.
func SplitAmount(amount uint64) []uint64 {
	if amount == 0 {
		return nil
	}
	denoms := make([]uint64, 0, bits.OnesCount64(amount))
	for amount != 0 {
		p := uint64(1) << bits.TrailingZeros64(amount)
		denoms = append(denoms, p)
		amount -= p
	}
	return denoms
}
