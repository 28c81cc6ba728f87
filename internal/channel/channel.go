// Package channel simulates a noisy bit channel for payload experiments.
package channel

import "math/rand/v2"

// FlipBits returns a copy of bits with each bit inverted independently with
// probability rate. The same seed always flips the same positions.
func FlipBits(bits []uint8, rate float64, seed uint64) []uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]uint8, len(bits))
	for i, b := range bits {
		if rng.Float64() < rate {
			b ^= 1
		}
		out[i] = b
	}
	return out
}

// GarbleRange returns a copy of bits with [start, end) replaced by random
// bits. The range is clamped to the slice.
func GarbleRange(bits []uint8, start, end int, seed uint64) []uint8 {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	out := make([]uint8, len(bits))
	copy(out, bits)
	start = max(start, 0)
	end = min(end, len(out))
	for i := start; i < end; i++ {
		out[i] = uint8(rng.UintN(2))
	}
	return out
}

// CorruptBytes returns a copy of bits with every bit of the given bytes
// inverted. Offsets count bytes from the start of bits.
func CorruptBytes(bits []uint8, offsets ...int) []uint8 {
	out := make([]uint8, len(bits))
	copy(out, bits)
	for _, off := range offsets {
		for i := off * 8; i < off*8+8 && i < len(out); i++ {
			out[i] ^= 1
		}
	}
	return out
}
