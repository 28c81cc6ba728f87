package stegcodec

// byteToBits maps every byte value to its eight bits, MSB first.
// Built once at package init and never written afterwards.
var byteToBits = func() (table [256][8]uint8) {
	for b := 0; b < 256; b++ {
		for i := 0; i < 8; i++ {
			table[b][i] = uint8(b>>(7-i)) & 1
		}
	}
	return table
}()

// BytesToBits expands each byte into eight bits, most significant first.
func BytesToBits(data []byte) []uint8 {
	bits := make([]uint8, len(data)*8)
	for i, b := range data {
		copy(bits[i*8:i*8+8], byteToBits[b][:])
	}
	return bits
}

// BitsToBytes packs bits into bytes, most significant first.
// A trailing group shorter than eight bits is dropped. Any nonzero
// element is read as a one.
func BitsToBytes(bits []uint8) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		group := bits[i*8 : i*8+8]
		var b byte
		for _, bit := range group {
			b <<= 1
			if bit != 0 {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}
