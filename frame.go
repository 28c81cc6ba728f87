package stegcodec

// DefaultTerminatorLength is the number of zero bytes closing each framed unit.
const DefaultTerminatorLength = 4

// Capacity returns the bit capacity of a width×height image carrying depth
// bits per pixel.
func Capacity(width, height, depth int) int {
	return width * height * depth
}

// Terminator returns n zero bytes.
func Terminator(n int) []byte {
	return make([]byte, n)
}

// FrameUnit appends an n-byte zero terminator to a codeword.
//
// The codeword is not escaped: if it already contains n consecutive zero
// bytes, the consensus decoder splits it at that point and that copy fails
// to decode.
func FrameUnit(codeword []byte, terminatorLength int) []byte {
	unit := make([]byte, len(codeword)+terminatorLength)
	copy(unit, codeword)
	return unit
}

// BuildPayload tiles unit end to end and truncates to exactly capacity bits.
//
// A capacity smaller than the unit truncates mid-codeword without error;
// such a payload cannot decode. Processor.Encode rejects it unless
// Config.AllowTruncation is set.
func BuildPayload(capacity int, unit []uint8) ([]uint8, error) {
	if len(unit) == 0 {
		return nil, ErrEmptyMessage
	}
	if capacity < 0 {
		capacity = 0
	}

	payload := make([]uint8, capacity)
	for off := 0; off < capacity; off += len(unit) {
		copy(payload[off:], unit)
	}
	return payload, nil
}
