package stegcodec

import (
	"fmt"

	"github.com/zoobzio/stegcodec/rs"
)

// ForwardErrorCorrection adds and removes parity that repairs corrupted bytes.
type ForwardErrorCorrection interface {
	// Parity returns the parity bytes appended per block.
	Parity() int

	// Encode returns data followed by parity.
	Encode(data []byte) []byte

	// Decode repairs and strips parity. Corruption beyond capacity
	// returns an error wrapping ErrFecUncorrectable.
	Decode(codeword []byte) ([]byte, error)
}

// reedSolomon implements ForwardErrorCorrection with the rs package.
type reedSolomon struct {
	codec *rs.Codec
}

// ReedSolomon returns a Reed–Solomon FEC with the given parity bytes per
// block. Up to parity/2 corrupted bytes per block are repaired.
// UseReedSolomon returns a shared instance.
func ReedSolomon(parity int) (ForwardErrorCorrection, error) {
	codec, err := rs.New(parity)
	if err != nil {
		return nil, newConfigError("ParityBytes", parity)
	}
	return &reedSolomon{codec: codec}, nil
}

func (f *reedSolomon) Parity() int {
	return f.codec.Parity()
}

func (f *reedSolomon) Encode(data []byte) []byte {
	return f.codec.Encode(data)
}

func (f *reedSolomon) Decode(codeword []byte) ([]byte, error) {
	data, err := f.codec.Decode(codeword)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFecUncorrectable, err)
	}
	return data, nil
}
