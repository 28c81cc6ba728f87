// Package rs implements systematic Reed–Solomon coding over GF(2^8) with
// error-location decoding.
//
// Input is split into blocks of 255-parity data bytes. Each block is followed
// by its own parity bytes, so a block on the wire is at most 255 bytes long
// and any parity/2 corrupted bytes within it can be located and repaired.
// The block layout, field polynomial (0x11d), generator (2) and first root
// (alpha^0) match the widely used reedsolo Python package.
package rs

import (
	"errors"
	"fmt"
)

// BlockSize is the maximum length of one encoded block.
const BlockSize = 255

// Errors returned by the codec.
var (
	ErrInvalidParity = errors.New("rs: invalid parity length")
	ErrShortBlock    = errors.New("rs: block shorter than parity")
	ErrTooManyErrors = errors.New("rs: too many errors to correct")
)

// Codec encodes and decodes with a fixed number of parity bytes per block.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	parity    int
	generator []byte // highest degree first, monic
}

// New returns a codec that appends parity bytes to every block.
// Parity must be between 1 and 254.
func New(parity int) (*Codec, error) {
	if parity < 1 || parity >= BlockSize {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidParity, parity, BlockSize-1)
	}

	gen := []byte{1}
	for i := 0; i < parity; i++ {
		gen = mulHigh(gen, []byte{1, gfPow(i)})
	}

	return &Codec{parity: parity, generator: gen}, nil
}

// Parity returns the number of parity bytes appended to each block.
func (c *Codec) Parity() int {
	return c.parity
}

// DataPerBlock returns the number of data bytes carried by a full block.
func (c *Codec) DataPerBlock() int {
	return BlockSize - c.parity
}

// EncodedLen returns the encoded length of n data bytes.
func (c *Codec) EncodedLen(n int) int {
	k := c.DataPerBlock()
	blocks := (n + k - 1) / k
	return n + blocks*c.parity
}

// Encode returns data followed by parity, block by block.
func (c *Codec) Encode(data []byte) []byte {
	k := c.DataPerBlock()
	out := make([]byte, 0, c.EncodedLen(len(data)))
	for start := 0; start < len(data); start += k {
		end := min(start+k, len(data))
		out = append(out, c.encodeBlock(data[start:end])...)
	}
	return out
}

// Decode corrects and strips parity from a codeword produced by Encode.
// The input is not modified.
func (c *Codec) Decode(codeword []byte) ([]byte, error) {
	out := make([]byte, 0, len(codeword))
	for start := 0; start < len(codeword); start += BlockSize {
		end := min(start+BlockSize, len(codeword))
		data, err := c.decodeBlock(codeword[start:end])
		if err != nil {
			return nil, fmt.Errorf("block at offset %d: %w", start, err)
		}
		out = append(out, data...)
	}
	return out, nil
}

func (c *Codec) encodeBlock(data []byte) []byte {
	out := make([]byte, len(data)+c.parity)
	copy(out, data)

	// Synthetic division by the generator leaves the remainder in the tail.
	for i := 0; i < len(data); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.generator); j++ {
			out[i+j] ^= gfMul(c.generator[j], coef)
		}
	}

	copy(out, data)
	return out
}

func (c *Codec) syndromes(block []byte) ([]byte, bool) {
	synd := make([]byte, c.parity)
	clean := true
	for i := range synd {
		synd[i] = evalHigh(block, gfPow(i))
		if synd[i] != 0 {
			clean = false
		}
	}
	return synd, clean
}

func (c *Codec) decodeBlock(block []byte) ([]byte, error) {
	n := len(block)
	if n <= c.parity {
		return nil, fmt.Errorf("%w: %d bytes, parity %d", ErrShortBlock, n, c.parity)
	}

	r := make([]byte, n)
	copy(r, block)

	synd, clean := c.syndromes(r)
	if clean {
		return r[:n-c.parity], nil
	}

	locator, err := c.errorLocator(synd)
	if err != nil {
		return nil, err
	}
	errs := len(locator) - 1

	// Chien search: a root at alpha^-e marks an error at degree e.
	degrees := make([]int, 0, errs)
	for e := 0; e < n; e++ {
		if evalLow(locator, gfPow(-e)) == 0 {
			degrees = append(degrees, e)
		}
	}
	if len(degrees) != errs {
		return nil, fmt.Errorf("%w: locator degree %d, found %d roots", ErrTooManyErrors, errs, len(degrees))
	}

	// Error evaluator: S(x)·Λ(x) mod x^parity, lowest degree first.
	evaluator := make([]byte, c.parity)
	for i := range evaluator {
		var v byte
		for j := 0; j <= i && j < len(locator); j++ {
			v ^= gfMul(synd[i-j], locator[j])
		}
		evaluator[i] = v
	}

	// Formal derivative; in characteristic 2 only odd terms survive.
	derivative := make([]byte, max(len(locator)-1, 1))
	for i := 1; i < len(locator); i += 2 {
		derivative[i-1] = locator[i]
	}

	// Forney with first consecutive root alpha^0: Y = X·Ω(X⁻¹)/Λ'(X⁻¹).
	for _, e := range degrees {
		xinv := gfPow(-e)
		denom := evalLow(derivative, xinv)
		if denom == 0 {
			return nil, fmt.Errorf("%w: zero locator derivative", ErrTooManyErrors)
		}
		magnitude := gfMul(gfPow(e), gfDiv(evalLow(evaluator, xinv), denom))
		r[n-1-e] ^= magnitude
	}

	if _, ok := c.syndromes(r); !ok {
		return nil, fmt.Errorf("%w: residual syndrome after correction", ErrTooManyErrors)
	}

	return r[:n-c.parity], nil
}

// errorLocator runs Berlekamp–Massey and returns Λ(x), lowest degree first.
func (c *Codec) errorLocator(synd []byte) ([]byte, error) {
	locator := []byte{1}
	prev := []byte{1}
	length := 0
	shift := 1
	lastDiscrepancy := byte(1)

	for k := 0; k < len(synd); k++ {
		d := synd[k]
		for i := 1; i <= length && i < len(locator); i++ {
			d ^= gfMul(locator[i], synd[k-i])
		}
		if d == 0 {
			shift++
			continue
		}

		coef := gfDiv(d, lastDiscrepancy)
		next := make([]byte, max(len(locator), len(prev)+shift))
		copy(next, locator)
		for i, v := range prev {
			next[i+shift] ^= gfMul(coef, v)
		}

		if 2*length <= k {
			prev = locator
			length = k + 1 - length
			lastDiscrepancy = d
			shift = 1
		} else {
			shift++
		}
		locator = next
	}

	for len(locator) > 1 && locator[len(locator)-1] == 0 {
		locator = locator[:len(locator)-1]
	}

	if len(locator)-1 != length || 2*length > c.parity {
		return nil, fmt.Errorf("%w: %d errors exceed capacity %d", ErrTooManyErrors, length, c.parity/2)
	}
	return locator, nil
}
