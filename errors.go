package stegcodec

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrEmptyMessage indicates an empty plaintext or framed unit.
	ErrEmptyMessage = errors.New("empty message")

	// ErrPayloadTooSmall indicates the capacity cannot hold one framed unit.
	ErrPayloadTooSmall = errors.New("payload too small")

	// ErrCorruptCompressedData indicates a candidate failed to decompress.
	ErrCorruptCompressedData = errors.New("corrupt compressed data")

	// ErrFecUncorrectable indicates corruption beyond the FEC capacity.
	ErrFecUncorrectable = errors.New("fec uncorrectable")

	// ErrInvalidUTF8 indicates decoded bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8")

	// ErrDecodeExhausted indicates no candidate decoded within the attempt budget.
	ErrDecodeExhausted = errors.New("decode exhausted")

	// ErrEnvelopeParse indicates neither envelope format could be parsed.
	ErrEnvelopeParse = errors.New("envelope parse failed")

	// ErrCryptoFailure indicates a decrypt, unpad or key operation failed.
	ErrCryptoFailure = errors.New("crypto failure")

	// ErrMissingKey indicates the envelope lacks the key an operation needs.
	ErrMissingKey = errors.New("missing key")

	// ErrInvalidKey indicates a key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidConfig)
	Field string // Config field that failed validation
	Value string // Offending value, formatted
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: field %s (value %s)", e.Err.Error(), e.Field, e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field %s", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CapacityError reports a payload capacity that cannot hold a framed unit.
type CapacityError struct {
	Err      error // Underlying sentinel error (ErrPayloadTooSmall)
	Capacity int   // Capacity in bits
	Required int   // Bits in one framed unit
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: capacity %d bits, framed unit needs %d bits", e.Err.Error(), e.Capacity, e.Required)
}

func (e *CapacityError) Unwrap() error {
	return e.Err
}

// DecodeError reports a consensus decode that found no valid candidate.
// The counts let callers decide whether to retry with a larger budget.
type DecodeError struct {
	Err        error // Underlying sentinel error (ErrDecodeExhausted)
	Attempts   int   // Candidates run through FEC and decompression
	Candidates int   // Candidates that passed the length filter
	RawBytes   int   // Bytes recovered from the raw bit array
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: no candidate decoded after %d attempts (%d candidates in %d bytes)",
		e.Err.Error(), e.Attempts, e.Candidates, e.RawBytes)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EnvelopeError represents a failure while sealing or opening an envelope.
type EnvelopeError struct {
	Err   error  // Underlying sentinel error (ErrEnvelopeParse, ErrCryptoFailure, etc.)
	Stage string // Stage that failed (parse, key, iv, ciphertext, seal)
	Cause error  // Original error from the underlying operation
}

func (e *EnvelopeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Err.Error(), e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Stage)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for an out-of-range field.
func newConfigError(field string, value any) error {
	return &ConfigError{
		Err:   ErrInvalidConfig,
		Field: field,
		Value: fmt.Sprint(value),
	}
}

// newEnvelopeError creates an EnvelopeError for seal/open failures.
func newEnvelopeError(sentinel error, stage string, cause error) error {
	return &EnvelopeError{
		Err:   sentinel,
		Stage: stage,
		Cause: cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
