package stegcodec

// Config holds the parameters shared by sender and receiver.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// ParityBytes is the Reed–Solomon parity per block (1..254).
	ParityBytes int `json:"parity_bytes" yaml:"parity_bytes" xml:"parity_bytes" msgpack:"parity_bytes" bson:"parity_bytes"`

	// CandidateMinLength drops shorter candidates before decoding.
	CandidateMinLength int `json:"candidate_min_length" yaml:"candidate_min_length" xml:"candidate_min_length" msgpack:"candidate_min_length" bson:"candidate_min_length"`

	// TerminatorLength is the number of zero bytes closing each framed unit.
	TerminatorLength int `json:"terminator_length" yaml:"terminator_length" xml:"terminator_length" msgpack:"terminator_length" bson:"terminator_length"`

	// MaxDecodeAttempts bounds the early-accept phase; voting may inspect as many again.
	MaxDecodeAttempts int `json:"max_decode_attempts" yaml:"max_decode_attempts" xml:"max_decode_attempts" msgpack:"max_decode_attempts" bson:"max_decode_attempts"`

	// SymmetricKeyBits is the AES key size for envelopes.
	SymmetricKeyBits int `json:"symmetric_key_bits" yaml:"symmetric_key_bits" xml:"symmetric_key_bits" msgpack:"symmetric_key_bits" bson:"symmetric_key_bits"`

	// IVBits is the CBC initialization vector size. Only 128 is valid for AES.
	IVBits int `json:"iv_bits" yaml:"iv_bits" xml:"iv_bits" msgpack:"iv_bits" bson:"iv_bits"`

	// Compression selects the compression algorithm.
	Compression CompressAlgo `json:"compression" yaml:"compression" xml:"compression" msgpack:"compression" bson:"compression"`

	// OAEPHash selects the hash for RSA-OAEP.
	OAEPHash OAEPHash `json:"oaep_hash" yaml:"oaep_hash" xml:"oaep_hash" msgpack:"oaep_hash" bson:"oaep_hash"`

	// MaxDecompressedBytes bounds the output of one decompression.
	MaxDecompressedBytes int `json:"max_decompressed_bytes" yaml:"max_decompressed_bytes" xml:"max_decompressed_bytes" msgpack:"max_decompressed_bytes" bson:"max_decompressed_bytes"`

	// AllowTruncation lets Encode cut a framed unit short when capacity is
	// too small, instead of failing with ErrPayloadTooSmall.
	AllowTruncation bool `json:"allow_truncation" yaml:"allow_truncation" xml:"allow_truncation" msgpack:"allow_truncation" bson:"allow_truncation"`
}

// DefaultConfig returns the parameters used by the reference tooling.
func DefaultConfig() Config {
	return Config{
		ParityBytes:          250,
		CandidateMinLength:   DefaultCandidateMinLength,
		TerminatorLength:     DefaultTerminatorLength,
		MaxDecodeAttempts:    DefaultMaxDecodeAttempts,
		SymmetricKeyBits:     256,
		IVBits:               128,
		Compression:          CompressZlib,
		OAEPHash:             OAEPSHA1,
		MaxDecompressedBytes: DefaultMaxDecompressedBytes,
	}
}

// Validate checks every field and returns a *ConfigError for the first
// out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.ParityBytes < 1 || c.ParityBytes > 254:
		return newConfigError("ParityBytes", c.ParityBytes)
	case c.CandidateMinLength < 1:
		return newConfigError("CandidateMinLength", c.CandidateMinLength)
	case c.TerminatorLength < 1:
		return newConfigError("TerminatorLength", c.TerminatorLength)
	case c.MaxDecodeAttempts < 1:
		return newConfigError("MaxDecodeAttempts", c.MaxDecodeAttempts)
	case c.SymmetricKeyBits != 128 && c.SymmetricKeyBits != 192 && c.SymmetricKeyBits != 256:
		return newConfigError("SymmetricKeyBits", c.SymmetricKeyBits)
	case c.IVBits != 128:
		return newConfigError("IVBits", c.IVBits)
	case !IsValidCompressAlgo(c.Compression):
		return newConfigError("Compression", c.Compression)
	case !IsValidOAEPHash(c.OAEPHash):
		return newConfigError("OAEPHash", c.OAEPHash)
	case c.MaxDecompressedBytes < 1:
		return newConfigError("MaxDecompressedBytes", c.MaxDecompressedBytes)
	}
	return nil
}
