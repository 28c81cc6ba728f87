package stegcodec

// CompressAlgo represents a supported compression algorithm.
// The sender and receiver must agree on it; record it in the Manifest.
type CompressAlgo string

const (
	// CompressZlib uses zlib (DEFLATE with header and Adler-32 trailer).
	// The trailer checksum rejects most noise-corrupted candidates.
	CompressZlib CompressAlgo = "zlib"

	// CompressFlate uses raw DEFLATE with no framing.
	CompressFlate CompressAlgo = "flate"

	// CompressZstd uses zstd frames.
	CompressZstd CompressAlgo = "zstd"

	// CompressLZ4 uses LZ4 blocks behind a length header.
	CompressLZ4 CompressAlgo = "lz4"

	// CompressNone stores the message bytes unchanged.
	// Use for payloads that are already compressed or encrypted.
	CompressNone CompressAlgo = "none"
)

// OAEPHash represents the hash used for RSA-OAEP padding and MGF1.
type OAEPHash string

const (
	// OAEPSHA1 matches the default of common RSA toolkits (PyCryptodome,
	// OpenSSL) and is required to open envelopes they produce.
	OAEPSHA1 OAEPHash = "sha1"

	// OAEPSHA256 uses SHA-256.
	OAEPSHA256 OAEPHash = "sha256"
)

// validCompressAlgos contains all valid compression algorithms for config validation.
var validCompressAlgos = map[CompressAlgo]bool{
	CompressZlib:  true,
	CompressFlate: true,
	CompressZstd:  true,
	CompressLZ4:   true,
	CompressNone:  true,
}

// validOAEPHashes contains all valid OAEP hashes for config validation.
var validOAEPHashes = map[OAEPHash]bool{
	OAEPSHA1:   true,
	OAEPSHA256: true,
}

// IsValidCompressAlgo returns true if the algorithm is a known compression algorithm.
func IsValidCompressAlgo(algo CompressAlgo) bool {
	return validCompressAlgos[algo]
}

// IsValidOAEPHash returns true if the hash is a known OAEP hash.
func IsValidOAEPHash(h OAEPHash) bool {
	return validOAEPHashes[h]
}
