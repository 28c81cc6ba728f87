// Package stegcodec encodes short text messages into fixed-capacity bit
// payloads that survive a lossy embedding channel, and recovers them.
//
// The package does not embed bits into images. It produces the bit array a
// channel writes and consumes the noisy bit array a channel reads back.
//
// # Pipeline
//
// Encoding runs each message through these stages:
//
//	message → [envelope] → compress → Reed–Solomon → frame → tile
//
//   - Envelope: optional hybrid encryption (RSA-OAEP wrapped AES-CBC key),
//     packed and rendered as base64 text
//   - Compress: zlib by default; flate, zstd, lz4 and none are available
//   - Reed–Solomon: P parity bytes per block, repairing up to P/2 bytes
//   - Frame: the codeword followed by four zero bytes
//   - Tile: the framed unit repeated until capacity bits are filled
//
// Decoding converts bits to bytes, splits on the terminator and runs each
// candidate back through FEC and decompression. The first candidate to
// decode wins; if the early-accept budget runs out, the decoder switches to
// a vote among further candidates.
//
// # Basic Usage
//
//	proc, _ := stegcodec.NewProcessor(stegcodec.DefaultConfig())
//
//	payload, _ := proc.Encode(ctx, "Secret message", stegcodec.Capacity(256, 256, 1))
//	// hand payload to the channel, read raw bits back
//	msg, _ := proc.Decode(ctx, raw)
//
// # Encryption
//
//	env, _ := stegcodec.NewEnvelope(pub, priv)
//	proc.SetEnvelope(env)
//
// The envelope's binary layout is
//
//	u16le(len(encKey)) || encKey || u16le(len(encIV)) || encIV || ciphertext
//
// and the legacy JSON form {"aeskey", "aesiv", "ciphertext"} is accepted
// when opening.
//
// # Codec Providers
//
// Manifests and configs can be written with any of the codec submodules:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Limitations
//
// The framer does not escape the terminator. A codeword that contains four
// consecutive zero bytes is split by the decoder and that copy is lost.
package stegcodec

// Codec provides content-type aware marshaling for manifests and configs.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
