// Package msgpack provides a MessagePack codec for manifests and configs.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/stegcodec"
)

// msgpackCodec implements stegcodec.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec. Integers are written in their smallest
// encoding and unknown fields are rejected on decode.
func New() stegcodec.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields(true)
	return dec.Decode(v)
}

// MarshalManifest encodes m as MessagePack.
func MarshalManifest(m stegcodec.Manifest) ([]byte, error) {
	return stegcodec.MarshalManifest(New(), m)
}

// UnmarshalManifest decodes a MessagePack manifest.
func UnmarshalManifest(data []byte) (stegcodec.Manifest, error) {
	return stegcodec.UnmarshalManifest(New(), data)
}

// LoadConfig decodes a MessagePack config over stegcodec.DefaultConfig.
func LoadConfig(data []byte) (stegcodec.Config, error) {
	return stegcodec.LoadConfig(New(), data)
}
