// Package json provides a JSON codec for manifests and configs.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/stegcodec"
)

// jsonCodec implements stegcodec.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec. Output is indented; unknown fields are rejected
// on decode so that a misspelled config key fails loudly.
func New() stegcodec.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as indented JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// MarshalManifest encodes m as JSON.
func MarshalManifest(m stegcodec.Manifest) ([]byte, error) {
	return stegcodec.MarshalManifest(New(), m)
}

// UnmarshalManifest decodes a JSON manifest.
func UnmarshalManifest(data []byte) (stegcodec.Manifest, error) {
	return stegcodec.UnmarshalManifest(New(), data)
}

// LoadConfig decodes a JSON config over stegcodec.DefaultConfig.
func LoadConfig(data []byte) (stegcodec.Config, error) {
	return stegcodec.LoadConfig(New(), data)
}
