// Package yaml provides a YAML codec for manifests and configs.
package yaml

import (
	"bytes"

	"github.com/zoobzio/stegcodec"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements stegcodec.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec. Unknown fields are rejected on decode.
func New() stegcodec.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML with two-space indentation.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// MarshalManifest encodes m as YAML.
func MarshalManifest(m stegcodec.Manifest) ([]byte, error) {
	return stegcodec.MarshalManifest(New(), m)
}

// UnmarshalManifest decodes a YAML manifest.
func UnmarshalManifest(data []byte) (stegcodec.Manifest, error) {
	return stegcodec.UnmarshalManifest(New(), data)
}

// LoadConfig decodes a YAML config over stegcodec.DefaultConfig.
func LoadConfig(data []byte) (stegcodec.Config, error) {
	return stegcodec.LoadConfig(New(), data)
}
