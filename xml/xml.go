// Package xml provides an XML codec for manifests and configs.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/stegcodec"
)

// xmlCodec implements stegcodec.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec. Marshaled documents carry the XML header.
func New() stegcodec.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as indented XML with a declaration.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// MarshalManifest encodes m as XML.
func MarshalManifest(m stegcodec.Manifest) ([]byte, error) {
	return stegcodec.MarshalManifest(New(), m)
}

// UnmarshalManifest decodes an XML manifest.
func UnmarshalManifest(data []byte) (stegcodec.Manifest, error) {
	return stegcodec.UnmarshalManifest(New(), data)
}

// LoadConfig decodes a XML config over stegcodec.DefaultConfig.
func LoadConfig(data []byte) (stegcodec.Config, error) {
	return stegcodec.LoadConfig(New(), data)
}
