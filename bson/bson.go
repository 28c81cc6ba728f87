// Package bson provides a BSON codec for manifests and configs.
package bson

import (
	"github.com/zoobzio/stegcodec"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements stegcodec.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec. BSON documents must be structs or maps; nil and
// scalars fail to marshal.
func New() stegcodec.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// MarshalManifest encodes m as BSON.
func MarshalManifest(m stegcodec.Manifest) ([]byte, error) {
	return stegcodec.MarshalManifest(New(), m)
}

// UnmarshalManifest decodes a BSON manifest.
func UnmarshalManifest(data []byte) (stegcodec.Manifest, error) {
	return stegcodec.UnmarshalManifest(New(), data)
}

// LoadConfig decodes a BSON config over stegcodec.DefaultConfig.
func LoadConfig(data []byte) (stegcodec.Config, error) {
	return stegcodec.LoadConfig(New(), data)
}
