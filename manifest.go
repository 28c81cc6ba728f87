package stegcodec

import (
	"encoding/xml"
	"fmt"
)

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// Manifest records what a receiver needs to decode a payload: its
// geometry and the codec parameters. It never contains the message.
type Manifest struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"manifest" msgpack:"-" bson:"-"`

	Version        int    `json:"version" yaml:"version" xml:"version" msgpack:"version" bson:"version"`
	Width          int    `json:"width,omitempty" yaml:"width,omitempty" xml:"width,omitempty" msgpack:"width,omitempty" bson:"width,omitempty"`
	Height         int    `json:"height,omitempty" yaml:"height,omitempty" xml:"height,omitempty" msgpack:"height,omitempty" bson:"height,omitempty"`
	Depth          int    `json:"depth,omitempty" yaml:"depth,omitempty" xml:"depth,omitempty" msgpack:"depth,omitempty" bson:"depth,omitempty"`
	Capacity       int    `json:"capacity" yaml:"capacity" xml:"capacity" msgpack:"capacity" bson:"capacity"`
	Encrypted      bool   `json:"encrypted" yaml:"encrypted" xml:"encrypted" msgpack:"encrypted" bson:"encrypted"`
	KeyFingerprint string `json:"key_fingerprint,omitempty" yaml:"key_fingerprint,omitempty" xml:"key_fingerprint,omitempty" msgpack:"key_fingerprint,omitempty" bson:"key_fingerprint,omitempty"`
	Config         Config `json:"config" yaml:"config" xml:"config" msgpack:"config" bson:"config"`
}

// NewManifest describes a width×height×depth payload encoded with cfg.
func NewManifest(cfg Config, width, height, depth int) Manifest {
	return Manifest{
		Version:  ManifestVersion,
		Width:    width,
		Height:   height,
		Depth:    depth,
		Capacity: Capacity(width, height, depth),
		Config:   cfg,
	}
}

// Validate checks the version, geometry and embedded config.
func (m Manifest) Validate() error {
	if m.Version != ManifestVersion {
		return newConfigError("Version", m.Version)
	}
	if m.Capacity < 1 {
		return newConfigError("Capacity", m.Capacity)
	}
	if m.Width != 0 || m.Height != 0 || m.Depth != 0 {
		if got := Capacity(m.Width, m.Height, m.Depth); got != m.Capacity {
			return newConfigError("Capacity", fmt.Sprintf("%d != %dx%dx%d", m.Capacity, m.Width, m.Height, m.Depth))
		}
	}
	return m.Config.Validate()
}

// MarshalManifest validates m and encodes it with c.
func MarshalManifest(c Codec, m Manifest) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	data, err := c.Marshal(m)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// UnmarshalManifest decodes and validates a manifest. Config fields absent
// from data keep their DefaultConfig values.
func UnmarshalManifest(c Codec, data []byte) (Manifest, error) {
	m := Manifest{Config: DefaultConfig()}
	if err := c.Unmarshal(data, &m); err != nil {
		return Manifest{}, newCodecError(ErrUnmarshal, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// LoadConfig decodes a config document over DefaultConfig and validates it.
func LoadConfig(c Codec, data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := c.Unmarshal(data, &cfg); err != nil {
		return Config{}, newCodecError(ErrUnmarshal, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
