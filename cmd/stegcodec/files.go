package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoobzio/stegcodec"
	"github.com/zoobzio/stegcodec/bson"
	"github.com/zoobzio/stegcodec/json"
	"github.com/zoobzio/stegcodec/msgpack"
	"github.com/zoobzio/stegcodec/xml"
	"github.com/zoobzio/stegcodec/yaml"
)

// codecFor picks a manifest codec from the file extension.
func codecFor(path string) (stegcodec.Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.New(), nil
	case ".yaml", ".yml":
		return yaml.New(), nil
	case ".xml":
		return xml.New(), nil
	case ".msgpack", ".mp":
		return msgpack.New(), nil
	case ".bson":
		return bson.New(), nil
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q", filepath.Ext(path))
	}
}

func readManifest(path string) (stegcodec.Manifest, error) {
	c, err := codecFor(path)
	if err != nil {
		return stegcodec.Manifest{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stegcodec.Manifest{}, err
	}
	return stegcodec.UnmarshalManifest(c, data)
}

func writeManifest(path string, m stegcodec.Manifest) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := stegcodec.MarshalManifest(c, m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readConfig(path string) (stegcodec.Config, error) {
	if path == "" {
		return stegcodec.DefaultConfig(), nil
	}
	c, err := codecFor(path)
	if err != nil {
		return stegcodec.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stegcodec.Config{}, err
	}
	return stegcodec.LoadConfig(c, data)
}

// writeBits packs bits into bytes, zero-padding the last byte.
func writeBits(path string, bits []uint8) error {
	padded := bits
	if rem := len(bits) % 8; rem != 0 {
		padded = append(append([]uint8(nil), bits...), make([]uint8, 8-rem)...)
	}
	return os.WriteFile(path, stegcodec.BitsToBytes(padded), 0o644)
}

// readBits unpacks a payload file and trims it to capacity bits.
func readBits(path string, capacity int) ([]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bits := stegcodec.BytesToBits(data)
	if len(bits) < capacity {
		return nil, fmt.Errorf("payload has %d bits, manifest declares %d", len(bits), capacity)
	}
	return bits[:capacity], nil
}

func envelopeOptions(cfg stegcodec.Config) []stegcodec.EnvelopeOption {
	return []stegcodec.EnvelopeOption{
		stegcodec.WithOAEPHash(cfg.OAEPHash),
		stegcodec.WithSymmetricKeyBits(cfg.SymmetricKeyBits),
	}
}

func readPublicKey(path string, cfg stegcodec.Config) (*stegcodec.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pub, err := stegcodec.ParsePublicKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return stegcodec.NewEnvelope(pub, nil, envelopeOptions(cfg)...)
}

func readPrivateKey(path string, cfg stegcodec.Config) (*stegcodec.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	priv, err := stegcodec.ParsePrivateKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return stegcodec.NewEnvelope(nil, priv, envelopeOptions(cfg)...)
}
