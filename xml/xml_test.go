package xml

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/stegcodec"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	cfg := stegcodec.DefaultConfig()
	cfg.ParityBytes = 32
	cfg.Compression = stegcodec.CompressZstd
	cfg.OAEPHash = stegcodec.OAEPSHA256

	original := stegcodec.NewManifest(cfg, 256, 256, 3)
	original.Encrypted = true
	original.KeyFingerprint = "0123456789abcdef0123456789abcdef"

	data, err := MarshalManifest(original)
	if err != nil {
		t.Fatalf("MarshalManifest() error: %v", err)
	}

	restored, err := UnmarshalManifest(data)
	if err != nil {
		t.Fatalf("UnmarshalManifest() error: %v", err)
	}

	restored.XMLName = original.XMLName
	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	c := New()

	cfg := stegcodec.DefaultConfig()
	cfg.MaxDecodeAttempts = 80
	cfg.AllowTruncation = true

	data, err := c.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	restored, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if restored != cfg {
		t.Errorf("LoadConfig() = %+v, want %+v", restored, cfg)
	}
}

func TestMarshalManifestInvalid(t *testing.T) {
	m := stegcodec.NewManifest(stegcodec.DefaultConfig(), 0, 0, 0)

	_, err := MarshalManifest(m)
	if !errors.Is(err, stegcodec.ErrInvalidConfig) {
		t.Errorf("MarshalManifest() error = %v, want ErrInvalidConfig", err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	_, err := UnmarshalManifest([]byte("<manifest><version>"))
	if !errors.Is(err, stegcodec.ErrUnmarshal) {
		t.Errorf("UnmarshalManifest(invalid) error = %v, want ErrUnmarshal", err)
	}

	var codecErr *stegcodec.CodecError
	if !errors.As(err, &codecErr) {
		t.Errorf("UnmarshalManifest(invalid) error type = %T, want *CodecError", err)
	}
}

func TestMarshalHasHeader(t *testing.T) {
	data, err := MarshalManifest(stegcodec.NewManifest(stegcodec.DefaultConfig(), 10, 10, 1))
	if err != nil {
		t.Fatalf("MarshalManifest() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Errorf("MarshalManifest() = %q, want XML declaration prefix", data)
	}
	if !strings.Contains(string(data), "<manifest>") {
		t.Errorf("MarshalManifest() = %q, want <manifest> root", data)
	}
}
