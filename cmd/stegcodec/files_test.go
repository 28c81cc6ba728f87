package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/zoobzio/stegcodec"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"m.json", "application/json", false},
		{"m.yaml", "application/yaml", false},
		{"M.YML", "application/yaml", false},
		{"dir/m.xml", "application/xml", false},
		{"m.msgpack", "application/msgpack", false},
		{"m.mp", "application/msgpack", false},
		{"m.bson", "application/bson", false},
		{"m.toml", "", true},
		{"manifest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := codecFor(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("codecFor(%q) should fail", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("codecFor(%q) error: %v", tt.path, err)
			}
			if got := c.ContentType(); got != tt.want {
				t.Errorf("ContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteReadBits(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		bits     int
		fileSize int
	}{
		{"whole bytes", 16, 2},
		{"padded", 13, 2},
		{"single bit", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := make([]uint8, tt.bits)
			for i := range bits {
				bits[i] = uint8(i % 2)
			}
			path := filepath.Join(dir, tt.name+".bin")

			if err := writeBits(path, bits); err != nil {
				t.Fatalf("writeBits() error: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat() error: %v", err)
			}
			if info.Size() != int64(tt.fileSize) {
				t.Errorf("file size = %d, want %d", info.Size(), tt.fileSize)
			}

			got, err := readBits(path, tt.bits)
			if err != nil {
				t.Fatalf("readBits() error: %v", err)
			}
			if len(got) != tt.bits {
				t.Fatalf("len(readBits()) = %d, want %d", len(got), tt.bits)
			}
			for i := range bits {
				if got[i] != bits[i] {
					t.Fatalf("bit %d = %d, want %d", i, got[i], bits[i])
				}
			}
		})
	}
}

func TestWriteBits_InputUntouched(t *testing.T) {
	bits := make([]uint8, 5, 16)
	bits[0] = 1
	if err := writeBits(filepath.Join(t.TempDir(), "p.bin"), bits); err != nil {
		t.Fatalf("writeBits() error: %v", err)
	}
	if len(bits) != 5 || bits[0] != 1 {
		t.Errorf("writeBits() modified its input: %v", bits)
	}
}

func TestReadBits_ShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, []byte{0xFF}, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := readBits(path, 9); err == nil {
		t.Error("readBits() should fail when the file holds fewer bits than capacity")
	}
}

func TestManifestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := stegcodec.NewManifest(stegcodec.DefaultConfig(), 100, 100, 3)

	for _, ext := range []string{".json", ".yaml", ".xml", ".msgpack", ".bson"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "manifest"+ext)
			if err := writeManifest(path, m); err != nil {
				t.Fatalf("writeManifest() error: %v", err)
			}
			got, err := readManifest(path)
			if err != nil {
				t.Fatalf("readManifest() error: %v", err)
			}
			got.XMLName = m.XMLName
			if got != m {
				t.Errorf("readManifest() = %+v, want %+v", got, m)
			}
		})
	}
}

func TestCommandDoesNotLinkTesting(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("Glob() error: %v", err)
	}

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("ParseFile(%s) error: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if path == "testing" || strings.HasSuffix(path, "/testing") {
				t.Errorf("%s imports %q", name, path)
			}
		}
	}
}
