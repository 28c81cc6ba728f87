package stegcodec

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestBytesToBits(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []uint8
	}{
		{"empty", nil, []uint8{}},
		{"zero", []byte{0x00}, []uint8{0, 0, 0, 0, 0, 0, 0, 0}},
		{"msb first", []byte{0x80}, []uint8{1, 0, 0, 0, 0, 0, 0, 0}},
		{"lsb", []byte{0x01}, []uint8{0, 0, 0, 0, 0, 0, 0, 1}},
		{"two bytes", []byte{0xA5, 0xFF}, []uint8{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BytesToBits(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("BytesToBits(%x) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBitsToBytes(t *testing.T) {
	tests := []struct {
		name string
		in   []uint8
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"one byte", []uint8{1, 0, 1, 0, 0, 1, 0, 1}, []byte{0xA5}},
		{"partial group dropped", []uint8{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, []byte{0xFF}},
		{"short input", []uint8{1, 1, 1}, []byte{}},
		{"nonzero reads as one", []uint8{2, 0, 0, 0, 0, 0, 0, 255}, []byte{0x81}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BitsToBytes(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("BitsToBytes(%v) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestBits_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 64; n++ {
		data := make([]byte, n)
		rng.Read(data)

		bits := BytesToBits(data)
		if len(bits) != 8*n {
			t.Fatalf("len(BytesToBits(%d bytes)) = %d, want %d", n, len(bits), 8*n)
		}
		if got := BitsToBytes(bits); !bytes.Equal(got, data) {
			t.Fatalf("round-trip failed for %x: got %x", data, got)
		}
	}
}

func TestBits_AllByteValues(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	if got := BitsToBytes(BytesToBits(data)); !bytes.Equal(got, data) {
		t.Error("round-trip failed over all byte values")
	}
}
