package stegcodec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func TestAESCBC_RoundTrip(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		c, err := AESCBC(size)
		if err != nil {
			t.Fatalf("AESCBC(%d) error: %v", size, err)
		}
		if c.KeySize() != size || c.IVSize() != 16 {
			t.Errorf("KeySize() = %d, IVSize() = %d, want %d, 16", c.KeySize(), c.IVSize(), size)
		}

		key := make([]byte, size)
		iv := make([]byte, 16)
		_, _ = rand.Read(key)
		_, _ = rand.Read(iv)

		for _, n := range []int{0, 1, 15, 16, 17, 200} {
			plaintext := bytes.Repeat([]byte{'p'}, n)
			ciphertext, err := c.Encrypt(key, iv, plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if len(ciphertext)%16 != 0 || len(ciphertext) <= n {
				t.Errorf("len(ciphertext) = %d for %d bytes of plaintext", len(ciphertext), n)
			}

			decrypted, err := c.Decrypt(key, iv, ciphertext)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
			}
		}
	}
}

func TestAESCBC_KnownAnswer(t *testing.T) {
	// NIST SP 800-38A F.2.5, first block, followed by a full padding block.
	key, _ := hex.DecodeString("603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	iv, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	plaintext, _ := hex.DecodeString("6bc1bee22e409f96e93d7e117393172a")
	want, _ := hex.DecodeString("f58c4c04d6e5f1ba779eabfb5f7bfbd6")

	c, _ := AESCBC(32)
	ciphertext, err := c.Encrypt(key, iv, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if !bytes.Equal(ciphertext[:16], want) {
		t.Errorf("first block = %x, want %x", ciphertext[:16], want)
	}
	if len(ciphertext) != 32 {
		t.Errorf("len(ciphertext) = %d, want 32", len(ciphertext))
	}
}

func TestAESCBC_InvalidKeySize(t *testing.T) {
	if _, err := AESCBC(20); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("AESCBC(20) error = %v, want ErrInvalidKey", err)
	}

	c, _ := AESCBC(32)
	if _, err := c.Encrypt(make([]byte, 16), make([]byte, 16), []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Encrypt(short key) error = %v, want ErrInvalidKey", err)
	}
	if _, err := c.Encrypt(make([]byte, 32), make([]byte, 8), []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Encrypt(short iv) error = %v, want ErrInvalidKey", err)
	}
}

func TestAESCBC_CiphertextShort(t *testing.T) {
	c, _ := AESCBC(32)
	for _, n := range []int{0, 15, 17} {
		_, err := c.Decrypt(make([]byte, 32), make([]byte, 16), make([]byte, n))
		if !errors.Is(err, ErrCiphertextShort) {
			t.Errorf("Decrypt(%d bytes) error = %v, want ErrCiphertextShort", n, err)
		}
	}
}

func TestAESCBC_BadPadding(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)

	// Encrypt a block whose last byte is not valid padding.
	block, _ := aes.NewCipher(key)
	raw := bytes.Repeat([]byte{0x00}, 16)
	ciphertext := make([]byte, 16)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, raw)

	c, _ := AESCBC(32)
	if _, err := c.Decrypt(key, iv, ciphertext); !errors.Is(err, ErrInvalidPadding) {
		t.Errorf("Decrypt() error = %v, want ErrInvalidPadding", err)
	}
}

func TestPKCS7(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		pad  byte
	}{
		{"empty", nil, 16},
		{"one", []byte{1}, 15},
		{"full block", bytes.Repeat([]byte{1}, 16), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded := pkcs7Pad(tt.in, 16)
			if len(padded)%16 != 0 || padded[len(padded)-1] != tt.pad {
				t.Fatalf("pkcs7Pad() = %x, want trailing %d", padded, tt.pad)
			}
			out, err := pkcs7Unpad(padded, 16)
			if err != nil {
				t.Fatalf("pkcs7Unpad() error: %v", err)
			}
			if !bytes.Equal(out, tt.in) {
				t.Errorf("pkcs7Unpad() = %x, want %x", out, tt.in)
			}
		})
	}

	bad := append(bytes.Repeat([]byte{1}, 14), 2, 3)
	if _, err := pkcs7Unpad(bad, 16); !errors.Is(err, ErrInvalidPadding) {
		t.Errorf("pkcs7Unpad(mismatched) error = %v, want ErrInvalidPadding", err)
	}
}

func TestRSAOAEP_RoundTrip(t *testing.T) {
	priv := testKeyPair(t)

	for _, h := range []OAEPHash{OAEPSHA1, OAEPSHA256, ""} {
		t.Run(string(h), func(t *testing.T) {
			c, err := RSAOAEP(&priv.PublicKey, priv, h)
			if err != nil {
				t.Fatalf("RSAOAEP() error: %v", err)
			}

			plaintext := []byte("a 32 byte symmetric key........!")
			ciphertext, err := c.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if len(ciphertext) != priv.Size() {
				t.Errorf("len(ciphertext) = %d, want %d", len(ciphertext), priv.Size())
			}

			decrypted, err := c.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
			}
		})
	}
}

func TestRSAOAEP_DefaultIsSHA1(t *testing.T) {
	priv := testKeyPair(t)
	c, _ := RSAOAEP(&priv.PublicKey, priv, OAEPSHA1)

	ciphertext, _ := c.Encrypt([]byte("key"))

	// A SHA-256 decrypt must reject a SHA-1 ciphertext.
	if _, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ciphertext, nil); err == nil {
		t.Error("SHA-1 ciphertext decrypted with SHA-256")
	}
}

func TestRSAOAEP_MissingKey(t *testing.T) {
	priv := testKeyPair(t)

	encOnly, _ := RSAOAEP(&priv.PublicKey, nil, OAEPSHA1)
	ciphertext, _ := encOnly.Encrypt([]byte("key"))
	if _, err := encOnly.Decrypt(ciphertext); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Decrypt() without private key error = %v, want ErrMissingKey", err)
	}

	none, _ := RSAOAEP(nil, nil, OAEPSHA1)
	if _, err := none.Encrypt([]byte("key")); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Encrypt() without public key error = %v, want ErrMissingKey", err)
	}

	decOnly, _ := RSAOAEP(nil, priv, OAEPSHA1)
	if _, err := decOnly.Encrypt([]byte("key")); err != nil {
		t.Errorf("Encrypt() with derived public key error: %v", err)
	}
}

func TestRSAOAEP_InvalidHash(t *testing.T) {
	_, err := RSAOAEP(nil, nil, "md5")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("RSAOAEP(md5) error = %v, want ErrInvalidConfig", err)
	}
}
