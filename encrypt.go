package stegcodec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" // #nosec G505 -- OAEP-SHA1 is required to open envelopes from common RSA toolkits
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
)

// Encryption errors.
var (
	ErrInvalidPadding  = errors.New("invalid padding")
	ErrCiphertextShort = errors.New("ciphertext too short")
)

// SymmetricCipher encrypts message bodies with an explicit key and IV.
type SymmetricCipher interface {
	// KeySize returns the key length in bytes.
	KeySize() int

	// IVSize returns the initialization vector length in bytes.
	IVSize() int

	// Encrypt encrypts plaintext under key and iv.
	Encrypt(key, iv, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext under key and iv.
	Decrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// AsymmetricCipher encrypts small secrets for a key holder.
type AsymmetricCipher interface {
	// Encrypt encrypts plaintext with the public key.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with the private key.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// aesCBC implements AES in CBC mode with PKCS#7 padding.
type aesCBC struct {
	keySize int
}

// AESCBC returns an AES-CBC cipher.
// keySize must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AESCBC(keySize int) (SymmetricCipher, error) {
	if keySize != 16 && keySize != 24 && keySize != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKey, keySize)
	}
	return &aesCBC{keySize: keySize}, nil
}

func (c *aesCBC) KeySize() int { return c.keySize }

func (c *aesCBC) IVSize() int { return aes.BlockSize }

func (c *aesCBC) block(key, iv []byte) (cipher.Block, error) {
	if len(key) != c.keySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKey, len(key), c.keySize)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv is %d bytes, want %d", ErrInvalidKey, len(iv), aes.BlockSize)
	}
	return aes.NewCipher(key)
}

func (c *aesCBC) Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := c.block(key, iv)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func (c *aesCBC) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := c.block(key, iv)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a positive multiple of %d", ErrCiphertextShort, len(ciphertext), aes.BlockSize)
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

// pkcs7Pad always adds between 1 and size bytes.
func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

// rsaOAEP implements RSA-OAEP encryption.
type rsaOAEP struct {
	pub     *rsa.PublicKey
	priv    *rsa.PrivateKey
	newHash func() hash.Hash
}

// RSAOAEP returns an RSA-OAEP cipher using h for both OAEP and MGF1.
// pub is required for encryption; priv is required for decryption.
// Either can be nil if only one operation is needed. When priv is set and
// pub is nil, the public half of priv is used.
func RSAOAEP(pub *rsa.PublicKey, priv *rsa.PrivateKey, h OAEPHash) (AsymmetricCipher, error) {
	var newHash func() hash.Hash
	switch h {
	case OAEPSHA1, "":
		newHash = sha1.New
	case OAEPSHA256:
		newHash = sha256.New
	default:
		return nil, newConfigError("OAEPHash", h)
	}
	if pub == nil && priv != nil {
		pub = &priv.PublicKey
	}
	return &rsaOAEP{pub: pub, priv: priv, newHash: newHash}, nil
}

func (e *rsaOAEP) Encrypt(plaintext []byte) ([]byte, error) {
	if e.pub == nil {
		return nil, fmt.Errorf("%w: public key required for encryption", ErrMissingKey)
	}
	return rsa.EncryptOAEP(e.newHash(), rand.Reader, e.pub, plaintext, nil)
}

func (e *rsaOAEP) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.priv == nil {
		return nil, fmt.Errorf("%w: private key required for decryption", ErrMissingKey)
	}
	return rsa.DecryptOAEP(e.newHash(), rand.Reader, e.priv, ciphertext, nil)
}
