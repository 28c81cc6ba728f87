package stegcodec

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// EncryptedEnvelope is the hybrid-encrypted form of a message: the
// symmetric key and IV, each encrypted for the recipient, and the body.
type EncryptedEnvelope struct {
	EncryptedKey []byte
	EncryptedIV  []byte
	Ciphertext   []byte
}

// Pack serializes the envelope as
//
//	u16le(len(key)) || key || u16le(len(iv)) || iv || ciphertext
//
// Length prefixes are little-endian.
func (e EncryptedEnvelope) Pack() ([]byte, error) {
	if len(e.EncryptedKey) > math.MaxUint16 || len(e.EncryptedIV) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: encrypted key or iv exceeds %d bytes", ErrInvalidKey, math.MaxUint16)
	}

	out := make([]byte, 0, 4+len(e.EncryptedKey)+len(e.EncryptedIV)+len(e.Ciphertext))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(e.EncryptedKey))) // #nosec G115 -- bounds checked above
	out = append(out, e.EncryptedKey...)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(e.EncryptedIV))) // #nosec G115 -- bounds checked above
	out = append(out, e.EncryptedIV...)
	out = append(out, e.Ciphertext...)
	return out, nil
}

// Encode renders the packed envelope as standard base64, suitable as a
// message for the payload codec. Pack errors are returned unchanged.
func (e EncryptedEnvelope) Encode() (string, error) {
	packed, err := e.Pack()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// UnpackEnvelope parses the binary form produced by Pack.
func UnpackEnvelope(data []byte) (EncryptedEnvelope, error) {
	var env EncryptedEnvelope

	key, rest, err := readPrefixed(data, "key")
	if err != nil {
		return env, err
	}
	iv, rest, err := readPrefixed(rest, "iv")
	if err != nil {
		return env, err
	}
	if len(rest) == 0 {
		return env, errors.New("missing ciphertext")
	}

	env.EncryptedKey = key
	env.EncryptedIV = iv
	env.Ciphertext = rest
	return env, nil
}

func readPrefixed(data []byte, field string) ([]byte, []byte, error) {
	if len(data) < 2 {
		return nil, nil, fmt.Errorf("%s length prefix truncated", field)
	}
	n := int(binary.LittleEndian.Uint16(data))
	if n == 0 {
		return nil, nil, fmt.Errorf("%s is empty", field)
	}
	if len(data) < 2+n {
		return nil, nil, fmt.Errorf("%s needs %d bytes, %d remain", field, n, len(data)-2)
	}
	return data[2 : 2+n], data[2+n:], nil
}

// legacyEnvelope is the JSON form written by earlier tooling. Both the
// aeskey/aesiv and key/iv spellings are accepted.
type legacyEnvelope struct {
	AESKey     string `json:"aeskey,omitempty"`
	AESIV      string `json:"aesiv,omitempty"`
	Key        string `json:"key,omitempty"`
	IV         string `json:"iv,omitempty"`
	Ciphertext string `json:"ciphertext"`
}

// MarshalLegacyJSON renders the envelope in the legacy JSON form.
func (e EncryptedEnvelope) MarshalLegacyJSON() ([]byte, error) {
	return json.Marshal(legacyEnvelope{
		AESKey:     base64.StdEncoding.EncodeToString(e.EncryptedKey),
		AESIV:      base64.StdEncoding.EncodeToString(e.EncryptedIV),
		Ciphertext: base64.StdEncoding.EncodeToString(e.Ciphertext),
	})
}

func parseLegacyEnvelope(text string) (EncryptedEnvelope, error) {
	var env EncryptedEnvelope
	var legacy legacyEnvelope
	if err := json.Unmarshal([]byte(text), &legacy); err != nil {
		return env, err
	}

	key, iv := legacy.AESKey, legacy.AESIV
	if key == "" {
		key = legacy.Key
	}
	if iv == "" {
		iv = legacy.IV
	}

	fields := []struct {
		name string
		in   string
		out  *[]byte
	}{
		{"key", key, &env.EncryptedKey},
		{"iv", iv, &env.EncryptedIV},
		{"ciphertext", legacy.Ciphertext, &env.Ciphertext},
	}
	for _, f := range fields {
		if f.in == "" {
			return env, fmt.Errorf("%s is missing", f.name)
		}
		decoded, err := base64.StdEncoding.DecodeString(f.in)
		if err != nil {
			return env, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = decoded
	}
	return env, nil
}

// ParseEnvelope parses envelope text: base64 of the binary form first,
// then the legacy JSON form. If neither parses the error wraps
// ErrEnvelopeParse.
func ParseEnvelope(text string) (EncryptedEnvelope, error) {
	text = strings.TrimSpace(text)

	packed, binErr := base64.StdEncoding.DecodeString(text)
	if binErr == nil {
		env, err := UnpackEnvelope(packed)
		if err == nil {
			return env, nil
		}
		binErr = err
	}

	env, jsonErr := parseLegacyEnvelope(text)
	if jsonErr == nil {
		return env, nil
	}

	return EncryptedEnvelope{}, newEnvelopeError(ErrEnvelopeParse, "parse",
		fmt.Errorf("binary: %w; legacy json: %w", binErr, jsonErr))
}

// Envelope seals messages for an RSA key holder and opens them again.
// A fresh symmetric key and IV are drawn from crypto/rand for every Seal.
// Envelopes are immutable and safe for concurrent use.
type Envelope struct {
	sym         SymmetricCipher
	asym        AsymmetricCipher
	fingerprint string
}

// EnvelopeOption configures an Envelope.
type EnvelopeOption func(*envelopeOptions)

type envelopeOptions struct {
	hash    OAEPHash
	keySize int
	sym     SymmetricCipher
	asym    AsymmetricCipher
}

// WithOAEPHash selects the OAEP hash. The default is OAEPSHA1.
func WithOAEPHash(h OAEPHash) EnvelopeOption {
	return func(o *envelopeOptions) { o.hash = h }
}

// WithSymmetricKeyBits selects the AES key size: 128, 192 or 256 bits.
func WithSymmetricKeyBits(bits int) EnvelopeOption {
	return func(o *envelopeOptions) { o.keySize = bits / 8 }
}

// WithCiphers replaces the built-in ciphers.
func WithCiphers(sym SymmetricCipher, asym AsymmetricCipher) EnvelopeOption {
	return func(o *envelopeOptions) {
		o.sym = sym
		o.asym = asym
	}
}

// NewEnvelope returns an envelope for an RSA key pair. pub is required to
// Seal and priv to Open; either may be nil. With only priv, its public half
// is used for sealing.
func NewEnvelope(pub *rsa.PublicKey, priv *rsa.PrivateKey, opts ...EnvelopeOption) (*Envelope, error) {
	o := envelopeOptions{hash: OAEPSHA1, keySize: 32}
	for _, opt := range opts {
		opt(&o)
	}

	sym := o.sym
	if sym == nil {
		var err error
		if sym, err = AESCBC(o.keySize); err != nil {
			return nil, err
		}
	}

	asym := o.asym
	if asym == nil {
		var err error
		if asym, err = RSAOAEP(pub, priv, o.hash); err != nil {
			return nil, err
		}
	}

	if pub == nil && priv != nil {
		pub = &priv.PublicKey
	}

	return &Envelope{sym: sym, asym: asym, fingerprint: KeyFingerprint(pub)}, nil
}

// Fingerprint returns the recipient key fingerprint, or "" without a key.
func (e *Envelope) Fingerprint() string {
	return e.fingerprint
}

// Seal encrypts plaintext and returns the base64 packed envelope.
func (e *Envelope) Seal(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	var retErr error
	var retText string
	defer func() {
		emitEnvelopeSeal(ctx, e.fingerprint, len(retText), time.Since(start), retErr)
	}()

	env, err := e.seal([]byte(plaintext))
	if err != nil {
		retErr = err
		return "", retErr
	}

	text, err := env.Encode()
	if err != nil {
		retErr = newEnvelopeError(ErrCryptoFailure, "pack", err)
		return "", retErr
	}

	retText = text
	return retText, nil
}

func (e *Envelope) seal(plaintext []byte) (EncryptedEnvelope, error) {
	var env EncryptedEnvelope

	key := make([]byte, e.sym.KeySize())
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return env, newEnvelopeError(ErrCryptoFailure, "seal", err)
	}
	iv := make([]byte, e.sym.IVSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return env, newEnvelopeError(ErrCryptoFailure, "seal", err)
	}

	ciphertext, err := e.sym.Encrypt(key, iv, plaintext)
	if err != nil {
		return env, newEnvelopeError(ErrCryptoFailure, "ciphertext", err)
	}

	encKey, err := e.asym.Encrypt(key)
	if err != nil {
		return env, newEnvelopeError(cryptoSentinel(err), "key", err)
	}
	encIV, err := e.asym.Encrypt(iv)
	if err != nil {
		return env, newEnvelopeError(cryptoSentinel(err), "iv", err)
	}

	env.EncryptedKey = encKey
	env.EncryptedIV = encIV
	env.Ciphertext = ciphertext
	return env, nil
}

// Open parses and decrypts envelope text. Parse failures wrap
// ErrEnvelopeParse; decryption failures wrap ErrCryptoFailure.
func (e *Envelope) Open(ctx context.Context, text string) (string, error) {
	start := time.Now()
	var retErr error
	defer func() {
		emitEnvelopeOpen(ctx, e.fingerprint, len(text), time.Since(start), retErr)
	}()

	env, err := ParseEnvelope(text)
	if err != nil {
		retErr = err
		return "", retErr
	}

	plaintext, err := e.OpenEnvelope(env)
	if err != nil {
		retErr = err
		return "", retErr
	}
	return plaintext, nil
}

// OpenEnvelope decrypts an already parsed envelope.
func (e *Envelope) OpenEnvelope(env EncryptedEnvelope) (string, error) {
	key, err := e.asym.Decrypt(env.EncryptedKey)
	if err != nil {
		return "", newEnvelopeError(cryptoSentinel(err), "key", err)
	}
	iv, err := e.asym.Decrypt(env.EncryptedIV)
	if err != nil {
		return "", newEnvelopeError(cryptoSentinel(err), "iv", err)
	}

	plaintext, err := e.sym.Decrypt(key, iv, env.Ciphertext)
	if err != nil {
		return "", newEnvelopeError(ErrCryptoFailure, "ciphertext", err)
	}
	if !utf8.Valid(plaintext) {
		return "", newEnvelopeError(ErrCryptoFailure, "plaintext", ErrInvalidUTF8)
	}
	return string(plaintext), nil
}

// cryptoSentinel keeps ErrMissingKey distinguishable from decrypt failures.
func cryptoSentinel(err error) error {
	if errors.Is(err, ErrMissingKey) {
		return ErrMissingKey
	}
	return ErrCryptoFailure
}

// Encrypt seals plaintext for pub with default settings.
func Encrypt(plaintext string, pub *rsa.PublicKey) (string, error) {
	env, err := NewEnvelope(pub, nil)
	if err != nil {
		return "", err
	}
	return env.Seal(context.Background(), plaintext)
}

// Decrypt opens envelope text with priv and default settings.
func Decrypt(text string, priv *rsa.PrivateKey) (string, error) {
	env, err := NewEnvelope(nil, priv)
	if err != nil {
		return "", err
	}
	return env.Open(context.Background(), text)
}

// KeyFingerprint returns a short BLAKE2b-256 fingerprint of the PKIX
// encoding of pub, or "" for a nil key.
func KeyFingerprint(pub *rsa.PublicKey) string {
	if pub == nil {
		return ""
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(der)
	return hex.EncodeToString(sum[:16])
}
