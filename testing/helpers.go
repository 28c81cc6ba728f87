// Package testing provides test utilities for stegcodec: shared keys and a
// simulated noisy channel.
package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/zoobzio/stegcodec"
	"github.com/zoobzio/stegcodec/internal/channel"
)

// TestKeyBits is the RSA key size returned by TestKeyPair.
const TestKeyBits = 2048

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
	keyErr  error
)

// TestKeyPair returns a 2048-bit RSA key generated once per test binary.
func TestKeyPair(tb testing.TB) *rsa.PrivateKey {
	tb.Helper()
	keyOnce.Do(func() {
		key, keyErr = rsa.GenerateKey(rand.Reader, TestKeyBits)
	})
	if keyErr != nil {
		tb.Fatalf("rsa.GenerateKey() error: %v", keyErr)
	}
	return key
}

// TestEnvelope returns an envelope over TestKeyPair that can seal and open.
func TestEnvelope(tb testing.TB, opts ...stegcodec.EnvelopeOption) *stegcodec.Envelope {
	tb.Helper()
	priv := TestKeyPair(tb)
	env, err := stegcodec.NewEnvelope(&priv.PublicKey, priv, opts...)
	if err != nil {
		tb.Fatalf("NewEnvelope() error: %v", err)
	}
	return env
}

// TestProcessor returns a processor for cfg, failing the test on error.
func TestProcessor(tb testing.TB, cfg stegcodec.Config) *stegcodec.Processor {
	tb.Helper()
	proc, err := stegcodec.NewProcessor(cfg)
	if err != nil {
		tb.Fatalf("NewProcessor() error: %v", err)
	}
	return proc
}

// FlipBits returns a copy of bits with each bit inverted independently with
// probability rate. The same seed always flips the same positions.
func FlipBits(bits []uint8, rate float64, seed uint64) []uint8 {
	return channel.FlipBits(bits, rate, seed)
}

// GarbleRange returns a copy of bits with [start, end) replaced by random
// bits. The range is clamped to the slice.
func GarbleRange(bits []uint8, start, end int, seed uint64) []uint8 {
	return channel.GarbleRange(bits, start, end, seed)
}

// CorruptBytes returns a copy of bits with every bit of the given bytes
// inverted. Offsets count bytes from the start of bits.
func CorruptBytes(bits []uint8, offsets ...int) []uint8 {
	return channel.CorruptBytes(bits, offsets...)
}
