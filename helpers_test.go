package stegcodec

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

// testKeyPair returns a 2048-bit key shared by every test in the package.
func testKeyPair(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatalf("GenerateKey() error: %v", testKeyErr)
	}
	return testKey
}

func testEnvelope(t testing.TB, opts ...EnvelopeOption) *Envelope {
	t.Helper()
	priv := testKeyPair(t)
	env, err := NewEnvelope(&priv.PublicKey, priv, opts...)
	if err != nil {
		t.Fatalf("NewEnvelope() error: %v", err)
	}
	return env
}

func testProcessor(t testing.TB, mutate func(*Config)) *Processor {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	proc, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}
	return proc
}

// corruptBytes inverts every bit of the bytes at the given offsets.
func corruptBytes(bits []uint8, offsets ...int) {
	for _, off := range offsets {
		for i := off * 8; i < off*8+8 && i < len(bits); i++ {
			bits[i] ^= 1
		}
	}
}

// byteRange returns offsets [start, start+n).
func byteRange(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
