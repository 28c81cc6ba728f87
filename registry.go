package stegcodec

import (
	"strconv"
	"sync"
)

// registryKey identifies a cached FEC or compressor.
type registryKey struct {
	kind  string
	param string
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// UseReedSolomon returns a cached Reed–Solomon FEC or builds a new one.
// Building the generator polynomial is repeated work for every processor
// sharing a parity size.
func UseReedSolomon(parity int) (ForwardErrorCorrection, error) {
	key := registryKey{kind: "rs", param: strconv.Itoa(parity)}
	return use(key, func() (ForwardErrorCorrection, error) {
		return ReedSolomon(parity)
	})
}

// UseCompressor returns a cached compressor or builds a new one.
func UseCompressor(algo CompressAlgo, maxOutput int) (Compressor, error) {
	key := registryKey{kind: "compress:" + string(algo), param: strconv.Itoa(maxOutput)}
	return use(key, func() (Compressor, error) {
		return NewCompressor(algo, maxOutput)
	})
}

func use[T any](key registryKey, build func() (T, error)) (T, error) {
	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(T), nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached.(T), nil
	}

	built, err := build()
	if err != nil {
		var zero T
		return zero, err
	}

	registry[key] = built
	return built, nil
}

// Reset clears the registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}
