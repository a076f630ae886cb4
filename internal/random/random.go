// Package random provides the uniform random sources used for sampling
// password characters.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source draws uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// cryptoSource feeds math/rand/v2 from crypto/rand.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// New returns a source backed by the operating system's random generator.
func New() Source {
	return rand.New(cryptoSource{})
}

// NewSeeded returns a deterministic source, for tests and reproducible runs.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Choice returns a uniformly chosen element of items.
// It panics if items is empty.
func Choice[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
