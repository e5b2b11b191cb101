// Package nonceprovider implements the §9 redesign note for nonce
// generation: the original alternates between a module-level incrementing
// counter and a secure random draw shared across the whole process. This
// package instead gives each miner its own provider instance, the way the
// teacher constructs a fresh rand.Rand or counter per worker rather than
// sharing mutable package state across goroutines.
package nonceprovider

import (
	"crypto/rand"
	"encoding/binary"
)

// maxNonce bounds generated nonces to [0, 2^31), matching the original's
// random-mode range. Uniqueness across calls is not required: the PoW loop
// tolerates nonce collisions and simply rehashes.
const maxNonce = 1 << 31

// Provider yields successive nonce candidates for one miner instance.
type Provider interface {
	Next() (int64, error)
}

type randomProvider struct{}

// New returns a provider drawing from crypto/rand, avoiding the
// correlated, predictable sequences an incrementing counter would produce
// under concurrent restarts.
func New() Provider {
	return &randomProvider{}
}

func (p *randomProvider) Next() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(buf[:])
	return int64(v % maxNonce), nil
}

// Counting is an alternative, deterministic provider useful in tests: it
// increments from a starting value and wraps at maxNonce, matching the
// original's "addition mode".
type Counting struct {
	next int64
}

// NewCounting starts a deterministic provider at start (must be in
// [0, 2^31)).
func NewCounting(start int64) *Counting {
	return &Counting{next: start % maxNonce}
}

func (c *Counting) Next() (int64, error) {
	n := c.next
	c.next = (c.next + 1) % maxNonce
	return n, nil
}
