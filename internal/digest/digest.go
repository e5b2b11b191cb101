// Package digest implements the §6.5 digest provider collaborator: a fixed
// hash algorithm producing a hex-encoded digest of arbitrary bytes, the way
// the teacher's pkg/util.DoubleSHA256 wraps crypto/sha256 for a single named
// algorithm.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

// Provider computes the configured digest algorithm over arbitrary bytes.
type Provider interface {
	// Digest returns the hex-encoded digest of data.
	Digest(data []byte) string
	// Algorithm returns the provider's algorithm name.
	Algorithm() string
}

type hashProvider struct {
	name    string
	newHash func() hash.Hash
}

// New returns a Provider for the named algorithm ("sha256" or "sha512").
// sha256 is the network default (§6.6 "Choice of digest algorithm").
func New(name string) (Provider, error) {
	switch name {
	case "", "sha256":
		return &hashProvider{name: "sha256", newHash: sha256.New}, nil
	case "sha512":
		return &hashProvider{name: "sha512", newHash: sha512.New}, nil
	default:
		return nil, fmt.Errorf("digest: unsupported algorithm %q", name)
	}
}

func (p *hashProvider) Digest(data []byte) string {
	h := p.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (p *hashProvider) Algorithm() string {
	return p.name
}

// DigestString is a convenience wrapper matching the original's
// HashMaker.hash_string: digest over the UTF-8 bytes of s.
func DigestString(p Provider, s string) string {
	return p.Digest([]byte(s))
}
