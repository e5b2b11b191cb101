// Package cryptoprovider implements the §4.2/§6.5 pluggable crypto provider
// collaborator: an address scheme plus sign/verify pair, chosen by name at
// startup rather than wired in at compile time. This decouples the config
// layer from the concrete algorithms (§9 redesign note), the way the
// teacher's internal/sharechain package takes a Validator built from
// injected collaborators instead of reaching for globals.
package cryptoprovider

import "fmt"

// KeyPair is a generated, provider-specific private/public key pair. Address
// is the canonical wire form of the public key; Sign produces a signature
// over arbitrary bytes that Provider.Verify can check against Address.
type KeyPair interface {
	Address() string
	Sign(data []byte) ([]byte, error)
}

// Provider implements one wallet address algorithm: key generation, address
// derivation, and signature verification.
type Provider interface {
	// Name is the registry key this provider is looked up by.
	Name() string
	// Generate produces a fresh key pair.
	Generate() (KeyPair, error)
	// Verify reports whether sig is a valid signature over data under the
	// public key encoded in address.
	Verify(address string, data, sig []byte) (bool, error)
	// SignatureLength is the exact byte length this provider's signatures
	// must have (§4.4 check 2: signature length matches the algorithm
	// implied by the sender's address).
	SignatureLength() int
	// Owns reports whether address is syntactically a valid address for
	// this provider, without needing to know the algorithm in advance.
	Owns(address string) bool
	// MarshalKeyPair serializes a key pair produced by Generate for
	// on-disk persistence (§C wallet key persistence).
	MarshalKeyPair(kp KeyPair) ([]byte, error)
	// UnmarshalKeyPair is the inverse of MarshalKeyPair.
	UnmarshalKeyPair(data []byte) (KeyPair, error)
}

var registry = map[string]Provider{}

// Register adds a provider under its own Name(). Called from each
// provider's package init so the registry is populated by import side
// effect, the way the teacher's metrics package self-registers gauges.
func Register(p Provider) {
	registry[p.Name()] = p
}

// Get looks up a provider by name, as chosen in config.Options.
func Get(name string) (Provider, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("cryptoprovider: unknown algorithm %q", name)
	}
	return p, nil
}

// Detect returns the provider that owns address, trying every registered
// provider in turn. This mirrors the original's detect_address_type, which
// inspects an address's shape to recover which algorithm produced it
// without the caller needing to track it separately.
func Detect(address string) (Provider, error) {
	for _, p := range registry {
		if p.Owns(address) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("cryptoprovider: address matches no registered algorithm")
}

func init() {
	Register(NewRSAProvider())
	Register(NewECProvider())
}
