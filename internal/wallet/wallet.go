// Package wallet implements the §6.5 wallet collaborator: load_or_create,
// sign, and address. Key-pair persistence on the local filesystem is out of
// scope for the core itself (spec.md §1), but the core still needs a
// concrete, runnable collaborator to sign transactions and claim mining
// rewards — this package is that default implementation, persisting a key
// under a data directory the way p2p.LoadOrCreateIdentity persists a libp2p
// identity key: generate on first run, read back on every run after.
package wallet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arejula27/goblockchain-node/internal/cryptoprovider"
)

const keyFileName = "wallet.key"

// Wallet is a single-account signer: an address plus the private key used
// to sign outgoing transactions and claim mining rewards.
type Wallet struct {
	name     string
	provider cryptoprovider.Provider
	keyPair  cryptoprovider.KeyPair
}

// Address returns the wallet's public address.
func (w *Wallet) Address() string { return w.keyPair.Address() }

// Sign produces a signature over data under this wallet's key.
func (w *Wallet) Sign(data []byte) ([]byte, error) { return w.keyPair.Sign(data) }

// Algorithm returns the name of the crypto provider backing this wallet.
func (w *Wallet) Algorithm() string { return w.provider.Name() }

// LoadOrCreate loads wallet "name"'s key from dataDir, generating and
// persisting a fresh key pair under the given algorithm if none exists.
func LoadOrCreate(dataDir, name, algorithm string) (*Wallet, error) {
	provider, err := cryptoprovider.Get(algorithm)
	if err != nil {
		return nil, err
	}

	keyPath := filepath.Join(dataDir, name, keyFileName)
	data, err := os.ReadFile(keyPath)
	if err == nil {
		kp, err := provider.UnmarshalKeyPair(data)
		if err != nil {
			return nil, fmt.Errorf("wallet: unmarshal %s key: %w", name, err)
		}
		return &Wallet{name: name, provider: provider, keyPair: kp}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("wallet: read %s key: %w", name, err)
	}

	kp, err := provider.Generate()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate %s key: %w", name, err)
	}

	raw, err := provider.MarshalKeyPair(kp)
	if err != nil {
		return nil, fmt.Errorf("wallet: marshal %s key: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("wallet: create wallet dir: %w", err)
	}
	if err := os.WriteFile(keyPath, raw, 0600); err != nil {
		return nil, fmt.Errorf("wallet: write %s key: %w", name, err)
	}

	return &Wallet{name: name, provider: provider, keyPair: kp}, nil
}
