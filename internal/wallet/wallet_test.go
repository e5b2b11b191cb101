package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arejula27/goblockchain-node/internal/cryptoprovider"
)

func TestLoadOrCreateGeneratesThenPersists(t *testing.T) {
	dir := t.TempDir()

	w1, err := LoadOrCreate(dir, "alice", "ec")
	require.NoError(t, err)
	require.NotEmpty(t, w1.Address())

	w2, err := LoadOrCreate(dir, "alice", "ec")
	require.NoError(t, err)
	require.Equal(t, w1.Address(), w2.Address())
}

func TestWalletSignVerifiesUnderProvider(t *testing.T) {
	dir := t.TempDir()
	w, err := LoadOrCreate(dir, "bob", "rsa")
	require.NoError(t, err)

	msg := []byte("Transaction [sender:...]")
	sig, err := w.Sign(msg)
	require.NoError(t, err)

	p, err := cryptoprovider.Get("rsa")
	require.NoError(t, err)
	ok, err := p.Verify(w.Address(), msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLoadOrCreateUnknownAlgorithm(t *testing.T) {
	_, err := LoadOrCreate(t.TempDir(), "carol", "quantum")
	require.Error(t, err)
}
