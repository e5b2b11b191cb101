// Package testutil holds shared fixtures for the chain/gossip/miner test
// suites: sample accounts, signed transactions, and a no-op logger, so each
// package's tests don't re-derive the same boilerplate.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/cryptoprovider"
)

// Account is a generated key pair plus its address, for signing sample
// transactions in tests.
type Account struct {
	KeyPair cryptoprovider.KeyPair
	Address string
}

// NewAccount generates a fresh EC account.
func NewAccount(t *testing.T) Account {
	t.Helper()
	provider, err := cryptoprovider.Get("ec")
	require.NoError(t, err)
	kp, err := provider.Generate()
	require.NoError(t, err)
	return Account{KeyPair: kp, Address: kp.Address()}
}

// SignedTransaction builds and signs a transaction from "from" to "to"
// (§3, §6.2).
func SignedTransaction(t *testing.T, from Account, to string, amount, fee float64, timestamp int64) chaintypes.Transaction {
	t.Helper()
	tx := chaintypes.Transaction{
		Sender:    from.Address,
		Receiver:  to,
		Amount:    amount,
		Fee:       fee,
		Timestamp: timestamp,
		Message:   "",
	}
	sig, err := from.KeyPair.Sign([]byte(tx.EncodeContent()))
	require.NoError(t, err)
	tx.Signature = sig
	return tx
}

// SamplePeer returns a sample peer address for join/clone tests.
func SamplePeer(port int) chaintypes.PeerAddr {
	return chaintypes.PeerAddr{InetAddress: "127.0.0.1", InetPort: port}
}
