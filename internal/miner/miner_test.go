package miner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/clockprovider"
	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/digest"
	"github.com/arejula27/goblockchain-node/internal/nonceprovider"
	"github.com/arejula27/goblockchain-node/internal/wallet"
)

type recordingBroadcaster struct {
	blocks []chaintypes.Block
}

func (r *recordingBroadcaster) BroadcastBlock(b chaintypes.Block) {
	r.blocks = append(r.blocks, b)
}

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.LoadOrCreate(t.TempDir(), "miner", "ec")
	require.NoError(t, err)
	return w
}

func testMiner(t *testing.T, s *chain.State, b Broadcaster) *Miner {
	t.Helper()
	opts := config.Defaults()
	opts.InitDifficulty = 1
	logger := zap.NewNop()
	return New(s, nonceprovider.New(), clockprovider.NewMock(), testWallet(t), b, opts, logger)
}

func TestSealOnceMinesGenesisBlock(t *testing.T) {
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	s := chain.New(dp, clockprovider.NewMock(), config.Defaults())

	bcast := &recordingBroadcaster{}
	m := testMiner(t, s, bcast)

	m.sealOnce(context.Background())

	require.Equal(t, 1, s.Len())
	require.Len(t, bcast.blocks, 1)
	require.Equal(t, "0", s.Chain()[0].PreviousHash)
}

func TestSealOnceSkipsWhenDisabled(t *testing.T) {
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	s := chain.New(dp, clockprovider.NewMock(), config.Defaults())
	s.SetMiningEnabled(false)

	m := testMiner(t, s, nil)

	done := make(chan struct{})
	go func() {
		m.sealOnce(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sealOnce did not return promptly while disabled")
	}
	require.Equal(t, 0, s.Len())
}

func TestPublishReconcilesStaleCandidate(t *testing.T) {
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	s := chain.New(dp, clockprovider.NewMock(), config.Defaults())
	m := testMiner(t, s, nil)

	alice := m.wallet.Address()

	// A peer's block lands first, claiming the genesis slot.
	peerBlock := chaintypes.Block{
		PreviousHash: "0",
		Difficulty:   s.Difficulty(),
		Timestamp:    1,
		MerkleRoot:   chaintypes.ComputeMerkleRoot(dp, nil),
		Miner:        "someone-else",
		MinerRewards: 10,
	}
	for nonce := int64(0); ; nonce++ {
		peerBlock.Nonce = nonce
		hash := peerBlock.SealDigest(dp)
		if chaintypes.MeetsDifficulty(hash, s.Difficulty()) {
			peerBlock.Hash = hash
			break
		}
	}
	require.Equal(t, chain.BlockAccepted, s.AcceptBlock(peerBlock))

	// Our own candidate still thinks the tip is genesis.
	candidate := chaintypes.Block{
		PreviousHash: "0",
		Difficulty:   1,
		Hash:         "unused",
		Miner:        alice,
	}

	m.publish(candidate)

	// The candidate was discarded, not appended; the peer's block remains tip.
	require.Equal(t, 1, s.Len())
	require.Equal(t, peerBlock.Hash, s.Chain()[0].Hash)
}
