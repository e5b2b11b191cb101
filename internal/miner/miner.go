// Package miner implements the proof-of-work worker (C6): candidate
// assembly, nonce search outside the state lock, and stale-tip
// reconciliation when a peer's block lands first. It is grounded on the
// teacher's internal/work.Generator — a worker that snapshots shared state
// under a lock, releases it, and does its expensive work (template
// generation there, nonce search here) unlocked.
package miner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/clockprovider"
	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/metrics"
	"github.com/arejula27/goblockchain-node/internal/nonceprovider"
	"github.com/arejula27/goblockchain-node/internal/wallet"
)

// disabledPollInterval is how long the Disabled state sleeps between
// checks of the mining-enabled flag (§4.5).
const disabledPollInterval = 500 * time.Millisecond

// Broadcaster is the fan-out collaborator a sealed block is handed to.
// Satisfied by *gossip.Broadcaster in the assembled node.
type Broadcaster interface {
	BroadcastBlock(block chaintypes.Block)
}

// Miner runs the Disabled/Sealing/Publishing state machine against one
// chain.State. A Miner owns no lock of its own: all synchronization is via
// the state's single coarse-grained lock.
type Miner struct {
	state       *chain.State
	nonce       nonceprovider.Provider
	clock       clockprovider.Provider
	wallet      *wallet.Wallet
	broadcaster Broadcaster
	opts        config.Options
	logger      *zap.Logger
}

// New constructs a Miner. broadcaster may be nil, e.g. in tests that only
// exercise sealing against a single node.
func New(state *chain.State, nonce nonceprovider.Provider, clock clockprovider.Provider, w *wallet.Wallet, broadcaster Broadcaster, opts config.Options, logger *zap.Logger) *Miner {
	return &Miner{
		state:       state,
		nonce:       nonce,
		clock:       clock,
		wallet:      w,
		broadcaster: broadcaster,
		opts:        opts,
		logger:      logger,
	}
}

// Run loops Disabled/Sealing/Publishing until ctx is cancelled (§5
// cooperative shutdown).
func (m *Miner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !m.state.MiningEnabled() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(disabledPollInterval):
			}
			continue
		}

		m.sealOnce(ctx)
	}
}

// sealOnce runs one Sealing attempt to completion (or cancellation) and,
// on success, hands off to Publishing.
func (m *Miner) sealOnce(ctx context.Context) {
	tipHash, _ := m.state.Tip()
	difficulty := m.state.Difficulty()
	txs := m.state.DrainForBlock(m.opts.MaxTxPerBlock)

	candidate := chaintypes.Block{
		PreviousHash: tipHash,
		Difficulty:   difficulty,
		Transactions: txs,
		MerkleRoot:   chaintypes.ComputeMerkleRoot(m.state.Digest(), txs),
		Miner:        m.wallet.Address(),
		MinerRewards: m.opts.MiningRewards,
	}

	for {
		select {
		case <-ctx.Done():
			m.state.Requeue(candidate.Transactions)
			return
		default:
		}
		if !m.state.MiningEnabled() {
			m.state.Requeue(candidate.Transactions)
			return
		}

		nonce, err := m.nonce.Next()
		if err != nil {
			m.logger.Warn("nonce provider error", zap.Error(err))
			continue
		}
		candidate.Nonce = nonce
		candidate.Timestamp = m.clock.NowMillis()

		hash := candidate.SealDigest(m.state.Digest())
		if chaintypes.MeetsDifficulty(hash, difficulty) {
			candidate.Hash = hash
			break
		}
	}

	m.publish(candidate)
}

// publish re-checks the tip before appending a sealed candidate (§4.5): if
// the tip moved while sealing, the candidate is discarded and any
// transactions the winning block did not already confirm are requeued.
func (m *Miner) publish(candidate chaintypes.Block) {
	tipHash, _ := m.state.Tip()
	if tipHash != candidate.PreviousHash {
		m.reconcileStaleCandidate(candidate)
		return
	}

	result := m.state.AcceptBlock(candidate)
	if result != chain.BlockAccepted {
		m.logger.Warn("self-mined block rejected", zap.Stringer("result", result))
		m.state.Requeue(candidate.Transactions)
		return
	}

	m.state.Retarget()
	metrics.BlocksMined.Inc()
	metrics.BlocksAccepted.Inc()
	m.logger.Info("mined block",
		zap.String("hash", candidate.Hash),
		zap.Int64("difficulty", candidate.Difficulty),
		zap.Int("transactions", len(candidate.Transactions)),
	)

	if m.broadcaster != nil {
		m.broadcaster.BroadcastBlock(candidate)
	}
}

func (m *Miner) reconcileStaleCandidate(candidate chaintypes.Block) {
	tail := m.state.BlocksSince(candidate.PreviousHash)
	confirmed := make(map[string]bool)
	dp := m.state.Digest()
	for _, b := range tail {
		for _, tx := range b.Transactions {
			confirmed[tx.ContentDigest(dp)] = true
		}
	}

	survivors := make([]chaintypes.Transaction, 0, len(candidate.Transactions))
	for _, tx := range candidate.Transactions {
		if !confirmed[tx.ContentDigest(dp)] {
			survivors = append(survivors, tx)
		}
	}
	m.state.Requeue(survivors)

	m.logger.Debug("discarding stale candidate; tip moved during sealing",
		zap.String("candidatePreviousHash", candidate.PreviousHash),
		zap.Int("survivingTransactions", len(survivors)),
	)
}
