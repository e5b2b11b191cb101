package chain

import (
	"errors"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
)

// ErrSwapBroken rejects a candidate chain whose previous-hash linking or
// timestamp ordering does not hold (§4.4 swap_chain preconditions, §6.4).
var ErrSwapBroken = errors.New("chain: candidate chain fails link/timestamp validation")

// AdoptSnapshot implements the clone protocol's chain adoption (§4.4
// swap_chain, §4.8, §6.4): the initiator has already stopped mining and
// cleared its own chain before fetching the snapshot, so adoption is
// unconditional rather than a fork-choice comparison (§Non-goals: no
// reorg beyond the miner's one-block race check, no cumulative-work
// fork-choice rule). Only I1 (previous-hash linking) and I2
// (non-decreasing timestamps) are checked, and only as the clone rule in
// §6.4 describes it: a chain under three blocks skips inter-block checks
// entirely (degenerate case), and for three or more blocks only indices 0
// through len-2 are checked against their successor.
func (s *State) AdoptSnapshot(newChain []chaintypes.Block, peers []chaintypes.PeerAddr, difficulty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(newChain) >= 3 {
		for i := 0; i < len(newChain)-1; i++ {
			cur := newChain[i]
			next := newChain[i+1]
			if next.PreviousHash != cur.Hash {
				return ErrSwapBroken
			}
			if next.Timestamp < cur.Timestamp {
				return ErrSwapBroken
			}
		}
	}

	chain := make([]chaintypes.Block, len(newChain))
	copy(chain, newChain)
	chainHashes := make(map[string]bool, len(chain))
	chainTxDigests := make(map[string]bool)
	for _, block := range chain {
		chainHashes[block.Hash] = true
		for _, tx := range block.Transactions {
			chainTxDigests[tx.ContentDigest(s.digest)] = true
		}
	}

	s.chain = chain
	s.chainHashes = chainHashes
	s.chainTxDigests = chainTxDigests
	s.mempool = make(map[string]chaintypes.Transaction)
	s.mempoolOrder = nil

	s.peers = nil
	s.peerDigests = make(map[string]bool)
	for _, p := range peers {
		s.addPeerLocked(p)
	}

	s.difficulty = difficulty
	return nil
}
