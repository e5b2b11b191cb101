package chain

import (
	"sort"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
)

// DrainForBlock removes up to maxN mempool transactions in fee-descending
// order, ties broken by insertion order, and returns them (§4.4 "draining
// policy"). The removed transactions are gone from the mempool; callers
// that discard the resulting candidate must reinsert survivors themselves
// (§4.5 stale-tip reconciliation).
func (s *State) DrainForBlock(maxN int) []chaintypes.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drainForBlockLocked(maxN)
}

func (s *State) drainForBlockLocked(maxN int) []chaintypes.Transaction {
	ordered := make([]string, len(s.mempoolOrder))
	copy(ordered, s.mempoolOrder)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.mempool[ordered[i]].Fee > s.mempool[ordered[j]].Fee
	})

	if maxN < len(ordered) {
		ordered = ordered[:maxN]
	}

	out := make([]chaintypes.Transaction, len(ordered))
	for i, digest := range ordered {
		out[i] = s.mempool[digest]
		delete(s.mempool, digest)
		s.mempoolOrder = removeDigest(s.mempoolOrder, digest)
	}
	return out
}

// Requeue reinserts transactions at the head of the mempool, preserving
// their relative order ahead of whatever was already pending. Used when a
// candidate block is discarded because a peer's block landed first (§4.5):
// survivors from the discarded candidate go back to the front of the queue.
func (s *State) Requeue(txs []chaintypes.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(txs) == 0 {
		return
	}
	newOrder := make([]string, 0, len(txs)+len(s.mempoolOrder))
	for _, tx := range txs {
		digest := tx.ContentDigest(s.digest)
		if _, exists := s.mempool[digest]; exists {
			continue
		}
		if s.chainTxDigests[digest] {
			continue
		}
		s.mempool[digest] = tx
		newOrder = append(newOrder, digest)
	}
	s.mempoolOrder = append(newOrder, s.mempoolOrder...)
}
