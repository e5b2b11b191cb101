package chain

import (
	"sync"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/clockprovider"
	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

// genesisPreviousHash is the literal previous-hash value of the genesis
// block (§3).
const genesisPreviousHash = "0"

// State holds every piece of node state named in §3/§5 under one coarse
// lock: the chain, mempool, peer set, difficulty, and mining flag. Hashing
// during nonce search must never happen while this lock is held (§5) — the
// miner snapshots what it needs and releases before searching for a nonce.
type State struct {
	mu sync.Mutex

	digest digest.Provider
	clock  clockprovider.Provider
	opts   config.Options

	chain          []chaintypes.Block
	chainHashes    map[string]bool
	chainTxDigests map[string]bool // tx digests ever included in a chain block (I6/I7)
	mempoolOrder   []string        // tx digests in insertion order, for stable fee-sort ties
	mempool        map[string]chaintypes.Transaction
	peers         []chaintypes.PeerAddr
	peerDigests   map[string]bool
	difficulty    int64
	miningEnabled bool
}

// New constructs an empty chain core: no genesis block, mempool, or peers.
// The genesis block is minted the same way any other block is — by the
// miner's ordinary Sealing loop, which treats an empty chain's previous
// hash as "0" (§3, §9 Q1).
func New(dp digest.Provider, clock clockprovider.Provider, opts config.Options) *State {
	return &State{
		digest:        dp,
		clock:         clock,
		opts:          opts,
		chainHashes:    make(map[string]bool),
		chainTxDigests: make(map[string]bool),
		mempool:        make(map[string]chaintypes.Transaction),
		peerDigests:   make(map[string]bool),
		difficulty:    opts.InitDifficulty,
		miningEnabled: opts.MiningEnabled,
	}
}

// Digest returns the configured digest provider, for collaborators that
// need to encode/decode wire frames outside the lock (e.g. the gossip
// server building a clone snapshot).
func (s *State) Digest() digest.Provider { return s.digest }

// Len returns the chain length.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chain)
}

// Difficulty returns the current target difficulty.
func (s *State) Difficulty() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// MiningEnabled reports the mining flag.
func (s *State) MiningEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.miningEnabled
}

// SetMiningEnabled implements the startMining/stopMining verbs (§4.6).
func (s *State) SetMiningEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.miningEnabled = enabled
}

// MempoolSize returns the number of pending transactions.
func (s *State) MempoolSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mempool)
}

// PeerCount returns the number of known peers.
func (s *State) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// Status is the §C algorithm-info introspection accessor, used by metrics
// and logging (not a new wire verb).
type Status struct {
	ChainLength   int
	MempoolSize   int
	PeerCount     int
	MiningEnabled bool
	Difficulty    int64
	DigestAlgo    string
}

// Status snapshots the node's current state for metrics/logging.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ChainLength:   len(s.chain),
		MempoolSize:   len(s.mempool),
		PeerCount:     len(s.peers),
		MiningEnabled: s.miningEnabled,
		Difficulty:    s.difficulty,
		DigestAlgo:    s.digest.Algorithm(),
	}
}

// tipHash returns the current tip's hash, or the genesis previous-hash
// literal if the chain is empty. Caller must hold s.mu.
func (s *State) tipHash() string {
	if len(s.chain) == 0 {
		return genesisPreviousHash
	}
	return s.chain[len(s.chain)-1].Hash
}

// Tip returns the current chain tip's hash and length. Safe for concurrent
// callers that only need to detect whether the tip moved.
func (s *State) Tip() (hash string, length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tipHash(), len(s.chain)
}

// Chain returns a copy of the full chain, e.g. for building a clone
// snapshot or serving cloneBlockchain.
func (s *State) Chain() []chaintypes.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chaintypes.Block, len(s.chain))
	copy(out, s.chain)
	return out
}

// Peers returns a copy of the known peer set, insertion ordered.
func (s *State) Peers() []chaintypes.PeerAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chaintypes.PeerAddr, len(s.peers))
	copy(out, s.peers)
	return out
}

// BlocksSince returns the blocks appended after the block whose hash is
// prevHash, exclusive, or the whole chain if prevHash is the genesis
// previous-hash literal. Used by the miner to find which transactions a
// peer's block already confirmed when reconciling a stale candidate (§4.5).
func (s *State) BlocksSince(prevHash string) []chaintypes.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prevHash != genesisPreviousHash {
		for i, b := range s.chain {
			if b.Hash == prevHash {
				out := make([]chaintypes.Block, len(s.chain)-i-1)
				copy(out, s.chain[i+1:])
				return out
			}
		}
	}
	out := make([]chaintypes.Block, len(s.chain))
	copy(out, s.chain)
	return out
}

// AddPeer inserts p if not already known (dedup by digest, §3). Reports
// whether it was newly added.
func (s *State) AddPeer(p chaintypes.PeerAddr) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPeerLocked(p)
}

func (s *State) addPeerLocked(p chaintypes.PeerAddr) bool {
	id := p.Digest(s.digest)
	if s.peerDigests[id] {
		return false
	}
	s.peerDigests[id] = true
	s.peers = append(s.peers, p)
	return true
}

// RemovePeer prunes p from the set, e.g. after an I/O failure reaching it
// (§4.7). Reports whether it was present.
func (s *State) RemovePeer(p chaintypes.PeerAddr) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := p.Digest(s.digest)
	if !s.peerDigests[id] {
		return false
	}
	delete(s.peerDigests, id)
	for i, existing := range s.peers {
		if existing.Digest(s.digest) == id {
			s.peers = append(s.peers[:i], s.peers[i+1:]...)
			break
		}
	}
	return true
}
