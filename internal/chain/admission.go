package chain

import (
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/cryptoprovider"
)

// AcceptTransaction runs the §4.4 admission checks in order and, on
// Accepted, appends tx to the mempool. Every failure is terminal for this
// tx: there is no retry path.
func (s *State) AcceptTransaction(tx chaintypes.Transaction) TxResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	senderProvider, err := cryptoprovider.Detect(tx.Sender)
	if err != nil {
		return TxBadFormat
	}
	if _, err := cryptoprovider.Detect(tx.Receiver); err != nil {
		return TxBadFormat
	}

	if len(tx.Signature) != senderProvider.SignatureLength() {
		return TxBadFormat
	}

	ok, err := senderProvider.Verify(tx.Sender, []byte(tx.EncodeContent()), tx.Signature)
	if err != nil || !ok {
		return TxInvalidSig
	}

	if s.balanceLocked(tx.Sender) < tx.Amount+tx.Fee {
		return TxInsufficient
	}

	txDigest := tx.ContentDigest(s.digest)
	if _, inMempool := s.mempool[txDigest]; inMempool {
		return TxDuplicate
	}
	if s.chainTxDigests[txDigest] {
		return TxDuplicate
	}

	s.mempool[txDigest] = tx
	s.mempoolOrder = append(s.mempoolOrder, txDigest)
	return TxAccepted
}

// AcceptBlock runs the §4.4 admission checks in order and, on Accepted,
// appends block to the chain and drains any now-confirmed transactions out
// of the mempool. Retargeting is the caller's responsibility (§9 Q1): only
// the miner invokes it, and only after its own self-mined block lands.
func (s *State) AcceptBlock(block chaintypes.Block) BlockResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainHashes[block.Hash] {
		return BlockDuplicate
	}

	if block.PreviousHash != s.tipHash() {
		return BlockNotTipLinked
	}

	if block.Difficulty != s.difficulty {
		return BlockBadDifficulty
	}
	if !chaintypes.MeetsDifficulty(block.Hash, block.Difficulty) {
		return BlockBadDifficulty
	}

	if block.SealDigest(s.digest) != block.Hash {
		return BlockBadSeal
	}

	if chaintypes.ComputeMerkleRoot(s.digest, block.Transactions) != block.MerkleRoot {
		return BlockBadMerkle
	}

	for _, tx := range block.Transactions {
		provider, err := cryptoprovider.Detect(tx.Sender)
		if err != nil {
			return BlockBadTxSig
		}
		ok, err := provider.Verify(tx.Sender, []byte(tx.EncodeContent()), tx.Signature)
		if err != nil || !ok {
			return BlockBadTxSig
		}
	}

	s.chain = append(s.chain, block)
	s.chainHashes[block.Hash] = true
	for _, tx := range block.Transactions {
		txDigest := tx.ContentDigest(s.digest)
		s.chainTxDigests[txDigest] = true
		if _, ok := s.mempool[txDigest]; ok {
			delete(s.mempool, txDigest)
			s.mempoolOrder = removeDigest(s.mempoolOrder, txDigest)
		}
	}
	return BlockAccepted
}

func removeDigest(order []string, digest string) []string {
	for i, d := range order {
		if d == digest {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
