package chaintypes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arejula27/goblockchain-node/internal/codec"
	"github.com/arejula27/goblockchain-node/internal/digest"
	"github.com/arejula27/goblockchain-node/internal/merkle"
)

const blockTypeName = "Block"

// Block is a sealed unit of the chain (§3). Hash is the block's seal digest.
// MerkleRoot is a function of Transactions only: builders must set it with
// ComputeMerkleRoot, and DecodeBlock always recomputes it from the decoded
// transactions rather than trusting the wire value (§4.1: "the Merkle-root
// field inside an encoded block is informational").
type Block struct {
	PreviousHash string
	Hash         string
	Difficulty   int64
	Nonce        int64
	Timestamp    int64
	Transactions []Transaction
	MerkleRoot   string
	Miner        string
	MinerRewards float64
}

// ComputeMerkleRoot derives the Merkle root over txs' content digests (C3).
func ComputeMerkleRoot(dp digest.Provider, txs []Transaction) string {
	leaves := make([]string, len(txs))
	for i, t := range txs {
		leaves[i] = t.ContentDigest(dp)
	}
	return merkle.Root(dp, leaves)
}

// EncodeFull renders the full "previousHash, hash, difficulty, nonce,
// timestamp, transactions, merkleTree, miner, minerRewards" frame (§6.3).
func (b Block) EncodeFull(dp digest.Provider) string {
	builder := codec.NewBuilder(blockTypeName)
	builder.Scalar("previousHash", b.PreviousHash)
	builder.Scalar("hash", b.Hash)
	b.appendTailFields(builder, dp)
	return builder.String()
}

// EncodeContent renders the frame with hash omitted — the bytes the seal
// digest is computed over (§3).
func (b Block) EncodeContent(dp digest.Provider) string {
	builder := codec.NewBuilder(blockTypeName)
	builder.Scalar("previousHash", b.PreviousHash)
	b.appendTailFields(builder, dp)
	return builder.String()
}

func (b Block) appendTailFields(builder *codec.Builder, dp digest.Provider) {
	builder.Scalar("difficulty", strconv.FormatInt(b.Difficulty, 10))
	builder.Scalar("nonce", strconv.FormatInt(b.Nonce, 10))
	builder.Scalar("timestamp", strconv.FormatInt(b.Timestamp, 10))
	txEncodings := make([]string, len(b.Transactions))
	for i, t := range b.Transactions {
		txEncodings[i] = t.EncodeFull()
	}
	builder.Compound("transactions", txEncodings)
	builder.Scalar("merkleTree", b.MerkleRoot)
	builder.Scalar("miner", b.Miner)
	builder.Scalar("minerRewards", formatRational(b.MinerRewards))
}

// SealDigest is the digest of EncodeContent: what Hash must equal (I3) and
// what mining searches for a nonce to satisfy.
func (b Block) SealDigest(dp digest.Provider) string {
	return dp.Digest([]byte(b.EncodeContent(dp)))
}

// MeetsDifficulty reports whether hash begins with difficulty leading
// ASCII '0' characters (§4.1/§8 P2).
func MeetsDifficulty(hash string, difficulty int64) bool {
	if int64(len(hash)) < difficulty {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}

// DecodeBlock parses a full Block frame (§4.1, §6.3), recomputing MerkleRoot
// from the decoded transactions rather than trusting the wire value.
func DecodeBlock(dp digest.Provider, frame string) (Block, error) {
	fields, err := codec.Parse(blockTypeName, frame)
	if err != nil {
		return Block{}, err
	}
	var b Block
	if b.PreviousHash, err = decodeScalarField(fields, "previousHash"); err != nil {
		return Block{}, err
	}
	if b.Hash, err = decodeScalarField(fields, "hash"); err != nil {
		return Block{}, err
	}
	if b.Difficulty, err = decodeIntField(fields, "difficulty"); err != nil {
		return Block{}, err
	}
	if b.Nonce, err = decodeIntField(fields, "nonce"); err != nil {
		return Block{}, err
	}
	if b.Timestamp, err = decodeIntField(fields, "timestamp"); err != nil {
		return Block{}, err
	}
	if b.Miner, err = decodeScalarField(fields, "miner"); err != nil {
		return Block{}, err
	}
	if b.MinerRewards, err = decodeRationalField(fields, "minerRewards"); err != nil {
		return Block{}, err
	}
	txField, ok := fields["transactions"]
	if !ok {
		return Block{}, fmt.Errorf("chaintypes: missing field %q", "transactions")
	}
	txEncodings, err := codec.DecodeCompound(txField)
	if err != nil {
		return Block{}, fmt.Errorf("chaintypes: field %q: %w", "transactions", err)
	}
	b.Transactions = make([]Transaction, len(txEncodings))
	for i, enc := range txEncodings {
		t, err := DecodeTransaction(enc)
		if err != nil {
			return Block{}, fmt.Errorf("chaintypes: transaction %d: %w", i, err)
		}
		b.Transactions[i] = t
	}
	b.MerkleRoot = ComputeMerkleRoot(dp, b.Transactions)
	return b, nil
}
