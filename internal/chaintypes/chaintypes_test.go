package chaintypes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arejula27/goblockchain-node/internal/digest"
)

func testDigest(t *testing.T) digest.Provider {
	t.Helper()
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	return dp
}

func sampleTx() Transaction {
	return Transaction{
		Sender:    "alice-address",
		Receiver:  "bob-address",
		Amount:    5.5,
		Fee:       0.25,
		Timestamp: 1700000000000,
		Message:   "for lunch",
		Signature: []byte{1, 2, 3, 4},
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	tx := sampleTx()
	decoded, err := DecodeTransaction(tx.EncodeFull())
	require.NoError(t, err)
	require.Equal(t, tx, decoded)
}

func TestTransactionContentOmitsSignature(t *testing.T) {
	tx := sampleTx()
	content := tx.EncodeContent()
	require.NotContains(t, content, "signature:")
}

func TestTransactionContentDigestIgnoresSignature(t *testing.T) {
	dp := testDigest(t)
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.Signature = []byte{9, 9, 9}
	require.Equal(t, tx1.ContentDigest(dp), tx2.ContentDigest(dp))
}

func sampleBlock(dp digest.Provider) Block {
	txs := []Transaction{sampleTx()}
	return Block{
		PreviousHash: "0",
		Hash:         "deadbeef",
		Difficulty:   2,
		Nonce:        42,
		Timestamp:    1700000000000,
		Transactions: txs,
		MerkleRoot:   ComputeMerkleRoot(dp, txs),
		Miner:        "miner-address",
		MinerRewards: 10,
	}
}

func TestBlockRoundTrip(t *testing.T) {
	dp := testDigest(t)
	b := sampleBlock(dp)
	decoded, err := DecodeBlock(dp, b.EncodeFull(dp))
	require.NoError(t, err)
	require.Equal(t, b, decoded)
}

func TestBlockMerkleRootEmptyIsDigestOfEmptyString(t *testing.T) {
	dp := testDigest(t)
	require.Equal(t, dp.Digest([]byte("")), ComputeMerkleRoot(dp, nil))
}

func TestBlockMerkleRootOddDuplicatesLast(t *testing.T) {
	dp := testDigest(t)
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.Message = "different"
	tx3 := sampleTx()
	tx3.Message = "third"

	txs := []Transaction{tx1, tx2, tx3}

	leaf1 := tx1.ContentDigest(dp)
	leaf2 := tx2.ContentDigest(dp)
	leaf3 := tx3.ContentDigest(dp)
	left := dp.Digest([]byte(leaf1 + leaf2))
	right := dp.Digest([]byte(leaf3 + leaf3))
	want := dp.Digest([]byte(left + right))
	require.Equal(t, want, ComputeMerkleRoot(dp, txs))
}

func TestMeetsDifficulty(t *testing.T) {
	require.True(t, MeetsDifficulty("00abc", 2))
	require.False(t, MeetsDifficulty("0abc", 2))
	require.True(t, MeetsDifficulty("anything", 0))
}

func TestMeetsDifficultyAcceptsExtraLeadingZero(t *testing.T) {
	// §8 B4: difficulty+1 leading zeros still satisfies difficulty.
	require.True(t, MeetsDifficulty("000abc", 2))
}

func samplePeer() PeerAddr {
	return PeerAddr{InetAddress: "127.0.0.1", InetPort: 9090}
}

func TestPeerAddrRoundTrip(t *testing.T) {
	p := samplePeer()
	decoded, err := DecodePeerAddr(p.Encode())
	require.NoError(t, err)
	require.Equal(t, p, decoded)
}

func TestSnapshotRoundTrip(t *testing.T) {
	dp := testDigest(t)
	snap := Snapshot{
		Difficulty:   3,
		NetworkNodes: []PeerAddr{samplePeer()},
		Chain:        []Block{sampleBlock(dp)},
	}
	decoded, err := DecodeSnapshot(dp, snap.Encode(dp))
	require.NoError(t, err)
	require.Equal(t, snap, decoded)
}

func TestSnapshotEmptyChainRoundTrip(t *testing.T) {
	dp := testDigest(t)
	snap := Snapshot{Difficulty: 1}
	decoded, err := DecodeSnapshot(dp, snap.Encode(dp))
	require.NoError(t, err)
	require.Equal(t, snap.Difficulty, decoded.Difficulty)
	require.Len(t, decoded.Chain, 0)
	require.Len(t, decoded.NetworkNodes, 0)
}
