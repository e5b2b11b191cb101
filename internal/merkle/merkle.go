// Package merkle builds the deterministic transaction digest (C3): a
// balanced binary tree over an ordered list of transaction content digests,
// duplicating an odd trailing node at every level the way the teacher's
// sharechain package derives deterministic roll-up values from an ordered
// leaf set.
package merkle

import "github.com/arejula27/goblockchain-node/internal/digest"

// Root computes the Merkle root of an ordered list of leaf hex digests
// (normally transaction content digests). An empty list's root is the
// digest of the empty string, matching TransactionMerkleTree.get_merkle_root
// on an empty tree.
func Root(dp digest.Provider, leaves []string) string {
	if len(leaves) == 0 {
		return dp.Digest([]byte(""))
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, dp.Digest([]byte(left+right)))
		}
		level = next
	}
	return level[0]
}
