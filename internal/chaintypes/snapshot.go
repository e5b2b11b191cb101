package chaintypes

import (
	"fmt"
	"strconv"

	"github.com/arejula27/goblockchain-node/internal/codec"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

const snapshotTypeName = "Blockchain"

// Snapshot is the abridged clone-protocol response (§4.8, §6.3): difficulty,
// known peers, and the full chain. It deliberately carries no mempool and
// no wallet identity.
type Snapshot struct {
	Difficulty   int64
	NetworkNodes []PeerAddr
	Chain        []Block
}

// Encode renders the "difficulty, networkNodes, chain" frame.
func (s Snapshot) Encode(dp digest.Provider) string {
	builder := codec.NewBuilder(snapshotTypeName)
	builder.Scalar("difficulty", strconv.FormatInt(s.Difficulty, 10))
	peerEncodings := make([]string, len(s.NetworkNodes))
	for i, p := range s.NetworkNodes {
		peerEncodings[i] = p.Encode()
	}
	builder.Compound("networkNodes", peerEncodings)
	blockEncodings := make([]string, len(s.Chain))
	for i, b := range s.Chain {
		blockEncodings[i] = b.EncodeFull(dp)
	}
	builder.Compound("chain", blockEncodings)
	return builder.String()
}

// DecodeSnapshot parses a clone-protocol Blockchain snapshot frame.
func DecodeSnapshot(dp digest.Provider, frame string) (Snapshot, error) {
	fields, err := codec.Parse(snapshotTypeName, frame)
	if err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	if s.Difficulty, err = decodeIntField(fields, "difficulty"); err != nil {
		return Snapshot{}, err
	}
	peerField, ok := fields["networkNodes"]
	if !ok {
		return Snapshot{}, fmt.Errorf("chaintypes: missing field %q", "networkNodes")
	}
	peerEncodings, err := codec.DecodeCompound(peerField)
	if err != nil {
		return Snapshot{}, fmt.Errorf("chaintypes: field %q: %w", "networkNodes", err)
	}
	s.NetworkNodes = make([]PeerAddr, len(peerEncodings))
	for i, enc := range peerEncodings {
		p, err := DecodePeerAddr(enc)
		if err != nil {
			return Snapshot{}, fmt.Errorf("chaintypes: peer %d: %w", i, err)
		}
		s.NetworkNodes[i] = p
	}
	chainField, ok := fields["chain"]
	if !ok {
		return Snapshot{}, fmt.Errorf("chaintypes: missing field %q", "chain")
	}
	blockEncodings, err := codec.DecodeCompound(chainField)
	if err != nil {
		return Snapshot{}, fmt.Errorf("chaintypes: field %q: %w", "chain", err)
	}
	s.Chain = make([]Block, len(blockEncodings))
	for i, enc := range blockEncodings {
		b, err := DecodeBlock(dp, enc)
		if err != nil {
			return Snapshot{}, fmt.Errorf("chaintypes: block %d: %w", i, err)
		}
		s.Chain[i] = b
	}
	return s, nil
}
