package gossip

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
)

// Clone implements the clone protocol's initiator side (§4.8, C10): stop
// mining, clear the local chain and mempool, connect to target, request its
// chain, validate it, and adopt it wholesale. Mining is deliberately not
// resumed when Clone returns.
func Clone(state *chain.State, target chaintypes.PeerAddr, timeout time.Duration, logger *zap.Logger) error {
	state.SetMiningEnabled(false)
	// The peer set and difficulty are kept until the snapshot replaces them.
	if err := state.AdoptSnapshot(nil, state.Peers(), state.Difficulty()); err != nil {
		return fmt.Errorf("gossip: clear local chain: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", target.InetAddress, target.InetPort)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("gossip: dial clone target %s: %w", addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(VerbCloneBlockchain + "\n")); err != nil {
		return fmt.Errorf("gossip: send cloneBlockchain: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("gossip: read clone response: %w", err)
		}
		return fmt.Errorf("gossip: clone target closed connection without a response")
	}

	// Unlike every other response, the clone snapshot is not base64-wrapped
	// (§6.1, §9 Q2).
	snapshot, err := chaintypes.DecodeSnapshot(state.Digest(), scanner.Text())
	if err != nil {
		return fmt.Errorf("gossip: decode clone snapshot: %w", err)
	}

	if err := state.AdoptSnapshot(snapshot.Chain, snapshot.NetworkNodes, snapshot.Difficulty); err != nil {
		return fmt.Errorf("gossip: adopt clone snapshot: %w", err)
	}

	logger.Info("cloned chain from peer",
		zap.String("peer", addr),
		zap.Int("chainLength", len(snapshot.Chain)),
		zap.Int("peerCount", len(snapshot.NetworkNodes)),
	)
	return nil
}
