package gossip

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

// Broadcaster implements §4.7: fan-out a gossip item to every known peer,
// pruning any peer that errors during the exchange. There is no
// acknowledged delivery and no retry — fan-out is best-effort, and the
// sender does not avoid echoing back to the item's originator (the
// recipient's own duplicate check absorbs that).
type Broadcaster struct {
	state   *chain.State
	dp      digest.Provider
	timeout time.Duration
	logger  *zap.Logger
}

// NewBroadcaster constructs a Broadcaster fanning out against state's peer
// set, using timeout as the connect+read bound for each peer (§5, ~5s).
func NewBroadcaster(state *chain.State, timeout time.Duration, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{state: state, dp: state.Digest(), timeout: timeout, logger: logger}
}

// Broadcast sends "<verb>, <encoded-payload>\n" to every known peer.
func (b *Broadcaster) Broadcast(verb, encodedItem string) {
	line := verb + ", " + encodePayload(encodedItem) + "\n"
	for _, peer := range b.state.Peers() {
		b.sendOne(peer, line)
	}
}

// BroadcastBlock fans out a newly-sealed or newly-accepted block.
func (b *Broadcaster) BroadcastBlock(block chaintypes.Block) {
	b.Broadcast(VerbBroadcastedBlock, block.EncodeFull(b.dp))
}

// BroadcastTransaction fans out a newly-accepted transaction.
func (b *Broadcaster) BroadcastTransaction(tx chaintypes.Transaction) {
	b.Broadcast(VerbBroadcastedTransaction, tx.EncodeFull())
}

// BroadcastNewNode fans out a newly-joined peer.
func (b *Broadcaster) BroadcastNewNode(peer chaintypes.PeerAddr) {
	b.Broadcast(VerbBroadcastedNewNode, peer.Encode())
}

func (b *Broadcaster) sendOne(peer chaintypes.PeerAddr, line string) {
	addr := fmt.Sprintf("%s:%d", peer.InetAddress, peer.InetPort)
	conn, err := net.DialTimeout("tcp", addr, b.timeout)
	if err != nil {
		b.evict(peer, err)
		return
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(b.timeout))
	if _, err := conn.Write([]byte(line)); err != nil {
		b.evict(peer, err)
		return
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)
	if !scanner.Scan() {
		b.evict(peer, scanner.Err())
		return
	}
	b.logger.Debug("broadcast delivered", zap.String("peer", addr), zap.String("reply", scanner.Text()))
}

func (b *Broadcaster) evict(peer chaintypes.PeerAddr, err error) {
	b.logger.Warn("broadcast peer evicted", zap.String("peer", peer.InetAddress), zap.Int("port", peer.InetPort), zap.Error(err))
	b.state.RemovePeer(peer)
}
