package gossip

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/metrics"
)

// Server is the gossip accept loop (C7): one goroutine per connection,
// exactly one request/response per connection (§4.6).
type Server struct {
	listener    net.Listener
	state       *chain.State
	broadcaster *Broadcaster
	cloneTimeout time.Duration
	logger      *zap.Logger
	limiter     *ipLimiter
	terminate   atomic.Bool
}

// NewServer binds addr and returns a Server ready for Serve.
func NewServer(addr string, state *chain.State, broadcaster *Broadcaster, cloneTimeout time.Duration, logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:     ln,
		state:        state,
		broadcaster:  broadcaster,
		cloneTimeout: cloneTimeout,
		logger:       logger,
		limiter:      newIPLimiter(20, 40),
	}, nil
}

// Addr returns the listener's bound address, useful when addr was ":0".
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve runs the accept loop until Shutdown closes the listener (§5
// cooperative shutdown).
func (s *Server) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.terminate.Load() {
				return
			}
			s.logger.Warn("accept error", zap.Error(err))
			continue
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		if !s.limiter.allow(host) {
			s.logger.Debug("connection rate limited", zap.String("remote", host))
			conn.Close()
			continue
		}

		go s.handleConn(conn)
	}
}

// Shutdown stops accepting new connections; in-flight handlers finish
// their single request and exit on their own (§5).
func (s *Server) Shutdown() error {
	s.terminate.Store(true)
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)
	if !scanner.Scan() {
		return
	}

	response := s.dispatch(scanner.Text())
	conn.Write([]byte(response + "\n"))
}

// dispatch parses one request line and runs its verb, returning the
// complete response line body (without the trailing newline).
func (s *Server) dispatch(line string) string {
	verb, payload, hasPayload := splitRequest(line)

	switch verb {
	case VerbGetBalance:
		if !hasPayload {
			return encodePayload(tokenError)
		}
		address, err := decodePayload(payload)
		if err != nil {
			return encodePayload(tokenError)
		}
		balance := s.state.Balance(address)
		return encodePayload(strconv.FormatFloat(balance, 'g', -1, 64))

	case VerbDoTransact:
		return s.handleTransaction(payload, hasPayload, true)

	case VerbBroadcastedTransaction:
		return s.handleTransaction(payload, hasPayload, true)

	case VerbBroadcastedBlock:
		return s.handleBlock(payload, hasPayload)

	case VerbJoinNetwork, VerbBroadcastedNewNode:
		return s.handleJoin(payload, hasPayload)

	case VerbGetCloneChainFrom:
		return s.handleCloneFrom(payload, hasPayload)

	case VerbStartMining:
		s.state.SetMiningEnabled(true)
		return encodePayload(tokenOk)

	case VerbStopMining:
		s.state.SetMiningEnabled(false)
		return encodePayload(tokenOk)

	case VerbCloneBlockchain:
		snapshot := chaintypes.Snapshot{
			Difficulty:   s.state.Difficulty(),
			NetworkNodes: s.state.Peers(),
			Chain:        s.state.Chain(),
		}
		// Unwrapped, unlike every other response (§6.1, §9 Q2).
		return snapshot.Encode(s.state.Digest())

	default:
		return encodePayload(tokenError)
	}
}

func (s *Server) handleTransaction(payload string, hasPayload, rebroadcast bool) string {
	if !hasPayload {
		return encodePayload(tokenError)
	}
	raw, err := decodePayload(payload)
	if err != nil {
		return encodePayload(tokenError)
	}
	tx, err := chaintypes.DecodeTransaction(raw)
	if err != nil {
		return encodePayload(tokenError)
	}

	result := s.state.AcceptTransaction(tx)
	if result == chain.TxAccepted {
		metrics.TransactionsAccepted.Inc()
		if rebroadcast && s.broadcaster != nil {
			s.broadcaster.BroadcastTransaction(tx)
		}
	} else {
		metrics.TransactionsRejected.WithLabelValues(result.String()).Inc()
	}
	return encodePayload(txReplyToken(result))
}

func (s *Server) handleBlock(payload string, hasPayload bool) string {
	if !hasPayload {
		return encodePayload(tokenError)
	}
	raw, err := decodePayload(payload)
	if err != nil {
		return encodePayload(tokenError)
	}
	block, err := chaintypes.DecodeBlock(s.state.Digest(), raw)
	if err != nil {
		return encodePayload(tokenError)
	}

	result := s.state.AcceptBlock(block)
	if result == chain.BlockAccepted {
		metrics.BlocksAccepted.Inc()
		if s.broadcaster != nil {
			s.broadcaster.BroadcastBlock(block)
		}
	} else {
		metrics.BlocksRejected.WithLabelValues(result.String()).Inc()
	}
	return encodePayload(blockReplyToken(result))
}

func (s *Server) handleJoin(payload string, hasPayload bool) string {
	if !hasPayload {
		return encodePayload(tokenError)
	}
	raw, err := decodePayload(payload)
	if err != nil {
		return encodePayload(tokenError)
	}
	peer, err := chaintypes.DecodePeerAddr(raw)
	if err != nil {
		return encodePayload(tokenError)
	}

	added := s.state.AddPeer(peer)
	if !added {
		return encodePayload(tokenDup)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastNewNode(peer)
	}
	return encodePayload(tokenOk)
}

func (s *Server) handleCloneFrom(payload string, hasPayload bool) string {
	if !hasPayload {
		return encodePayload(tokenError)
	}
	raw, err := decodePayload(payload)
	if err != nil {
		return encodePayload(tokenError)
	}
	peer, err := chaintypes.DecodePeerAddr(raw)
	if err != nil {
		return encodePayload(tokenError)
	}

	if err := Clone(s.state, peer, s.cloneTimeout, s.logger); err != nil {
		s.logger.Warn("clone from peer failed", zap.Error(err))
		return encodePayload(tokenError)
	}
	return encodePayload(tokenOk)
}

// splitRequest parses "<verb>\n" or "<verb>, <payload>\n" (the trailing
// newline is already stripped by the scanner).
func splitRequest(line string) (verb, payload string, hasPayload bool) {
	idx := strings.Index(line, ", ")
	if idx < 0 {
		return line, "", false
	}
	return line[:idx], line[idx+2:], true
}
