// Package node assembles the orchestrator (C9): it wires the chain core,
// miner, gossip server/broadcaster, peer store, and metrics endpoint
// together from one config.Options, and owns their startup/shutdown.
package node

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/clockprovider"
	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/digest"
	"github.com/arejula27/goblockchain-node/internal/gossip"
	"github.com/arejula27/goblockchain-node/internal/metrics"
	"github.com/arejula27/goblockchain-node/internal/miner"
	"github.com/arejula27/goblockchain-node/internal/nonceprovider"
	"github.com/arejula27/goblockchain-node/internal/peerstore"
	"github.com/arejula27/goblockchain-node/internal/wallet"
)

// metricsSampleInterval is how often the node snapshots chain.State into
// the metrics gauges.
const metricsSampleInterval = 5 * time.Second

// Node is the assembled, runnable node: every collaborator named in §2's
// component table, wired together.
type Node struct {
	cfg    config.Options
	logger *zap.Logger

	State       *chain.State
	Wallet      *wallet.Wallet
	Server      *gossip.Server
	Broadcaster *gossip.Broadcaster
	Miner       *miner.Miner
	Peers       *peerstore.Store

	metricsServer *http.Server
}

// New constructs every collaborator but starts nothing; call Run to start
// serving.
func New(cfg config.Options, logger *zap.Logger) (*Node, error) {
	dp, err := digest.New(cfg.DigestAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("node: digest provider: %w", err)
	}

	w, err := wallet.LoadOrCreate(cfg.DataDir, cfg.WalletName, cfg.CryptoAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("node: load wallet: %w", err)
	}

	state := chain.New(dp, clockprovider.New(), cfg)

	peers, err := peerstore.Open(filepath.Join(cfg.DataDir, "peers.db"), dp)
	if err != nil {
		return nil, fmt.Errorf("node: open peer store: %w", err)
	}
	persisted, err := peers.All()
	if err != nil {
		return nil, fmt.Errorf("node: load persisted peers: %w", err)
	}
	for _, p := range persisted {
		state.AddPeer(p)
	}

	broadcaster := gossip.NewBroadcaster(state, cfg.BroadcastTimeout, logger)

	server, err := gossip.NewServer(fmt.Sprintf(":%d", cfg.SocketPort), state, broadcaster, cfg.BroadcastTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("node: bind gossip server: %w", err)
	}

	m := miner.New(state, nonceprovider.New(), clockprovider.New(), w, broadcaster, cfg, logger)

	return &Node{
		cfg:         cfg,
		logger:      logger,
		State:       state,
		Wallet:      w,
		Server:      server,
		Broadcaster: broadcaster,
		Miner:       m,
		Peers:       peers,
	}, nil
}

// Run starts the gossip server, the miner, and (if configured) the
// /metrics endpoint, then blocks until ctx is cancelled (§5 cooperative
// shutdown).
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("starting node",
		zap.String("address", n.Wallet.Address()),
		zap.Int("socketPort", n.cfg.SocketPort),
	)

	go n.Server.Serve()
	go n.Miner.Run(ctx)

	if n.cfg.MetricsPort != 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		n.metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", n.cfg.MetricsPort), Handler: mux}
		go func() {
			if err := n.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				n.logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	go n.sampleMetricsLoop(ctx)
	go n.persistPeersLoop(ctx)

	<-ctx.Done()
	return n.Shutdown()
}

// Shutdown stops the gossip server and metrics endpoint and closes the
// peer store. The miner and sampling loops exit on their own once ctx is
// cancelled by the caller.
func (n *Node) Shutdown() error {
	if err := n.Server.Shutdown(); err != nil {
		n.logger.Warn("gossip server shutdown error", zap.Error(err))
	}
	if n.metricsServer != nil {
		n.metricsServer.Close()
	}
	return n.Peers.Close()
}

func (n *Node) sampleMetricsLoop(ctx context.Context) {
	ticker := time.NewTicker(metricsSampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.Sample(n.State.Status())
		}
	}
}

// persistPeersLoop periodically flushes newly-seen peers to the on-disk
// address book (§C peer address persistence). Add is idempotent, so
// re-persisting an already-known peer is cheap.
func (n *Node) persistPeersLoop(ctx context.Context) {
	ticker := time.NewTicker(metricsSampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range n.State.Peers() {
				if err := n.Peers.Add(p); err != nil {
					n.logger.Warn("persist peer failed", zap.Error(err))
				}
			}
		}
	}
}
