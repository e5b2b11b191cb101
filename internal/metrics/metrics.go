// Package metrics exposes the node's Prometheus gauges/counters (§C
// "/metrics HTTP endpoint"), adapted from the teacher's pool-specific
// gauge set in this same package to the chain/mempool/peer quantities this
// node actually tracks.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arejula27/goblockchain-node/internal/chain"
)

var (
	ChainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goblockchain",
		Name:      "chain_height",
		Help:      "Number of blocks in the local chain.",
	})

	MempoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goblockchain",
		Name:      "mempool_size",
		Help:      "Number of transactions pending in the mempool.",
	})

	PeersConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goblockchain",
		Name:      "peers_connected",
		Help:      "Number of known gossip peers.",
	})

	Difficulty = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goblockchain",
		Name:      "difficulty",
		Help:      "Current target difficulty.",
	})

	MiningEnabled = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goblockchain",
		Name:      "mining_enabled",
		Help:      "1 if the mining flag is set, 0 otherwise.",
	})

	BlocksMined = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goblockchain",
		Name:      "blocks_mined_total",
		Help:      "Total blocks self-mined and accepted.",
	})

	BlocksAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goblockchain",
		Name:      "blocks_accepted_total",
		Help:      "Total blocks accepted onto the chain, self-mined or gossiped.",
	})

	TransactionsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goblockchain",
		Name:      "transactions_accepted_total",
		Help:      "Total transactions accepted into the mempool.",
	})

	TransactionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goblockchain",
		Name:      "transactions_rejected_total",
		Help:      "Total transactions rejected, by reason.",
	}, []string{"reason"})

	BlocksRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goblockchain",
		Name:      "blocks_rejected_total",
		Help:      "Total blocks rejected, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(
		ChainHeight,
		MempoolSize,
		PeersConnected,
		Difficulty,
		MiningEnabled,
		BlocksMined,
		BlocksAccepted,
		TransactionsAccepted,
		TransactionsRejected,
		BlocksRejected,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint (§C).
func Handler() http.Handler {
	return promhttp.Handler()
}

// Sample snapshots a chain.State's Status into the gauges. Counters are
// updated inline by their own call sites (the server's accept_transaction
// and accept_block dispatch).
func Sample(status chain.Status) {
	ChainHeight.Set(float64(status.ChainLength))
	MempoolSize.Set(float64(status.MempoolSize))
	PeersConnected.Set(float64(status.PeerCount))
	Difficulty.Set(float64(status.Difficulty))
	if status.MiningEnabled {
		MiningEnabled.Set(1)
	} else {
		MiningEnabled.Set(0)
	}
}
