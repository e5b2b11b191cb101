// Package config holds the node's recognized startup options (§6.6). It
// intentionally carries no file-format parser (spec.md §1 excludes
// configuration file parsing); cmd/nodectl populates an Options value from
// command-line flags the way the original's start_blockchain.py reads
// sys.argv, and the rest of the node only ever depends on this struct, not
// on flag or any config-file library — the decoupling the §9 redesign note
// asks for between crypto/config choices.
package config

import "time"

// Options holds every tunable named in §6.6, with the documented defaults.
type Options struct {
	// InitDifficulty is the starting difficulty (§6.6 INIT_DIFFICULTY).
	InitDifficulty int64
	// AdjustEvery is the retarget window in blocks (§6.6
	// ADJUST_DIFFICULTY_IN_EVERY).
	AdjustEvery int64
	// TargetBlockSeconds is the target block interval in seconds (§6.6
	// BLOCK_TIME_IN_EVERY).
	TargetBlockSeconds int64
	// MiningRewards is the fixed per-block reward (§6.6 MINING_REWARDS).
	MiningRewards float64
	// MaxTxPerBlock caps how many mempool transactions a candidate block
	// drains (§6.6 MAX_TRANSACTIONS_IN_BLOCK).
	MaxTxPerBlock int
	// SocketPort is the gossip server's listen port (§6.6 SOCKET_PORT).
	SocketPort int
	// MetricsPort serves the supplemented /metrics endpoint (§C); 0
	// disables it.
	MetricsPort int
	// DigestAlgorithm names the digest provider (§6.6 "Choice of digest
	// algorithm").
	DigestAlgorithm string
	// CryptoAlgorithm names the crypto provider (§6.6 "Choice of crypto
	// algorithm").
	CryptoAlgorithm string
	// WalletName is the local wallet's on-disk identity (§C wallet key
	// persistence).
	WalletName string
	// DataDir is where the wallet key and peer address book are persisted.
	DataDir string
	// MiningEnabled is the initial state of the mining-enabled flag.
	MiningEnabled bool
	// BroadcastTimeout bounds outbound broadcast connect+read (§5, ~5s).
	BroadcastTimeout time.Duration
}

// Defaults returns the §6.6 documented defaults.
func Defaults() Options {
	return Options{
		InitDifficulty:     1,
		AdjustEvery:        10,
		TargetBlockSeconds: 30,
		MiningRewards:      10.0,
		MaxTxPerBlock:      32,
		SocketPort:         5000,
		MetricsPort:        9090,
		DigestAlgorithm:    "sha256",
		CryptoAlgorithm:    "ec",
		WalletName:         "default",
		DataDir:            "./data",
		MiningEnabled:      true,
		BroadcastTimeout:   5 * time.Second,
	}
}
