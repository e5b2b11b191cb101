// Command nodectl starts a single blockchain node: it parses flags into a
// config.Options, assembles a node.Node, and runs it until SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/node"
)

func main() {
	defaults := config.Defaults()

	socketPort := flag.Int("socket-port", defaults.SocketPort, "gossip server listen port")
	metricsPort := flag.Int("metrics-port", defaults.MetricsPort, "/metrics listen port (0 disables)")
	dataDir := flag.String("data-dir", defaults.DataDir, "directory for the wallet key and peer address book")
	walletName := flag.String("wallet-name", defaults.WalletName, "local wallet identity name")
	digestAlgorithm := flag.String("digest", defaults.DigestAlgorithm, "digest provider (sha256, sha512)")
	cryptoAlgorithm := flag.String("crypto", defaults.CryptoAlgorithm, "crypto provider (ec, rsa)")
	initDifficulty := flag.Int64("init-difficulty", defaults.InitDifficulty, "starting difficulty")
	adjustEvery := flag.Int64("adjust-every", defaults.AdjustEvery, "retarget window, in blocks")
	targetBlockSeconds := flag.Int64("target-block-seconds", defaults.TargetBlockSeconds, "target seconds between blocks")
	miningRewards := flag.Float64("mining-rewards", defaults.MiningRewards, "fixed reward paid to the miner of each block")
	maxTxPerBlock := flag.Int("max-tx-per-block", defaults.MaxTxPerBlock, "max transactions drained into one candidate block")
	miningEnabled := flag.Bool("mining-enabled", defaults.MiningEnabled, "start with the mining flag set")
	dev := flag.Bool("dev", false, "use a development (console, debug-level) logger instead of production JSON")
	flag.Parse()

	logger, err := buildLogger(*dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := defaults
	cfg.SocketPort = *socketPort
	cfg.MetricsPort = *metricsPort
	cfg.DataDir = *dataDir
	cfg.WalletName = *walletName
	cfg.DigestAlgorithm = *digestAlgorithm
	cfg.CryptoAlgorithm = *cryptoAlgorithm
	cfg.InitDifficulty = *initDifficulty
	cfg.AdjustEvery = *adjustEvery
	cfg.TargetBlockSeconds = *targetBlockSeconds
	cfg.MiningRewards = *miningRewards
	cfg.MaxTxPerBlock = *maxTxPerBlock
	cfg.MiningEnabled = *miningEnabled

	n, err := node.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to assemble node", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := n.Run(ctx); err != nil {
		logger.Fatal("node exited with error", zap.Error(err))
	}
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
