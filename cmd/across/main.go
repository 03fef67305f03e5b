package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0xlong/across-analytics/internal/config"
	"github.com/0xlong/across-analytics/internal/spokepool"
)

func main() {
	root := &cobra.Command{
		Use:          "across",
		Short:        "Across SpokePool event decoder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw SpokePool logs into flat rows",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input raw logs JSONL, empty or - for stdin")
	decodeCmd.Flags().String("out", "./data/across_rows.jsonl", "output rows JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode diagnostics JSONL")
	decodeCmd.Flags().String("chains", "", "chain registry JSON file")
	decodeCmd.Flags().String("chain", "", "chain name in the registry")
	decodeCmd.Flags().Uint64("chain-id", 0, "chain id, also stamped on logs that lack one")
	decodeCmd.Flags().Int("workers", 0, "decode workers, 0 means GOMAXPROCS")
	decodeCmd.Flags().Int("batch-size", 1024, "logs per decode batch")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "Consume raw logs from NATS and decode continuously",
		RunE:  runStream,
	}

	streamCmd.Flags().String("nats-url", "nats://127.0.0.1:4222", "NATS server URL")
	streamCmd.Flags().String("subject", "across.rawlogs", "NATS subject carrying raw logs")
	streamCmd.Flags().String("queue", "across-decode", "NATS queue group")
	streamCmd.Flags().Int("batch-size", 256, "logs per decode batch")
	streamCmd.Flags().Duration("flush-interval", 2*time.Second, "max time to hold a partial batch")
	streamCmd.Flags().String("chains", "", "chain registry JSON file")
	streamCmd.Flags().String("chain", "", "chain name in the registry")
	streamCmd.Flags().Uint64("chain-id", 0, "chain id, also stamped on logs that lack one")
	streamCmd.Flags().Int("workers", 0, "decode workers, 0 means GOMAXPROCS")
	streamCmd.Flags().String("out", "./data/across_rows.jsonl", "output rows JSONL")
	streamCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode diagnostics JSONL")
	streamCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(streamCmd)

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load decoded rows into Postgres",
		RunE:  runLoad,
	}

	loadCmd.Flags().String("in", "", "decoded rows JSONL, empty or - for stdin")
	loadCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	loadCmd.Flags().Int("batch-size", 1000, "rows per upsert batch")
	loadCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(loadCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// resolveSignatures picks the event signature table for a run. Without a
// chain registry the protocol-global topic hashes apply; with one, the
// selected entry may override any of them.
func resolveSignatures(chainsPath, chainName string, chainID uint64, logger *zap.Logger) (*spokepool.SignatureTable, error) {
	if chainsPath == "" {
		if chainName != "" {
			return nil, fmt.Errorf("--chain %q requires --chains", chainName)
		}
		return spokepool.DefaultSignatureTable(), nil
	}

	table, err := config.LoadChains(chainsPath)
	if err != nil {
		return nil, fmt.Errorf("load chains: %w", err)
	}

	if chainName == "" && chainID == 0 {
		return nil, fmt.Errorf("selecting from %s requires --chain or --chain-id", chainsPath)
	}

	chain, ok := table.Lookup(chainName, chainID)
	if !ok {
		return nil, fmt.Errorf("chain %q (id %d) not found in %s", chainName, chainID, chainsPath)
	}

	logger.Info("using chain registry entry",
		zap.Uint64("chain_id", chain.ChainID),
		zap.String("spoke_pool", chain.SpokePool),
	)

	return spokepool.NewSignatureTable(
		chain.Events.FilledRelay,
		chain.Events.FundsDeposited,
		chain.Events.ExecutedRelayerRefundRoot,
	), nil
}
