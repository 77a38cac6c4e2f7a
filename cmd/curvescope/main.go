package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "curvescope",
		Short:        "Curve pool activity classifier and report generator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	classifyTxsCmd := &cobra.Command{
		Use:   "classify-txs",
		Short: "Classify raw transactions into canonical pool operations",
		RunE:  runClassifyTxs,
	}
	addClassifyFlags(classifyTxsCmd)
	root.AddCommand(classifyTxsCmd)

	classifyLogsCmd := &cobra.Command{
		Use:   "classify-logs",
		Short: "Classify raw event logs into canonical pool operations",
		RunE:  runClassifyLogs,
	}
	addClassifyFlags(classifyLogsCmd)
	root.AddCommand(classifyLogsCmd)

	reportCmd := &cobra.Command{
		Use:       "report [rates|liquidity|prominent]",
		Short:     "Generate a derived report for one pool",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"rates", "liquidity", "prominent"},
		RunE:      runReport,
	}
	reportCmd.Flags().String("pool", "", "pool address")
	reportCmd.Flags().String("pools", "./data/pools.json", "pool metadata JSON path")
	reportCmd.Flags().String("txs", "", "raw transactions JSONL path")
	reportCmd.Flags().String("logs", "", "raw logs JSONL path")
	reportCmd.Flags().String("out", "", "output JSON path (default stdout)")
	reportCmd.Flags().String("abi", "", "optional pool ABI JSON path")
	reportCmd.Flags().String("min-usd", "10000", "prominence threshold in USD")
	reportCmd.Flags().String("since", "", "ignore records before this time (unix seconds or RFC3339)")
	reportCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persisting results")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(reportCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch [pools|txs|logs]",
		Short: "Fetch pool metadata or raw history from upstream APIs",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	fetchCmd.Flags().String("network", "ethereum", "network name")
	fetchCmd.Flags().String("rpc", "", "RPC URL for refreshing on-chain balances")
	fetchCmd.Flags().String("registry-url", "", "pools API base URL override")
	fetchCmd.Flags().String("explorer-key", "", "explorer API key")
	fetchCmd.Flags().String("pool", "", "pool address (txs and logs fetches)")
	fetchCmd.Flags().String("out", "./data/pools.json", "pool metadata output path")
	fetchCmd.Flags().String("txs-out", "./data/txs.jsonl", "transactions output path")
	fetchCmd.Flags().String("logs-out", "./data/logs.jsonl", "logs output path")
	fetchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	fetchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(fetchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addClassifyFlags(cmd *cobra.Command) {
	cmd.Flags().String("pool", "", "pool address")
	cmd.Flags().String("pools", "./data/pools.json", "pool metadata JSON path")
	cmd.Flags().String("in", "", "input JSONL path")
	cmd.Flags().String("out", "./data/transactions.jsonl", "output JSONL path")
	cmd.Flags().String("errors", "./data/parse_errors.jsonl", "parse errors JSONL path")
	cmd.Flags().String("abi", "", "optional pool ABI JSON path")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
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
