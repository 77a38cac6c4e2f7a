package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curvescope/internal/chain"
	"curvescope/internal/config"
	"curvescope/internal/explorer"
	"curvescope/internal/model"
	"curvescope/internal/registry"
	"curvescope/internal/storage"
)

// Explorer APIs cap paged queries at 10000 records.
const (
	fetchPageSize = 1000
	fetchMaxPages = 10
)

func runFetch(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "pools":
		return fetchPools(ctx, cfg, logger)
	case "txs":
		return fetchTxs(ctx, cfg, logger)
	case "logs":
		return fetchLogs(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown fetch target %q", args[0])
	}
}

func fetchPools(ctx context.Context, cfg config.FetchConfig, logger *zap.Logger) error {
	client := registry.NewClient(cfg.RegistryURL, cfg.MaxRetries, cfg.RetryBackoff, logger)

	pools, err := client.FetchPools(ctx, cfg.Network)
	if err != nil {
		return err
	}
	logger.Info("pools fetched",
		zap.String("network", cfg.Network),
		zap.Int("pools", len(pools)),
	)

	if cfg.RPCURL != "" && cfg.Pool != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		chainID, err := chainClient.GetChainID(ctx)
		if err != nil {
			return fmt.Errorf("chain id: %w", err)
		}

		// Pin one block so every coin's balance comes from the same
		// state, not whatever head each eth_call happens to hit.
		head, err := chainClient.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("latest block: %w", err)
		}
		headTs, err := chainClient.BlockTimestamp(ctx, head)
		if err != nil {
			return fmt.Errorf("block timestamp: %w", err)
		}
		block := new(big.Int).SetUint64(head)

		for i := range pools {
			if !strings.EqualFold(pools[i].Address, cfg.Pool) {
				continue
			}
			if err := registry.RefreshBalances(ctx, chainClient, &pools[i], block, logger); err != nil {
				return fmt.Errorf("refresh balances: %w", err)
			}
			logger.Info("balances refreshed",
				zap.String("pool", pools[i].Address),
				zap.String("chain_id", chainID.String()),
				zap.Uint64("block", head),
				zap.Uint64("block_ts", headTs),
			)
			break
		}
	}

	data, err := json.MarshalIndent(pools, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pools: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(cfg.Out)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(cfg.Out, data, 0o644)
}

func fetchTxs(ctx context.Context, cfg config.FetchConfig, logger *zap.Logger) error {
	if cfg.Pool == "" {
		return fmt.Errorf("pool address is required")
	}
	client, err := explorer.NewClient(cfg.Network, cfg.ExplorerKey, cfg.MaxRetries, cfg.RetryBackoff, logger)
	if err != nil {
		return err
	}

	if err := os.Remove(cfg.TxsOut); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset %s: %w", cfg.TxsOut, err)
	}
	sink := storage.NewJsonlStorage[model.TxRecord](cfg.TxsOut)

	total := 0
	for page := 1; page <= fetchMaxPages; page++ {
		txs, err := client.AccountTxs(ctx, cfg.Pool, page, fetchPageSize)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			break
		}
		if err := sink.PutBatch(txs); err != nil {
			return err
		}
		total += len(txs)
		if len(txs) < fetchPageSize {
			break
		}
	}

	logger.Info("txs fetched",
		zap.String("pool", cfg.Pool),
		zap.Int("txs", total),
		zap.String("out", cfg.TxsOut),
	)
	return nil
}

func fetchLogs(ctx context.Context, cfg config.FetchConfig, logger *zap.Logger) error {
	if cfg.Pool == "" {
		return fmt.Errorf("pool address is required")
	}
	client, err := explorer.NewClient(cfg.Network, cfg.ExplorerKey, cfg.MaxRetries, cfg.RetryBackoff, logger)
	if err != nil {
		return err
	}

	if err := os.Remove(cfg.LogsOut); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset %s: %w", cfg.LogsOut, err)
	}
	sink := storage.NewJsonlStorage[model.LogRecord](cfg.LogsOut)

	total := 0
	for page := 1; page <= fetchMaxPages; page++ {
		logs, err := client.AccountLogs(ctx, cfg.Pool, 0, 99999999, page, fetchPageSize)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			break
		}
		if err := sink.PutBatch(logs); err != nil {
			return err
		}
		total += len(logs)
		if len(logs) < fetchPageSize {
			break
		}
	}

	logger.Info("logs fetched",
		zap.String("pool", cfg.Pool),
		zap.Int("logs", total),
		zap.String("out", cfg.LogsOut),
	)
	return nil
}
