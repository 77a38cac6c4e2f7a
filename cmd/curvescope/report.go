package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curvescope/internal/aggregate"
	"curvescope/internal/config"
	"curvescope/internal/curve"
	"curvescope/internal/model"
	"curvescope/internal/storage"
	"curvescope/internal/storage/postgres"
)

func runReport(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pctx, err := loadPoolContext(cfg.Pools, cfg.Pool, cfg.ABI)
	if err != nil {
		return err
	}

	since, err := config.ParseTimestamp(cfg.Since)
	if err != nil {
		return fmt.Errorf("parse since: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	switch args[0] {
	case "rates":
		return reportRates(ctx, cfg, logger, pctx, store)
	case "liquidity":
		return reportLiquidity(cfg, logger, pctx, since)
	case "prominent":
		return reportProminent(ctx, cfg, logger, pctx, since, store)
	default:
		return fmt.Errorf("unknown report %q", args[0])
	}
}

func reportRates(ctx context.Context, cfg config.ReportConfig, logger *zap.Logger, pctx *curve.PoolContext, store *postgres.Store) error {
	if cfg.Logs == "" {
		return fmt.Errorf("logs path is required")
	}
	logs, err := storage.ReadJsonl[model.LogRecord](cfg.Logs)
	if err != nil {
		return err
	}

	classifier := curve.NewLogClassifier(logger)
	records, _, stats := classifier.ClassifyBatch(pctx, logs)

	graph := aggregate.BuildExchangeRateGraph(pctx, records)
	if graph == nil {
		logger.Info("no exchange rates derived",
			zap.String("pool", pctx.Meta.Address),
			zap.Int("total", stats.Total))
		return writeReport(cfg.Out, struct{}{})
	}
	graph.Incomplete = stats.Incomplete()

	if store != nil {
		for pair, points := range graph.Pairs {
			if err := store.UpsertRatePoints(ctx, pctx.Meta.Address, pair, points); err != nil {
				return fmt.Errorf("persist %s rates: %w", pair, err)
			}
		}
	}

	logger.Info("rates report complete",
		zap.String("pool", pctx.Meta.Address),
		zap.Int("pairs", len(graph.Pairs)),
		zap.Bool("incomplete", graph.Incomplete),
	)
	return writeReport(cfg.Out, graph)
}

func reportLiquidity(cfg config.ReportConfig, logger *zap.Logger, pctx *curve.PoolContext, since uint64) error {
	if cfg.Txs == "" {
		return fmt.Errorf("txs path is required")
	}
	txs, err := storage.ReadJsonl[model.TxRecord](cfg.Txs)
	if err != nil {
		return err
	}

	builder := aggregate.NewLiquidityHistoryBuilder(curve.NewTxClassifier(logger), logger)
	history := builder.Build(pctx, txs, time.Unix(int64(since), 0).UTC())
	if history == nil {
		logger.Info("no liquidity flows derived", zap.String("pool", pctx.Meta.Address))
		return writeReport(cfg.Out, struct{}{})
	}

	logger.Info("liquidity report complete",
		zap.String("pool", pctx.Meta.Address),
		zap.Int("days", len(history.Graph)),
	)
	return writeReport(cfg.Out, history)
}

func reportProminent(ctx context.Context, cfg config.ReportConfig, logger *zap.Logger, pctx *curve.PoolContext, since uint64, store *postgres.Store) error {
	if cfg.Txs == "" {
		return fmt.Errorf("txs path is required")
	}
	minUsd, err := decimal.NewFromString(cfg.MinUsd)
	if err != nil {
		return fmt.Errorf("parse min-usd: %w", err)
	}

	// Without an explicit --since, resume from the last persisted run.
	// Replaying the resume second is harmless, the upserts are idempotent.
	stateName := "prominent:" + strings.ToLower(pctx.Meta.Address)
	if store != nil && cfg.Since == "" {
		stored, ok, err := store.LoadState(ctx, stateName)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if ok {
			since = stored
		}
	}

	txs, err := storage.ReadJsonl[model.TxRecord](cfg.Txs)
	if err != nil {
		return err
	}

	filter := aggregate.NewProminentFilter(curve.NewTxClassifier(logger), logger)
	prominent := filter.Filter(pctx, txs, minUsd, since)

	if store != nil {
		if err := store.UpsertTransactions(ctx, prominent); err != nil {
			return fmt.Errorf("persist transactions: %w", err)
		}
		if latest := aggregate.LatestTimestamp(prominent); latest > 0 {
			if err := store.SaveState(ctx, stateName, latest); err != nil {
				return fmt.Errorf("save state: %w", err)
			}
		}
	}

	logger.Info("prominent report complete",
		zap.String("pool", pctx.Meta.Address),
		zap.Int("matched", len(prominent)),
		zap.String("min_usd", minUsd.String()),
	)
	return writeReport(cfg.Out, prominent)
}

func writeReport(path string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
