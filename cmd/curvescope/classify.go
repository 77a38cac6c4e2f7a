package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curvescope/internal/config"
	"curvescope/internal/curve"
	"curvescope/internal/model"
	"curvescope/internal/storage"
)

func runClassifyTxs(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadClassify(cfgFile, cmd.Flags())
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
	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	txs, err := storage.ReadJsonl[model.TxRecord](cfg.In)
	if err != nil {
		return err
	}

	classifier := curve.NewTxClassifier(logger)
	records, parseErrs, stats := classifier.ClassifyBatch(pctx, txs)

	return writeClassified(cfg, logger, records, parseErrs, stats)
}

func runClassifyLogs(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadClassify(cfgFile, cmd.Flags())
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
	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	logs, err := storage.ReadJsonl[model.LogRecord](cfg.In)
	if err != nil {
		return err
	}

	classifier := curve.NewLogClassifier(logger)
	records, parseErrs, stats := classifier.ClassifyBatch(pctx, logs)

	return writeClassified(cfg, logger, records, parseErrs, stats)
}

func writeClassified(cfg config.ClassifyConfig, logger *zap.Logger, records []model.Transaction, parseErrs []model.ParseError, stats curve.BatchStats) error {
	for _, path := range []string{cfg.Out, cfg.Errors} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reset %s: %w", path, err)
		}
	}

	if err := storage.NewJsonlStorage[model.Transaction](cfg.Out).PutBatch(records); err != nil {
		return err
	}
	if err := storage.NewJsonlStorage[model.ParseError](cfg.Errors).PutBatch(parseErrs); err != nil {
		return err
	}

	logger.Info("classify complete",
		zap.Int("total", stats.Total),
		zap.Int("classified", stats.Classified),
		zap.Int("rejected", stats.Rejected),
		zap.Int("unparseable", stats.Unparseable),
		zap.Int("failed", stats.Failed),
		zap.Int("underlying_exchanges", stats.UnderlyingExchanges),
	)
	return nil
}

// loadPoolContext resolves the pool's metadata from the pools file and binds
// it to an ABI, either the pool's verified ABI from disk or the stableswap
// default.
func loadPoolContext(poolsPath, poolAddress, abiPath string) (*curve.PoolContext, error) {
	meta, err := findPool(poolsPath, poolAddress)
	if err != nil {
		return nil, err
	}

	abiJSON := ""
	if abiPath != "" {
		raw, err := os.ReadFile(abiPath)
		if err != nil {
			return nil, fmt.Errorf("read abi: %w", err)
		}
		abiJSON = string(raw)
	}

	return curve.NewPoolContext(meta, abiJSON)
}

func findPool(poolsPath, poolAddress string) (model.PoolMetadata, error) {
	if poolAddress == "" {
		return model.PoolMetadata{}, fmt.Errorf("pool address is required")
	}

	raw, err := os.ReadFile(poolsPath)
	if err != nil {
		return model.PoolMetadata{}, fmt.Errorf("read pools: %w", err)
	}
	var pools []model.PoolMetadata
	if err := json.Unmarshal(raw, &pools); err != nil {
		return model.PoolMetadata{}, fmt.Errorf("parse pools: %w", err)
	}

	for _, pool := range pools {
		if strings.EqualFold(pool.Address, poolAddress) {
			return pool, nil
		}
	}
	return model.PoolMetadata{}, fmt.Errorf("pool %s not found in %s", poolAddress, poolsPath)
}
