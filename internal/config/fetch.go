package config

import (
	"time"

	"github.com/spf13/pflag"
)

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	Network      string
	RPCURL       string
	RegistryURL  string
	ExplorerKey  string
	Pool         string
	Out          string
	TxsOut       string
	LogsOut      string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v := newViper()

	v.SetDefault("network", "ethereum")
	v.SetDefault("out", "./data/pools.json")
	v.SetDefault("txs-out", "./data/txs.jsonl")
	v.SetDefault("logs-out", "./data/logs.jsonl")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if err := bind(v, cfgFile, flags); err != nil {
		return FetchConfig{}, err
	}

	cfg := FetchConfig{
		Network:      v.GetString("network"),
		RPCURL:       v.GetString("rpc"),
		RegistryURL:  v.GetString("registry-url"),
		ExplorerKey:  v.GetString("explorer-key"),
		Pool:         v.GetString("pool"),
		Out:          v.GetString("out"),
		TxsOut:       v.GetString("txs-out"),
		LogsOut:      v.GetString("logs-out"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
