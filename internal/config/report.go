package config

import (
	"github.com/spf13/pflag"
)

// ReportConfig holds configuration for the report command.
type ReportConfig struct {
	Pool     string
	Pools    string
	Txs      string
	Logs     string
	Out      string
	ABI      string
	MinUsd   string
	Since    string
	PGDSN    string
	LogLevel string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v := newViper()

	v.SetDefault("pools", "./data/pools.json")
	v.SetDefault("min-usd", "10000")
	v.SetDefault("log-level", "info")

	if err := bind(v, cfgFile, flags); err != nil {
		return ReportConfig{}, err
	}

	cfg := ReportConfig{
		Pool:     v.GetString("pool"),
		Pools:    v.GetString("pools"),
		Txs:      v.GetString("txs"),
		Logs:     v.GetString("logs"),
		Out:      v.GetString("out"),
		ABI:      v.GetString("abi"),
		MinUsd:   v.GetString("min-usd"),
		Since:    v.GetString("since"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
