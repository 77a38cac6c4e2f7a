package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClassifyConfig holds configuration for the classify commands.
type ClassifyConfig struct {
	Pool     string
	Pools    string
	In       string
	Out      string
	Errors   string
	ABI      string
	LogLevel string
}

// LoadClassify merges config file, environment variables, and flags into ClassifyConfig.
func LoadClassify(cfgFile string, flags *pflag.FlagSet) (ClassifyConfig, error) {
	v := newViper()

	v.SetDefault("out", "./data/transactions.jsonl")
	v.SetDefault("errors", "./data/parse_errors.jsonl")
	v.SetDefault("pools", "./data/pools.json")
	v.SetDefault("log-level", "info")

	if err := bind(v, cfgFile, flags); err != nil {
		return ClassifyConfig{}, err
	}

	cfg := ClassifyConfig{
		Pool:     v.GetString("pool"),
		Pools:    v.GetString("pools"),
		In:       v.GetString("in"),
		Out:      v.GetString("out"),
		Errors:   v.GetString("errors"),
		ABI:      v.GetString("abi"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CURVESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func bind(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (uint64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseUint(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return uint64(tm.Unix()), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
