package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetType classifies the price correlation of a pool's assets.
// Unknown marks pools holding uncorrelated assets (e.g. USD/BTC/ETH in one
// pool) for which pairwise exchange rates are not meaningful.
type AssetType string

const (
	AssetTypeUSD     AssetType = "usd"
	AssetTypeBTC     AssetType = "btc"
	AssetTypeETH     AssetType = "eth"
	AssetTypeOther   AssetType = "other"
	AssetTypeUnknown AssetType = "unknown"
)

// ParseAssetType maps a registry asset-type name onto the closed set.
func ParseAssetType(name string) (AssetType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "usd":
		return AssetTypeUSD, nil
	case "btc":
		return AssetTypeBTC, nil
	case "eth":
		return AssetTypeETH, nil
	case "other":
		return AssetTypeOther, nil
	case "unknown", "":
		return AssetTypeUnknown, nil
	default:
		return "", fmt.Errorf("unsupported asset type: %s", name)
	}
}

// PoolCoin is one asset of a pool. Order within PoolMetadata.Coins equals the
// on-chain coin index space referenced by calls and logs.
type PoolCoin struct {
	Address     string          `json:"address"`
	Symbol      string          `json:"symbol"`
	Decimals    int32           `json:"decimals"`
	UsdPrice    decimal.Decimal `json:"usd_price"`
	PoolBalance string          `json:"pool_balance,omitempty"`
}

// PoolMetadata describes a pool as supplied by the metadata registry.
// Immutable for the duration of a classification batch.
type PoolMetadata struct {
	Address       string          `json:"address"`
	Network       string          `json:"network"`
	Name          string          `json:"name,omitempty"`
	AssetTypeName AssetType       `json:"asset_type_name"`
	IsMetaPool    bool            `json:"is_meta_pool"`
	Coins         []PoolCoin      `json:"coins"`
	UsdTotal      decimal.Decimal `json:"usd_total"`
}
