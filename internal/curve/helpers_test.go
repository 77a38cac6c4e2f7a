package curve

import (
	"testing"

	"github.com/shopspring/decimal"

	"curvescope/internal/model"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return parsed
}

func stethPool(t *testing.T) *PoolContext {
	t.Helper()
	pctx, err := NewPoolContext(model.PoolMetadata{
		Address:       "0xDC24316b9AE028F1497c275EB9192a3Ea0f67022",
		Network:       "ethereum",
		Name:          "Curve.fi ETH/stETH",
		AssetTypeName: model.AssetTypeETH,
		Coins: []model.PoolCoin{
			{
				Address:  "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
				Symbol:   "ETH",
				Decimals: 18,
				UsdPrice: mustDecimal(t, "1726.43"),
			},
			{
				Address:  "0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84",
				Symbol:   "stETH",
				Decimals: 18,
				UsdPrice: mustDecimal(t, "1681.87"),
			},
		},
	}, "")
	if err != nil {
		t.Fatalf("steth pool context: %v", err)
	}
	return pctx
}

// Plain three-coin pool variant. The reference interface is two-coin, so
// array arguments and selectors differ.
const threeCoinABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "provider", "type": "address"},
      {"indexed": false, "name": "token_amounts", "type": "uint256[3]"},
      {"indexed": false, "name": "fees", "type": "uint256[3]"},
      {"indexed": false, "name": "invariant", "type": "uint256"},
      {"indexed": false, "name": "token_supply", "type": "uint256"}
    ],
    "name": "RemoveLiquidityImbalance",
    "type": "event"
  },
  {
    "inputs": [
      {"name": "uamounts", "type": "uint256[3]"},
      {"name": "min_mint_amount", "type": "uint256"}
    ],
    "name": "add_liquidity",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "_amount", "type": "uint256"},
      {"name": "min_uamounts", "type": "uint256[3]"}
    ],
    "name": "remove_liquidity",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "i", "type": "int128"},
      {"name": "j", "type": "int128"},
      {"name": "dx", "type": "uint256"},
      {"name": "min_dy", "type": "uint256"}
    ],
    "name": "exchange",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

func threePool(t *testing.T) *PoolContext {
	t.Helper()
	pctx, err := NewPoolContext(model.PoolMetadata{
		Address:       "0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7",
		Network:       "ethereum",
		Name:          "Curve.fi DAI/USDC/USDT",
		AssetTypeName: model.AssetTypeUSD,
		Coins: []model.PoolCoin{
			{
				Address:  "0x6B175474E89094C44Da98b954EedeAC495271d0F",
				Symbol:   "DAI",
				Decimals: 18,
				UsdPrice: mustDecimal(t, "1.001"),
			},
			{
				Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				Symbol:   "USDC",
				Decimals: 6,
				UsdPrice: mustDecimal(t, "0.9998"),
			},
			{
				Address:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
				Symbol:   "USDT",
				Decimals: 6,
				UsdPrice: mustDecimal(t, "0.9991"),
			},
		},
	}, threeCoinABIJSON)
	if err != nil {
		t.Fatalf("3pool context: %v", err)
	}
	return pctx
}

func fraxPool(t *testing.T) *PoolContext {
	t.Helper()
	pctx, err := NewPoolContext(model.PoolMetadata{
		Address:       "0xd632f22692FaC7611d2AA1C0D552930D43CAEd3B",
		Network:       "ethereum",
		Name:          "Curve.fi FRAX/3Crv",
		AssetTypeName: model.AssetTypeUSD,
		IsMetaPool:    true,
		Coins: []model.PoolCoin{
			{
				Address:  "0x853d955aCEf822Db058eb8505911ED77F175b99e",
				Symbol:   "FRAX",
				Decimals: 18,
				UsdPrice: mustDecimal(t, "0.9989"),
			},
			{
				Address:  "0x6c3F90f043a72FA612cbac8115EE7e52BDe6E490",
				Symbol:   "3Crv",
				Decimals: 18,
				UsdPrice: mustDecimal(t, "1.022"),
			},
		},
	}, "")
	if err != nil {
		t.Fatalf("frax pool context: %v", err)
	}
	return pctx
}

func makeLog(t *testing.T, pctx *PoolContext, eventName, txHash, providerTopic, data string, timestamp uint64) model.LogRecord {
	t.Helper()
	event, ok := pctx.ABI.Events[eventName]
	if !ok {
		t.Fatalf("event %s not in pool abi", eventName)
	}
	return model.LogRecord{
		TxHash:    txHash,
		Address:   pctx.Meta.Address,
		Topics:    []string{event.ID.Hex(), providerTopic},
		Data:      data,
		Timestamp: timestamp,
	}
}
