package aggregate

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"curvescope/internal/curve"
	"curvescope/internal/model"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// testPool is a plain two-coin pool with 18-decimal tokens priced at 2 and 1
// USD, holding 10 TKA and 4 TKB.
func testPool(t *testing.T) *curve.PoolContext {
	t.Helper()
	pctx, err := curve.NewPoolContext(model.PoolMetadata{
		Address:       "0x1111111111111111111111111111111111111111",
		Network:       "ethereum",
		AssetTypeName: model.AssetTypeUSD,
		Coins: []model.PoolCoin{
			{
				Address:     "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				Symbol:      "TKA",
				Decimals:    18,
				UsdPrice:    decimal.NewFromInt(2),
				PoolBalance: "10000000000000000000",
			},
			{
				Address:     "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
				Symbol:      "TKB",
				Decimals:    18,
				UsdPrice:    decimal.NewFromInt(1),
				PoolBalance: "4000000000000000000",
			},
		},
	}, "")
	if err != nil {
		t.Fatalf("pool context: %v", err)
	}
	return pctx
}

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// encodeCall builds call input for methods whose arguments flatten to plain
// 32-byte words (fixed arrays included).
func encodeCall(selector string, words ...*big.Int) string {
	var b strings.Builder
	b.WriteString(selector)
	for _, w := range words {
		b.WriteString(fmt.Sprintf("%064x", w))
	}
	return b.String()
}

func addLiquidityTx(hash string, ts uint64, pool string, a, b *big.Int) model.TxRecord {
	return model.TxRecord{
		Hash:      hash,
		Timestamp: ts,
		To:        pool,
		Input:     encodeCall("0x0b4c7e4d", a, b, big.NewInt(0)),
		Status:    model.TxStatusSuccess,
	}
}

func exchangeTx(hash string, ts uint64, pool string, i, j int64, dx *big.Int) model.TxRecord {
	return model.TxRecord{
		Hash:      hash,
		Timestamp: ts,
		To:        pool,
		Input:     encodeCall("0x3df02124", big.NewInt(i), big.NewInt(j), dx, big.NewInt(0)),
		Status:    model.TxStatusSuccess,
	}
}

func removeLiquidityTx(hash string, ts uint64, pool string, burn *big.Int) model.TxRecord {
	return model.TxRecord{
		Hash:      hash,
		Timestamp: ts,
		To:        pool,
		Input:     encodeCall("0x5b36389c", burn, big.NewInt(0), big.NewInt(0)),
		Status:    model.TxStatusSuccess,
	}
}
