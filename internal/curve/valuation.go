package curve

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// LP-token burn amounts are interpreted at a fixed 18-decimal scale
// regardless of the pool's actual LP token decimals. Historical behavior,
// kept as-is.
const lpTokenDecimals = 18

// TokenAmount converts a raw fixed-point integer into an exact decimal token
// amount. Arbitrary precision throughout: raw values routinely exceed 2^53
// and USD totals must be reproducible bit for bit.
func TokenAmount(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -decimals)
}

// BurnAmount converts a raw LP-token burn amount.
func BurnAmount(raw *big.Int) decimal.Decimal {
	return TokenAmount(raw, lpTokenDecimals)
}

// UsdValue prices a token amount at the pool's latest known snapshot price.
func UsdValue(amount, usdPrice decimal.Decimal) decimal.Decimal {
	return amount.Mul(usdPrice)
}
