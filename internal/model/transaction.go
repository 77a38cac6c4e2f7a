package model

import "github.com/shopspring/decimal"

// Operation is the canonical classification of a pool interaction.
type Operation string

const (
	OperationAddLiquidity    Operation = "add_liquidity"
	OperationRemoveLiquidity Operation = "remove_liquidity"
	OperationExchange        Operation = "exchange"
)

// Impact is the direction a leg moves pool reserves.
type Impact string

const (
	ImpactAdd    Impact = "add"
	ImpactRemove Impact = "remove"
)

// TokenLeg is one token's share of a canonical transaction. Amount and
// UsdAmount are nil together when the source encoding does not carry the
// per-token value (e.g. proportional withdrawals, the destination side of a
// swap call). Legs with a literal zero amount are never emitted.
type TokenLeg struct {
	Symbol    string           `json:"symbol"`
	Address   string           `json:"address"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	UsdPrice  decimal.Decimal  `json:"usd_price"`
	UsdAmount *decimal.Decimal `json:"usd_amount,omitempty"`
	Impact    Impact           `json:"impact"`
}

// Transaction is the canonical, financially-meaningful record produced by the
// classifiers. Never mutated after creation.
type Transaction struct {
	Hash           string          `json:"hash"`
	Pool           string          `json:"pool"`
	Timestamp      uint64          `json:"timestamp"`
	Type           Operation       `json:"type"`
	TotalUsdAmount decimal.Decimal `json:"total_usd_amount"`
	Tokens         []TokenLeg      `json:"tokens"`
}

// HasAmount reports whether the leg carries an exact token amount.
func (l TokenLeg) HasAmount() bool {
	return l.Amount != nil
}
