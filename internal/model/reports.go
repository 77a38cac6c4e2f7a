package model

import "github.com/shopspring/decimal"

// RatePoint is one observed exchange rate for a token pair.
type RatePoint struct {
	Rate      decimal.Decimal `json:"rate"`
	Timestamp uint64          `json:"timestamp"`
}

// ExchangeRateGraph maps canonical token-pair keys ("A/B", lower-priced
// symbol first) onto append-ordered rate series. Incomplete is set when the
// source window contained underlying-coin exchanges the classifier cannot
// resolve, so the series understates activity.
type ExchangeRateGraph struct {
	Pairs      map[string][]RatePoint `json:"pairs"`
	Incomplete bool                   `json:"incomplete,omitempty"`
}

// LiquidityFlow is the USD volume added to and removed from pool reserves
// within one bucket.
type LiquidityFlow struct {
	Added   decimal.Decimal `json:"added"`
	Removed decimal.Decimal `json:"removed"`
}

// LiquidityPoint is one calendar-date bucket of per-token liquidity flows.
type LiquidityPoint struct {
	Date   string                   `json:"date"`
	Tokens map[string]LiquidityFlow `json:"tokens"`
}

// TokenLiquiditySummary aggregates one token's flows across all buckets and
// relates them to the pool's current holdings.
type TokenLiquiditySummary struct {
	TotalAdded       decimal.Decimal `json:"total_added"`
	TotalRemoved     decimal.Decimal `json:"total_removed"`
	TvlBefore        decimal.Decimal `json:"tvl_before"`
	TvlNow           decimal.Decimal `json:"tvl_now"`
	TvlPercentChange decimal.Decimal `json:"tvl_percent_change"`
}

// LiquidityHistory is the derived liquidity-flow view of a pool. Rebuilt in
// full on every run, never partially updated.
type LiquidityHistory struct {
	Graph  []LiquidityPoint                 `json:"graph"`
	Tokens map[string]TokenLiquiditySummary `json:"tokens"`
}
