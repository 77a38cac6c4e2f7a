package aggregate

import (
	"curvescope/internal/curve"
	"curvescope/internal/model"
)

// BuildExchangeRateGraph folds classified exchange logs into per-pair rate
// series. Pools tagged with an unknown asset type hold uncorrelated assets
// and have no meaningful pairwise rate, so they produce no graph. Series
// keep input order; the builder never re-sorts.
func BuildExchangeRateGraph(pctx *curve.PoolContext, logs []model.Transaction) *model.ExchangeRateGraph {
	if pctx.Meta.AssetTypeName == model.AssetTypeUnknown {
		return nil
	}

	pairs := make(map[string][]model.RatePoint)
	for _, log := range logs {
		if log.Type != model.OperationExchange || !log.TotalUsdAmount.IsPositive() {
			continue
		}
		if len(log.Tokens) != 2 {
			continue
		}

		// Order legs ascending by the coins' static USD price so every
		// observation of a pair lands under one canonical key.
		first, second := log.Tokens[0], log.Tokens[1]
		if first.UsdPrice.GreaterThan(second.UsdPrice) {
			first, second = second, first
		}
		if !first.HasAmount() || !second.HasAmount() || first.Amount.IsZero() {
			continue
		}

		key := first.Symbol + "/" + second.Symbol
		pairs[key] = append(pairs[key], model.RatePoint{
			Rate:      second.Amount.Div(*first.Amount),
			Timestamp: log.Timestamp,
		})
	}

	if len(pairs) == 0 {
		return nil
	}
	return &model.ExchangeRateGraph{Pairs: pairs}
}
