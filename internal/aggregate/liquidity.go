package aggregate

import (
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"curvescope/internal/curve"
	"curvescope/internal/model"
)

const dateLayout = "2006-01-02"

// LiquidityHistoryBuilder folds raw transactions into date-bucketed
// liquidity flows. Bucket accumulation is commutative: neither record order
// nor accumulation order affects the result.
type LiquidityHistoryBuilder struct {
	classifier *curve.TxClassifier
	logger     *zap.Logger
}

func NewLiquidityHistoryBuilder(classifier *curve.TxClassifier, logger *zap.Logger) *LiquidityHistoryBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = curve.NewTxClassifier(logger)
	}
	return &LiquidityHistoryBuilder{classifier: classifier, logger: logger}
}

// Build classifies every transaction and accumulates per-token added/removed
// USD per UTC calendar date, then derives per-token TVL summaries. A single
// malformed historical record never aborts the pass. Returns nil when no
// bucket was produced.
func (b *LiquidityHistoryBuilder) Build(pctx *curve.PoolContext, txs []model.TxRecord, minTimestamp time.Time) *model.LiquidityHistory {
	buckets := make(map[string]map[string]model.LiquidityFlow)

	for _, tx := range txs {
		record, err := b.classifier.Classify(pctx, tx)
		if err != nil {
			b.logger.Debug("skip transaction", zap.String("tx", tx.Hash), zap.Error(err))
			continue
		}
		if record == nil || record.Type == model.OperationExchange {
			continue
		}
		ts := time.Unix(int64(record.Timestamp), 0).UTC()
		if ts.Before(minTimestamp) {
			continue
		}

		// Bucket lazily so a date whose records carry no per-token
		// amounts produces no point at all.
		date := ts.Format(dateLayout)
		for _, leg := range record.Tokens {
			if leg.UsdAmount == nil {
				// Per-token effect underspecified by the encoding.
				continue
			}
			flows := buckets[date]
			if flows == nil {
				flows = make(map[string]model.LiquidityFlow)
				buckets[date] = flows
			}
			flow := flows[leg.Symbol]
			switch leg.Impact {
			case model.ImpactAdd:
				flow.Added = flow.Added.Add(leg.UsdAmount.Abs())
			case model.ImpactRemove:
				flow.Removed = flow.Removed.Add(leg.UsdAmount.Abs())
			}
			flows[leg.Symbol] = flow
		}
	}

	if len(buckets) == 0 {
		return nil
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	graph := make([]model.LiquidityPoint, 0, len(dates))
	for _, date := range dates {
		graph = append(graph, model.LiquidityPoint{Date: date, Tokens: buckets[date]})
	}

	return &model.LiquidityHistory{
		Graph:  graph,
		Tokens: b.summarize(pctx, graph),
	}
}

func (b *LiquidityHistoryBuilder) summarize(pctx *curve.PoolContext, graph []model.LiquidityPoint) map[string]model.TokenLiquiditySummary {
	summaries := make(map[string]model.TokenLiquiditySummary, len(pctx.Meta.Coins))
	for _, coin := range pctx.Meta.Coins {
		var added, removed decimal.Decimal
		for _, point := range graph {
			flow := point.Tokens[coin.Symbol]
			added = added.Add(flow.Added)
			removed = removed.Add(flow.Removed)
		}

		tvlNow := currentTvl(coin)
		tvlBefore := tvlNow.Sub(added.Sub(removed))
		var pct decimal.Decimal
		if !tvlBefore.IsZero() {
			pct = PercentageChange(tvlBefore, tvlNow)
		}

		summaries[coin.Symbol] = model.TokenLiquiditySummary{
			TotalAdded:       added,
			TotalRemoved:     removed,
			TvlBefore:        tvlBefore,
			TvlNow:           tvlNow,
			TvlPercentChange: pct,
		}
	}
	return summaries
}

func currentTvl(coin model.PoolCoin) decimal.Decimal {
	if coin.PoolBalance == "" {
		return decimal.Zero
	}
	raw, ok := new(big.Int).SetString(coin.PoolBalance, 10)
	if !ok {
		return decimal.Zero
	}
	return curve.UsdValue(curve.TokenAmount(raw, coin.Decimals), coin.UsdPrice)
}
