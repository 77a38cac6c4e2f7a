package aggregate

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"curvescope/internal/curve"
	"curvescope/internal/model"
)

// ProminentFilter selects classified transactions whose total USD value
// crosses a threshold. Classification is best effort: records the
// classifier rejects are dropped, never fatal.
type ProminentFilter struct {
	classifier *curve.TxClassifier
	logger     *zap.Logger
}

func NewProminentFilter(classifier *curve.TxClassifier, logger *zap.Logger) *ProminentFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = curve.NewTxClassifier(logger)
	}
	return &ProminentFilter{classifier: classifier, logger: logger}
}

// Filter returns the transactions at or above minUsd that happened at or
// after minTimestamp, in their original order.
func (f *ProminentFilter) Filter(pctx *curve.PoolContext, txs []model.TxRecord, minUsd decimal.Decimal, minTimestamp uint64) []model.Transaction {
	var out []model.Transaction
	for _, tx := range txs {
		record, err := f.classifier.Classify(pctx, tx)
		if err != nil {
			f.logger.Debug("skip transaction", zap.String("tx", tx.Hash), zap.Error(err))
			continue
		}
		if record == nil {
			continue
		}
		if record.Timestamp < minTimestamp {
			continue
		}
		if record.TotalUsdAmount.LessThan(minUsd) {
			continue
		}
		out = append(out, *record)
	}
	return out
}

// LatestTimestamp returns the newest timestamp among the transactions, zero
// for an empty slice. Incremental runs persist it as their resume point.
func LatestTimestamp(txs []model.Transaction) uint64 {
	var latest uint64
	for _, tx := range txs {
		if tx.Timestamp > latest {
			latest = tx.Timestamp
		}
	}
	return latest
}
