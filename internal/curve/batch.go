package curve

import (
	"errors"

	"go.uber.org/zap"

	"curvescope/internal/model"
)

// BatchStats accounts for a best-effort classification pass. A historical
// corpus always contains legitimately unparseable records; one malformed
// element never aborts the batch.
type BatchStats struct {
	Total               int
	Classified          int
	Rejected            int
	Unparseable         int
	Failed              int
	UnderlyingExchanges int
}

// Incomplete reports whether the batch contained underlying-coin exchanges
// the classifier cannot resolve, so derived aggregates understate activity.
func (s BatchStats) Incomplete() bool {
	return s.UnderlyingExchanges > 0
}

// ClassifyBatch runs the transaction classifier over an ordered batch,
// preserving input order among the classified records. Failures come back as
// ParseError records alongside the stats.
func (c *TxClassifier) ClassifyBatch(pctx *PoolContext, txs []model.TxRecord) ([]model.Transaction, []model.ParseError, BatchStats) {
	var stats BatchStats
	var errs []model.ParseError
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		stats.Total++
		record, err := c.Classify(pctx, tx)
		if err != nil {
			countBatchError(&stats, err)
			errs = append(errs, model.ParseError{
				Pool:     pctx.Meta.Address,
				TxHash:   tx.Hash,
				MethodID: methodID(tx.Input),
				Error:    err.Error(),
			})
			c.logger.Debug("skip transaction", zap.String("tx", tx.Hash), zap.Error(err))
			continue
		}
		if record == nil {
			stats.Rejected++
			continue
		}
		stats.Classified++
		out = append(out, *record)
	}
	return out, errs, stats
}

// ClassifyBatch runs the log classifier over an ordered batch, preserving
// input order among the classified records. Failures come back as ParseError
// records alongside the stats.
func (c *LogClassifier) ClassifyBatch(pctx *PoolContext, logs []model.LogRecord) ([]model.Transaction, []model.ParseError, BatchStats) {
	var stats BatchStats
	var errs []model.ParseError
	out := make([]model.Transaction, 0, len(logs))
	for _, log := range logs {
		stats.Total++
		record, err := c.Classify(pctx, log)
		if err != nil {
			countBatchError(&stats, err)
			errs = append(errs, model.ParseError{
				Pool:   pctx.Meta.Address,
				TxHash: log.TxHash,
				Topic0: log.Topic0(),
				Error:  err.Error(),
			})
			c.logger.Debug("skip log", zap.String("tx", log.TxHash), zap.Error(err))
			continue
		}
		if record == nil {
			stats.Rejected++
			continue
		}
		stats.Classified++
		out = append(out, *record)
	}
	return out, errs, stats
}

func methodID(input string) string {
	if len(input) < 10 {
		return ""
	}
	return input[:10]
}

func countBatchError(stats *BatchStats, err error) {
	switch {
	case errors.Is(err, ErrExchangeUnderlying):
		stats.UnderlyingExchanges++
	case errors.Is(err, ErrUnparseable):
		stats.Unparseable++
	default:
		stats.Failed++
	}
}
