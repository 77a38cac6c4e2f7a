package curve

import "errors"

var (
	// ErrUnparseable marks records that cannot be classified against the
	// pool's current interface: unknown selectors/topics (the contract was
	// upgraded since), or variants whose encoding structurally lacks the
	// data to resolve (exchange_underlying calls, indexless
	// RemoveLiquidityOne events). Expected for historical corpora; callers
	// skip and may count these.
	ErrUnparseable = errors.New("record not parseable against pool interface")

	// ErrExchangeUnderlying marks TokenExchangeUnderlying logs. Distinct
	// from ErrUnparseable so downstream aggregates can mark their output
	// incomplete instead of treating the record as ordinary noise.
	ErrExchangeUnderlying = errors.New("underlying-coin exchange not supported")
)
