package curve

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"curvescope/internal/model"
)

// TxClassifier maps raw pool transactions onto canonical operation records.
// Stateless: the same (PoolContext, record) pair always classifies to the
// same output.
type TxClassifier struct {
	logger *zap.Logger
}

func NewTxClassifier(logger *zap.Logger) *TxClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxClassifier{logger: logger}
}

// Classify resolves one raw transaction. Reverted and contract-creation
// transactions classify to nothing without error. Selector mismatches and
// unsupported variants return ErrUnparseable.
func (c *TxClassifier) Classify(pctx *PoolContext, tx model.TxRecord) (*model.Transaction, error) {
	if tx.Failed() || tx.IsContractCreation() {
		return nil, nil
	}

	call, err := DecodeCall(pctx.ABI, tx.Input)
	if err != nil {
		return nil, err
	}

	switch call.Kind {
	case CallAddLiquidity:
		return c.classifyAmountsCall(pctx, tx, call, model.OperationAddLiquidity, model.ImpactAdd)
	case CallRemoveLiquidityImbalance:
		return c.classifyAmountsCall(pctx, tx, call, model.OperationRemoveLiquidity, model.ImpactRemove)
	case CallRemoveLiquidityOne:
		return c.classifyRemoveOne(pctx, tx, call)
	case CallRemoveLiquidity:
		return c.classifyRemoveAll(pctx, tx, call)
	case CallExchange:
		return c.classifyExchange(pctx, tx, call)
	case CallExchangeUnderlying:
		// The underlying coin index space does not map onto the pool's
		// own coin list.
		return nil, fmt.Errorf("%w: %s", ErrUnparseable, call.Name)
	default:
		c.logger.Warn("unrecognized pool call",
			zap.String("pool", pctx.Meta.Address),
			zap.String("tx", tx.Hash),
			zap.String("call", call.Name),
		)
		return nil, fmt.Errorf("%w: unrecognized call %s", ErrUnparseable, call.Name)
	}
}

// classifyAmountsCall handles calls carrying one exact amount per coin index
// (add_liquidity, remove_liquidity_imbalance). Zero entries are dropped.
func (c *TxClassifier) classifyAmountsCall(pctx *PoolContext, tx model.TxRecord, call *DecodedCall, op model.Operation, impact model.Impact) (*model.Transaction, error) {
	amounts, err := call.Amounts()
	if err != nil {
		return nil, err
	}

	legs := make([]model.TokenLeg, 0, len(amounts))
	total := decimal.Zero
	for i, raw := range amounts {
		if raw == nil || raw.Sign() == 0 {
			continue
		}
		coin, err := pctx.CoinAt(i)
		if err != nil {
			return nil, err
		}
		amount := TokenAmount(raw, coin.Decimals)
		usd := UsdValue(amount, coin.UsdPrice)
		total = total.Add(usd)
		legs = append(legs, model.TokenLeg{
			Symbol:    coin.Symbol,
			Address:   coin.Address,
			Amount:    &amount,
			UsdPrice:  coin.UsdPrice,
			UsdAmount: &usd,
			Impact:    impact,
		})
	}

	return c.build(pctx, tx, op, total, legs), nil
}

// classifyRemoveOne handles remove_liquidity_one_coin. The call carries the
// LP-token burn amount, not the withdrawn token amount, so the single leg
// has no amount; the total is the burn amount priced at the target coin as
// an approximation.
func (c *TxClassifier) classifyRemoveOne(pctx *PoolContext, tx model.TxRecord, call *DecodedCall) (*model.Transaction, error) {
	burn, err := call.BurnAmount()
	if err != nil {
		return nil, err
	}
	index, err := call.CoinIndex("i", "_i")
	if err != nil {
		return nil, err
	}
	coin, err := pctx.CoinAt(index)
	if err != nil {
		return nil, err
	}

	total := UsdValue(BurnAmount(burn), coin.UsdPrice)
	legs := []model.TokenLeg{{
		Symbol:   coin.Symbol,
		Address:  coin.Address,
		UsdPrice: coin.UsdPrice,
		Impact:   model.ImpactRemove,
	}}
	return c.build(pctx, tx, model.OperationRemoveLiquidity, total, legs), nil
}

// classifyRemoveAll handles proportional remove_liquidity. Per-coin amounts
// depend on reserve balances at execution time and are not in the call, so
// every pool coin appears as an amountless leg.
func (c *TxClassifier) classifyRemoveAll(pctx *PoolContext, tx model.TxRecord, call *DecodedCall) (*model.Transaction, error) {
	burn, err := call.BurnAmount()
	if err != nil {
		return nil, err
	}

	legs := make([]model.TokenLeg, 0, len(pctx.Meta.Coins))
	for _, coin := range pctx.Meta.Coins {
		legs = append(legs, model.TokenLeg{
			Symbol:   coin.Symbol,
			Address:  coin.Address,
			UsdPrice: coin.UsdPrice,
			Impact:   model.ImpactRemove,
		})
	}
	return c.build(pctx, tx, model.OperationRemoveLiquidity, BurnAmount(burn), legs), nil
}

// classifyExchange handles exchange(i, j, dx). Only the source amount is in
// the call; the destination leg stays amountless until richer logs are
// available.
func (c *TxClassifier) classifyExchange(pctx *PoolContext, tx model.TxRecord, call *DecodedCall) (*model.Transaction, error) {
	sourceIndex, err := call.CoinIndex("i", "_i")
	if err != nil {
		return nil, err
	}
	destIndex, err := call.CoinIndex("j", "_j")
	if err != nil {
		return nil, err
	}
	dx, err := call.InputAmount()
	if err != nil {
		return nil, err
	}

	source, err := pctx.CoinAt(sourceIndex)
	if err != nil {
		return nil, err
	}
	dest, err := pctx.CoinAt(destIndex)
	if err != nil {
		return nil, err
	}

	legs := make([]model.TokenLeg, 0, 2)
	total := decimal.Zero
	if dx != nil && dx.Sign() != 0 {
		amount := TokenAmount(dx, source.Decimals)
		usd := UsdValue(amount, source.UsdPrice)
		total = usd.Abs()
		legs = append(legs, model.TokenLeg{
			Symbol:    source.Symbol,
			Address:   source.Address,
			Amount:    &amount,
			UsdPrice:  source.UsdPrice,
			UsdAmount: &usd,
			Impact:    model.ImpactAdd,
		})
	}
	legs = append(legs, model.TokenLeg{
		Symbol:   dest.Symbol,
		Address:  dest.Address,
		UsdPrice: dest.UsdPrice,
		Impact:   model.ImpactRemove,
	})

	return c.build(pctx, tx, model.OperationExchange, total, legs), nil
}

func (c *TxClassifier) build(pctx *PoolContext, tx model.TxRecord, op model.Operation, total decimal.Decimal, legs []model.TokenLeg) *model.Transaction {
	return &model.Transaction{
		Hash:           tx.Hash,
		Pool:           pctx.Meta.Address,
		Timestamp:      tx.Timestamp,
		Type:           op,
		TotalUsdAmount: total,
		Tokens:         legs,
	}
}
