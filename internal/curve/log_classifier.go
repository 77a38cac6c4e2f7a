package curve

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"curvescope/internal/model"
)

// LogClassifier maps raw pool event logs onto canonical operation records.
// Logs, unlike calls, carry the true per-token deltas, so amounts here are
// exact.
type LogClassifier struct {
	logger *zap.Logger
}

func NewLogClassifier(logger *zap.Logger) *LogClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogClassifier{logger: logger}
}

// Classify resolves one raw event log. TokenExchangeUnderlying returns
// ErrExchangeUnderlying so callers can mark derived output incomplete.
func (c *LogClassifier) Classify(pctx *PoolContext, log model.LogRecord) (*model.Transaction, error) {
	event, err := DecodeEvent(pctx.ABI, log)
	if err != nil {
		return nil, err
	}

	switch event.Kind {
	case EventAddLiquidity:
		return c.classifyAmountsEvent(pctx, log, event, model.OperationAddLiquidity, model.ImpactAdd)
	case EventRemoveLiquidity, EventRemoveLiquidityImbalance:
		return c.classifyAmountsEvent(pctx, log, event, model.OperationRemoveLiquidity, model.ImpactRemove)
	case EventRemoveLiquidityOne:
		return c.classifyRemoveOne(pctx, log, event)
	case EventTokenExchange:
		return c.classifyExchange(pctx, log, event)
	case EventTokenExchangeUnderlying:
		return nil, fmt.Errorf("%w: %s", ErrExchangeUnderlying, event.Name)
	default:
		c.logger.Warn("unrecognized pool event",
			zap.String("pool", pctx.Meta.Address),
			zap.String("tx", log.TxHash),
			zap.String("event", event.Name),
		)
		return nil, fmt.Errorf("%w: unrecognized event %s", ErrUnparseable, event.Name)
	}
}

func (c *LogClassifier) classifyAmountsEvent(pctx *PoolContext, log model.LogRecord, event *DecodedEvent, op model.Operation, impact model.Impact) (*model.Transaction, error) {
	amounts, err := event.TokenAmounts()
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

	return c.build(pctx, log, op, total, legs), nil
}

// classifyRemoveOne handles RemoveLiquidityOne. Early pool deployments emit
// the event without a coin index, leaving no way to attribute the withdrawal;
// those logs are unparseable by construction, not by fault.
func (c *LogClassifier) classifyRemoveOne(pctx *PoolContext, log model.LogRecord, event *DecodedEvent) (*model.Transaction, error) {
	index, ok, err := event.CoinIndex("coin_index", "index", "coin_id", "i")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s carries no coin index", ErrUnparseable, event.Name)
	}

	coin, err := pctx.CoinAt(index)
	if err != nil {
		return nil, err
	}
	raw, err := event.Amount("coin_amount", "token_amount")
	if err != nil {
		return nil, err
	}

	legs := make([]model.TokenLeg, 0, 1)
	total := decimal.Zero
	if raw.Sign() != 0 {
		amount := TokenAmount(raw, coin.Decimals)
		usd := UsdValue(amount, coin.UsdPrice)
		total = usd.Abs()
		legs = append(legs, model.TokenLeg{
			Symbol:    coin.Symbol,
			Address:   coin.Address,
			Amount:    &amount,
			UsdPrice:  coin.UsdPrice,
			UsdAmount: &usd,
			Impact:    model.ImpactRemove,
		})
	}
	return c.build(pctx, log, model.OperationRemoveLiquidity, total, legs), nil
}

func (c *LogClassifier) classifyExchange(pctx *PoolContext, log model.LogRecord, event *DecodedEvent) (*model.Transaction, error) {
	sold, err := c.exchangeLeg(pctx, event, "sold_id", "tokens_sold", model.ImpactAdd)
	if err != nil {
		return nil, err
	}
	bought, err := c.exchangeLeg(pctx, event, "bought_id", "tokens_bought", model.ImpactRemove)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	legs := make([]model.TokenLeg, 0, 2)
	if sold != nil {
		total = sold.UsdAmount.Abs()
		legs = append(legs, *sold)
	}
	if bought != nil {
		legs = append(legs, *bought)
	}
	return c.build(pctx, log, model.OperationExchange, total, legs), nil
}

func (c *LogClassifier) exchangeLeg(pctx *PoolContext, event *DecodedEvent, indexArg, amountArg string, impact model.Impact) (*model.TokenLeg, error) {
	index, ok, err := event.CoinIndex(indexArg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: missing %s", event.Name, indexArg)
	}
	coin, err := pctx.CoinAt(index)
	if err != nil {
		return nil, err
	}
	raw, err := event.Amount(amountArg)
	if err != nil {
		return nil, err
	}
	if raw.Sign() == 0 {
		return nil, nil
	}

	amount := TokenAmount(raw, coin.Decimals)
	usd := UsdValue(amount, coin.UsdPrice)
	return &model.TokenLeg{
		Symbol:    coin.Symbol,
		Address:   coin.Address,
		Amount:    &amount,
		UsdPrice:  coin.UsdPrice,
		UsdAmount: &usd,
		Impact:    impact,
	}, nil
}

func (c *LogClassifier) build(pctx *PoolContext, log model.LogRecord, op model.Operation, total decimal.Decimal, legs []model.TokenLeg) *model.Transaction {
	return &model.Transaction{
		Hash:           log.TxHash,
		Pool:           pctx.Meta.Address,
		Timestamp:      log.Timestamp,
		Type:           op,
		TotalUsdAmount: total,
		Tokens:         legs,
	}
}
