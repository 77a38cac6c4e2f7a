package curve

import (
	"errors"
	"testing"

	"curvescope/internal/model"
)

// Log payloads below are real mainnet emissions from the steth, 3pool and
// frax pools.

func TestLogClassifierAddLiquidity(t *testing.T) {
	pctx := stethPool(t)
	log := makeLog(t, pctx, "AddLiquidity",
		"0xbf1c175b706d02a9d4bcf8e7d4c8ad6706d644df23c27a75b76cd40d75f6c3d8",
		"0x0000000000000000000000005ce9b49b7a1be9f2c3dc2b2a5bacea56fa21fbee",
		"0x0000000000000000000000000000000000000000000000004563918244f40000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000026cdd2482451000000000000000000000000000000000000000000000000000027923515f7b2600000000000000000000000000000000000000000000a33696f9c5537aba316d000000000000000000000000000000000000000000009bffce54b9208775ef95",
		1658674202,
	)

	record, err := NewLogClassifier(nil).Classify(pctx, log)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if record.Type != model.OperationAddLiquidity {
		t.Fatalf("type mismatch: %s", record.Type)
	}
	if record.Hash != log.TxHash || record.Timestamp != 1658674202 {
		t.Fatalf("identity mismatch: %+v", record)
	}
	if !record.TotalUsdAmount.Equal(mustDecimal(t, "8632.15")) {
		t.Fatalf("total mismatch: %s", record.TotalUsdAmount)
	}
	if len(record.Tokens) != 1 {
		t.Fatalf("expected one leg, got %d", len(record.Tokens))
	}
	leg := record.Tokens[0]
	if leg.Symbol != "ETH" || leg.Impact != model.ImpactAdd {
		t.Fatalf("leg mismatch: %+v", leg)
	}
	if leg.Amount == nil || !leg.Amount.Equal(mustDecimal(t, "5")) {
		t.Fatalf("leg amount mismatch: %v", leg.Amount)
	}
	if leg.UsdAmount == nil || !leg.UsdAmount.Equal(mustDecimal(t, "8632.15")) {
		t.Fatalf("leg usd mismatch: %v", leg.UsdAmount)
	}
}

func TestLogClassifierRemoveLiquidityZeroAmounts(t *testing.T) {
	pctx := stethPool(t)
	log := makeLog(t, pctx, "RemoveLiquidity",
		"0x75e9a1f62fd1cd35277f0875687c91b431610481ebbc5f6fecc9312232c7bf0a",
		"0x000000000000000000000000ea508f82728927454bd3ce853171b0e2705880d4",
		"0x0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000009c04e53d813489ff6f44",
		1658678475,
	)

	record, err := NewLogClassifier(nil).Classify(pctx, log)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if record.Type != model.OperationRemoveLiquidity {
		t.Fatalf("type mismatch: %s", record.Type)
	}
	if !record.TotalUsdAmount.IsZero() {
		t.Fatalf("expected zero total, got %s", record.TotalUsdAmount)
	}
	if len(record.Tokens) != 0 {
		t.Fatalf("expected no legs, got %+v", record.Tokens)
	}
}

func TestLogClassifierRemoveLiquidityBothCoins(t *testing.T) {
	pctx := stethPool(t)
	log := makeLog(t, pctx, "RemoveLiquidity",
		"0x9e920fe97b13ddf433b400855b47571abe5d2179c0ecbb6fe3fa884403e175b9",
		"0x0000000000000000000000004064641ac262e69e7c9adec3d0f6e51c39887e81",
		"0x000000000000000000000000000000000000000000000000551df49fe68e3795000000000000000000000000000000000000000000000000e0b24fcf1bb7c8b20000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000a517eca6c8f3edae175f",
		1659139653,
	)

	record, err := NewLogClassifier(nil).Classify(pctx, log)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(record.Tokens) != 2 {
		t.Fatalf("expected two legs, got %d", len(record.Tokens))
	}

	ethAmount := mustDecimal(t, "6.133327235153541013")
	stethAmount := mustDecimal(t, "16.191091361292208306")
	ethUsd := ethAmount.Mul(pctx.Meta.Coins[0].UsdPrice)
	stethUsd := stethAmount.Mul(pctx.Meta.Coins[1].UsdPrice)

	eth, steth := record.Tokens[0], record.Tokens[1]
	if eth.Symbol != "ETH" || eth.Impact != model.ImpactRemove || !eth.Amount.Equal(ethAmount) {
		t.Fatalf("eth leg mismatch: %+v", eth)
	}
	if steth.Symbol != "stETH" || steth.Impact != model.ImpactRemove || !steth.Amount.Equal(stethAmount) {
		t.Fatalf("steth leg mismatch: %+v", steth)
	}
	if !eth.UsdAmount.Equal(ethUsd) || !steth.UsdAmount.Equal(stethUsd) {
		t.Fatalf("leg usd mismatch: %s / %s", eth.UsdAmount, steth.UsdAmount)
	}
	if !record.TotalUsdAmount.Equal(ethUsd.Add(stethUsd)) {
		t.Fatalf("total mismatch: %s", record.TotalUsdAmount)
	}
}

func TestLogClassifierRemoveLiquidityOneWithoutIndex(t *testing.T) {
	pctx := stethPool(t)
	log := makeLog(t, pctx, "RemoveLiquidityOne",
		"0x5be68ea89469de3d9f9f0941a88de65b9a4004873be6f3e8cb8315638cb610f9",
		"0x000000000000000000000000e859231d5ef4051d300698b9d46c421de1d7d5e0",
		"0x00000000000000000000000000000000000000000000000002e4bcb71da7847b00000000000000000000000000000000000000000000000002fdab1ce407273f",
		1658710096,
	)

	_, err := NewLogClassifier(nil).Classify(pctx, log)
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestLogClassifierRemoveLiquidityImbalance(t *testing.T) {
	pctx := threePool(t)
	log := makeLog(t, pctx, "RemoveLiquidityImbalance",
		"0x98db4d084279ccab8e5401cb99edbac6fba84375422148a3115f9f5485961d7f",
		"0x0000000000000000000000000b686fee0102d9dbb2fb528f24408fe1aabdc87e",
		"0x000000000000000000000000000000000000000000000001b2085d858f9fd42c000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000002ae60190a68e3000000000000000000000000000000000000000000000000000000000000016f00000000000000000000000000000000000000000000000000000000000001830000000000000000000000000000000000000000030ff7ff217909de836a6019000000000000000000000000000000000000000002ff3e64baa19646c659b75b",
		1658919874,
	)

	record, err := NewLogClassifier(nil).Classify(pctx, log)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if record.Type != model.OperationRemoveLiquidity {
		t.Fatalf("type mismatch: %s", record.Type)
	}
	if len(record.Tokens) != 1 {
		t.Fatalf("expected one leg, got %d", len(record.Tokens))
	}

	daiAmount := mustDecimal(t, "31.275350440496059436")
	daiUsd := daiAmount.Mul(pctx.Meta.Coins[0].UsdPrice)
	leg := record.Tokens[0]
	if leg.Symbol != "DAI" || leg.Impact != model.ImpactRemove || !leg.Amount.Equal(daiAmount) {
		t.Fatalf("leg mismatch: %+v", leg)
	}
	if !record.TotalUsdAmount.Equal(daiUsd) {
		t.Fatalf("total mismatch: %s", record.TotalUsdAmount)
	}
}

func TestLogClassifierTokenExchange(t *testing.T) {
	pctx := stethPool(t)
	log := makeLog(t, pctx, "TokenExchange",
		"0xd2ab17d656f74938b6ebc4e566cdaf39bf55c4d5b51c1868d2eda9a8ff7dee04",
		"0x0000000000000000000000002f4d29f3172fe9f7b9c52063ec30272bb265715f",
		"0x000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000029a2241af62c000000000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000002a707dba0cee0fbb",
		1658674467,
	)

	record, err := NewLogClassifier(nil).Classify(pctx, log)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if record.Type != model.OperationExchange {
		t.Fatalf("type mismatch: %s", record.Type)
	}
	if !record.TotalUsdAmount.Equal(mustDecimal(t, "5179.29")) {
		t.Fatalf("total mismatch: %s", record.TotalUsdAmount)
	}
	if len(record.Tokens) != 2 {
		t.Fatalf("expected two legs, got %d", len(record.Tokens))
	}

	sold, bought := record.Tokens[0], record.Tokens[1]
	if sold.Symbol != "ETH" || sold.Impact != model.ImpactAdd || !sold.Amount.Equal(mustDecimal(t, "3")) {
		t.Fatalf("sold leg mismatch: %+v", sold)
	}
	boughtAmount := mustDecimal(t, "3.058082385018884027")
	if bought.Symbol != "stETH" || bought.Impact != model.ImpactRemove || !bought.Amount.Equal(boughtAmount) {
		t.Fatalf("bought leg mismatch: %+v", bought)
	}
	if !bought.UsdAmount.Equal(boughtAmount.Mul(pctx.Meta.Coins[1].UsdPrice)) {
		t.Fatalf("bought usd mismatch: %s", bought.UsdAmount)
	}
}

func TestLogClassifierTokenExchangeUnderlying(t *testing.T) {
	pctx := fraxPool(t)
	log := makeLog(t, pctx, "TokenExchangeUnderlying",
		"0xde159aabeda34123c8755eb7509d045cd45073126529ae3c89cd4e2aa7755204",
		"0x00000000000000000000000000000000c2cf7648c169b25ef1c217864bfa38cc",
		"0x000000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000000000000000000000000000000af846c8a000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000009f9bfa4ca365b07a86",
		1658702376,
	)

	_, err := NewLogClassifier(nil).Classify(pctx, log)
	if !errors.Is(err, ErrExchangeUnderlying) {
		t.Fatalf("expected ErrExchangeUnderlying, got %v", err)
	}
	if errors.Is(err, ErrUnparseable) {
		t.Fatalf("underlying exchange must not read as unparseable")
	}
}

func TestLogClassifierUnknownTopic(t *testing.T) {
	pctx := stethPool(t)
	log := model.LogRecord{
		TxHash:  "0x1111111111111111111111111111111111111111111111111111111111111111",
		Address: pctx.Meta.Address,
		Topics:  []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
		Data:    "0x",
	}

	_, err := NewLogClassifier(nil).Classify(pctx, log)
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestLogClassifierBatchStats(t *testing.T) {
	steth := stethPool(t)
	frax := fraxPool(t)

	exchange := makeLog(t, steth, "TokenExchange",
		"0xd2ab17d656f74938b6ebc4e566cdaf39bf55c4d5b51c1868d2eda9a8ff7dee04",
		"0x0000000000000000000000002f4d29f3172fe9f7b9c52063ec30272bb265715f",
		"0x000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000029a2241af62c000000000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000002a707dba0cee0fbb",
		1658674467,
	)
	underlying := makeLog(t, frax, "TokenExchangeUnderlying",
		"0xde159aabeda34123c8755eb7509d045cd45073126529ae3c89cd4e2aa7755204",
		"0x00000000000000000000000000000000c2cf7648c169b25ef1c217864bfa38cc",
		"0x000000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000000000000000000000000000000af846c8a000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000009f9bfa4ca365b07a86",
		1658702376,
	)
	junk := model.LogRecord{
		TxHash: "0x2222222222222222222222222222222222222222222222222222222222222222",
		Topics: []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
		Data:   "0x",
	}

	records, parseErrs, stats := NewLogClassifier(nil).ClassifyBatch(steth, []model.LogRecord{exchange, underlying, junk})
	if stats.Total != 3 || stats.Classified != 1 || stats.UnderlyingExchanges != 1 || stats.Unparseable != 1 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
	if !stats.Incomplete() {
		t.Fatalf("expected incomplete batch")
	}
	if len(records) != 1 || records[0].Hash != exchange.TxHash {
		t.Fatalf("records mismatch: %+v", records)
	}
	if len(parseErrs) != 2 {
		t.Fatalf("expected two parse errors, got %d", len(parseErrs))
	}
	if parseErrs[0].TxHash != underlying.TxHash || parseErrs[0].Topic0 != underlying.Topics[0] {
		t.Fatalf("parse error mismatch: %+v", parseErrs[0])
	}
}
