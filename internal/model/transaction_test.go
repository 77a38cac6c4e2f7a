package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionJSONOmitsMissingAmounts(t *testing.T) {
	amount := decimal.RequireFromString("3")
	usd := decimal.RequireFromString("5179.29")
	tx := Transaction{
		Hash:           "0xabc",
		Pool:           "0xpool",
		Timestamp:      1658664000,
		Type:           OperationExchange,
		TotalUsdAmount: usd,
		Tokens: []TokenLeg{
			{Symbol: "ETH", Address: "0xeth", Amount: &amount, UsdPrice: decimal.RequireFromString("1726.43"), UsdAmount: &usd, Impact: ImpactAdd},
			{Symbol: "stETH", Address: "0xsteth", UsdPrice: decimal.RequireFromString("1681.87"), Impact: ImpactRemove},
		},
	}

	raw, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(raw)
	if strings.Count(encoded, "\"amount\"") != 1 {
		t.Fatalf("amountless leg should omit amount: %s", encoded)
	}
	if !strings.Contains(encoded, "\"type\":\"exchange\"") {
		t.Fatalf("operation not encoded: %s", encoded)
	}

	var decoded Transaction
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Tokens[0].HasAmount() || decoded.Tokens[1].HasAmount() {
		t.Fatalf("amount presence lost: %+v", decoded.Tokens)
	}
	if !decoded.TotalUsdAmount.Equal(usd) {
		t.Fatalf("total mismatch: %s", decoded.TotalUsdAmount)
	}
}

func TestLogRecordJSON(t *testing.T) {
	record := LogRecord{
		TxHash:    "0xdef",
		Address:   "0xpool",
		Topics:    []string{"0xtopic0", "0xtopic1"},
		Data:      "0x00",
		Timestamp: 1658664000,
	}

	raw, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded LogRecord
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Topic0() != "0xtopic0" || decoded.Timestamp != record.Timestamp {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	var empty LogRecord
	if empty.Topic0() != "" {
		t.Fatal("empty record should have no topic0")
	}
}
