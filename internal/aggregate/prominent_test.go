package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"curvescope/internal/model"
)

func TestProminentFilterThreshold(t *testing.T) {
	pctx := testPool(t)
	pool := pctx.Meta.Address

	txs := []model.TxRecord{
		addLiquidityTx("0x01", 1658664000, pool, eth(5), eth(2)), // 12 USD
		exchangeTx("0x02", 1658665000, pool, 0, 1, eth(3)),       // 6 USD
		addLiquidityTx("0x03", 1658666000, pool, eth(1), eth(0)), // 2 USD
		{Hash: "0x04", Timestamp: 1658667000, To: pool, Input: "0xdeadbeef", Status: model.TxStatusSuccess},
		{Hash: "0x05", Timestamp: 1658668000, To: pool, Input: "0x", Status: model.TxStatusFailed},
	}

	out := NewProminentFilter(nil, nil).Filter(pctx, txs, mustDecimal(t, "6"), 0)
	require.Len(t, out, 2)
	require.Equal(t, "0x01", out[0].Hash)
	require.Equal(t, "0x02", out[1].Hash)
}

func TestProminentFilterSince(t *testing.T) {
	pctx := testPool(t)
	pool := pctx.Meta.Address

	txs := []model.TxRecord{
		addLiquidityTx("0x01", 1658664000, pool, eth(5), eth(2)),
		addLiquidityTx("0x02", 1658750400, pool, eth(5), eth(2)),
	}

	out := NewProminentFilter(nil, nil).Filter(pctx, txs, mustDecimal(t, "1"), 1658700000)
	require.Len(t, out, 1)
	require.Equal(t, "0x02", out[0].Hash)
}

func TestLatestTimestamp(t *testing.T) {
	require.Equal(t, uint64(0), LatestTimestamp(nil))
	require.Equal(t, uint64(1658750400), LatestTimestamp([]model.Transaction{
		{Hash: "0x01", Timestamp: 1658664000},
		{Hash: "0x02", Timestamp: 1658750400},
		{Hash: "0x03", Timestamp: 1658665000},
	}))
}
