package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"curvescope/internal/chain"
	"curvescope/internal/model"
)

// RefreshBalances replaces each coin's PoolBalance with the pool's on-chain
// balance of that token at the given block (nil means latest per call, which
// can straddle blocks mid-loop). Registry snapshots lag the chain, this
// brings TVL inputs up to date. Coins whose balance call fails keep their
// registry value.
func RefreshBalances(ctx context.Context, chainClient *chain.Client, meta *model.PoolMetadata, block *big.Int, logger *zap.Logger) error {
	if chainClient == nil {
		return fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := erc20ABI()
	if err != nil {
		return fmt.Errorf("parse erc20 abi: %w", err)
	}

	pool := common.HexToAddress(meta.Address)
	for i := range meta.Coins {
		coin := &meta.Coins[i]
		data, err := parsed.Pack("balanceOf", pool)
		if err != nil {
			return fmt.Errorf("pack balanceOf: %w", err)
		}
		token := common.HexToAddress(coin.Address)
		msg := ethereum.CallMsg{To: &token, Data: data}

		resp, err := chainClient.CallContract(ctx, msg, block)
		if err != nil {
			logger.Warn("balance call failed",
				zap.String("pool", meta.Address),
				zap.String("token", coin.Address),
				zap.Error(err))
			continue
		}
		values, err := parsed.Unpack("balanceOf", resp)
		if err != nil || len(values) == 0 {
			logger.Warn("balance unpack failed",
				zap.String("token", coin.Address),
				zap.Error(err))
			continue
		}
		if balance, ok := values[0].(*big.Int); ok {
			coin.PoolBalance = balance.String()
		}
	}
	return nil
}
