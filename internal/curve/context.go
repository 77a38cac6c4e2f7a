package curve

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"curvescope/internal/model"
)

// PoolContext binds a pool's metadata to the decode handle for its own
// interface. Constructed once per pool before a batch and treated as
// immutable; classifiers never reorder the coin list, whose order is the
// on-chain coin index space.
type PoolContext struct {
	Meta model.PoolMetadata
	ABI  abi.ABI
}

// NewPoolContext builds a PoolContext from registry metadata and the pool's
// ABI JSON. An empty abiJSON selects the reference StableSwap interface.
func NewPoolContext(meta model.PoolMetadata, abiJSON string) (*PoolContext, error) {
	if meta.Address == "" {
		return nil, fmt.Errorf("pool address is required")
	}
	if len(meta.Coins) == 0 {
		return nil, fmt.Errorf("pool %s has no coins", meta.Address)
	}

	var (
		poolABI abi.ABI
		err     error
	)
	if abiJSON == "" {
		poolABI, err = StableSwapABI()
	} else {
		poolABI, err = ParseABI(abiJSON)
	}
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	return &PoolContext{Meta: meta, ABI: poolABI}, nil
}

// CoinAt returns the coin at on-chain index i.
func (p *PoolContext) CoinAt(i int) (model.PoolCoin, error) {
	if i < 0 || i >= len(p.Meta.Coins) {
		return model.PoolCoin{}, fmt.Errorf("coin index %d out of range for pool %s (%d coins)", i, p.Meta.Address, len(p.Meta.Coins))
	}
	return p.Meta.Coins[i], nil
}
