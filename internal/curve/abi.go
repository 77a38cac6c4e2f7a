package curve

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Reference StableSwap pool interface (two-coin plain pool). Pools carry
// dozens of historical interface variants; callers should prefer the ABI
// fetched for the concrete pool and fall back to this one.
const stableSwapABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "provider", "type": "address"},
      {"indexed": false, "name": "token_amounts", "type": "uint256[2]"},
      {"indexed": false, "name": "fees", "type": "uint256[2]"},
      {"indexed": false, "name": "invariant", "type": "uint256"},
      {"indexed": false, "name": "token_supply", "type": "uint256"}
    ],
    "name": "AddLiquidity",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "provider", "type": "address"},
      {"indexed": false, "name": "token_amounts", "type": "uint256[2]"},
      {"indexed": false, "name": "fees", "type": "uint256[2]"},
      {"indexed": false, "name": "token_supply", "type": "uint256"}
    ],
    "name": "RemoveLiquidity",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "provider", "type": "address"},
      {"indexed": false, "name": "token_amounts", "type": "uint256[2]"},
      {"indexed": false, "name": "fees", "type": "uint256[2]"},
      {"indexed": false, "name": "invariant", "type": "uint256"},
      {"indexed": false, "name": "token_supply", "type": "uint256"}
    ],
    "name": "RemoveLiquidityImbalance",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "provider", "type": "address"},
      {"indexed": false, "name": "token_amount", "type": "uint256"},
      {"indexed": false, "name": "coin_amount", "type": "uint256"}
    ],
    "name": "RemoveLiquidityOne",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "buyer", "type": "address"},
      {"indexed": false, "name": "sold_id", "type": "int128"},
      {"indexed": false, "name": "tokens_sold", "type": "uint256"},
      {"indexed": false, "name": "bought_id", "type": "int128"},
      {"indexed": false, "name": "tokens_bought", "type": "uint256"}
    ],
    "name": "TokenExchange",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "buyer", "type": "address"},
      {"indexed": false, "name": "sold_id", "type": "int128"},
      {"indexed": false, "name": "tokens_sold", "type": "uint256"},
      {"indexed": false, "name": "bought_id", "type": "int128"},
      {"indexed": false, "name": "tokens_bought", "type": "uint256"}
    ],
    "name": "TokenExchangeUnderlying",
    "type": "event"
  },
  {
    "inputs": [
      {"name": "amounts", "type": "uint256[2]"},
      {"name": "min_mint_amount", "type": "uint256"}
    ],
    "name": "add_liquidity",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "_amount", "type": "uint256"},
      {"name": "min_amounts", "type": "uint256[2]"}
    ],
    "name": "remove_liquidity",
    "outputs": [{"name": "", "type": "uint256[2]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "_amounts", "type": "uint256[2]"},
      {"name": "_max_burn_amount", "type": "uint256"}
    ],
    "name": "remove_liquidity_imbalance",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "_token_amount", "type": "uint256"},
      {"name": "i", "type": "int128"},
      {"name": "_min_amount", "type": "uint256"}
    ],
    "name": "remove_liquidity_one_coin",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "i", "type": "int128"},
      {"name": "j", "type": "int128"},
      {"name": "dx", "type": "uint256"},
      {"name": "min_dy", "type": "uint256"}
    ],
    "name": "exchange",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "i", "type": "int128"},
      {"name": "j", "type": "int128"},
      {"name": "dx", "type": "uint256"},
      {"name": "min_dy", "type": "uint256"}
    ],
    "name": "exchange_underlying",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	stableSwapABI     abi.ABI
	stableSwapABIOnce sync.Once
	stableSwapABIErr  error
)

// StableSwapABI returns the parsed reference pool ABI.
func StableSwapABI() (abi.ABI, error) {
	stableSwapABIOnce.Do(func() {
		stableSwapABI, stableSwapABIErr = abi.JSON(strings.NewReader(stableSwapABIJSON))
	})
	return stableSwapABI, stableSwapABIErr
}

// ParseABI parses a pool ABI definition fetched from a contract registry.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}
