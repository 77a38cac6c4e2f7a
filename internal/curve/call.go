package curve

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallKind is the closed set of pool call shapes the classifier understands.
// It is assigned once, at the decode boundary, so the classifier can match
// exhaustively instead of re-inspecting free-form operation names.
type CallKind int

const (
	CallUnrecognized CallKind = iota
	CallAddLiquidity
	CallRemoveLiquidity
	CallRemoveLiquidityImbalance
	CallRemoveLiquidityOne
	CallExchange
	CallExchangeUnderlying
)

func (k CallKind) String() string {
	switch k {
	case CallAddLiquidity:
		return "add_liquidity"
	case CallRemoveLiquidity:
		return "remove_liquidity"
	case CallRemoveLiquidityImbalance:
		return "remove_liquidity_imbalance"
	case CallRemoveLiquidityOne:
		return "remove_liquidity_one_coin"
	case CallExchange:
		return "exchange"
	case CallExchangeUnderlying:
		return "exchange_underlying"
	default:
		return "unrecognized"
	}
}

// DecodedCall is a pool function call resolved to named, typed arguments.
type DecodedCall struct {
	Kind CallKind
	Name string
	Args map[string]interface{}
}

// DecodeCall resolves raw call input against the pool's interface.
// A selector that matches no function in the current ABI yields
// ErrUnparseable: historical pools were upgraded many times and old call
// data routinely predates the published interface.
func DecodeCall(poolABI abi.ABI, input string) (*DecodedCall, error) {
	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid call input: %w", err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: call input shorter than a selector", ErrUnparseable)
	}

	method, err := poolABI.MethodById(data[:4])
	if err != nil {
		return nil, fmt.Errorf("%w: selector %s not in current abi", ErrUnparseable, hexutil.Encode(data[:4]))
	}

	args := make(map[string]interface{})
	if err := method.Inputs.UnpackIntoMap(args, data[4:]); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method.Name, err)
	}

	return &DecodedCall{
		Kind: callKindFor(method.Name),
		Name: method.Name,
		Args: args,
	}, nil
}

func callKindFor(name string) CallKind {
	switch {
	case strings.HasPrefix(name, "remove_liquidity_imbalance"):
		return CallRemoveLiquidityImbalance
	case strings.HasPrefix(name, "remove_liquidity_one_coin"):
		return CallRemoveLiquidityOne
	case strings.HasPrefix(name, "remove_liquidity"):
		return CallRemoveLiquidity
	case strings.HasPrefix(name, "add_liquidity"):
		return CallAddLiquidity
	case strings.HasPrefix(name, "exchange_underlying"):
		return CallExchangeUnderlying
	case strings.HasPrefix(name, "exchange"):
		return CallExchange
	default:
		return CallUnrecognized
	}
}

// Amounts returns the per-coin amount array argument. Interface versions
// disagree on the name.
func (c *DecodedCall) Amounts() ([]*big.Int, error) {
	for _, name := range []string{"_amounts", "amounts", "uamounts", "_uamounts"} {
		if value, ok := c.Args[name]; ok {
			return asBigIntSlice(value)
		}
	}
	return nil, fmt.Errorf("%s: no amounts argument", c.Name)
}

// BurnAmount returns the LP-token burn amount argument.
func (c *DecodedCall) BurnAmount() (*big.Int, error) {
	for _, name := range []string{"_amount", "amount", "_token_amount", "token_amount", "_burn_amount"} {
		if value, ok := c.Args[name]; ok {
			return asBigInt(value)
		}
	}
	return nil, fmt.Errorf("%s: no burn amount argument", c.Name)
}

// CoinIndex returns the named coin index argument.
func (c *DecodedCall) CoinIndex(names ...string) (int, error) {
	for _, name := range names {
		if value, ok := c.Args[name]; ok {
			return asCoinIndex(value)
		}
	}
	return 0, fmt.Errorf("%s: no coin index argument", c.Name)
}

// InputAmount returns the swap input amount (dx).
func (c *DecodedCall) InputAmount() (*big.Int, error) {
	for _, name := range []string{"dx", "_dx"} {
		if value, ok := c.Args[name]; ok {
			return asBigInt(value)
		}
	}
	return nil, fmt.Errorf("%s: no input amount argument", c.Name)
}
