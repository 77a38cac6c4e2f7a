package curve

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"curvescope/internal/model"
)

// EventKind is the closed set of pool event shapes the classifier
// understands, assigned once at the decode boundary.
type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventAddLiquidity
	EventRemoveLiquidity
	EventRemoveLiquidityImbalance
	EventRemoveLiquidityOne
	EventTokenExchange
	EventTokenExchangeUnderlying
)

func (k EventKind) String() string {
	switch k {
	case EventAddLiquidity:
		return "AddLiquidity"
	case EventRemoveLiquidity:
		return "RemoveLiquidity"
	case EventRemoveLiquidityImbalance:
		return "RemoveLiquidityImbalance"
	case EventRemoveLiquidityOne:
		return "RemoveLiquidityOne"
	case EventTokenExchange:
		return "TokenExchange"
	case EventTokenExchangeUnderlying:
		return "TokenExchangeUnderlying"
	default:
		return "Unrecognized"
	}
}

// DecodedEvent is a pool event log resolved to named, typed arguments.
// Args holds both indexed and non-indexed inputs.
type DecodedEvent struct {
	Kind EventKind
	Name string
	Args map[string]interface{}
}

// DecodeEvent resolves a raw log against the pool's interface. A topic0 that
// matches no event in the current ABI yields ErrUnparseable.
func DecodeEvent(poolABI abi.ABI, log model.LogRecord) (*DecodedEvent, error) {
	topic0 := log.Topic0()
	if topic0 == "" {
		return nil, fmt.Errorf("%w: log has no topics", ErrUnparseable)
	}

	topics, err := parseTopicHashes(log.Topics)
	if err != nil {
		return nil, err
	}

	event, err := poolABI.EventByID(topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: topic0 %s not in current abi", ErrUnparseable, topic0)
	}

	args := make(map[string]interface{})

	indexed := indexedArguments(event.Inputs)
	if len(topics)-1 != len(indexed) {
		return nil, fmt.Errorf("%s: expected %d indexed topics, got %d", event.Name, len(indexed), len(topics)-1)
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, topics[1:]); err != nil {
		return nil, fmt.Errorf("parse %s topics: %w", event.Name, err)
	}

	data, err := hexutil.Decode(log.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid log data: %w", err)
	}
	if err := event.Inputs.NonIndexed().UnpackIntoMap(args, data); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}

	return &DecodedEvent{
		Kind: eventKindFor(event.Name),
		Name: event.Name,
		Args: args,
	}, nil
}

func eventKindFor(name string) EventKind {
	switch {
	case strings.HasPrefix(name, "RemoveLiquidityImbalance"):
		return EventRemoveLiquidityImbalance
	case strings.HasPrefix(name, "RemoveLiquidityOne"):
		return EventRemoveLiquidityOne
	case strings.HasPrefix(name, "RemoveLiquidity"):
		return EventRemoveLiquidity
	case strings.HasPrefix(name, "AddLiquidity"):
		return EventAddLiquidity
	case strings.HasPrefix(name, "TokenExchangeUnderlying"):
		return EventTokenExchangeUnderlying
	case strings.HasPrefix(name, "TokenExchange"):
		return EventTokenExchange
	default:
		return EventUnrecognized
	}
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) > 32 {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

// TokenAmounts returns the per-coin amount array argument.
func (e *DecodedEvent) TokenAmounts() ([]*big.Int, error) {
	for _, name := range []string{"token_amounts", "amounts", "uamounts"} {
		if value, ok := e.Args[name]; ok {
			return asBigIntSlice(value)
		}
	}
	return nil, fmt.Errorf("%s: no token amounts argument", e.Name)
}

// Amount returns the named scalar amount argument.
func (e *DecodedEvent) Amount(names ...string) (*big.Int, error) {
	for _, name := range names {
		if value, ok := e.Args[name]; ok {
			return asBigInt(value)
		}
	}
	return nil, fmt.Errorf("%s: no amount argument %v", e.Name, names)
}

// CoinIndex returns the named coin index argument. ok is false when no such
// argument exists in this interface version.
func (e *DecodedEvent) CoinIndex(names ...string) (index int, ok bool, err error) {
	for _, name := range names {
		if value, present := e.Args[name]; present {
			index, err = asCoinIndex(value)
			return index, err == nil, err
		}
	}
	return 0, false, nil
}
