package curve

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func asBigInt(value interface{}) (*big.Int, error) {
	parsed, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected big integer, got %T", value)
	}
	return parsed, nil
}

// asBigIntSlice accepts both dynamic uint256[] arguments and the fixed-size
// uint256[N] arrays the ABI library unpacks as Go arrays.
func asBigIntSlice(value interface{}) ([]*big.Int, error) {
	if parsed, ok := value.([]*big.Int); ok {
		return parsed, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected integer array, got %T", value)
	}

	out := make([]*big.Int, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, ok := rv.Index(i).Interface().(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected integer array element, got %T", rv.Index(i).Interface())
		}
		out = append(out, item)
	}
	return out, nil
}

// asCoinIndex narrows an int128/uint256 argument to a coin index.
func asCoinIndex(value interface{}) (int, error) {
	parsed, err := asBigInt(value)
	if err != nil {
		return 0, err
	}
	if !parsed.IsInt64() || parsed.Sign() < 0 {
		return 0, fmt.Errorf("coin index out of range: %s", parsed)
	}
	return int(parsed.Int64()), nil
}
