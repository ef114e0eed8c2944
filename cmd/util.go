package cmd

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// coerceArgs converts raw CLI strings into the Go values the abi
// packer expects for the given inputs.
func coerceArgs(inputs abi.Arguments, raw []string) ([]interface{}, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf(
			"wrong argument count: have %d, want %d", len(raw), len(inputs),
		)
	}
	args := make([]interface{}, len(raw))
	for i, input := range inputs {
		value, err := coerceArg(input.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, input.Type.String(), err)
		}
		args[i] = value
	}
	return args, nil
}

func coerceArg(t abi.Type, raw string) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		if !ethcommon.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q is not an address", raw)
		}
		return ethcommon.HexToAddress(raw), nil
	case abi.UintTy, abi.IntTy:
		value, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		// The packer wants the exact-width native type for small ints.
		switch t.Size {
		case 8:
			if t.T == abi.IntTy {
				return int8(value.Int64()), nil
			}
			return uint8(value.Uint64()), nil
		case 16:
			if t.T == abi.IntTy {
				return int16(value.Int64()), nil
			}
			return uint16(value.Uint64()), nil
		case 32:
			if t.T == abi.IntTy {
				return int32(value.Int64()), nil
			}
			return uint32(value.Uint64()), nil
		case 64:
			if t.T == abi.IntTy {
				return value.Int64(), nil
			}
			return value.Uint64(), nil
		}
		return value, nil
	case abi.BoolTy:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a bool", raw)
		}
		return value, nil
	case abi.StringTy:
		return raw, nil
	case abi.FixedBytesTy:
		if t.Size != 32 {
			return nil, fmt.Errorf("unsupported fixed bytes size %d", t.Size)
		}
		return ethcommon.HexToHash(raw), nil
	case abi.BytesTy:
		value, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not hex data: %w", raw, err)
		}
		return value, nil
	}
	return nil, fmt.Errorf("unsupported argument type %s", t.String())
}
