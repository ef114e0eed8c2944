package reader

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	rwcommon "github.com/rocketwatch/resolver/common"
)

// ContractReader is the slice of Client the batcher needs. It lets
// tests drive MultiCall with a fake chain.
type ContractReader interface {
	ReadContract(
		ctx context.Context,
		result interface{},
		atBlock int64,
		caddr ethcommon.Address,
		a *abi.ABI,
		method string,
		args ...interface{},
	) error
}

var doNothingResultHandler OneResultHandler = func(result interface{}) error { return nil }

// OneResultHandler runs over one registered result after the batch
// returns.
type OneResultHandler func(result interface{}) error

// MultiCall collects contract reads and executes them as a single
// aggregate call against the multicall contract. A MultiCall value is
// one batch; build a new one per use.
type MultiCall struct {
	r        ContractReader
	contract ethcommon.Address
	mcABI    *abi.ABI
	results  []interface{}
	caddrs   []ethcommon.Address
	abis     []*abi.ABI
	methods  []string
	argLists [][]interface{}
	hooks    []OneResultHandler
}

func NewMultiCall(r ContractReader, contract ethcommon.Address) *MultiCall {
	return &MultiCall{
		r:        r,
		contract: contract,
		mcABI:    rwcommon.GetMultiCallABI(),
	}
}

func (mc *MultiCall) RegisterWithHook(
	result interface{},
	hook OneResultHandler,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) *MultiCall {
	mc.results = append(mc.results, result)
	mc.caddrs = append(mc.caddrs, caddr)
	mc.abis = append(mc.abis, a)
	mc.methods = append(mc.methods, method)
	mc.argLists = append(mc.argLists, args)
	mc.hooks = append(mc.hooks, hook)
	return mc
}

func (mc *MultiCall) Register(
	result interface{},
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) *MultiCall {
	return mc.RegisterWithHook(result, doNothingResultHandler, caddr, a, method, args...)
}

func (mc *MultiCall) Size() int { return len(mc.results) }

type multicallres struct {
	BlockNumber *big.Int
	ReturnData  [][]byte
}

type call struct {
	Target   ethcommon.Address
	CallData []byte
}

// Probe verifies the multicall contract answers an empty aggregate.
// Used once per flush to decide whether batching is available.
func (mc *MultiCall) Probe(ctx context.Context) error {
	res := multicallres{}
	return mc.r.ReadContract(ctx, &res, -1, mc.contract, mc.mcABI, "aggregate", []call{})
}

func (mc *MultiCall) callMCContract(ctx context.Context, atBlock int64) (block int64, err error) {
	res := multicallres{}

	calls := []call{}
	for i, caddr := range mc.caddrs {
		data, err := mc.abis[i].Pack(mc.methods[i], mc.argLists[i]...)
		if err != nil {
			return 0, err
		}
		calls = append(calls, call{caddr, data})
	}

	err = mc.r.ReadContract(ctx, &res, atBlock, mc.contract, mc.mcABI, "aggregate", calls)
	if err != nil {
		return 0, fmt.Errorf("reading mc.aggregate failed: %w", err)
	}

	for i := range mc.results {
		err = mc.abis[i].UnpackIntoInterface(
			mc.results[i],
			mc.methods[i],
			res.ReturnData[i],
		)
		if err != nil {
			return 0, fmt.Errorf("unpacking call index %d failed: %w", i, err)
		}
	}
	return res.BlockNumber.Int64(), nil
}

func (mc *MultiCall) Do(ctx context.Context, atBlock int64) (block int64, err error) {
	block, err = mc.callMCContract(ctx, atBlock)
	if err != nil {
		return 0, fmt.Errorf("calling mc contract failed: %w", err)
	}

	for i, result := range mc.results {
		err = mc.hooks[i](result)
		if err != nil {
			return 0, fmt.Errorf("calling hook at index %d failed: %w", i, err)
		}
	}

	return block, nil
}
