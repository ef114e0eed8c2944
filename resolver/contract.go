package resolver

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	rwcommon "github.com/rocketwatch/resolver/common"
)

// GasCeiling is passed as the gas limit on estimations so the node
// doesn't reject the estimation itself as out of gas.
const GasCeiling uint64 = 1 << 32

// Contract is an assembled, callable handle binding an ABI to an
// address on one network. Handles are immutable once assembled and are
// shared through the contract cache.
type Contract struct {
	Name    string
	Address ethcommon.Address
	ABI     *abi.ABI
	Network Network

	caller Caller
}

// Call performs a read-only call of method at the given block
// (non-positive means latest) and unpacks the result into result.
func (c *Contract) Call(
	ctx context.Context,
	result interface{},
	atBlock int64,
	method string,
	args ...interface{},
) error {
	bound, err := c.Function(method, args...)
	if err != nil {
		return err
	}
	return bound.Call(ctx, result, atBlock)
}

// Function looks the named function up on the ABI and binds args to it.
func (c *Contract) Function(method string, args ...interface{}) (*BoundCall, error) {
	if _, found := c.ABI.Methods[method]; !found {
		return nil, &rwcommon.NotFoundError{Kind: "function", Name: c.Name + "." + method}
	}
	return &BoundCall{contract: c, method: method, args: args}, nil
}

// BoundCall is a function with its arguments bound, ready to be called
// or gas-estimated against a block of choice.
type BoundCall struct {
	contract *Contract
	method   string
	args     []interface{}
}

func (b *BoundCall) Call(ctx context.Context, result interface{}, atBlock int64) error {
	c := b.contract
	return c.caller.ReadContract(ctx, result, atBlock, c.Address, c.ABI, b.method, b.args...)
}

// CallValues is Call for callers that don't know the return shape
// ahead of time.
func (b *BoundCall) CallValues(ctx context.Context, atBlock int64) ([]interface{}, error) {
	c := b.contract
	return c.caller.ReadContractValues(ctx, atBlock, c.Address, c.ABI, b.method, b.args...)
}

func (b *BoundCall) EstimateGas(ctx context.Context, atBlock int64) (uint64, error) {
	c := b.contract
	return c.caller.EstimateContractGas(ctx, c.Address, c.ABI, GasCeiling, atBlock, b.method, b.args...)
}
