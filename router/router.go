// Package router dispatches generic "contract.function" calls through
// the resolver: it parses the dotted path, resolves the contract and
// binds the named function for a read-only call or a gas estimate.
package router

import (
	"context"
	"errors"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	rwcommon "github.com/rocketwatch/resolver/common"
	"github.com/rocketwatch/resolver/resolver"
)

// Revert reasons DecodeRevertReason maps generic invocation errors to.
// Unknown error codes get the generic string rather than failing the
// decode.
const (
	OutOfGasReason    = "Out of gas"
	HiddenErrorReason = "Hidden Error"
)

const outOfGasCode = -32000

type Router struct {
	resolver *resolver.Resolver
	log      log.Logger
}

func New(r *resolver.Resolver) *Router {
	return &Router{
		resolver: r,
		log:      log.New("module", "router"),
	}
}

// ParsePath splits a "contract.function" path. Anything that doesn't
// split into exactly two non-empty parts is an InvalidPathError.
func ParsePath(path string) (name, function string, err error) {
	parts := strings.Split(path, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &rwcommon.InvalidPathError{Path: path, Parts: len(parts)}
	}
	return parts[0], parts[1], nil
}

// CallOpts tunes a single dispatch. The zero value calls on the
// primary network at the latest block with the address resolved from
// the path's contract name.
type CallOpts struct {
	// Block to execute against; non-positive means latest.
	Block int64
	// Address overrides name resolution when set.
	Address *ethcommon.Address
	// Mainnet routes the call to the secondary network client.
	Mainnet bool
}

// GetFunction resolves the path's contract and binds args to the named
// function without executing anything.
func (rt *Router) GetFunction(
	ctx context.Context,
	path string,
	opts CallOpts,
	args ...interface{},
) (*resolver.BoundCall, error) {
	name, function, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	var addr ethcommon.Address
	if opts.Address != nil {
		addr = *opts.Address
	} else {
		addr, err = rt.resolver.ResolveAddress(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	network := resolver.Primary
	if opts.Mainnet {
		network = resolver.Mainnet
	}
	contract, err := rt.resolver.Assemble(ctx, name, addr, network)
	if err != nil {
		return nil, err
	}
	return contract.Function(function, args...)
}

// Call executes the bound function read-only and unpacks the return
// value(s) into result.
func (rt *Router) Call(
	ctx context.Context,
	result interface{},
	path string,
	opts CallOpts,
	args ...interface{},
) error {
	rt.log.Debug("calling", "path", path, "block", opts.Block)
	bound, err := rt.GetFunction(ctx, path, opts, args...)
	if err != nil {
		return err
	}
	return bound.Call(ctx, result, opts.Block)
}

// CallValues is Call for callers that don't know the return shape
// ahead of time.
func (rt *Router) CallValues(
	ctx context.Context,
	path string,
	opts CallOpts,
	args ...interface{},
) ([]interface{}, error) {
	rt.log.Debug("calling", "path", path, "block", opts.Block)
	bound, err := rt.GetFunction(ctx, path, opts, args...)
	if err != nil {
		return nil, err
	}
	return bound.CallValues(ctx, opts.Block)
}

// EstimateGas binds the function like Call but asks the node for a gas
// estimate instead of executing.
func (rt *Router) EstimateGas(
	ctx context.Context,
	path string,
	opts CallOpts,
	args ...interface{},
) (uint64, error) {
	rt.log.Debug("estimating gas", "path", path, "block", opts.Block)
	bound, err := rt.GetFunction(ctx, path, opts, args...)
	if err != nil {
		return 0, err
	}
	return bound.EstimateGas(ctx, opts.Block)
}

// DecodeRevertReason replays the transaction's exact call parameters
// at its mined block and interprets the outcome: the joined revert
// message(s) for a logic-level revert, a fixed human string for known
// invocation error codes, and "" when the replay succeeds (the
// transaction did not actually revert).
func (rt *Router) DecodeRevertReason(ctx context.Context, tx *rwcommon.Transaction) (string, error) {
	_, err := rt.resolver.Replay(ctx, tx)
	if err == nil {
		return "", nil
	}

	var logicErr *rwcommon.ContractLogicError
	if errors.As(err, &logicErr) {
		rt.log.Debug("replay reverted", "tx", tx.Hash, "err", logicErr)
		return strings.Join(logicErr.Reasons, ", "), nil
	}

	var invErr *rwcommon.InvocationError
	if errors.As(err, &invErr) {
		rt.log.Debug("replay failed", "tx", tx.Hash, "err", invErr)
		switch invErr.Code {
		case outOfGasCode:
			return OutOfGasReason, nil
		default:
			return HiddenErrorReason, nil
		}
	}

	return "", err
}
