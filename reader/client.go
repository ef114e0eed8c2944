// Package reader wraps a single JSON-RPC node behind the small surface
// the resolver needs: contract reads at a block, gas estimation with an
// explicit ceiling, raw call replay and transaction lookup. It imposes
// no timeouts of its own; callers cancel through the context.
package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	rwcommon "github.com/rocketwatch/resolver/common"
)

// Client lazily connects to one node and keeps the connection for the
// process lifetime.
type Client struct {
	nodeName string
	nodeURL  string

	mu        sync.Mutex
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

func NewClient(name, url string) *Client {
	return &Client{
		nodeName: name,
		nodeURL:  url,
	}
}

func (c *Client) NodeName() string { return c.nodeName }

func (c *Client) NodeURL() string { return c.nodeURL }

func (c *Client) connect() (*rpc.Client, *ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpcClient != nil {
		return c.rpcClient, c.ethClient, nil
	}
	client, err := rpc.Dial(c.nodeURL)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't connect to %s: %w", c.nodeName, err)
	}
	c.rpcClient = client
	c.ethClient = ethclient.NewClient(client)
	return c.rpcClient, c.ethClient, nil
}

// ReadContract performs a read-only contract call at the given block
// (non-positive means latest) and unpacks the return data into result.
func (c *Client) ReadContract(
	ctx context.Context,
	result interface{},
	atBlock int64,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) error {
	data, err := c.readContractToBytes(ctx, atBlock, caddr, a, method, args...)
	if err != nil {
		return err
	}
	return a.UnpackIntoInterface(result, method, data)
}

// ReadContractValues is ReadContract for callers that don't know the
// return shape ahead of time: the return data is unpacked into a
// generic value slice.
func (c *Client) ReadContractValues(
	ctx context.Context,
	atBlock int64,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) ([]interface{}, error) {
	data, err := c.readContractToBytes(ctx, atBlock, caddr, a, method, args...)
	if err != nil {
		return nil, err
	}
	return a.Unpack(method, data)
}

func (c *Client) readContractToBytes(
	ctx context.Context,
	atBlock int64,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	_, ethcli, err := c.connect()
	if err != nil {
		return nil, err
	}
	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	var blockBig *big.Int
	if atBlock > 0 {
		blockBig = big.NewInt(atBlock)
	}
	out, err := ethcli.CallContract(ctx, ethereum.CallMsg{
		To:   &caddr,
		Data: data,
	}, blockBig)
	return out, wrapCallError(err)
}

// EstimateContractGas asks the node for a gas estimate of the call at
// the given block. gasLimit is the ceiling passed to the node so the
// estimation itself doesn't get rejected for running out of gas.
func (c *Client) EstimateContractGas(
	ctx context.Context,
	caddr ethcommon.Address,
	a *abi.ABI,
	gasLimit uint64,
	atBlock int64,
	method string,
	args ...interface{},
) (uint64, error) {
	rpccli, _, err := c.connect()
	if err != nil {
		return 0, err
	}
	data, err := a.Pack(method, args...)
	if err != nil {
		return 0, err
	}
	msg := map[string]interface{}{
		"to":   caddr,
		"data": hexutil.Bytes(data),
		"gas":  hexutil.Uint64(gasLimit),
	}
	var gas hexutil.Uint64
	// ethclient.EstimateGas has no block parameter, so go through the
	// raw endpoint to estimate against historical state too.
	err = rpccli.CallContext(ctx, &gas, "eth_estimateGas", msg, toBlockNumArg(atBlock))
	if err != nil {
		return 0, wrapCallError(err)
	}
	return uint64(gas), nil
}

// RawCall replays a mined transaction's exact call parameters read-only
// at its mined block.
func (c *Client) RawCall(ctx context.Context, tx *rwcommon.Transaction) ([]byte, error) {
	_, ethcli, err := c.connect()
	if err != nil {
		return nil, err
	}
	out, err := ethcli.CallContract(ctx, ethereum.CallMsg{
		From:     tx.From,
		To:       tx.To,
		Gas:      tx.Gas,
		GasPrice: tx.GasPrice,
		Value:    tx.Value,
		Data:     tx.Data,
	}, tx.BlockNumber)
	return out, wrapCallError(err)
}

// TransactionInfo fetches a mined transaction and its receipt and
// builds the replayable value RawCall consumes.
func (c *Client) TransactionInfo(ctx context.Context, hash ethcommon.Hash) (*rwcommon.Transaction, error) {
	_, ethcli, err := c.connect()
	if err != nil {
		return nil, err
	}
	tx, isPending, err := ethcli.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction %s failed: %w", hash, err)
	}
	if isPending {
		return nil, fmt.Errorf("transaction %s is not mined yet", hash)
	}
	receipt, err := ethcli.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetching receipt of %s failed: %w", hash, err)
	}
	from, err := ethcli.TransactionSender(ctx, tx, receipt.BlockHash, receipt.TransactionIndex)
	if err != nil {
		return nil, fmt.Errorf("recovering sender of %s failed: %w", hash, err)
	}
	return &rwcommon.Transaction{
		Hash:        hash,
		From:        from,
		To:          tx.To(),
		Data:        tx.Data(),
		Gas:         tx.Gas(),
		GasPrice:    tx.GasPrice(),
		Value:       tx.Value(),
		BlockNumber: receipt.BlockNumber,
	}, nil
}

func toBlockNumArg(atBlock int64) string {
	if atBlock <= 0 {
		return "latest"
	}
	return hexutil.EncodeBig(big.NewInt(atBlock))
}

// wrapCallError classifies node errors into the two kinds callers need
// to tell apart: a logic-level revert (the contract rejected the call)
// and a generic invocation failure (the node rejected it). Anything
// else passes through unchanged.
func wrapCallError(err error) error {
	if err == nil {
		return nil
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return &rwcommon.ContractLogicError{
			Reasons: []string{revertReason(dataErr)},
			Err:     err,
		}
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &rwcommon.InvocationError{
			Code: rpcErr.ErrorCode(),
			Err:  err,
		}
	}
	return err
}

// revertReason extracts the human-readable revert string from the
// error's return data when it follows the Error(string) convention,
// falling back to the node's message for custom errors.
func revertReason(dataErr rpc.DataError) string {
	if hexData, ok := dataErr.ErrorData().(string); ok {
		if data, err := hexutil.Decode(hexData); err == nil {
			if reason, err := abi.UnpackRevert(data); err == nil {
				return reason
			}
		}
	}
	return dataErr.Error()
}
