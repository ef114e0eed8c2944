package router

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	rwcommon "github.com/rocketwatch/resolver/common"
	"github.com/rocketwatch/resolver/config"
	"github.com/rocketwatch/resolver/resolver"
)

var (
	storageAddr = ethcommon.HexToAddress("0x1d8f8f00cfa6758d7bE78336684788Fb0ee0Fa46")
	vaultAddr   = ethcommon.HexToAddress("0x3bDC69C4E5e13E52A65f5583c23EFB9636b469d6")
	otherAddr   = ethcommon.HexToAddress("0xD33526068D116cE69F19A9ee46F0bd304F21A51f")
)

const vaultABI = `[{
	"constant": true,
	"inputs": [],
	"name": "balanceOf",
	"outputs": [{"name": "", "type": "uint256"}],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}]`

func compressABI(t *testing.T, jsonABI string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(jsonABI))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// fakeChain serves storage lookups for the resolver and records the
// parameters of the dispatched call for assertion.
type fakeChain struct {
	addresses map[ethcommon.Hash]ethcommon.Address
	abis      map[ethcommon.Hash]string

	addressCalls int
	lastMethod   string
	lastBlock    int64
	lastCaddr    ethcommon.Address
	lastGasLimit uint64
	replayErr    error
}

func newFakeChain() *fakeChain {
	f := &fakeChain{
		addresses: map[ethcommon.Hash]ethcommon.Address{},
		abis:      map[ethcommon.Hash]string{},
	}
	f.addresses[rwcommon.AddressKey("rocketVault")] = vaultAddr
	return f
}

func (f *fakeChain) ReadContract(
	ctx context.Context,
	result interface{},
	atBlock int64,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) error {
	switch method {
	case "getAddress":
		f.addressCalls++
		*result.(*ethcommon.Address) = f.addresses[args[0].(ethcommon.Hash)]
		return nil
	case "getString":
		*result.(*string) = f.abis[args[0].(ethcommon.Hash)]
		return nil
	}
	f.lastMethod = method
	f.lastBlock = atBlock
	f.lastCaddr = caddr
	if out, ok := result.(**big.Int); ok {
		*out = big.NewInt(42)
	}
	return nil
}

func (f *fakeChain) ReadContractValues(
	ctx context.Context,
	atBlock int64,
	caddr ethcommon.Address,
	a *abi.ABI,
	method string,
	args ...interface{},
) ([]interface{}, error) {
	f.lastMethod = method
	f.lastBlock = atBlock
	f.lastCaddr = caddr
	return []interface{}{big.NewInt(42)}, nil
}

func (f *fakeChain) EstimateContractGas(
	ctx context.Context,
	caddr ethcommon.Address,
	a *abi.ABI,
	gasLimit uint64,
	atBlock int64,
	method string,
	args ...interface{},
) (uint64, error) {
	f.lastMethod = method
	f.lastBlock = atBlock
	f.lastCaddr = caddr
	f.lastGasLimit = gasLimit
	return 21000, nil
}

func (f *fakeChain) RawCall(ctx context.Context, tx *rwcommon.Transaction) ([]byte, error) {
	if f.replayErr != nil {
		return nil, f.replayErr
	}
	return []byte{0x01}, nil
}

func newTestRouter(t *testing.T, fake *fakeChain) *Router {
	t.Helper()
	fake.abis[rwcommon.ABIKey("rocketVault")] = compressABI(t, vaultABI)
	cfg := &config.Config{
		ManualAddresses: []config.ManualAddress{
			{Name: "rocketStorage", Address: storageAddr.Hex()},
		},
		ABIDir:        t.TempDir(),
		CacheCapacity: 64,
	}
	return New(resolver.New(context.Background(), cfg, fake, nil))
}

func TestParsePath(t *testing.T) {
	name, function, err := ParsePath("rocketTokenRPL.getInflationIntervalRate")
	require.NoError(t, err)
	require.Equal(t, "rocketTokenRPL", name)
	require.Equal(t, "getInflationIntervalRate", function)

	for _, path := range []string{"", "rocketTokenRPL", "a.b.c", ".b", "a.", "."} {
		_, _, err := ParsePath(path)
		var invalid *rwcommon.InvalidPathError
		require.ErrorAs(t, err, &invalid, "path %q", path)
		require.Equal(t, path, invalid.Path)
	}
}

func TestCallDispatches(t *testing.T) {
	ctx := context.Background()
	fake := newFakeChain()
	rt := newTestRouter(t, fake)

	var balance *big.Int
	err := rt.Call(ctx, &balance, "rocketVault.balanceOf", CallOpts{Block: 12345})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), balance)
	require.Equal(t, "balanceOf", fake.lastMethod)
	require.Equal(t, int64(12345), fake.lastBlock)
	require.Equal(t, vaultAddr, fake.lastCaddr)
}

func TestCallValuesDispatches(t *testing.T) {
	ctx := context.Background()
	fake := newFakeChain()
	rt := newTestRouter(t, fake)

	values, err := rt.CallValues(ctx, "rocketVault.balanceOf", CallOpts{})
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, big.NewInt(42), values[0])
	require.Equal(t, int64(0), fake.lastBlock)
}

func TestCallAddressOverrideSkipsResolution(t *testing.T) {
	ctx := context.Background()
	fake := newFakeChain()
	rt := newTestRouter(t, fake)

	var balance *big.Int
	err := rt.Call(ctx, &balance, "rocketVault.balanceOf", CallOpts{Address: &otherAddr})
	require.NoError(t, err)
	require.Equal(t, otherAddr, fake.lastCaddr)
	require.Equal(t, 0, fake.addressCalls)
}

func TestCallUnknownFunction(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t, newFakeChain())

	var out *big.Int
	err := rt.Call(ctx, &out, "rocketVault.noSuchFunction", CallOpts{})
	var notFound *rwcommon.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "function", notFound.Kind)
}

func TestCallInvalidPath(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t, newFakeChain())

	var out *big.Int
	err := rt.Call(ctx, &out, "not-a-path", CallOpts{})
	var invalid *rwcommon.InvalidPathError
	require.ErrorAs(t, err, &invalid)
}

func TestEstimateGasUsesCeiling(t *testing.T) {
	ctx := context.Background()
	fake := newFakeChain()
	rt := newTestRouter(t, fake)

	gas, err := rt.EstimateGas(ctx, "rocketVault.balanceOf", CallOpts{})
	require.NoError(t, err)
	require.Equal(t, uint64(21000), gas)
	require.Equal(t, resolver.GasCeiling, fake.lastGasLimit)
}

func TestDecodeRevertReason(t *testing.T) {
	ctx := context.Background()
	tx := &rwcommon.Transaction{
		Hash: ethcommon.HexToHash("0x01"),
		To:   &vaultAddr,
	}

	cases := []struct {
		name      string
		replayErr error
		want      string
	}{
		{"clean replay", nil, ""},
		{
			"logic revert",
			&rwcommon.ContractLogicError{Reasons: []string{"Insufficient balance"}},
			"Insufficient balance",
		},
		{
			"multiple reasons",
			&rwcommon.ContractLogicError{Reasons: []string{"Insufficient balance", "execution reverted"}},
			"Insufficient balance, execution reverted",
		},
		{
			"out of gas",
			&rwcommon.InvocationError{Code: -32000, Err: fmt.Errorf("out of gas")},
			OutOfGasReason,
		},
		{
			"opaque node error",
			&rwcommon.InvocationError{Code: 3, Err: fmt.Errorf("execution reverted")},
			HiddenErrorReason,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeChain()
			fake.replayErr = tc.replayErr
			rt := newTestRouter(t, fake)

			reason, err := rt.DecodeRevertReason(ctx, tx)
			require.NoError(t, err)
			require.Equal(t, tc.want, reason)
		})
	}
}

func TestDecodeRevertReasonPassesThroughUnknownErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeChain()
	fake.replayErr = fmt.Errorf("connection refused")
	rt := newTestRouter(t, fake)

	_, err := rt.DecodeRevertReason(ctx, &rwcommon.Transaction{})
	require.ErrorContains(t, err, "connection refused")
}
