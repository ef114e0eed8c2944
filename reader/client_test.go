package reader

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	rwcommon "github.com/rocketwatch/resolver/common"
)

type fakeRPCError struct {
	code int
	msg  string
}

func (e *fakeRPCError) Error() string  { return e.msg }
func (e *fakeRPCError) ErrorCode() int { return e.code }

type fakeDataError struct {
	fakeRPCError
	data interface{}
}

func (e *fakeDataError) ErrorData() interface{} { return e.data }

// revertData encodes reason the way a node reports an Error(string)
// revert: the selector followed by the ABI-encoded string.
func revertData(t *testing.T, reason string) string {
	t.Helper()
	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: typ}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestWrapCallErrorNil(t *testing.T) {
	require.NoError(t, wrapCallError(nil))
}

func TestWrapCallErrorRevert(t *testing.T) {
	nodeErr := &fakeDataError{
		fakeRPCError: fakeRPCError{code: 3, msg: "execution reverted: Insufficient balance"},
		data:         revertData(t, "Insufficient balance"),
	}

	err := wrapCallError(nodeErr)
	var logicErr *rwcommon.ContractLogicError
	require.ErrorAs(t, err, &logicErr)
	require.Equal(t, []string{"Insufficient balance"}, logicErr.Reasons)
	require.ErrorIs(t, err, nodeErr)
}

func TestWrapCallErrorCustomRevert(t *testing.T) {
	// Return data that isn't an Error(string) payload falls back to the
	// node's message.
	nodeErr := &fakeDataError{
		fakeRPCError: fakeRPCError{code: 3, msg: "execution reverted"},
		data:         "0xdeadbeef",
	}

	err := wrapCallError(nodeErr)
	var logicErr *rwcommon.ContractLogicError
	require.ErrorAs(t, err, &logicErr)
	require.Equal(t, []string{"execution reverted"}, logicErr.Reasons)
}

func TestWrapCallErrorNoData(t *testing.T) {
	// A data error carrying no data is just an invocation failure.
	nodeErr := &fakeDataError{
		fakeRPCError: fakeRPCError{code: -32000, msg: "out of gas"},
	}

	err := wrapCallError(nodeErr)
	var invErr *rwcommon.InvocationError
	require.ErrorAs(t, err, &invErr)
	require.Equal(t, -32000, invErr.Code)
}

func TestWrapCallErrorRPC(t *testing.T) {
	err := wrapCallError(&fakeRPCError{code: -32601, msg: "method not found"})
	var invErr *rwcommon.InvocationError
	require.ErrorAs(t, err, &invErr)
	require.Equal(t, -32601, invErr.Code)
}

func TestWrapCallErrorPassthrough(t *testing.T) {
	plain := fmt.Errorf("connection refused")
	require.Equal(t, plain, wrapCallError(plain))
}

func TestToBlockNumArg(t *testing.T) {
	require.Equal(t, "latest", toBlockNumArg(0))
	require.Equal(t, "latest", toBlockNumArg(-1))
	require.Equal(t, "0xff", toBlockNumArg(255))
}

func TestClientLazy(t *testing.T) {
	// Construction never dials.
	c := NewClient("primary", "http://localhost:1")
	require.Equal(t, "primary", c.NodeName())
	require.Equal(t, "http://localhost:1", c.NodeURL())
	require.Nil(t, c.rpcClient)
}
