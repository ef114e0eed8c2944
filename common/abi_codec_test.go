package common

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalABI = `[{
	"constant": true,
	"inputs": [],
	"name": "getInflationIntervalRate",
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

func TestDecodeCompressedABI(t *testing.T) {
	a, err := DecodeCompressedABI(compressABI(t, minimalABI))
	require.NoError(t, err)
	_, found := a.Methods["getInflationIntervalRate"]
	require.True(t, found)
}

func TestDecodeCompressedABIBadInput(t *testing.T) {
	_, err := DecodeCompressedABI("not base64!!!")
	require.Error(t, err)

	// Valid base64, not zlib.
	_, err = DecodeCompressedABI(base64.StdEncoding.EncodeToString([]byte("garbage")))
	require.Error(t, err)

	// Valid compression, not an ABI.
	_, err = DecodeCompressedABI(compressABI(t, "{not json"))
	require.Error(t, err)
}
