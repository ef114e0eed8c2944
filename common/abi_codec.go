package common

import (
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DecodeCompressedABI decodes an ABI string as stored on-chain by
// rocketStorage: base64-encoded, zlib-compressed ABI JSON.
func DecodeCompressedABI(compressed string) (*abi.ABI, error) {
	raw, err := base64.StdEncoding.DecodeString(compressed)
	if err != nil {
		return nil, fmt.Errorf("base64 decoding stored abi failed: %w", err)
	}
	zr, err := zlib.NewReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("zlib decompressing stored abi failed: %w", err)
	}
	defer zr.Close()
	jsonABI, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompressing stored abi failed: %w", err)
	}
	result, err := abi.JSON(strings.NewReader(string(jsonABI)))
	if err != nil {
		return nil, fmt.Errorf("parsing stored abi failed: %w", err)
	}
	return &result, nil
}
