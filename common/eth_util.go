package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// StorageKey derives the rocketStorage slot key for a typed string pair
// the same way soliditySha3(["string", "string"], [prefix, name]) does:
// keccak256 over the packed concatenation.
func StorageKey(prefix, name string) common.Hash {
	return crypto.Keccak256Hash([]byte(prefix), []byte(name))
}

// AddressKey is the slot key under which rocketStorage stores the
// address of the named contract.
func AddressKey(name string) common.Hash {
	return StorageKey("contract.address", name)
}

// ABIKey is the slot key under which rocketStorage stores the
// compressed ABI string of the named contract.
func ABIKey(name string) common.Hash {
	return StorageKey("contract.abi", name)
}

func GetRocketStorageABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(rocketStorageABI))
	return &result
}

func GetMultiCallABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(multicallABI))
	return &result
}

func GetDepositContractABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(depositContractABI))
	return &result
}

// BuiltinABI returns the embedded ABI for contracts that must be
// callable before any on-chain ABI lookup can succeed. rocketStorage is
// the bootstrap case: fetching any ABI from the chain goes through it.
func BuiltinABI(name string) (*abi.ABI, bool) {
	switch name {
	case "rocketStorage":
		return GetRocketStorageABI(), true
	case "multicall":
		return GetMultiCallABI(), true
	case "casperDeposit":
		return GetDepositContractABI(), true
	}
	return nil, false
}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToAddresses(hexes []string) []common.Address {
	result := []common.Address{}
	for _, h := range hexes {
		result = append(result, common.HexToAddress(h))
	}
	return result
}

// IsZeroAddress reports whether addr is the all-zero address, which the
// storage contract returns for names it doesn't know.
func IsZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}
