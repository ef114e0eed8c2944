package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction holds the exact call parameters of a mined transaction so
// it can be replayed read-only at its mined block. It carries only what
// eth_call needs plus the block to replay at.
type Transaction struct {
	Hash        common.Hash
	From        common.Address
	To          *common.Address
	Data        []byte
	Gas         uint64
	GasPrice    *big.Int
	Value       *big.Int
	BlockNumber *big.Int
}
