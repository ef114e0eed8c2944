// Package protocol implements the Rocket Pool queries layered on top
// of the resolver and router: minipool queue listings, minipool status
// counts and validator pubkey extraction from deposit receipts.
package protocol

import (
	"context"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	rwcommon "github.com/rocketwatch/resolver/common"
	"github.com/rocketwatch/resolver/resolver"
	"github.com/rocketwatch/resolver/router"
)

// The three minipool availability queues rocketStorage tracks.
const (
	QueueHalf  = "minipools.available.half"
	QueueFull  = "minipools.available.full"
	QueueEmpty = "minipools.available.empty"
)

// statusPageSize is how many minipools one getMinipoolCountPerStatus
// page covers.
const statusPageSize = 10000

type Queries struct {
	resolver *resolver.Resolver
	router   *router.Router
	log      log.Logger
}

func New(rv *resolver.Resolver, rt *router.Router) *Queries {
	return &Queries{
		resolver: rv,
		router:   rt,
		log:      log.New("module", "protocol"),
	}
}

// PubkeyFromDepositReceipt extracts the validator pubkey from the
// first casperDeposit DepositEvent in the receipt. Logs from other
// contracts or other events are skipped silently; decode failures on
// them never fail the extraction. Returns "" when no matching event is
// present.
func (q *Queries) PubkeyFromDepositReceipt(ctx context.Context, receipt *types.Receipt) (string, error) {
	deposit, err := q.resolver.ContractByName(ctx, "casperDeposit")
	if err != nil {
		return "", err
	}
	event, found := deposit.ABI.Events["DepositEvent"]
	if !found {
		return "", &rwcommon.NotFoundError{Kind: "function", Name: "casperDeposit.DepositEvent"}
	}
	for _, lg := range receipt.Logs {
		if lg.Address != deposit.Address {
			continue
		}
		if len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}
		var out struct {
			Pubkey                []byte
			WithdrawalCredentials []byte
			Amount                []byte
			Signature             []byte
			Index                 []byte
		}
		if err := deposit.ABI.UnpackIntoInterface(&out, "DepositEvent", lg.Data); err != nil {
			continue
		}
		return hexutil.Encode(out.Pubkey), nil
	}
	return "", nil
}

// QueueSnapshot is the state of one minipool availability queue: its
// total length and up to limit leading addresses.
type QueueSnapshot struct {
	Capacity  *big.Int
	Addresses []ethcommon.Address
}

// MinipoolsByQueue lists the first minipools of the named queue,
// batching the per-index reads through multicall when available and
// reading sequentially otherwise.
func (q *Queries) MinipoolsByQueue(ctx context.Context, queue string, limit int) (*QueueSnapshot, error) {
	key := crypto.Keccak256Hash([]byte(queue))

	var capacity *big.Int
	err := q.router.Call(ctx, &capacity, "addressQueueStorage.getLength", router.CallOpts{}, key)
	if err != nil {
		return nil, fmt.Errorf("reading queue length of %s failed: %w", queue, err)
	}

	n := limit
	if capacity.IsInt64() && capacity.Int64() < int64(n) {
		n = int(capacity.Int64())
	}
	addresses := make([]ethcommon.Address, n)

	if mc := q.resolver.NewBatch(); mc != nil && n > 0 {
		queueStorage, err := q.resolver.ContractByName(ctx, "addressQueueStorage")
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			mc.Register(&addresses[i], queueStorage.Address, queueStorage.ABI,
				"getItem", key, big.NewInt(int64(i)))
		}
		if _, err := mc.Do(ctx, -1); err != nil {
			return nil, fmt.Errorf("batched queue read of %s failed: %w", queue, err)
		}
		return &QueueSnapshot{Capacity: capacity, Addresses: addresses}, nil
	}

	for i := 0; i < n; i++ {
		err := q.router.Call(ctx, &addresses[i], "addressQueueStorage.getItem",
			router.CallOpts{}, key, big.NewInt(int64(i)))
		if err != nil {
			return nil, fmt.Errorf("reading queue item %d of %s failed: %w", i, queue, err)
		}
	}
	return &QueueSnapshot{Capacity: capacity, Addresses: addresses}, nil
}

// Minipools snapshots the three availability queues.
func (q *Queries) Minipools(ctx context.Context, limit int) (map[string]*QueueSnapshot, error) {
	result := map[string]*QueueSnapshot{}
	for label, queue := range map[string]string{
		"half":  QueueHalf,
		"full":  QueueFull,
		"empty": QueueEmpty,
	} {
		snapshot, err := q.MinipoolsByQueue(ctx, queue, limit)
		if err != nil {
			return nil, err
		}
		result[label] = snapshot
	}
	return result, nil
}

// StatusCounts is the total number of minipools per lifecycle status.
type StatusCounts struct {
	Initialised  uint64
	Prelaunch    uint64
	Staking      uint64
	Withdrawable uint64
	Dissolved    uint64
}

// MinipoolCountPerStatus pages through
// rocketMinipoolManager.getMinipoolCountPerStatus and sums the five
// per-status counters across pages.
func (q *Queries) MinipoolCountPerStatus(ctx context.Context) (*StatusCounts, error) {
	counts := &StatusCounts{}
	fields := []*uint64{
		&counts.Initialised,
		&counts.Prelaunch,
		&counts.Staking,
		&counts.Withdrawable,
		&counts.Dissolved,
	}
	for offset := int64(0); ; offset += statusPageSize {
		q.log.Debug("getMinipoolCountPerStatus", "offset", offset, "limit", statusPageSize)
		values, err := q.router.CallValues(ctx,
			"rocketMinipoolManager.getMinipoolCountPerStatus",
			router.CallOpts{},
			big.NewInt(offset), big.NewInt(statusPageSize),
		)
		if err != nil {
			return nil, err
		}
		if len(values) != len(fields) {
			return nil, fmt.Errorf(
				"unexpected getMinipoolCountPerStatus shape: have %d values, want %d",
				len(values), len(fields),
			)
		}
		pageTotal := uint64(0)
		for i, value := range values {
			count, ok := value.(*big.Int)
			if !ok {
				return nil, fmt.Errorf("unexpected count type %T at index %d", value, i)
			}
			*fields[i] += count.Uint64()
			pageTotal += count.Uint64()
		}
		if pageTotal < statusPageSize {
			return counts, nil
		}
	}
}
