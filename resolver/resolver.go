// Package resolver turns named contract references into callable
// handles and caches the expensive steps of that resolution: on-chain
// address lookup, ABI retrieval and contract assembly.
//
// All addresses except the configured overrides are resolved through
// the rocketStorage contract, which maps keccak("contract.address"+name)
// to an address and keccak("contract.abi"+name) to a compressed ABI
// string. rocketStorage itself must therefore be one of the manual
// overrides.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/singleflight"

	"github.com/rocketwatch/resolver/cache"
	rwcommon "github.com/rocketwatch/resolver/common"
	"github.com/rocketwatch/resolver/config"
	"github.com/rocketwatch/resolver/reader"
	"github.com/rocketwatch/resolver/registry"
)

// storageContract is the name every other resolution bootstraps
// through.
const storageContract = "rocketStorage"

// Caller is the slice of the chain client the resolver needs. Tests
// inject a fake; production wires reader.Client.
type Caller interface {
	ReadContract(
		ctx context.Context,
		result interface{},
		atBlock int64,
		caddr ethcommon.Address,
		a *abi.ABI,
		method string,
		args ...interface{},
	) error
	ReadContractValues(
		ctx context.Context,
		atBlock int64,
		caddr ethcommon.Address,
		a *abi.ABI,
		method string,
		args ...interface{},
	) ([]interface{}, error)
	EstimateContractGas(
		ctx context.Context,
		caddr ethcommon.Address,
		a *abi.ABI,
		gasLimit uint64,
		atBlock int64,
		method string,
		args ...interface{},
	) (uint64, error)
	RawCall(ctx context.Context, tx *rwcommon.Transaction) ([]byte, error)
}

type contractKey struct {
	name    string
	address ethcommon.Address
	network Network
}

// Resolver owns the registry and the three resolution caches. No other
// component mutates them; Flush is the only operation that resets all
// four at once.
type Resolver struct {
	cfg     *config.Config
	primary Caller
	mainnet Caller
	log     log.Logger

	// mu serializes Flush against in-flight resolutions: resolutions
	// hold the read side for their whole duration, so a resolution
	// either completes against the pre-flush state or starts fresh
	// against the post-flush one.
	mu            sync.RWMutex
	registry      *registry.Registry
	addressCache  *cache.FIFO[string, ethcommon.Address]
	abiCache      *cache.FIFO[string, *abi.ABI]
	contractCache *cache.FIFO[contractKey, *Contract]

	mcContract ethcommon.Address
	mcReady    bool

	addrFlight     singleflight.Group
	abiFlight      singleflight.Group
	contractFlight singleflight.Group
}

// New builds a resolver over the given chain clients and performs the
// initial flush. mainnet may be nil when no cross-network lookups are
// needed.
func New(ctx context.Context, cfg *config.Config, primary, mainnet Caller) *Resolver {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = config.DefaultCacheCapacity
	}
	r := &Resolver{
		cfg:           cfg,
		primary:       primary,
		mainnet:       mainnet,
		log:           log.New("module", "resolver"),
		registry:      registry.New(nil),
		addressCache:  cache.NewFIFO[string, ethcommon.Address](capacity),
		abiCache:      cache.NewFIFO[string, *abi.ABI](capacity),
		contractCache: cache.NewFIFO[contractKey, *Contract](capacity),
	}
	r.Flush(ctx)
	return r
}

// Flush atomically clears the three caches, resets the registry to the
// configured manual overrides and re-establishes the batched-call
// client. A batching failure is logged and swallowed: resolution of
// individual calls keeps working, only batching efficiency is lost.
func (r *Resolver) Flush(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Warn("flushing resolution caches")
	r.contractCache.Purge()
	r.abiCache.Purge()
	r.addressCache.Purge()
	r.registry.Reset(r.cfg.SeedAddresses())

	r.mcReady = false
	if r.cfg.MulticallAddress == "" {
		r.log.Debug("multicall disabled: no contract configured")
		return
	}
	r.mcContract = ethcommon.HexToAddress(r.cfg.MulticallAddress)
	mc := reader.NewMultiCall(r.primary, r.mcContract)
	if err := mc.Probe(ctx); err != nil {
		r.log.Error(
			"multicall unavailable, degrading to per-call reads",
			"err", &rwcommon.InitializationError{Err: err},
		)
		return
	}
	r.mcReady = true
}

// NewBatch returns a fresh multicall batch, or nil when batching is
// unavailable. Callers handle nil by reading sequentially.
func (r *Resolver) NewBatch() *reader.MultiCall {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.mcReady {
		return nil
	}
	return reader.NewMultiCall(r.primary, r.mcContract)
}

// ResolveAddress returns the address of the named contract, consulting
// the registry (manual overrides and previously-resolved names) before
// asking rocketStorage. Concurrent misses on the same name share one
// chain lookup.
func (r *Resolver) ResolveAddress(ctx context.Context, name string) (ethcommon.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveAddress(ctx, name)
}

func (r *Resolver) resolveAddress(ctx context.Context, name string) (ethcommon.Address, error) {
	if addr, found := r.registry.AddressOf(name); found {
		return addr, nil
	}
	if addr, found := r.addressCache.Get(name); found {
		return addr, nil
	}
	v, err, _ := r.addrFlight.Do(name, func() (interface{}, error) {
		return r.lookupAddress(ctx, name)
	})
	if err != nil {
		return ethcommon.Address{}, err
	}
	return v.(ethcommon.Address), nil
}

func (r *Resolver) lookupAddress(ctx context.Context, name string) (interface{}, error) {
	if name == storageContract {
		// Everything bootstraps through rocketStorage, so its address
		// cannot come from the chain. Erroring here beats recursing.
		return nil, fmt.Errorf("%s address must be a configured manual override", storageContract)
	}
	r.log.Debug("retrieving address", "contract", name)
	storage, err := r.contractByName(ctx, storageContract)
	if err != nil {
		return nil, err
	}
	var addr ethcommon.Address
	err = storage.Call(ctx, &addr, -1, "getAddress", rwcommon.AddressKey(name))
	if err != nil {
		return nil, err
	}
	if rwcommon.IsZeroAddress(addr) {
		return nil, &rwcommon.NotFoundError{Kind: "address", Name: name}
	}
	r.registry.Set(name, addr)
	r.addressCache.Add(name, addr)
	r.log.Debug("retrieved address", "contract", name, "address", addr)
	return addr, nil
}

// ResolveABI returns the ABI of the named contract: local override
// first, then the embedded well-known set, then the compressed string
// stored in rocketStorage.
func (r *Resolver) ResolveABI(ctx context.Context, name string) (*abi.ABI, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveABI(ctx, name)
}

func (r *Resolver) resolveABI(ctx context.Context, name string) (*abi.ABI, error) {
	if a, found := r.abiCache.Get(name); found {
		return a, nil
	}
	v, err, _ := r.abiFlight.Do(name, func() (interface{}, error) {
		return r.lookupABI(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*abi.ABI), nil
}

func (r *Resolver) lookupABI(ctx context.Context, name string) (*abi.ABI, error) {
	if a, found := r.localABI(name); found {
		r.abiCache.Add(name, a)
		return a, nil
	}
	r.log.Debug("retrieving abi", "contract", name)
	storage, err := r.contractByName(ctx, storageContract)
	if err != nil {
		return nil, err
	}
	var compressed string
	err = storage.Call(ctx, &compressed, -1, "getString", rwcommon.ABIKey(name))
	if err != nil {
		return nil, err
	}
	if compressed == "" {
		return nil, &rwcommon.NotFoundError{Kind: "abi", Name: name}
	}
	a, err := rwcommon.DecodeCompressedABI(compressed)
	if err != nil {
		return nil, fmt.Errorf("decoding stored abi of %s failed: %w", name, err)
	}
	r.abiCache.Add(name, a)
	return a, nil
}

// localABI returns the ABI from the override directory, falling back
// to the embedded well-known set. rocketStorage always resolves here,
// which is what terminates the bootstrap recursion.
func (r *Resolver) localABI(name string) (*abi.ABI, bool) {
	path := filepath.Join(r.cfg.ABIDir, name+".abi.json")
	if content, err := os.ReadFile(path); err == nil {
		a, err := abi.JSON(strings.NewReader(string(content)))
		if err == nil {
			return &a, true
		}
		r.log.Warn("ignoring unparsable local abi override", "contract", name, "err", err)
	}
	return rwcommon.BuiltinABI(name)
}

// Assemble binds the named contract's ABI to addr on the requested
// network. Handles are cached per (name, address, network): the same
// name assembled against the two networks yields independent handles.
func (r *Resolver) Assemble(
	ctx context.Context,
	name string,
	addr ethcommon.Address,
	network Network,
) (*Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.assemble(ctx, name, addr, network)
}

func (r *Resolver) assemble(
	ctx context.Context,
	name string,
	addr ethcommon.Address,
	network Network,
) (*Contract, error) {
	key := contractKey{name: name, address: addr, network: network}
	if c, found := r.contractCache.Get(key); found {
		return c, nil
	}
	flightKey := fmt.Sprintf("%s|%s|%s", name, addr.Hex(), network)
	v, err, _ := r.contractFlight.Do(flightKey, func() (interface{}, error) {
		// A local file override wins even over an already-cached chain
		// ABI.
		a, found := r.localABI(name)
		if !found {
			var err error
			a, err = r.resolveABI(ctx, name)
			if err != nil {
				return nil, err
			}
		}
		caller := r.primary
		if network == Mainnet {
			caller = r.mainnet
		}
		if caller == nil {
			return nil, fmt.Errorf("no %s client configured", network)
		}
		c := &Contract{
			Name:    name,
			Address: addr,
			ABI:     a,
			Network: network,
			caller:  caller,
		}
		r.contractCache.Add(key, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Contract), nil
}

// ContractByName resolves the name and assembles the handle on the
// primary network.
func (r *Resolver) ContractByName(ctx context.Context, name string) (*Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contractByName(ctx, name)
}

func (r *Resolver) contractByName(ctx context.Context, name string) (*Contract, error) {
	addr, err := r.resolveAddress(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, name, addr, Primary)
}

// ContractByAddress assembles the handle for an address whose name was
// resolved before. There is no on-chain inverse lookup: an address that
// never went through ResolveAddress or ContractByName yields a
// NotFoundError.
func (r *Resolver) ContractByAddress(ctx context.Context, addr ethcommon.Address) (*Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, found := r.registry.NameOf(addr)
	if !found {
		return nil, &rwcommon.NotFoundError{Kind: "name", Name: addr.Hex()}
	}
	return r.assemble(ctx, name, addr, Primary)
}

// NameOf is the registry inverse lookup, only meaningful after the
// address was resolved by name at least once.
func (r *Resolver) NameOf(addr ethcommon.Address) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registry.NameOf(addr)
}

// Replay re-executes a mined transaction's call read-only at its mined
// block on the primary network.
func (r *Resolver) Replay(ctx context.Context, tx *rwcommon.Transaction) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary.RawCall(ctx, tx)
}
