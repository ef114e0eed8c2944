// Package registry provides the bidirectional mapping between
// human-readable contract names and on-chain addresses.
//
// The registry is a bijection at all times: each name maps to exactly
// one address and each address back to exactly one name. It is seeded
// with manual overrides at construction, grows lazily as names are
// resolved on-chain, and is fully replaced (not merged) on reset.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type Registry struct {
	mu        sync.RWMutex
	byName    map[string]common.Address
	byAddress map[common.Address]string
}

func New(seed map[string]common.Address) *Registry {
	r := &Registry{}
	r.Reset(seed)
	return r
}

// Set inserts or overwrites the bijection for name. Any prior entry
// under the same name and any prior name that pointed to the same
// address are removed first so no stale inverse entries survive.
func (r *Registry) Set(name string, addr common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if oldAddr, found := r.byName[name]; found {
		delete(r.byAddress, oldAddr)
	}
	if oldName, found := r.byAddress[addr]; found {
		delete(r.byName, oldName)
	}
	r.byName[name] = addr
	r.byAddress[addr] = name
}

func (r *Registry) AddressOf(name string) (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, found := r.byName[name]
	return addr, found
}

// NameOf is the inverse lookup. It never triggers on-chain resolution:
// an address is only known here after its name has been resolved at
// least once.
func (r *Registry) NameOf(addr common.Address) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, found := r.byAddress[addr]
	return name, found
}

// Reset atomically replaces the entire contents with the seed set.
func (r *Registry) Reset(seed map[string]common.Address) {
	byName := make(map[string]common.Address, len(seed))
	byAddress := make(map[common.Address]string, len(seed))
	for name, addr := range seed {
		if oldName, found := byAddress[addr]; found {
			delete(byName, oldName)
		}
		byName[name] = addr
		byAddress[addr] = name
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = byName
	r.byAddress = byAddress
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
