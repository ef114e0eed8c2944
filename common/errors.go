package common

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a resolution step comes back empty:
// the storage contract holds the zero address for a name, the stored
// ABI string is empty, an address was never resolved by name, or a
// method is absent from a contract's ABI.
type NotFoundError struct {
	Kind string // "address", "abi", "name" or "function"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for %s", e.Kind, e.Name)
}

// InvalidPathError is returned when a "contract.function" path string
// does not split into exactly two non-empty parts.
type InvalidPathError struct {
	Path  string
	Parts int
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf(
		"invalid contract path %q: invalid part count: have %d, want 2",
		e.Path, e.Parts,
	)
}

// ContractLogicError wraps a chain-reported revert during a call or a
// replay. Reasons holds the decoded revert message(s).
type ContractLogicError struct {
	Reasons []string
	Err     error
}

func (e *ContractLogicError) Error() string {
	return fmt.Sprintf("execution reverted: %s", strings.Join(e.Reasons, ", "))
}

func (e *ContractLogicError) Unwrap() error { return e.Err }

// InvocationError wraps a generic JSON-RPC invocation failure that is
// not a logic-level revert. Code is the JSON-RPC error code as reported
// by the node.
type InvocationError struct {
	Code int
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invocation failed (code %d): %s", e.Code, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// InitializationError wraps a failure to establish the batched-call
// client. It is logged and swallowed by the resolver: batching only
// degrades to per-call reads, it never fails resolution.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("couldn't initialize multicall client: %s", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
