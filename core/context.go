package core

// Context facade. A thin wrapper around the externally provided read/write
// interface (spec.md §4.2) — the teacher's core/common_structs.go StateRW
// interface generalized way down: our handlers only ever need "read some
// addresses" and "write a batch atomically", not the thirty-odd
// token/VM/AMM methods Synnergy's StateRW carries. Keeping the surface this
// small is itself the design: every extra method is one more thing a
// handler could accidentally depend on outside the read-then-write shape
// spec.md §5 requires.

import "fmt"

// Entry is one present address/value pair returned by a read.
type Entry struct {
	Address string
	Data    []byte
}

// HostContext is the contract the external consensus/ordering substrate
// provides per transaction (spec.md §6). Implementations: core/store.go's
// KVStore for standalone/dev/test use, and whatever adapter the real host
// process wires over its wire protocol.
type HostContext interface {
	GetState(addresses []string) ([]Entry, error)
	SetState(updates map[string][]byte) error
}

// Context is the facade handlers are actually given. It never exposes the
// raw HostContext so that a handler cannot bypass the atomic-write
// discipline by calling SetState directly per address.
type Context struct {
	host HostContext
}

// NewContext wraps host in the handler-facing facade.
func NewContext(host HostContext) *Context {
	return &Context{host: host}
}

// Read returns only the addresses actually present in state, keyed by
// address (spec.md §4.2).
func (c *Context) Read(addresses []string) (map[string][]byte, error) {
	entries, err := c.host.GetState(addresses)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		out[e.Address] = e.Data
	}
	return out, nil
}

// Write commits every update in updates atomically. No partial failure is
// observable: either all addresses change or (on a host error) none do.
func (c *Context) Write(updates map[string][]byte) error {
	if len(updates) == 0 {
		return nil
	}
	if err := c.host.SetState(updates); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
