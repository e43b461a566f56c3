package core

// mockContext is the in-memory HostContext mock spec.md §2 calls for —
// handler tests exercise it directly rather than standing up a KVStore.

type mockContext struct {
	state map[string][]byte
}

func newMockContext() (*Context, *mockContext) {
	m := &mockContext{state: make(map[string][]byte)}
	return NewContext(m), m
}

func (m *mockContext) GetState(addresses []string) ([]Entry, error) {
	out := make([]Entry, 0, len(addresses))
	for _, addr := range addresses {
		if data, ok := m.state[addr]; ok {
			out = append(out, Entry{Address: addr, Data: data})
		}
	}
	return out, nil
}

func (m *mockContext) SetState(updates map[string][]byte) error {
	for addr, data := range updates {
		m.state[addr] = data
	}
	return nil
}
