package analysis

import (
	"context"
	"iter"
	"sort"
	"sync"
)

// MemoryLibrary is an in-memory Library. Records are stored encoded, so a
// caller mutating a returned record does not affect the library.
type MemoryLibrary struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryLibrary returns an empty library.
func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{data: make(map[string][]byte)}
}

func (m *MemoryLibrary) Put(_ context.Context, r *Record) error {
	var id string
	if r != nil {
		id = r.ID
	}
	k, err := recordKey(id)
	if err != nil {
		return err
	}
	v, err := encodeRecord(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[string(k)] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryLibrary) Get(_ context.Context, id string) (*Record, error) {
	k, err := recordKey(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	v, ok := m.data[string(k)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(v)
}

func (m *MemoryLibrary) Delete(_ context.Context, id string) error {
	k, err := recordKey(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, string(k))
	m.mu.Unlock()
	return nil
}

func (m *MemoryLibrary) List(_ context.Context) iter.Seq2[*Record, error] {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	values := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		keys = append(keys, k)
		values[k] = v
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	return func(yield func(*Record, error) bool) {
		for _, k := range keys {
			if !yield(decodeRecord(values[k])) {
				return
			}
		}
	}
}

func (m *MemoryLibrary) Close() error {
	return nil
}
