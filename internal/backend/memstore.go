package backend

import (
	"bytes"
	"sort"
	"sync"
)

// MemStore is an in-memory Storage, grounded on core/virtual_machine.go's
// memState/memIterator, generalized from its single global map to a
// per-instance store appropriate for one-shot test invocations and the
// debug server.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (m *MemStore) Get(key []byte) ([]byte, GasInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, GasInfo{}, nil
	}
	cp := append([]byte(nil), v...)
	return cp, GasInfo{}, nil
}

func (m *MemStore) Set(key, value []byte) (GasInfo, error) {
	if len(value) == 0 {
		return GasInfo{}, User("empty values are reserved and cannot be stored")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte(nil), value...)
	return GasInfo{}, nil
}

func (m *MemStore) Remove(key []byte) (GasInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return GasInfo{}, nil
}

func (m *MemStore) Scan(start, end []byte, order Order) (Iterator, GasInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		kb := []byte(k)
		if start != nil && bytes.Compare(kb, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(kb, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	switch order {
	case Ascending:
		sort.Strings(keys)
	case Descending:
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	default:
		return nil, GasInfo{}, User("invalid scan order %d", order)
	}

	pairs := make([][2][]byte, len(keys))
	for i, k := range keys {
		pairs[i] = [2][]byte{[]byte(k), append([]byte(nil), m.data[k]...)}
	}
	return &memIterator{pairs: pairs}, GasInfo{}, nil
}

type memIterator struct {
	pairs [][2][]byte
	pos   int
}

func (it *memIterator) Next() (key, value []byte, ok bool, info GasInfo, err error) {
	if it.pos >= len(it.pairs) {
		return nil, nil, false, GasInfo{}, nil
	}
	p := it.pairs[it.pos]
	it.pos++
	return p[0], p[1], true, GasInfo{}, nil
}

// Snapshot returns a defensive copy of the current key/value set, used by
// tests asserting "storage unchanged" invariants around readonly
// enforcement and write-access-denied scenarios.
func (m *MemStore) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
