package cas

import (
	"bytes"
	"sync"

	"github.com/dgryski/go-farm"
)

type MemoryCAS struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryCAS) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryCAS) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

// Len is the number of distinct entries stored.
func (m *MemoryCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCAS) Put(item Hashable) (Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap, ok := item.(*Snapshot); ok {
		return decomposeSnapshot(m, snap)
	}
	return putDirect(m, item)
}

// putDirect stores item wrapped in a TypedEntry. The caller holds m.mu.
func putDirect(m *MemoryCAS, item Hashable) (Hash, error) {
	var payload bytes.Buffer
	if err := item.Serialize(&payload); err != nil {
		return 0, err
	}
	entry := &TypedEntry{
		TypeTag: getTypeTag(item),
		Data:    payload.Bytes(),
	}
	var buf bytes.Buffer
	if err := entry.Serialize(&buf); err != nil {
		return 0, err
	}
	data := buf.Bytes()
	h := Hash(farm.Hash64(data))
	if _, ok := m.data[h]; !ok {
		m.data[h] = data
	}
	return h, nil
}
