package cas

import (
	"container/list"
	"errors"
	"sync"

	"github.com/wln-lang/wln/vm"
)

// DefaultLRUSize is the number of values an LRUCache keeps when none is given.
const DefaultLRUSize = 1000

// LRUCache wraps a CAS and keeps the stack values it has rebuilt, keyed by
// their hash. Replaying a trace touches the same values over and over, so a
// hit skips both the msgpack decode and the walk over array elements.
type LRUCache struct {
	underlying CAS

	mu      sync.Mutex
	values  map[Hash]*list.Element
	order   *list.List // front is most recently used
	maxSize int
	hits    int
	misses  int
}

type cachedValue struct {
	hash  Hash
	value vm.Value
}

// NewLRUCache wraps underlying, keeping at most maxSize values
// (DefaultLRUSize if maxSize <= 0).
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = DefaultLRUSize
	}
	return &LRUCache{
		underlying: underlying,
		values:     make(map[Hash]*list.Element),
		order:      list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(item Hashable) (Hash, error) {
	return l.underlying.Put(item)
}

func (l *LRUCache) Has(hash Hash) bool {
	l.mu.Lock()
	_, ok := l.values[hash]
	l.mu.Unlock()
	return ok || l.underlying.Has(hash)
}

func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	d, ok := l.underlying.(directStore)
	if !ok {
		return false, nil, errors.New("underlying CAS does not support direct retrieval")
	}
	return d.getValue(h)
}

// value returns a copy of the cached value for h, so callers may mutate
// what they get back.
func (l *LRUCache) value(h Hash) (vm.Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elem, ok := l.values[h]
	if !ok {
		l.misses++
		return nil, false
	}
	l.hits++
	l.order.MoveToFront(elem)
	return elem.Value.(*cachedValue).value.Clone(), true
}

func (l *LRUCache) keepValue(h Hash, v vm.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if elem, ok := l.values[h]; ok {
		l.order.MoveToFront(elem)
		return
	}
	l.values[h] = l.order.PushFront(&cachedValue{hash: h, value: v.Clone()})
	for l.order.Len() > l.maxSize {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.values, oldest.Value.(*cachedValue).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    l.order.Len(),
		MaxSize: l.maxSize,
		Hits:    l.hits,
		Misses:  l.misses,
	}
}
