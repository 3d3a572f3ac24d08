package cache

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Cache is an exact-match key/value store used to memoize calls to paid or
// rate limited APIs. Implementations must tolerate concurrent Put calls for
// the same key; the last write wins.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Key derives a fixed-length key from the given parts. Each part is length
// prefixed so that ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...[]byte) string {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		binary.Write(h, binary.LittleEndian, int64(len(p)))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StringKey is Key for string parts.
func StringKey(parts ...string) string {
	bs := make([][]byte, len(parts))
	for i, p := range parts {
		bs[i] = []byte(p)
	}
	return Key(bs...)
}

// GetJSON looks up key and decodes the stored value into v.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Put(ctx, key, data)
}

// Memory is an in-process Cache, mostly useful in tests and when no cache
// database is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// LookupFunc is called after every Get with the outcome of the lookup.
type LookupFunc func(namespace string, hit bool)

type observed struct {
	Cache
	namespace string
	onLookup  LookupFunc
}

// Observe wraps c so that every lookup is reported to onLookup.
func Observe(c Cache, namespace string, onLookup LookupFunc) Cache {
	if onLookup == nil {
		return c
	}
	return &observed{Cache: c, namespace: namespace, onLookup: onLookup}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		o.onLookup(o.namespace, ok)
	}
	return v, ok, err
}
