package cache

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// MemoryConfig configures the in-memory store.
type MemoryConfig struct {
	// Clock supplies expiry timestamps; injectable for deterministic tests.
	// Default: clock.RealClock{}
	Clock clock.Clock
}

// Memory is an in-memory Store. Expired entries are removed lazily on read.
type Memory struct {
	clock clock.Clock

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory(config ...MemoryConfig) *Memory {
	cfg := MemoryConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	return &Memory{
		clock:   cfg.Clock,
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value. Returns (nil, false) on miss or expiry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.clock.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a fresher Set may have raced in.
		if cur, ok := m.entries[key]; ok && m.clock.Now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value with the given TTL. TTL<=0 stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: m.clock.Now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Delete removes a value. Idempotent.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries currently held, including any expired
// entries not yet lazily evicted.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
