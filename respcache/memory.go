package respcache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type entry struct {
	path     string
	value    json.RawMessage
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(at time.Time) bool {
	if e.ttl <= 0 {
		return false
	}
	return at.Sub(e.storedAt) >= e.ttl
}

// Memory is an in-process Store guarded by a read-write mutex. It is safe to
// share one instance across goroutines; overwrites are last-writer-wins per
// key.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock overrides the time source (useful for tests).
func (m *Memory) WithClock(fn func() time.Time) *Memory {
	if fn != nil {
		m.now = fn
	}
	return m
}

func (m *Memory) Get(path string, params map[string]string) (json.RawMessage, bool) {
	key := Key(path, params)

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		// Re-check under the write lock: the entry may have been refreshed.
		if cur, ok := m.entries[key]; ok && cur.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (m *Memory) Set(path string, params map[string]string, value json.RawMessage, ttl time.Duration) {
	key := Key(path, params)

	m.mu.Lock()
	m.entries[key] = entry{
		path:     path,
		value:    value,
		storedAt: m.now(),
		ttl:      ttl,
	}
	m.mu.Unlock()
}

func (m *Memory) Invalidate(pathSubstring string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if strings.Contains(e.path, pathSubstring) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

// Len reports the number of entries currently held, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep eagerly evicts every expired entry and reports how many were removed.
// Callers that care about occupied memory between reads can run this on their
// own schedule; Get does not require it.
func (m *Memory) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}
