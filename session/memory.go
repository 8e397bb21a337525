package session

import (
	"context"
	"sync"
	"time"
)

// Purger drops entries not written for olderThan; the janitor in cmd runs it.
type Purger interface {
	DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type memoryEntry struct {
	value     []byte
	updatedAt time.Time
}

// MemoryKV is an in-process KeyValue. Values are copied on the way in and out.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = memoryEntry{value: append([]byte(nil), value...), updatedAt: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// DeleteStale mirrors the postgres purge: entries are aged by their last write.
func (m *MemoryKV) DeleteStale(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := m.now().Add(-olderThan)

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, e := range m.data {
		if e.updatedAt.Before(cutoff) {
			delete(m.data, key)
			n++
		}
	}
	return n, nil
}

func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
