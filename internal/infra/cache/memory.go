package cache

import (
	"context"
	"sync"
	"time"
)

// maxEntries лимит записей, после которого выполняется чистка устаревших
const maxEntries = 200

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory потокобезопасный in-memory кэш с фиксированным TTL.
// Часы и TTL инжектируются при создании — кэш не прячет время в глобальном
// состоянии и полностью управляем из тестов.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   Clock
}

// NewMemory создает новый in-memory кэш
func NewMemory(ttl time.Duration, clock Clock) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get возвращает закэшированное значение, если оно есть и не устарело
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.clock.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set сохраняет значение с TTL кэша
func (m *Memory) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		data:      data,
		expiresAt: m.clock.Now().Add(m.ttl),
	}

	// Защита от неограниченного роста
	if len(m.entries) > maxEntries {
		m.cleanupLocked()
	}

	return nil
}

// Invalidate сбрасывает весь кэш. Вызывается после любой записи слота.
func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// cleanupLocked удаляет устаревшие записи; вызывать под mu
func (m *Memory) cleanupLocked() {
	now := m.clock.Now()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Len возвращает текущее количество записей (для тестов и отладки)
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
