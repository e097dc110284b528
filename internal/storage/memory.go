package storage

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Collection guarded by a RWMutex. Reads run
// concurrently; writes and id assignment serialize on the write lock.
type Memory[T any] struct {
	mu     sync.RWMutex
	docs   map[string]T
	lastID int
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{docs: make(map[string]T)}
}

func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aok := keyNum(keys[i])
		b, bok := keyNum(keys[j])
		if aok && bok && a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.docs[k])
	}
	return out, nil
}

func (m *Memory[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.docs[key]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

func (m *Memory[T]) Create(ctx context.Context, key string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[key]; ok {
		return ErrExists
	}
	m.docs[key] = v
	if n, ok := keyNum(key); ok && n > m.lastID {
		m.lastID = n
	}
	return nil
}

func (m *Memory[T]) CreateWithNextID(ctx context.Context, build func(id int) (string, T)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.lastID + 1
	key, v := build(id)
	if _, ok := m.docs[key]; ok {
		var zero T
		return zero, ErrExists
	}
	m.docs[key] = v
	m.lastID = id
	return v, nil
}

func (m *Memory[T]) Put(ctx context.Context, key string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[key]; !ok {
		return ErrNotFound
	}
	m.docs[key] = v
	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[key]; !ok {
		return ErrNotFound
	}
	delete(m.docs, key)
	return nil
}
