package store

import (
	"context"
	"sync"
)

// Memory is an in-process Backend backed by a mutex-guarded map, used in
// tests and for local development.
type Memory struct {
	mu   sync.Mutex
	data map[Address]Record
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[Address]Record)}
}

func (m *Memory) Create(_ context.Context, addr Address, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[addr]; ok {
		return ErrAlreadyExists
	}
	m.data[addr] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, addr Address) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[addr]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Put(_ context.Context, addr Address, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[addr] = rec
	return nil
}

func (m *Memory) Delete(_ context.Context, addr Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, addr)
	return nil
}
