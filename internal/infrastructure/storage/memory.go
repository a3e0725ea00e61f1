package storage

import (
	"context"
	"sync"

	"github.com/99minutos/user-portal/internal/core/ports"
)

// Memory keeps every client's items in process memory. Contents are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{scopes: make(map[string]map[string]string)}
}

// Scope returns the LocalStorage of clientID.
func (m *Memory) Scope(clientID string) ports.LocalStorage {
	return &memoryScope{m: m, id: clientID}
}

type memoryScope struct {
	m  *Memory
	id string
}

func (s *memoryScope) GetItem(_ context.Context, key string) (string, bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	v, ok := s.m.scopes[s.id][key]
	return v, ok, nil
}

func (s *memoryScope) SetItem(_ context.Context, key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	items, ok := s.m.scopes[s.id]
	if !ok {
		items = make(map[string]string)
		s.m.scopes[s.id] = items
	}
	items[key] = value
	return nil
}

func (s *memoryScope) RemoveItem(_ context.Context, key string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	items, ok := s.m.scopes[s.id]
	if !ok {
		return nil
	}
	delete(items, key)
	if len(items) == 0 {
		delete(s.m.scopes, s.id)
	}
	return nil
}
