/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps tournaments in process memory. Values are copied in and
// out so callers never share records with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	tournaments map[string]*Tournament
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tournaments: make(map[string]*Tournament)}
}

func (m *MemoryStore) Create(_ context.Context, t *Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[t.ID]; ok {
		return fmt.Errorf("%w: %v", ErrExists, t.ID)
	}
	m.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return cloneTournament(t), nil
}

func (m *MemoryStore) Save(_ context.Context, t *Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[t.ID]; !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, t.ID)
	}
	m.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.tournaments))
	for id := range m.tournaments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[id]; !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	delete(m.tournaments, id)
	return nil
}
