// Copyright 2026 The eliza-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memory persists the agent's memories: inbound messages, response
// memories, facts, and reflections, grouped into named tables.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elizaos/eliza-go/pkg/types"
)

// DefaultTable holds message memories when the caller does not name one.
const DefaultTable = "messages"

// Store is the persistence boundary for memories. Implementations must be
// safe for concurrent use.
type Store interface {
	// Create appends a memory to a table. A zero memory ID is assigned; a
	// zero CreatedAt is stamped with the current time.
	Create(ctx context.Context, mem *types.Memory, table string) error

	// GetByID returns the memory with the given ID, searching all tables.
	GetByID(ctx context.Context, id uuid.UUID) (*types.Memory, error)

	// GetByRoom returns up to limit memories for a room from a table,
	// newest first. limit <= 0 means no limit.
	GetByRoom(ctx context.Context, roomID uuid.UUID, table string, limit int) ([]*types.Memory, error)

	// Count returns the number of memories in a table for a room.
	Count(ctx context.Context, roomID uuid.UUID, table string) (int, error)
}

// ErrNotFound is returned when no memory matches the given ID.
var ErrNotFound = fmt.Errorf("memory not found")

// InMemoryStore is the append-only reference implementation backing tests
// and single-process deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]*types.Memory
	byID   map[uuid.UUID]*types.Memory
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tables: make(map[string][]*types.Memory),
		byID:   make(map[uuid.UUID]*types.Memory),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, mem *types.Memory, table string) error {
	if mem == nil {
		return fmt.Errorf("memory cannot be nil")
	}
	if table == "" {
		table = DefaultTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mem.ID == uuid.Nil {
		mem.ID = types.NewUUID()
	}
	if _, exists := s.byID[mem.ID]; exists {
		return fmt.Errorf("memory '%s' already exists", mem.ID)
	}
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = time.Now().UTC()
	}

	s.tables[table] = append(s.tables[table], mem)
	s.byID[mem.ID] = mem
	return nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mem, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return mem, nil
}

func (s *InMemoryStore) GetByRoom(ctx context.Context, roomID uuid.UUID, table string, limit int) ([]*types.Memory, error) {
	if table == "" {
		table = DefaultTable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.Memory
	for _, mem := range s.tables[table] {
		if mem.RoomID == roomID {
			out = append(out, mem)
		}
	}

	// Newest first; insertion order breaks CreatedAt ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Count(ctx context.Context, roomID uuid.UUID, table string) (int, error) {
	if table == "" {
		table = DefaultTable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, mem := range s.tables[table] {
		if mem.RoomID == roomID {
			count++
		}
	}
	return count, nil
}
