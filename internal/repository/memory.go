package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory DataStore for tests and dry runs.
type MemStore struct {
	mu     sync.RWMutex
	tables map[string][]map[string]any
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string][]map[string]any)}
}

func (s *MemStore) Insert(_ context.Context, table string, row map[string]any) (uuid.UUID, error) {
	id := uuid.New()
	stored := make(map[string]any, len(row)+1)
	for k, v := range row {
		stored[k] = v
	}
	stored["id"] = id.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], stored)
	return id, nil
}

func (s *MemStore) FindOne(_ context.Context, table string, pred map[string]any) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.tables[table] {
		if matches(row, pred) {
			return row, true, nil
		}
	}
	return nil, false, nil
}

// Count returns the number of rows in a logical table (testing aid).
func (s *MemStore) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func toJSONString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
