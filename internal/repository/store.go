// Package repository provides the persistence collaborator the migration
// engine writes through. The engine only needs a generic insert/query
// surface; the concrete stores keep migrated rows as JSON documents keyed by
// logical table.
package repository

import (
	"context"

	"github.com/google/uuid"
)

// DataStore is the generic insert/query interface the orchestrator consumes.
// Implementations apply their own call-level timeout/retry policy; the engine
// does not retry.
type DataStore interface {
	// Insert persists one row into a logical table and returns its new id.
	Insert(ctx context.Context, table string, row map[string]any) (uuid.UUID, error)
	// FindOne returns the first row whose fields match every predicate entry.
	FindOne(ctx context.Context, table string, pred map[string]any) (map[string]any, bool, error)
}

// matches reports whether row satisfies every predicate entry. Values are
// compared loosely since JSON round-trips erase Go types.
func matches(row, pred map[string]any) bool {
	for k, want := range pred {
		got, ok := row[k]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	return stringify(a) == stringify(b)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return toJSONString(t)
	}
}
