// Package registry holds the per-run mapping of legacy source identifiers to
// migrated target ids. Later phases resolve foreign references through it;
// it is never read across runs.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

type key struct {
	migrationID uuid.UUID
	kind        constants.EntityKind
	sourceID    string
}

// Registry is an in-memory, write-once id mapping store, safe for concurrent
// use within a phase.
type Registry struct {
	mu       sync.RWMutex
	mappings map[key]uuid.UUID
}

func New() *Registry {
	return &Registry{mappings: make(map[key]uuid.UUID)}
}

// Remember associates (migrationID, kind, sourceID) with targetID.
// Associations are write-once; remembering an existing key is a usage bug and
// returns an error.
func (r *Registry) Remember(migrationID uuid.UUID, kind constants.EntityKind, sourceID string, targetID uuid.UUID) error {
	if sourceID == "" {
		return fmt.Errorf("registry: empty source id for %s", kind)
	}
	k := key{migrationID: migrationID, kind: kind, sourceID: sourceID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.mappings[k]; ok {
		return fmt.Errorf("registry: %s %q already mapped to %s", kind, sourceID, existing)
	}
	r.mappings[k] = targetID
	return nil
}

// Resolve looks up the target id for a source reference.
func (r *Registry) Resolve(migrationID uuid.UUID, kind constants.EntityKind, sourceID string) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.mappings[key{migrationID: migrationID, kind: kind, sourceID: sourceID}]
	return id, ok
}

// Mappings returns all associations recorded for one run, for auditing.
func (r *Registry) Mappings(migrationID uuid.UUID) []entity.IDMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.IDMapping
	for k, target := range r.mappings {
		if k.migrationID != migrationID {
			continue
		}
		out = append(out, entity.IDMapping{
			MigrationID: k.migrationID,
			SourceKind:  k.kind,
			SourceID:    k.sourceID,
			TargetID:    target,
		})
	}
	return out
}

// Len reports the number of associations across all runs (testing aid).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mappings)
}
