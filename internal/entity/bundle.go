package entity

import (
	"time"

	"github.com/joseph-ayodele/dsm-migrator/constants"
)

// Record is one loosely-typed source row: canonicalized field name -> raw value.
// All decoders converge on this representation.
type Record map[string]string

// Get returns the value for field, or "" when absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Fields returns the record's field names in unspecified order.
func (r Record) Fields() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	return out
}

// ExportBundle is the in-memory result of parsing one DSM export file,
// grouped by entity kind. Immutable after parse.
type ExportBundle struct {
	Format      constants.FileFormat              `json:"format"`
	ExportedAt  time.Time                         `json:"exported_at"`
	Tables      []constants.EntityKind            `json:"tables"`
	Records     map[constants.EntityKind][]Record `json:"records"`
	RecordCount int                               `json:"record_count"`
}

// Kinds returns the populated entity kinds in migration phase order.
func (b *ExportBundle) Kinds() []constants.EntityKind {
	var out []constants.EntityKind
	for _, k := range constants.PhaseOrder {
		if len(b.Records[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// CountRecords recomputes RecordCount and the declared table list from Records.
func (b *ExportBundle) CountRecords() {
	b.Tables = b.Tables[:0]
	b.RecordCount = 0
	for _, k := range constants.PhaseOrder {
		if recs := b.Records[k]; len(recs) > 0 {
			b.Tables = append(b.Tables, k)
			b.RecordCount += len(recs)
		}
	}
}
