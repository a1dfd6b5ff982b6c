package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/dsm-migrator/constants"
)

// MigrationOptions configures one migration run.
type MigrationOptions struct {
	EntityKinds    []constants.EntityKind `json:"entity_kinds"` // empty -> all kinds present in the bundle
	SkipDuplicates bool                   `json:"skip_duplicates"`
	CreateBackup   bool                   `json:"create_backup"`
	AllowPartial   bool                   `json:"allow_partial"` // proceed past pre-flight validation failures
	MaxErrors      int                    `json:"max_errors"`
	Workers        int                    `json:"workers"` // <=1 means strictly sequential
	TenantID       uuid.UUID              `json:"tenant_id"`
	ActorID        uuid.UUID              `json:"actor_id"`
}

// Wants reports whether kind was requested (an empty kind list requests all).
func (o MigrationOptions) Wants(kind constants.EntityKind) bool {
	if len(o.EntityKinds) == 0 {
		return true
	}
	for _, k := range o.EntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TableCounts tracks per-table record outcomes for one run.
type TableCounts struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// MigrationError is one per-record failure, classified and actionable.
type MigrationError struct {
	RecordID     string                  `json:"record_id"`
	RecordType   constants.EntityKind    `json:"record_type"`
	Category     constants.ErrorCategory `json:"category"`
	Message      string                  `json:"message"`
	SuggestedFix string                  `json:"suggested_fix"`
}

// MigrationWarning is one non-blocking data quality note.
type MigrationWarning struct {
	RecordID   string                    `json:"record_id"`
	RecordType constants.EntityKind      `json:"record_type"`
	Category   constants.WarningCategory `json:"category"`
	Message    string                    `json:"message"`
}

// MigrationStatus is the full state of one migration attempt. The orchestrator
// is the only writer; observers receive value copies via Snapshot.
type MigrationStatus struct {
	MigrationID uuid.UUID                             `json:"migration_id"`
	State       constants.RunState                    `json:"state"`
	StartedAt   time.Time                             `json:"started_at"`
	FinishedAt  *time.Time                            `json:"finished_at,omitempty"`
	Tables      map[constants.EntityKind]*TableCounts `json:"tables"`
	Options     MigrationOptions                      `json:"options"`

	TotalRecords   int `json:"total_records"`
	Processed      int `json:"processed"`
	SuccessRecords int `json:"success_records"`
	FailedRecords  int `json:"failed_records"`
	SkippedRecords int `json:"skipped_records"`

	Errors   []MigrationError   `json:"errors"`
	Warnings []MigrationWarning `json:"warnings"`
}

// NewMigrationStatus builds the initial status for a fresh run.
func NewMigrationStatus(opts MigrationOptions) *MigrationStatus {
	return &MigrationStatus{
		MigrationID: uuid.New(),
		State:       constants.RunNotStarted,
		Tables:      make(map[constants.EntityKind]*TableCounts),
		Options:     opts,
	}
}

// Snapshot returns a deep value copy safe to hand to observers.
func (s *MigrationStatus) Snapshot() MigrationStatus {
	out := *s
	out.Tables = make(map[constants.EntityKind]*TableCounts, len(s.Tables))
	for k, v := range s.Tables {
		c := *v
		out.Tables[k] = &c
	}
	out.Errors = append([]MigrationError(nil), s.Errors...)
	out.Warnings = append([]MigrationWarning(nil), s.Warnings...)
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		out.FinishedAt = &t
	}
	return out
}

// Table returns (creating if needed) the counters for kind.
func (s *MigrationStatus) Table(kind constants.EntityKind) *TableCounts {
	tc, ok := s.Tables[kind]
	if !ok {
		tc = &TableCounts{}
		s.Tables[kind] = tc
	}
	return tc
}

// IDMapping associates one source identifier with its migrated target id,
// scoped to a single run.
type IDMapping struct {
	MigrationID uuid.UUID            `json:"migration_id"`
	SourceKind  constants.EntityKind `json:"source_kind"`
	SourceID    string               `json:"source_id"`
	TargetID    uuid.UUID            `json:"target_id"`
}
