package constants

// RunState is the canonical lifecycle state for a migration run.
type RunState string

// Stable values (store these exact strings in DB and status snapshots).
const (
	RunNotStarted          RunState = "not_started"
	RunInProgress          RunState = "in_progress"
	RunCompleted           RunState = "completed"
	RunCompletedWithErrors RunState = "completed_with_errors" // finished, but some records failed
	RunFailed              RunState = "failed"                // terminal failure (pre-flight or error budget)
	RunCancelled           RunState = "cancelled"
)

// Terminal reports whether a run state admits no further transitions.
func (s RunState) Terminal() bool {
	switch s {
	case RunCompleted, RunCompletedWithErrors, RunFailed, RunCancelled:
		return true
	}
	return false
}

// ErrorCategory is the closed taxonomy for per-record migration errors.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation"
	ErrCatDuplicate  ErrorCategory = "duplicate"
	ErrCatMapping    ErrorCategory = "mapping"
	ErrCatDatabase   ErrorCategory = "database"
	ErrCatUnknown    ErrorCategory = "unknown"
)

// WarningCategory is the closed taxonomy for non-blocking migration warnings.
type WarningCategory string

const (
	WarnDataLoss         WarningCategory = "data_loss"
	WarnDefaultValue     WarningCategory = "default_value"
	WarnFormatConversion WarningCategory = "format_conversion"
	WarnManualReview     WarningCategory = "manual_review"
)

// suggestedFixes maps an error category to operator guidance included with the error.
var suggestedFixes = map[ErrorCategory]string{
	ErrCatValidation: "Correct the source field values and re-run the migration for this table.",
	ErrCatDuplicate:  "Enable skip_duplicates, or remove the duplicate row from the export.",
	ErrCatMapping:    "Check the source record for unexpected field values; unmapped enums fall back to defaults.",
	ErrCatDatabase:   "Verify database connectivity and constraints, then re-run; processed records are not re-inserted when skip_duplicates is set.",
	ErrCatUnknown:    "Inspect the error message and contact support with the migration id.",
}

// SuggestedFix returns the canned remediation text for an error category.
func SuggestedFix(cat ErrorCategory) string {
	if fix, ok := suggestedFixes[cat]; ok {
		return fix
	}
	return suggestedFixes[ErrCatUnknown]
}
