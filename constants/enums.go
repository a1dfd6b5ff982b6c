package constants

import "strings"

// Enum remap tables from DSM export values onto the target schema. Lookups are
// case-insensitive on trimmed input; unrecognized values fall back to the
// table's default rather than failing the record.

// JobStatuses maps DSM job statuses to target statuses.
var JobStatuses = map[string]string{
	"open":        "pending",
	"in progress": "in_progress",
	"completed":   "completed",
	"cancelled":   "cancelled",
	"canceled":    "cancelled",
	"on hold":     "on_hold",
}

const DefaultJobStatus = "pending"

// JobPriorities maps DSM priorities to target priorities.
var JobPriorities = map[string]string{
	"low":      "low",
	"normal":   "medium",
	"medium":   "medium",
	"high":     "high",
	"urgent":   "urgent",
	"critical": "urgent",
}

const DefaultJobPriority = "medium"

// PayTypes maps DSM pay classifications to target pay types.
var PayTypes = map[string]string{
	"hourly":     "hourly",
	"salary":     "salaried",
	"salaried":   "salaried",
	"contract":   "contractor",
	"contractor": "contractor",
	"1099":       "contractor",
}

const DefaultPayType = "hourly"

// EmploymentStatuses maps DSM employment statuses to target statuses.
var EmploymentStatuses = map[string]string{
	"active":     "active",
	"inactive":   "inactive",
	"terminated": "terminated",
	"on leave":   "on_leave",
	"leave":      "on_leave",
}

const DefaultEmploymentStatus = "active"

// MapEnum resolves source against a remap table, falling back to def.
// The second result reports whether the value was recognized.
func MapEnum(table map[string]string, source, def string) (string, bool) {
	v, ok := table[strings.ToLower(strings.TrimSpace(source))]
	if !ok {
		return def, false
	}
	return v, true
}
