package constants

// EntityKind identifies one migratable record set in a DSM export.
type EntityKind string

// Stable values (these exact strings appear in export envelopes and status maps).
const (
	KindCustomers   EntityKind = "customers"
	KindEmployees   EntityKind = "employees"
	KindWorkTypes   EntityKind = "workTypes"
	KindMaterials   EntityKind = "materials"
	KindJobs        EntityKind = "jobs"
	KindTimeEntries EntityKind = "timeEntries"
)

// PhaseOrder is the dependency order for migration phases. Jobs depend on
// customers and employees; time entries depend on employees and jobs.
var PhaseOrder = []EntityKind{
	KindCustomers,
	KindEmployees,
	KindWorkTypes,
	KindMaterials,
	KindJobs,
	KindTimeEntries,
}

// TargetTables maps each kind to the table it is persisted into.
var TargetTables = map[EntityKind]string{
	KindCustomers:   "customers",
	KindEmployees:   "employees",
	KindWorkTypes:   "work_types",
	KindMaterials:   "materials",
	KindJobs:        "jobs",
	KindTimeEntries: "time_entries",
}

// AllKinds returns every kind in phase order.
func AllKinds() []EntityKind {
	out := make([]EntityKind, len(PhaseOrder))
	copy(out, PhaseOrder)
	return out
}

// IsKind reports whether s names a known entity kind.
func IsKind(s string) bool {
	for _, k := range PhaseOrder {
		if string(k) == s {
			return true
		}
	}
	return false
}
