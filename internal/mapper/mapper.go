package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
	"github.com/joseph-ayodele/dsm-migrator/internal/normalize"
)

// Context carries the run-scoped inputs every transform needs. Transforms are
// pure: same record + context always produces the same target record.
type Context struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	// CustomFieldOverrides redirects "custom_field_N" keys onto named standard
	// fields for a deployment, e.g. {"custom_field_1": "po_number"}.
	CustomFieldOverrides map[string]string
}

// foldCustomFields copies CustomField1..5 into a string-keyed bag under the
// fixed prefix, applying any per-deployment redirects.
func foldCustomFields(rec entity.Record, ctx Context) map[string]string {
	out := make(map[string]string)
	for i := 1; i <= 5; i++ {
		value := rec.Get(fmt.Sprintf("CustomField%d", i))
		if value == "" {
			continue
		}
		key := fmt.Sprintf("%s%d", entity.CustomFieldPrefix, i)
		if target, ok := ctx.CustomFieldOverrides[key]; ok && target != "" {
			key = target
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Customer transforms a normalized customer record.
func Customer(rec entity.Record, ctx Context) entity.TargetCustomer {
	return entity.TargetCustomer{
		TenantID:     ctx.TenantID,
		Name:         rec.Get("CustomerName"),
		ContactName:  rec.Get("ContactName"),
		Email:        strings.ToLower(rec.Get("Email")),
		Phone:        rec.Get("Phone"),
		AddressLine1: rec.Get("Address"),
		City:         rec.Get("City"),
		State:        rec.Get("State"),
		PostalCode:   rec.Get("Zip"),
		Notes:        rec.Get("Notes"),
		SourceID:     rec.Get("CustomerID"),
		CustomFields: foldCustomFields(rec, ctx),
	}
}

// PlaceholderCustomer synthesizes a minimal customer to satisfy a job
// reference that could not be resolved. Data completeness is traded for
// referential integrity; the row is flagged for manual review.
func PlaceholderCustomer(sourceRef string, ctx Context) entity.TargetCustomer {
	name := sourceRef
	if name == "" {
		name = "Unknown Customer"
	}
	return entity.TargetCustomer{
		TenantID:    ctx.TenantID,
		Name:        name,
		Notes:       "Placeholder created during DSM migration; source customer was not in the export.",
		SourceID:    sourceRef,
		Placeholder: true,
	}
}

// Employee transforms a normalized employee record.
func Employee(rec entity.Record, ctx Context) entity.TargetEmployee {
	payType, _ := constants.MapEnum(constants.PayTypes, rec.Get("PayType"), constants.DefaultPayType)
	empStatus, _ := constants.MapEnum(constants.EmploymentStatuses, rec.Get("EmploymentStatus"), constants.DefaultEmploymentStatus)
	return entity.TargetEmployee{
		TenantID:         ctx.TenantID,
		FirstName:        rec.Get("FirstName"),
		LastName:         rec.Get("LastName"),
		Email:            strings.ToLower(rec.Get("Email")),
		Phone:            rec.Get("Phone"),
		PayType:          payType,
		PayRate:          normalize.ParseNumber(rec.Get("PayRate")),
		EmploymentStatus: empStatus,
		HireDate:         rec.Get("HireDate"),
		SourceID:         rec.Get("EmployeeID"),
		CustomFields:     foldCustomFields(rec, ctx),
	}
}

// WorkType transforms a normalized work type record, attaching classification
// defaults from the fixed class table.
func WorkType(rec entity.Record, ctx Context) entity.TargetWorkType {
	name := rec.Get("WorkTypeName")
	profile := Profile(ClassifyWorkType(name))
	return entity.TargetWorkType{
		TenantID:         ctx.TenantID,
		Name:             name,
		Description:      rec.Get("Description"),
		DustSuppression:  profile.DustSuppression,
		SilicaMonitoring: profile.SilicaMonitoring,
		SafetyLevel:      profile.SafetyLevel,
		DefaultEquipment: append([]string(nil), profile.DefaultEquipment...),
		MaterialDensity:  profile.Factors.MaterialDensity,
		CuttingSpeed:     profile.Factors.CuttingSpeed,
		WearRate:         profile.Factors.WearRate,
		WaterUsage:       profile.Factors.WaterUsage,
		PowerUsage:       profile.Factors.PowerUsage,
		SourceID:         rec.Get("WorkTypeID"),
		CustomFields:     foldCustomFields(rec, ctx),
	}
}

// Material transforms a normalized material/asset record.
func Material(rec entity.Record, ctx Context) entity.TargetMaterial {
	quantity := normalize.ParseNumber(rec.Get("Quantity"))
	reorder := normalize.ParseNumber(rec.Get("ReorderLevel"))
	if reorder == 0 && quantity > 0 {
		// Default reorder level: a fifth of current stock, at least one unit.
		reorder = quantity / 5
		if reorder < 1 {
			reorder = 1
		}
	}
	return entity.TargetMaterial{
		TenantID:     ctx.TenantID,
		Name:         rec.Get("MaterialName"),
		SKU:          rec.Get("SKU"),
		Unit:         rec.Get("Unit"),
		UnitCost:     normalize.ParseNumber(rec.Get("UnitCost")),
		Quantity:     quantity,
		ReorderLevel: reorder,
		SourceID:     rec.Get("MaterialID"),
		CustomFields: foldCustomFields(rec, ctx),
	}
}

// Job transforms a normalized job record. Foreign references stay as raw
// source ids; the orchestrator resolves them after the dependency phases.
func Job(rec entity.Record, ctx Context) entity.TargetJob {
	status, _ := constants.MapEnum(constants.JobStatuses, rec.Get("Status"), constants.DefaultJobStatus)
	priority, _ := constants.MapEnum(constants.JobPriorities, rec.Get("Priority"), constants.DefaultJobPriority)

	workClass := ClassifyWorkType(rec.Get("WorkType"))
	profile := Profile(workClass)

	hours := normalize.ParseNumber(rec.Get("EstimatedHours"))
	if hours == 0 {
		hours = profile.DefaultHours
	}

	customerRef := rec.Get("CustomerID")
	if customerRef == "" {
		customerRef = rec.Get("CustomerName")
	}

	return entity.TargetJob{
		TenantID:       ctx.TenantID,
		JobNumber:      rec.Get("JobNumber"),
		Name:           rec.Get("JobName"),
		Status:         status,
		Priority:       priority,
		Description:    rec.Get("Description"),
		CreatedAt:      rec.Get("DateCreated"),
		ScheduledDate:  rec.Get("ScheduledDate"),
		CompletedDate:  rec.Get("CompletedDate"),
		EstimatedHours: hours,
		SafetyLevel:    profile.SafetyLevel,
		AddressLine1:   rec.Get("Address"),
		City:           rec.Get("City"),
		State:          rec.Get("State"),
		PostalCode:     rec.Get("Zip"),

		SourceCustomerID: customerRef,
		SourceAssigneeID: rec.Get("AssigneeID"),

		SourceID:     rec.Get("JobID"),
		CustomFields: foldCustomFields(rec, ctx),
	}
}

// TimeEntry transforms a normalized time entry record, deriving hours from
// clock-in/out when the export carries no total.
func TimeEntry(rec entity.Record, ctx Context) entity.TargetTimeEntry {
	hours := normalize.ParseNumber(rec.Get("HoursWorked"))
	clockIn := rec.Get("ClockIn")
	clockOut := rec.Get("ClockOut")
	if hours == 0 {
		hours = hoursBetween(clockIn, clockOut)
	}
	return entity.TargetTimeEntry{
		TenantID: ctx.TenantID,
		Date:     rec.Get("Date"),
		ClockIn:  clockIn,
		ClockOut: clockOut,
		Hours:    hours,
		Notes:    rec.Get("Notes"),

		SourceEmployeeID: rec.Get("EmployeeID"),
		SourceJobID:      rec.Get("JobID"),

		SourceID: rec.Get("TimeEntryID"),
	}
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "03:04 PM"}

func hoursBetween(in, out string) float64 {
	start, ok1 := parseClock(in)
	end, ok2 := parseClock(out)
	if !ok1 || !ok2 {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour // overnight shift
	}
	return d.Hours()
}

func parseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
