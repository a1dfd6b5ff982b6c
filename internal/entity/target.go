package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Target records are the mapped form persisted through the generic store.
// Foreign references are carried as raw source ids until the orchestrator
// resolves them against the id registry; resolved ids live in the uuid fields.

// TargetCustomer is a migrated customer row.
type TargetCustomer struct {
	TenantID     uuid.UUID
	Name         string
	ContactName  string
	Email        string
	Phone        string
	AddressLine1 string
	City         string
	State        string
	PostalCode   string
	Notes        string
	SourceID     string
	Placeholder  bool // synthesized to satisfy a job reference
	CustomFields map[string]string
}

// TargetEmployee is a migrated employee row.
type TargetEmployee struct {
	TenantID         uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	PayType          string
	PayRate          float64
	EmploymentStatus string
	HireDate         string
	SourceID         string
	CustomFields     map[string]string
}

// TargetWorkType is a migrated work type row with classification defaults.
type TargetWorkType struct {
	TenantID         uuid.UUID
	Name             string
	Description      string
	DustSuppression  bool
	SilicaMonitoring bool
	SafetyLevel      string
	DefaultEquipment []string
	MaterialDensity  float64
	CuttingSpeed     float64
	WearRate         float64
	WaterUsage       float64
	PowerUsage       float64
	SourceID         string
	CustomFields     map[string]string
}

// TargetMaterial is a migrated material/asset row.
type TargetMaterial struct {
	TenantID     uuid.UUID
	Name         string
	SKU          string
	Unit         string
	UnitCost     float64
	Quantity     float64
	ReorderLevel float64
	SourceID     string
	CustomFields map[string]string
}

// TargetJob is a migrated job/work order row.
type TargetJob struct {
	TenantID       uuid.UUID
	JobNumber      string
	Name           string
	Status         string
	Priority       string
	Description    string
	CreatedAt      string // calendar date, YYYY-MM-DD
	ScheduledDate  string
	CompletedDate  string
	EstimatedHours float64
	SafetyLevel    string
	AddressLine1   string
	City           string
	State          string
	PostalCode     string

	SourceCustomerID string
	SourceAssigneeID string
	CustomerID       uuid.UUID
	AssigneeID       uuid.UUID

	SourceID     string
	CustomFields map[string]string
}

// TargetTimeEntry is a migrated time entry row.
type TargetTimeEntry struct {
	TenantID uuid.UUID
	Date     string
	ClockIn  string
	ClockOut string
	Hours    float64
	Notes    string

	SourceEmployeeID string
	SourceJobID      string
	EmployeeID       uuid.UUID
	JobID            uuid.UUID

	SourceID string
}

// CustomFieldPrefix keys folded free-form custom fields in the row bag.
// Entries without the prefix were redirected onto standard fields by a
// deployment override and are lifted to top-level columns.
const CustomFieldPrefix = "custom_field_"

func baseRow(tenantID uuid.UUID, sourceID string, custom map[string]string) map[string]any {
	row := map[string]any{
		"tenant_id": tenantID.String(),
		"source_id": sourceID,
	}
	bag := make(map[string]string)
	for k, v := range custom {
		if strings.HasPrefix(k, CustomFieldPrefix) {
			bag[k] = v
		} else {
			row[k] = v
		}
	}
	if len(bag) > 0 {
		row["custom_fields"] = bag
	}
	return row
}

// Row flattens the record for the generic insert interface.
func (c TargetCustomer) Row() map[string]any {
	row := baseRow(c.TenantID, c.SourceID, c.CustomFields)
	row["name"] = c.Name
	row["contact_name"] = c.ContactName
	row["email"] = c.Email
	row["phone"] = c.Phone
	row["address_line1"] = c.AddressLine1
	row["city"] = c.City
	row["state"] = c.State
	row["postal_code"] = c.PostalCode
	row["notes"] = c.Notes
	row["placeholder"] = c.Placeholder
	return row
}

func (e TargetEmployee) Row() map[string]any {
	row := baseRow(e.TenantID, e.SourceID, e.CustomFields)
	row["first_name"] = e.FirstName
	row["last_name"] = e.LastName
	row["email"] = e.Email
	row["phone"] = e.Phone
	row["pay_type"] = e.PayType
	row["pay_rate"] = e.PayRate
	row["employment_status"] = e.EmploymentStatus
	row["hire_date"] = e.HireDate
	return row
}

func (w TargetWorkType) Row() map[string]any {
	row := baseRow(w.TenantID, w.SourceID, w.CustomFields)
	row["name"] = w.Name
	row["description"] = w.Description
	row["dust_suppression"] = w.DustSuppression
	row["silica_monitoring"] = w.SilicaMonitoring
	row["safety_level"] = w.SafetyLevel
	row["default_equipment"] = w.DefaultEquipment
	row["material_density"] = w.MaterialDensity
	row["cutting_speed"] = w.CuttingSpeed
	row["wear_rate"] = w.WearRate
	row["water_usage"] = w.WaterUsage
	row["power_usage"] = w.PowerUsage
	return row
}

func (m TargetMaterial) Row() map[string]any {
	row := baseRow(m.TenantID, m.SourceID, m.CustomFields)
	row["name"] = m.Name
	row["sku"] = m.SKU
	row["unit"] = m.Unit
	row["unit_cost"] = m.UnitCost
	row["quantity"] = m.Quantity
	row["reorder_level"] = m.ReorderLevel
	return row
}

func (j TargetJob) Row() map[string]any {
	row := baseRow(j.TenantID, j.SourceID, j.CustomFields)
	row["job_number"] = j.JobNumber
	row["name"] = j.Name
	row["status"] = j.Status
	row["priority"] = j.Priority
	row["description"] = j.Description
	row["created_at"] = j.CreatedAt
	row["scheduled_date"] = j.ScheduledDate
	row["completed_date"] = j.CompletedDate
	row["estimated_hours"] = j.EstimatedHours
	row["safety_level"] = j.SafetyLevel
	row["address_line1"] = j.AddressLine1
	row["city"] = j.City
	row["state"] = j.State
	row["postal_code"] = j.PostalCode
	if j.CustomerID != uuid.Nil {
		row["customer_id"] = j.CustomerID.String()
	}
	if j.AssigneeID != uuid.Nil {
		row["assignee_id"] = j.AssigneeID.String()
	}
	return row
}

func (t TargetTimeEntry) Row() map[string]any {
	row := baseRow(t.TenantID, t.SourceID, nil)
	row["date"] = t.Date
	row["clock_in"] = t.ClockIn
	row["clock_out"] = t.ClockOut
	row["hours"] = t.Hours
	row["notes"] = t.Notes
	if t.EmployeeID != uuid.Nil {
		row["employee_id"] = t.EmployeeID.String()
	}
	if t.JobID != uuid.Nil {
		row["job_id"] = t.JobID.String()
	}
	return row
}
