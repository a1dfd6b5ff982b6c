package mapper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

func testContext() Context {
	return Context{
		TenantID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		ActorID:  uuid.MustParse("22222222-2222-2222-2222-222222222222"),
	}
}

func TestClassifyWorkType(t *testing.T) {
	tests := []struct {
		name string
		want WorkClass
	}{
		{"Core Drilling", ClassCoreDrilling},
		{"18in core - garage", ClassCoreDrilling},
		{"Wall Saw Opening", ClassWallSawing},
		{"Slab Sawing", ClassFlatSawing},
		{"Wire Saw Pier Removal", ClassWireSawing},
		{"GPR Scan", ClassScanning},
		{"Selective Demolition", ClassDemolition},
		{"Surface Grinding", ClassGrinding},
		{"Concrete Breaking", ClassBreaking},
		{"Sawing (misc)", ClassFlatSawing},
		{"General Labor", ClassGeneric},
		{"", ClassGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWorkType(tt.name))
		})
	}
}

func TestJobEnumMapping(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"Open", "pending"},
		{"In Progress", "in_progress"},
		{"completed", "completed"},
		{"Canceled", "cancelled"},
		{"On Hold", "on_hold"},
		{"something weird", "pending"},
		{"", "pending"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			job := Job(entity.Record{"JobID": "J-1", "Status": tt.source}, testContext())
			assert.Equal(t, tt.want, job.Status)
		})
	}
}

func TestJobClassifierDefaults(t *testing.T) {
	rec := entity.Record{
		"JobID":    "J-1",
		"JobName":  "Basement wall openings",
		"WorkType": "Wall Sawing",
	}
	job := Job(rec, testContext())
	assert.Equal(t, float64(6), job.EstimatedHours) // wall sawing default
	assert.Equal(t, "high", job.SafetyLevel)
}

func TestJobExplicitHoursKept(t *testing.T) {
	rec := entity.Record{"JobID": "J-1", "WorkType": "Wall Sawing", "EstimatedHours": "2.5"}
	job := Job(rec, testContext())
	assert.Equal(t, 2.5, job.EstimatedHours)
}

func TestJobCustomerRefFallsBackToName(t *testing.T) {
	job := Job(entity.Record{"JobID": "J-1", "CustomerName": "Acme Concrete"}, testContext())
	assert.Equal(t, "Acme Concrete", job.SourceCustomerID)

	job = Job(entity.Record{"JobID": "J-2", "CustomerID": "C-7", "CustomerName": "Acme"}, testContext())
	assert.Equal(t, "C-7", job.SourceCustomerID)
}

func TestEmployeeEnumDefaults(t *testing.T) {
	emp := Employee(entity.Record{"EmployeeID": "E-1", "PayType": "Salaried", "EmploymentStatus": ""}, testContext())
	assert.Equal(t, "salaried", emp.PayType)
	assert.Equal(t, "active", emp.EmploymentStatus)
}

func TestMaterialReorderDefault(t *testing.T) {
	m := Material(entity.Record{"MaterialID": "M-1", "Quantity": "50"}, testContext())
	assert.Equal(t, float64(10), m.ReorderLevel)

	m = Material(entity.Record{"MaterialID": "M-2", "Quantity": "3"}, testContext())
	assert.Equal(t, float64(1), m.ReorderLevel)

	m = Material(entity.Record{"MaterialID": "M-3", "Quantity": "50", "ReorderLevel": "15"}, testContext())
	assert.Equal(t, float64(15), m.ReorderLevel)
}

func TestTimeEntryHoursFromClocks(t *testing.T) {
	te := TimeEntry(entity.Record{"TimeEntryID": "T-1", "ClockIn": "08:00", "ClockOut": "16:30"}, testContext())
	assert.InDelta(t, 8.5, te.Hours, 0.001)

	// overnight shift
	te = TimeEntry(entity.Record{"TimeEntryID": "T-2", "ClockIn": "22:00", "ClockOut": "06:00"}, testContext())
	assert.InDelta(t, 8, te.Hours, 0.001)

	// explicit total wins
	te = TimeEntry(entity.Record{"TimeEntryID": "T-3", "HoursWorked": "7.25", "ClockIn": "08:00", "ClockOut": "16:00"}, testContext())
	assert.InDelta(t, 7.25, te.Hours, 0.001)
}

func TestFoldCustomFields(t *testing.T) {
	rec := entity.Record{
		"CustomerID":   "C-1",
		"CustomField1": "route-7",
		"CustomField3": "net-30",
	}

	c := Customer(rec, testContext())
	assert.Equal(t, map[string]string{
		"custom_field_1": "route-7",
		"custom_field_3": "net-30",
	}, c.CustomFields)

	ctx := testContext()
	ctx.CustomFieldOverrides = map[string]string{"custom_field_3": "payment_terms"}
	c = Customer(rec, ctx)
	assert.Equal(t, "net-30", c.CustomFields["payment_terms"])
	assert.Equal(t, "route-7", c.CustomFields["custom_field_1"])
}

func TestPlaceholderCustomer(t *testing.T) {
	c := PlaceholderCustomer("Acme Concrete", testContext())
	assert.True(t, c.Placeholder)
	assert.Equal(t, "Acme Concrete", c.Name)
	assert.Equal(t, "Acme Concrete", c.SourceID)

	c = PlaceholderCustomer("", testContext())
	assert.Equal(t, "Unknown Customer", c.Name)
}
