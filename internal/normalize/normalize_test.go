package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
		{"1/5/2024", "2024-01-05"},
		{"2024-01-15T08:30:00Z", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
		{"  2024-01-15  ", "2024-01-15"},
		{"not a date", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDate(tt.in), "input %q", tt.in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"$1,250.50", 1250.50},
		{"£99.99", 99.99},
		{"15 %", 15},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in), "input %q", tt.in)
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"555-123-4567", "(555) 123-4567"},
		{"5551234567", "(555) 123-4567"},
		{"1-555-123-4567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"}, // non-NANP passes through
		{"x1234", "x1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhone(tt.in), "input %q", tt.in)
	}
}

func TestRecordAliasResolution(t *testing.T) {
	rec := entity.Record{
		"CustId":      "C-9",
		"CompanyName": "Acme Concrete",
		"PhoneNumber": "555-123-4567",
		"PostalCode":  "80202",
		"Custom1":     "route-7",
	}

	got := Record(constants.KindCustomers, rec)
	assert.Equal(t, "C-9", got.Get("CustomerID"))
	assert.Equal(t, "Acme Concrete", got.Get("CustomerName"))
	assert.Equal(t, "(555) 123-4567", got.Get("Phone"))
	assert.Equal(t, "80202", got.Get("Zip"))
	assert.Equal(t, "route-7", got.Get("CustomField1"))
	assert.Equal(t, "", got.Get("Email"))
}

func TestRecordFirstNonEmptyAliasWins(t *testing.T) {
	rec := entity.Record{
		"Jobid":  "",
		"Jobkey": "J-77",
	}
	got := Record(constants.KindJobs, rec)
	assert.Equal(t, "J-77", got.Get("JobID"))
}

func TestRecordCoercions(t *testing.T) {
	rec := entity.Record{
		"EmployeeID": "E-1",
		"PayRate":    "$32.50",
		"HireDate":   "03/15/2022",
	}
	got := Record(constants.KindEmployees, rec)
	assert.Equal(t, "32.50", got.Get("PayRate"))
	assert.Equal(t, "2022-03-15", got.Get("HireDate"))
}

func TestBundle(t *testing.T) {
	in := map[constants.EntityKind][]entity.Record{
		constants.KindCustomers: {
			{"CustomerID": "C-1", "Telephone": "5551234567"},
		},
	}
	out := Bundle(in)
	require.Len(t, out[constants.KindCustomers], 1)
	assert.Equal(t, "(555) 123-4567", out[constants.KindCustomers][0].Get("Phone"))
	// input untouched
	assert.Equal(t, "5551234567", in[constants.KindCustomers][0]["Telephone"])
}
