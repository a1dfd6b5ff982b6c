package validate

import (
	"fmt"
	"strconv"

	"github.com/joseph-ayodele/dsm-migrator/constants"
)

// ruleTables holds the fixed per-kind rule tables. Every kind requires its
// natural identifier and human name; the rest are quality checks on the
// normalized values.
var ruleTables = map[constants.EntityKind][]Rule{
	constants.KindCustomers: {
		{Field: "CustomerID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "CustomerName", Required: true, Type: TypeString, MaxLength: 200},
		{Field: "Email", Type: TypeEmail},
		{Field: "Phone", Type: TypePhone},
		{Field: "Zip", Type: TypeString, MaxLength: 10},
	},
	constants.KindEmployees: {
		{Field: "EmployeeID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "FirstName", Required: true, Type: TypeString, MaxLength: 100},
		{Field: "LastName", Required: true, Type: TypeString, MaxLength: 100},
		{Field: "Email", Type: TypeEmail},
		{Field: "Phone", Type: TypePhone},
		{Field: "PayRate", Type: TypeNumber, Custom: nonNegative},
		{Field: "HireDate", Type: TypeDate},
	},
	constants.KindWorkTypes: {
		{Field: "WorkTypeID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "WorkTypeName", Required: true, Type: TypeString, MaxLength: 200},
	},
	constants.KindMaterials: {
		{Field: "MaterialID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "MaterialName", Required: true, Type: TypeString, MaxLength: 200},
		{Field: "UnitCost", Type: TypeNumber, Custom: nonNegative},
		{Field: "Quantity", Type: TypeNumber},
	},
	constants.KindJobs: {
		{Field: "JobID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "JobName", Required: true, Type: TypeString, MaxLength: 200},
		{Field: "DateCreated", Type: TypeDate},
		{Field: "ScheduledDate", Type: TypeDate},
		{Field: "CompletedDate", Type: TypeDate},
		{Field: "EstimatedHours", Type: TypeNumber, Custom: nonNegative},
	},
	constants.KindTimeEntries: {
		{Field: "TimeEntryID", Required: true, Type: TypeString, MaxLength: 64},
		{Field: "EmployeeID", Required: true, Type: TypeString},
		{Field: "JobID", Required: true, Type: TypeString},
		{Field: "Date", Type: TypeDate},
		{Field: "HoursWorked", Type: TypeNumber, Custom: maxDayHours},
	},
}

// Rules returns the fixed rule table for kind.
func Rules(kind constants.EntityKind) []Rule {
	return ruleTables[kind]
}

func nonNegative(value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("must be a number, got %q", value)
	}
	if v < 0 {
		return fmt.Errorf("must not be negative, got %s", value)
	}
	return nil
}

func maxDayHours(value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("must be a number, got %q", value)
	}
	if v < 0 || v > 24 {
		return fmt.Errorf("must be between 0 and 24 hours, got %s", value)
	}
	return nil
}
