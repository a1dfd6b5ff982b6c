package normalize

import (
	"strings"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// coercion tags how a canonical field's value is cleaned during normalization.
type coercion int

const (
	asText coercion = iota
	asNumber
	asDate
	asPhone
)

// FieldSpec maps many possible source column spellings onto one canonical
// field. Aliases are lowercased canonical headers, in priority order: the
// first alias carrying a non-empty value wins.
type FieldSpec struct {
	Name    string
	Coerce  coercion
	Aliases []string
}

var customFieldSpecs = []FieldSpec{
	{Name: "CustomField1", Aliases: []string{"customfield1", "custom1", "udf1"}},
	{Name: "CustomField2", Aliases: []string{"customfield2", "custom2", "udf2"}},
	{Name: "CustomField3", Aliases: []string{"customfield3", "custom3", "udf3"}},
	{Name: "CustomField4", Aliases: []string{"customfield4", "custom4", "udf4"}},
	{Name: "CustomField5", Aliases: []string{"customfield5", "custom5", "udf5"}},
}

func withCustomFields(specs []FieldSpec) []FieldSpec {
	return append(specs, customFieldSpecs...)
}

// fieldSpecs is the fixed per-kind schema the normalizer canonicalizes into.
var fieldSpecs = map[constants.EntityKind][]FieldSpec{
	constants.KindCustomers: withCustomFields([]FieldSpec{
		{Name: "CustomerID", Aliases: []string{"customerid", "custid", "customernumber", "id"}},
		{Name: "CustomerName", Aliases: []string{"customername", "companyname", "company", "name"}},
		{Name: "ContactName", Aliases: []string{"contactname", "contact", "primarycontact"}},
		{Name: "Email", Aliases: []string{"email", "emailaddress", "contactemail"}},
		{Name: "Phone", Coerce: asPhone, Aliases: []string{"phone", "phonenumber", "telephone", "contactphone"}},
		{Name: "Address", Aliases: []string{"address", "address1", "streetaddress", "street"}},
		{Name: "City", Aliases: []string{"city", "town"}},
		{Name: "State", Aliases: []string{"state", "province", "region"}},
		{Name: "Zip", Aliases: []string{"zip", "zipcode", "postalcode", "postcode"}},
		{Name: "Notes", Aliases: []string{"notes", "comments", "remarks"}},
	}),
	constants.KindEmployees: withCustomFields([]FieldSpec{
		{Name: "EmployeeID", Aliases: []string{"employeeid", "empid", "employeenumber", "id"}},
		{Name: "FirstName", Aliases: []string{"firstname", "first", "givenname"}},
		{Name: "LastName", Aliases: []string{"lastname", "last", "surname", "familyname"}},
		{Name: "Email", Aliases: []string{"email", "emailaddress", "workemail"}},
		{Name: "Phone", Coerce: asPhone, Aliases: []string{"phone", "phonenumber", "mobile", "cell"}},
		{Name: "PayType", Aliases: []string{"paytype", "payclass", "payclassification"}},
		{Name: "PayRate", Coerce: asNumber, Aliases: []string{"payrate", "rate", "hourlyrate", "wage", "salary"}},
		{Name: "EmploymentStatus", Aliases: []string{"employmentstatus", "status", "empstatus"}},
		{Name: "HireDate", Coerce: asDate, Aliases: []string{"hiredate", "datehired", "startdate"}},
	}),
	constants.KindWorkTypes: withCustomFields([]FieldSpec{
		{Name: "WorkTypeID", Aliases: []string{"worktypeid", "typeid", "id"}},
		{Name: "WorkTypeName", Aliases: []string{"worktypename", "typename", "worktype", "name"}},
		{Name: "Description", Aliases: []string{"description", "desc", "details"}},
		{Name: "Category", Aliases: []string{"category", "group", "classification"}},
	}),
	constants.KindMaterials: withCustomFields([]FieldSpec{
		{Name: "MaterialID", Aliases: []string{"materialid", "assetid", "itemid", "id"}},
		{Name: "MaterialName", Aliases: []string{"materialname", "assetname", "itemname", "name"}},
		{Name: "SKU", Aliases: []string{"sku", "partnumber", "itemcode"}},
		{Name: "Unit", Aliases: []string{"unit", "uom", "unitofmeasure"}},
		{Name: "UnitCost", Coerce: asNumber, Aliases: []string{"unitcost", "cost", "unitprice", "price"}},
		{Name: "Quantity", Coerce: asNumber, Aliases: []string{"quantity", "qty", "onhand", "stock"}},
		{Name: "ReorderLevel", Coerce: asNumber, Aliases: []string{"reorderlevel", "reorderpoint", "minstock"}},
	}),
	constants.KindJobs: withCustomFields([]FieldSpec{
		{Name: "JobID", Aliases: []string{"jobid", "id", "jobkey"}},
		{Name: "JobNumber", Aliases: []string{"jobnumber", "jobno", "number", "workordernumber"}},
		{Name: "JobName", Aliases: []string{"jobname", "name", "title", "jobtitle"}},
		{Name: "CustomerID", Aliases: []string{"customerid", "custid"}},
		{Name: "CustomerName", Aliases: []string{"customername", "customer", "client"}},
		{Name: "AssigneeID", Aliases: []string{"assigneeid", "assignedto", "employeeid", "technicianid"}},
		{Name: "Status", Aliases: []string{"jobstatus", "status", "state"}},
		{Name: "Priority", Aliases: []string{"priority", "urgency"}},
		{Name: "Description", Aliases: []string{"description", "desc", "scope", "notes"}},
		{Name: "DateCreated", Coerce: asDate, Aliases: []string{"datecreated", "createddate", "created", "createdat"}},
		{Name: "ScheduledDate", Coerce: asDate, Aliases: []string{"scheduleddate", "schedule", "datescheduled", "startdate"}},
		{Name: "CompletedDate", Coerce: asDate, Aliases: []string{"completeddate", "datecompleted", "finishdate"}},
		{Name: "EstimatedHours", Coerce: asNumber, Aliases: []string{"estimatedhours", "esthours", "duration"}},
		{Name: "WorkType", Aliases: []string{"worktype", "worktypename", "jobtype", "servicetype"}},
		{Name: "Address", Aliases: []string{"address", "jobsite", "siteaddress", "location"}},
		{Name: "City", Aliases: []string{"city", "town"}},
		{Name: "State", Aliases: []string{"state", "province"}},
		{Name: "Zip", Aliases: []string{"zip", "zipcode", "postalcode"}},
	}),
	constants.KindTimeEntries: {
		{Name: "TimeEntryID", Aliases: []string{"timeentryid", "entryid", "id"}},
		{Name: "EmployeeID", Aliases: []string{"employeeid", "empid", "employee"}},
		{Name: "JobID", Aliases: []string{"jobid", "job", "jobnumber"}},
		{Name: "Date", Coerce: asDate, Aliases: []string{"date", "workdate", "entrydate"}},
		{Name: "ClockIn", Aliases: []string{"clockin", "timein", "starttime"}},
		{Name: "ClockOut", Aliases: []string{"clockout", "timeout", "endtime"}},
		{Name: "HoursWorked", Coerce: asNumber, Aliases: []string{"hoursworked", "hours", "totalhours", "duration"}},
		{Name: "Notes", Aliases: []string{"notes", "comments", "description"}},
	},
}

// Specs returns the canonical field specs for kind.
func Specs(kind constants.EntityKind) []FieldSpec {
	return fieldSpecs[kind]
}

// Record canonicalizes one parsed record onto the fixed per-kind schema.
// Absent fields default to ""; lookups are case-insensitive over the parser's
// canonical headers.
func Record(kind constants.EntityKind, rec entity.Record) entity.Record {
	lower := make(map[string]string, len(rec))
	for k, v := range rec {
		lower[strings.ToLower(k)] = v
	}

	out := make(entity.Record, len(fieldSpecs[kind]))
	for _, spec := range fieldSpecs[kind] {
		value := ""
		for _, alias := range spec.Aliases {
			if v, ok := lower[alias]; ok && strings.TrimSpace(v) != "" {
				value = strings.TrimSpace(v)
				break
			}
		}
		switch spec.Coerce {
		case asNumber:
			value = CleanNumber(value)
		case asDate:
			value = ParseDate(value)
		case asPhone:
			value = FormatPhone(value)
		}
		out[spec.Name] = value
	}
	return out
}

// Bundle canonicalizes every record of every populated kind in place,
// returning a new bundle map.
func Bundle(records map[constants.EntityKind][]entity.Record) map[constants.EntityKind][]entity.Record {
	out := make(map[constants.EntityKind][]entity.Record, len(records))
	for kind, recs := range records {
		normalized := make([]entity.Record, len(recs))
		for i, rec := range recs {
			normalized[i] = Record(kind, rec)
		}
		out[kind] = normalized
	}
	return out
}
