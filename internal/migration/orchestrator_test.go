package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
	"github.com/joseph-ayodele/dsm-migrator/internal/repository"
)

var testTenant = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func testOptions() entity.MigrationOptions {
	return entity.MigrationOptions{
		TenantID:       testTenant,
		SkipDuplicates: true,
	}
}

// fullExport is a well-formed envelope covering every phase dependency:
// the job references a customer and an employee, the time entry references
// the employee and the job.
const fullExport = `{
	"metadata": {"exported_at": "2024-03-01T10:00:00Z"},
	"data": {
		"customers": [
			{"customer_id": "C-1", "customer_name": "Acme Concrete", "phone": "555-123-4567"}
		],
		"employees": [
			{"employee_id": "E-1", "first_name": "Dana", "last_name": "Reyes", "pay_rate": "$32.50"}
		],
		"workTypes": [
			{"work_type_id": "W-1", "work_type_name": "Wall Sawing"}
		],
		"materials": [
			{"material_id": "M-1", "material_name": "Diamond Blade 14in", "quantity": "50"}
		],
		"jobs": [
			{"job_id": "J-1", "job_name": "Basement openings", "customer_id": "C-1", "assignee_id": "E-1", "job_status": "Open", "work_type": "Wall Sawing"}
		],
		"timeEntries": [
			{"time_entry_id": "T-1", "employee_id": "E-1", "job_id": "J-1", "hours_worked": "8"}
		]
	}
}`

func TestRunHappyPath(t *testing.T) {
	store := repository.NewMemStore()
	orch := New(store, nil)

	st, err := orch.Run(context.Background(), "export.json", []byte(fullExport), testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 6, st.TotalRecords)
	assert.Equal(t, 6, st.SuccessRecords)
	assert.Zero(t, st.FailedRecords)
	assert.Zero(t, st.SkippedRecords)
	require.NotNil(t, st.FinishedAt)

	for _, table := range []string{"customers", "employees", "work_types", "materials", "jobs", "time_entries"} {
		assert.Equal(t, 1, store.Count(table), table)
	}

	// job carries the resolved customer and assignee ids
	custRow, found, err := store.FindOne(context.Background(), "customers", map[string]any{"source_id": "C-1"})
	require.NoError(t, err)
	require.True(t, found)
	jobRow, found, err := store.FindOne(context.Background(), "jobs", map[string]any{"source_id": "J-1"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, custRow["id"], jobRow["customer_id"])
	assert.NotEmpty(t, jobRow["assignee_id"])
	assert.Equal(t, "pending", jobRow["status"])

	// registry kept an audit trail for every migrated record
	assert.Len(t, orch.Registry().Mappings(st.MigrationID), 6)
}

func TestRunPreflightFailureAborts(t *testing.T) {
	data := []byte(`{"data": {"employees": [
		{"employee_id": "E-1", "first_name": "Dana", "last_name": ""}
	]}}`)

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, testOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, constants.RunFailed, st.State)
	require.NotEmpty(t, st.Errors)
	assert.Equal(t, constants.ErrCatValidation, st.Errors[0].Category)
	assert.Equal(t, "employees[0].LastName", st.Errors[0].RecordID)
	assert.Equal(t, 0, store.Count("employees"))
}

func TestRunAllowPartialFailsRecordsIndividually(t *testing.T) {
	data := []byte(`{"data": {"employees": [
		{"employee_id": "E-1", "first_name": "Dana", "last_name": ""},
		{"employee_id": "E-2", "first_name": "Sam", "last_name": "Okafor"}
	]}}`)

	opts := testOptions()
	opts.AllowPartial = true

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, opts)
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompletedWithErrors, st.State)
	assert.Equal(t, 1, st.SuccessRecords)
	assert.Equal(t, 1, st.FailedRecords)
	assert.Equal(t, 1, store.Count("employees"))
	require.Len(t, st.Errors, 1)
	assert.Equal(t, "E-1", st.Errors[0].RecordID)
	assert.NotEmpty(t, st.Errors[0].SuggestedFix)
}

func TestRunSkipDuplicatesOnRerun(t *testing.T) {
	store := repository.NewMemStore()

	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), testOptions())
	require.NoError(t, err)
	require.Equal(t, 6, st.SuccessRecords)

	// second run against the same store: every record already exists
	st, err = New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 6, st.SkippedRecords)
	assert.Zero(t, st.SuccessRecords)
	assert.Equal(t, 1, store.Count("customers"))
	assert.Equal(t, 1, store.Count("jobs"))
}

func TestRunCreatesPlaceholderCustomer(t *testing.T) {
	data := []byte(`{"data": {"jobs": [
		{"job_id": "J-1", "job_name": "Curb cut", "customer_name": "Ghost Builders"}
	]}}`)

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 1, st.SuccessRecords)
	assert.Equal(t, 1, store.Count("customers"))

	row, found, ferr := store.FindOne(context.Background(), "customers", map[string]any{"source_id": "Ghost Builders"})
	require.NoError(t, ferr)
	require.True(t, found)
	assert.Equal(t, true, row["placeholder"])

	require.Len(t, st.Warnings, 1)
	assert.Equal(t, constants.WarnManualReview, st.Warnings[0].Category)
	assert.Equal(t, "J-1", st.Warnings[0].RecordID)
}

func TestRunUnresolvedAssigneeWarns(t *testing.T) {
	data := []byte(`{"data": {
		"customers": [{"customer_id": "C-1", "customer_name": "Acme Concrete"}],
		"jobs": [{"job_id": "J-1", "job_name": "Curb cut", "customer_id": "C-1", "assignee_id": "E-404"}]
	}}`)

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 2, st.SuccessRecords)
	require.Len(t, st.Warnings, 1)
	assert.Equal(t, constants.WarnDataLoss, st.Warnings[0].Category)

	jobRow, found, ferr := store.FindOne(context.Background(), "jobs", map[string]any{"source_id": "J-1"})
	require.NoError(t, ferr)
	require.True(t, found)
	_, hasAssignee := jobRow["assignee_id"]
	assert.False(t, hasAssignee)
}

func TestRunSkipsUnresolvedTimeEntries(t *testing.T) {
	data := []byte(`{"data": {
		"employees": [{"employee_id": "E-1", "first_name": "Dana", "last_name": "Reyes"}],
		"timeEntries": [
			{"time_entry_id": "T-1", "employee_id": "E-1", "job_id": "J-404", "hours_worked": "8"}
		]
	}}`)

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 1, st.SuccessRecords)
	assert.Equal(t, 1, st.SkippedRecords)
	assert.Zero(t, store.Count("time_entries"))
	require.Len(t, st.Warnings, 1)
	assert.Equal(t, constants.WarnDataLoss, st.Warnings[0].Category)
	assert.Equal(t, "T-1", st.Warnings[0].RecordID)
}

func TestRunErrorBudgetAborts(t *testing.T) {
	data := []byte(`{"data": {"employees": [
		{"employee_id": "E-1", "first_name": "A", "last_name": ""},
		{"employee_id": "E-2", "first_name": "B", "last_name": ""},
		{"employee_id": "E-3", "first_name": "C", "last_name": ""},
		{"employee_id": "E-4", "first_name": "D", "last_name": "Okafor"}
	]}}`)

	opts := testOptions()
	opts.AllowPartial = true
	opts.MaxErrors = 2

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", data, opts)

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBudgetExceeded))
	assert.Equal(t, constants.RunFailed, st.State)
	assert.Equal(t, 2, st.FailedRecords)
	require.NotNil(t, st.FinishedAt)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(ctx, "export.json", []byte(fullExport), testOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCancelled))
	assert.Equal(t, constants.RunCancelled, st.State)
	assert.Zero(t, store.Count("customers"))
}

func TestRunEntityKindFilter(t *testing.T) {
	opts := testOptions()
	opts.EntityKinds = []constants.EntityKind{constants.KindCustomers, constants.KindEmployees}

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, st.SuccessRecords)
	assert.Equal(t, 1, store.Count("customers"))
	assert.Zero(t, store.Count("jobs"))
	assert.Zero(t, store.Count("time_entries"))
}

func TestRunParallelWorkersSameTotals(t *testing.T) {
	opts := testOptions()
	opts.Workers = 4

	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), opts)
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompleted, st.State)
	assert.Equal(t, 6, st.SuccessRecords)
	assert.Equal(t, 1, store.Count("jobs"))
}

func TestObserverSeesLifecycle(t *testing.T) {
	obs := NewChannelObserver(256)

	store := repository.NewMemStore()
	orch := New(store, nil, WithObserver(obs))
	st, err := orch.Run(context.Background(), "export.json", []byte(fullExport), testOptions())
	require.NoError(t, err)
	obs.Close()

	var states []constants.RunState
	var last entity.MigrationStatus
	for snap := range obs.C() {
		states = append(states, snap.State)
		last = snap
	}
	require.NotEmpty(t, states)
	assert.Equal(t, constants.RunInProgress, states[0])
	assert.Equal(t, constants.RunCompleted, last.State)
	assert.Equal(t, st.SuccessRecords, last.SuccessRecords)

	// snapshots are value copies, mutating one does not touch the run status
	last.Tables[constants.KindJobs].Successful = 99
	assert.Equal(t, 1, st.Tables[constants.KindJobs].Successful)
}

// failingStore wraps MemStore and errors every Insert after the first
// failAfter rows have been persisted.
type failingStore struct {
	*repository.MemStore
	failAfter int
	inserts   int
}

func (s *failingStore) Insert(ctx context.Context, table string, row map[string]any) (uuid.UUID, error) {
	s.inserts++
	if s.inserts > s.failAfter {
		return uuid.Nil, common.WrapError(common.ErrDatabase, "connection reset by peer")
	}
	return s.MemStore.Insert(ctx, table, row)
}

const fiveEmployeesExport = `{"data": {"employees": [
	{"employee_id": "E-1", "first_name": "Dana", "last_name": "Reyes"},
	{"employee_id": "E-2", "first_name": "Sam", "last_name": "Okafor"},
	{"employee_id": "E-3", "first_name": "Lee", "last_name": "Chen"},
	{"employee_id": "E-4", "first_name": "Ana", "last_name": "Silva"},
	{"employee_id": "E-5", "first_name": "Kim", "last_name": "Park"}
]}}`

func TestRunContinuesPastDatabaseErrors(t *testing.T) {
	store := &failingStore{MemStore: repository.NewMemStore(), failAfter: 2}

	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fiveEmployeesExport), testOptions())
	require.NoError(t, err)

	assert.Equal(t, constants.RunCompletedWithErrors, st.State)
	assert.Equal(t, 5, st.Processed)
	assert.Equal(t, 2, st.SuccessRecords)
	assert.Equal(t, 3, st.FailedRecords)
	assert.Equal(t, 2, store.Count("employees"))

	require.Len(t, st.Errors, 3)
	for _, e := range st.Errors {
		assert.Equal(t, constants.ErrCatDatabase, e.Category)
		assert.Equal(t, constants.KindEmployees, e.RecordType)
		assert.Equal(t, constants.SuggestedFix(constants.ErrCatDatabase), e.SuggestedFix)
	}
	assert.Equal(t, "E-3", st.Errors[0].RecordID)
}

func TestRunErrorBudgetOnPersistenceFailures(t *testing.T) {
	store := &failingStore{MemStore: repository.NewMemStore(), failAfter: 0}

	opts := testOptions()
	opts.MaxErrors = 5

	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), opts)

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBudgetExceeded))
	assert.Equal(t, constants.RunFailed, st.State)
	assert.Equal(t, 5, st.FailedRecords)
	assert.Equal(t, constants.ErrCatDatabase, st.Errors[0].Category)
	require.NotNil(t, st.FinishedAt)
}

func TestReportRendering(t *testing.T) {
	store := repository.NewMemStore()
	st, err := New(store, nil).Run(context.Background(), "export.json", []byte(fullExport), testOptions())
	require.NoError(t, err)

	text := Report(st.Snapshot())
	assert.Contains(t, text, "State:    completed")
	assert.Contains(t, text, "6 total")
	assert.Contains(t, text, "customers")
	assert.Contains(t, text, "timeEntries")
	assert.NotContains(t, text, "Errors (")
}
