package migration

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
	"github.com/joseph-ayodele/dsm-migrator/internal/mapper"
	"github.com/joseph-ayodele/dsm-migrator/internal/validate"
)

type outcomeStatus int

const (
	outcomeSuccess outcomeStatus = iota
	outcomeSkipped
	outcomeFailed
)

// recordOutcome is the Result-style per-record signal consumed by the phase
// loop. Fatal aborts (error budget, cancellation) travel separately as
// returned errors.
type recordOutcome struct {
	recordID    string
	status      outcomeStatus
	errCategory constants.ErrorCategory
	errMessage  string
	warnings    []entity.MigrationWarning
}

func failed(recordID string, cat constants.ErrorCategory, msg string) recordOutcome {
	return recordOutcome{recordID: recordID, status: outcomeFailed, errCategory: cat, errMessage: msg}
}

func skipped(recordID string, warns ...entity.MigrationWarning) recordOutcome {
	return recordOutcome{recordID: recordID, status: outcomeSkipped, warnings: warns}
}

// naturalIDField names the canonical identifier field per kind, used for
// error reporting and duplicate checks.
var naturalIDField = map[constants.EntityKind]string{
	constants.KindCustomers:   "CustomerID",
	constants.KindEmployees:   "EmployeeID",
	constants.KindWorkTypes:   "WorkTypeID",
	constants.KindMaterials:   "MaterialID",
	constants.KindJobs:        "JobID",
	constants.KindTimeEntries: "TimeEntryID",
}

// processRecord runs one record through duplicate check, mapping, foreign-id
// resolution and persistence. All failures are caught and classified; the
// phase continues regardless of the outcome.
func (o *Orchestrator) processRecord(ctx context.Context, st *entity.MigrationStatus, kind constants.EntityKind, index int, rec entity.Record, mc mapper.Context, preflight validate.Result) recordOutcome {
	sourceID := rec.Get(naturalIDField[kind])
	table := constants.TargetTables[kind]

	// Invalid records fail individually when the run tolerates partial data.
	if st.Options.AllowPartial {
		if errs := preflight.RecordErrors(kind, index); len(errs) > 0 {
			return failed(sourceID, constants.ErrCatValidation, errs[0].Error())
		}
	}

	unlock := o.lockNaturalKey(table, sourceID)
	defer unlock()

	if st.Options.SkipDuplicates {
		_, found, err := o.store.FindOne(ctx, table, map[string]any{
			"tenant_id": st.Options.TenantID.String(),
			"source_id": sourceID,
		})
		if err != nil {
			return failed(sourceID, constants.ErrCatDatabase, fmt.Sprintf("duplicate check: %v", err))
		}
		if found {
			o.logger.Debug("migration.record.duplicate", "kind", kind, "source_id", sourceID)
			return skipped(sourceID)
		}
	}

	switch kind {
	case constants.KindCustomers:
		return o.persistAndRemember(ctx, st, kind, sourceID, mapper.Customer(rec, mc).Row(), nil)
	case constants.KindEmployees:
		return o.persistAndRemember(ctx, st, kind, sourceID, mapper.Employee(rec, mc).Row(), nil)
	case constants.KindWorkTypes:
		return o.persistAndRemember(ctx, st, kind, sourceID, mapper.WorkType(rec, mc).Row(), nil)
	case constants.KindMaterials:
		return o.persistAndRemember(ctx, st, kind, sourceID, mapper.Material(rec, mc).Row(), nil)
	case constants.KindJobs:
		return o.processJob(ctx, st, sourceID, rec, mc)
	case constants.KindTimeEntries:
		return o.processTimeEntry(ctx, st, sourceID, rec, mc)
	}
	return failed(sourceID, constants.ErrCatUnknown, fmt.Sprintf("no phase handler for kind %q", kind))
}

// persistAndRemember inserts the mapped row and records the id mapping.
func (o *Orchestrator) persistAndRemember(ctx context.Context, st *entity.MigrationStatus, kind constants.EntityKind, sourceID string, row map[string]any, warns []entity.MigrationWarning) recordOutcome {
	table := constants.TargetTables[kind]
	targetID, err := o.store.Insert(ctx, table, row)
	if err != nil {
		return failed(sourceID, constants.ErrCatDatabase, fmt.Sprintf("inserting into %s: %v", table, err))
	}
	if sourceID != "" {
		if err := o.registry.Remember(st.MigrationID, kind, sourceID, targetID); err != nil {
			return failed(sourceID, constants.ErrCatMapping, err.Error())
		}
	}
	return recordOutcome{recordID: sourceID, status: outcomeSuccess, warnings: warns}
}

// processJob maps a job and resolves its foreign references. An unresolved
// customer yields a synthesized placeholder; an unresolved assignee degrades
// to an unassigned job with a warning.
func (o *Orchestrator) processJob(ctx context.Context, st *entity.MigrationStatus, sourceID string, rec entity.Record, mc mapper.Context) recordOutcome {
	job := mapper.Job(rec, mc)
	var warns []entity.MigrationWarning

	if ref := job.SourceCustomerID; ref != "" {
		customerID, warn, err := o.resolveOrPlaceholderCustomer(ctx, st, ref, mc)
		if err != nil {
			return failed(sourceID, constants.ErrCatDatabase, fmt.Sprintf("resolving customer %q: %v", ref, err))
		}
		job.CustomerID = customerID
		if warn != nil {
			warn.RecordID = sourceID
			warn.RecordType = constants.KindJobs
			warns = append(warns, *warn)
		}
	}

	if ref := job.SourceAssigneeID; ref != "" {
		if employeeID, ok := o.registry.Resolve(st.MigrationID, constants.KindEmployees, ref); ok {
			job.AssigneeID = employeeID
		} else {
			warns = append(warns, entity.MigrationWarning{
				RecordID:   sourceID,
				RecordType: constants.KindJobs,
				Category:   constants.WarnDataLoss,
				Message:    fmt.Sprintf("assignee %q not found in this migration; job left unassigned", ref),
			})
		}
	}

	return o.persistAndRemember(ctx, st, constants.KindJobs, sourceID, job.Row(), warns)
}

// resolveOrPlaceholderCustomer resolves a customer reference, falling back to
// an existing target row from an earlier run, then to a synthesized
// placeholder that preserves referential integrity.
func (o *Orchestrator) resolveOrPlaceholderCustomer(ctx context.Context, st *entity.MigrationStatus, ref string, mc mapper.Context) (uuid.UUID, *entity.MigrationWarning, error) {
	if id, ok := o.registry.Resolve(st.MigrationID, constants.KindCustomers, ref); ok {
		return id, nil, nil
	}

	unlock := o.lockNaturalKey(constants.TargetTables[constants.KindCustomers], ref)
	defer unlock()

	// Re-check under the key lock; a sibling worker may have just created it.
	if id, ok := o.registry.Resolve(st.MigrationID, constants.KindCustomers, ref); ok {
		return id, nil, nil
	}

	table := constants.TargetTables[constants.KindCustomers]
	row, found, err := o.store.FindOne(ctx, table, map[string]any{
		"tenant_id": st.Options.TenantID.String(),
		"source_id": ref,
	})
	if err != nil {
		return uuid.Nil, nil, err
	}
	if found {
		if idStr, ok := row["id"].(string); ok {
			if id, perr := uuid.Parse(idStr); perr == nil {
				_ = o.registry.Remember(st.MigrationID, constants.KindCustomers, ref, id)
				return id, nil, nil
			}
		}
	}

	placeholder := mapper.PlaceholderCustomer(ref, mc)
	id, err := o.store.Insert(ctx, table, placeholder.Row())
	if err != nil {
		return uuid.Nil, nil, err
	}
	if rerr := o.registry.Remember(st.MigrationID, constants.KindCustomers, ref, id); rerr != nil {
		o.logger.Warn("migration.placeholder.remember", "ref", ref, "error", rerr)
	}
	o.logger.Warn("migration.placeholder.created", "kind", constants.KindCustomers, "ref", ref, "target_id", id)
	return id, &entity.MigrationWarning{
		Category: constants.WarnManualReview,
		Message:  fmt.Sprintf("customer %q was not in the export; placeholder record created", ref),
	}, nil
}

// processTimeEntry resolves employee and job references; an unresolved
// reference skips the record with a data_loss warning rather than failing it.
func (o *Orchestrator) processTimeEntry(ctx context.Context, st *entity.MigrationStatus, sourceID string, rec entity.Record, mc mapper.Context) recordOutcome {
	te := mapper.TimeEntry(rec, mc)

	employeeID, ok := o.registry.Resolve(st.MigrationID, constants.KindEmployees, te.SourceEmployeeID)
	if !ok {
		return skipped(sourceID, entity.MigrationWarning{
			RecordID:   sourceID,
			RecordType: constants.KindTimeEntries,
			Category:   constants.WarnDataLoss,
			Message:    fmt.Sprintf("employee %q not found in this migration; time entry skipped", te.SourceEmployeeID),
		})
	}
	jobID, ok := o.registry.Resolve(st.MigrationID, constants.KindJobs, te.SourceJobID)
	if !ok {
		return skipped(sourceID, entity.MigrationWarning{
			RecordID:   sourceID,
			RecordType: constants.KindTimeEntries,
			Category:   constants.WarnDataLoss,
			Message:    fmt.Sprintf("job %q not found in this migration; time entry skipped", te.SourceJobID),
		})
	}
	te.EmployeeID = employeeID
	te.JobID = jobID

	return o.persistAndRemember(ctx, st, constants.KindTimeEntries, sourceID, te.Row(), nil)
}
