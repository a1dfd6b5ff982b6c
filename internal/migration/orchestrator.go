package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
	"github.com/joseph-ayodele/dsm-migrator/internal/mapper"
	"github.com/joseph-ayodele/dsm-migrator/internal/normalize"
	"github.com/joseph-ayodele/dsm-migrator/internal/parser"
	"github.com/joseph-ayodele/dsm-migrator/internal/registry"
	"github.com/joseph-ayodele/dsm-migrator/internal/repository"
	"github.com/joseph-ayodele/dsm-migrator/internal/validate"
)

// Orchestrator sequences the migration phases in dependency order and is the
// only writer of MigrationStatus.
type Orchestrator struct {
	store     repository.DataStore
	parser    *parser.Parser
	validator *validate.Engine
	registry  *registry.Registry
	logger    *slog.Logger

	observers []Observer

	mu       sync.Mutex // guards status and key locks during a phase
	keyLocks map[string]*sync.Mutex
}

type Option func(*Orchestrator)

// WithObserver registers a progress observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func New(store repository.DataStore, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		store:     store,
		parser:    parser.NewParser(logger),
		validator: validate.NewEngine(logger),
		registry:  registry.New(),
		logger:    logger,
		keyLocks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the run-scoped id mappings for auditing.
func (o *Orchestrator) Registry() *registry.Registry { return o.registry }

func (o *Orchestrator) publish(snapshot entity.MigrationStatus) {
	for _, obs := range o.observers {
		obs.Notify(snapshot)
	}
}

// notify snapshots under the status mutex; safe while workers are in flight.
func (o *Orchestrator) notify(st *entity.MigrationStatus) {
	o.mu.Lock()
	snapshot := st.Snapshot()
	o.mu.Unlock()
	o.publish(snapshot)
}

// Run executes one migration: parse, normalize, pre-flight validate, then the
// phase loop. Once the run reaches in_progress the caller always gets a
// structured status back, alongside any fatal error.
func (o *Orchestrator) Run(ctx context.Context, filename string, data []byte, opts entity.MigrationOptions) (*entity.MigrationStatus, error) {
	st := entity.NewMigrationStatus(opts)

	bundle, err := o.parser.Parse(filename, data)
	if err != nil {
		st.State = constants.RunFailed
		return st, err
	}

	records := normalize.Bundle(bundle.Records)
	preflight := o.validator.Bundle(records)
	if !preflight.IsValid && !opts.AllowPartial {
		st.State = constants.RunFailed
		for _, fe := range preflight.Errors {
			st.Errors = append(st.Errors, entity.MigrationError{
				RecordID:     fe.Path,
				RecordType:   fe.Kind,
				Category:     constants.ErrCatValidation,
				Message:      fe.Message,
				SuggestedFix: constants.SuggestedFix(constants.ErrCatValidation),
			})
		}
		o.notify(st)
		return st, common.WrapError(common.ErrValidation, fmt.Sprintf("%d field errors", len(preflight.Errors)))
	}

	if opts.CreateBackup {
		// Backups are owned by the persistence layer; the engine only records intent.
		o.logger.Info("migration.backup.requested", "migration_id", st.MigrationID)
	}

	st.State = constants.RunInProgress
	st.StartedAt = time.Now().UTC()
	for _, kind := range constants.PhaseOrder {
		if opts.Wants(kind) {
			st.Table(kind).Total = len(records[kind])
			st.TotalRecords += len(records[kind])
		}
	}
	o.notify(st)
	o.logger.Info("migration.started",
		"migration_id", st.MigrationID,
		"tables", len(bundle.Tables),
		"records", st.TotalRecords,
	)

	mc := mapper.Context{TenantID: opts.TenantID, ActorID: opts.ActorID}

	for _, kind := range constants.PhaseOrder {
		recs := records[kind]
		if !opts.Wants(kind) || len(recs) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return o.finishCancelled(st)
		}
		o.logger.Info("migration.phase.start", "migration_id", st.MigrationID, "kind", kind, "records", len(recs))
		if err := o.runPhase(ctx, st, kind, recs, mc, preflight); err != nil {
			if ctx.Err() != nil {
				return o.finishCancelled(st)
			}
			st.State = constants.RunFailed
			now := time.Now().UTC()
			st.FinishedAt = &now
			o.notify(st)
			return st, err
		}
	}

	now := time.Now().UTC()
	st.FinishedAt = &now
	if st.FailedRecords > 0 {
		st.State = constants.RunCompletedWithErrors
	} else {
		st.State = constants.RunCompleted
	}
	o.notify(st)
	o.logger.Info("migration.finished",
		"migration_id", st.MigrationID,
		"state", st.State,
		"successful", st.SuccessRecords,
		"skipped", st.SkippedRecords,
		"failed", st.FailedRecords,
	)
	return st, nil
}

func (o *Orchestrator) finishCancelled(st *entity.MigrationStatus) (*entity.MigrationStatus, error) {
	st.State = constants.RunCancelled
	now := time.Now().UTC()
	st.FinishedAt = &now
	o.notify(st)
	o.logger.Warn("migration.cancelled", "migration_id", st.MigrationID, "processed", st.Processed)
	return st, common.ErrCancelled
}

// runPhase processes one entity kind. Phases never overlap; within a phase
// records run sequentially unless the run opts into bounded parallelism.
func (o *Orchestrator) runPhase(ctx context.Context, st *entity.MigrationStatus, kind constants.EntityKind, recs []entity.Record, mc mapper.Context, preflight validate.Result) error {
	workers := st.Options.Workers
	if workers <= 1 {
		for i, rec := range recs {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := o.processRecord(ctx, st, kind, i, rec, mc, preflight)
			if exceeded := o.apply(st, kind, out); exceeded {
				return common.WrapError(common.ErrBudgetExceeded, fmt.Sprintf("error budget of %d reached", st.Options.MaxErrors))
			}
		}
		return nil
	}
	return o.runPhaseParallel(ctx, st, kind, recs, mc, preflight, workers)
}

type indexedRecord struct {
	index  int
	record entity.Record
}

// runPhaseParallel fans records out to a bounded worker pool. Status updates
// stay serialized behind the orchestrator mutex, duplicate checks and
// registry writes are serialized per natural key, and the error budget is a
// hard stop visible to all in-flight workers via phase cancellation.
func (o *Orchestrator) runPhaseParallel(ctx context.Context, st *entity.MigrationStatus, kind constants.EntityKind, recs []entity.Record, mc mapper.Context, preflight validate.Result, workers int) error {
	phaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan indexedRecord)
	var wg sync.WaitGroup
	var abortMu sync.Mutex
	var abortErr error

	abort := func(err error) {
		abortMu.Lock()
		if abortErr == nil {
			abortErr = err
		}
		abortMu.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				if phaseCtx.Err() != nil {
					continue // drain without processing
				}
				out := o.processRecord(phaseCtx, st, kind, item.index, item.record, mc, preflight)
				if exceeded := o.apply(st, kind, out); exceeded {
					abort(common.WrapError(common.ErrBudgetExceeded, fmt.Sprintf("error budget of %d reached", st.Options.MaxErrors)))
				}
			}
		}()
	}

	for i, rec := range recs {
		select {
		case ch <- indexedRecord{index: i, record: rec}:
		case <-phaseCtx.Done():
		}
		if phaseCtx.Err() != nil {
			break
		}
	}
	close(ch)
	wg.Wait()

	abortMu.Lock()
	defer abortMu.Unlock()
	if abortErr != nil {
		return abortErr
	}
	return ctx.Err()
}

// lockNaturalKey serializes duplicate checks and inserts for one natural key.
func (o *Orchestrator) lockNaturalKey(table, sourceID string) func() {
	key := table + "\x00" + sourceID
	o.mu.Lock()
	lk, ok := o.keyLocks[key]
	if !ok {
		lk = &sync.Mutex{}
		o.keyLocks[key] = lk
	}
	o.mu.Unlock()
	lk.Lock()
	return lk.Unlock
}

// apply folds one record outcome into the status under the orchestrator
// mutex and reports whether the error budget is now exhausted. Every
// processed record increments exactly one of successful/skipped/failed.
func (o *Orchestrator) apply(st *entity.MigrationStatus, kind constants.EntityKind, out recordOutcome) bool {
	o.mu.Lock()
	tc := st.Table(kind)
	tc.Processed++
	st.Processed++
	switch out.status {
	case outcomeSuccess:
		tc.Successful++
		st.SuccessRecords++
	case outcomeSkipped:
		tc.Skipped++
		st.SkippedRecords++
	case outcomeFailed:
		tc.Failed++
		st.FailedRecords++
		st.Errors = append(st.Errors, entity.MigrationError{
			RecordID:     out.recordID,
			RecordType:   kind,
			Category:     out.errCategory,
			Message:      out.errMessage,
			SuggestedFix: constants.SuggestedFix(out.errCategory),
		})
	}
	st.Warnings = append(st.Warnings, out.warnings...)
	exceeded := st.Options.MaxErrors > 0 && len(st.Errors) >= st.Options.MaxErrors
	o.mu.Unlock()

	o.notify(st)
	return exceeded
}
