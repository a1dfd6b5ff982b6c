package validate

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// FieldError is one failed rule with its dotted-path identifier, e.g.
// "employees[0].LastName".
type FieldError struct {
	Path    string               `json:"path"`
	Kind    constants.EntityKind `json:"kind"`
	Index   int                  `json:"index"`
	Field   string               `json:"field"`
	Message string               `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result aggregates validation over a whole bundle. FieldResults records
// pass/fail per evaluated path for introspection.
type Result struct {
	IsValid      bool
	Errors       []FieldError
	Warnings     []string
	FieldResults map[string]bool
}

// Engine applies the fixed per-kind rule tables to every record of every
// populated kind.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Bundle validates all normalized records, kind by kind in phase order so
// error ordering is deterministic.
func (e *Engine) Bundle(records map[constants.EntityKind][]entity.Record) Result {
	result := Result{
		IsValid:      true,
		FieldResults: make(map[string]bool),
	}
	for _, kind := range constants.PhaseOrder {
		recs := records[kind]
		if len(recs) == 0 {
			continue
		}
		rules := Rules(kind)
		for i, rec := range recs {
			for _, rule := range rules {
				path := fmt.Sprintf("%s[%d].%s", kind, i, rule.Field)
				msg := rule.Check(rec.Get(rule.Field))
				if msg == "" {
					result.FieldResults[path] = true
					continue
				}
				result.FieldResults[path] = false
				result.IsValid = false
				result.Errors = append(result.Errors, FieldError{
					Path:    path,
					Kind:    kind,
					Index:   i,
					Field:   rule.Field,
					Message: msg,
				})
			}
		}
	}

	if !result.IsValid {
		e.logger.Warn("validate.bundle.failed", "errors", len(result.Errors))
	} else {
		e.logger.Debug("validate.bundle.ok", "fields", len(result.FieldResults))
	}
	return result
}

// RecordErrors filters a result's errors down to one record, used when a run
// tolerates partial data and fails records individually.
func (r Result) RecordErrors(kind constants.EntityKind, index int) []FieldError {
	var out []FieldError
	for _, fe := range r.Errors {
		if fe.Kind == kind && fe.Index == index {
			out = append(out, fe)
		}
	}
	return out
}
