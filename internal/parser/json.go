package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// Structured-text exports arrive in three shapes: a wrapped envelope with a
// metadata block and named arrays per kind, a bare homogeneous array, or an
// object whose top-level keys are entity-kind names.

// buildEnvelopeJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// wrapped envelope must satisfy. Used locally to reject malformed envelopes
// before any records are decoded.
func buildEnvelopeJSONSchema() map[string]any {
	tableProps := map[string]any{}
	for _, kind := range constants.PhaseOrder {
		tableProps[string(kind)] = map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		}
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"data"},
		"properties": map[string]any{
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"exported_at": map[string]any{"type": "string"},
					"tables":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
			"data": map[string]any{
				"type":       "object",
				"properties": tableProps,
			},
		},
	}
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

type jsonEnvelope struct {
	Metadata struct {
		ExportedAt string   `json:"exported_at"`
		Tables     []string `json:"tables"`
	} `json:"metadata"`
	Data map[string]json.RawMessage `json:"data"`
}

func (p *Parser) parseJSON(data []byte, bundle *entity.ExportBundle) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return common.NewAppError("JSON_PARSE", "empty document", common.ErrParseFailure)
	}

	// Bare homogeneous array: kind inferred once from the first record.
	if trimmed[0] == '[' {
		return p.parseJSONArray(trimmed, bundle)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return common.NewAppError("JSON_PARSE", "decoding document", common.ErrParseFailure)
	}

	if _, ok := top["data"]; ok {
		if err := validateJSONAgainstSchema(buildEnvelopeJSONSchema(), trimmed); err != nil {
			return common.NewAppError("JSON_PARSE", err.Error(), common.ErrParseFailure)
		}
		var env jsonEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return common.NewAppError("JSON_PARSE", "decoding envelope", common.ErrParseFailure)
		}
		if env.Metadata.ExportedAt != "" {
			if ts, err := time.Parse(time.RFC3339, env.Metadata.ExportedAt); err == nil {
				bundle.ExportedAt = ts
			}
		}
		// Unknown table names are skipped with a warning, same as the
		// kind-keyed shape below.
		matched := false
		for name, raw := range env.Data {
			if !constants.IsKind(name) {
				p.logger.Warn("parse.json.unknown_table", "table", name)
				continue
			}
			matched = true
			if err := p.decodeJSONTable(constants.EntityKind(name), raw, bundle); err != nil {
				return err
			}
		}
		if !matched {
			return common.NewAppError("JSON_PARSE", "no known DSM tables in document", common.ErrUnknownDataType)
		}
		return nil
	}

	// Kind-keyed object: top-level keys name the tables directly.
	matched := false
	for name, raw := range top {
		if !constants.IsKind(name) {
			p.logger.Warn("parse.json.unknown_table", "table", name)
			continue
		}
		matched = true
		if err := p.decodeJSONTable(constants.EntityKind(name), raw, bundle); err != nil {
			return err
		}
	}
	if !matched {
		return common.NewAppError("JSON_PARSE", "no known DSM tables in document", common.ErrUnknownDataType)
	}
	return nil
}

func (p *Parser) parseJSONArray(data []byte, bundle *entity.ExportBundle) error {
	records, err := decodeJSONRecords(data)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	kind, err := DetectEntityKind(records[0].Fields())
	if err != nil {
		return err
	}
	bundle.Records[kind] = append(bundle.Records[kind], records...)
	p.logger.Debug("parse.json.table", "kind", kind, "rows", len(records))
	return nil
}

func (p *Parser) decodeJSONTable(kind constants.EntityKind, raw json.RawMessage, bundle *entity.ExportBundle) error {
	records, err := decodeJSONRecords(raw)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	bundle.Records[kind] = append(bundle.Records[kind], records...)
	p.logger.Debug("parse.json.table", "kind", kind, "rows", len(records))
	return nil
}

// decodeJSONRecords flattens an array of objects to records, stringifying
// scalars. Nested values are dropped rather than failing the row.
func decodeJSONRecords(raw []byte) ([]entity.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, common.NewAppError("JSON_PARSE", "decoding record array", common.ErrParseFailure)
	}

	records := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(entity.Record, len(row))
		for k, v := range row {
			key := CanonicalHeader(k)
			if key == "" {
				continue
			}
			switch t := v.(type) {
			case string:
				rec[key] = t
			case json.Number:
				rec[key] = t.String()
			case bool:
				if t {
					rec[key] = "true"
				} else {
					rec[key] = "false"
				}
			case nil:
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
