package parser

import (
	"log/slog"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// Parser decodes DSM export files into an ExportBundle. One decoder per
// container format; all decoders converge on entity.Record maps.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse detects the container format from the file name and decodes data into
// a bundle grouped by entity kind. File-level syntax errors abort; malformed
// individual rows degrade to best-effort records.
func (p *Parser) Parse(filename string, data []byte) (*entity.ExportBundle, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	bundle := &entity.ExportBundle{
		Format:  format,
		Records: make(map[constants.EntityKind][]entity.Record),
	}

	switch format {
	case constants.FormatCSV:
		err = p.parseCSV(data, bundle)
	case constants.FormatXLSX:
		err = p.parseXLSX(data, bundle)
	case constants.FormatJSON:
		err = p.parseJSON(data, bundle)
	case constants.FormatXML:
		err = p.parseXML(data, bundle)
	}
	if err != nil {
		p.logger.Error("parse.failed", "file", filename, "format", format, "error", err)
		return nil, err
	}

	bundle.CountRecords()
	p.logger.Info("parse.ok",
		"file", filename,
		"format", format,
		"tables", len(bundle.Tables),
		"records", bundle.RecordCount,
	)
	return bundle, nil
}

// rowsToRecords zips canonical headers with row values, padding short rows
// with empty strings so one ragged row never aborts the file.
func rowsToRecords(headers []string, rows [][]string) []entity.Record {
	records := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(entity.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func canonicalHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = CanonicalHeader(h)
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
