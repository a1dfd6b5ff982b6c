package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// parseCSV decodes a single-table delimited export. The header row becomes
// canonical field names; the detected kind applies to the whole file.
func (p *Parser) parseCSV(data []byte, bundle *entity.ExportBundle) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rawHeaders, err := reader.Read()
	if err != nil {
		return common.NewAppError("CSV_PARSE", "reading header row", common.ErrParseFailure)
	}
	headers := canonicalHeaders(rawHeaders)

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Single bad rows degrade; structural failures abort the file.
			// Read returns the fields recovered before the error, keep them.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if !rowEmpty(row) {
					rows = append(rows, row)
				}
				p.logger.Warn("parse.csv.malformed_row", "line", parseErr.Line, "error", parseErr.Err)
				continue
			}
			return common.WrapError(common.ErrParseFailure, err.Error())
		}
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}

	kind, err := DetectEntityKind(headers)
	if err != nil {
		return err
	}
	bundle.Records[kind] = append(bundle.Records[kind], rowsToRecords(headers, rows)...)
	p.logger.Debug("parse.csv.table", "kind", kind, "rows", len(rows))
	return nil
}
