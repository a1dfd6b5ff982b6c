package parser

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// parseXLSX decodes every sheet of a workbook independently; a single export
// file may carry several DSM tables. Empty and header-only sheets are skipped,
// and a sheet whose shape matches no known table is skipped with a warning
// rather than failing the whole file.
func (p *Parser) parseXLSX(data []byte, bundle *entity.ExportBundle) error {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return common.NewAppError("XLSX_PARSE", "opening workbook", common.ErrParseFailure)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			p.logger.Warn("parse.xlsx.close", "error", cerr)
		}
	}()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.Rows(sheet)
		if err != nil {
			return common.WrapError(common.ErrParseFailure, "reading sheet "+sheet)
		}

		var headers []string
		var body [][]string
		rowIndex := 0
		for rows.Next() {
			row, err := rows.Columns()
			if err != nil {
				// One unreadable row degrades to empty fields.
				row = nil
			}
			if rowIndex == 0 {
				headers = canonicalHeaders(row)
			} else if !rowEmpty(row) {
				body = append(body, row)
			}
			rowIndex++
		}
		if cerr := rows.Close(); cerr != nil {
			p.logger.Warn("parse.xlsx.rows_close", "sheet", sheet, "error", cerr)
		}

		if len(headers) == 0 || len(body) == 0 {
			p.logger.Debug("parse.xlsx.skip_sheet", "sheet", sheet, "rows", len(body))
			continue
		}

		kind, err := DetectEntityKind(headers)
		if err != nil {
			p.logger.Warn("parse.xlsx.unknown_sheet", "sheet", sheet, "error", err)
			continue
		}
		bundle.Records[kind] = append(bundle.Records[kind], rowsToRecords(headers, body)...)
		p.logger.Debug("parse.xlsx.table", "sheet", sheet, "kind", kind, "rows", len(body))
	}
	return nil
}
