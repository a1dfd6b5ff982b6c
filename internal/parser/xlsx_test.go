package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/dsm-migrator/constants"
)

func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestParseXLSXMultiSheet(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Customers": {
			{"Customer_ID", "Customer Name", "Contact Name", "City"},
			{"C-1", "Acme Concrete", "Pat", "Denver"},
			{"C-2", "Beta Builders", "Lee", "Boulder"},
		},
		"Jobs": {
			{"Job_ID", "Job Number", "Job Name", "Customer_ID", "Job Status"},
			{"J-1", "1001", "Garage slab cut", "C-1", "Open"},
		},
	})

	p := NewParser(nil)
	bundle, err := p.Parse("export.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, constants.FormatXLSX, bundle.Format)
	require.Len(t, bundle.Records[constants.KindCustomers], 2)
	require.Len(t, bundle.Records[constants.KindJobs], 1)
	assert.Equal(t, "Garage slab cut", bundle.Records[constants.KindJobs][0].Get("JobName"))
}

func TestParseXLSXSkipsUnknownSheets(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Summary": {
			{"Quarter", "Revenue"},
			{"Q1", "125000"},
		},
		"Employees": {
			{"Employee_ID", "First Name", "Last Name", "Pay Rate"},
			{"E-1", "Dana", "Reyes", "32.50"},
		},
	})

	p := NewParser(nil)
	bundle, err := p.Parse("export.xlsx", data)
	require.NoError(t, err)

	require.Len(t, bundle.Records[constants.KindEmployees], 1)
	assert.Equal(t, 1, bundle.RecordCount)
}
