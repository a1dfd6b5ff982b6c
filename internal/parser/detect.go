package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
)

// DetectFormat resolves a file name to its container format from the extension.
// Unrecognized or missing extensions are a hard failure before any parsing.
func DetectFormat(filename string) (constants.FileFormat, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if ext == "" {
		return "", common.NewAppError("FORMAT_DETECT", fmt.Sprintf("file %q has no extension", filename), common.ErrUnsupportedFormat)
	}
	format, ok := constants.FormatForExtension(ext)
	if !ok {
		return "", common.NewAppError("FORMAT_DETECT", fmt.Sprintf("extension %q is not a supported export format", ext), common.ErrUnsupportedFormat)
	}
	return format, nil
}

// CanonicalHeader canonicalizes a source column name: strip everything that is
// not a letter or digit, then capitalize the first letter. "job id" and
// "Job_ID" both become comparable keys.
func CanonicalHeader(h string) string {
	var b strings.Builder
	for _, r := range h {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// kindSignatures holds the weighted field-name signatures used to classify a
// record set. Keys are lowercased canonical headers.
var kindSignatures = map[constants.EntityKind]map[string]int{
	constants.KindJobs: {
		"jobid":        3,
		"jobnumber":    2,
		"jobname":      2,
		"jobstatus":    2,
		"worktype":     1,
		"customername": 1,
		"datecreated":  1,
	},
	constants.KindEmployees: {
		"employeeid":       3,
		"firstname":        2,
		"lastname":         2,
		"payrate":          2,
		"paytype":          1,
		"hiredate":         1,
		"employmentstatus": 1,
	},
	constants.KindCustomers: {
		"customerid":   3,
		"customername": 3,
		"contactname":  2,
		"companyname":  1,
		"address":      1,
		"city":         1,
	},
	constants.KindTimeEntries: {
		"timeentryid": 3,
		"hoursworked": 3,
		"clockin":     2,
		"clockout":    2,
		"employeeid":  1,
		"jobid":       1,
	},
	constants.KindMaterials: {
		"materialid":   3,
		"materialname": 3,
		"sku":          2,
		"unitcost":     2,
		"quantity":     1,
		"unit":         1,
	},
	constants.KindWorkTypes: {
		"worktypeid":   3,
		"worktypename": 3,
		"typename":     2,
		"category":     1,
		"description":  1,
	},
}

// DetectEntityKind classifies a record set from its canonical field names.
// The highest-scoring kind wins; ties resolve in phase order so detection is
// deterministic. A zero score means the shape is not a known DSM table.
func DetectEntityKind(fields []string) (constants.EntityKind, error) {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[strings.ToLower(CanonicalHeader(f))] = true
	}

	best := constants.EntityKind("")
	bestScore := 0
	for _, kind := range constants.PhaseOrder {
		score := 0
		for field, weight := range kindSignatures[kind] {
			if present[field] {
				score += weight
			}
		}
		if score > bestScore {
			best, bestScore = kind, score
		}
	}
	if bestScore == 0 {
		return "", common.NewAppError("KIND_DETECT",
			fmt.Sprintf("fields %v match no known DSM table", fields), common.ErrUnknownDataType)
	}
	return best, nil
}
