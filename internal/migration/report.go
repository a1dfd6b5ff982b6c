package migration

import (
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// Report renders a plain-text summary of a finished (or aborted) run,
// suitable for the CLI and for attaching to support tickets.
func Report(st entity.MigrationStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Migration %s\n", st.MigrationID)
	fmt.Fprintf(&b, "State:    %s\n", st.State)
	if !st.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Started:  %s\n", st.StartedAt.Format(time.RFC3339))
	}
	if st.FinishedAt != nil {
		fmt.Fprintf(&b, "Finished: %s (took %s)\n", st.FinishedAt.Format(time.RFC3339), st.FinishedAt.Sub(st.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(&b, "Records:  %d total, %d processed, %d successful, %d skipped, %d failed\n",
		st.TotalRecords, st.Processed, st.SuccessRecords, st.SkippedRecords, st.FailedRecords)

	b.WriteString("\nTables:\n")
	for _, kind := range constants.PhaseOrder {
		tc, ok := st.Tables[kind]
		if !ok || tc.Total == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-12s total=%-5d successful=%-5d skipped=%-5d failed=%d\n",
			kind, tc.Total, tc.Successful, tc.Skipped, tc.Failed)
	}

	if len(st.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(st.Errors))
		for _, e := range st.Errors {
			fmt.Fprintf(&b, "  [%s] %s/%s: %s\n", e.Category, e.RecordType, e.RecordID, e.Message)
			if e.SuggestedFix != "" {
				fmt.Fprintf(&b, "      fix: %s\n", e.SuggestedFix)
			}
		}
	}

	if len(st.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(st.Warnings))
		for _, w := range st.Warnings {
			fmt.Fprintf(&b, "  [%s] %s/%s: %s\n", w.Category, w.RecordType, w.RecordID, w.Message)
		}
	}

	return b.String()
}
