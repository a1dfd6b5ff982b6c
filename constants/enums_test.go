package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapEnum(t *testing.T) {
	got, ok := MapEnum(JobStatuses, "  In Progress ", DefaultJobStatus)
	assert.True(t, ok)
	assert.Equal(t, "in_progress", got)

	got, ok = MapEnum(JobStatuses, "Canceled", DefaultJobStatus)
	assert.True(t, ok)
	assert.Equal(t, "cancelled", got)

	got, ok = MapEnum(JobStatuses, "archived", DefaultJobStatus)
	assert.False(t, ok)
	assert.Equal(t, "pending", got)
}

func TestRunStateTerminal(t *testing.T) {
	assert.False(t, RunNotStarted.Terminal())
	assert.False(t, RunInProgress.Terminal())
	assert.True(t, RunCompleted.Terminal())
	assert.True(t, RunCompletedWithErrors.Terminal())
	assert.True(t, RunFailed.Terminal())
	assert.True(t, RunCancelled.Terminal())
}

func TestSuggestedFixFallsBack(t *testing.T) {
	assert.NotEmpty(t, SuggestedFix(ErrCatValidation))
	assert.Equal(t, SuggestedFix(ErrCatUnknown), SuggestedFix(ErrorCategory("bogus")))
}
