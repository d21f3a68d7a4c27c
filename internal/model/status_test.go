package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionStatus_Valid(t *testing.T) {
	for _, s := range []ExecutionStatus{StatusPending, StatusInProgress, StatusCompleted, StatusFailed} {
		assert.True(t, s.Valid(), "%s should be valid", s)
	}
	assert.False(t, ExecutionStatus("running").Valid())
	assert.False(t, ExecutionStatus("").Valid())
}

func TestExecutionStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ExecutionStatus
		to   ExecutionStatus
		want bool
	}{
		{"pending to in_progress", StatusPending, StatusInProgress, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to failed", StatusInProgress, StatusFailed, true},
		{"in_progress back to pending", StatusInProgress, StatusPending, false},
		{"completed to in_progress", StatusCompleted, StatusInProgress, false},
		{"completed to failed", StatusCompleted, StatusFailed, false},
		{"failed to completed", StatusFailed, StatusCompleted, false},
		{"failed to in_progress", StatusFailed, StatusInProgress, false},
		{"duplicate delivery is a no-op", StatusInProgress, StatusInProgress, true},
		{"terminal self-transition", StatusCompleted, StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
