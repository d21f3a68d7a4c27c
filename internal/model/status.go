package model

// ExecutionStatus is the lifecycle state of an execution.
//
// The platform serializes statuses as lower-snake strings, so the enum
// is string-typed rather than iota-typed to keep wire and memory
// representations identical.
type ExecutionStatus string

const (
	// StatusPending means the execution exists server-side but no step
	// has run yet.
	StatusPending ExecutionStatus = "pending"
	// StatusInProgress means at least one step has been announced.
	StatusInProgress ExecutionStatus = "in_progress"
	// StatusCompleted is terminal: all steps ran to completion.
	StatusCompleted ExecutionStatus = "completed"
	// StatusFailed is terminal: the run aborted with an error.
	StatusFailed ExecutionStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status.
// Terminal statuses are sticky: no event may transition out of them.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// allowedTransitions is the explicit forward-only transition table.
// Completed/failed may be reached directly from pending because the
// event channel gives no cross-event ordering guarantee: a terminal
// event can arrive before execution_started.
var allowedTransitions = map[ExecutionStatus][]ExecutionStatus{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusFailed},
	StatusInProgress: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// CanTransition reports whether moving from -> to is permitted.
// Self-transitions are allowed (duplicate events are idempotent no-ops).
func CanTransition(from, to ExecutionStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
