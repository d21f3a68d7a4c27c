package event

import (
	"time"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// Event names as they appear on the wire.
const (
	NameExecutionStarted   = "execution_started"
	NameStepStarted        = "step_started"
	NameStepCompleted      = "step_completed"
	NameExecutionCompleted = "execution_completed"
	NameExecutionFailed    = "execution_failed"
)

// Names lists every known event name. Order matches the execution
// lifecycle for readability; nothing depends on it.
var Names = []string{
	NameExecutionStarted,
	NameStepStarted,
	NameStepCompleted,
	NameExecutionCompleted,
	NameExecutionFailed,
}

// Event is the discriminated union of channel deliveries. Every variant
// carries the execution id it is scoped to; the tracker drops events
// whose id does not match its active projection.
type Event interface {
	// Name returns the wire name of the event.
	Name() string
	// ExecutionID returns the execution the event is scoped to.
	ExecutionID() string
}

// ExecutionStarted announces that the execution left pending.
type ExecutionStarted struct {
	ExecID string `json:"executionId"`
}

func (e ExecutionStarted) Name() string        { return NameExecutionStarted }
func (e ExecutionStarted) ExecutionID() string { return e.ExecID }

// StepStarted announces that a step began. It carries no step execution
// id: steps are only materialized on completion.
type StepStarted struct {
	ExecID    string `json:"executionId"`
	StepOrder int    `json:"stepOrder"`
}

func (e StepStarted) Name() string        { return NameStepStarted }
func (e StepStarted) ExecutionID() string { return e.ExecID }

// StepCompleted delivers a finished step with its full field set,
// including any validator payloads produced so far. The embedded step
// is the upsert value: same step execution id always overwrites.
type StepCompleted struct {
	Step model.Step
}

func (e StepCompleted) Name() string        { return NameStepCompleted }
func (e StepCompleted) ExecutionID() string { return e.Step.ExecutionID }

// ExecutionCompleted marks the execution terminal-successful.
type ExecutionCompleted struct {
	ExecID         string     `json:"executionId"`
	AllStepsPassed *bool      `json:"allStepsPassed,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

func (e ExecutionCompleted) Name() string        { return NameExecutionCompleted }
func (e ExecutionCompleted) ExecutionID() string { return e.ExecID }

// ExecutionFailed marks the execution terminal-failed.
type ExecutionFailed struct {
	ExecID       string `json:"executionId"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (e ExecutionFailed) Name() string        { return NameExecutionFailed }
func (e ExecutionFailed) ExecutionID() string { return e.ExecID }
