package tracker

import (
	"sort"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// Projection is the reconciled view of one execution: its record plus
// the completed steps observed so far, always sorted by step order.
//
// StepDataUnavailable distinguishes "execution finished but the
// corrective step reload failed" from a genuinely empty execution.
type Projection struct {
	Execution           model.Execution `json:"execution"`
	Steps               []model.Step    `json:"steps"`
	StepDataUnavailable bool            `json:"stepDataUnavailable,omitempty"`
}

// Clone returns a deep copy safe to hand to readers.
func (p Projection) Clone() Projection {
	out := p
	out.Execution = cloneExecution(p.Execution)
	if p.Steps != nil {
		out.Steps = make([]model.Step, len(p.Steps))
		for i, s := range p.Steps {
			out.Steps[i] = s.Clone()
		}
	}
	return out
}

func cloneExecution(e model.Execution) model.Execution {
	out := e
	if e.StartedAt != nil {
		t := *e.StartedAt
		out.StartedAt = &t
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// apply is the reducer: a pure, total function from (projection, event)
// to projection. Callers are responsible for execution-id scoping; the
// reducer assumes the event belongs to this projection.
func apply(p Projection, ev event.Event) Projection {
	switch ev := ev.(type) {
	case event.ExecutionStarted:
		return applyExecutionStarted(p)
	case event.StepStarted:
		return applyStepStarted(p, ev)
	case event.StepCompleted:
		return applyStepCompleted(p, ev)
	case event.ExecutionCompleted:
		return applyExecutionCompleted(p, ev)
	case event.ExecutionFailed:
		return applyExecutionFailed(p, ev)
	}
	// Unknown variants decode-fail before reaching the reducer; ignore
	// defensively rather than corrupting state.
	return p
}

// applyExecutionStarted moves the execution into in_progress. Duplicate
// deliveries and late arrivals after a terminal status are no-ops: the
// transition table rejects them.
func applyExecutionStarted(p Projection) Projection {
	if p.Execution.Status == model.StatusInProgress {
		return p
	}
	if !model.CanTransition(p.Execution.Status, model.StatusInProgress) {
		return p
	}
	p.Execution.Status = model.StatusInProgress
	return p
}

// applyStepStarted advances the high-water mark of announced steps.
// It never creates a step entry: steps materialize on completion only.
func applyStepStarted(p Projection, ev event.StepStarted) Projection {
	if ev.StepOrder > p.Execution.CurrentStepOrder {
		p.Execution.CurrentStepOrder = ev.StepOrder
	}
	return p
}

// applyStepCompleted upserts the step by step execution id and
// re-derives the rendered order. Tolerates completions for steps never
// announced as started.
func applyStepCompleted(p Projection, ev event.StepCompleted) Projection {
	steps := make([]model.Step, 0, len(p.Steps)+1)
	replaced := false
	for _, s := range p.Steps {
		if s.ID == ev.Step.ID {
			steps = append(steps, ev.Step)
			replaced = true
			continue
		}
		steps = append(steps, s)
	}
	if !replaced {
		steps = append(steps, ev.Step)
	}
	sortSteps(steps)
	p.Steps = steps
	return p
}

// applyExecutionCompleted marks the execution terminal-successful.
// Terminal states are sticky, so a completed event after a failure (or
// a duplicate) changes nothing.
func applyExecutionCompleted(p Projection, ev event.ExecutionCompleted) Projection {
	if p.Execution.Status == model.StatusCompleted {
		return p
	}
	if !model.CanTransition(p.Execution.Status, model.StatusCompleted) {
		return p
	}
	p.Execution.Status = model.StatusCompleted
	if ev.CompletedAt != nil {
		t := *ev.CompletedAt
		p.Execution.CompletedAt = &t
	}
	return p
}

// applyExecutionFailed marks the execution terminal-failed and records
// the platform's error message.
func applyExecutionFailed(p Projection, ev event.ExecutionFailed) Projection {
	if p.Execution.Status == model.StatusFailed {
		return p
	}
	if !model.CanTransition(p.Execution.Status, model.StatusFailed) {
		return p
	}
	p.Execution.Status = model.StatusFailed
	p.Execution.ErrorMessage = ev.ErrorMessage
	return p
}

// sortSteps orders by step order ascending. Step orders are unique
// within an execution; the id tie-break only guards determinism against
// malformed duplicate orders.
func sortSteps(steps []model.Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].StepOrder != steps[j].StepOrder {
			return steps[i].StepOrder < steps[j].StepOrder
		}
		return steps[i].ID < steps[j].ID
	})
}
