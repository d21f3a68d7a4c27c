package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

func TestReplay_TwiceYieldsIdenticalProjection(t *testing.T) {
	base := Projection{Execution: model.Execution{ID: "exec-1", Status: model.StatusPending, TotalSteps: 3}}
	events := []event.Event{
		event.ExecutionStarted{ExecID: "exec-1"},
		event.StepStarted{ExecID: "exec-1", StepOrder: 1},
		stepCompleted("se-2", 2),
		stepCompleted("se-1", 1),
		stepCompleted("se-2", 2),
		event.ExecutionCompleted{ExecID: "exec-1"},
	}

	first := Replay(base, events)
	second := Replay(base, events)

	assert.Equal(t, first, second)
	assert.Equal(t, model.StatusCompleted, first.Execution.Status)
	require.Len(t, first.Steps, 2)
	assert.Equal(t, "se-1", first.Steps[0].ID)
}

func TestReplay_DoesNotMutateBase(t *testing.T) {
	base := Projection{
		Execution: model.Execution{ID: "exec-1", Status: model.StatusInProgress},
		Steps:     []model.Step{step("se-1", 1)},
	}

	out := Replay(base, []event.Event{stepCompleted("se-2", 2)})

	require.Len(t, out.Steps, 2)
	assert.Len(t, base.Steps, 1)
	assert.Equal(t, model.StatusInProgress, base.Execution.Status)
}
