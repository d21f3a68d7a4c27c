package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestBreakdownDeterministic_SpecFormula(t *testing.T) {
	// passed=true, asrConfidence=0.8, commandKindMatch=true with an
	// expected kind set must yield 0.5 + 0.24 + 0.2 = 0.94.
	b := BreakdownDeterministic(model.DeterministicResult{
		Passed:              true,
		ASRConfidence:       floatPtr(0.8),
		ExpectedCommandKind: "device_control",
		ActualCommandKind:   "device_control",
		CommandKindMatch:    boolPtr(true),
	})

	require.Len(t, b.Components, 3)
	assert.Equal(t, "pass", b.Components[0].Name)
	assert.InDelta(t, 0.5, b.Components[0].Contribution, 1e-9)
	assert.Equal(t, "asr_confidence", b.Components[1].Name)
	assert.InDelta(t, 0.24, b.Components[1].Contribution, 1e-9)
	assert.False(t, b.Components[1].Defaulted)
	assert.Equal(t, "command_kind", b.Components[2].Name)
	assert.InDelta(t, 0.2, b.Components[2].Contribution, 1e-9)
	assert.False(t, b.Components[2].Defaulted)
	assert.InDelta(t, 0.94, b.Total, 1e-9)
}

func TestBreakdownDeterministic_Defaults(t *testing.T) {
	// No ASR observation and no required command kind: asr takes the
	// neutral 0.5 and command takes full credit, both flagged defaulted.
	b := BreakdownDeterministic(model.DeterministicResult{Passed: false})

	assert.InDelta(t, 0.0, b.Components[0].Contribution, 1e-9)
	assert.InDelta(t, 0.15, b.Components[1].Contribution, 1e-9)
	assert.True(t, b.Components[1].Defaulted)
	assert.InDelta(t, 0.2, b.Components[2].Contribution, 1e-9)
	assert.True(t, b.Components[2].Defaulted)
	assert.InDelta(t, 0.35, b.Total, 1e-9)
}

func TestBreakdownDeterministic_CommandKindMismatch(t *testing.T) {
	b := BreakdownDeterministic(model.DeterministicResult{
		Passed:              true,
		ExpectedCommandKind: "media_playback",
		ActualCommandKind:   "device_control",
	})

	assert.InDelta(t, 0.0, b.Components[2].Contribution, 1e-9)
	// pass 0.5 + default asr 0.15 + command 0.
	assert.InDelta(t, 0.65, b.Total, 1e-9)
}

func TestBreakdownDeterministic_MatchFlagWinsOverStrings(t *testing.T) {
	// The rule engine may match kinds fuzzily; its flag is
	// authoritative over a literal string comparison.
	b := BreakdownDeterministic(model.DeterministicResult{
		Passed:              true,
		ExpectedCommandKind: "device_control",
		ActualCommandKind:   "DeviceControl",
		CommandKindMatch:    boolPtr(true),
	})

	assert.InDelta(t, 0.2, b.Components[2].Contribution, 1e-9)
}

func TestBreakdownEnsemble_MeanOfBothEvaluators(t *testing.T) {
	scores := BreakdownEnsemble(model.EnsembleResult{
		EvaluatorA: model.EvaluatorResult{Criteria: map[string]float64{
			model.CriterionRelevance:   8,
			model.CriterionCorrectness: 6,
		}},
		EvaluatorB: model.EvaluatorResult{Criteria: map[string]float64{
			model.CriterionRelevance:   9,
			model.CriterionCorrectness: 7,
		}},
	})

	require.Len(t, scores, 2)
	assert.Equal(t, model.CriterionRelevance, scores[0].Criterion)
	assert.InDelta(t, 8.5, scores[0].Mean, 1e-9)
	assert.InDelta(t, 0.85, scores[0].Normalized, 1e-9)
	assert.Equal(t, model.CriterionCorrectness, scores[1].Criterion)
	assert.InDelta(t, 6.5, scores[1].Mean, 1e-9)
}

func TestBreakdownEnsemble_SingleEvaluatorStandsAlone(t *testing.T) {
	scores := BreakdownEnsemble(model.EnsembleResult{
		EvaluatorA: model.EvaluatorResult{Criteria: map[string]float64{model.CriterionTone: 7}},
		EvaluatorB: model.EvaluatorResult{},
	})

	require.Len(t, scores, 1)
	assert.Equal(t, model.CriterionTone, scores[0].Criterion)
	require.NotNil(t, scores[0].EvaluatorA)
	assert.Nil(t, scores[0].EvaluatorB)
	assert.InDelta(t, 7.0, scores[0].Mean, 1e-9)
	assert.InDelta(t, 0.7, scores[0].Normalized, 1e-9)
}

func TestBreakdownEnsemble_AbsentCriterionOmitted(t *testing.T) {
	scores := BreakdownEnsemble(model.EnsembleResult{
		EvaluatorA: model.EvaluatorResult{Criteria: map[string]float64{model.CriterionRelevance: 8}},
		EvaluatorB: model.EvaluatorResult{Criteria: map[string]float64{model.CriterionRelevance: 8}},
	})

	require.Len(t, scores, 1)
	for _, s := range scores {
		assert.NotEqual(t, model.CriterionEntityAccuracy, s.Criterion)
	}
}

func TestBreakdownEnsemble_UnknownCriteriaAfterCanonical(t *testing.T) {
	scores := BreakdownEnsemble(model.EnsembleResult{
		EvaluatorA: model.EvaluatorResult{Criteria: map[string]float64{
			"brevity":              5,
			model.CriterionTone:    9,
			"accent_acceptability": 6,
		}},
	})

	require.Len(t, scores, 3)
	assert.Equal(t, model.CriterionTone, scores[0].Criterion)
	assert.Equal(t, "accent_acceptability", scores[1].Criterion)
	assert.Equal(t, "brevity", scores[2].Criterion)
}

func TestBreakdownEnsemble_NoCriteria(t *testing.T) {
	assert.Empty(t, BreakdownEnsemble(model.EnsembleResult{}))
}
