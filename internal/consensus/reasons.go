package consensus

import (
	"fmt"
	"math"
	"strings"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// Categorized reasons for an uncertain verdict. These strings are
// displayed verbatim by the dashboard and asserted on by its tests;
// change them only together with the presentation layer.
const (
	ReasonPipelineError   = "Validation pipeline error"
	ReasonJudgesDisagreed = "AI judges significantly disagreed"
	ReasonConflict        = "Deterministic and AI validation conflict"
	ReasonLowConfidence   = "Low confidence in AI assessment"
	ReasonCuratorMedium   = "Resolved by curator with medium confidence"
	ReasonFallback        = "Human review recommended"
)

// uncertainReason derives the categorized explanation for an uncertain
// verdict. Checks run in fixed priority order; the first match wins.
// The function is total: it always produces a reason, with ReasonFallback
// as the terminal catch-all.
func uncertainReason(det *model.DeterministicResult, ens *model.EnsembleResult) UncertainReason {
	// 1. Pipeline error outranks everything: the evaluator payloads may
	// be diagnostics, so no other field can be trusted.
	if ens != nil && ens.ConsensusType == model.ConsensusError {
		r := UncertainReason{Reason: ReasonPipelineError}
		if detail, ok := pipelineErrorDetail(ens); ok {
			r.Detail = detail
		}
		return r
	}

	// 2. Escalated judge disagreement.
	if ens != nil && ens.ConsensusType == model.ConsensusHumanReview {
		return UncertainReason{
			Reason: ReasonJudgesDisagreed,
			Detail: fmt.Sprintf("Score difference: %d%% (threshold: %d%%)",
				percent(ens.ScoreDifference), percent(DisagreementThreshold)),
		}
	}

	// 3. The two validators reached opposite pass/fail verdicts.
	if det != nil && ens != nil {
		d := boolDecision(det.Passed)
		e := ensembleDecision(ens)
		if e != model.DecisionUncertain && d != e {
			return UncertainReason{
				Reason: ReasonConflict,
				Detail: fmt.Sprintf("Rule engine: %s, AI ensemble: %s", d, e),
			}
		}
	}

	// 4. The ensemble itself doubts its assessment.
	if ens != nil && ens.Confidence == model.ConfidenceLow {
		return UncertainReason{
			Reason: ReasonLowConfidence,
			Detail: fmt.Sprintf("Final score: %d%%", percent(ens.FinalScore)),
		}
	}

	// 5. Curator tie-break that only reached medium confidence.
	if ens != nil && ens.Confidence == model.ConfidenceMedium && ens.ConsensusType == model.ConsensusCuratorResolved {
		decision := ens.FinalDecision
		if ens.Curator != nil {
			decision = ens.Curator.Decision
		}
		return UncertainReason{
			Reason: ReasonCuratorMedium,
			Detail: fmt.Sprintf("Curator decision: %s", decision),
		}
	}

	// 6. Terminal catch-all.
	return UncertainReason{Reason: ReasonFallback}
}

// pipelineErrorDetail extracts a diagnostic from evaluator A's
// reasoning text when it carries a recognizable pipeline-error marker.
// Ordinary judge prose rarely contains the word "error", so a
// case-insensitive substring check surfaces real diagnostics without
// fabricating detail from normal reasoning.
func pipelineErrorDetail(ens *model.EnsembleResult) (string, bool) {
	reasoning := strings.TrimSpace(ens.EvaluatorA.Reasoning)
	if reasoning == "" {
		return "", false
	}
	if !strings.Contains(strings.ToLower(reasoning), "error") {
		return "", false
	}
	return reasoning, true
}

// percent converts a 0-1 score to a whole percentage, rounding to the
// nearest integer.
func percent(v float64) int {
	return int(math.Round(v * 100))
}
