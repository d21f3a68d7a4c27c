package consensus

import (
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// DisagreementThreshold is the fixed score difference above which the
// upstream pipeline escalates to human review instead of resolving the
// judges' disagreement automatically. It appears in user-facing reason
// text, so it is a named constant rather than a literal.
const DisagreementThreshold = 0.40

// ReviewStatus is the presentation-facing restatement of the decision.
type ReviewStatus string

const (
	ReviewAutoPass    ReviewStatus = "auto_pass"
	ReviewAutoFail    ReviewStatus = "auto_fail"
	ReviewNeedsReview ReviewStatus = "needs_review"
)

// UncertainReason explains an uncertain verdict: a fixed categorized
// reason plus optional supporting detail.
type UncertainReason struct {
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Outcome is the consensus engine's only artifact. It is derived on
// demand and never persisted.
type Outcome struct {
	FinalDecision model.Decision   `json:"finalDecision"`
	ReviewStatus  ReviewStatus     `json:"reviewStatus"`
	Reason        *UncertainReason `json:"uncertainReason,omitempty"`
}

// Compute derives the consensus outcome for a step.
//
// Decision rules, in order of authority:
//
//  1. An ensemble consensus type of human_review or error forces
//     uncertain regardless of the deterministic result.
//  2. With only one validator present, its own decision is
//     authoritative.
//  3. With both present, agreement (both pass or both fail) yields the
//     shared decision; any disagreement yields uncertain.
//  4. With neither present, the legacy validationPassed boolean
//     decides; with nothing at all, the verdict is uncertain.
//
// Pass/fail outcomes carry no reason; uncertain outcomes always carry
// one (see uncertainReason).
func Compute(step model.Step) Outcome {
	decision := decide(step.Deterministic, step.Ensemble, step.ValidationPassed)

	out := Outcome{
		FinalDecision: decision,
		ReviewStatus:  reviewStatus(decision),
	}
	if decision == model.DecisionUncertain {
		reason := uncertainReason(step.Deterministic, step.Ensemble)
		out.Reason = &reason
	}
	return out
}

func decide(det *model.DeterministicResult, ens *model.EnsembleResult, legacy *bool) model.Decision {
	if ens != nil && forcedUncertain(ens.ConsensusType) {
		return model.DecisionUncertain
	}

	switch {
	case det != nil && ens != nil:
		d := boolDecision(det.Passed)
		e := ensembleDecision(ens)
		if d == e {
			return d
		}
		return model.DecisionUncertain

	case det != nil:
		return boolDecision(det.Passed)

	case ens != nil:
		return ensembleDecision(ens)

	case legacy != nil:
		return boolDecision(*legacy)
	}

	// No validator payload and no legacy flag: nothing to decide on.
	return model.DecisionUncertain
}

// forcedUncertain reports whether the consensus type alone mandates an
// uncertain verdict, independent of any decision values.
func forcedUncertain(ct model.ConsensusType) bool {
	return ct == model.ConsensusHumanReview || ct == model.ConsensusError
}

func boolDecision(passed bool) model.Decision {
	if passed {
		return model.DecisionPass
	}
	return model.DecisionFail
}

// ensembleDecision maps the ensemble's reported decision onto the
// outcome vocabulary. An absent or unrecognized value is uncertain
// rather than an error: the decision field is produced by an evolving
// pipeline and an unknown token must not present as pass or fail.
func ensembleDecision(ens *model.EnsembleResult) model.Decision {
	if ens.FinalDecision.Valid() {
		return ens.FinalDecision
	}
	return model.DecisionUncertain
}

func reviewStatus(d model.Decision) ReviewStatus {
	switch d {
	case model.DecisionPass:
		return ReviewAutoPass
	case model.DecisionFail:
		return ReviewAutoFail
	default:
		return ReviewNeedsReview
	}
}
