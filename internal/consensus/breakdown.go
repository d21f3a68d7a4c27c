package consensus

import (
	"sort"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// Weights of the deterministic validation score. They must sum to 1 and
// must match the rule engine's own arithmetic exactly: the dashboard
// displays each contribution and its tests assert on the numbers, not
// just the final bucket.
const (
	WeightPass          = 0.5
	WeightASR           = 0.3
	WeightCommandKind   = 0.2
	neutralASRComponent = 0.5 // used when no ASR confidence was observed
)

// ScoreComponent is one weighted contribution to the deterministic
// validation score.
type ScoreComponent struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`        // raw component input, 0-1
	Contribution float64 `json:"contribution"` // Weight * Value
	Defaulted    bool    `json:"defaulted,omitempty"`
}

// DeterministicBreakdown decomposes a rule-engine score into its three
// weighted contributions.
type DeterministicBreakdown struct {
	Components []ScoreComponent `json:"components"`
	Total      float64          `json:"total"`
}

// BreakdownDeterministic re-derives the rule engine's weighted score:
// pass carries 50%, ASR confidence 30% (neutral 0.5 default when
// unobserved), command-kind match 20% (full credit when no kind was
// required).
func BreakdownDeterministic(r model.DeterministicResult) DeterministicBreakdown {
	passValue := 0.0
	if r.Passed {
		passValue = 1.0
	}

	asrValue := neutralASRComponent
	asrDefaulted := true
	if r.ASRConfidence != nil {
		asrValue = *r.ASRConfidence
		asrDefaulted = false
	}

	commandValue := 1.0
	commandDefaulted := true
	if r.ExpectedCommandKind != "" {
		commandDefaulted = false
		if !commandKindMatched(r) {
			commandValue = 0.0
		}
	}

	components := []ScoreComponent{
		{Name: "pass", Weight: WeightPass, Value: passValue, Contribution: WeightPass * passValue},
		{Name: "asr_confidence", Weight: WeightASR, Value: asrValue, Contribution: WeightASR * asrValue, Defaulted: asrDefaulted},
		{Name: "command_kind", Weight: WeightCommandKind, Value: commandValue, Contribution: WeightCommandKind * commandValue, Defaulted: commandDefaulted},
	}

	total := 0.0
	for _, c := range components {
		total += c.Contribution
	}
	return DeterministicBreakdown{Components: components, Total: total}
}

// commandKindMatched resolves the command-kind comparison, preferring
// the rule engine's own match flag over a string comparison.
func commandKindMatched(r model.DeterministicResult) bool {
	if r.CommandKindMatch != nil {
		return *r.CommandKindMatch
	}
	return r.ActualCommandKind == r.ExpectedCommandKind
}

// CriterionScore is the ensemble's combined per-criterion assessment.
// Raw scores are 0-10 per evaluator; Normalized is the mean scaled to
// 0-1.
type CriterionScore struct {
	Criterion  string   `json:"criterion"`
	EvaluatorA *float64 `json:"evaluatorA,omitempty"`
	EvaluatorB *float64 `json:"evaluatorB,omitempty"`
	Mean       float64  `json:"mean"`
	Normalized float64  `json:"normalized"`
}

// BreakdownEnsemble combines the two evaluators' per-criterion scores.
// A criterion scored by one evaluator stands on that single value; a
// criterion absent from both is omitted entirely rather than shown as
// zero. Known criteria appear in canonical order, any others follow
// alphabetically.
func BreakdownEnsemble(r model.EnsembleResult) []CriterionScore {
	var out []CriterionScore
	for _, criterion := range criteriaFor(r) {
		a, okA := r.EvaluatorA.Criteria[criterion]
		b, okB := r.EvaluatorB.Criteria[criterion]
		if !okA && !okB {
			continue
		}

		score := CriterionScore{Criterion: criterion}
		sum, n := 0.0, 0
		if okA {
			v := a
			score.EvaluatorA = &v
			sum += a
			n++
		}
		if okB {
			v := b
			score.EvaluatorB = &v
			sum += b
			n++
		}
		score.Mean = sum / float64(n)
		score.Normalized = score.Mean / 10
		out = append(out, score)
	}
	return out
}

// criteriaFor returns the canonical criteria followed by any
// non-standard ones either evaluator scored, alphabetically.
func criteriaFor(r model.EnsembleResult) []string {
	known := make(map[string]bool, len(model.CriteriaOrder))
	order := append([]string(nil), model.CriteriaOrder...)
	for _, c := range model.CriteriaOrder {
		known[c] = true
	}

	var extra []string
	seen := map[string]bool{}
	for _, criteria := range []map[string]float64{r.EvaluatorA.Criteria, r.EvaluatorB.Criteria} {
		for c := range criteria {
			if !known[c] && !seen[c] {
				seen[c] = true
				extra = append(extra, c)
			}
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}
