package model

// Decision is a validator's pass/fail/uncertain verdict.
type Decision string

const (
	DecisionPass      Decision = "pass"
	DecisionFail      Decision = "fail"
	DecisionUncertain Decision = "uncertain"
)

// Valid reports whether d is a known decision value.
func (d Decision) Valid() bool {
	switch d {
	case DecisionPass, DecisionFail, DecisionUncertain:
		return true
	}
	return false
}

// Confidence is the ensemble's self-reported confidence bucket.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConsensusType classifies how the two AI evaluators' scores were
// reconciled upstream.
type ConsensusType string

const (
	// ConsensusHighAgreement: evaluators agreed within the disagreement
	// threshold; final score is their average.
	ConsensusHighAgreement ConsensusType = "high_consensus"
	// ConsensusCuratorResolved: a curator model broke the tie; final
	// score and decision reflect the curator, not the average.
	ConsensusCuratorResolved ConsensusType = "curator_resolved"
	// ConsensusHumanReview: the score difference exceeded the threshold
	// that permits automatic resolution; a human must decide.
	ConsensusHumanReview ConsensusType = "human_review"
	// ConsensusError: the validation pipeline itself failed; evaluator
	// payloads may carry diagnostics instead of real scores.
	ConsensusError ConsensusType = "error"
)

// Evaluation criteria scored by each AI judge, raw range 0-10.
// CriteriaOrder fixes the display order of score breakdowns.
const (
	CriterionRelevance      = "relevance"
	CriterionCorrectness    = "correctness"
	CriterionCompleteness   = "completeness"
	CriterionTone           = "tone"
	CriterionEntityAccuracy = "entity_accuracy"
)

// CriteriaOrder is the canonical ordering for per-criterion output.
var CriteriaOrder = []string{
	CriterionRelevance,
	CriterionCorrectness,
	CriterionCompleteness,
	CriterionTone,
	CriterionEntityAccuracy,
}

// ContentCheck is one content-match assertion evaluated by the rule
// engine against the AI response text.
type ContentCheck struct {
	Kind    string   `json:"kind"` // contains | not_contains | regex | regex_not_match | forbidden_phrase
	Passed  bool     `json:"passed"`
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// ContentMatchResult aggregates the rule engine's content checks.
type ContentMatchResult struct {
	Passed bool           `json:"passed"`
	Checks []ContentCheck `json:"checks,omitempty"`
}

// EntityMatchResult reports how well entities extracted from the
// response matched the expected set.
type EntityMatchResult struct {
	Score      float64  `json:"score"`
	Matched    []string `json:"matched,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	Mismatched []string `json:"mismatched,omitempty"`
}

// DeterministicResult is one step's outcome from the non-AI rule
// engine.
//
// ValidationScore is produced upstream from the weighted formula
// 0.5*pass + 0.3*asr + 0.2*command, where asr defaults to 0.5 when no
// ASR confidence was observed and command defaults to 1.0 when no
// command kind was required. The consensus package re-derives the same
// arithmetic for its score breakdown; the two must agree.
type DeterministicResult struct {
	Passed              bool                `json:"passed"`
	ExpectedCommandKind string              `json:"expectedCommandKind,omitempty"`
	ActualCommandKind   string              `json:"actualCommandKind,omitempty"`
	CommandKindMatch    *bool               `json:"commandKindMatch,omitempty"`
	ASRConfidence       *float64            `json:"asrConfidence,omitempty"`
	MinASRConfidence    *float64            `json:"minAsrConfidence,omitempty"`
	ContentMatch        *ContentMatchResult `json:"contentMatch,omitempty"`
	EntityMatch         *EntityMatchResult  `json:"entityMatch,omitempty"`
	ValidationScore     float64             `json:"validationScore"`
	LatencyMs           int64               `json:"latencyMs,omitempty"`
	Errors              []string            `json:"errors,omitempty"`
}

// Clone returns a deep copy of the result.
func (r DeterministicResult) Clone() DeterministicResult {
	out := r
	if r.CommandKindMatch != nil {
		b := *r.CommandKindMatch
		out.CommandKindMatch = &b
	}
	if r.ASRConfidence != nil {
		v := *r.ASRConfidence
		out.ASRConfidence = &v
	}
	if r.MinASRConfidence != nil {
		v := *r.MinASRConfidence
		out.MinASRConfidence = &v
	}
	if r.ContentMatch != nil {
		cm := *r.ContentMatch
		cm.Checks = append([]ContentCheck(nil), r.ContentMatch.Checks...)
		out.ContentMatch = &cm
	}
	if r.EntityMatch != nil {
		em := *r.EntityMatch
		em.Matched = append([]string(nil), r.EntityMatch.Matched...)
		em.Missing = append([]string(nil), r.EntityMatch.Missing...)
		em.Mismatched = append([]string(nil), r.EntityMatch.Mismatched...)
		out.EntityMatch = &em
	}
	out.Errors = append([]string(nil), r.Errors...)
	return out
}

// EvaluatorResult is one AI judge's scoring of a step.
// Criteria values are raw 0-10 scores keyed by criterion name.
type EvaluatorResult struct {
	OverallScore *float64           `json:"overallScore,omitempty"`
	Criteria     map[string]float64 `json:"criteria,omitempty"`
	Reasoning    string             `json:"reasoning,omitempty"`
}

// CuratorResult is the optional tie-breaking curator's output.
type CuratorResult struct {
	Decision  Decision `json:"decision"`
	Reasoning string   `json:"reasoning,omitempty"`
	LatencyMs int64    `json:"latencyMs,omitempty"`
}

// EnsembleResult is one step's outcome from the two-judge AI ensemble
// plus the optional curator tie-break.
//
// When ConsensusType is curator_resolved, FinalScore and FinalDecision
// reflect the curator, not a plain average. When it is human_review,
// ScoreDifference exceeded the 0.40 disagreement threshold. When it is
// error, the evaluator payloads may be diagnostics rather than scores.
type EnsembleResult struct {
	FinalScore      float64          `json:"finalScore"`
	FinalDecision   Decision         `json:"finalDecision"`
	Confidence      Confidence       `json:"confidence"`
	ConsensusType   ConsensusType    `json:"consensusType"`
	EvaluatorA      EvaluatorResult  `json:"evaluatorA"`
	EvaluatorB      EvaluatorResult  `json:"evaluatorB"`
	ScoreDifference float64          `json:"scoreDifference"`
	Curator         *CuratorResult   `json:"curator,omitempty"`
	StageLatencyMs  map[string]int64 `json:"stageLatencyMs,omitempty"`
}

// Clone returns a deep copy of the result.
func (r EnsembleResult) Clone() EnsembleResult {
	out := r
	out.EvaluatorA = r.EvaluatorA.clone()
	out.EvaluatorB = r.EvaluatorB.clone()
	if r.Curator != nil {
		c := *r.Curator
		out.Curator = &c
	}
	if r.StageLatencyMs != nil {
		m := make(map[string]int64, len(r.StageLatencyMs))
		for k, v := range r.StageLatencyMs {
			m[k] = v
		}
		out.StageLatencyMs = m
	}
	return out
}

func (e EvaluatorResult) clone() EvaluatorResult {
	out := e
	if e.OverallScore != nil {
		v := *e.OverallScore
		out.OverallScore = &v
	}
	if e.Criteria != nil {
		m := make(map[string]float64, len(e.Criteria))
		for k, v := range e.Criteria {
			m[k] = v
		}
		out.Criteria = m
	}
	return out
}
