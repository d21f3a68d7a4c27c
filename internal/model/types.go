package model

import "time"

// Execution is one run of a multi-turn conversational test scenario.
//
// The tracker is the only writer; everything else treats Execution as
// read-only. TotalSteps is fixed at creation. CurrentStepOrder is the
// highest step order announced as started, which may lag behind
// completed steps when step_started events are lost.
type Execution struct {
	ID               string          `json:"executionId"`
	Status           ExecutionStatus `json:"status"`
	TotalSteps       int             `json:"totalSteps"`
	CurrentStepOrder int             `json:"currentStepOrder"`
	StartedAt        *time.Time      `json:"startedAt,omitempty"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
	ErrorMessage     string          `json:"errorMessage,omitempty"`
}

// Step is one conversational turn within an execution.
//
// Steps are keyed by ID (the step execution id): re-delivery of the
// same id overwrites the prior entry, never duplicates it. StepOrder is
// the 1-based, dense sort key; rendered step lists are always sorted by
// it regardless of arrival order.
//
// ValidationPassed is the legacy flat boolean kept for payloads that
// predate the structured validator results. When Deterministic or
// Ensemble is present the structured payload wins (see the consensus
// package).
type Step struct {
	ID                string               `json:"stepExecutionId"`
	ExecutionID       string               `json:"executionId"`
	StepOrder         int                  `json:"stepOrder"`
	UserUtterance     string               `json:"userUtterance,omitempty"`
	AIResponse        string               `json:"aiResponse,omitempty"`
	Transcription     string               `json:"transcription,omitempty"`
	CommandKind       string               `json:"commandKind,omitempty"`
	Confidence        *float64             `json:"confidence,omitempty"`
	AudioRefs         map[string]string    `json:"audioRefs,omitempty"`
	ResponseAudioRefs map[string]string    `json:"responseAudioRefs,omitempty"`
	LatencyMs         int64                `json:"latencyMs,omitempty"`
	ExecutedAt        *time.Time           `json:"executedAt,omitempty"`
	ValidationPassed  *bool                `json:"validationPassed,omitempty"`
	Deterministic     *DeterministicResult `json:"validationDetails,omitempty"`
	Ensemble          *EnsembleResult      `json:"ensembleValidation,omitempty"`
}

// AudioRef looks up the utterance audio reference for a language tag.
// The tag is canonicalized before lookup, so "EN-us" finds an entry
// stored under "en-US". The second return is false when no variant
// exists for that language.
func (s *Step) AudioRef(tag string) (string, bool) {
	ref, ok := s.AudioRefs[CanonicalLanguageTag(tag)]
	return ref, ok
}

// ResponseAudioRef looks up the response audio reference for a language
// tag, with the same canonicalization as AudioRef.
func (s *Step) ResponseAudioRef(tag string) (string, bool) {
	ref, ok := s.ResponseAudioRefs[CanonicalLanguageTag(tag)]
	return ref, ok
}

// Clone returns a deep copy of the step. Used by the tracker to hand
// out projections without sharing mutable state.
func (s Step) Clone() Step {
	out := s
	out.AudioRefs = cloneStringMap(s.AudioRefs)
	out.ResponseAudioRefs = cloneStringMap(s.ResponseAudioRefs)
	if s.Confidence != nil {
		v := *s.Confidence
		out.Confidence = &v
	}
	if s.ExecutedAt != nil {
		t := *s.ExecutedAt
		out.ExecutedAt = &t
	}
	if s.ValidationPassed != nil {
		b := *s.ValidationPassed
		out.ValidationPassed = &b
	}
	if s.Deterministic != nil {
		d := s.Deterministic.Clone()
		out.Deterministic = &d
	}
	if s.Ensemble != nil {
		e := s.Ensemble.Clone()
		out.Ensemble = &e
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
