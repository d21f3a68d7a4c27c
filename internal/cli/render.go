package cli

import (
	"fmt"
	"io"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/consensus"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/tracker"
)

// renderProjection writes the human-readable view of an execution: the
// execution header, then every step with its consensus verdict.
func renderProjection(w io.Writer, proj tracker.Projection) {
	e := proj.Execution
	fmt.Fprintf(w, "Execution %s\n", e.ID)
	fmt.Fprintf(w, "  Status:   %s\n", e.Status)
	fmt.Fprintf(w, "  Progress: step %d of %d\n", e.CurrentStepOrder, e.TotalSteps)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "  Error:    %s\n", e.ErrorMessage)
	}
	if proj.StepDataUnavailable {
		fmt.Fprintln(w, "  Warning:  step data unavailable (reload failed)")
	}

	if len(proj.Steps) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No steps recorded.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Steps:")
	for _, s := range proj.Steps {
		out := consensus.Compute(s)
		fmt.Fprintf(w, "  %d. %s  %s (%s)\n", s.StepOrder, s.ID, out.FinalDecision, out.ReviewStatus)
		if out.Reason != nil {
			fmt.Fprintf(w, "       reason: %s\n", out.Reason.Reason)
			if out.Reason.Detail != "" {
				fmt.Fprintf(w, "       detail: %s\n", out.Reason.Detail)
			}
		}
	}
}

// renderVerdict writes the full consensus verdict for one step,
// including the score breakdowns the dashboard shows on expansion.
func renderVerdict(w io.Writer, step model.Step, out consensus.Outcome) {
	fmt.Fprintf(w, "Step %s (order %d)\n", step.ID, step.StepOrder)
	fmt.Fprintf(w, "  Decision:      %s\n", out.FinalDecision)
	fmt.Fprintf(w, "  Review status: %s\n", out.ReviewStatus)
	if out.Reason != nil {
		fmt.Fprintf(w, "  Reason:        %s\n", out.Reason.Reason)
		if out.Reason.Detail != "" {
			fmt.Fprintf(w, "  Detail:        %s\n", out.Reason.Detail)
		}
	}

	if step.Deterministic != nil {
		bd := consensus.BreakdownDeterministic(*step.Deterministic)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Deterministic score breakdown: total %.2f\n", bd.Total)
		for _, c := range bd.Components {
			fmt.Fprintf(w, "  %-14s weight %.2f  value %.2f  contribution %.2f%s\n",
				c.Name, c.Weight, c.Value, c.Contribution, defaultedMark(c.Defaulted))
		}
	}

	if step.Ensemble != nil {
		scores := consensus.BreakdownEnsemble(*step.Ensemble)
		if len(scores) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Ensemble criteria (raw scores 0-10):")
			for _, s := range scores {
				fmt.Fprintf(w, "  %-15s A %-4s B %-4s mean %.2f  normalized %.2f\n",
					s.Criterion, evaluatorScore(s.EvaluatorA), evaluatorScore(s.EvaluatorB), s.Mean, s.Normalized)
			}
		}
	}
}

func defaultedMark(defaulted bool) string {
	if defaulted {
		return "  (default)"
	}
	return ""
}

func evaluatorScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
