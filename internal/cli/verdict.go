package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/consensus"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// VerdictOptions holds flags for the verdict command.
type VerdictOptions struct {
	*RootOptions
	Input string
}

// VerdictResult is the machine-readable verdict payload.
type VerdictResult struct {
	StepExecutionID string                            `json:"step_execution_id"`
	Outcome         consensus.Outcome                 `json:"outcome"`
	Deterministic   *consensus.DeterministicBreakdown `json:"deterministic_breakdown,omitempty"`
	Ensemble        []consensus.CriterionScore        `json:"ensemble_breakdown,omitempty"`
}

// NewVerdictCommand creates the verdict command.
func NewVerdictCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerdictOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verdict",
		Short: "Compute the consensus verdict for a step payload",
		Long: `Read one step JSON payload (as served by the platform's step
endpoint) and derive its consensus verdict: the final decision, the
review status, the uncertain reason when applicable, and the score
breakdowns.

Exit codes:
  0 - Verdict computed
  2 - Command error (unreadable or invalid step payload)

Examples:
  vatrack verdict --step step.json
  cat step.json | vatrack verdict --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerdict(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "step", "-", "step JSON file, or - for stdin")

	return cmd
}

func runVerdict(opts *VerdictOptions, cmd *cobra.Command) error {
	input, closeInput, err := openInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open step payload", err)
	}
	defer closeInput()

	data, err := io.ReadAll(input)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read step payload", err)
	}

	var step model.Step
	if err := json.Unmarshal(data, &step); err != nil {
		return WrapExitError(ExitCommandError, "step payload is not valid JSON", err)
	}
	if step.ID == "" {
		return NewExitError(ExitCommandError, "step payload has no stepExecutionId")
	}
	step.AudioRefs = model.NormalizeAudioRefs(step.AudioRefs)
	step.ResponseAudioRefs = model.NormalizeAudioRefs(step.ResponseAudioRefs)

	out := consensus.Compute(step)

	if opts.Format == "json" {
		result := VerdictResult{
			StepExecutionID: step.ID,
			Outcome:         out,
		}
		if step.Deterministic != nil {
			bd := consensus.BreakdownDeterministic(*step.Deterministic)
			result.Deterministic = &bd
		}
		if step.Ensemble != nil {
			result.Ensemble = consensus.BreakdownEnsemble(*step.Ensemble)
		}
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(result)
	}

	renderVerdict(cmd.OutOrStdout(), step, out)
	return nil
}
