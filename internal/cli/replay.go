package cli

import (
	"context"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/journal"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/tracker"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal     string
	ExecutionID string // optional - specific execution only
}

// ReplayExecutionResult holds the replay result for a single execution.
type ReplayExecutionResult struct {
	ExecutionID   string `json:"execution_id"`
	Events        int    `json:"events"`
	Malformed     int    `json:"malformed"`
	Steps         int    `json:"steps"`
	FinalStatus   string `json:"final_status"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Executions       []ReplayExecutionResult `json:"executions"`
	TotalExecutions  int                     `json:"total_executions"`
	AllDeterministic bool                    `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled events and verify determinism",
		Long: `Decode each execution's journaled events in recorded order, run
them through the projection reducer twice, and verify both runs
converge on an identical projection.

Exit codes:
  0 - All executions replayed deterministically
  1 - Determinism verification failed, or malformed events found
  2 - Command error (journal not found, etc.)

Examples:
  vatrack replay
  vatrack replay --journal vatrack.db --execution exec-7f3a
  vatrack replay --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "journal database path (overrides config)")
	cmd.Flags().StringVar(&opts.ExecutionID, "execution", "", "replay a specific execution only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	journalPath := opts.Config.JournalPath
	if opts.Journal != "" {
		journalPath = opts.Journal
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var executionIDs []string
	if opts.ExecutionID != "" {
		executionIDs = []string{opts.ExecutionID}
	} else {
		executionIDs, err = j.Executions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list executions", err)
		}
	}

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if len(executionIDs) == 0 {
		if opts.Format == "json" {
			return f.JSON(ReplayResult{
				Executions:       []ReplayExecutionResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(f.Writer, "No executions found in journal.")
		return nil
	}

	result := ReplayResult{
		Executions:       make([]ReplayExecutionResult, 0, len(executionIDs)),
		TotalExecutions:  len(executionIDs),
		AllDeterministic: true,
	}
	malformedTotal := 0

	for _, id := range executionIDs {
		execResult, err := replayExecution(ctx, j, id, f)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay execution %s", id), err)
		}
		result.Executions = append(result.Executions, execResult)
		if !execResult.Deterministic {
			result.AllDeterministic = false
		}
		malformedTotal += execResult.Malformed
	}

	if opts.Format == "json" {
		if err := f.JSON(result); err != nil {
			return err
		}
	} else {
		renderReplayText(f, result)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged between runs")
	}
	if malformedTotal > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d malformed event(s) in journal", malformedTotal))
	}
	return nil
}

// replayExecution decodes one execution's journal and replays it twice
// through the reducer, comparing the resulting projections.
func replayExecution(ctx context.Context, j *journal.Journal, executionID string, f *OutputFormatter) (ReplayExecutionResult, error) {
	records, err := j.Read(ctx, executionID)
	if err != nil {
		return ReplayExecutionResult{}, err
	}

	result := ReplayExecutionResult{ExecutionID: executionID}

	events := make([]event.Event, 0, len(records))
	for _, rec := range records {
		ev, err := event.Decode(rec.Name, rec.Payload)
		if err != nil {
			result.Malformed++
			f.VerboseLog("execution %s seq %d: %v", executionID, rec.Seq, err)
			continue
		}
		events = append(events, ev)
	}
	result.Events = len(events)

	base := tracker.Projection{
		Execution: model.Execution{ID: executionID, Status: model.StatusPending},
	}
	first := tracker.Replay(base, events)
	second := tracker.Replay(base, events)

	result.Deterministic = reflect.DeepEqual(first, second)
	result.Steps = len(first.Steps)
	result.FinalStatus = string(first.Execution.Status)
	return result, nil
}

func renderReplayText(f *OutputFormatter, result ReplayResult) {
	for _, r := range result.Executions {
		mark := "ok"
		if !r.Deterministic {
			mark = "DIVERGED"
		}
		fmt.Fprintf(f.Writer, "%-10s %s  events=%d steps=%d status=%s", mark, r.ExecutionID, r.Events, r.Steps, r.FinalStatus)
		if r.Malformed > 0 {
			fmt.Fprintf(f.Writer, " malformed=%d", r.Malformed)
		}
		fmt.Fprintln(f.Writer)
	}
	fmt.Fprintf(f.Writer, "\nReplayed %d execution(s).\n", len(result.Executions))
}
