package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/journal"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Journal     string
	ExecutionID string
	Input       string
}

// recordLine is one NDJSON input line: an event envelope plus the
// transport's optional delivery id, which makes re-recording a
// redelivered line idempotent.
type recordLine struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// RecordResult summarizes a recording session.
type RecordResult struct {
	ExecutionID string `json:"execution_id"`
	Recorded    int    `json:"recorded"`
	Duplicates  int    `json:"duplicates"`
	Malformed   int    `json:"malformed"`
	Mismatched  int    `json:"mismatched"` // events addressed to a different execution
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Validate an NDJSON event stream and journal it",
		Long: `Read event envelopes (one JSON object per line) from a file or
stdin, validate each against the event schemas, and append the valid
ones for the given execution to the journal.

Malformed lines and events addressed to other executions are counted
and skipped; they never abort the session.

Exit codes:
  0 - All lines recorded
  1 - Some lines were malformed or mismatched
  2 - Command error (journal not writable, input not readable)

Examples:
  vatrack record --execution exec-7f3a --input events.ndjson
  cat events.ndjson | vatrack record --execution exec-7f3a`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "journal database path (overrides config)")
	cmd.Flags().StringVar(&opts.ExecutionID, "execution", "", "execution id to record (required)")
	_ = cmd.MarkFlagRequired("execution")
	cmd.Flags().StringVar(&opts.Input, "input", "-", "NDJSON input file, or - for stdin")

	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	input, closeInput, err := openInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeInput()

	journalPath := opts.Config.JournalPath
	if opts.Journal != "" {
		journalPath = opts.Journal
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := RecordResult{ExecutionID: opts.ExecutionID}
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rl recordLine
		if err := json.Unmarshal(line, &rl); err != nil {
			result.Malformed++
			f.VerboseLog("line %d: not a valid envelope: %v", lineNo, err)
			continue
		}

		ev, err := event.Decode(rl.Name, rl.Payload)
		if err != nil {
			result.Malformed++
			f.VerboseLog("line %d: %v", lineNo, err)
			continue
		}

		if ev.ExecutionID() != opts.ExecutionID {
			result.Mismatched++
			f.VerboseLog("line %d: event belongs to execution %s, skipped", lineNo, ev.ExecutionID())
			continue
		}

		_, inserted, err := j.Append(ctx, rl.ID, opts.ExecutionID, rl.Name, rl.Payload)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to journal line %d", lineNo), err)
		}
		if inserted {
			result.Recorded++
		} else {
			result.Duplicates++
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	if opts.Format == "json" {
		if err := f.JSON(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "Recorded %d event(s) for execution %s", result.Recorded, result.ExecutionID)
		if result.Duplicates > 0 {
			fmt.Fprintf(f.Writer, ", %d duplicate(s)", result.Duplicates)
		}
		if result.Mismatched > 0 {
			fmt.Fprintf(f.Writer, ", %d mismatched", result.Mismatched)
		}
		if result.Malformed > 0 {
			fmt.Fprintf(f.Writer, ", %d malformed", result.Malformed)
		}
		fmt.Fprintln(f.Writer)
	}

	if result.Malformed > 0 || result.Mismatched > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d line(s) skipped", result.Malformed+result.Mismatched))
	}
	return nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}
