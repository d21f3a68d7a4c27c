package cli

import (
	"bufio"
	"bytes"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/snapshot"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/tracker"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	APIBaseURL string
	Events     string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <execution-id>",
		Short: "Load an execution's snapshot and render its state",
		Long: `Load the REST snapshot of a scenario execution, optionally apply a
stream of NDJSON events on top of it, and render the reconciled view:
execution status, progress, and every completed step with its
consensus verdict.

Malformed event lines are logged and skipped. If the execution is
completed but its step list is empty, one corrective reload is
attempted before rendering.

Exit codes:
  0 - Snapshot rendered
  2 - Command error (platform unreachable, execution not found)

Examples:
  vatrack watch exec-7f3a
  vatrack watch exec-7f3a --events stream.ndjson
  vatrack watch exec-7f3a --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.APIBaseURL, "api", "", "platform API base URL (overrides config)")
	cmd.Flags().StringVar(&opts.Events, "events", "", "NDJSON event file to apply after the snapshot, or - for stdin")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command, executionID string) error {
	ctx := cmd.Context()

	baseURL := opts.Config.APIBaseURL
	if opts.APIBaseURL != "" {
		baseURL = opts.APIBaseURL
	}

	client := snapshot.NewHTTPClient(baseURL,
		snapshot.WithHTTPClient(&http.Client{Timeout: opts.Config.RequestTimeout.Std()}))

	tr := tracker.New(client)
	if err := tr.Watch(ctx, executionID); err != nil {
		return WrapExitError(ExitCommandError, "failed to load execution snapshot", err)
	}

	if opts.Events != "" {
		if err := applyEventStream(opts, cmd, tr); err != nil {
			return err
		}
	}

	// The corrective reload failure is not fatal: the projection
	// carries the unavailable flag and still renders.
	_ = tr.ReconcileIfStale(ctx)

	proj := tr.Projection()
	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(proj)
	}

	renderProjection(cmd.OutOrStdout(), proj)
	return nil
}

// applyEventStream feeds decoded NDJSON events through the tracker's
// event loop. Malformed lines are logged and skipped; the stream is
// finite, so the loop is stopped once everything is enqueued and Run
// drains the queue.
func applyEventStream(opts *WatchOptions, cmd *cobra.Command, tr *tracker.Tracker) error {
	input, closeInput, err := openInput(opts.Events, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open event stream", err)
	}
	defer closeInput()

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := event.DecodeEnvelope(line)
		if err != nil {
			slog.Warn("skipping malformed event", "line", lineNo, "error", err)
			continue
		}
		tr.Enqueue(ev)
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read event stream", err)
	}

	tr.Stop()
	return tr.Run(cmd.Context())
}
