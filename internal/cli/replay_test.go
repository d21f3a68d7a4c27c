package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/journal"
)

func TestReplayEmptyJournal(t *testing.T) {
	rootOpts := testRootOptions(t)

	// Create the empty journal up front.
	j, err := journal.Open(rootOpts.Config.JournalPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No executions found")
}

func TestReplayRecordedExecutionIsDeterministic(t *testing.T) {
	rootOpts := testRootOptions(t)

	// Record a stream first.
	recordCmd := NewRecordCommand(rootOpts)
	recordCmd.SetOut(&bytes.Buffer{})
	recordCmd.SetIn(strings.NewReader(validStream))
	recordCmd.SetArgs([]string{"--execution", "exec-1"})
	require.NoError(t, recordCmd.Execute())

	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "exec-1")
	assert.Contains(t, out, "events=4")
	assert.Contains(t, out, "steps=1")
	assert.Contains(t, out, "status=completed")
	assert.Contains(t, out, "Replayed 1 execution(s).")
}

func TestReplayJSONOutput(t *testing.T) {
	rootOpts := testRootOptions(t)
	rootOpts.Format = "json"

	recordCmd := NewRecordCommand(rootOpts)
	recordCmd.SetOut(&bytes.Buffer{})
	recordCmd.SetIn(strings.NewReader(validStream))
	recordCmd.SetArgs([]string{"--execution", "exec-1"})
	require.NoError(t, recordCmd.Execute())

	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--execution", "exec-1"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ReplayResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.AllDeterministic)
	require.Len(t, result.Executions, 1)
	assert.Equal(t, "exec-1", result.Executions[0].ExecutionID)
	assert.True(t, result.Executions[0].Deterministic)
}

func TestReplayMalformedJournalEntryExitFailure(t *testing.T) {
	rootOpts := testRootOptions(t)

	j, err := journal.Open(rootOpts.Config.JournalPath)
	require.NoError(t, err)
	ctx := context.Background()
	_, _, err = j.Append(ctx, "", "exec-1", "execution_started", json.RawMessage(`{"executionId":"exec-1"}`))
	require.NoError(t, err)
	// A journal written by a newer build may hold names this build does
	// not know; replay counts them and fails rather than guessing.
	_, _, err = j.Append(ctx, "", "exec-1", "execution_paused", json.RawMessage(`{"executionId":"exec-1"}`))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "malformed=1")
}

func TestReplayMissingJournalIsCommandError(t *testing.T) {
	rootOpts := testRootOptions(t)
	rootOpts.Config.JournalPath = "/nonexistent/dir/journal.db"

	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
