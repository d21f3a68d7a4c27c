package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/config"
)

func testRootOptions(t *testing.T) *RootOptions {
	t.Helper()
	opts := &RootOptions{Format: "text", Config: config.Default()}
	opts.Config.JournalPath = filepath.Join(t.TempDir(), "journal.db")
	return opts
}

const validStream = `{"name":"execution_started","payload":{"executionId":"exec-1"}}
{"name":"step_started","payload":{"executionId":"exec-1","stepOrder":1}}
{"name":"step_completed","payload":{"executionId":"exec-1","stepExecutionId":"se-1","stepOrder":1}}
{"name":"execution_completed","payload":{"executionId":"exec-1","allStepsPassed":true}}
`

func TestRecordValidStream(t *testing.T) {
	rootOpts := testRootOptions(t)

	buf := &bytes.Buffer{}
	cmd := NewRecordCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(validStream))
	cmd.SetArgs([]string{"--execution", "exec-1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Recorded 4 event(s) for execution exec-1")
}

func TestRecordMalformedLinesExitFailure(t *testing.T) {
	rootOpts := testRootOptions(t)

	stream := `{"name":"execution_started","payload":{"executionId":"exec-1"}}
not json at all
{"name":"step_started","payload":{"executionId":"exec-1","stepOrder":0}}
`
	buf := &bytes.Buffer{}
	cmd := NewRecordCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stream))
	cmd.SetArgs([]string{"--execution", "exec-1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "2 malformed")
}

func TestRecordCrossExecutionLinesSkipped(t *testing.T) {
	rootOpts := testRootOptions(t)

	stream := `{"name":"execution_started","payload":{"executionId":"exec-1"}}
{"name":"execution_started","payload":{"executionId":"exec-other"}}
`
	buf := &bytes.Buffer{}
	cmd := NewRecordCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(stream))
	cmd.SetArgs([]string{"--execution", "exec-1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "1 mismatched")
}

func TestRecordRedeliveryIsDuplicate(t *testing.T) {
	rootOpts := testRootOptions(t)

	stream := `{"id":"d-1","name":"execution_started","payload":{"executionId":"exec-1"}}
{"id":"d-1","name":"execution_started","payload":{"executionId":"exec-1"}}
`
	buf := &bytes.Buffer{}
	cmd := NewRecordCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(stream))
	cmd.SetArgs([]string{"--execution", "exec-1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Recorded 1 event(s)")
	assert.Contains(t, buf.String(), "1 duplicate(s)")
}

func TestRecordMissingExecutionFlag(t *testing.T) {
	rootOpts := testRootOptions(t)

	cmd := NewRecordCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
