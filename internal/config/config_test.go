package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644))
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api_base_url: https://platform.example.com/api/v1
request_timeout: 30s
journal_path: /var/lib/vatrack/journal.db
log_level: debug
format: json
verbose: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://platform.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, "/var/lib/vatrack/journal.db", cfg.JournalPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Verbose)
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "api_base_url: https://platform.example.com/api/v1\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://platform.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, Default().RequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, Default().JournalPath, cfg.JournalPath)
	assert.Equal(t, Default().Format, cfg.Format)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "api_base_url: [unterminated\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"relative url", "api_base_url: not-a-url\n"},
		{"bad format", "format: yaml\n"},
		{"bad log level", "log_level: trace\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.contents)
			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}
