package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

func TestHTTPClient_GetExecution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/executions/exec-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"executionId": "exec-1",
			"status": "in_progress",
			"totalSteps": 5,
			"currentStepOrder": 2
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	exec, err := client.GetExecution(context.Background(), "exec-1")
	require.NoError(t, err)

	assert.Equal(t, "exec-1", exec.ID)
	assert.Equal(t, model.StatusInProgress, exec.Status)
	assert.Equal(t, 5, exec.TotalSteps)
	assert.Equal(t, 2, exec.CurrentStepOrder)
}

func TestHTTPClient_GetSteps_NormalizesAudioRefs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/executions/exec-1/steps", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"stepExecutionId":"se-2","executionId":"exec-1","stepOrder":2},
			{"stepExecutionId":"se-1","executionId":"exec-1","stepOrder":1,
			 "audioRefs":{"EN-us":"s3://audio/se-1.wav"}}
		]`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	steps, err := client.GetSteps(context.Background(), "exec-1")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	// The client does not reorder; ordering belongs to the tracker.
	assert.Equal(t, "se-2", steps[0].ID)

	ref, ok := steps[1].AudioRef("en-US")
	require.True(t, ok)
	assert.Equal(t, "s3://audio/se-1.wav", ref)
}

func TestHTTPClient_Non200IsLoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.GetExecution(context.Background(), "exec-1")
	require.Error(t, err)
	require.True(t, IsLoadError(err))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, http.StatusBadGateway, le.StatusCode)
	assert.Equal(t, "execution", le.Resource)
}

func TestHTTPClient_TransportFailureIsLoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewHTTPClient(srv.URL)
	_, err := client.GetSteps(context.Background(), "exec-1")
	require.Error(t, err)
	assert.True(t, IsLoadError(err))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Zero(t, le.StatusCode)
}

func TestHTTPClient_MalformedBodyIsLoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"executionId":`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.GetExecution(context.Background(), "exec-1")
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
}
