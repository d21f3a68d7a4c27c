// Package snapshot fetches the authoritative REST snapshot of an
// execution: the execution record itself and its completed step list.
//
// The fetch is a plain request/response call with no retries; a failed
// load is surfaced to the caller as a LoadError and retrying is the
// caller's decision. The tracker treats a snapshot as a wholesale
// replacement of its projection, so partial results are never returned:
// either both fetches succeed or the error leaves prior state alone.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

// Client retrieves execution snapshots. Implemented by HTTPClient in
// production and by in-memory fakes in tracker tests.
type Client interface {
	GetExecution(ctx context.Context, executionID string) (model.Execution, error)
	GetSteps(ctx context.Context, executionID string) ([]model.Step, error)
}

// LoadError reports a failed snapshot fetch: a transport failure or a
// non-2xx response. StatusCode is zero for transport errors.
type LoadError struct {
	Resource    string // "execution" or "steps"
	ExecutionID string
	StatusCode  int
	Err         error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load %s for execution %s: unexpected status %d", e.Resource, e.ExecutionID, e.StatusCode)
	}
	return fmt.Sprintf("load %s for execution %s: %v", e.Resource, e.ExecutionID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// DefaultTimeout bounds a single snapshot request when the caller's
// context carries no deadline of its own.
const DefaultTimeout = 10 * time.Second

// HTTPClient implements Client against the platform's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient substitutes the underlying http.Client.
// Used by tests to point at httptest servers with short timeouts.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// NewHTTPClient creates a snapshot client rooted at baseURL
// (e.g. "https://dashboard.internal/api").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetExecution fetches the execution record.
func (h *HTTPClient) GetExecution(ctx context.Context, executionID string) (model.Execution, error) {
	var exec model.Execution
	path := fmt.Sprintf("%s/executions/%s", h.baseURL, url.PathEscape(executionID))
	if err := h.getJSON(ctx, "execution", executionID, path, &exec); err != nil {
		return model.Execution{}, err
	}
	return exec, nil
}

// GetSteps fetches the full completed-step list for an execution.
// Audio reference keys are canonicalized here so the snapshot and the
// event stream agree on language-tag spelling.
func (h *HTTPClient) GetSteps(ctx context.Context, executionID string) ([]model.Step, error) {
	var steps []model.Step
	path := fmt.Sprintf("%s/executions/%s/steps", h.baseURL, url.PathEscape(executionID))
	if err := h.getJSON(ctx, "steps", executionID, path, &steps); err != nil {
		return nil, err
	}
	for i := range steps {
		steps[i].AudioRefs = model.NormalizeAudioRefs(steps[i].AudioRefs)
		steps[i].ResponseAudioRefs = model.NormalizeAudioRefs(steps[i].ResponseAudioRefs)
	}
	return steps, nil
}

func (h *HTTPClient) getJSON(ctx context.Context, resource, executionID, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &LoadError{Resource: resource, ExecutionID: executionID, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return &LoadError{Resource: resource, ExecutionID: executionID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body content of an
		// error response is not part of the API contract.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &LoadError{Resource: resource, ExecutionID: executionID, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LoadError{Resource: resource, ExecutionID: executionID, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
