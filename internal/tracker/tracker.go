package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/consensus"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/snapshot"
)

// ErrNotWatching is returned by operations that need an active
// execution before Watch has been called.
var ErrNotWatching = errors.New("tracker: no execution is being watched")

// Tracker owns the projection of exactly one execution at a time.
//
// Thread-safety model:
//   - Enqueue: safe from any goroutine (transport callbacks)
//   - Run: must be called from exactly one goroutine
//   - Projection, Verdict: safe from any goroutine (deep copies)
//   - Watch/Reload: safe from any goroutine; a newer Watch supersedes
//     in-flight loads via the generation counter
type Tracker struct {
	client snapshot.Client
	queue  *deliveryQueue

	mu          sync.RWMutex
	executionID string // currently watched execution, "" before first Watch
	generation  int64  // bumped by Watch; in-flight loads verify it on completion
	installed   bool   // proj corresponds to executionID
	reconciled  bool   // corrective reload already spent for this watch session
	proj        Projection
}

// New creates a tracker backed by the given snapshot client.
func New(client snapshot.Client) *Tracker {
	return &Tracker{
		client: client,
		queue:  newDeliveryQueue(),
	}
}

// Watch binds the tracker to an execution id and loads its snapshot.
//
// Binding detaches the previous execution first: the generation counter
// advances, so any in-flight load for the old id discards itself on
// completion, and events for the old id are dropped from the moment
// Watch is called. On load failure the previous projection data is left
// untouched and the error (a snapshot.LoadError) is returned for the
// caller to surface; the tracker performs no retry.
func (t *Tracker) Watch(ctx context.Context, executionID string) error {
	if executionID == "" {
		return errors.New("tracker: execution id is empty")
	}
	gen := t.begin(executionID)
	return t.load(ctx, executionID, gen)
}

// begin detaches the previous execution and opens a new watch session.
func (t *Tracker) begin(executionID string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.executionID = executionID
	t.generation++
	t.installed = false
	t.reconciled = false
	return t.generation
}

// Reload re-fetches the snapshot for the currently watched execution.
// This is the caller-driven retry surface for a failed Watch or a
// failed corrective reload.
func (t *Tracker) Reload(ctx context.Context) error {
	t.mu.RLock()
	id, gen := t.executionID, t.generation
	t.mu.RUnlock()

	if id == "" {
		return ErrNotWatching
	}
	return t.load(ctx, id, gen)
}

// load fetches execution and steps, then installs them wholesale iff
// this load is still the newest one. A superseded load logs and
// discards its result; it never merges into a projection it no longer
// owns.
func (t *Tracker) load(ctx context.Context, executionID string, gen int64) error {
	exec, err := t.client.GetExecution(ctx, executionID)
	if err != nil {
		return err
	}
	steps, err := t.client.GetSteps(ctx, executionID)
	if err != nil {
		return err
	}

	if exec.ID == "" {
		exec.ID = executionID
	}
	sorted := make([]model.Step, len(steps))
	copy(sorted, steps)
	sortSteps(sorted)

	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		slog.Debug("stale load discarded",
			"execution_id", executionID,
			"load_generation", gen,
			"current_generation", t.generation,
		)
		return nil
	}

	t.proj = Projection{Execution: exec, Steps: sorted}
	t.installed = true

	slog.Info("snapshot installed",
		"execution_id", exec.ID,
		"status", exec.Status,
		"steps", len(sorted),
	)
	return nil
}

// Enqueue submits a decoded event for the Run loop.
// Returns false once the tracker has been stopped.
func (t *Tracker) Enqueue(ev event.Event) bool {
	return t.queue.Enqueue(ev)
}

// Run is the single-writer event loop. It applies queued events
// strictly sequentially until the context is cancelled or Stop is
// called. Event-level problems are logged and skipped; they never stop
// the loop.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		ev, ok := t.queue.TryDequeue()
		if ok {
			t.Apply(ctx, ev)
			continue
		}

		select {
		case <-ctx.Done():
			t.queue.Close()
			return ctx.Err()
		case <-t.queue.Wait():
			if t.queue.Len() == 0 {
				// Queue closed and drained.
				return nil
			}
		}
	}
}

// Stop closes the queue, which makes Run return after draining.
func (t *Tracker) Stop() {
	t.queue.Close()
}

// Apply runs one event through the reducer and then the
// stale-completion guard. It is the synchronous core of the Run loop
// and is also called directly by replay tooling, which owns its own
// sequencing.
func (t *Tracker) Apply(ctx context.Context, ev event.Event) {
	if !t.applyEvent(ev) {
		return
	}
	if err := t.ReconcileIfStale(ctx); err != nil {
		// Surfaced once, never retried in a loop: the projection now
		// carries StepDataUnavailable for the dashboard to render.
		slog.Warn("corrective reload failed",
			"execution_id", ev.ExecutionID(),
			"error", err,
		)
	}
}

// applyEvent applies ev to the projection if it belongs to the watched
// execution. Events for any other id (cross-subscription leakage) and
// events arriving before a snapshot is installed are dropped silently.
func (t *Tracker) applyEvent(ev event.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.installed || ev.ExecutionID() != t.executionID {
		slog.Debug("dropping event for inactive execution",
			"event", ev.Name(),
			"event_execution_id", ev.ExecutionID(),
			"watched_execution_id", t.executionID,
		)
		return false
	}

	t.proj = apply(t.proj, ev)
	return true
}

// ReconcileIfStale performs the one-shot corrective reload when a
// completed execution shows zero steps (its terminal event raced the
// event-channel subscription). At most one reload is spent per watch
// session, so a completed-and-genuinely-empty execution cannot cause a
// reload storm. A failed reload marks the projection's step data
// unavailable and returns the load error.
func (t *Tracker) ReconcileIfStale(ctx context.Context) error {
	t.mu.Lock()
	stale := t.installed &&
		!t.reconciled &&
		t.proj.Execution.Status == model.StatusCompleted &&
		len(t.proj.Steps) == 0
	if !stale {
		t.mu.Unlock()
		return nil
	}
	t.reconciled = true
	id, gen := t.executionID, t.generation
	t.mu.Unlock()

	slog.Info("completed execution has no step data, reloading once", "execution_id", id)

	if err := t.load(ctx, id, gen); err != nil {
		t.mu.Lock()
		if gen == t.generation {
			t.proj.StepDataUnavailable = true
		}
		t.mu.Unlock()
		return err
	}
	return nil
}

// Projection returns a deep copy of the current projection. The steps
// slice is always in step-order.
func (t *Tracker) Projection() Projection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.proj.Clone()
}

// Watching returns the currently watched execution id, or "" when
// Watch has not been called.
func (t *Tracker) Watching() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.executionID
}

// Verdict computes the consensus outcome for one projected step.
// The second return is false when no step with that id is projected.
func (t *Tracker) Verdict(stepID string) (consensus.Outcome, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.proj.Steps {
		if s.ID == stepID {
			return consensus.Compute(s), true
		}
	}
	return consensus.Outcome{}, false
}

// QueueLen reports pending, unapplied events. Useful for monitoring
// and tests.
func (t *Tracker) QueueLen() int {
	return t.queue.Len()
}
