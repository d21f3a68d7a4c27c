// Package journal provides durable recording of the raw event stream
// for an execution, backed by SQLite with WAL mode.
//
// The journal is operator tooling, not part of the live projection
// path: the tracker never reads from it. Its purpose is capture and
// replay, so that a problematic event sequence seen against the
// platform can be re-run through the reducer offline and checked for
// deterministic convergence.
//
// Records keep the payload as the raw JSON that arrived on the wire.
// Decoding happens at replay time, so a journal written by an older
// build can be replayed by a newer one.
package journal
