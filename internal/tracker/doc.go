// Package tracker implements the execution state synchronizer: the
// single owner of one execution's in-memory projection, fed by a REST
// snapshot and an unordered, duplicate-prone event stream.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// All projection mutations happen in one goroutine. External callers
// enqueue decoded events; Run dequeues and applies them one at a time.
// This keeps the reducer trivially sequential and makes replay of a
// recorded stream reproduce the projection exactly.
//
// Reducer over an event union:
// Each event variant has a pure apply function from (projection, event)
// to projection. Steps are upserted by step execution id, and the
// rendered order is always re-derived by sorting on step order, so
// arrival order never affects the final list.
//
// Snapshot merging:
// A load replaces the projection wholesale, and only if it is still the
// newest load for the watched execution: every load captures a
// generation number and a superseded load's result is discarded, never
// merged. A load failure leaves the prior projection untouched.
//
// Stale-completion recovery:
// If the projection ever shows a completed execution with zero steps
// (terminal event raced the subscription), the tracker performs exactly
// one corrective reload per watch session. A failed corrective reload
// marks the projection's step data unavailable, which the dashboard
// renders distinctly from a genuinely empty execution.
package tracker
