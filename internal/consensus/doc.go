// Package consensus derives one final verdict per conversational step
// from two independently produced validation signals: the rule engine's
// deterministic result and the AI ensemble's dual-judge result.
//
// Everything here is pure and total. Compute never mutates its input,
// holds no state, and may be called concurrently and repeatedly; the
// tracker recomputes outcomes whenever either validator payload
// changes. An uncertain verdict always carries a reason, derived in a
// fixed priority order so the same inputs always explain themselves the
// same way.
package consensus
