// Package model defines the records exchanged between the test platform
// and the tracker: executions, their conversational steps, and the two
// validator payloads (rule-engine and AI-ensemble) attached to each step.
//
// All types here are plain data. The tracker owns mutation, the
// consensus package derives verdicts, and nothing in this package
// performs I/O.
//
// Status handling follows the forward-only lattice
//
//	pending -> in_progress -> {completed, failed}
//
// expressed as an explicit transition table rather than unconditional
// field writes. Terminal states are sticky: no transition leaves them.
package model
