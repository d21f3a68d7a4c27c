// Package event defines the named events delivered by the platform's
// event channel and decodes their JSON payloads into typed variants.
//
// The channel guarantees nothing about ordering and may deliver
// duplicates; this package only guarantees that a decoded event is
// well-formed. Payloads are checked against an embedded JSON Schema
// before structural decoding, and identity fields (execution id, step
// execution id) are verified explicitly. Anything that fails either
// check is reported as a MalformedEventError and dropped by the caller,
// never surfaced to the UI.
package event
