package event

import (
	"errors"
	"fmt"
)

// MalformedEventError reports a payload that failed schema validation
// or is missing a required identity field. Malformed events are logged
// and dropped; they never corrupt a projection and are never shown to
// the UI.
type MalformedEventError struct {
	// EventName is the wire name of the offending event, or the raw
	// name when it is unknown.
	EventName string
	// Reason is a short human-readable description of what failed.
	Reason string
	// Err is the underlying decode or validation error, if any.
	Err error
}

func (e *MalformedEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s event: %s: %v", e.EventName, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s event: %s", e.EventName, e.Reason)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is (or wraps) a MalformedEventError.
func IsMalformed(err error) bool {
	var me *MalformedEventError
	return errors.As(err, &me)
}

func malformed(name, reason string, err error) *MalformedEventError {
	return &MalformedEventError{EventName: name, Reason: reason, Err: err}
}
