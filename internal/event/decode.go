package event

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/model"
)

//go:embed events.schema.json
var schemaJSON string

// schemas holds one compiled validator per event name, all referencing
// $defs in the embedded schema document. Compiled once at init; the
// schema is part of the binary, so failure to compile is a programming
// error and panics.
var schemas = compileSchemas()

func compileSchemas() map[string]*jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("events.schema.json", strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("event: add schema resource: %v", err))
	}

	out := make(map[string]*jsonschema.Schema, len(Names))
	for _, name := range Names {
		out[name] = c.MustCompile("events.schema.json#/$defs/" + name)
	}
	return out
}

// Decode validates and decodes a named event payload.
//
// Validation happens in two layers: the JSON Schema rejects payloads of
// the wrong shape, then identity fields are checked explicitly so the
// error names the missing field. Either failure yields a
// MalformedEventError; an unknown event name does too, since a channel
// that starts emitting new names should be visible in logs rather than
// silently absorbed as valid.
func Decode(name string, payload []byte) (Event, error) {
	schema, ok := schemas[name]
	if !ok {
		return nil, malformed(name, "unknown event name", nil)
	}

	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, malformed(name, "payload is not valid JSON", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, malformed(name, "payload failed schema validation", err)
	}

	switch name {
	case NameExecutionStarted:
		var ev ExecutionStarted
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, malformed(name, "decode", err)
		}
		return ev, nil

	case NameStepStarted:
		var ev StepStarted
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, malformed(name, "decode", err)
		}
		return ev, nil

	case NameStepCompleted:
		var step model.Step
		if err := json.Unmarshal(payload, &step); err != nil {
			return nil, malformed(name, "decode", err)
		}
		if step.ID == "" {
			return nil, malformed(name, "missing stepExecutionId", nil)
		}
		// Language-keyed maps are canonicalized once at the boundary so
		// lookups never have to guess the platform's tag spelling.
		step.AudioRefs = model.NormalizeAudioRefs(step.AudioRefs)
		step.ResponseAudioRefs = model.NormalizeAudioRefs(step.ResponseAudioRefs)
		return StepCompleted{Step: step}, nil

	case NameExecutionCompleted:
		var ev ExecutionCompleted
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, malformed(name, "decode", err)
		}
		return ev, nil

	case NameExecutionFailed:
		var ev ExecutionFailed
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, malformed(name, "decode", err)
		}
		return ev, nil
	}

	// Unreachable: every name in schemas is handled above.
	return nil, malformed(name, "unhandled event name", nil)
}

// Envelope is the NDJSON framing used by the CLI's offline event
// sources: one {"name": ..., "payload": {...}} object per line.
type Envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEnvelope decodes one NDJSON line into an event.
func DecodeEnvelope(line []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, malformed("envelope", "line is not a valid envelope", err)
	}
	if env.Name == "" {
		return nil, malformed("envelope", "missing event name", nil)
	}
	return Decode(env.Name, env.Payload)
}
