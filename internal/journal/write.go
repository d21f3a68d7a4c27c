package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one journaled event: the raw payload as it arrived, plus
// the position the journal assigned to it.
type Record struct {
	ID          string          `json:"id"`
	ExecutionID string          `json:"executionId"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	Seq         int64           `json:"seq"`
	RecordedAt  time.Time       `json:"recordedAt"`
}

// Append records one event. An empty id gets a fresh UUID; callers
// that carry a delivery id from the transport should pass it through,
// which makes re-recording a redelivered event a silent no-op via
// ON CONFLICT(id) DO NOTHING.
//
// Returns the stored record and whether a new row was inserted.
func (j *Journal) Append(ctx context.Context, id, executionID, name string, payload json.RawMessage) (Record, bool, error) {
	if executionID == "" {
		return Record{}, false, fmt.Errorf("append event: execution id is empty")
	}
	if name == "" {
		return Record{}, false, fmt.Errorf("append event: event name is empty")
	}
	if id == "" {
		// V7 ids sort by creation time, which keeps the primary key
		// index append-friendly.
		generated, err := uuid.NewV7()
		if err != nil {
			return Record{}, false, fmt.Errorf("append event: generate id: %w", err)
		}
		id = generated.String()
	}

	rec := Record{
		ID:          id,
		ExecutionID: executionID,
		Name:        name,
		Payload:     payload,
		RecordedAt:  time.Now().UTC(),
	}

	// Seq assignment and insert must be atomic: two recording sessions
	// against the same journal must not race to the same seq.
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("append event: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE execution_id = ?
	`, executionID).Scan(&rec.Seq); err != nil {
		return Record{}, false, fmt.Errorf("append event: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, execution_id, name, payload, seq, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.ExecutionID,
		rec.Name,
		string(rec.Payload),
		rec.Seq,
		rec.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("append event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("append event: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("append event: commit: %w", err)
	}

	if affected == 0 {
		// Duplicate id: return the row that is already there.
		existing, err := j.readByID(ctx, id)
		if err != nil {
			return Record{}, false, err
		}
		return existing, false, nil
	}
	return rec, true, nil
}

func (j *Journal) readByID(ctx context.Context, id string) (Record, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, execution_id, name, payload, seq, recorded_at
		FROM events WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("read event %s: %w", id, err)
	}
	return rec, nil
}
