package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Read returns all journaled events for an execution in deterministic
// order: seq ascending, id as a binary tie-break. Returns an empty
// slice, not nil, when the execution has no records.
func (j *Journal) Read(ctx context.Context, executionID string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, execution_id, name, payload, seq, recorded_at
		FROM events
		WHERE execution_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, executionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var payload, recordedAt string

	if err := s.Scan(&rec.ID, &rec.ExecutionID, &rec.Name, &payload, &rec.Seq, &recordedAt); err != nil {
		return Record{}, fmt.Errorf("scan event: %w", err)
	}

	rec.Payload = json.RawMessage(payload)

	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	rec.RecordedAt = t

	return rec, nil
}
