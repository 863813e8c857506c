package audit

import (
	"context"
	"fmt"
	"time"
)

const (
	TypeLeadCreated = "lead_created"
	TypeStoreReset  = "store_reset"
)

type Event struct {
	ID     int64     `json:"id"`
	LeadID int64     `json:"leadId,omitempty"`
	Type   string    `json:"type"`
	At     time.Time `json:"at"`
	Detail string    `json:"detail,omitempty"`
}

func (d *DB) Record(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO lead_events(lead_id, type, at_ms, detail)
VALUES(?,?,?,?);`,
		e.LeadID, e.Type, e.At.UnixMilli(), e.Detail)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Type, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, lead_id, type, at_ms, detail
FROM lead_events
ORDER BY at_ms DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var atMS int64
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Type, &atMS, &e.Detail); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Prune deletes events recorded before cutoff.
func (d *DB) Prune(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM lead_events WHERE at_ms < ?;`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune audit events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune audit events: rows affected: %w", err)
	}
	return n, nil
}
