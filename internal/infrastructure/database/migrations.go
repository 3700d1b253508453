package database

import (
	"context"
	"fmt"
)

// schema is the complete inputcore schema, applied idempotently.
//
// sample_history is an audit trail of accepted channel samples; it is
// append-only and never consulted to restore live context state.
const schema = `
CREATE TABLE IF NOT EXISTS sample_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id   INTEGER NOT NULL,
    channel     INTEGER NOT NULL,
    value       REAL    NOT NULL,
    timestamp   TEXT    NOT NULL,
    created_at  TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_sample_history_device_channel
    ON sample_history (device_id, channel, created_at DESC);
`

// Migrate applies the embedded schema. It is safe to call on every
// startup; all statements are idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
