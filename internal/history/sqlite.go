package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tbransom/inputcore/internal/input"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// SQLiteRepository implements Repository using SQLite.
//
// Rows live in the sample_history table owned by the database package's
// migrations.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite sample history repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts a new history entry for a device channel.
func (r *SQLiteRepository) Record(ctx context.Context, deviceID int, channel int, sample input.Sample) error {
	if deviceID <= 0 {
		return fmt.Errorf("device id is required")
	}
	if channel < 0 {
		return fmt.Errorf("channel cannot be negative")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sample_history (device_id, channel, value, timestamp) VALUES (?, ?, ?, ?)",
		deviceID,
		channel,
		sample.Value,
		sample.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting sample history: %w", err)
	}

	return nil
}

// Recent returns the latest entries for a device channel, newest first.
// Limit defaults to 50 and is clamped to 200.
func (r *SQLiteRepository) Recent(ctx context.Context, deviceID int, channel int, limit int) ([]Entry, error) {
	if deviceID <= 0 {
		return nil, fmt.Errorf("device id is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, channel, value, timestamp, created_at
		 FROM sample_history
		 WHERE device_id = ? AND channel = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		deviceID,
		channel,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sample history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var ts, createdAt string

		if err := rows.Scan(&entry.ID, &entry.DeviceID, &entry.Channel, &entry.Value, &ts, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning sample history: %w", err)
		}

		entry.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing sample timestamp: %w", err)
		}
		entry.CreatedAt, err = parseCreatedAt(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sample history: %w", err)
	}

	return entries, nil
}

// parseCreatedAt handles the SQLite strftime default format as well as
// RFC 3339 values written by other tooling.
func parseCreatedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
