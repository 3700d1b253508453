// Package history stores an audit trail of accepted channel samples.
//
// Every sample a device context accepts (post clamping and noise
// rejection) can be recorded here by the bridge recorder. The trail is
// append-only and is never consulted to restore live context state; it
// exists for diagnosis ("what did the stick actually do at 14:02") and
// stays available when the time-series database is down.
package history

import (
	"context"
	"time"

	"github.com/tbransom/inputcore/internal/input"
)

// Entry represents a single recorded channel sample.
type Entry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// DeviceID is the context ID the sample belongs to.
	DeviceID int `json:"device_id"`

	// Channel is the zero-based channel index.
	Channel int `json:"channel"`

	// Value is the accepted (clamped) sample value.
	Value float64 `json:"value"`

	// Timestamp is the hardware timestamp of the sample (UTC).
	Timestamp time.Time `json:"timestamp"`

	// CreatedAt is when the row was recorded (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores and retrieves channel sample history.
//
// Implementations must be thread-safe and use UTC timestamps.
type Repository interface {
	// Record persists one accepted sample for a device channel.
	Record(ctx context.Context, deviceID int, channel int, sample input.Sample) error

	// Recent returns the latest entries for a device channel, newest
	// first. Implementations may clamp limit to sane bounds.
	Recent(ctx context.Context, deviceID int, channel int, limit int) ([]Entry, error)
}
