package bridge

import (
	"context"
	"time"

	"github.com/tbransom/inputcore/internal/history"
	"github.com/tbransom/inputcore/internal/input"
)

// recordTimeout bounds each history write so a slow disk cannot stall
// listener dispatch indefinitely.
const recordTimeout = 5 * time.Second

// Recorder appends every accepted sample to the history repository.
type Recorder struct {
	repo   history.Repository
	logger input.Logger
}

// NewRecorder creates a recorder writing through the given repository.
func NewRecorder(repo history.Repository, logger input.Logger) *Recorder {
	if logger == nil {
		logger = input.NopLogger()
	}
	return &Recorder{repo: repo, logger: logger}
}

// OnChannelData records the sample. Failures are logged and dropped;
// history is an audit trail, not a delivery guarantee.
func (r *Recorder) OnChannelData(d *input.DeviceContext, ev input.ChannelEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.Record(ctx, d.ID(), ev.Index, ev.Sample); err != nil {
		r.logger.Error("failed to record sample",
			"device_id", d.ID(),
			"channel", ev.Index,
			"error", err)
	}
}
