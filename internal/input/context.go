package input

import "sync"

// defaultAccuracy is the noise threshold applied to channels whose
// configuration does not rate their accuracy, in channel value units.
const defaultAccuracy = 0.01

// Logger defines the logging interface used by the DeviceContext.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NopLogger returns a Logger that discards everything. Useful as a
// default for components that accept an optional logger.
func NopLogger() Logger { return noopLogger{} }

// batch accumulates the changes made between BeginUpdate and EndUpdate:
// one dirty flag per status-change category and the channel events in
// acceptance order. It is consumed exactly once at batch close.
type batch struct {
	status StatusEvent
	events []ChannelEvent
}

// DeviceContext stores the configuration and current status of one input
// device and coalesces mutations into atomically delivered notifications.
//
// The context is only expected to be mutated by the producer that owns
// the device (a protocol bridge or poll loop); the rest of the system
// reads it and listens for events. A context is created once per logical
// device by the hub and lives for the process lifetime of that device's
// registration.
//
// All methods are safe for concurrent use. A single mutex guards the
// configuration, connection state, sample map, listener set and the
// in-progress batch; listener callbacks always run outside it.
type DeviceContext struct {
	id int

	mu        sync.Mutex
	config    *Config
	connState ConnectionState
	samples   map[int]Sample
	listeners listenerSet
	batch     *batch
	vibrate   VibrationHandler
	logger    Logger
}

// NewDeviceContext creates a context for one device with its initial
// configuration. The context starts disconnected with no samples.
// Returns ErrNilConfig if cfg is nil.
func NewDeviceContext(id int, cfg *Config) (*DeviceContext, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	return &DeviceContext{
		id:        id,
		config:    cfg,
		connState: Disconnected,
		samples:   make(map[int]Sample),
		logger:    noopLogger{},
	}, nil
}

// SetLogger sets the logger used for listener failure reports and debug
// traces.
func (d *DeviceContext) SetLogger(logger Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if logger == nil {
		logger = noopLogger{}
	}
	d.logger = logger
}

// ID returns the process-wide unique identifier assigned at construction.
func (d *DeviceContext) ID() int {
	return d.id
}

// Config returns the current device configuration. The returned Config
// is an immutable snapshot; it is replaced wholesale on reconfiguration
// and must not be modified.
func (d *DeviceContext) Config() *Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// ConnectionState returns the device's current connection state.
func (d *DeviceContext) ConnectionState() ConnectionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connState
}

// IsConnected reports whether the device is connected and providing input.
func (d *DeviceContext) IsConnected() bool {
	return d.ConnectionState().IsConnected()
}

// Sample returns the last accepted sample for the given channel index.
// The second return is false if the channel has not produced data yet or
// the index is unknown. Reads are not gated by batching: a sample stored
// mid-batch is visible here before its event has been delivered.
func (d *DeviceContext) Sample(index int) (Sample, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.samples[index]
	return s, ok
}

// IsUpdating reports whether an explicit or ambient batch is in progress.
func (d *DeviceContext) IsUpdating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batch != nil
}

// BeginUpdate opens a batch so that subsequent mutations are coalesced
// into a single notification delivered by EndUpdate. Calling BeginUpdate
// while a batch is already open is a no-op; batches do not nest.
func (d *DeviceContext) BeginUpdate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.batch == nil {
		d.batch = &batch{}
	}
}

// EndUpdate closes the in-progress batch and delivers its accumulated
// changes to the registered listeners. Without an open batch it is a
// no-op. The batch is cleared before dispatch, so a listener mutating
// the context re-entrantly starts a fresh batch. EndUpdate may be called
// from a different goroutine than the one that populated the batch.
func (d *DeviceContext) EndUpdate() {
	d.mu.Lock()
	b := d.batch
	if b == nil {
		d.mu.Unlock()
		return
	}
	d.batch = nil

	// An empty batch produces no dispatch.
	if !b.status.any() && len(b.events) == 0 {
		d.mu.Unlock()
		return
	}

	// Snapshot listeners under the lock; invoke outside it so listener
	// code can call back into the context without deadlocking. The
	// event slice needs no copy: the batch was detached above and no
	// further mutation can reach it.
	listeners := d.listeners.snapshot()
	logger := d.logger
	d.mu.Unlock()

	for _, l := range listeners {
		if b.status.any() {
			if sl, ok := l.(StatusListener); ok {
				notifyStatus(sl, d, b.status, logger)
			}
		}
		if cl, ok := l.(ChannelListener); ok {
			for _, ev := range b.events {
				notifyChannel(cl, d, ev, logger)
			}
		}
	}
}

// notifyStatus invokes one status listener, isolating panics so the
// remaining listeners in the dispatch pass still run.
func notifyStatus(l StatusListener, d *DeviceContext, ev StatusEvent, logger Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("status listener panicked", "device_id", d.id, "panic", r)
		}
	}()
	l.OnStatusChanged(d, ev)
}

// notifyChannel invokes one channel listener for one event, isolating
// panics the same way.
func notifyChannel(l ChannelListener, d *DeviceContext, ev ChannelEvent, logger Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("channel listener panicked",
				"device_id", d.id, "channel", ev.Index, "panic", r)
		}
	}()
	l.OnChannelData(d, ev)
}

// SetConnectionState updates the device's connection state. A state equal
// to the current one is a no-op. Outside an explicit batch the change is
// dispatched immediately; inside one it only marks the batch dirty.
// Returns ErrInvalidConnectionState for states outside the recognised set.
func (d *DeviceContext) SetConnectionState(state ConnectionState) error {
	if !state.Valid() {
		return ErrInvalidConnectionState
	}

	d.mu.Lock()
	if state == d.connState {
		d.mu.Unlock()
		return nil
	}
	d.connState = state

	ambient := d.batch == nil
	if ambient {
		d.batch = &batch{}
	}
	d.batch.status.ConnectionChanged = true
	d.mu.Unlock()

	if ambient {
		d.EndUpdate()
	}
	return nil
}

// SetConfig replaces the device configuration. A config equal by value to
// the current one is a no-op. Outside an explicit batch the change is
// dispatched immediately; inside one it only marks the batch dirty.
// Returns ErrNilConfig if cfg is nil.
func (d *DeviceContext) SetConfig(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	d.mu.Lock()
	if d.config.Equal(cfg) {
		d.mu.Unlock()
		return nil
	}
	d.config = cfg

	ambient := d.batch == nil
	if ambient {
		d.batch = &batch{}
	}
	d.batch.status.Reconfigured = true
	d.mu.Unlock()

	if ambient {
		d.EndUpdate()
	}
	return nil
}

// UpdateChannel records a new sample for the given channel index.
//
// The sample value is clamped to the channel's [Min, Max] before
// anything else, preserving its timestamp. If a prior sample exists and
// the clamped value lies strictly within the channel's noise threshold
// of it, the update is suppressed entirely: no state change, no event.
// Otherwise the sample is stored and a ChannelEvent queued on the batch,
// with the usual ambient dispatch outside an explicit batch.
//
// Unknown channel indexes are a silent no-op, not an error: producers
// race against reconfigurations that shrink the channel set.
func (d *DeviceContext) UpdateChannel(index int, sample Sample) {
	d.mu.Lock()

	ch, ok := d.config.ChannelAt(index)
	if !ok {
		d.mu.Unlock()
		return
	}

	sample = sample.clampTo(ch.Min, ch.Max)

	if prior, exists := d.samples[index]; exists {
		epsilon := ch.Accuracy
		if epsilon <= 0 {
			epsilon = defaultAccuracy
		}
		// Strict open interval: a delta exactly equal to the
		// threshold passes through.
		if sample.Value < prior.Value+epsilon && sample.Value > prior.Value-epsilon {
			d.mu.Unlock()
			return
		}
	}

	d.samples[index] = sample

	ambient := d.batch == nil
	if ambient {
		d.batch = &batch{}
	}
	d.batch.events = append(d.batch.events, ChannelEvent{
		Config: d.config,
		Index:  index,
		Sample: sample,
	})
	d.mu.Unlock()

	if ambient {
		d.EndUpdate()
	}
}

// AddListener registers a listener for this device's events. Nil and
// already-registered listeners are a no-op; dispatch order is
// registration order.
func (d *DeviceContext) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners.add(l)
}

// RemoveListener unregisters a listener. Removing an absent listener is
// a no-op. A listener removed during a dispatch pass still receives the
// events already snapshotted for that pass.
func (d *DeviceContext) RemoveListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners.remove(l)
}

// ListenerCount returns the number of registered listeners.
func (d *DeviceContext) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listeners.len()
}

// SetVibrationHandler sets the handler invoked by Vibrate, replacing any
// previous handler. Pass nil to remove the handler.
func (d *DeviceContext) SetVibrationHandler(h VibrationHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vibrate = h
}

// VibrationHandler returns the currently registered handler, or nil.
func (d *DeviceContext) VibrationHandler() VibrationHandler {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vibrate
}

// Vibrate requests a haptic pulse from the device. It is a no-op if the
// device's configuration reports no vibration capability or no handler
// is registered. The handler runs outside the context lock.
func (d *DeviceContext) Vibrate(settings VibrationSettings) {
	d.mu.Lock()
	canVibrate := d.config.CanVibrate
	handler := d.vibrate
	d.mu.Unlock()

	if !canVibrate || handler == nil {
		return
	}
	handler(d, settings)
}
