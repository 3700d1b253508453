// Package hub owns the set of live device contexts.
//
// The hub is the registration point for input devices: it allocates the
// process-wide unique integer ID each context carries, indexes contexts
// by ID and by permanent device ID, and fans hub-wide listeners out to
// every present and future context. Producers register a device once and
// then mutate its context directly; everything else reads through the
// hub's lookups.
//
// All public methods are thread-safe.
package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tbransom/inputcore/internal/input"
)

// Hub manages device contexts and hub-wide listeners.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	byID      map[int]*input.DeviceContext
	byPermID  map[string]*input.DeviceContext
	order     []int // registration order for stable listings
	listeners []input.Listener
	logger    input.Logger
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		nextID:   1,
		byID:     make(map[int]*input.DeviceContext),
		byPermID: make(map[string]*input.DeviceContext),
	}
}

// SetLogger sets the logger for the hub and for contexts it creates.
func (h *Hub) SetLogger(logger input.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// Register creates a context for a newly known device, assigns it the
// next unique ID, and attaches all hub-wide listeners to it. If the
// configuration carries no permanent ID, one is generated so external
// collaborators can address the device across reconnects.
// Returns input.ErrNilConfig if cfg is nil.
func (h *Hub) Register(cfg *input.Config) (*input.DeviceContext, error) {
	if cfg == nil {
		return nil, input.ErrNilConfig
	}
	if cfg.PermanentID == "" {
		cfg = cfg.Clone()
		cfg.PermanentID = uuid.NewString()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	d, err := input.NewDeviceContext(id, cfg)
	if err != nil {
		return nil, err
	}
	if h.logger != nil {
		d.SetLogger(h.logger)
	}
	for _, l := range h.listeners {
		d.AddListener(l)
	}

	h.byID[id] = d
	h.byPermID[cfg.PermanentID] = d
	h.order = append(h.order, id)

	if h.logger != nil {
		h.logger.Info("device registered",
			"device_id", id,
			"permanent_id", cfg.PermanentID,
			"name", cfg.DisplayName,
			"channels", cfg.ChannelCount(),
		)
	}
	return d, nil
}

// Device returns the context with the given ID.
func (h *Hub) Device(id int) (*input.DeviceContext, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.byID[id]
	return d, ok
}

// DeviceByPermanentID returns the context whose configuration carries the
// given permanent device ID.
func (h *Hub) DeviceByPermanentID(pid string) (*input.DeviceContext, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.byPermID[pid]
	return d, ok
}

// Devices returns all contexts in registration order.
func (h *Hub) Devices() []*input.DeviceContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*input.DeviceContext, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.byID[id])
	}
	return out
}

// Count returns the number of registered devices.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byID)
}

// AddListener registers a listener on every current context and on all
// contexts registered later. Duplicate registration is a no-op.
func (h *Hub) AddListener(l input.Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	for _, existing := range h.listeners {
		if existing == l {
			h.mu.Unlock()
			return
		}
	}
	h.listeners = append(h.listeners, l)
	devices := make([]*input.DeviceContext, 0, len(h.byID))
	for _, d := range h.byID {
		devices = append(devices, d)
	}
	h.mu.Unlock()

	// AddListener on a context takes its own lock; do it outside ours.
	for _, d := range devices {
		d.AddListener(l)
	}
}

// RemoveListener unregisters a hub-wide listener from the hub and from
// every current context.
func (h *Hub) RemoveListener(l input.Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			break
		}
	}
	devices := make([]*input.DeviceContext, 0, len(h.byID))
	for _, d := range h.byID {
		devices = append(devices, d)
	}
	h.mu.Unlock()

	for _, d := range devices {
		d.RemoveListener(l)
	}
}
