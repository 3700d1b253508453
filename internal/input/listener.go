package input

// Listener is the base type for device event consumers. A listener
// implements one or both of the capability interfaces below; a handle
// implementing neither is accepted and simply never invoked. Listeners
// are compared by identity, so implementations should be registered as
// pointers.
type Listener any

// StatusListener receives an event when a device's connection state has
// changed or the device has been reconfigured.
type StatusListener interface {
	OnStatusChanged(d *DeviceContext, ev StatusEvent)
}

// ChannelListener receives an event for every accepted channel sample.
type ChannelListener interface {
	OnChannelData(d *DeviceContext, ev ChannelEvent)
}

// listenerSet is an ordered identity set of listeners. Dispatch order is
// registration order, so this is a slice with set semantics rather than
// a map. Callers synchronise access; the set itself holds no lock.
type listenerSet struct {
	handles []Listener
}

// add appends the listener unless it is nil or already present.
func (s *listenerSet) add(l Listener) {
	if l == nil {
		return
	}
	for _, h := range s.handles {
		if h == l {
			return
		}
	}
	s.handles = append(s.handles, l)
}

// remove deletes the listener; absent listeners are a no-op.
func (s *listenerSet) remove(l Listener) {
	if l == nil {
		return
	}
	for i, h := range s.handles {
		if h == l {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			return
		}
	}
}

// snapshot returns a copy of the current handles for lock-free iteration.
func (s *listenerSet) snapshot() []Listener {
	if len(s.handles) == 0 {
		return nil
	}
	out := make([]Listener, len(s.handles))
	copy(out, s.handles)
	return out
}

// len returns the number of registered listeners.
func (s *listenerSet) len() int {
	return len(s.handles)
}
