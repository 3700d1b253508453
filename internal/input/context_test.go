package input

import (
	"sync"
	"testing"
	"time"
)

// statusRecorder records status events in arrival order.
type statusRecorder struct {
	mu     sync.Mutex
	events []StatusEvent
}

func (r *statusRecorder) OnStatusChanged(_ *DeviceContext, ev StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *statusRecorder) Events() []StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StatusEvent, len(r.events))
	copy(out, r.events)
	return out
}

// channelRecorder records channel events in arrival order.
type channelRecorder struct {
	mu     sync.Mutex
	events []ChannelEvent
}

func (r *channelRecorder) OnChannelData(_ *DeviceContext, ev ChannelEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *channelRecorder) Events() []ChannelEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChannelEvent, len(r.events))
	copy(out, r.events)
	return out
}

// dualRecorder implements both capabilities and records the interleaved
// order of everything it receives.
type dualRecorder struct {
	mu  sync.Mutex
	log []string
}

func (r *dualRecorder) OnStatusChanged(_ *DeviceContext, _ StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, "status")
}

func (r *dualRecorder) OnChannelData(_ *DeviceContext, ev ChannelEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, "channel")
	_ = ev
}

func (r *dualRecorder) Log() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.log))
	copy(out, r.log)
	return out
}

// inertListener implements neither capability.
type inertListener struct{}

func testConfig() *Config {
	return &Config{
		DisplayName: "Test Pad",
		Type:        "gamepad",
		CanVibrate:  true,
		Channels: []Channel{
			{Name: "axis0", Type: ChannelTypeX, Min: -1, Max: 1, Accuracy: 0.05},
			{Name: "axis1", Type: ChannelTypeY, Min: -1, Max: 1, Accuracy: 0.05},
		},
	}
}

func newTestContext(t *testing.T) *DeviceContext {
	t.Helper()
	d, err := NewDeviceContext(1, testConfig())
	if err != nil {
		t.Fatalf("NewDeviceContext() error = %v", err)
	}
	return d
}

func TestNewDeviceContext(t *testing.T) {
	d := newTestContext(t)

	if d.ID() != 1 {
		t.Errorf("ID() = %d, want 1", d.ID())
	}
	if d.ConnectionState() != Disconnected {
		t.Errorf("ConnectionState() = %q, want %q", d.ConnectionState(), Disconnected)
	}
	if d.IsConnected() {
		t.Error("IsConnected() = true for a new context")
	}
	if _, ok := d.Sample(0); ok {
		t.Error("Sample(0) reported data on a new context")
	}

	if _, err := NewDeviceContext(2, nil); err != ErrNilConfig {
		t.Errorf("NewDeviceContext(nil) error = %v, want ErrNilConfig", err)
	}
}

func TestSetConnectionState(t *testing.T) {
	d := newTestContext(t)
	status := &statusRecorder{}
	d.AddListener(status)

	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	events := status.Events()
	if len(events) != 1 {
		t.Fatalf("got %d status events, want 1", len(events))
	}
	if !events[0].ConnectionChanged || events[0].Reconfigured {
		t.Errorf("event = %+v, want connection_changed only", events[0])
	}
	if !d.IsConnected() {
		t.Error("IsConnected() = false after connect")
	}

	// Same state again is a no-op.
	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	if got := len(status.Events()); got != 1 {
		t.Errorf("redundant update produced %d events, want 1", got)
	}
}

func TestSetConnectionStateInvalid(t *testing.T) {
	d := newTestContext(t)

	tests := []struct {
		name  string
		state ConnectionState
	}{
		{"empty", ConnectionState("")},
		{"unknown", ConnectionState("dangling")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.SetConnectionState(tt.state); err != ErrInvalidConnectionState {
				t.Errorf("error = %v, want ErrInvalidConnectionState", err)
			}
		})
	}
}

func TestSetConfig(t *testing.T) {
	d := newTestContext(t)
	status := &statusRecorder{}
	d.AddListener(status)

	if err := d.SetConfig(nil); err != ErrNilConfig {
		t.Errorf("SetConfig(nil) error = %v, want ErrNilConfig", err)
	}

	// Value-equal config is a no-op even though it is a distinct object.
	if err := d.SetConfig(testConfig()); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if got := len(status.Events()); got != 0 {
		t.Fatalf("value-equal reconfigure produced %d events, want 0", got)
	}

	cfg2 := testConfig()
	cfg2.Channels = append(cfg2.Channels, Channel{Name: "axis2", Min: -1, Max: 1})
	if err := d.SetConfig(cfg2); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	events := status.Events()
	if len(events) != 1 {
		t.Fatalf("got %d status events, want 1", len(events))
	}
	if !events[0].Reconfigured || events[0].ConnectionChanged {
		t.Errorf("event = %+v, want reconfigured only", events[0])
	}
	if d.Config() != cfg2 {
		t.Error("Config() does not return the new snapshot")
	}
}

func TestUpdateChannelStoresAndDispatches(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	d.UpdateChannel(0, Sample{Value: 0.5, Timestamp: ts})

	got, ok := d.Sample(0)
	if !ok {
		t.Fatal("Sample(0) missing after update")
	}
	if got.Value != 0.5 || !got.Timestamp.Equal(ts) {
		t.Errorf("Sample(0) = %+v, want value 0.5 at %v", got, ts)
	}

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("got %d channel events, want 1", len(events))
	}
	if events[0].Index != 0 || events[0].Sample.Value != 0.5 {
		t.Errorf("event = %+v, want index 0 value 0.5", events[0])
	}
	if events[0].Config == nil {
		t.Error("event carries no config reference")
	}
}

func TestUpdateChannelUnknownIndex(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	d.UpdateChannel(-1, NewSample(0.5))
	d.UpdateChannel(7, NewSample(0.5))

	if got := len(rec.Events()); got != 0 {
		t.Errorf("unknown index produced %d events, want 0", got)
	}
	if _, ok := d.Sample(7); ok {
		t.Error("unknown index stored a sample")
	}
}

func TestNoiseRejection(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		first    float64
		second   float64
		want     bool // second update accepted?
	}{
		{"below threshold", 0.05, 0.5, 0.52, false},
		{"at threshold passes", 0.05, 0.5, 0.55, true},
		{"above threshold", 0.05, 0.5, 0.6, true},
		{"below on the low side", 0.05, 0.5, 0.46, false},
		{"default epsilon suppresses", 0, 0.5, 0.505, false},
		{"default epsilon passes", 0, 0.5, 0.52, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DisplayName: "noise",
				Channels:    []Channel{{Min: -1, Max: 1, Accuracy: tt.accuracy}},
			}
			d, err := NewDeviceContext(1, cfg)
			if err != nil {
				t.Fatalf("NewDeviceContext() error = %v", err)
			}
			rec := &channelRecorder{}
			d.AddListener(rec)

			d.UpdateChannel(0, NewSample(tt.first))
			d.UpdateChannel(0, NewSample(tt.second))

			wantEvents := 1
			wantValue := tt.first
			if tt.want {
				wantEvents = 2
				wantValue = tt.second
			}
			if got := len(rec.Events()); got != wantEvents {
				t.Errorf("got %d events, want %d", got, wantEvents)
			}
			s, _ := d.Sample(0)
			if s.Value != wantValue {
				t.Errorf("Sample(0).Value = %v, want %v", s.Value, wantValue)
			}
		})
	}
}

func TestClamping(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	d.UpdateChannel(0, Sample{Value: 3.0, Timestamp: ts})

	s, _ := d.Sample(0)
	if s.Value != 1.0 {
		t.Errorf("Sample(0).Value = %v, want clamped 1.0", s.Value)
	}
	if !s.Timestamp.Equal(ts) {
		t.Error("clamping did not preserve the timestamp")
	}

	// Further out-of-range values clamp to the same boundary and are
	// suppressed as duplicates of the clamped value, not re-reported.
	d.UpdateChannel(0, NewSample(5.0))
	d.UpdateChannel(0, NewSample(1.02))
	if got := len(rec.Events()); got != 1 {
		t.Errorf("repeated boundary updates produced %d events, want 1", got)
	}

	d.UpdateChannel(0, NewSample(-4.0))
	s, _ = d.Sample(0)
	if s.Value != -1.0 {
		t.Errorf("Sample(0).Value = %v, want clamped -1.0", s.Value)
	}
	if got := len(rec.Events()); got != 2 {
		t.Errorf("got %d events after swing to min, want 2", got)
	}
}

func TestBatchCoalescing(t *testing.T) {
	d := newTestContext(t)
	status := &statusRecorder{}
	d.AddListener(status)

	cfg2 := testConfig()
	cfg2.DisplayName = "Renamed Pad"

	d.BeginUpdate()
	if !d.IsUpdating() {
		t.Error("IsUpdating() = false inside a batch")
	}
	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	if err := d.SetConfig(cfg2); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if got := len(status.Events()); got != 0 {
		t.Fatalf("dispatch happened mid-batch: %d events", got)
	}
	d.EndUpdate()

	events := status.Events()
	if len(events) != 1 {
		t.Fatalf("got %d status events, want exactly 1 coalesced event", len(events))
	}
	if !events[0].ConnectionChanged || !events[0].Reconfigured {
		t.Errorf("event = %+v, want both flags set", events[0])
	}
}

func TestStatusBeforeData(t *testing.T) {
	d := newTestContext(t)
	dual := &dualRecorder{}
	d.AddListener(dual)

	cfg2 := testConfig()
	cfg2.DisplayName = "Renamed Pad"

	d.BeginUpdate()
	if err := d.SetConfig(cfg2); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	d.UpdateChannel(0, NewSample(0.5))
	d.UpdateChannel(1, NewSample(-0.5))
	d.EndUpdate()

	want := []string{"status", "channel", "channel"}
	got := dual.Log()
	if len(got) != len(want) {
		t.Fatalf("dispatch log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch log = %v, want %v", got, want)
		}
	}
}

func TestChannelEventOrdering(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	d.BeginUpdate()
	d.UpdateChannel(1, NewSample(0.3))
	d.UpdateChannel(0, NewSample(-0.7))
	d.UpdateChannel(1, NewSample(0.9))
	d.EndUpdate()

	events := rec.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	wantIdx := []int{1, 0, 1}
	wantVal := []float64{0.3, -0.7, 0.9}
	for i := range events {
		if events[i].Index != wantIdx[i] || events[i].Sample.Value != wantVal[i] {
			t.Errorf("event %d = {index %d value %v}, want {index %d value %v}",
				i, events[i].Index, events[i].Sample.Value, wantIdx[i], wantVal[i])
		}
	}
}

func TestEmptyBatchNoDispatch(t *testing.T) {
	d := newTestContext(t)
	status := &statusRecorder{}
	rec := &channelRecorder{}
	d.AddListener(status)
	d.AddListener(rec)

	d.BeginUpdate()
	// No-op mutations inside the batch must leave it empty.
	if err := d.SetConnectionState(Disconnected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	if err := d.SetConfig(testConfig()); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	d.EndUpdate()

	if got := len(status.Events()); got != 0 {
		t.Errorf("empty batch produced %d status events", got)
	}
	if got := len(rec.Events()); got != 0 {
		t.Errorf("empty batch produced %d channel events", got)
	}
}

func TestBeginUpdateIdempotent(t *testing.T) {
	d := newTestContext(t)
	status := &statusRecorder{}
	d.AddListener(status)

	d.BeginUpdate()
	d.BeginUpdate() // nested begin is a no-op, not a new batch
	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	d.EndUpdate()

	if got := len(status.Events()); got != 1 {
		t.Errorf("got %d events, want 1", got)
	}
	if d.IsUpdating() {
		t.Error("IsUpdating() = true after EndUpdate")
	}

	// EndUpdate without a batch is a no-op.
	d.EndUpdate()
	if got := len(status.Events()); got != 1 {
		t.Errorf("stray EndUpdate produced events: %d", got)
	}
}

func TestSampleVisibleMidBatch(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	d.BeginUpdate()
	d.UpdateChannel(0, NewSample(0.5))

	// Reads are not gated by batching: the stored sample is visible
	// before its event has been delivered.
	s, ok := d.Sample(0)
	if !ok || s.Value != 0.5 {
		t.Errorf("Sample(0) = %+v ok=%v mid-batch, want value 0.5", s, ok)
	}
	if got := len(rec.Events()); got != 0 {
		t.Errorf("dispatch happened mid-batch: %d events", got)
	}
	d.EndUpdate()
}

func TestListenerSetSemantics(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}

	d.AddListener(rec)
	d.AddListener(rec) // duplicate registration is a no-op
	d.AddListener(nil)
	if got := d.ListenerCount(); got != 1 {
		t.Fatalf("ListenerCount() = %d, want 1", got)
	}

	d.UpdateChannel(0, NewSample(0.5))
	if got := len(rec.Events()); got != 1 {
		t.Errorf("duplicate listener received %d events, want 1", got)
	}

	d.RemoveListener(rec)
	d.RemoveListener(rec) // absent removal is a no-op
	d.UpdateChannel(0, NewSample(-0.5))
	if got := len(rec.Events()); got != 1 {
		t.Errorf("removed listener received %d events, want 1", got)
	}
}

// removeDuringDispatch removes another listener from the context while
// handling its own event.
type removeDuringDispatch struct {
	d      *DeviceContext
	victim Listener
}

func (r *removeDuringDispatch) OnChannelData(_ *DeviceContext, _ ChannelEvent) {
	r.d.RemoveListener(r.victim)
}

func TestRemoveDuringDispatch(t *testing.T) {
	d := newTestContext(t)
	victim := &channelRecorder{}
	remover := &removeDuringDispatch{d: d, victim: victim}

	// Remover is registered first, so it runs first and removes the
	// victim mid-pass. The victim was snapshotted before the pass began
	// and must still receive the current event.
	d.AddListener(remover)
	d.AddListener(victim)

	d.UpdateChannel(0, NewSample(0.5))
	if got := len(victim.Events()); got != 1 {
		t.Errorf("snapshotted listener received %d events, want 1", got)
	}

	d.UpdateChannel(0, NewSample(-0.5))
	if got := len(victim.Events()); got != 1 {
		t.Errorf("removed listener received %d events, want 1", got)
	}
}

func TestInertListenerSkipped(t *testing.T) {
	d := newTestContext(t)
	inert := &inertListener{}
	rec := &channelRecorder{}
	d.AddListener(inert)
	d.AddListener(rec)

	// Dispatch must tolerate listeners implementing neither capability.
	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	d.UpdateChannel(0, NewSample(0.5))
	if got := len(rec.Events()); got != 1 {
		t.Errorf("got %d events, want 1", got)
	}
}

// panickyListener panics on every event.
type panickyListener struct{}

func (panickyListener) OnChannelData(_ *DeviceContext, _ ChannelEvent) {
	panic("listener bug")
}

func (panickyListener) OnStatusChanged(_ *DeviceContext, _ StatusEvent) {
	panic("listener bug")
}

func TestListenerPanicIsolation(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	status := &statusRecorder{}
	d.AddListener(&panickyListener{})
	d.AddListener(rec)
	d.AddListener(status)

	d.BeginUpdate()
	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	d.UpdateChannel(0, NewSample(0.5))
	d.EndUpdate()

	if got := len(rec.Events()); got != 1 {
		t.Errorf("listener after a panicking one received %d channel events, want 1", got)
	}
	if got := len(status.Events()); got != 1 {
		t.Errorf("listener after a panicking one received %d status events, want 1", got)
	}
}

// reentrantListener feeds a new sample back into the context from inside
// a dispatch callback. The inner update dispatches back into this same
// method before the outer call returns, so the guard must tolerate
// nested invocation: a plain flag is safe because dispatch runs on one
// goroutine.
type reentrantListener struct {
	d     *DeviceContext
	fired bool
}

func (r *reentrantListener) OnChannelData(_ *DeviceContext, _ ChannelEvent) {
	if r.fired {
		return
	}
	r.fired = true
	r.d.UpdateChannel(1, NewSample(0.9))
}

func TestReentrantDispatch(t *testing.T) {
	d := newTestContext(t)
	re := &reentrantListener{d: d}
	rec := &channelRecorder{}
	d.AddListener(re)
	d.AddListener(rec)

	// The re-entrant update runs in its own ambient batch; no deadlock,
	// and both events arrive.
	d.UpdateChannel(0, NewSample(0.5))

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (original + re-entrant)", len(events))
	}
	// The inner batch finishes dispatching before the outer pass moves
	// on, so the re-entrant event lands first at this listener.
	if events[0].Index != 1 || events[0].Sample.Value != 0.9 {
		t.Errorf("first event = channel %d value %v, want re-entrant channel 1 value 0.9",
			events[0].Index, events[0].Sample.Value)
	}
	if events[1].Index != 0 || events[1].Sample.Value != 0.5 {
		t.Errorf("second event = channel %d value %v, want original channel 0 value 0.5",
			events[1].Index, events[1].Sample.Value)
	}
	if got, ok := d.Sample(1); !ok || got.Value != 0.9 {
		t.Errorf("Sample(1) = %v, %v; want re-entrant sample stored", got, ok)
	}
}

func TestVibrate(t *testing.T) {
	d := newTestContext(t)

	var gotSettings VibrationSettings
	calls := 0
	d.SetVibrationHandler(func(_ *DeviceContext, s VibrationSettings) {
		calls++
		gotSettings = s
	})

	want := VibrationSettings{Duration: 250 * time.Millisecond, Strength: 0.8}
	d.Vibrate(want)
	if calls != 1 {
		t.Fatalf("handler invoked %d times, want 1", calls)
	}
	if gotSettings != want {
		t.Errorf("handler settings = %+v, want %+v", gotSettings, want)
	}

	// Replacing the handler silently drops the previous one.
	d.SetVibrationHandler(func(_ *DeviceContext, _ VibrationSettings) {})
	d.Vibrate(want)
	if calls != 1 {
		t.Errorf("replaced handler still invoked: calls = %d", calls)
	}

	// No handler registered is a no-op.
	d.SetVibrationHandler(nil)
	d.Vibrate(want)
}

func TestVibrateNonCapableDevice(t *testing.T) {
	cfg := testConfig()
	cfg.CanVibrate = false
	d, err := NewDeviceContext(1, cfg)
	if err != nil {
		t.Fatalf("NewDeviceContext() error = %v", err)
	}

	calls := 0
	d.SetVibrationHandler(func(_ *DeviceContext, _ VibrationSettings) { calls++ })
	d.Vibrate(VibrationSettings{})
	if calls != 0 {
		t.Errorf("handler invoked %d times on a non-capable device, want 0", calls)
	}
}

// TestScenario walks the end-to-end sequence a producer actually runs:
// connect, a real sample, a jitter sample, a real movement.
func TestScenario(t *testing.T) {
	cfg := &Config{
		DisplayName: "scenario",
		Channels:    []Channel{{Min: -1, Max: 1, Accuracy: 0.05}},
	}
	d, err := NewDeviceContext(1, cfg)
	if err != nil {
		t.Fatalf("NewDeviceContext() error = %v", err)
	}
	status := &statusRecorder{}
	rec := &channelRecorder{}
	d.AddListener(status)
	d.AddListener(rec)

	if err := d.SetConnectionState(Connected); err != nil {
		t.Fatalf("SetConnectionState() error = %v", err)
	}
	sEvents := status.Events()
	if len(sEvents) != 1 || !sEvents[0].ConnectionChanged || sEvents[0].Reconfigured {
		t.Fatalf("status events = %+v, want one connection-only event", sEvents)
	}

	d.UpdateChannel(0, NewSample(0.5))
	if got := len(rec.Events()); got != 1 {
		t.Fatalf("got %d channel events, want 1", got)
	}

	// Delta 0.02 < 0.05: suppressed.
	d.UpdateChannel(0, NewSample(0.52))
	if got := len(rec.Events()); got != 1 {
		t.Fatalf("jitter dispatched: %d events", got)
	}
	s, _ := d.Sample(0)
	if s.Value != 0.5 {
		t.Fatalf("Sample(0).Value = %v, want 0.5 after suppressed jitter", s.Value)
	}

	// Delta 0.10 >= 0.05: stored and dispatched.
	d.UpdateChannel(0, NewSample(0.6))
	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("got %d channel events, want 2", len(events))
	}
	if events[1].Sample.Value != 0.6 {
		t.Errorf("second event value = %v, want 0.6", events[1].Sample.Value)
	}
}

func TestConcurrentProducersAndReaders(t *testing.T) {
	d := newTestContext(t)
	rec := &channelRecorder{}
	d.AddListener(rec)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				d.UpdateChannel(seed%2, NewSample(float64(i%20)/10-1))
			}
		}(g)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			d.Sample(0)
			d.ConnectionState()
			d.IsUpdating()
		}
	}()
	wg.Wait()

	// Every stored value must respect channel bounds.
	for idx := 0; idx < 2; idx++ {
		if s, ok := d.Sample(idx); ok {
			if s.Value < -1 || s.Value > 1 {
				t.Errorf("Sample(%d).Value = %v outside [-1, 1]", idx, s.Value)
			}
		}
	}
}
