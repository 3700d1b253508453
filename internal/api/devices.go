package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tbransom/inputcore/internal/input"
)

// channelResponse is one channel of a device, with its latest accepted
// sample when one exists. Value is a pointer so a sample of exactly 0
// (a centered axis) is still serialised; a nil Value means the channel
// has not produced data yet.
type channelResponse struct {
	Index     int      `json:"index"`
	Name      string   `json:"name,omitempty"`
	Type      string   `json:"type,omitempty"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Accuracy  float64  `json:"accuracy"`
	Value     *float64 `json:"value,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// deviceResponse is the JSON shape of a device.
type deviceResponse struct {
	ID              int               `json:"id"`
	PermanentID     string            `json:"permanent_id"`
	DisplayName     string            `json:"display_name"`
	Type            string            `json:"type,omitempty"`
	ConnectionState string            `json:"connection_state"`
	Connected       bool              `json:"connected"`
	CanVibrate      bool              `json:"can_vibrate"`
	Channels        []channelResponse `json:"channels"`
}

// historyEntryResponse is one recorded sample.
type historyEntryResponse struct {
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
	CreatedAt string  `json:"created_at"`
}

// vibrateRequest is the body of POST /devices/{id}/vibrate.
type vibrateRequest struct {
	DurationMS int64   `json:"duration_ms"`
	Strength   float64 `json:"strength"`
}

// deviceFromContext builds the response shape for a device, merging the
// channel declarations with the latest accepted samples.
func deviceFromContext(d *input.DeviceContext) deviceResponse {
	cfg := d.Config()
	state := d.ConnectionState()

	resp := deviceResponse{
		ID:              d.ID(),
		PermanentID:     cfg.PermanentID,
		DisplayName:     cfg.DisplayName,
		Type:            cfg.Type,
		ConnectionState: state.String(),
		Connected:       state.IsConnected(),
		CanVibrate:      cfg.CanVibrate,
		Channels:        make([]channelResponse, 0, cfg.ChannelCount()),
	}
	for i, ch := range cfg.Channels {
		cr := channelResponse{
			Index:    i,
			Name:     ch.Name,
			Type:     string(ch.Type),
			Min:      ch.Min,
			Max:      ch.Max,
			Accuracy: ch.Accuracy,
		}
		if sample, ok := d.Sample(i); ok {
			cr.Value = &sample.Value
			cr.Timestamp = sample.Timestamp.UTC().Format(time.RFC3339Nano)
		}
		resp.Channels = append(resp.Channels, cr)
	}
	return resp
}

// deviceFromRequest resolves the {id} URL parameter to a device context.
// Numeric values are treated as session IDs; anything else is tried as a
// permanent ID so external collaborators can use stable addressing.
func (s *Server) deviceFromRequest(r *http.Request) (*input.DeviceContext, bool) {
	raw := chi.URLParam(r, "id")
	if id, err := strconv.Atoi(raw); err == nil {
		return s.devices.Device(id)
	}
	return s.devices.DeviceByPermanentID(raw)
}

// handleListDevices returns all registered devices in registration order.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	contexts := s.devices.Devices()
	devices := make([]deviceResponse, 0, len(contexts))
	for _, d := range contexts {
		devices = append(devices, deviceFromContext(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns a single device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, ok := s.deviceFromRequest(r)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, deviceFromContext(d))
}

// handleGetChannel returns one channel of a device.
func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	d, ok := s.deviceFromRequest(r)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "channel index must be an integer")
		return
	}
	ch, ok := d.Config().ChannelAt(index)
	if !ok {
		writeNotFound(w, "channel not found")
		return
	}

	cr := channelResponse{
		Index:    index,
		Name:     ch.Name,
		Type:     string(ch.Type),
		Min:      ch.Min,
		Max:      ch.Max,
		Accuracy: ch.Accuracy,
	}
	if sample, ok := d.Sample(index); ok {
		cr.Value = &sample.Value
		cr.Timestamp = sample.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, cr)
}

// handleChannelHistory returns recent recorded samples for a channel,
// newest first. The limit query parameter caps the result.
func (s *Server) handleChannelHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "history is not enabled")
		return
	}

	d, ok := s.deviceFromRequest(r)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "channel index must be an integer")
		return
	}
	if _, ok := d.Config().ChannelAt(index); !ok {
		writeNotFound(w, "channel not found")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
	}

	entries, err := s.history.Recent(r.Context(), d.ID(), index, limit)
	if err != nil {
		s.logger.Error("history query failed", "device_id", d.ID(), "channel", index, "error", err)
		writeInternalError(w, "history query failed")
		return
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{
			Value:     e.Value,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": d.ID(),
		"channel":   index,
		"entries":   out,
		"count":     len(out),
	})
}

// handleVibrate requests a vibration on the device. The request is
// accepted only when the device advertises the capability and a handler
// is installed; otherwise it reports a conflict so callers can tell a
// dropped command from a delivered one.
func (s *Server) handleVibrate(w http.ResponseWriter, r *http.Request) {
	d, ok := s.deviceFromRequest(r)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	var req vibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.DurationMS < 0 || req.Strength < 0 || req.Strength > 1 {
		writeBadRequest(w, "duration_ms must be >= 0 and strength within [0, 1]")
		return
	}

	if !d.Config().CanVibrate || d.VibrationHandler() == nil {
		writeConflict(w, "device does not support vibration")
		return
	}

	d.Vibrate(input.VibrationSettings{
		Duration: time.Duration(req.DurationMS) * time.Millisecond,
		Strength: req.Strength,
	})
	writeJSON(w, http.StatusAccepted, map[string]any{
		"accepted":  true,
		"device_id": d.ID(),
	})
}
