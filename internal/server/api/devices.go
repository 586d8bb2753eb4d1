package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RonitSachdev/AirChords/internal/app"
	"github.com/RonitSachdev/AirChords/internal/store"
)

// DevicesHandler handles HTTP requests for MIDI output devices.
type DevicesHandler struct {
	store *store.Store
	app   *app.App
}

// NewDevicesHandler creates a new DevicesHandler. The store may be nil;
// when set, the chosen device is persisted.
func NewDevicesHandler(s *store.Store, a *app.App) *DevicesHandler {
	return &DevicesHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *DevicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/devices or /api/devices/connect
	path := strings.TrimPrefix(r.URL.Path, "/api/devices")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case "connect":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.connect(w, r)
	case "disconnect":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.disconnect(w, r)
	default:
		writeError(w, http.StatusNotFound, "Unknown device resource")
	}
}

type listDevicesResponse struct {
	Devices   []string `json:"devices"`
	Connected bool     `json:"connected"`
}

type connectDeviceRequest struct {
	// Name selects the output port. Empty means the first available one.
	Name string `json:"name"`
}

// list handles GET /api/devices and returns the available MIDI outputs.
func (h *DevicesHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listDevicesResponse{
		Devices:   h.app.Controller().ListDevices(),
		Connected: h.app.Controller().IsConnected(),
	})
}

// connect handles POST /api/devices/connect and opens a MIDI output.
func (h *DevicesHandler) connect(w http.ResponseWriter, r *http.Request) {
	var req connectDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.Controller().Connect(req.Name); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to open MIDI output: "+err.Error())
		return
	}

	if h.store != nil {
		ms := h.store.Settings().MIDISettings()
		ms.Device = req.Name
		if err := h.store.Settings().SaveMIDISettings(ms); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save device setting")
			return
		}
	}

	h.list(w, r)
}

// disconnect handles POST /api/devices/disconnect and closes the output.
func (h *DevicesHandler) disconnect(w http.ResponseWriter, r *http.Request) {
	h.app.Controller().Disconnect()
	h.list(w, r)
}
