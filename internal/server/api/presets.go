package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/RonitSachdev/AirChords/internal/app"
	"github.com/RonitSachdev/AirChords/internal/store"
)

// PresetsHandler handles HTTP requests for saved chord presets.
type PresetsHandler struct {
	store *store.Store
	app   *app.App
}

// NewPresetsHandler creates a new PresetsHandler. The app may be nil;
// when set, applying a preset reloads the running controller.
func NewPresetsHandler(s *store.Store, a *app.App) *PresetsHandler {
	return &PresetsHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PresetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/presets, /api/presets/{id} or
	// /api/presets/{id}/apply
	path := strings.TrimPrefix(r.URL.Path, "/api/presets")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/apply"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.apply(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createPresetRequest struct {
	Name string `json:"name"`
	// Chords optionally names the slot assignment to save. When empty,
	// the currently stored chords are snapshotted.
	Chords map[string][]int `json:"chords"`
}

type presetResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Chords    map[string][]int `json:"chords"`
	CreatedAt string           `json:"created_at"`
}

type listPresetsResponse struct {
	Presets []presetResponse `json:"presets"`
}

// toPresetResponse converts a store.Preset to a presetResponse.
func toPresetResponse(p *store.Preset) presetResponse {
	resp := presetResponse{
		ID:        p.ID,
		Name:      p.Name,
		Chords:    make(map[string][]int),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for slot, notes := range p.Chords {
		values := make([]int, len(notes))
		for i, n := range notes {
			values[i] = int(n)
		}
		resp.Chords[strconv.Itoa(slot)] = values
	}
	return resp
}

// list handles GET /api/presets and returns all presets, newest first.
func (h *PresetsHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets")
		return
	}

	response := listPresetsResponse{
		Presets: make([]presetResponse, 0, len(presets)),
	}
	for _, p := range presets {
		response.Presets = append(response.Presets, toPresetResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/presets/{id} and returns a single preset.
func (h *PresetsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}

	writeJSON(w, http.StatusOK, toPresetResponse(preset))
}

// create handles POST /api/presets and saves a new preset.
func (h *PresetsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	chords, err := h.resolveChords(req.Chords)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	preset := &store.Preset{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Chords: chords,
	}

	if err := h.store.Presets().Create(preset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create preset")
		return
	}

	// Read back so the response carries the stored creation time.
	stored, err := h.store.Presets().GetByID(preset.ID)
	if err != nil {
		stored = preset
	}

	writeJSON(w, http.StatusCreated, toPresetResponse(stored))
}

// resolveChords turns the request chords into a slot map, falling back
// to a snapshot of the current assignment when none were given.
func (h *PresetsHandler) resolveChords(raw map[string][]int) (map[int][]uint8, error) {
	if len(raw) == 0 {
		current, err := h.store.Chords().Load()
		if err != nil {
			return nil, errors.New("failed to snapshot current chords")
		}
		return current.All(), nil
	}

	chords := make(map[int][]uint8, len(raw))
	for key, values := range raw {
		slot, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.New("invalid chord slot " + key)
		}
		notes := make([]uint8, 0, len(values))
		for _, v := range values {
			if v < 0 || v > 127 {
				return nil, errors.New("note out of MIDI range")
			}
			notes = append(notes, uint8(v))
		}
		chords[slot] = notes
	}
	return chords, nil
}

// delete handles DELETE /api/presets/{id} and removes a preset.
func (h *PresetsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Presets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete preset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// apply handles POST /api/presets/{id}/apply and makes a preset the
// active chord assignment.
func (h *PresetsHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}

	for slot, notes := range preset.Chords {
		if err := h.store.Chords().Set(slot, notes); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to apply preset")
			return
		}
	}

	if h.app != nil {
		if err := h.app.LoadChords(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reload chords")
			return
		}
	}

	writeJSON(w, http.StatusOK, toPresetResponse(preset))
}
