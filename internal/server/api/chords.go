// Package api provides HTTP API handlers for the AirChords gesture controller.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/RonitSachdev/AirChords/internal/app"
	"github.com/RonitSachdev/AirChords/internal/midi"
	"github.com/RonitSachdev/AirChords/internal/store"
)

// ChordsHandler handles HTTP requests for the chord slot assignment.
type ChordsHandler struct {
	store *store.Store
	app   *app.App
}

// NewChordsHandler creates a new ChordsHandler. The app may be nil; when
// set, chord changes are pushed into the running controller.
func NewChordsHandler(s *store.Store, a *app.App) *ChordsHandler {
	return &ChordsHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ChordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/chords, /api/chords/export, /api/chords/import
	// or /api/chords/{slot}
	path := strings.TrimPrefix(r.URL.Path, "/api/chords")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case path == "export":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.export(w, r)
	case path == "import":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.importChords(w, r)
	default:
		slot, err := strconv.Atoi(path)
		if err != nil {
			writeError(w, http.StatusNotFound, "Unknown chord resource")
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, slot)
		case http.MethodPut:
			h.update(w, r, slot)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// Request and response types

type chordResponse struct {
	Slot  int      `json:"slot"`
	Notes []int    `json:"notes"`
	Names []string `json:"names"`
}

type listChordsResponse struct {
	Chords []chordResponse `json:"chords"`
}

type updateChordRequest struct {
	Notes []noteValue `json:"notes"`
}

// noteValue is a MIDI note in a chord update request, given either as a
// note number or as a name such as "C4" or "Eb3".
type noteValue uint8

func (n *noteValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		v, err := midi.ParseNote(name)
		if err != nil {
			return err
		}
		*n = noteValue(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v < 0 || v > 127 {
		return fmt.Errorf("note %d out of MIDI range", v)
	}
	*n = noteValue(v)
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// toChordResponse converts a slot and its notes to a chordResponse.
func toChordResponse(slot int, notes []uint8) chordResponse {
	resp := chordResponse{
		Slot:  slot,
		Notes: make([]int, 0, len(notes)),
		Names: make([]string, 0, len(notes)),
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, int(n))
		resp.Names = append(resp.Names, midi.NoteName(n))
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// reload pushes the stored chord assignment into the running controller.
func (h *ChordsHandler) reload() {
	if h.app == nil {
		return
	}
	if err := h.app.LoadChords(); err != nil {
		log.Printf("Failed to reload chords: %v", err)
	}
}

// list handles GET /api/chords and returns all five chord slots with
// defaults filled in for unassigned slots.
func (h *ChordsHandler) list(w http.ResponseWriter, r *http.Request) {
	chords, err := h.store.Chords().Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chords")
		return
	}

	response := listChordsResponse{
		Chords: make([]chordResponse, 0, midi.MaxChordID),
	}
	for slot := midi.MinChordID; slot <= midi.MaxChordID; slot++ {
		response.Chords = append(response.Chords, toChordResponse(slot, chords.Get(slot)))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/chords/{slot} and returns a single chord slot.
func (h *ChordsHandler) get(w http.ResponseWriter, r *http.Request, slot int) {
	if slot < midi.MinChordID || slot > midi.MaxChordID {
		writeError(w, http.StatusNotFound, "Chord slot out of range")
		return
	}

	notes, err := h.store.Chords().Get(slot)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Unassigned slot: report the factory default.
			writeJSON(w, http.StatusOK, toChordResponse(slot, midi.DefaultChords().Get(slot)))
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get chord")
		return
	}

	writeJSON(w, http.StatusOK, toChordResponse(slot, notes))
}

// update handles PUT /api/chords/{slot} and replaces the notes of a slot.
func (h *ChordsHandler) update(w http.ResponseWriter, r *http.Request, slot int) {
	var req updateChordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chord notes")
		return
	}

	if len(req.Notes) == 0 {
		writeError(w, http.StatusBadRequest, "Notes are required")
		return
	}

	notes := make([]uint8, 0, len(req.Notes))
	for _, n := range req.Notes {
		notes = append(notes, uint8(n))
	}

	if err := h.store.Chords().Set(slot, notes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chord slot")
		return
	}
	h.reload()

	writeJSON(w, http.StatusOK, toChordResponse(slot, notes))
}

// export handles GET /api/chords/export and returns the chord file as a
// download.
func (h *ChordsHandler) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="airchords-chords.json"`)
	if err := h.store.Chords().Export(w); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export chords")
	}
}

// importChords handles POST /api/chords/import and loads a chord file.
func (h *ChordsHandler) importChords(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Chords().Import(r.Body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chord file")
		return
	}
	h.reload()

	h.list(w, r)
}
