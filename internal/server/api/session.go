package api

import (
	"net/http"
	"strings"

	"github.com/RonitSachdev/AirChords/internal/app"
)

// SessionHandler handles HTTP requests for the recognition session.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a new SessionHandler for the given app.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/session, /api/session/start,
	// /api/session/stop, /api/session/enable or /api/session/disable
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r)
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)
	case "enable":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setEnabled(w, r, true)
	case "disable":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setEnabled(w, r, false)
	default:
		writeError(w, http.StatusNotFound, "Unknown session resource")
	}
}

// status handles GET /api/session and returns the session snapshot.
func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Status())
}

// start handles POST /api/session/start and begins a recognition session.
func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.app.StartSession(); err != nil {
		writeError(w, http.StatusConflict, "Failed to start session: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.app.Status())
}

// stop handles POST /api/session/stop and halts the session.
func (h *SessionHandler) stop(w http.ResponseWriter, r *http.Request) {
	h.app.StopSession()
	writeJSON(w, http.StatusOK, h.app.Status())
}

// setEnabled handles POST /api/session/enable and /api/session/disable.
func (h *SessionHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	h.app.SetEnabled(enabled)
	writeJSON(w, http.StatusOK, h.app.Status())
}
