package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/RonitSachdev/AirChords/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestChordsHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewChordsHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chords", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response listChordsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Chords) != 5 {
		t.Fatalf("expected 5 chord slots, got %d", len(response.Chords))
	}

	// Slot 1 carries the factory C major triad with note names.
	first := response.Chords[0]
	if first.Slot != 1 {
		t.Errorf("expected first slot 1, got %d", first.Slot)
	}
	if len(first.Notes) != 3 || first.Notes[0] != 60 {
		t.Errorf("expected slot 1 notes [60 64 67], got %v", first.Notes)
	}
	if len(first.Names) != 3 || first.Names[0] != "C4" {
		t.Errorf("expected slot 1 names starting with C4, got %v", first.Names)
	}
}

func TestChordsHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewChordsHandler(s, nil)

	if err := s.Chords().Set(2, []uint8{50, 53, 57}); err != nil {
		t.Fatalf("failed to seed chord: %v", err)
	}

	t.Run("returns stored chord", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/chords/2", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response chordResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Slot != 2 {
			t.Errorf("expected slot 2, got %d", response.Slot)
		}
		if len(response.Notes) != 3 || response.Notes[0] != 50 {
			t.Errorf("expected notes [50 53 57], got %v", response.Notes)
		}
	})

	t.Run("returns default for unassigned slot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/chords/4", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response chordResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(response.Notes) != 3 || response.Notes[0] != 65 {
			t.Errorf("expected factory notes [65 69 72], got %v", response.Notes)
		}
	})

	t.Run("returns 404 for slot out of range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/chords/9", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestChordsHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewChordsHandler(s, nil)

	t.Run("replaces chord notes", func(t *testing.T) {
		body := []byte(`{"notes": [48, 52, 55, 60]}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/3", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		notes, err := s.Chords().Get(3)
		if err != nil {
			t.Fatalf("failed to read back chord: %v", err)
		}
		if len(notes) != 4 || notes[3] != 60 {
			t.Errorf("stored notes = %v, want [48 52 55 60]", notes)
		}
	})

	t.Run("accepts note names", func(t *testing.T) {
		body := []byte(`{"notes": ["C3", "Eb3", "G3", 60]}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/2", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		notes, err := s.Chords().Get(2)
		if err != nil {
			t.Fatalf("failed to read back chord: %v", err)
		}
		want := []uint8{48, 51, 55, 60}
		if len(notes) != len(want) {
			t.Fatalf("stored notes = %v, want %v", notes, want)
		}
		for i := range want {
			if notes[i] != want[i] {
				t.Fatalf("stored notes = %v, want %v", notes, want)
			}
		}
	})

	t.Run("rejects empty notes", func(t *testing.T) {
		body := []byte(`{"notes": []}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/3", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects notes outside MIDI range", func(t *testing.T) {
		body := []byte(`{"notes": [60, 200]}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/3", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects unknown note names", func(t *testing.T) {
		body := []byte(`{"notes": ["H4"]}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/3", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects slot out of range", func(t *testing.T) {
		body := []byte(`{"notes": [60]}`)
		req := httptest.NewRequest(http.MethodPut, "/api/chords/6", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestChordsHandler_ExportImport(t *testing.T) {
	s := newTestStore(t)
	handler := NewChordsHandler(s, nil)

	if err := s.Chords().Set(1, []uint8{40, 44, 47}); err != nil {
		t.Fatalf("failed to seed chord: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chords/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd == "" {
		t.Error("export: expected Content-Disposition header")
	}

	// Import the export into a fresh store.
	s2 := newTestStore(t)
	handler2 := NewChordsHandler(s2, nil)

	req = httptest.NewRequest(http.MethodPost, "/api/chords/import", rec.Body)
	rec = httptest.NewRecorder()
	handler2.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	notes, err := s2.Chords().Get(1)
	if err != nil {
		t.Fatalf("failed to read back imported chord: %v", err)
	}
	if len(notes) != 3 || notes[0] != 40 {
		t.Errorf("imported notes = %v, want [40 44 47]", notes)
	}
}

func TestChordsHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewChordsHandler(s, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/chords", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
