package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/RonitSachdev/AirChords/internal/app"
	"github.com/RonitSachdev/AirChords/internal/store"
)

func TestAPI_ChordWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := app.New(app.Config{Store: s})
	srv := New(Config{Store: s, App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Reassign chord slot 2
	updateBody := `{"notes": [50, 53, 57]}`
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/chords/2", bytes.NewBufferString(updateBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/chords/2 error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// The running controller picked up the change.
	if notes := a.Controller().Chords().Get(2); len(notes) != 3 || notes[0] != 50 {
		t.Errorf("controller chord 2 = %v, want [50 53 57]", notes)
	}

	// 2. List chords, reassignment visible alongside defaults
	resp, _ = client.Get(ts.URL + "/api/chords")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/chords status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Chords []struct {
			Slot  int   `json:"slot"`
			Notes []int `json:"notes"`
		} `json:"chords"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Chords) != 5 {
		t.Fatalf("len(chords) = %d, want 5", len(listed.Chords))
	}
	if listed.Chords[1].Notes[0] != 50 {
		t.Errorf("chord 2 notes = %v, want [50 53 57]", listed.Chords[1].Notes)
	}
	if listed.Chords[0].Notes[0] != 60 {
		t.Errorf("chord 1 notes = %v, want factory default", listed.Chords[0].Notes)
	}

	// 3. Save the current assignment as a preset
	resp, _ = client.Post(ts.URL+"/api/presets", "application/json", bytes.NewBufferString(`{"name": "my set"}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/presets status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// 4. Reassign slot 2 again, then restore the preset
	req, _ = http.NewRequest(http.MethodPut, ts.URL+"/api/chords/2", bytes.NewBufferString(`{"notes": [72]}`))
	resp, _ = client.Do(req)
	resp.Body.Close()

	resp, _ = client.Post(ts.URL+"/api/presets/"+created.ID+"/apply", "application/json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	notes, err := s.Chords().Get(2)
	if err != nil {
		t.Fatalf("Chords().Get(2) error = %v", err)
	}
	if len(notes) != 3 || notes[0] != 50 {
		t.Errorf("restored chord 2 = %v, want [50 53 57]", notes)
	}

	// 5. Session status is reachable
	resp, _ = client.Get(ts.URL + "/api/session")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/session status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var status app.Status
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()

	if status.Running {
		t.Error("session reported running before start")
	}
}
