package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RonitSachdev/AirChords/internal/midi"
)

// ChordRepository persists the active chord assignment.
type ChordRepository struct {
	db *sql.DB
}

// Chords returns the chord repository for this store.
func (s *Store) Chords() *ChordRepository {
	return &ChordRepository{db: s.db}
}

// Notes are stored and exported as JSON integer arrays. []uint8 would
// round-trip through base64 under encoding/json, so the int conversion
// is deliberate.
func notesToInts(notes []uint8) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[i] = int(n)
	}
	return out
}

func intsToNotes(values []int) []uint8 {
	out := make([]uint8, 0, len(values))
	for _, v := range values {
		if v >= 0 && v <= 127 {
			out = append(out, uint8(v))
		}
	}
	return out
}

// Set stores the note list for a chord slot, replacing any previous
// assignment.
func (r *ChordRepository) Set(slot int, notes []uint8) error {
	if slot < midi.MinChordID || slot > midi.MaxChordID {
		return fmt.Errorf("chord slot must be %d-%d, got %d", midi.MinChordID, midi.MaxChordID, slot)
	}

	encoded, err := json.Marshal(notesToInts(notes))
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO chords (slot, notes, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET notes = excluded.notes, updated_at = excluded.updated_at`,
		slot, string(encoded), time.Now(),
	)
	return err
}

// Get retrieves the note list for a chord slot.
func (r *ChordRepository) Get(slot int) ([]uint8, error) {
	var encoded string
	err := r.db.QueryRow(`SELECT notes FROM chords WHERE slot = ?`, slot).Scan(&encoded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var values []int
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("decode chord %d: %w", slot, err)
	}
	return intsToNotes(values), nil
}

// Load builds a ChordSet from the stored assignment. Slots with no
// stored row fall back to the defaults, so a fresh database plays the
// factory chords.
func (r *ChordRepository) Load() (*midi.ChordSet, error) {
	chords := midi.DefaultChords()

	rows, err := r.db.Query(`SELECT slot, notes FROM chords`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			slot    int
			encoded string
		)
		if err := rows.Scan(&slot, &encoded); err != nil {
			return nil, err
		}

		var values []int
		if err := json.Unmarshal([]byte(encoded), &values); err != nil {
			return nil, fmt.Errorf("decode chord %d: %w", slot, err)
		}
		if err := chords.Set(slot, intsToNotes(values)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chords, nil
}

// Save persists every slot of a ChordSet.
func (r *ChordRepository) Save(chords *midi.ChordSet) error {
	for slot, notes := range chords.All() {
		if err := r.Set(slot, notes); err != nil {
			return err
		}
	}
	return nil
}

// chordFile is the portable JSON layout for chord import/export,
// compatible with configs exported by earlier releases.
type chordFile struct {
	Chords       map[string][]int `json:"chords"`
	ExportedFrom string           `json:"exported_from,omitempty"`
}

// Export writes the stored chord assignment as portable JSON.
func (r *ChordRepository) Export(w io.Writer) error {
	chords, err := r.Load()
	if err != nil {
		return err
	}

	file := chordFile{
		Chords:       make(map[string][]int),
		ExportedFrom: "AirChords",
	}
	for slot, notes := range chords.All() {
		file.Chords[fmt.Sprintf("%d", slot)] = notesToInts(notes)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file)
}

// Import reads a portable chord JSON file and stores every valid slot.
// Slots outside 1-5 and notes outside the MIDI range are skipped, not
// errors, so partially valid files still import.
func (r *ChordRepository) Import(rd io.Reader) error {
	var file chordFile
	if err := json.NewDecoder(rd).Decode(&file); err != nil {
		return fmt.Errorf("parse chord file: %w", err)
	}
	if file.Chords == nil {
		return fmt.Errorf("chord file has no chords")
	}

	for key, values := range file.Chords {
		var slot int
		if _, err := fmt.Sscanf(key, "%d", &slot); err != nil {
			continue
		}
		if slot < midi.MinChordID || slot > midi.MaxChordID {
			continue
		}

		if err := r.Set(slot, intsToNotes(values)); err != nil {
			return err
		}
	}
	return nil
}
