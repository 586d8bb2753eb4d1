// Package midi implements the chord command sink on top of a MIDI
// output device.
package midi

import (
	"fmt"
	"strconv"
	"strings"
)

// Chord slots addressable by gesture. Slot n is played by showing n
// fingers.
const (
	MinChordID = 1
	MaxChordID = 5
)

// ChordSet maps chord slots (1-5) to ordered MIDI note lists.
type ChordSet struct {
	chords map[int][]uint8
}

// DefaultChords returns the factory chord assignment, triads rooted on
// C, D, E, F and G.
func DefaultChords() *ChordSet {
	return &ChordSet{
		chords: map[int][]uint8{
			1: {60, 64, 67}, // C, E, G
			2: {62, 66, 69}, // D, F#, A
			3: {64, 68, 71}, // E, G#, B
			4: {65, 69, 72}, // F, A, C
			5: {67, 71, 74}, // G, B, D
		},
	}
}

// NewChordSet returns an empty chord set.
func NewChordSet() *ChordSet {
	return &ChordSet{chords: make(map[int][]uint8)}
}

// Get returns the notes assigned to a chord slot, nil when unassigned.
// The returned slice is a copy.
func (c *ChordSet) Get(id int) []uint8 {
	notes, ok := c.chords[id]
	if !ok {
		return nil
	}
	out := make([]uint8, len(notes))
	copy(out, notes)
	return out
}

// Set assigns notes to a chord slot. The slot must be 1-5 and every
// note must be a valid MIDI note number.
func (c *ChordSet) Set(id int, notes []uint8) error {
	if id < MinChordID || id > MaxChordID {
		return fmt.Errorf("chord id must be %d-%d, got %d", MinChordID, MaxChordID, id)
	}
	for _, n := range notes {
		if n > 127 {
			return fmt.Errorf("MIDI note out of range: %d", n)
		}
	}
	c.chords[id] = append([]uint8(nil), notes...)
	return nil
}

// All returns a copy of every chord assignment.
func (c *ChordSet) All() map[int][]uint8 {
	out := make(map[int][]uint8, len(c.chords))
	for id, notes := range c.chords {
		out[id] = append([]uint8(nil), notes...)
	}
	return out
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4,
	"F": 5, "F#": 6, "GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9,
	"A#": 10, "BB": 10, "B": 11,
}

// NoteName converts a MIDI note number to its name, C4 = 60 convention.
func NoteName(note uint8) string {
	if note > 127 {
		return "Invalid"
	}
	octave := int(note)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// ParseNote converts a note name such as "C4" or "F#3" (flats spelled
// "Db", "Eb", ...) to a MIDI note number. Octaves run -1 to 9, so the
// lowest notes are spelled "C-1" through "B-1".
func ParseNote(name string) (uint8, error) {
	// The pitch class is the leading run of letters and accidentals;
	// everything after it is the octave, possibly negative.
	split := 0
	for split < len(name) {
		ch := name[split]
		if ch == '-' || (ch >= '0' && ch <= '9') {
			break
		}
		split++
	}
	if split == 0 || split == len(name) {
		return 0, fmt.Errorf("invalid note name %q", name)
	}

	offset, ok := noteOffsets[strings.ToUpper(name[:split])]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", name)
	}

	octave, err := strconv.Atoi(name[split:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in %q", name)
	}

	n := (octave+1)*12 + offset
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note %q outside MIDI range", name)
	}
	return uint8(n), nil
}
