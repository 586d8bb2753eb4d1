package midi

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNotConnected is returned for note commands issued while no MIDI
// output port is open. The gesture pipeline treats it as advisory.
var ErrNotConnected = errors.New("midi output not connected")

// DefaultVelocity is the note-on velocity used until changed.
const DefaultVelocity = 100

// Controller sends chord start/stop commands to a MIDI output port.
// It tracks which notes are sounding so a chord switch or shutdown
// never leaves stuck notes, and satisfies the gesture.ChordSink
// contract.
type Controller struct {
	mu       sync.Mutex
	out      drivers.Out
	send     func(midi.Message) error
	chords   *ChordSet
	velocity uint8
	channel  uint8
	sounding map[uint8]bool
}

// NewController creates a Controller with the default chord set. No
// port is opened until Connect is called.
func NewController() *Controller {
	return &Controller{
		chords:   DefaultChords(),
		velocity: DefaultVelocity,
		sounding: make(map[uint8]bool),
	}
}

// ListDevices returns the names of the available MIDI output ports.
func (c *Controller) ListDevices() []string {
	ports := midi.GetOutPorts()
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.String())
	}
	return names
}

// Connect opens the named MIDI output port. An empty name selects the
// first available port.
func (c *Controller) Connect(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.out != nil {
		return nil
	}

	var (
		out drivers.Out
		err error
	)
	if name == "" {
		ports := midi.GetOutPorts()
		if len(ports) == 0 {
			return fmt.Errorf("no MIDI output ports available")
		}
		out = ports[0]
	} else {
		out, err = midi.FindOutPort(name)
		if err != nil {
			return fmt.Errorf("find MIDI port %q: %w", name, err)
		}
	}

	if err := out.Open(); err != nil {
		return fmt.Errorf("open MIDI port %q: %w", out.String(), err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		out.Close()
		return fmt.Errorf("attach to MIDI port %q: %w", out.String(), err)
	}

	c.out = out
	c.send = send
	log.Printf("Connected to MIDI output: %s", out.String())
	return nil
}

// Disconnect silences any sounding notes and closes the output port.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.out == nil {
		return
	}

	c.stopAllLocked()
	if err := c.out.Close(); err != nil {
		log.Printf("Error closing MIDI port: %v", err)
	}
	c.out = nil
	c.send = nil
}

// IsConnected reports whether an output port is open.
func (c *Controller) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out != nil
}

// StartChord sounds every note of the given chord slot.
func (c *Controller) StartChord(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send == nil {
		return ErrNotConnected
	}

	notes := c.chords.Get(id)
	if notes == nil {
		return fmt.Errorf("chord %d not configured", id)
	}

	var firstErr error
	for _, note := range notes {
		// Retrigger cleanly if the note is already sounding.
		if c.sounding[note] {
			c.send(midi.NoteOff(c.channel, note))
		}
		if err := c.send(midi.NoteOn(c.channel, note, c.velocity)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.sounding[note] = true
	}
	return firstErr
}

// StopChord silences every note of the given chord slot.
func (c *Controller) StopChord(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send == nil {
		return ErrNotConnected
	}

	notes := c.chords.Get(id)
	if notes == nil {
		return fmt.Errorf("chord %d not configured", id)
	}

	var firstErr error
	for _, note := range notes {
		if err := c.send(midi.NoteOff(c.channel, note)); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.sounding, note)
	}
	return firstErr
}

// StopAll silences everything the controller believes is sounding.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAllLocked()
}

func (c *Controller) stopAllLocked() {
	if c.send == nil {
		return
	}
	for note := range c.sounding {
		c.send(midi.NoteOff(c.channel, note))
	}
	c.sounding = make(map[uint8]bool)
}

// SetVelocity sets the note-on velocity, clamped to the MIDI range.
func (c *Controller) SetVelocity(v int) {
	if v < 0 {
		v = 0
	}
	if v > 127 {
		v = 127
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.velocity = uint8(v)
}

// SetChannel sets the MIDI channel (0-15); out-of-range values are
// ignored.
func (c *Controller) SetChannel(ch int) {
	if ch < 0 || ch > 15 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = uint8(ch)
}

// SetChords replaces the active chord set.
func (c *Controller) SetChords(chords *ChordSet) {
	if chords == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.chords = chords
}

// Chords returns the active chord set.
func (c *Controller) Chords() *ChordSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chords
}
