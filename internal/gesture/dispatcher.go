package gesture

// ChordSink receives chord start/stop commands resolved against an
// externally owned chord mapping. Implementations report connectivity;
// commands against a disconnected sink are no-ops, not faults.
type ChordSink interface {
	StartChord(id int) error
	StopChord(id int) error
	IsConnected() bool
}

// Notifier receives advisory presentation updates from the dispatcher.
// Calls must never block; a nil Notifier disables notifications.
type Notifier interface {
	// GestureChanged reports the new stable gesture value (0-5).
	GestureChanged(count int)
	// HighlightChanged reports the chord to highlight, 0 for none.
	HighlightChanged(chordID int)
}

// Dispatcher converts stable-gesture transitions into chord commands.
// It is edge triggered: commands are issued only when the stable value
// differs from the previous frame's value. At most one chord is active
// at any time; every transition stops the outgoing chord before the
// incoming one starts.
//
// A Dispatcher is owned by a single gesture session worker and is not
// safe for concurrent use.
type Dispatcher struct {
	sink     ChordSink
	notifier Notifier
	playing  int // currently sounding chord, 0 = none
	last     int // stable value seen on the previous frame
}

// NewDispatcher creates a Dispatcher sending commands to the given sink.
// notifier may be nil.
func NewDispatcher(sink ChordSink, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		sink:     sink,
		notifier: notifier,
	}
}

// Playing returns the currently active chord id, 0 when idle.
func (d *Dispatcher) Playing() int {
	return d.playing
}

// Update feeds one frame's stable gesture value. On a change it stops
// any active chord, then starts the new one when the value names a
// chord (1-5). Values outside that range leave the dispatcher idle and
// clear the highlight.
//
// Sink errors are returned for logging but never block the state
// transition: the dispatcher's chord state advances even when the sink
// is disconnected.
func (d *Dispatcher) Update(stable int) error {
	if stable == d.last {
		return nil
	}
	d.last = stable

	if d.notifier != nil {
		d.notifier.GestureChanged(stable)
	}

	var firstErr error

	if d.playing != 0 {
		if err := d.sink.StopChord(d.playing); err != nil && firstErr == nil {
			firstErr = err
		}
		d.playing = 0
	}

	if stable >= 1 && stable <= 5 {
		if err := d.sink.StartChord(stable); err != nil && firstErr == nil {
			firstErr = err
		}
		d.playing = stable
		if d.notifier != nil {
			d.notifier.HighlightChanged(stable)
		}
	} else if d.notifier != nil {
		d.notifier.HighlightChanged(0)
	}

	return firstErr
}

// Finish applies the session-end rule: any active chord is stopped
// unconditionally and the dispatcher returns to idle, ready for a fresh
// session.
func (d *Dispatcher) Finish() error {
	var err error
	if d.playing != 0 {
		err = d.sink.StopChord(d.playing)
		d.playing = 0
	}
	d.last = 0

	if d.notifier != nil {
		d.notifier.HighlightChanged(0)
	}
	return err
}
