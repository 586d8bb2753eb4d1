package gesture

import "fmt"

// Default stabilization settings. A four frame window keeps gesture
// latency low while a 0.75 threshold tolerates one misclassified frame.
const (
	DefaultHistoryLength      = 4
	DefaultStabilityThreshold = 0.75
)

// Stabilizer debounces the raw per-frame finger counts into a stable
// gesture value. It keeps a bounded ring buffer of the most recent raw
// counts and only updates the stable value when one count dominates the
// window.
//
// A Stabilizer is owned by a single gesture session worker and is not
// safe for concurrent use.
type Stabilizer struct {
	history   []int
	start     int
	size      int
	capacity  int
	threshold float64
	stable    int
}

// NewStabilizer creates a Stabilizer with the given window capacity and
// stability threshold. Settings are validated once here and never
// changed mid-session: capacity must be at least 1 and the threshold
// must lie in [0, 1].
func NewStabilizer(capacity int, threshold float64) (*Stabilizer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("history length must be at least 1, got %d", capacity)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("stability threshold must be in [0, 1], got %g", threshold)
	}

	return &Stabilizer{
		history:   make([]int, capacity),
		capacity:  capacity,
		threshold: threshold,
	}, nil
}

// Feed records one raw finger count and returns the current stable
// gesture value.
//
// Until the window has filled, the stable value is returned unchanged
// (cold start). Once full, the most frequent count in the window wins,
// with ties broken toward the smallest count so the result never
// depends on iteration order. The stable value only moves when the
// winner's share of the window meets the threshold.
func (s *Stabilizer) Feed(raw int) int {
	if s.size < s.capacity {
		s.history[(s.start+s.size)%s.capacity] = raw
		s.size++
	} else {
		s.history[s.start] = raw
		s.start = (s.start + 1) % s.capacity
	}

	if s.size < s.capacity {
		return s.stable
	}

	// Counts are 0..5, so a fixed-size frequency table covers the domain.
	var freq [6]int
	for i := 0; i < s.size; i++ {
		v := s.history[(s.start+i)%s.capacity]
		if v >= 0 && v < len(freq) {
			freq[v]++
		}
	}

	mode, best := 0, 0
	for v, n := range freq {
		if n > best {
			mode, best = v, n
		}
	}

	if float64(best)/float64(s.capacity) >= s.threshold {
		s.stable = mode
	}

	return s.stable
}

// Stable returns the current stable gesture value without feeding a
// new sample.
func (s *Stabilizer) Stable() int {
	return s.stable
}

// Reset discards the history window and stable value. The next session
// starts cold with a stable value of 0.
func (s *Stabilizer) Reset() {
	s.start = 0
	s.size = 0
	s.stable = 0
}
