package detector

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results. Tests change the
// scene while a session worker is calling Detect, so access is locked.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Synthetic hand geometry used by the fixtures below.
//
// The six palm landmarks (wrist + five finger bases) are placed evenly
// on a ring of radius 0.1 around (0.5, 0.5), so their centroid is the
// ring center and the enlarged palm circle has radius 0.1 * 1.3 = 0.13.
const (
	palmCenterX    = 0.5
	palmCenterY    = 0.5
	palmRingRadius = 0.1
)

// fingertip directions from the palm center, ordered thumb..pinky.
// The thumb points right and the pinky up-left, so a hand built from
// these reads as a right hand under the thumb/pinky x comparison.
var tipDirections = [5][2]float64{
	{1.0, 0.0},    // thumb
	{0.5, -0.87},  // index
	{0.0, -1.0},   // middle
	{-0.5, -0.87}, // ring
	{-0.87, -0.5}, // pinky
}

var tipIndices = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// SyntheticHand builds a HandLandmarks with each fingertip placed at the
// given distance from the palm center, along that finger's direction.
// Distances are in normalized image units; the enlarged palm circle of
// the result has radius 0.13.
func SyntheticHand(tipDistances [5]float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	palmIndices := [6]int{Wrist, ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	for j, idx := range palmIndices {
		angle := float64(j) * math.Pi / 3
		lm.Points[idx] = Point3D{
			X: palmCenterX + palmRingRadius*math.Cos(angle),
			Y: palmCenterY + palmRingRadius*math.Sin(angle),
		}
	}

	for i, idx := range tipIndices {
		d := tipDistances[i]
		dx, dy := tipDirections[i][0], tipDirections[i][1]
		norm := math.Hypot(dx, dy)
		lm.Points[idx] = Point3D{
			X: palmCenterX + dx/norm*d,
			Y: palmCenterY + dy/norm*d,
		}
	}

	// Intermediate joints sit halfway out; the classifier ignores them
	// but overlays draw them.
	for i, tip := range tipIndices {
		for step, idx := range fingerJoints(i) {
			frac := float64(step+1) * 0.25
			lm.Points[idx] = Point3D{
				X: palmCenterX + (lm.Points[tip].X-palmCenterX)*frac,
				Y: palmCenterY + (lm.Points[tip].Y-palmCenterY)*frac,
			}
		}
	}

	return lm
}

func fingerJoints(finger int) []int {
	switch finger {
	case 0:
		return []int{ThumbMCP, ThumbIP}
	case 1:
		return []int{IndexPIP, IndexDIP}
	case 2:
		return []int{MiddlePIP, MiddleDIP}
	case 3:
		return []int{RingPIP, RingDIP}
	default:
		return []int{PinkyPIP, PinkyDIP}
	}
}

// foldedTipDistance keeps folded fingertips slightly off the palm center
// so the thumb/pinky handedness comparison stays well defined.
const foldedTipDistance = 0.02

// extendedTipDistance is twice the enlarged palm radius, comfortably
// outside the circle for every finger.
const extendedTipDistance = 0.26

// OpenPalmLandmarks returns a right hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return SyntheticHand([5]float64{
		extendedTipDistance, extendedTipDistance, extendedTipDistance,
		extendedTipDistance, extendedTipDistance,
	})
}

// FistLandmarks returns a right hand with all fingers folded into the palm.
func FistLandmarks() HandLandmarks {
	return SyntheticHand([5]float64{
		foldedTipDistance, foldedTipDistance, foldedTipDistance,
		foldedTipDistance, foldedTipDistance,
	})
}

// FingerCountLandmarks returns a right hand showing n extended fingers,
// starting from the thumb. n is clamped to [0,5].
func FingerCountLandmarks(n int) HandLandmarks {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}

	var distances [5]float64
	for i := range distances {
		if i < n {
			distances[i] = extendedTipDistance
		} else {
			distances[i] = foldedTipDistance
		}
	}
	return SyntheticHand(distances)
}

// LeftHandLandmarks mirrors a synthetic hand horizontally so its thumb
// sits left of its pinky.
func LeftHandLandmarks(h HandLandmarks) HandLandmarks {
	h.Handedness = "Left"
	for i := range h.Points {
		h.Points[i].X = 2*palmCenterX - h.Points[i].X
	}
	return h
}
