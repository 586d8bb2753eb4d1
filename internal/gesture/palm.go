// Package gesture implements the finger-count gesture pipeline: palm-circle
// classification, temporal stabilization, and chord dispatch.
package gesture

import (
	"math"

	"github.com/RonitSachdev/AirChords/internal/detector"
)

// palmRadiusMultiplier enlarges the palm circle past the outermost palm
// landmark so fingertips resting at the palm edge still read as folded.
const palmRadiusMultiplier = 1.3

// thumbThresholdMultiplier tightens the extension boundary for the thumb,
// which extends sideways and would otherwise false-positive near the
// palm boundary.
const thumbThresholdMultiplier = 0.85

// palmIndices are the wrist and the five finger base landmarks used to
// fit the palm circle.
var palmIndices = [6]int{
	detector.Wrist,
	detector.ThumbCMC,
	detector.IndexMCP,
	detector.MiddleMCP,
	detector.RingMCP,
	detector.PinkyMCP,
}

// fingerTipIndices are the five fingertip landmarks, thumb first.
var fingerTipIndices = [5]int{
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// PalmCircle is the extended/folded decision boundary for fingertips:
// a circle around the palm centroid, enlarged by palmRadiusMultiplier.
type PalmCircle struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// NewPalmCircle fits the palm circle to a hand. The center is the
// centroid of the six palm landmarks; the radius is the largest
// center-to-landmark distance times the enlargement factor. Only the
// x/y image plane is used.
func NewPalmCircle(hand *detector.HandLandmarks) PalmCircle {
	var cx, cy float64
	for _, idx := range palmIndices {
		cx += hand.Points[idx].X
		cy += hand.Points[idx].Y
	}
	cx /= float64(len(palmIndices))
	cy /= float64(len(palmIndices))

	var maxDist float64
	for _, idx := range palmIndices {
		d := math.Hypot(hand.Points[idx].X-cx, hand.Points[idx].Y-cy)
		if d > maxDist {
			maxDist = d
		}
	}

	return PalmCircle{
		CenterX: cx,
		CenterY: cy,
		Radius:  maxDist * palmRadiusMultiplier,
	}
}

// Contains reports whether the given point lies inside the circle after
// applying the per-finger threshold multiplier.
func (c PalmCircle) Contains(p detector.Point3D, thresholdMultiplier float64) bool {
	dist := math.Hypot(p.X-c.CenterX, p.Y-c.CenterY)
	return dist <= c.Radius*thresholdMultiplier
}

// CountExtendedFingers classifies each fingertip against the palm circle
// and returns how many are extended (0-5). A fingertip is extended when
// its distance from the palm center exceeds the circle radius, with the
// thumb held to a tighter boundary. Returns 0 for a nil hand.
func CountExtendedFingers(hand *detector.HandLandmarks) int {
	if hand == nil {
		return 0
	}

	circle := NewPalmCircle(hand)

	extended := 0
	for i, idx := range fingerTipIndices {
		mult := 1.0
		if i == 0 {
			mult = thumbThresholdMultiplier
		}
		if !circle.Contains(hand.Points[idx], mult) {
			extended++
		}
	}

	return extended
}

// SelectHand reduces a frame's detected hands to the single hand the
// pipeline classifies. Right hands win (thumb tip right of pinky tip on
// the mirrored frame); otherwise the first detected hand is used.
// Returns nil when no hands were detected.
func SelectHand(hands []detector.HandLandmarks) *detector.HandLandmarks {
	if len(hands) == 0 {
		return nil
	}

	for i := range hands {
		if hands[i].IsRightHand() {
			return &hands[i]
		}
	}

	return &hands[0]
}
