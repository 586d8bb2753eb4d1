// Package detector provides hand landmark detection for the AirChords controller.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a single landmark position in normalized image coordinates.
// X and Y are in [0,1] relative to the frame; Z is the MediaPipe depth
// estimate and is ignored by the palm-circle classifier.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right" as reported by the detector
	Score      float64               `json:"score"`
}

// IsRightHand reports whether this looks like a right hand, based on the
// relative horizontal position of the thumb and pinky tips. On a
// mirrored (selfie) frame the right hand's thumb sits to the right of
// its pinky. The pipeline trusts this geometric hint rather than the
// detector-reported Handedness label, which refers to the unmirrored
// image.
func (h *HandLandmarks) IsRightHand() bool {
	return h.Points[ThumbTip].X > h.Points[PinkyTip].X
}
