package detector

import (
	"errors"
	"math"
	"testing"
)

func TestHandLandmarks_IsRightHand(t *testing.T) {
	tests := []struct {
		name string
		hand HandLandmarks
		want bool
	}{
		{
			name: "open right hand",
			hand: OpenPalmLandmarks(),
			want: true,
		},
		{
			name: "fist keeps thumb right of pinky",
			hand: FistLandmarks(),
			want: true,
		},
		{
			name: "mirrored hand reads as left",
			hand: LeftHandLandmarks(OpenPalmLandmarks()),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hand.IsRightHand(); got != tt.want {
				t.Errorf("IsRightHand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyntheticHand_TipDistances(t *testing.T) {
	distances := [5]float64{0.26, 0.02, 0.13, 0.05, 0.2}
	hand := SyntheticHand(distances)

	tips := [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}
	for i, idx := range tips {
		dx := hand.Points[idx].X - palmCenterX
		dy := hand.Points[idx].Y - palmCenterY
		got := math.Hypot(dx, dy)
		if math.Abs(got-distances[i]) > 1e-9 {
			t.Errorf("tip %d distance = %f, want %f", i, got, distances[i])
		}
	}
}

func TestSyntheticHand_PalmCentroid(t *testing.T) {
	hand := OpenPalmLandmarks()

	palmIndices := [6]int{Wrist, ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	var cx, cy float64
	for _, idx := range palmIndices {
		cx += hand.Points[idx].X
		cy += hand.Points[idx].Y
	}
	cx /= 6
	cy /= 6

	if math.Abs(cx-palmCenterX) > 1e-9 || math.Abs(cy-palmCenterY) > 1e-9 {
		t.Errorf("palm centroid = (%f, %f), want (%f, %f)", cx, cy, palmCenterX, palmCenterY)
	}
}

func TestMockDetector(t *testing.T) {
	mock := NewMockDetector()

	hands, err := mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("expected no hands, got %d", len(hands))
	}

	mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})
	hands, err = mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) != 1 {
		t.Fatalf("expected one hand, got %d", len(hands))
	}

	wantErr := errors.New("camera unplugged")
	mock.SetError(wantErr)
	if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
		t.Errorf("Detect() error = %v, want %v", err, wantErr)
	}
}

func TestMockDetector_ConcurrentSceneChanges(t *testing.T) {
	mock := NewMockDetector()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})
			} else {
				mock.SetHands(nil)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		if _, err := mock.Detect(nil); err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
	}
	<-done
}

func TestJSONHandConversion(t *testing.T) {
	jh := jsonHand{
		Handedness: "Right",
		Score:      0.9,
		Points: []jsonPoint{
			{X: 0.1, Y: 0.2, Z: 0.3},
			{X: 0.4, Y: 0.5, Z: 0.6},
		},
	}

	lm := jh.toHandLandmarks()
	if lm.Handedness != "Right" || lm.Score != 0.9 {
		t.Errorf("metadata not carried over: %+v", lm)
	}
	if lm.Points[0] != (Point3D{X: 0.1, Y: 0.2, Z: 0.3}) {
		t.Errorf("point 0 = %+v", lm.Points[0])
	}
	if lm.Points[1] != (Point3D{X: 0.4, Y: 0.5, Z: 0.6}) {
		t.Errorf("point 1 = %+v", lm.Points[1])
	}
	// Missing points stay at the zero value.
	if lm.Points[2] != (Point3D{}) {
		t.Errorf("point 2 = %+v, want zero", lm.Points[2])
	}
}

func fullJSONHand(handedness string, score float64) jsonHand {
	h := jsonHand{Handedness: handedness, Score: score}
	for i := 0; i < NumLandmarks; i++ {
		h.Points = append(h.Points, jsonPoint{X: 0.5, Y: 0.5})
	}
	return h
}

func TestFilterHands(t *testing.T) {
	cfg := Config{MaxHands: 2, MinConfidence: 0.8}

	tests := []struct {
		name  string
		hands []jsonHand
		want  int
	}{
		{
			name:  "complete confident hand kept",
			hands: []jsonHand{fullJSONHand("Right", 0.9)},
			want:  1,
		},
		{
			name:  "low confidence dropped",
			hands: []jsonHand{fullJSONHand("Right", 0.5)},
			want:  0,
		},
		{
			name: "short landmark array treated as no hand",
			hands: []jsonHand{{
				Handedness: "Right",
				Score:      0.9,
				Points:     []jsonPoint{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}},
			}},
			want: 0,
		},
		{
			name:  "empty landmark array treated as no hand",
			hands: []jsonHand{{Handedness: "Left", Score: 0.95}},
			want:  0,
		},
		{
			name: "malformed hand does not shadow a complete one",
			hands: []jsonHand{
				{Handedness: "Right", Score: 0.9, Points: []jsonPoint{{}}},
				fullJSONHand("Left", 0.9),
			},
			want: 1,
		},
		{
			name: "max hands cap",
			hands: []jsonHand{
				fullJSONHand("Right", 0.9),
				fullJSONHand("Left", 0.9),
				fullJSONHand("Right", 0.9),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterHands(tt.hands, cfg); len(got) != tt.want {
				t.Errorf("filterHands() returned %d hands, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.8 {
		t.Errorf("MinConfidence = %f, want 0.8", cfg.MinConfidence)
	}
	if cfg.MinTrackingConf != 0.7 {
		t.Errorf("MinTrackingConf = %f, want 0.7", cfg.MinTrackingConf)
	}
}
