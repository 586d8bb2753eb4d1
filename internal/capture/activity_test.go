package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(t *testing.T, value float64) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0),
		120, 160, gocv.MatTypeCV8UC3,
	)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func TestActivityDetector_FirstFrameIsBaseline(t *testing.T) {
	d := NewActivityDetector(1.0)
	defer d.Close()

	active, change := d.Detect(solidFrame(t, 0))
	if active {
		t.Error("first frame must not report activity")
	}
	if change != 0 {
		t.Errorf("first frame change = %f, want 0", change)
	}
}

func TestActivityDetector_StaticScene(t *testing.T) {
	d := NewActivityDetector(1.0)
	defer d.Close()

	d.Detect(solidFrame(t, 128))
	active, change := d.Detect(solidFrame(t, 128))

	if active {
		t.Errorf("identical frames reported active (%.2f%% change)", change)
	}
}

func TestActivityDetector_SceneChange(t *testing.T) {
	d := NewActivityDetector(1.0)
	defer d.Close()

	d.Detect(solidFrame(t, 0))
	active, change := d.Detect(solidFrame(t, 255))

	if !active {
		t.Errorf("full-frame change reported inactive (%.2f%% change)", change)
	}
}

func TestActivityDetector_NilAndEmptyFrames(t *testing.T) {
	d := NewActivityDetector(1.0)
	defer d.Close()

	if active, _ := d.Detect(nil); active {
		t.Error("nil frame reported active")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if active, _ := d.Detect(&empty); active {
		t.Error("empty frame reported active")
	}
}

func TestActivityDetector_Reset(t *testing.T) {
	d := NewActivityDetector(1.0)
	defer d.Close()

	d.Detect(solidFrame(t, 0))
	d.Reset()

	// After a reset the next frame is a baseline again.
	active, _ := d.Detect(solidFrame(t, 255))
	if active {
		t.Error("baseline frame after Reset reported active")
	}
}
