package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityDetector measures how much a scene changes between
// consecutive frames using blurred frame differencing. The preview
// stream uses it to drop its broadcast rate while nothing moves in
// front of the camera.
type ActivityDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

const (
	// blurKernelSize is the Gaussian blur kernel used for noise reduction.
	blurKernelSize = 21
	// diffThreshold is the per-pixel binary threshold for the frame diff.
	diffThreshold = 25
)

// NewActivityDetector creates an ActivityDetector. threshold is the
// percentage of pixels that must change for a frame to count as active;
// 1.0 means 1% of the frame.
func NewActivityDetector(threshold float64) *ActivityDetector {
	return &ActivityDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one and reports whether
// the scene is active, along with the percentage of changed pixels.
// The first frame establishes the baseline and reports inactive.
func (a *ActivityDetector) Detect(frame *gocv.Mat) (bool, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !a.initialized {
		blurred.CopyTo(&a.prevGray)
		a.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, a.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&a.prevGray)

	return changePercent > a.threshold, changePercent
}

// Reset clears the baseline so the next frame starts fresh.
func (a *ActivityDetector) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.prevGray.Empty() {
		a.prevGray.Close()
		a.prevGray = gocv.NewMat()
	}
	a.initialized = false
}

// Close releases resources used by the detector.
func (a *ActivityDetector) Close() {
	a.Reset()
}
