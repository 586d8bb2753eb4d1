package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/RonitSachdev/AirChords/internal/capture"
	"github.com/RonitSachdev/AirChords/internal/gesture"
)

// newSessionID returns a fresh identifier for a recognition session.
func newSessionID() string {
	return uuid.New().String()
}

// runSession is the per-session frame loop.
//
// Each tick it reads a mirrored frame from the camera, detects hands,
// counts extended fingers on the preferred hand, feeds the count through
// the stabilizer and hands the stable value to the dispatcher. A missed
// frame or detector error skips the tick; the stabilizer history is
// simply not advanced. When the session ends the dispatcher releases
// whatever chord is sounding.
func (a *App) runSession(stabilizer *gesture.Stabilizer, dispatcher *gesture.Dispatcher, stopCh, done chan struct{}) {
	defer close(done)
	defer func() {
		if err := dispatcher.Finish(); err != nil {
			log.Printf("Error releasing chord at session end: %v", err)
		}
		stabilizer.Reset()
	}()

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				// Triggering is paused. Release the sounding chord and
				// drop stale history so re-enabling starts clean.
				if dispatcher.Playing() != 0 {
					if err := dispatcher.Finish(); err != nil {
						log.Printf("Error releasing chord: %v", err)
					}
				}
				stabilizer.Reset()
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			hand := gesture.SelectHand(hands)
			count := gesture.CountExtendedFingers(hand)
			stable := stabilizer.Feed(count)

			if err := dispatcher.Update(stable); err != nil {
				log.Printf("Error dispatching chord: %v", err)
			}
		}
	}
}
