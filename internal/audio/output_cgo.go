//go:build (linux && cgo) || windows || darwin

package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Available indicates whether audio playback is supported in this build.
const Available = true

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initOutput initializes the speaker on first use
func initOutput() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return speakerErr
}

// playOutput adds s to the speaker mix
func playOutput(s beep.Streamer) {
	speaker.Play(s)
}

func lockOutput()   { speaker.Lock() }
func unlockOutput() { speaker.Unlock() }
