//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"github.com/gopxl/beep/v2"
	"github.com/mmcdole/mixtape/internal/domain"
)

// Available indicates whether audio playback is supported in this build.
// Audio requires cgo for the native sound libraries on linux.
const Available = false

// initOutput always fails; play requests surface this as a play failure
func initOutput() error {
	return domain.ErrAudioUnavailable
}

func playOutput(beep.Streamer) {}

func lockOutput()   {}
func unlockOutput() {}
