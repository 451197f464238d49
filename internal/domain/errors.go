package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrPlaybackRequestFailed indicates a request to start playback was rejected
	ErrPlaybackRequestFailed = errors.New("playback request failed")

	// ErrResourceLoad indicates the audio resource could not be fetched or decoded
	ErrResourceLoad = errors.New("audio resource failed to load")

	// ErrMissingResource indicates a song has no audio reference
	ErrMissingResource = errors.New("no audio resource")

	// ErrAudioUnavailable indicates this build cannot produce sound
	ErrAudioUnavailable = errors.New("audio output unavailable")

	// ErrSongNotFound indicates the requested song does not exist
	ErrSongNotFound = errors.New("song not found")
)

// User-facing messages shown by a playback control
const (
	MsgPlayFailed = "Unable to play audio. Please try again later."
	MsgLoadFailed = "Error loading audio. Please check the file."
	MsgNoAudio    = "No audio file provided."
)
