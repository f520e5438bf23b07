package domain

import "errors"

var (
	// ErrQueueNotFound is returned when a guild has no active queue.
	ErrQueueNotFound = errors.New("no active queue in this server")

	// ErrQueueExists is returned when creating a queue for a guild that already has one.
	ErrQueueExists = errors.New("a queue already exists in this server")

	// ErrPermissionDenied is returned when the manage or admin check fails.
	ErrPermissionDenied = errors.New("you don't have permission to do that")

	// ErrInvalidIndex is returned when a position has no corresponding song.
	ErrInvalidIndex = errors.New("invalid queue position")

	// ErrSongUnavailable is returned when a song could not be fetched.
	ErrSongUnavailable = errors.New("song unavailable")

	// ErrTransportFailure is returned when the voice connection or playback could not start.
	ErrTransportFailure = errors.New("failed to start playback")

	// ErrQueueDestroyed is returned by operations on a queue that has been torn down.
	ErrQueueDestroyed = errors.New("queue has been destroyed")
)

var (
	// ErrNotPlaying is returned when a control needs a song to be playing or paused.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrInvalidVolume is returned when a volume is outside [MinVolume, MaxVolume].
	ErrInvalidVolume = errors.New("volume must be between 0 and 10")
)
