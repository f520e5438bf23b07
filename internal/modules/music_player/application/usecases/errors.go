package usecases

import (
	"errors"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

// Error kinds surfaced to the front end. The queue-level kinds are the domain's.
var (
	ErrQueueNotFound    = domain.ErrQueueNotFound
	ErrPermissionDenied = domain.ErrPermissionDenied
	ErrInvalidIndex     = domain.ErrInvalidIndex
	ErrSongUnavailable  = domain.ErrSongUnavailable
	ErrTransportFailure = domain.ErrTransportFailure
	ErrNotPlaying       = domain.ErrNotPlaying
	ErrInvalidVolume    = domain.ErrInvalidVolume
)

var (
	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrWrongVoiceChannel is returned when the user is in a different voice
	// channel than the bot and may not take it over.
	ErrWrongVoiceChannel = errors.New("you must be in the same voice channel as the bot")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")
)
