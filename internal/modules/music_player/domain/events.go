package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means playback was stopped on request.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the player was cleaned up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// IsNaturalCompletion returns true if the track ran to its end on its own.
// A load failure counts, so a broken song advances like a finished one.
func (r TrackEndReason) IsNaturalCompletion() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// PlayerStateChangedEvent is published by the transport whenever a guild's
// player moves between Idle, Playing and Paused.
type PlayerStateChangedEvent struct {
	GuildID snowflake.ID
	From    PlaybackStatus
	To      PlaybackStatus
	// Reason is set when To is StatusIdle.
	Reason TrackEndReason
}

// IsNaturalCompletion reports whether the event is a Playing to Idle
// transition caused by the track ending on its own.
func (e PlayerStateChangedEvent) IsNaturalCompletion() bool {
	return e.From == StatusPlaying && e.To == StatusIdle && e.Reason.IsNaturalCompletion()
}

// QueueDestroyedEvent is published after a guild's queue has been torn down.
type QueueDestroyedEvent struct {
	GuildID snowflake.ID
}
