package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	finished := PlayerStateChangedEvent{From: StatusPlaying, To: StatusIdle, Reason: TrackEndFinished}
	loadFailed := PlayerStateChangedEvent{From: StatusPlaying, To: StatusIdle, Reason: TrackEndLoadFailed}
	stopped := PlayerStateChangedEvent{From: StatusPlaying, To: StatusIdle, Reason: TrackEndStopped}

	tests := []struct {
		name     string
		snapshot PlaybackSnapshot
		event    PlayerStateChangedEvent
		want     Outcome
	}{
		{
			name:     "locked ignores completion",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, Locked: true, CurrentIndex: 0, Len: 2},
			event:    finished,
			want:     Outcome{Next: StatusPlaying},
		},
		{
			name:     "destroyed ignores everything",
			snapshot: PlaybackSnapshot{Status: StatusDestroyed, CurrentIndex: 0, Len: 2},
			event:    finished,
			want:     Outcome{Next: StatusDestroyed},
		},
		{
			name:     "loop replays",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, Loop: true, CurrentIndex: 1, Len: 2},
			event:    finished,
			want:     Outcome{Next: StatusPlaying, Effects: []Effect{EffectReplay}},
		},
		{
			name:     "completion advances",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 0, Len: 2},
			event:    finished,
			want:     Outcome{Next: StatusPlaying, Effects: []Effect{EffectAdvance}},
		},
		{
			name:     "load failure advances",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 0, Len: 2},
			event:    loadFailed,
			want:     Outcome{Next: StatusPlaying, Effects: []Effect{EffectAdvance}},
		},
		{
			name:     "completion of last song destroys",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 1, Len: 2},
			event:    finished,
			want: Outcome{
				Next:    StatusDestroyed,
				Effects: []Effect{EffectNotifyEmpty, EffectDestroy},
			},
		},
		{
			name:     "manual stop mid queue keeps status",
			snapshot: PlaybackSnapshot{Status: StatusIdle, CurrentIndex: 0, Len: 2},
			event:    stopped,
			want:     Outcome{Next: StatusIdle},
		},
		{
			name:     "stale stop after a new song started",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 1, Len: 2},
			event:    stopped,
			want:     Outcome{Next: StatusPlaying},
		},
		{
			name:     "stop after skipping past the end destroys",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 2, Len: 2},
			event:    stopped,
			want: Outcome{
				Next:    StatusDestroyed,
				Effects: []Effect{EffectNotifyEmpty, EffectDestroy},
			},
		},
		{
			name:     "stop on cleared queue stays idle",
			snapshot: PlaybackSnapshot{Status: StatusIdle, CurrentIndex: 0, Len: 0},
			event:    stopped,
			want:     Outcome{Next: StatusIdle},
		},
		{
			name:     "paused to idle is not natural",
			snapshot: PlaybackSnapshot{Status: StatusPaused, CurrentIndex: 0, Len: 2},
			event:    PlayerStateChangedEvent{From: StatusPaused, To: StatusIdle, Reason: TrackEndFinished},
			want:     Outcome{Next: StatusPaused},
		},
		{
			name:     "track start",
			snapshot: PlaybackSnapshot{Status: StatusIdle, CurrentIndex: 0, Len: 1},
			event:    PlayerStateChangedEvent{From: StatusIdle, To: StatusPlaying},
			want:     Outcome{Next: StatusPlaying},
		},
		{
			name:     "pause",
			snapshot: PlaybackSnapshot{Status: StatusPlaying, CurrentIndex: 0, Len: 1},
			event:    PlayerStateChangedEvent{From: StatusPlaying, To: StatusPaused},
			want:     Outcome{Next: StatusPaused},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.snapshot, tt.event))
		})
	}
}

func TestTrackEndReason_IsNaturalCompletion(t *testing.T) {
	assert.True(t, TrackEndFinished.IsNaturalCompletion())
	assert.True(t, TrackEndLoadFailed.IsNaturalCompletion())
	assert.False(t, TrackEndStopped.IsNaturalCompletion())
	assert.False(t, TrackEndReplaced.IsNaturalCompletion())
	assert.False(t, TrackEndCleanup.IsNaturalCompletion())
}
