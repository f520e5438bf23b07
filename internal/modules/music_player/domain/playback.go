package domain

// PlaybackStatus is the observable state of a queue's player.
type PlaybackStatus int

const (
	StatusIdle PlaybackStatus = iota
	StatusPlaying
	StatusPaused
	StatusDestroyed
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusDestroyed:
		return "destroyed"
	default:
		return "idle"
	}
}

// Effect is a side effect the queue must carry out after a transition.
type Effect int

const (
	// EffectReplay plays the current song again.
	EffectReplay Effect = iota
	// EffectAdvance selects the song after the current one.
	EffectAdvance
	// EffectNotifyEmpty replaces the status message with the queue-empty notice.
	EffectNotifyEmpty
	// EffectDestroy tears the queue down.
	EffectDestroy
)

func (e Effect) String() string {
	switch e {
	case EffectReplay:
		return "replay"
	case EffectAdvance:
		return "advance"
	case EffectNotifyEmpty:
		return "notify_empty"
	case EffectDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// PlaybackSnapshot is the part of a queue's state the transition function reads.
// CurrentIndex and Len must be taken after any pending index recompute.
type PlaybackSnapshot struct {
	Status       PlaybackStatus
	Locked       bool
	Loop         bool
	CurrentIndex int
	Len          int
}

// Outcome is the result of a transition.
type Outcome struct {
	Next    PlaybackStatus
	Effects []Effect
}

// Transition computes the queue's reaction to a player state change.
//
// Natural completion replays under loop, advances when a song follows and
// otherwise tears the queue down. Any other drop to Idle tears down when the
// cursor has already run past the last song (a skip from the end) and is
// otherwise ignored: the queue sets its own status when it stops the player,
// so such an event may be stale.
func Transition(s PlaybackSnapshot, ev PlayerStateChangedEvent) Outcome {
	if s.Status == StatusDestroyed || s.Locked {
		return Outcome{Next: s.Status}
	}

	exhausted := s.CurrentIndex < 0 || s.CurrentIndex >= s.Len

	switch ev.To {
	case StatusPlaying:
		return Outcome{Next: StatusPlaying}
	case StatusPaused:
		return Outcome{Next: StatusPaused}
	case StatusIdle:
		if ev.IsNaturalCompletion() {
			switch {
			case s.Loop && !exhausted:
				return Outcome{Next: StatusPlaying, Effects: []Effect{EffectReplay}}
			case s.CurrentIndex+1 < s.Len:
				return Outcome{Next: StatusPlaying, Effects: []Effect{EffectAdvance}}
			default:
				return Outcome{
					Next:    StatusDestroyed,
					Effects: []Effect{EffectNotifyEmpty, EffectDestroy},
				}
			}
		}
		if exhausted && s.Len > 0 {
			return Outcome{
				Next:    StatusDestroyed,
				Effects: []Effect{EffectNotifyEmpty, EffectDestroy},
			}
		}
		return Outcome{Next: s.Status}
	}

	return Outcome{Next: s.Status}
}
