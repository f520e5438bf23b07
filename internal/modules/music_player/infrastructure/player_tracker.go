package infrastructure

import (
	"sync"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

// guildPlayer is what the adapter knows about one guild's player and voice
// connection.
type guildPlayer struct {
	status domain.PlaybackStatus
	// track is the encoded track last sent to the player.
	track string

	connected bool
	channelID snowflake.ID
	// leaving counts disconnects the bot asked for and has not yet seen.
	leaving int
}

// playerTracker turns raw Lavalink and gateway events into player state
// changes and tells requested voice changes apart from external ones.
type playerTracker struct {
	mu     sync.Mutex
	guilds map[snowflake.ID]*guildPlayer
}

func newPlayerTracker() *playerTracker {
	return &playerTracker{guilds: make(map[snowflake.ID]*guildPlayer)}
}

func (t *playerTracker) guildLocked(guildID snowflake.ID) *guildPlayer {
	g, ok := t.guilds[guildID]
	if !ok {
		g = &guildPlayer{}
		t.guilds[guildID] = g
	}
	return g
}

// played records that encoded was sent to the player.
func (t *playerTracker) played(guildID snowflake.ID, encoded string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	g.track = encoded
	g.status = domain.StatusPlaying
}

// paused records a pause or resume request.
func (t *playerTracker) paused(guildID snowflake.ID, paused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	if g.status == domain.StatusIdle {
		return
	}
	if paused {
		g.status = domain.StatusPaused
	} else {
		g.status = domain.StatusPlaying
	}
}

// status returns the tracked player status.
func (t *playerTracker) status(guildID snowflake.ID) domain.PlaybackStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.guildLocked(guildID).status
}

// started handles a track start. It returns an event only when the player
// was not already known to be playing that track.
func (t *playerTracker) started(
	guildID snowflake.ID,
	encoded string,
) (domain.PlayerStateChangedEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	if g.track != encoded || g.status != domain.StatusIdle {
		return domain.PlayerStateChangedEvent{}, false
	}
	g.status = domain.StatusPlaying
	return domain.PlayerStateChangedEvent{
		GuildID: guildID,
		From:    domain.StatusIdle,
		To:      domain.StatusPlaying,
	}, true
}

// ended handles a track end. Ends of tracks other than the current one, and
// replacements, produce no event.
func (t *playerTracker) ended(
	guildID snowflake.ID,
	encoded string,
	reason lavalink.TrackEndReason,
) (domain.PlayerStateChangedEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	if reason == lavalink.TrackEndReasonReplaced || g.track != encoded || g.status == domain.StatusIdle {
		return domain.PlayerStateChangedEvent{}, false
	}
	from := g.status
	g.status = domain.StatusIdle
	return domain.PlayerStateChangedEvent{
		GuildID: guildID,
		From:    from,
		To:      domain.StatusIdle,
		Reason:  convertEndReason(reason),
	}, true
}

// released forgets the player. Late events for its tracks are ignored.
func (t *playerTracker) released(guildID snowflake.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	g.status = domain.StatusIdle
	g.track = ""
}

// leave records a disconnect requested by the bot. It returns false when the
// bot is not in voice, in which case no disconnect event will follow.
func (t *playerTracker) leave(guildID snowflake.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)
	if !g.connected {
		return false
	}
	g.leaving++
	return true
}

// voiceChanged applies the bot's voice state. It returns true when the
// change was not requested by the bot: an external disconnect (channelID
// nil) or a move by someone else while not joining.
func (t *playerTracker) voiceChanged(guildID snowflake.ID, channelID *snowflake.ID, joining bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guildLocked(guildID)

	if channelID == nil {
		wasConnected := g.connected
		g.connected = false
		g.channelID = 0
		if g.leaving > 0 {
			g.leaving--
			return false
		}
		return wasConnected
	}

	moved := g.connected && g.channelID != *channelID && !joining
	g.connected = true
	g.channelID = *channelID
	return moved
}

func convertEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonStopped:
		return domain.TrackEndStopped
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}
