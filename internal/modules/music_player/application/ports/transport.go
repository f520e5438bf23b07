package ports

import (
	"context"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// Transport opens audio connections to voice channels.
// Implementations publish domain.PlayerStateChangedEvent for every state change
// of a connection's player.
type Transport interface {
	// Connect joins the voice channel and returns a connection owning its player.
	Connect(ctx context.Context, guildID, channelID snowflake.ID) (Connection, error)
}

// Connection is one guild's audio player bound to a voice channel.
type Connection interface {
	// Play starts audio, replacing whatever is playing.
	Play(ctx context.Context, audio domain.AudioSource) error
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	// Stop ends playback; the player reports a non-natural drop to Idle.
	Stop(ctx context.Context) error
	// SetVolume applies a gain in [0, 1].
	SetVolume(ctx context.Context, scalar float64) error
	// Position returns how far into the current audio the player is.
	Position() time.Duration
	// Destroy releases the player and leaves the voice channel.
	Destroy(ctx context.Context) error
}
