package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// BotVoiceChangeFunc is called when the bot is disconnected or moved by
// someone else. channelID is nil on disconnect.
type BotVoiceChangeFunc func(ctx context.Context, guildID snowflake.ID, channelID *snowflake.ID)

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	NodeName string
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter drives guild players on a Lavalink node and joins voice
// channels through the Discord gateway.
type LavalinkAdapter struct {
	link      disgolink.Client
	session   *discordgo.Session
	botID     snowflake.ID
	publisher ports.EventPublisher
	tracker   *playerTracker

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer

	onBotVoiceChange BotVoiceChangeFunc
}

// NewLavalinkAdapter connects to the Lavalink node. Player state changes are
// published to publisher.
func NewLavalinkAdapter(
	ctx context.Context,
	session *discordgo.Session,
	config LavalinkConfig,
	publisher ports.EventPublisher,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session:      session,
		botID:        botID,
		publisher:    publisher,
		tracker:      newPlayerTracker(),
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     config.NodeName,
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// OnBotVoiceChange sets the callback for voice changes the bot did not ask for.
func (c *LavalinkAdapter) OnBotVoiceChange(fn BotVoiceChangeFunc) {
	c.onBotVoiceChange = fn
}

// Downloader returns a downloader that loads tracks from the best node.
func (c *LavalinkAdapter) Downloader() *LavalinkDownloader {
	return NewLavalinkDownloader(func() trackLoader {
		node := c.link.BestNode()
		if node == nil {
			return nil
		}
		return node
	})
}

// Close disconnects from every Lavalink node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// Connect joins the voice channel and waits until both voice events have
// arrived before returning the guild's connection.
func (c *LavalinkAdapter) Connect(
	ctx context.Context,
	guildID, channelID snowflake.ID,
) (ports.Connection, error) {
	pending := newPendingVoiceConnection()

	c.pendingMu.Lock()
	c.pending[guildID] = pending
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, guildID)
		c.pendingMu.Unlock()
	}()

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-pending.ready:
	case <-ctx.Done():
		c.leave(guildID)
		return nil, fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		c.leave(guildID)
		return nil, fmt.Errorf("timeout waiting for voice connection")
	}

	c.link.Player(guildID)
	c.tracker.released(guildID)

	return &lavalinkConnection{adapter: c, guildID: guildID}, nil
}

// leave disconnects the bot from the guild's voice channel.
func (c *LavalinkAdapter) leave(guildID snowflake.ID) {
	c.tracker.leave(guildID)
	if err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		slog.Warn("failed to leave voice channel", "guild", guildID, "error", err)
	}
}

// OnVoiceServerUpdate handles Discord voice server updates.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	buffer := c.voiceBuffer(guildID)
	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		c.forwardVoiceEvents(guildID, buffer)
	}

	if pending := c.pendingFor(guildID); pending != nil {
		pending.onEvent(false)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates for the bot.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	pending := c.pendingFor(guildID)
	external := c.tracker.voiceChanged(guildID, channelID, pending != nil)

	if channelID == nil {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.clearVoiceBuffer(guildID)
	} else {
		buffer := c.voiceBuffer(guildID)
		if buffer.setVoiceState(channelID, event.SessionID) {
			c.forwardVoiceEvents(guildID, buffer)
		}
		if pending != nil {
			pending.onEvent(true)
		}
	}

	if external && c.onBotVoiceChange != nil {
		slog.Info("bot voice state changed externally", "guild", guildID, "channel", channelID)
		c.onBotVoiceChange(context.Background(), guildID, channelID)
	}
}

func (c *LavalinkAdapter) pendingFor(guildID snowflake.ID) *pendingVoiceConnection {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return c.pending[guildID]
}

func (c *LavalinkAdapter) voiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()

	buffer, exists := c.voiceBuffers[guildID]
	if !exists {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

func (c *LavalinkAdapter) clearVoiceBuffer(guildID snowflake.ID) {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()
	delete(c.voiceBuffers, guildID)
}

// forwardVoiceEvents sends a complete voice update to Lavalink, state first.
func (c *LavalinkAdapter) forwardVoiceEvents(guildID snowflake.ID, buffer *voiceEventBuffer) {
	data := buffer.take()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", data.channelID,
		"hasSessionID", data.sessionID != "",
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, data.channelID, data.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, data.token, data.endpoint)
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)

	if change, ok := c.tracker.started(player.GuildID(), event.Track.Encoded); ok {
		c.publisher.PublishPlayerStateChanged(change)
	}
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	if change, ok := c.tracker.ended(player.GuildID(), event.Track.Encoded, event.Reason); ok {
		c.publisher.PublishPlayerStateChanged(change)
	}
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

// lavalinkConnection is one guild's Lavalink player.
type lavalinkConnection struct {
	adapter *LavalinkAdapter
	guildID snowflake.ID
}

func (c *lavalinkConnection) player() disgolink.Player {
	return c.adapter.link.Player(c.guildID)
}

// Play replaces the current track with audio.
func (c *lavalinkConnection) Play(ctx context.Context, audio domain.AudioSource) error {
	encoded := string(audio)
	// Mark first so the end of the replaced track is recognized as stale.
	c.adapter.tracker.played(c.guildID, encoded)
	if err := c.player().Update(ctx, lavalink.WithEncodedTrack(encoded)); err != nil {
		c.adapter.tracker.released(c.guildID)
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

func (c *lavalinkConnection) Pause(ctx context.Context) error {
	if err := c.player().Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	c.adapter.tracker.paused(c.guildID, true)
	return nil
}

func (c *lavalinkConnection) Unpause(ctx context.Context) error {
	if err := c.player().Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	c.adapter.tracker.paused(c.guildID, false)
	return nil
}

// Stop clears the track. Lavalink reports the stop as a track end.
func (c *lavalinkConnection) Stop(ctx context.Context) error {
	if err := c.player().Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

func (c *lavalinkConnection) SetVolume(ctx context.Context, scalar float64) error {
	if err := c.player().Update(ctx, lavalink.WithVolume(lavalinkVolume(scalar))); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}

func (c *lavalinkConnection) Position() time.Duration {
	player := c.adapter.link.ExistingPlayer(c.guildID)
	if player == nil {
		return 0
	}
	return time.Duration(player.Position()) * time.Millisecond
}

// Destroy destroys the player and leaves the voice channel.
func (c *lavalinkConnection) Destroy(ctx context.Context) error {
	c.adapter.tracker.released(c.guildID)

	if player := c.adapter.link.ExistingPlayer(c.guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", c.guildID, "error", err)
		}
	}

	c.adapter.tracker.leave(c.guildID)
	err := c.adapter.session.ChannelVoiceJoinManual(c.guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// lavalinkVolume maps a gain in [0, 1] to Lavalink's percentage volume.
func lavalinkVolume(scalar float64) int {
	return int(math.Round(math.Max(0, math.Min(1, scalar)) * 100))
}

var (
	_ ports.Transport  = (*LavalinkAdapter)(nil)
	_ ports.Connection = (*lavalinkConnection)(nil)
)
