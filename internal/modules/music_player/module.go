package music_player

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Sebola3461/fortlev/internal/bot"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/listview"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/infrastructure"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/presentation/discord"
	"github.com/bwmarrin/discordgo"
)

const (
	// refreshJobTimeout bounds one redraw of a status message.
	refreshJobTimeout = 10 * time.Second
	// shutdownTimeout bounds tearing down every queue on exit.
	shutdownTimeout = 15 * time.Second
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config            *Config
	commandHandlers   *discord.CommandHandlers
	componentHandlers *discord.ComponentHandlers
	autocomplete      *discord.AutocompleteHandler
	lavalinkAdapter   *infrastructure.LavalinkAdapter

	registry        *queue.Registry
	views           *listview.Store
	eventBus        *infrastructure.ChannelEventBus
	playbackHandler *infrastructure.PlaybackEventHandler
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":       m.commandHandlers.HandlePlay,
		"skip":       m.commandHandlers.HandleSkip,
		"remove":     m.commandHandlers.HandleRemove,
		"queue":      m.commandHandlers.HandleQueue,
		"disconnect": m.commandHandlers.HandleDisconnect,
		"pause":      m.commandHandlers.HandlePause,
		"loop":       m.commandHandlers.HandleLoop,
		"volume":     m.commandHandlers.HandleVolume,
		"previous":   m.commandHandlers.HandlePrevious,
		"next":       m.commandHandlers.HandleNext,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.lavalinkAdapter.OnVoiceServerUpdate(event)
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.lavalinkAdapter.OnVoiceStateUpdate(event)
		},
		m.handleInteractionCreate,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init wires the module. The session must already be open.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil || deps.Session.State == nil || deps.Session.State.User == nil {
		return errors.New("music_player requires an open Discord session")
	}
	if m.config == nil {
		return errors.New("music_player configuration not loaded")
	}

	policy, err := m.config.Policy()
	if err != nil {
		return err
	}

	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	adapter, err := infrastructure.NewLavalinkAdapter(
		context.Background(),
		deps.Session,
		infrastructure.LavalinkConfig{
			NodeName: m.config.LavalinkNodeName,
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		},
		m.eventBus,
	)
	if err != nil {
		m.eventBus.Close()
		return err
	}
	m.lavalinkAdapter = adapter

	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	presenter := discord.NewPresenter(deps.Session, m.config.StatusEditsPerSecond)

	m.registry = queue.NewRegistry(queue.Dependencies{
		Transport:       adapter,
		Presenter:       presenter,
		VoiceState:      voiceState,
		Scheduler:       infrastructure.NewTickerScheduler(refreshJobTimeout),
		Events:          m.eventBus,
		RefreshInterval: m.config.StatusRefreshInterval,
		Policy:          policy,
	})
	m.views = listview.NewStore(m.config.ListViewTimeout)

	trackLoader := usecases.NewTrackLoaderService(adapter.Downloader(), m.config.PlaylistFetchConcurrency)
	playback := usecases.NewPlaybackService(m.registry, trackLoader, voiceState, usecases.PlaybackConfig{
		SuppressBulkAutoplay: m.config.SuppressBulkAutoplay,
	})
	queueService := usecases.NewQueueService(m.registry, m.views)
	voiceChannel := usecases.NewVoiceChannelService(m.registry)

	m.playbackHandler = infrastructure.NewPlaybackEventHandler(
		m.registry.HandlePlayerStateChanged,
		queueService.HandleQueueDestroyed,
		m.eventBus,
	)
	m.playbackHandler.Start()

	adapter.OnBotVoiceChange(discord.NewEventHandlers(voiceChannel).HandleBotVoiceChange)

	m.commandHandlers = discord.NewCommandHandlers(playback, queueService)
	m.componentHandlers = discord.NewComponentHandlers(playback, queueService)
	m.autocomplete = discord.NewAutocompleteHandler(queueService, trackLoader)

	slog.Info("music_player module initialized with Lavalink",
		"node", m.config.LavalinkNodeName,
		"volume_mode", policy.VolumeMode,
	)

	return nil
}

// Shutdown destroys every queue and closes the module's connections.
func (m *MusicPlayerModule) Shutdown() error {
	if m.registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		m.registry.Shutdown(ctx)
		cancel()
	}

	if m.views != nil {
		m.views.Close()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return nil
}

// handleInteractionCreate handles the interactions the host does not route:
// autocomplete and button presses.
func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if m.commandHandlers == nil {
		return
	}

	r := bot.NewDiscordResponder(s, i.Interaction)

	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		switch i.ApplicationCommandData().Name {
		case "play":
			err = m.autocomplete.HandlePlay(i, r)
		case "skip", "remove":
			err = m.autocomplete.HandlePosition(i, r)
		}
	case discordgo.InteractionMessageComponent:
		err = m.componentHandlers.Handle(i, r)
	default:
		return
	}

	if err != nil {
		slog.Warn("failed to handle interaction", "type", i.Type, "error", err)
	}
}
