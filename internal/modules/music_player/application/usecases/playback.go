package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// ControlInput identifies who is operating which guild's queue.
type ControlInput struct {
	GuildID snowflake.ID
	Actor   domain.Actor
}

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID       snowflake.ID
	TextChannelID snowflake.ID
	Actor         domain.Actor
	Requester     domain.Requester
	Query         string
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	Songs []domain.Song
	// Position is the zero-based queue position of the first added song.
	Position      int
	Skipped       int
	IsPlaylist    bool
	PlaylistTitle string
	Created       bool
}

// SelectInput contains the input for the Select use case.
type SelectInput struct {
	ControlInput
	// Position is one-based.
	Position int
}

// RemoveInput contains the input for the Remove use case.
type RemoveInput struct {
	ControlInput
	// Position is one-based.
	Position int
}

// RemoveOutput contains the result of the Remove use case.
type RemoveOutput struct {
	Removed domain.Song
	Status  domain.RemoveStatus
}

// SetVolumeInput contains the input for the SetVolume use case.
type SetVolumeInput struct {
	ControlInput
	Volume domain.Volume
}

// VolumeOutput contains the result of the volume use cases.
type VolumeOutput struct {
	Volume  domain.Volume
	Changed bool
}

// PlaybackConfig holds the behavior switches of PlaybackService.
type PlaybackConfig struct {
	// SuppressBulkAutoplay adds playlists without per-song autoplay and starts
	// one song once the whole batch is in.
	SuppressBulkAutoplay bool
}

// PlaybackService handles the commands and controls that change a queue.
type PlaybackService struct {
	registry   *queue.Registry
	loader     *TrackLoaderService
	voiceState ports.VoiceStateProvider
	access     queueAccess
	config     PlaybackConfig
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	registry *queue.Registry,
	loader *TrackLoaderService,
	voiceState ports.VoiceStateProvider,
	config PlaybackConfig,
) *PlaybackService {
	return &PlaybackService{
		registry:   registry,
		loader:     loader,
		voiceState: voiceState,
		access:     queueAccess{registry: registry, voiceState: voiceState},
		config:     config,
	}
}

// Enqueue loads the query and adds the result to the guild's queue, creating
// the queue in the user's voice channel when there is none. When the user is
// in another channel than a bot left alone, the queue follows the user.
func (p *PlaybackService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	userChannel, err := p.voiceState.GetUserVoiceChannel(input.GuildID, input.Actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user voice channel: %w", err)
	}
	if userChannel == 0 {
		return nil, ErrUserNotInVoice
	}

	q, exists := p.registry.Get(input.GuildID)
	if exists && q.VoiceChannelID() != userChannel {
		if err := p.followUser(ctx, q, input.Actor, userChannel); err != nil {
			return nil, err
		}
	}

	loaded, err := p.loader.LoadSongs(ctx, LoadSongsInput{
		Query:     input.Query,
		Requester: input.Requester,
	})
	if err != nil {
		return nil, err
	}

	var (
		position int
		created  bool
	)
	// A queue torn down between lookup and insertion is replaced once.
	for attempt := 0; ; attempt++ {
		q, created, err = p.registry.GetOrCreate(ctx, input.GuildID, userChannel, input.TextChannelID)
		if err != nil {
			return nil, err
		}

		position, err = p.add(ctx, q, loaded)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrQueueDestroyed) || attempt > 0 {
			return nil, err
		}
		slog.Debug("queue destroyed while enqueuing, recreating", "guild", input.GuildID)
	}

	slog.Info("enqueued songs",
		"guild", input.GuildID,
		"count", len(loaded.Songs),
		"skipped", loaded.Skipped,
		"playlist", loaded.PlaylistTitle,
	)

	return &EnqueueOutput{
		Songs:         lo.Map(loaded.Songs, func(s *domain.Song, _ int) domain.Song { return s.Snapshot() }),
		Position:      position,
		Skipped:       loaded.Skipped,
		IsPlaylist:    loaded.IsPlaylist,
		PlaylistTitle: loaded.PlaylistTitle,
		Created:       created,
	}, nil
}

// add appends the loaded songs and returns the position of the first one.
func (p *PlaybackService) add(ctx context.Context, q *queue.MusicQueue, loaded *LoadSongsOutput) (int, error) {
	position := q.Len()
	if loaded.IsPlaylist && p.config.SuppressBulkAutoplay {
		_, err := q.AddBatch(ctx, loaded.Songs, loaded.Start)
		return position, err
	}
	return position, q.AddSongs(ctx, loaded.Songs, true)
}

// followUser moves q to channelID when nobody but the bot is left in its
// channel. Otherwise the actor must be an admin to add from elsewhere.
func (p *PlaybackService) followUser(
	ctx context.Context,
	q *queue.MusicQueue,
	actor domain.Actor,
	channelID snowflake.ID,
) error {
	occupants, err := p.voiceState.ChannelOccupants(q.GuildID(), q.VoiceChannelID())
	if err != nil {
		return fmt.Errorf("failed to get voice channel occupants: %w", err)
	}
	if len(occupants) <= 1 {
		return q.SetVoiceChannel(ctx, channelID)
	}
	if !q.CheckAdminPermissionsFor(actor) {
		return ErrWrongVoiceChannel
	}
	return nil
}

// Select plays the song at the given one-based position.
func (p *PlaybackService) Select(ctx context.Context, input SelectInput) (*domain.Song, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return nil, err
	}
	if err := q.SelectSong(ctx, input.Position-1); err != nil {
		return nil, err
	}
	return currentSong(q), nil
}

// Next skips to the following song. Skipping the last song ends the queue.
func (p *PlaybackService) Next(ctx context.Context, input ControlInput) error {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return err
	}
	return q.SkipSong(ctx)
}

// Previous goes back one song.
func (p *PlaybackService) Previous(ctx context.Context, input ControlInput) error {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return err
	}
	return q.PreviousSong(ctx)
}

// TogglePause pauses or resumes playback and returns whether it is now paused.
func (p *PlaybackService) TogglePause(ctx context.Context, input ControlInput) (bool, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return false, err
	}
	return q.TogglePause(ctx)
}

// ToggleLoop flips looping of the current song and returns the new value.
func (p *PlaybackService) ToggleLoop(ctx context.Context, input ControlInput) (bool, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessAdmin)
	if err != nil {
		return false, err
	}
	loop := q.ToggleLoop()
	q.RefreshStatus(ctx)
	return loop, nil
}

// VolumeUp raises the volume one step.
func (p *PlaybackService) VolumeUp(ctx context.Context, input ControlInput) (*VolumeOutput, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return nil, err
	}
	volume, changed := q.VolumeUp(ctx)
	return &VolumeOutput{Volume: volume, Changed: changed}, nil
}

// VolumeDown lowers the volume one step.
func (p *PlaybackService) VolumeDown(ctx context.Context, input ControlInput) (*VolumeOutput, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return nil, err
	}
	volume, changed := q.VolumeDown(ctx)
	return &VolumeOutput{Volume: volume, Changed: changed}, nil
}

// SetVolume sets the volume to an absolute level.
func (p *PlaybackService) SetVolume(ctx context.Context, input SetVolumeInput) (*VolumeOutput, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return nil, err
	}
	previous := q.Volume()
	if err := q.SetVolume(ctx, input.Volume); err != nil {
		return nil, err
	}
	return &VolumeOutput{Volume: input.Volume, Changed: previous != input.Volume}, nil
}

// Remove deletes the song at the given one-based position. Removing the
// current song moves playback to the song that took its place, or ends the
// queue when none did.
func (p *PlaybackService) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessManage)
	if err != nil {
		return nil, err
	}

	index := input.Position - 1
	songs := q.Songs()
	if index < 0 || index >= len(songs) {
		return nil, ErrInvalidIndex
	}
	removed := songs[index]

	status := q.RemoveSong(ctx, removed.ID)
	switch status {
	case domain.RemoveSkip:
		if err := q.SelectSong(ctx, index); err != nil {
			slog.Warn("failed to play song after removal", "guild", input.GuildID, "error", err)
		}
	case domain.RemoveDestroyed:
		q.Destroy(ctx)
	}

	return &RemoveOutput{Removed: removed, Status: status}, nil
}

// Disconnect clears the queue, leaves the voice channel and destroys the queue.
func (p *PlaybackService) Disconnect(ctx context.Context, input ControlInput) error {
	q, err := p.access.queueFor(input.GuildID, input.Actor, accessAdmin)
	if err != nil {
		return err
	}
	q.ClearQueue(ctx)
	q.Destroy(ctx)
	return nil
}

// RefreshStatus redraws the guild's status message.
func (p *PlaybackService) RefreshStatus(ctx context.Context, guildID snowflake.ID) error {
	q, ok := p.registry.Get(guildID)
	if !ok {
		return ErrQueueNotFound
	}
	q.RefreshStatus(ctx)
	return nil
}

func currentSong(q *queue.MusicQueue) *domain.Song {
	song, ok := q.CurrentSong()
	if !ok {
		return nil
	}
	return &song
}
