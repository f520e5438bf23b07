// Package queue holds the per-guild music queues and the registry that owns them.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/listview"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

const (
	// mailboxSize bounds the player events waiting for one queue.
	mailboxSize = 32
	// eventTimeout bounds the collaborator calls made while handling one player event.
	eventTimeout = 30 * time.Second
)

// Policy configures behavior that differs between deployments.
type Policy struct {
	VolumeMode    domain.VolumeMode
	DefaultVolume domain.Volume
}

// DefaultPolicy reapplies the queue volume to every song and starts at full volume.
func DefaultPolicy() Policy {
	return Policy{
		VolumeMode:    domain.VolumeModeQueue,
		DefaultVolume: domain.DefaultVolume,
	}
}

// Dependencies are the collaborators shared by every queue.
type Dependencies struct {
	Transport  ports.Transport
	Presenter  ports.Presenter
	VoiceState ports.VoiceStateProvider
	// Scheduler drives the status refresh. Nil disables it.
	Scheduler ports.Scheduler
	// Events receives QueueDestroyedEvent. Optional.
	Events          ports.EventPublisher
	RefreshInterval time.Duration
	Policy          Policy
}

// MusicQueue is one guild's playlist and player.
//
// Every operation holds the queue's mutex for its whole duration, including
// collaborator calls, so operations on one guild are totally ordered while
// other guilds proceed independently. Player events are fed through a mailbox
// drained by the queue's own goroutine.
type MusicQueue struct {
	guildID snowflake.ID
	deps    Dependencies

	mu             sync.Mutex
	voiceChannelID snowflake.ID
	textChannelID  snowflake.ID
	conn           ports.Connection
	songs          domain.SongList
	status         domain.PlaybackStatus
	loop           bool
	volume         domain.Volume
	playerVolume   domain.Volume
	locked         bool
	statusRef      domain.MessageRef
	refresh        ports.Task
	onDestroy      func(*MusicQueue)

	mailbox  chan domain.PlayerStateChangedEvent
	done     chan struct{}
	stopped  chan struct{}
	doneOnce sync.Once
}

// New creates a queue around an open connection. The mailbox loop is not
// running until Start is called.
func New(
	guildID, voiceChannelID, textChannelID snowflake.ID,
	conn ports.Connection,
	deps Dependencies,
) *MusicQueue {
	if deps.Policy == (Policy{}) {
		deps.Policy = DefaultPolicy()
	}
	if deps.Policy.VolumeMode == "" {
		deps.Policy.VolumeMode = domain.VolumeModeQueue
	}
	volume := deps.Policy.DefaultVolume
	if !volume.Valid() {
		volume = domain.DefaultVolume
	}

	q := &MusicQueue{
		guildID:        guildID,
		deps:           deps,
		voiceChannelID: voiceChannelID,
		textChannelID:  textChannelID,
		conn:           conn,
		songs:          domain.NewSongList(),
		status:         domain.StatusIdle,
		volume:         volume,
		playerVolume:   -1,
		mailbox:        make(chan domain.PlayerStateChangedEvent, mailboxSize),
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}

	if deps.Scheduler != nil && deps.RefreshInterval > 0 {
		q.refresh = deps.Scheduler.Every(deps.RefreshInterval, q.RefreshStatus)
	}

	return q
}

// Start launches the goroutine that applies delivered player events.
func (q *MusicQueue) Start() {
	go q.run()
}

func (q *MusicQueue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.done:
			return
		case event := <-q.mailbox:
			ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
			q.HandlePlayerEvent(ctx, event)
			cancel()
		}
	}
}

// Deliver queues a player event for the mailbox loop. It never blocks; the
// event is dropped when the queue is destroyed or the mailbox is full.
func (q *MusicQueue) Deliver(event domain.PlayerStateChangedEvent) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.mailbox <- event:
		return true
	default:
		slog.Warn("queue mailbox full, dropping player event",
			"guild", q.guildID,
			"from", event.From,
			"to", event.To,
		)
		return false
	}
}

// Wait blocks until the mailbox loop started by Start has exited.
func (q *MusicQueue) Wait() {
	<-q.stopped
}

// GuildID returns the owning guild.
func (q *MusicQueue) GuildID() snowflake.ID {
	return q.guildID
}

// VoiceChannelID returns the voice channel the queue plays in.
func (q *MusicQueue) VoiceChannelID() snowflake.ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.voiceChannelID
}

// TextChannelID returns the channel status messages are sent to.
func (q *MusicQueue) TextChannelID() snowflake.ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.textChannelID
}

// Songs returns a snapshot of the song list.
func (q *MusicQueue) Songs() []domain.Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.songs.Snapshot()
}

// Len returns the number of songs.
func (q *MusicQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.songs.Len()
}

// CurrentIndex returns the cursor position.
func (q *MusicQueue) CurrentIndex() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.songs.CurrentIndex()
}

// CurrentSong returns a snapshot of the current song.
func (q *MusicQueue) CurrentSong() (domain.Song, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if song := q.songs.Current(); song != nil {
		return song.Snapshot(), true
	}
	return domain.Song{}, false
}

// Status returns the playback status.
func (q *MusicQueue) Status() domain.PlaybackStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

// Loop reports whether the current song repeats.
func (q *MusicQueue) Loop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loop
}

// Volume returns the queue volume.
func (q *MusicQueue) Volume() domain.Volume {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.volume
}

// IsLocked reports whether teardown has started.
func (q *MusicQueue) IsLocked() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.locked
}

// AddSong appends song. If the queue is idle and autoplay is set, the song
// under the cursor starts playing. A destroyed queue drops the song.
func (q *MusicQueue) AddSong(ctx context.Context, song *domain.Song, autoplay bool) *domain.Song {
	if err := q.AddSongs(ctx, []*domain.Song{song}, autoplay); err != nil {
		slog.Debug("dropped song for destroyed queue", "guild", q.guildID, "song", song.Title)
	}
	return song
}

// AddSongs appends songs in order. Autoplay is attempted once, after the
// whole batch is in. It returns domain.ErrQueueDestroyed once teardown has
// started.
func (q *MusicQueue) AddSongs(ctx context.Context, songs []*domain.Song, autoplay bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}
	if len(songs) == 0 {
		return nil
	}

	q.songs.Append(songs...)

	if autoplay && q.status == domain.StatusIdle {
		if err := q.selectLocked(ctx, q.songs.CurrentIndex()); err != nil {
			slog.Warn("failed to autoplay song", "guild", q.guildID, "error", err)
		}
	}
	return nil
}

// AddBatch appends songs with autoplay off. If the queue was idle, one song
// is then selected: the song under a cursor left on an earlier entry, or else
// the batch entry at start. It reports whether playback started, and returns
// domain.ErrQueueDestroyed once teardown has started.
func (q *MusicQueue) AddBatch(ctx context.Context, songs []*domain.Song, start int) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return false, domain.ErrQueueDestroyed
	}
	if len(songs) == 0 {
		return false, nil
	}

	base := q.songs.Len()
	idle := q.status == domain.StatusIdle
	q.songs.Append(songs...)
	if !idle {
		return false, nil
	}

	target := q.songs.CurrentIndex()
	if target >= base {
		target = base + min(max(start, 0), len(songs)-1)
	}
	if err := q.selectLocked(ctx, target); err != nil {
		slog.Warn("failed to start batch", "guild", q.guildID, "error", err)
	}
	return q.status == domain.StatusPlaying, nil
}

// RemoveSong removes the song with id and reports how playback is affected.
// The caller acts on RemoveSkip and RemoveDestroyed.
func (q *MusicQueue) RemoveSong(_ context.Context, id domain.SongID) domain.RemoveStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.RemoveNone
	}

	removed, status := q.songs.Remove(id)
	if removed != nil {
		slog.Debug("removed song", "guild", q.guildID, "song", removed.Title, "status", status)
	}
	return status
}

// SelectSong plays the song at index. It returns domain.ErrInvalidIndex and
// changes nothing when index has no song.
func (q *MusicQueue) SelectSong(ctx context.Context, index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}
	return q.selectLocked(ctx, index)
}

// SkipSong plays the next song. From the last song it stops playback and
// parks the cursor one past the end; the resulting player event tears the
// queue down.
func (q *MusicQueue) SkipSong(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}

	if q.songs.HasNext() {
		return q.selectLocked(ctx, q.songs.CurrentIndex()+1)
	}

	q.songs.Advance()
	q.stopLocked(ctx)
	q.status = domain.StatusIdle
	return nil
}

// PreviousSong plays the song before the current one. At the first song it
// does nothing.
func (q *MusicQueue) PreviousSong(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}

	index := q.songs.CurrentIndex()
	if index <= 0 {
		return nil
	}
	return q.selectLocked(ctx, index-1)
}

// SetLoop sets whether the current song repeats.
func (q *MusicQueue) SetLoop(loop bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.loop = loop
}

// ToggleLoop flips the loop flag and returns the new value.
func (q *MusicQueue) ToggleLoop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.loop = !q.loop
	return q.loop
}

// SetVolume sets the queue volume and applies it to the current song.
func (q *MusicQueue) SetVolume(ctx context.Context, volume domain.Volume) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}
	if !volume.Valid() {
		return domain.ErrInvalidVolume
	}
	q.setVolumeLocked(ctx, volume)
	return nil
}

// VolumeUp raises the volume one step. It returns false at the upper bound.
func (q *MusicQueue) VolumeUp(ctx context.Context) (domain.Volume, bool) {
	return q.stepVolume(ctx, 1)
}

// VolumeDown lowers the volume one step. It returns false at the lower bound.
func (q *MusicQueue) VolumeDown(ctx context.Context) (domain.Volume, bool) {
	return q.stepVolume(ctx, -1)
}

func (q *MusicQueue) stepVolume(ctx context.Context, delta domain.Volume) (domain.Volume, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	next := q.volume + delta
	if q.locked || !next.Valid() {
		return q.volume, false
	}
	q.setVolumeLocked(ctx, next)
	return next, true
}

func (q *MusicQueue) setVolumeLocked(ctx context.Context, volume domain.Volume) {
	q.volume = volume

	song := q.songs.Current()
	if song == nil || q.status == domain.StatusIdle {
		return
	}
	song.SetVolume(volume)
	q.applyPlayerVolumeLocked(ctx, volume)
}

// TogglePause pauses a playing queue or resumes a paused one. It returns the
// new paused state.
func (q *MusicQueue) TogglePause(ctx context.Context) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return false, domain.ErrQueueDestroyed
	}
	if q.conn == nil {
		return false, domain.ErrTransportFailure
	}

	switch q.status {
	case domain.StatusPlaying:
		if err := q.conn.Pause(ctx); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
		}
		q.status = domain.StatusPaused
	case domain.StatusPaused:
		if err := q.conn.Unpause(ctx); err != nil {
			return true, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
		}
		q.status = domain.StatusPlaying
	default:
		return false, domain.ErrNotPlaying
	}

	q.editStatusLocked(ctx)
	return q.status == domain.StatusPaused, nil
}

// ClearQueue stops playback and empties the list.
func (q *MusicQueue) ClearQueue(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return
	}

	q.songs.Clear()
	q.stopLocked(ctx)
	q.status = domain.StatusIdle
	q.deleteStatusLocked(ctx)
}

// SetVoiceChannel moves the queue to another voice channel by tearing the
// connection down and opening a new one. Songs, cursor, loop and volume are
// kept; a song that was playing starts again.
func (q *MusicQueue) SetVoiceChannel(ctx context.Context, channelID snowflake.ID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked {
		return domain.ErrQueueDestroyed
	}

	q.releaseConnLocked(ctx)

	conn, err := q.deps.Transport.Connect(ctx, q.guildID, channelID)
	if err != nil {
		q.status = domain.StatusIdle
		return fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	q.conn = conn
	q.voiceChannelID = channelID
	q.playerVolume = -1

	slog.Info("moved queue to voice channel", "guild", q.guildID, "channel", channelID)

	if q.status != domain.StatusIdle && q.songs.Current() != nil {
		return q.selectLocked(ctx, q.songs.CurrentIndex())
	}
	return nil
}

// UpdateVoiceChannel records that the bot was moved to channelID without
// rebuilding the connection.
func (q *MusicQueue) UpdateVoiceChannel(channelID snowflake.ID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.voiceChannelID = channelID
}

// CheckManagePermissionsFor reports whether actor may control playback.
func (q *MusicQueue) CheckManagePermissionsFor(actor domain.Actor) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return domain.CanManage(q.occupancyLocked(), actor)
}

// CheckAdminPermissionsFor reports whether actor may use admin-level controls.
func (q *MusicQueue) CheckAdminPermissionsFor(actor domain.Actor) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return domain.CanAdminister(q.occupancyLocked(), actor)
}

func (q *MusicQueue) occupancyLocked() domain.Occupancy {
	var occupancy domain.Occupancy
	if song := q.songs.Current(); song != nil {
		owner := song.Owner.ID
		occupancy.CurrentOwner = &owner
	}

	occupants, err := q.deps.VoiceState.ChannelOccupants(q.guildID, q.voiceChannelID)
	if err != nil {
		slog.Warn("failed to read voice channel occupants",
			"guild", q.guildID,
			"channel", q.voiceChannelID,
			"error", err,
		)
	}
	occupancy.Occupants = occupants
	return occupancy
}

// GenerateList opens a paginated view of the songs in views, starting on the
// page that holds the current song.
func (q *MusicQueue) GenerateList(views *listview.Store) ports.ListPageView {
	q.mu.Lock()
	current := q.songs.CurrentIndex()
	rows := lo.Map(q.songs.Snapshot(), func(song domain.Song, i int) ports.ListRow {
		return ports.ListRow{Position: i, Song: song, Current: i == current}
	})
	q.mu.Unlock()

	return views.Open(q.guildID, rows)
}

// RefreshStatus edits the status message in place. Nothing is sent while
// paused or when there is no status message.
func (q *MusicQueue) RefreshStatus(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.locked || q.status == domain.StatusPaused {
		return
	}
	q.editStatusLocked(ctx)
}

// HandlePlayerEvent applies a player state change. This is the auto-advance
// hook: natural completion replays, advances or tears the queue down.
func (q *MusicQueue) HandlePlayerEvent(ctx context.Context, event domain.PlayerStateChangedEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	outcome := domain.Transition(domain.PlaybackSnapshot{
		Status:       q.status,
		Locked:       q.locked,
		Loop:         q.loop,
		CurrentIndex: q.songs.CurrentIndex(),
		Len:          q.songs.Len(),
	}, event)

	slog.Debug("player state changed",
		"guild", q.guildID,
		"from", event.From,
		"to", event.To,
		"reason", event.Reason,
		"next", outcome.Next,
		"effects", outcome.Effects,
	)

	q.status = outcome.Next
	for _, effect := range outcome.Effects {
		q.applyEffectLocked(ctx, effect)
	}
}

func (q *MusicQueue) applyEffectLocked(ctx context.Context, effect domain.Effect) {
	switch effect {
	case domain.EffectReplay:
		if err := q.playCurrentLocked(ctx); err != nil {
			slog.Warn("failed to replay song", "guild", q.guildID, "error", err)
			q.skipFailedLocked(ctx)
		}
	case domain.EffectAdvance:
		if err := q.selectLocked(ctx, q.songs.CurrentIndex()+1); err != nil {
			slog.Warn("failed to advance queue", "guild", q.guildID, "error", err)
		}
	case domain.EffectNotifyEmpty:
		q.notifyEmptyLocked(ctx)
	case domain.EffectDestroy:
		q.destroyLocked(ctx)
	}
}

// Destroy tears the queue down: further operations are refused, the refresh
// task is cancelled, the status message is deleted, the connection is
// released and the queue leaves its registry. It is safe to call more than once.
func (q *MusicQueue) Destroy(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.destroyLocked(ctx)
}

func (q *MusicQueue) destroyLocked(ctx context.Context) {
	if q.locked {
		return
	}
	q.locked = true
	q.status = domain.StatusDestroyed

	if q.refresh != nil {
		q.refresh.Stop()
		q.refresh = nil
	}
	q.deleteStatusLocked(ctx)
	q.releaseConnLocked(ctx)
	q.doneOnce.Do(func() { close(q.done) })

	if q.onDestroy != nil {
		q.onDestroy(q)
	}
	if q.deps.Events != nil {
		q.deps.Events.PublishQueueDestroyed(domain.QueueDestroyedEvent{GuildID: q.guildID})
	}

	slog.Info("destroyed queue", "guild", q.guildID)
}

func (q *MusicQueue) releaseConnLocked(ctx context.Context) {
	if q.conn == nil {
		return
	}
	if err := q.conn.Destroy(ctx); err != nil {
		slog.Warn("failed to release voice connection", "guild", q.guildID, "error", err)
	}
	q.conn = nil
}

// selectLocked moves the cursor to index and plays that song. A song the
// transport refuses to play is skipped like a finished one.
func (q *MusicQueue) selectLocked(ctx context.Context, index int) error {
	if !q.songs.Select(index) {
		return domain.ErrInvalidIndex
	}

	song := q.songs.Current()
	volume := q.deps.Policy.VolumeMode.EffectiveVolume(song, q.volume)
	if applied, ok := song.Volume(); !ok || applied != volume {
		song.SetVolume(volume)
	}
	q.applyPlayerVolumeLocked(ctx, volume)

	if err := q.playCurrentLocked(ctx); err != nil {
		slog.Warn("failed to play song",
			"guild", q.guildID,
			"song", song.Title,
			"error", err,
		)
		q.skipFailedLocked(ctx)
		return err
	}

	slog.Info("playing song", "guild", q.guildID, "song", song.Title, "position", index)
	q.sendStatusLocked(ctx)
	return nil
}

func (q *MusicQueue) playCurrentLocked(ctx context.Context) error {
	song := q.songs.Current()
	if song == nil {
		return domain.ErrInvalidIndex
	}
	if q.conn == nil {
		return domain.ErrTransportFailure
	}
	if q.status == domain.StatusPaused {
		if err := q.conn.Unpause(ctx); err != nil {
			slog.Warn("failed to unpause player", "guild", q.guildID, "error", err)
		}
	}
	if err := q.conn.Play(ctx, song.Audio()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	q.status = domain.StatusPlaying
	return nil
}

// skipFailedLocked moves past a song that could not be played, tearing the
// queue down when nothing follows it.
func (q *MusicQueue) skipFailedLocked(ctx context.Context) {
	q.status = domain.StatusIdle
	if q.conn != nil && q.songs.HasNext() {
		_ = q.selectLocked(ctx, q.songs.CurrentIndex()+1)
		return
	}
	q.notifyEmptyLocked(ctx)
	q.destroyLocked(ctx)
}

func (q *MusicQueue) applyPlayerVolumeLocked(ctx context.Context, volume domain.Volume) {
	if q.conn == nil || q.playerVolume == volume {
		return
	}
	if err := q.conn.SetVolume(ctx, volume.Scalar()); err != nil {
		slog.Warn("failed to set volume", "guild", q.guildID, "volume", volume, "error", err)
		return
	}
	q.playerVolume = volume
}

func (q *MusicQueue) stopLocked(ctx context.Context) {
	if q.conn == nil {
		return
	}
	if err := q.conn.Stop(ctx); err != nil {
		slog.Warn("failed to stop playback", "guild", q.guildID, "error", err)
	}
}

func (q *MusicQueue) nowPlayingLocked() (ports.NowPlayingView, bool) {
	song := q.songs.Current()
	if song == nil {
		return ports.NowPlayingView{}, false
	}

	var elapsed time.Duration
	if q.conn != nil {
		elapsed = q.conn.Position()
	}

	return ports.NowPlayingView{
		Song:     song.Snapshot(),
		Position: q.songs.CurrentIndex(),
		Total:    q.songs.Len(),
		Elapsed:  elapsed,
		Loop:     q.loop,
		Paused:   q.status == domain.StatusPaused,
		Volume:   q.volume,
	}, true
}

// sendStatusLocked replaces the status message with a fresh one.
func (q *MusicQueue) sendStatusLocked(ctx context.Context) {
	view, ok := q.nowPlayingLocked()
	if !ok {
		return
	}
	q.replaceStatusLocked(ctx, view, true)
}

func (q *MusicQueue) editStatusLocked(ctx context.Context) {
	if q.statusRef.IsZero() {
		return
	}
	view, ok := q.nowPlayingLocked()
	if !ok {
		return
	}
	if err := q.deps.Presenter.Edit(ctx, q.statusRef, view); err != nil {
		slog.Warn("failed to edit status message", "guild", q.guildID, "error", err)
	}
}

func (q *MusicQueue) notifyEmptyLocked(ctx context.Context) {
	if q.locked {
		return
	}
	q.replaceStatusLocked(ctx, ports.QueueEmptyView{}, false)
}

// replaceStatusLocked deletes the old status message and sends view. The new
// message is only remembered when keep is set.
func (q *MusicQueue) replaceStatusLocked(ctx context.Context, view ports.View, keep bool) {
	q.deleteStatusLocked(ctx)

	ref, err := q.deps.Presenter.Send(ctx, q.textChannelID, view)
	if err != nil {
		slog.Warn("failed to send status message", "guild", q.guildID, "error", err)
		return
	}
	if keep {
		q.statusRef = ref
	}
}

func (q *MusicQueue) deleteStatusLocked(ctx context.Context) {
	if q.statusRef.IsZero() {
		return
	}
	if err := q.deps.Presenter.Delete(ctx, q.statusRef); err != nil {
		slog.Debug("failed to delete status message", "guild", q.guildID, "error", err)
	}
	q.statusRef = domain.MessageRef{}
}
