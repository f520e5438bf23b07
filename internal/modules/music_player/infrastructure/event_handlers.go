package infrastructure

import (
	"context"
	"log/slog"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

// PlayerStateChangedFunc receives a guild's player state change.
type PlayerStateChangedFunc func(ctx context.Context, event domain.PlayerStateChangedEvent)

// QueueDestroyedFunc receives the teardown of a guild's queue.
type QueueDestroyedFunc func(ctx context.Context, event domain.QueueDestroyedEvent)

// PlaybackEventHandler connects the event bus to the queue registry and the
// views that outlive a queue.
type PlaybackEventHandler struct {
	onPlayerStateChanged PlayerStateChangedFunc
	onQueueDestroyed     QueueDestroyedFunc
	subscriber           ports.EventSubscriber
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	onPlayerStateChanged PlayerStateChangedFunc,
	onQueueDestroyed QueueDestroyedFunc,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		onPlayerStateChanged: onPlayerStateChanged,
		onQueueDestroyed:     onQueueDestroyed,
		subscriber:           subscriber,
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() {
	h.subscriber.OnPlayerStateChanged(h.handlePlayerStateChanged)
	h.subscriber.OnQueueDestroyed(h.handleQueueDestroyed)

	slog.Debug("playback event handler started")
}

func (h *PlaybackEventHandler) handlePlayerStateChanged(
	ctx context.Context,
	event domain.PlayerStateChangedEvent,
) {
	slog.Debug("player state changed",
		"guild", event.GuildID,
		"from", event.From,
		"to", event.To,
		"reason", event.Reason,
	)

	if h.onPlayerStateChanged != nil {
		h.onPlayerStateChanged(ctx, event)
	}
}

func (h *PlaybackEventHandler) handleQueueDestroyed(
	ctx context.Context,
	event domain.QueueDestroyedEvent,
) {
	slog.Debug("queue destroyed", "guild", event.GuildID)

	if h.onQueueDestroyed != nil {
		h.onQueueDestroyed(ctx, event)
	}
}
