package ports

import (
	"context"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

// EventPublisher publishes events asynchronously.
type EventPublisher interface {
	PublishPlayerStateChanged(event domain.PlayerStateChangedEvent)
	PublishQueueDestroyed(event domain.QueueDestroyedEvent)
}

// EventSubscriber registers handlers for published events.
type EventSubscriber interface {
	OnPlayerStateChanged(handler func(context.Context, domain.PlayerStateChangedEvent))
	OnQueueDestroyed(handler func(context.Context, domain.QueueDestroyedEvent))
}
