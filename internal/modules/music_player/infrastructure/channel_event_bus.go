package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// Each event type has one dispatcher goroutine, so handlers see events of a
// type in publish order.
type ChannelEventBus struct {
	playerStateChanged chan domain.PlayerStateChangedEvent
	queueDestroyed     chan domain.QueueDestroyedEvent

	playerStateChangedHandlers []func(context.Context, domain.PlayerStateChangedEvent)
	queueDestroyedHandlers     []func(context.Context, domain.QueueDestroyedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		playerStateChanged: make(chan domain.PlayerStateChangedEvent, bufferSize),
		queueDestroyed:     make(chan domain.QueueDestroyedEvent, bufferSize),
		ctx:                ctx,
		cancel:             cancel,
	}

	bus.wg.Add(2)
	go dispatch(bus, bus.playerStateChanged, func() []func(context.Context, domain.PlayerStateChangedEvent) {
		return bus.playerStateChangedHandlers
	})
	go dispatch(bus, bus.queueDestroyed, func() []func(context.Context, domain.QueueDestroyedEvent) {
		return bus.queueDestroyedHandlers
	})

	return bus
}

// dispatch delivers events from ch to the handlers returned by handlers until
// the bus is closed.
func dispatch[E any](
	b *ChannelEventBus,
	ch <-chan E,
	handlers func() []func(context.Context, E),
) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.mu.RLock()
			current := handlers()
			b.mu.RUnlock()
			for _, handler := range current {
				handler(b.ctx, event)
			}
		}
	}
}

// publish sends event on ch without blocking. Events published to a closed
// bus or a full buffer are dropped with a warning.
func publish[E any](b *ChannelEventBus, ch chan<- E, kind string, event E) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", kind)
		return
	}

	select {
	case ch <- event:
		slog.Debug("published event", "type", kind)
	default:
		slog.Warn("event buffer full, dropping event", "type", kind)
	}
}

// PublishPlayerStateChanged publishes a PlayerStateChangedEvent.
func (b *ChannelEventBus) PublishPlayerStateChanged(event domain.PlayerStateChangedEvent) {
	publish(b, b.playerStateChanged, "PlayerStateChanged", event)
}

// PublishQueueDestroyed publishes a QueueDestroyedEvent.
func (b *ChannelEventBus) PublishQueueDestroyed(event domain.QueueDestroyedEvent) {
	publish(b, b.queueDestroyed, "QueueDestroyed", event)
}

// OnPlayerStateChanged registers a handler for PlayerStateChangedEvent.
func (b *ChannelEventBus) OnPlayerStateChanged(
	handler func(context.Context, domain.PlayerStateChangedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playerStateChangedHandlers = append(b.playerStateChangedHandlers, handler)
}

// OnQueueDestroyed registers a handler for QueueDestroyedEvent.
func (b *ChannelEventBus) OnQueueDestroyed(
	handler func(context.Context, domain.QueueDestroyedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueDestroyedHandlers = append(b.queueDestroyedHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()

	close(b.playerStateChanged)
	close(b.queueDestroyed)

	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
