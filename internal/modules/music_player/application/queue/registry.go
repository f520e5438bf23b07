package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/singleflight"
)

// Registry owns at most one MusicQueue per guild.
type Registry struct {
	deps Dependencies

	mu      sync.RWMutex
	queues  map[snowflake.ID]*MusicQueue
	pending map[snowflake.ID]struct{}

	// creations collapses concurrent GetOrCreate calls for one guild.
	creations singleflight.Group
}

// NewRegistry creates an empty Registry whose queues share deps.
func NewRegistry(deps Dependencies) *Registry {
	return &Registry{
		deps:    deps,
		queues:  make(map[snowflake.ID]*MusicQueue),
		pending: make(map[snowflake.ID]struct{}),
	}
}

// Get returns the guild's queue.
func (r *Registry) Get(guildID snowflake.ID) (*MusicQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queues[guildID]
	return q, ok
}

// Count returns the number of live queues.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}

// Create connects to the voice channel and registers a new queue for the
// guild. It fails with domain.ErrQueueExists when the guild already has a
// queue, or one is being created, and with domain.ErrTransportFailure when the
// connection cannot be opened; in both cases nothing is registered.
func (r *Registry) Create(
	ctx context.Context,
	guildID, voiceChannelID, textChannelID snowflake.ID,
) (*MusicQueue, error) {
	r.mu.Lock()
	if _, ok := r.queues[guildID]; ok {
		r.mu.Unlock()
		return nil, domain.ErrQueueExists
	}
	if _, ok := r.pending[guildID]; ok {
		r.mu.Unlock()
		return nil, domain.ErrQueueExists
	}
	r.pending[guildID] = struct{}{}
	r.mu.Unlock()

	conn, err := r.deps.Transport.Connect(ctx, guildID, voiceChannelID)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, guildID)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}

	q := New(guildID, voiceChannelID, textChannelID, conn, r.deps)
	q.onDestroy = r.release
	r.queues[guildID] = q
	q.Start()

	slog.Info("created queue", "guild", guildID, "channel", voiceChannelID)

	return q, nil
}

// GetOrCreate returns the guild's queue, creating it in voiceChannelID when
// there is none. Callers arriving while the guild's queue is being created
// wait for that creation and share its result. created is true only for the
// caller whose call opened the connection.
func (r *Registry) GetOrCreate(
	ctx context.Context,
	guildID, voiceChannelID, textChannelID snowflake.ID,
) (q *MusicQueue, created bool, err error) {
	if q, ok := r.Get(guildID); ok {
		return q, false, nil
	}

	result := r.creations.DoChan(guildID.String(), func() (any, error) {
		if q, ok := r.Get(guildID); ok {
			return q, nil
		}
		q, err := r.Create(ctx, guildID, voiceChannelID, textChannelID)
		if err != nil {
			return nil, err
		}
		created = true
		return q, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			if errors.Is(res.Err, domain.ErrQueueExists) {
				if q, ok := r.Get(guildID); ok {
					return q, false, nil
				}
			}
			return nil, false, res.Err
		}
		return res.Val.(*MusicQueue), created, nil
	}
}

// Destroy removes the guild's entry. The queue's resources must already have
// been released.
func (r *Registry) Destroy(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.queues, guildID)
}

// release removes q if it is still the guild's registered queue.
func (r *Registry) release(q *MusicQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.queues[q.guildID] == q {
		delete(r.queues, q.guildID)
	}
}

// HandlePlayerStateChanged hands the event to the guild's queue. Events for
// guilds without a queue are dropped.
func (r *Registry) HandlePlayerStateChanged(_ context.Context, event domain.PlayerStateChangedEvent) {
	q, ok := r.Get(event.GuildID)
	if !ok {
		slog.Debug("dropping player event for guild without queue", "guild", event.GuildID)
		return
	}
	q.Deliver(event)
}

// Shutdown destroys every queue and waits for their event loops to exit.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.RLock()
	queues := make([]*MusicQueue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mu.RUnlock()

	for _, q := range queues {
		q.Destroy(ctx)
	}
	for _, q := range queues {
		q.Wait()
	}
}
