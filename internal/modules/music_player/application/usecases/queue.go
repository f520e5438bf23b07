package usecases

import (
	"context"
	"log/slog"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/listview"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// NavigateListInput contains the input for the NavigateList use case.
type NavigateListInput struct {
	Token string
	Page  int
}

// ListSongsOutput contains the output for the ListSongs use case.
type ListSongsOutput struct {
	Songs        []domain.Song
	CurrentIndex int
}

// QueueService handles read-only views of a guild's queue.
type QueueService struct {
	registry *queue.Registry
	views    *listview.Store
}

// NewQueueService creates a new QueueService.
func NewQueueService(registry *queue.Registry, views *listview.Store) *QueueService {
	return &QueueService{
		registry: registry,
		views:    views,
	}
}

// OpenList opens a paginated list of the guild's queue on the page holding
// the current song.
func (s *QueueService) OpenList(guildID snowflake.ID) (ports.ListPageView, error) {
	q, ok := s.registry.Get(guildID)
	if !ok {
		return ports.ListPageView{}, ErrQueueNotFound
	}
	return q.GenerateList(s.views), nil
}

// NavigateList moves an open list to another page.
func (s *QueueService) NavigateList(input NavigateListInput) (ports.ListPageView, error) {
	return s.views.Navigate(input.Token, input.Page)
}

// ListSongs returns the guild's songs for autocomplete. A guild without a
// queue has no songs.
func (s *QueueService) ListSongs(guildID snowflake.ID) *ListSongsOutput {
	q, ok := s.registry.Get(guildID)
	if !ok {
		return &ListSongsOutput{}
	}
	return &ListSongsOutput{
		Songs:        q.Songs(),
		CurrentIndex: q.CurrentIndex(),
	}
}

// HandleQueueDestroyed closes the lists opened for a destroyed queue.
func (s *QueueService) HandleQueueDestroyed(_ context.Context, event domain.QueueDestroyedEvent) {
	s.views.CloseGuild(event.GuildID)
	slog.Debug("closed list views of destroyed queue", "guild", event.GuildID)
}
