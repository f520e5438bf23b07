package ports

import (
	"context"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// View is a snapshot the presenter knows how to render.
type View interface {
	isView()
}

// NowPlayingView describes the queue's status message.
type NowPlayingView struct {
	Song     domain.Song
	Position int // zero-based index of Song in the queue
	Total    int
	Elapsed  time.Duration
	Loop     bool
	Paused   bool
	Volume   domain.Volume
}

// QueueEmptyView announces that the queue ran out of songs.
type QueueEmptyView struct{}

// ListRow is one line of the queue list.
type ListRow struct {
	Position int // zero-based
	Song     domain.Song
	Current  bool
}

// ListPageView is one page of an open queue list.
type ListPageView struct {
	Token     string
	Rows      []ListRow
	Page      int
	PageCount int
	Total     int
}

func (NowPlayingView) isView() {}
func (QueueEmptyView) isView() {}
func (ListPageView) isView()   {}

// Presenter renders views into chat messages.
type Presenter interface {
	Send(ctx context.Context, channelID snowflake.ID, view View) (domain.MessageRef, error)
	Edit(ctx context.Context, ref domain.MessageRef, view View) error
	Delete(ctx context.Context, ref domain.MessageRef) error
}
