// Package listview keeps the paginated queue lists that are open in chat.
package listview

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrNotFound is returned for a handshake token that names no open list.
	ErrNotFound = errors.New("this list is no longer available")
	// ErrExpired is returned when a list's idle window has passed.
	ErrExpired = errors.New("this list has expired")
)

type session = domain.ListViewSession[ports.ListRow]

type entry struct {
	guildID snowflake.ID
	session *session
	total   int
	timer   *time.Timer
}

// Store holds open list views keyed by handshake token. Each view is dropped
// once it has been idle for the store's timeout.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	timeout  time.Duration
	pageSize int
	now      func() time.Time
}

// NewStore creates a Store whose views expire after timeout without interaction.
func NewStore(timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = domain.DefaultListTimeout
	}
	return &Store{
		sessions: make(map[string]*entry),
		timeout:  timeout,
		pageSize: domain.DefaultPageSize,
		now:      time.Now,
	}
}

// Open starts a view over rows. The first page shown is the one holding the
// current song.
func (s *Store) Open(guildID snowflake.ID, rows []ports.ListRow) ports.ListPageView {
	list := domain.NewPaginatedList(rows, s.pageSize, func(r ports.ListRow) bool { return r.Current })

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := domain.NewListViewSession(list, s.timeout, s.now())
	e := &entry{guildID: guildID, session: sess, total: len(rows)}
	token := sess.Token
	e.timer = time.AfterFunc(s.timeout, func() { s.expire(token) })
	s.sessions[token] = e

	slog.Debug("opened list view", "guild", guildID, "token", token, "pages", list.PageCount())

	return pageView(e)
}

// Navigate moves the view named by token to page. A page that does not exist
// redisplays the current one.
func (s *Store) Navigate(token string, page int) (ports.ListPageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return ports.ListPageView{}, ErrNotFound
	}

	now := s.now()
	if e.session.Expired(now) {
		s.removeLocked(token)
		return ports.ListPageView{}, ErrExpired
	}

	e.session.List().Goto(page)
	e.session.Touch(now)
	e.timer.Reset(s.timeout)

	return pageView(e), nil
}

// CloseGuild drops every view opened for guildID.
func (s *Store) CloseGuild(guildID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, e := range s.sessions {
		if e.guildID == guildID {
			s.removeLocked(token)
		}
	}
}

// Close drops every view.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token := range s.sessions {
		s.removeLocked(token)
	}
}

// Len returns the number of open views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return
	}
	if !e.session.Expired(s.now()) {
		e.timer.Reset(s.timeout)
		return
	}
	s.removeLocked(token)
	slog.Debug("list view expired", "guild", e.guildID, "token", token)
}

func (s *Store) removeLocked(token string) {
	if e, ok := s.sessions[token]; ok {
		e.timer.Stop()
		delete(s.sessions, token)
	}
}

func pageView(e *entry) ports.ListPageView {
	list := e.session.List()
	return ports.ListPageView{
		Token:     e.session.Token,
		Rows:      list.Rows(),
		Page:      list.CurrentPage(),
		PageCount: list.PageCount(),
		Total:     e.total,
	}
}
