package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

var (
	// ErrNotFound is returned when an identifier resolves to nothing.
	ErrNotFound = errors.New("track not found")
	// ErrTransient is returned when the lookup failed but may succeed later.
	ErrTransient = errors.New("track lookup failed")
)

// FetchedTrack is a playable track with its metadata.
type FetchedTrack struct {
	Identifier   string
	Title        string
	URL          string
	ThumbnailURL string
	SourceName   string
	Duration     time.Duration
	Audio        domain.AudioSource
}

// Metadata returns the display fields used to build a song.
func (t *FetchedTrack) Metadata() domain.SongMetadata {
	return domain.SongMetadata{
		Title:        t.Title,
		URL:          t.URL,
		ThumbnailURL: t.ThumbnailURL,
		SourceName:   t.SourceName,
		Duration:     t.Duration,
	}
}

// Playlist lists the entries of a remote playlist. Entries are identifiers
// to be fetched one by one.
type Playlist struct {
	Title   string
	URL     string
	Entries []string
}

// Resolution is what a user query resolved to: exactly one of Track or Playlist is set.
type Resolution struct {
	Track    *FetchedTrack
	Playlist *Playlist
}

// Downloader resolves user input and identifiers into playable tracks.
type Downloader interface {
	// Resolve turns a URL or search term into a single track or a playlist.
	Resolve(ctx context.Context, query *domain.SearchQuery) (*Resolution, error)
	// Fetch loads one track by identifier.
	Fetch(ctx context.Context, identifier string) (*FetchedTrack, error)
	// Search returns up to limit candidate tracks for a search term.
	Search(ctx context.Context, query *domain.SearchQuery, limit int) ([]*FetchedTrack, error)
	// Release drops anything Resolve kept for playlist entries that were
	// never fetched.
	Release(entries []string)
}
