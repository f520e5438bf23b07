package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/samber/lo"
)

// trackLoader is the part of a Lavalink node used to load tracks.
type trackLoader interface {
	LoadTracks(ctx context.Context, identifier string) (*lavalink.LoadResult, error)
}

// LavalinkDownloader resolves queries through Lavalink's track loading.
// Playlist tracks arrive fully loaded, so they are kept until fetched.
type LavalinkDownloader struct {
	node func() trackLoader

	mu      sync.Mutex
	fetched map[string]*ports.FetchedTrack
}

// NewLavalinkDownloader creates a downloader. node returns the node to load
// from, or nil when none is available.
func NewLavalinkDownloader(node func() trackLoader) *LavalinkDownloader {
	return &LavalinkDownloader{
		node:    node,
		fetched: make(map[string]*ports.FetchedTrack),
	}
}

func (d *LavalinkDownloader) load(ctx context.Context, identifier string) (*lavalink.LoadResult, error) {
	node := d.node()
	if node == nil {
		return nil, fmt.Errorf("%w: no available Lavalink node", ports.ErrTransient)
	}

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrTransient, err)
	}

	switch data := result.Data.(type) {
	case lavalink.Empty, nil:
		return nil, ports.ErrNotFound
	case lavalink.Exception:
		return nil, fmt.Errorf("%w: %s", ports.ErrTransient, data.Message)
	default:
		return result, nil
	}
}

// Resolve loads the query as a single track or a playlist. Searches resolve
// to their first result.
func (d *LavalinkDownloader) Resolve(
	ctx context.Context,
	query *domain.SearchQuery,
) (*ports.Resolution, error) {
	result, err := d.load(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.Resolution{Track: convertTrack(data)}, nil

	case lavalink.Search:
		if len(data) == 0 {
			return nil, ports.ErrNotFound
		}
		return &ports.Resolution{Track: convertTrack(data[0])}, nil

	case lavalink.Playlist:
		if len(data.Tracks) == 0 {
			return nil, ports.ErrNotFound
		}

		d.mu.Lock()
		entries := make([]string, len(data.Tracks))
		for i, track := range data.Tracks {
			fetched := convertTrack(track)
			entries[i] = entryKey(fetched)
			d.fetched[entries[i]] = fetched
		}
		d.mu.Unlock()

		return &ports.Resolution{Playlist: &ports.Playlist{
			Title:   data.Info.Name,
			URL:     query.Query,
			Entries: entries,
		}}, nil

	default:
		return nil, ports.ErrNotFound
	}
}

// Fetch returns a playlist entry loaded by Resolve, or loads identifier.
func (d *LavalinkDownloader) Fetch(ctx context.Context, identifier string) (*ports.FetchedTrack, error) {
	d.mu.Lock()
	fetched, ok := d.fetched[identifier]
	delete(d.fetched, identifier)
	d.mu.Unlock()
	if ok {
		return fetched, nil
	}

	result, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}

	tracks := loadedTracks(result)
	if len(tracks) == 0 {
		return nil, ports.ErrNotFound
	}
	return tracks[0], nil
}

// Release forgets playlist entries kept by Resolve.
func (d *LavalinkDownloader) Release(entries []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range entries {
		delete(d.fetched, entry)
	}
}

// Search returns up to limit tracks for the query.
func (d *LavalinkDownloader) Search(
	ctx context.Context,
	query *domain.SearchQuery,
	limit int,
) ([]*ports.FetchedTrack, error) {
	result, err := d.load(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	tracks := loadedTracks(result)
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func loadedTracks(result *lavalink.LoadResult) []*ports.FetchedTrack {
	var tracks []lavalink.Track
	switch data := result.Data.(type) {
	case lavalink.Track:
		tracks = []lavalink.Track{data}
	case lavalink.Search:
		tracks = data
	case lavalink.Playlist:
		tracks = data.Tracks
	}
	return lo.Map(tracks, func(track lavalink.Track, _ int) *ports.FetchedTrack {
		return convertTrack(track)
	})
}

// entryKey names a playlist entry so it can be fetched again later.
func entryKey(track *ports.FetchedTrack) string {
	if track.URL != "" {
		return track.URL
	}
	return track.Identifier
}

func convertTrack(track lavalink.Track) *ports.FetchedTrack {
	info := track.Info
	return &ports.FetchedTrack{
		Identifier:   info.Identifier,
		Title:        info.Title,
		URL:          lo.FromPtr(info.URI),
		ThumbnailURL: lo.FromPtr(info.ArtworkURL),
		SourceName:   info.SourceName,
		Duration:     time.Duration(info.Length) * time.Millisecond,
		Audio:        domain.AudioSource(track.Encoded),
	}
}

var _ ports.Downloader = (*LavalinkDownloader)(nil)
