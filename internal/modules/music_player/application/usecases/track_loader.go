package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds the playlist entries fetched at once.
const DefaultFetchConcurrency = 4

// LoadSongsInput contains the input for the LoadSongs use case.
type LoadSongsInput struct {
	Query     string
	Requester domain.Requester
}

// LoadSongsOutput contains the result of the LoadSongs use case.
type LoadSongsOutput struct {
	Songs []*domain.Song
	// Start is the index in Songs playback should begin at.
	Start int
	// Skipped counts playlist entries that could not be fetched.
	Skipped       int
	IsPlaylist    bool
	PlaylistTitle string
}

// TrackLoaderService turns user queries into songs.
type TrackLoaderService struct {
	downloader  ports.Downloader
	concurrency int
}

// NewTrackLoaderService creates a new TrackLoaderService that fetches at most
// concurrency playlist entries in parallel.
func NewTrackLoaderService(downloader ports.Downloader, concurrency int) *TrackLoaderService {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	return &TrackLoaderService{
		downloader:  downloader,
		concurrency: concurrency,
	}
}

// LoadSongs resolves the query into one song or a whole playlist.
// Playlist entries that fail to fetch are skipped and counted; if every
// entry fails the load fails with ErrSongUnavailable.
func (s *TrackLoaderService) LoadSongs(
	ctx context.Context,
	input LoadSongsInput,
) (*LoadSongsOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrNoResults
	}

	resolution, err := s.downloader.Resolve(ctx, query)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("%w: %w", ErrSongUnavailable, err)
	}

	switch {
	case resolution.Track != nil:
		track := resolution.Track
		return &LoadSongsOutput{
			Songs: []*domain.Song{domain.NewSong(track.Metadata(), input.Requester, track.Audio)},
		}, nil
	case resolution.Playlist != nil:
		return s.loadPlaylist(ctx, resolution.Playlist, query.PlaylistStart(), input.Requester)
	default:
		return nil, ErrNoResults
	}
}

func (s *TrackLoaderService) loadPlaylist(
	ctx context.Context,
	playlist *ports.Playlist,
	start int,
	requester domain.Requester,
) (*LoadSongsOutput, error) {
	if len(playlist.Entries) == 0 {
		return nil, ErrNoResults
	}
	defer s.downloader.Release(playlist.Entries)

	fetched := make([]*ports.FetchedTrack, len(playlist.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, entry := range playlist.Entries {
		g.Go(func() error {
			track, err := s.downloader.Fetch(gctx, entry)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Debug("skipping unavailable playlist entry",
					"playlist", playlist.Title,
					"entry", entry,
					"error", err,
				)
				return nil
			}
			fetched[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	output := &LoadSongsOutput{
		IsPlaylist:    true,
		PlaylistTitle: playlist.Title,
	}
	for i, track := range fetched {
		if track == nil {
			output.Skipped++
			continue
		}
		if i < start {
			output.Start++
		}
		output.Songs = append(output.Songs, domain.NewSong(track.Metadata(), requester, track.Audio))
	}

	if len(output.Songs) == 0 {
		return nil, fmt.Errorf("%w: all %d playlist entries failed", ErrSongUnavailable, len(fetched))
	}
	output.Start = min(output.Start, len(output.Songs)-1)

	if output.Skipped > 0 {
		slog.Info("loaded playlist with unavailable entries",
			"playlist", playlist.Title,
			"loaded", len(output.Songs),
			"skipped", output.Skipped,
		)
	}

	return output, nil
}

// SearchTracksInput contains the input for the SearchTracks use case.
type SearchTracksInput struct {
	Query string
	Limit int
}

// SearchResult is one autocomplete candidate.
type SearchResult struct {
	Title string
	URL   string
}

// SearchTracksOutput contains the result of the SearchTracks use case.
type SearchTracksOutput struct {
	Results []SearchResult
}

// SearchTracks searches for tracks matching the query. Candidates without a
// URL are dropped since they cannot be replayed as a query.
func (s *TrackLoaderService) SearchTracks(
	ctx context.Context,
	input SearchTracksInput,
) (*SearchTracksOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return &SearchTracksOutput{}, nil
	}

	tracks, err := s.downloader.Search(ctx, query, input.Limit)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return &SearchTracksOutput{}, nil
		}
		return nil, err
	}

	results := lo.FilterMap(tracks, func(t *ports.FetchedTrack, _ int) (SearchResult, bool) {
		return SearchResult{Title: t.Title, URL: t.URL}, t.URL != ""
	})
	if input.Limit > 0 && len(results) > input.Limit {
		results = results[:input.Limit]
	}

	return &SearchTracksOutput{Results: results}, nil
}
