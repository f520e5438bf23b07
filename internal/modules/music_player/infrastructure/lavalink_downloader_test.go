package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrackLoader struct {
	results map[string]*lavalink.LoadResult
	err     error
	loaded  []string
}

func (f *fakeTrackLoader) LoadTracks(_ context.Context, identifier string) (*lavalink.LoadResult, error) {
	f.loaded = append(f.loaded, identifier)
	if f.err != nil {
		return nil, f.err
	}
	if result, ok := f.results[identifier]; ok {
		return result, nil
	}
	return &lavalink.LoadResult{Data: lavalink.Empty{}}, nil
}

func lavalinkTrack(id string) lavalink.Track {
	return lavalink.Track{
		Encoded: "encoded-" + id,
		Info: lavalink.TrackInfo{
			Identifier: id,
			Title:      "Track " + id,
			Author:     "Author",
			Length:     lavalink.Duration(90_000),
			URI:        lo.ToPtr("https://example.com/" + id),
			SourceName: "youtube",
		},
	}
}

func newFakeDownloader(loader *fakeTrackLoader) *LavalinkDownloader {
	return NewLavalinkDownloader(func() trackLoader { return loader })
}

func TestLavalinkDownloader_ResolveTrack(t *testing.T) {
	loader := &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
		"https://example.com/a": {Data: lavalinkTrack("a")},
	}}
	downloader := newFakeDownloader(loader)

	resolution, err := downloader.Resolve(context.Background(), domain.NewSearchQuery("https://example.com/a"))
	require.NoError(t, err)
	require.NotNil(t, resolution.Track)
	assert.Nil(t, resolution.Playlist)

	track := resolution.Track
	assert.Equal(t, "a", track.Identifier)
	assert.Equal(t, "Track a", track.Title)
	assert.Equal(t, "https://example.com/a", track.URL)
	assert.Empty(t, track.ThumbnailURL)
	assert.Equal(t, 90*time.Second, track.Duration)
	assert.Equal(t, domain.AudioSource("encoded-a"), track.Audio)
}

func TestLavalinkDownloader_ResolveSearchUsesFirstResult(t *testing.T) {
	loader := &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
		"ytsearch:some song": {Data: lavalink.Search{lavalinkTrack("a"), lavalinkTrack("b")}},
	}}
	downloader := newFakeDownloader(loader)

	resolution, err := downloader.Resolve(context.Background(), domain.NewSearchQuery("some song"))
	require.NoError(t, err)
	assert.Equal(t, "a", resolution.Track.Identifier)
	assert.Equal(t, []string{"ytsearch:some song"}, loader.loaded)
}

func TestLavalinkDownloader_PlaylistEntriesAreFetchedWithoutReloading(t *testing.T) {
	url := "https://example.com/playlist?list=x"
	loader := &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
		url: {Data: lavalink.Playlist{
			Info:   lavalink.PlaylistInfo{Name: "Mix"},
			Tracks: []lavalink.Track{lavalinkTrack("a"), lavalinkTrack("b")},
		}},
	}}
	downloader := newFakeDownloader(loader)

	resolution, err := downloader.Resolve(context.Background(), domain.NewSearchQuery(url))
	require.NoError(t, err)
	require.NotNil(t, resolution.Playlist)
	assert.Equal(t, "Mix", resolution.Playlist.Title)
	assert.Equal(t, url, resolution.Playlist.URL)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, resolution.Playlist.Entries)

	for _, entry := range resolution.Playlist.Entries {
		track, err := downloader.Fetch(context.Background(), entry)
		require.NoError(t, err)
		assert.Equal(t, entry, track.URL)
	}
	assert.Len(t, loader.loaded, 1)

	// A second fetch of the same entry goes to the node.
	_, err = downloader.Fetch(context.Background(), "https://example.com/a")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Len(t, loader.loaded, 2)
}

func TestLavalinkDownloader_ReleaseDropsUnfetchedEntries(t *testing.T) {
	url := "https://example.com/playlist?list=x"
	loader := &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
		url: {Data: lavalink.Playlist{
			Info:   lavalink.PlaylistInfo{Name: "Mix"},
			Tracks: []lavalink.Track{lavalinkTrack("a"), lavalinkTrack("b"), lavalinkTrack("c")},
		}},
	}}
	downloader := newFakeDownloader(loader)

	resolution, err := downloader.Resolve(context.Background(), domain.NewSearchQuery(url))
	require.NoError(t, err)

	_, err = downloader.Fetch(context.Background(), resolution.Playlist.Entries[0])
	require.NoError(t, err)
	assert.Len(t, downloader.fetched, 2)

	downloader.Release(resolution.Playlist.Entries)
	assert.Empty(t, downloader.fetched)
	assert.Len(t, loader.loaded, 1)
}

func TestLavalinkDownloader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		loader  func() trackLoader
		wantErr error
	}{
		{
			name:    "empty result",
			loader:  func() trackLoader { return &fakeTrackLoader{} },
			wantErr: ports.ErrNotFound,
		},
		{
			name: "load exception",
			loader: func() trackLoader {
				return &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
					"ytsearch:x": {Data: lavalink.Exception{Message: "blocked"}},
				}}
			},
			wantErr: ports.ErrTransient,
		},
		{
			name:    "request failure",
			loader:  func() trackLoader { return &fakeTrackLoader{err: errors.New("connection refused")} },
			wantErr: ports.ErrTransient,
		},
		{
			name:    "no node",
			loader:  func() trackLoader { return nil },
			wantErr: ports.ErrTransient,
		},
		{
			name: "empty search",
			loader: func() trackLoader {
				return &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
					"ytsearch:x": {Data: lavalink.Search{}},
				}}
			},
			wantErr: ports.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloader := NewLavalinkDownloader(tt.loader)
			_, err := downloader.Resolve(context.Background(), domain.NewSearchQuery("x"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLavalinkDownloader_Search(t *testing.T) {
	loader := &fakeTrackLoader{results: map[string]*lavalink.LoadResult{
		"ytsearch:song": {Data: lavalink.Search{lavalinkTrack("a"), lavalinkTrack("b"), lavalinkTrack("c")}},
	}}
	downloader := newFakeDownloader(loader)

	tracks, err := downloader.Search(context.Background(), domain.NewSearchQuery("song"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lo.Map(tracks, func(track *ports.FetchedTrack, _ int) string {
		return track.Identifier
	}))
}
