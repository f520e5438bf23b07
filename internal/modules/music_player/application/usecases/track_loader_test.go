package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackLoaderService_LoadSongs(t *testing.T) {
	requester := domain.Requester{ID: userID, Name: "TestUser"}
	playlistURL := "https://example.com/playlist?list=abc"

	tests := []struct {
		name           string
		query          string
		setup          func(*mockDownloader)
		wantErr        error
		wantTitles     []string
		wantStart      int
		wantSkipped    int
		wantIsPlaylist bool
	}{
		{
			name:  "single track",
			query: "song",
			setup: func(m *mockDownloader) {
				m.addTrack("song", mockTrack("1"))
			},
			wantTitles: []string{"Track 1"},
		},
		{
			name:    "empty query",
			query:   "   ",
			wantErr: ErrNoResults,
		},
		{
			name:    "nothing found",
			query:   "missing",
			wantErr: ErrNoResults,
		},
		{
			name:  "resolver failure",
			query: "song",
			setup: func(m *mockDownloader) {
				m.resolveErr = errors.Join(ports.ErrTransient, errors.New("node down"))
			},
			wantErr: ErrSongUnavailable,
		},
		{
			name:  "playlist keeps entry order",
			query: playlistURL,
			setup: func(m *mockDownloader) {
				m.addPlaylist(playlistURL, "a", "b", "c")
				m.tracks["a"] = mockTrack("a")
				m.tracks["b"] = mockTrack("b")
				m.tracks["c"] = mockTrack("c")
			},
			wantTitles:     []string{"Track a", "Track b", "Track c"},
			wantIsPlaylist: true,
		},
		{
			name:  "unavailable entries are skipped",
			query: playlistURL,
			setup: func(m *mockDownloader) {
				m.addPlaylist(playlistURL, "a", "gone", "c")
				m.tracks["a"] = mockTrack("a")
				m.tracks["c"] = mockTrack("c")
			},
			wantTitles:     []string{"Track a", "Track c"},
			wantSkipped:    1,
			wantIsPlaylist: true,
		},
		{
			name:  "every entry unavailable",
			query: playlistURL,
			setup: func(m *mockDownloader) {
				m.addPlaylist(playlistURL, "x", "y")
			},
			wantErr: ErrSongUnavailable,
		},
		{
			name:  "start index skips over failed entries",
			query: playlistURL + "&index=4",
			setup: func(m *mockDownloader) {
				m.addPlaylist(playlistURL+"&index=4", "a", "gone", "c", "d")
				m.tracks["a"] = mockTrack("a")
				m.tracks["c"] = mockTrack("c")
				m.tracks["d"] = mockTrack("d")
			},
			wantTitles:     []string{"Track a", "Track c", "Track d"},
			wantStart:      2,
			wantSkipped:    1,
			wantIsPlaylist: true,
		},
		{
			name:  "start index past the end is clamped",
			query: playlistURL + "&index=9",
			setup: func(m *mockDownloader) {
				m.addPlaylist(playlistURL+"&index=9", "a", "b")
				m.tracks["a"] = mockTrack("a")
				m.tracks["b"] = mockTrack("b")
			},
			wantTitles:     []string{"Track a", "Track b"},
			wantStart:      1,
			wantIsPlaylist: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloader := newMockDownloader()
			if tt.setup != nil {
				tt.setup(downloader)
			}
			service := NewTrackLoaderService(downloader, 2)

			output, err := service.LoadSongs(context.Background(), LoadSongsInput{
				Query:     tt.query,
				Requester: requester,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			titles := make([]string, len(output.Songs))
			for i, song := range output.Songs {
				titles[i] = song.Title
				assert.Equal(t, requester, song.Owner)
			}
			assert.Equal(t, tt.wantTitles, titles)
			assert.Equal(t, tt.wantStart, output.Start)
			assert.Equal(t, tt.wantSkipped, output.Skipped)
			assert.Equal(t, tt.wantIsPlaylist, output.IsPlaylist)
		})
	}
}

func TestTrackLoaderService_LoadSongs_FetchesEveryEntry(t *testing.T) {
	downloader := newMockDownloader()
	entries := []string{"1", "2", "3", "4", "5", "6", "7"}
	downloader.addPlaylist("https://example.com/list", entries...)
	for _, id := range entries {
		downloader.tracks[id] = mockTrack(id)
	}
	service := NewTrackLoaderService(downloader, 3)

	output, err := service.LoadSongs(context.Background(), LoadSongsInput{Query: "https://example.com/list"})

	require.NoError(t, err)
	assert.Len(t, output.Songs, len(entries))
	assert.ElementsMatch(t, entries, downloader.fetched)
	assert.Equal(t, "Track 7", output.Songs[6].Title)
	assert.Equal(t, entries, downloader.released)
}

func TestTrackLoaderService_LoadSongs_ReleasesEntriesWhenCancelled(t *testing.T) {
	downloader := newMockDownloader()
	entries := []string{"1", "2", "3", "4"}
	downloader.addPlaylist("https://example.com/list", entries...)
	service := NewTrackLoaderService(downloader, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.LoadSongs(ctx, LoadSongsInput{Query: "https://example.com/list"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entries, downloader.released)
}

func TestTrackLoaderService_SearchTracks(t *testing.T) {
	tests := []struct {
		name      string
		input     SearchTracksInput
		setup     func(*mockDownloader)
		wantURLs  []string
		wantError bool
	}{
		{
			name:  "empty query returns nothing",
			input: SearchTracksInput{Query: ""},
		},
		{
			name:  "results without URL are dropped",
			input: SearchTracksInput{Query: "song", Limit: 5},
			setup: func(m *mockDownloader) {
				noURL := mockTrack("2")
				noURL.URL = ""
				m.search = []*ports.FetchedTrack{mockTrack("1"), noURL, mockTrack("3")}
			},
			wantURLs: []string{"https://example.com/1", "https://example.com/3"},
		},
		{
			name:  "limit applies",
			input: SearchTracksInput{Query: "song", Limit: 1},
			setup: func(m *mockDownloader) {
				m.search = []*ports.FetchedTrack{mockTrack("1"), mockTrack("2")}
			},
			wantURLs: []string{"https://example.com/1"},
		},
		{
			name:  "not found is empty",
			input: SearchTracksInput{Query: "song"},
			setup: func(m *mockDownloader) {
				m.searchErr = ports.ErrNotFound
			},
		},
		{
			name:  "other failures propagate",
			input: SearchTracksInput{Query: "song"},
			setup: func(m *mockDownloader) {
				m.searchErr = ports.ErrTransient
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloader := newMockDownloader()
			if tt.setup != nil {
				tt.setup(downloader)
			}
			service := NewTrackLoaderService(downloader, 0)

			output, err := service.SearchTracks(context.Background(), tt.input)

			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			urls := make([]string, 0, len(output.Results))
			for _, result := range output.Results {
				urls = append(urls, result.URL)
			}
			if len(tt.wantURLs) == 0 {
				assert.Empty(t, urls)
			} else {
				assert.Equal(t, tt.wantURLs, urls)
			}
		})
	}
}
