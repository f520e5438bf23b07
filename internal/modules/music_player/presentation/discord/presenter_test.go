package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSong(title string) domain.Song {
	return domain.Song{
		ID:         domain.NewSongID(),
		Title:      title,
		URL:        "https://www.youtube.com/watch?v=" + title,
		SourceName: "youtube",
		Owner:      domain.Requester{ID: 100, Name: "Listener"},
		Duration:   3*time.Minute + 5*time.Second,
		EnqueuedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func buttons(t *testing.T, components []discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	var result []discordgo.Button
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		require.True(t, ok)
		for _, b := range row.Components {
			button, ok := b.(discordgo.Button)
			require.True(t, ok)
			result = append(result, button)
		}
	}
	return result
}

func TestNowPlayingEmbed(t *testing.T) {
	view := ports.NowPlayingView{
		Song:     testSong("abc"),
		Position: 1,
		Total:    3,
		Elapsed:  65 * time.Second,
		Loop:     true,
		Paused:   true,
		Volume:   7,
	}

	embed := nowPlayingEmbed(view, "https://img.example.com/a.jpg")

	assert.Equal(t, "Paused · 2/3", embed.Author.Name)
	assert.Equal(t, "abc", embed.Title)
	assert.Equal(t, domain.TrackSourceYouTube.Color(), embed.Color)
	assert.Equal(t, "2024-01-02T03:04:05Z", embed.Timestamp)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "1:05 / 3:05", embed.Fields[0].Value)
	assert.Equal(t, "7/10", embed.Fields[1].Value)
	assert.Equal(t, "On", embed.Fields[2].Value)
	assert.Equal(t, "Requested by Listener", embed.Footer.Text)
	require.NotNil(t, embed.Image)
	assert.Equal(t, "https://img.example.com/a.jpg", embed.Image.URL)

	assert.Nil(t, nowPlayingEmbed(view, "").Image)
}

func TestNowPlayingComponents(t *testing.T) {
	got := buttons(t, nowPlayingComponents(ports.NowPlayingView{Song: testSong("a"), Total: 1}))

	ids := make([]string, len(got))
	for i, b := range got {
		ids[i] = b.CustomID
	}
	assert.ElementsMatch(t, []string{
		"global,previousSong", "global,pauseSong", "global,nextSong", "global,loopSong",
		"global,volumeDown", "global,volumeUp", "global,time", "global,queue",
	}, ids)
}

func TestListEmbed(t *testing.T) {
	view := ports.ListPageView{
		Token: "tok",
		Rows: []ports.ListRow{
			{Position: 10, Song: testSong("first")},
			{Position: 11, Song: testSong("second"), Current: true},
		},
		Page:      1,
		PageCount: 3,
		Total:     25,
	}

	embed := listEmbed(view)
	lines := strings.Split(strings.TrimSpace(embed.Description), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "`11.`"))
	assert.True(t, strings.HasPrefix(lines[1], "▶ `12.` **[second]"))
	assert.Equal(t, "Page 2/3 · 25 songs", embed.Footer.Text)

	got := buttons(t, listComponents(view))
	require.Len(t, got, 2)
	assert.Equal(t, "tok,back,0", got[0].CustomID)
	assert.False(t, got[0].Disabled)
	assert.Equal(t, "tok,next,2", got[1].CustomID)
	assert.False(t, got[1].Disabled)
}

func TestListComponents_Edges(t *testing.T) {
	first := buttons(t, listComponents(ports.ListPageView{Token: "tok", Page: 0, PageCount: 2}))
	assert.True(t, first[0].Disabled)
	assert.False(t, first[1].Disabled)

	last := buttons(t, listComponents(ports.ListPageView{Token: "tok", Page: 1, PageCount: 2}))
	assert.False(t, last[0].Disabled)
	assert.True(t, last[1].Disabled)
	assert.Equal(t, "tok,next,1", last[1].CustomID)

	assert.Empty(t, listComponents(ports.ListPageView{Token: "tok", PageCount: 1}))
}

func TestListEmbed_Empty(t *testing.T) {
	embed := listEmbed(ports.ListPageView{})
	assert.Equal(t, "The queue is empty.", embed.Description)
	assert.Equal(t, "Page 1/1 · 0 songs", embed.Footer.Text)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "0:09", formatDuration(9*time.Second))
	assert.Equal(t, "3:05", formatDuration(185*time.Second))
	assert.Equal(t, "1:01:01", formatDuration(time.Hour+time.Minute+time.Second))
}

func TestYoutubeVideoID(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":   "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                  "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=abc&list=RD": "abc",
		"https://soundcloud.com/artist/track":           "",
		"not a url at all":                              "",
	}
	for input, want := range tests {
		assert.Equal(t, want, youtubeVideoID(input), input)
	}
}

func TestPresenter_TwitchThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && strings.HasSuffix(r.URL.Path, "-1280x720.jpg") {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPresenter(nil, 1)
	ctx := context.Background()

	song := domain.Song{SourceName: "twitch", URL: "https://twitch.tv/x", ThumbnailURL: server.URL + "/preview-440x248.jpg"}
	assert.Equal(t, server.URL+"/preview-1280x720.jpg", p.thumbnail(ctx, song))

	other := domain.Song{SourceName: "twitch", ThumbnailURL: server.URL + "/other.jpg"}
	assert.Equal(t, server.URL+"/other.jpg", p.thumbnail(ctx, other))

	soundcloud := domain.Song{SourceName: "soundcloud", ThumbnailURL: "https://img.example.com/sc.jpg"}
	assert.Equal(t, "https://img.example.com/sc.jpg", p.thumbnail(ctx, soundcloud))
}

func TestPresenter_ThumbnailIsCached(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewPresenter(nil, 1)
	song := domain.Song{SourceName: "twitch", ThumbnailURL: server.URL + "/a-440x248.jpg"}

	first := p.thumbnail(context.Background(), song)
	second := p.thumbnail(context.Background(), song)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, requests.Load())
}

func TestPresenter_LimiterPerChannel(t *testing.T) {
	p := NewPresenter(nil, 0)
	assert.Same(t, p.limiter(1), p.limiter(1))
	assert.NotSame(t, p.limiter(1), p.limiter(2))
}

func TestPresenter_CachesAreBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPresenter(nil, 1)

	first := p.limiter(1)
	for id := snowflake.ID(2); id <= maxLimiters+10; id++ {
		p.limiter(id)
	}
	assert.Equal(t, maxLimiters, p.limiters.Len())
	assert.NotSame(t, first, p.limiter(1), "oldest channel was evicted")

	ctx := context.Background()
	for i := range maxThumbnails + 10 {
		song := domain.Song{
			SourceName:   "soundcloud",
			URL:          server.URL + "/track/" + strconv.Itoa(i),
			ThumbnailURL: server.URL + "/art.jpg",
		}
		p.thumbnail(ctx, song)
	}
	assert.Equal(t, maxThumbnails, p.thumbnails.Len())
}
