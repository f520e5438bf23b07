package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
	colorNeutral = 0x5865F2
)

// DefaultEditsPerSecond is the default edit rate allowed per channel.
const DefaultEditsPerSecond = 1.0

// Cache bounds. A dropped limiter only resets that channel's budget.
const (
	maxLimiters   = 256
	maxThumbnails = 1024
)

// Presenter renders queue views as Discord messages.
type Presenter struct {
	session        *discordgo.Session
	httpClient     *http.Client
	editsPerSecond rate.Limit

	limiters   *lru.Cache[snowflake.ID, *rate.Limiter]
	thumbnails *lru.Cache[string, string]
}

// NewPresenter creates a Presenter that edits each channel at most
// editsPerSecond times per second.
func NewPresenter(session *discordgo.Session, editsPerSecond float64) *Presenter {
	if editsPerSecond <= 0 {
		editsPerSecond = DefaultEditsPerSecond
	}
	return &Presenter{
		session: session,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		editsPerSecond: rate.Limit(editsPerSecond),
		limiters:       lo.Must(lru.New[snowflake.ID, *rate.Limiter](maxLimiters)),
		thumbnails:     lo.Must(lru.New[string, string](maxThumbnails)),
	}
}

// Send posts view to the channel.
func (p *Presenter) Send(
	ctx context.Context,
	channelID snowflake.ID,
	view ports.View,
) (domain.MessageRef, error) {
	embed, components := p.render(ctx, view)

	msg, err := p.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return domain.MessageRef{}, err
	}

	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return domain.MessageRef{}, err
	}
	return domain.MessageRef{ChannelID: channelID, MessageID: messageID}, nil
}

// Edit replaces the message's content with view. Edits to one channel are
// rate limited.
func (p *Presenter) Edit(ctx context.Context, ref domain.MessageRef, view ports.View) error {
	if err := p.limiter(ref.ChannelID).Wait(ctx); err != nil {
		return err
	}

	embed, components := p.render(ctx, view)

	edit := discordgo.NewMessageEdit(ref.ChannelID.String(), ref.MessageID.String()).
		SetEmbeds([]*discordgo.MessageEmbed{embed})
	edit.Components = &components

	_, err := p.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

// Delete removes the message.
func (p *Presenter) Delete(ctx context.Context, ref domain.MessageRef) error {
	return p.session.ChannelMessageDelete(
		ref.ChannelID.String(),
		ref.MessageID.String(),
		discordgo.WithContext(ctx),
	)
}

func (p *Presenter) limiter(channelID snowflake.ID) *rate.Limiter {
	if l, ok := p.limiters.Get(channelID); ok {
		return l
	}
	l := rate.NewLimiter(p.editsPerSecond, 2)
	if prev, ok, _ := p.limiters.PeekOrAdd(channelID, l); ok {
		return prev
	}
	return l
}

func (p *Presenter) render(
	ctx context.Context,
	view ports.View,
) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	switch v := view.(type) {
	case ports.NowPlayingView:
		thumbnail := p.thumbnail(ctx, v.Song)
		return nowPlayingEmbed(v, thumbnail), nowPlayingComponents(v)
	case ports.ListPageView:
		return listEmbed(v), listComponents(v)
	case ports.QueueEmptyView:
		return queueEmptyEmbed(), []discordgo.MessageComponent{}
	default:
		slog.Warn("rendering unknown view", "view", fmt.Sprintf("%T", view))
		return &discordgo.MessageEmbed{Color: colorNeutral}, []discordgo.MessageComponent{}
	}
}

func nowPlayingEmbed(view ports.NowPlayingView, thumbnailURL string) *discordgo.MessageEmbed {
	song := view.Song
	source := song.Source()

	status := "Now Playing"
	if view.Paused {
		status = "Paused"
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: fmt.Sprintf("%s · %d/%d", status, view.Position+1, view.Total),
		},
		Title:     song.Title,
		URL:       song.URL,
		Color:     source.Color(),
		Timestamp: song.EnqueuedAt.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Time",
				Value:  fmt.Sprintf("%s / %s", formatDuration(view.Elapsed), formatDuration(song.Duration)),
				Inline: true,
			},
			{
				Name:   "Volume",
				Value:  fmt.Sprintf("%d/%d", view.Volume, domain.MaxVolume),
				Inline: true,
			},
			{
				Name:   "Loop",
				Value:  onOff(view.Loop),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", song.Owner.Name),
			IconURL: song.Owner.AvatarURL,
		},
	}

	if thumbnailURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{
			URL: thumbnailURL,
		}
	}

	return embed
}

func nowPlayingComponents(view ports.NowPlayingView) []discordgo.MessageComponent {
	pauseEmoji := "⏸️"
	if view.Paused {
		pauseEmoji = "▶️"
	}
	loopStyle := discordgo.SecondaryButton
	if view.Loop {
		loopStyle = discordgo.SuccessButton
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			globalButton(ActionPrevious, "⏮️", discordgo.SecondaryButton),
			globalButton(ActionPause, pauseEmoji, discordgo.PrimaryButton),
			globalButton(ActionNext, "⏭️", discordgo.SecondaryButton),
			globalButton(ActionLoop, "🔁", loopStyle),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			globalButton(ActionVolumeDown, "🔉", discordgo.SecondaryButton),
			globalButton(ActionVolumeUp, "🔊", discordgo.SecondaryButton),
			globalButton(ActionTime, "🕒", discordgo.SecondaryButton),
			globalButton(ActionQueue, "📜", discordgo.SecondaryButton),
		}},
	}
}

func globalButton(action GlobalAction, emoji string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		Style:    style,
		CustomID: globalCustomID(action),
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
	}
}

func queueEmptyEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: "The queue has ended. Use `/play` to add more songs.",
		Color:       colorNeutral,
	}
}

func listEmbed(view ports.ListPageView) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, row := range view.Rows {
		writeSongLine(&sb, row)
	}
	if sb.Len() == 0 {
		sb.WriteString("The queue is empty.")
	}

	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Color:       colorNeutral,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d · %d songs", view.Page+1, max(view.PageCount, 1), view.Total),
		},
	}
}

func writeSongLine(sb *strings.Builder, row ports.ListRow) {
	prefix := fmt.Sprintf("`%d.`", row.Position+1)
	if row.Current {
		prefix = "▶ " + prefix
	}

	title := row.Song.Title
	if row.Song.URL != "" {
		title = fmt.Sprintf("[%s](%s)", title, row.Song.URL)
	}
	if row.Current {
		title = "**" + title + "**"
	}

	fmt.Fprintf(sb, "%s %s `%s`\n", prefix, title, formatDuration(row.Song.Duration))
}

func listComponents(view ports.ListPageView) []discordgo.MessageComponent {
	if view.PageCount <= 1 {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				CustomID: listCustomID(view.Token, directionBack, max(view.Page-1, 0)),
				Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
				Disabled: view.Page == 0,
			},
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				CustomID: listCustomID(view.Token, directionNext, min(view.Page+1, view.PageCount-1)),
				Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
				Disabled: view.Page >= view.PageCount-1,
			},
		}},
	}
}

// formatDuration renders d as m:ss, or h:mm:ss past an hour.
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

// thumbnail returns the best artwork for the song. Lookups are cached per URL.
func (p *Presenter) thumbnail(ctx context.Context, song domain.Song) string {
	key := song.URL + "|" + song.ThumbnailURL
	if cached, ok := p.thumbnails.Get(key); ok {
		return cached
	}

	best := p.getBestThumbnail(ctx, song.Source(), youtubeVideoID(song.URL), song.ThumbnailURL)
	p.thumbnails.Add(key, best)
	return best
}

// getBestThumbnail attempts to find the best quality thumbnail for the track.
// For YouTube, it tries different quality levels (maxresdefault, sddefault, etc.).
// For Twitch, it attempts to use a higher resolution version.
// For other sources, it returns the original artwork URL.
func (p *Presenter) getBestThumbnail(
	ctx context.Context,
	source domain.TrackSource,
	videoID string,
	fallbackURL string,
) string {
	switch source {
	case domain.TrackSourceYouTube:
		if videoID == "" {
			return fallbackURL
		}
		return p.getYouTubeThumbnail(ctx, videoID, fallbackURL)
	case domain.TrackSourceTwitch:
		return p.getTwitchThumbnail(ctx, fallbackURL)
	default:
		return fallbackURL
	}
}

// getYouTubeThumbnail tries to find the highest quality YouTube thumbnail available.
func (p *Presenter) getYouTubeThumbnail(ctx context.Context, videoID string, fallbackURL string) string {
	qualities := []string{"maxresdefault", "sddefault", "hqdefault", "mqdefault"}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, quality := range qualities {
		candidate := fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
		if p.urlExists(ctx, candidate) {
			return candidate
		}
	}

	return fallbackURL
}

// getTwitchThumbnail tries to get a higher resolution Twitch thumbnail.
func (p *Presenter) getTwitchThumbnail(ctx context.Context, artworkURL string) string {
	if artworkURL == "" {
		return ""
	}

	// Try to get 1280x720 instead of 440x248
	highResURL := strings.Replace(artworkURL, "440x248", "1280x720", 1)
	if highResURL == artworkURL {
		return artworkURL
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.urlExists(ctx, highResURL) {
		return highResURL
	}

	return artworkURL
}

// urlExists checks if a URL returns a successful response using a HEAD request.
func (p *Presenter) urlExists(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// youtubeVideoID extracts the video ID from a watch or youtu.be URL.
func youtubeVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "youtu.be":
		return strings.TrimPrefix(u.Path, "/")
	case "youtube.com", "music.youtube.com", "m.youtube.com":
		return u.Query().Get("v")
	default:
		return ""
	}
}

var _ ports.Presenter = (*Presenter)(nil)
