package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sebola3461/fortlev/internal/bot"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

const (
	// maxChoices is Discord's limit on autocomplete choices.
	maxChoices = 25
	// positionChoicePrefix marks autocomplete values naming a queue position.
	positionChoicePrefix = "position,"
	// searchTimeout bounds the search behind play autocomplete.
	searchTimeout = 2500 * time.Millisecond
)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	queue       *usecases.QueueService
	trackLoader *usecases.TrackLoaderService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(
	queue *usecases.QueueService,
	trackLoader *usecases.TrackLoaderService,
) *AutocompleteHandler {
	return &AutocompleteHandler{
		queue:       queue,
		trackLoader: trackLoader,
	}
}

// HandlePlay suggests search results for the play command.
func (h *AutocompleteHandler) HandlePlay(i *discordgo.InteractionCreate, r bot.Responder) error {
	query := focusedValue(i)

	// Don't search for very short queries or URLs
	if len([]rune(query)) < 2 || strings.HasPrefix(query, "http") {
		return respondChoices(r, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	output, err := h.trackLoader.SearchTracks(ctx, usecases.SearchTracksInput{
		Query: query,
		Limit: 10,
	})
	if err != nil {
		slog.Debug("failed to search for autocomplete", "query", query, "error", err)
		return respondChoices(r, nil)
	}

	return respondChoices(r, searchChoices(output.Results))
}

// HandlePosition suggests queue songs for the skip and remove commands.
func (h *AutocompleteHandler) HandlePosition(i *discordgo.InteractionCreate, r bot.Responder) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		slog.Warn("failed to parse guild ID in autocomplete", "error", err, "guildID", i.GuildID)
		return respondChoices(r, nil)
	}

	output := h.queue.ListSongs(guildID)
	return respondChoices(r, positionChoices(output.Songs, output.CurrentIndex, focusedValue(i)))
}

func searchChoices(results []usecases.SearchResult) []*discordgo.ApplicationCommandOptionChoice {
	return lo.Map(results, func(result usecases.SearchResult, _ int) *discordgo.ApplicationCommandOptionChoice {
		return &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(result.Title, 100),
			Value: result.URL,
		}
	})
}

// positionChoices lists the songs whose title contains filter, starting with
// the current song's neighborhood.
func positionChoices(
	songs []usecases.Song,
	current int,
	filter string,
) []*discordgo.ApplicationCommandOptionChoice {
	filter = strings.ToLower(strings.TrimSpace(filter))

	type indexed struct {
		position int
		song     usecases.Song
	}
	matches := lo.FilterMap(songs, func(song usecases.Song, index int) (indexed, bool) {
		return indexed{position: index + 1, song: song},
			filter == "" || strings.Contains(strings.ToLower(song.Title), filter)
	})

	if filter == "" && len(matches) > maxChoices {
		start := lo.Clamp(current-maxChoices/2, 0, len(matches)-maxChoices)
		matches = matches[start:]
	}
	if len(matches) > maxChoices {
		matches = matches[:maxChoices]
	}

	return lo.Map(matches, func(m indexed, _ int) *discordgo.ApplicationCommandOptionChoice {
		name := fmt.Sprintf("%d. %s", m.position, m.song.Title)
		if m.position-1 == current {
			name = "▶ " + name
		}
		return &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(name, 100),
			Value: fmt.Sprintf("%s%d", positionChoicePrefix, m.position),
		}
	})
}

func focusedValue(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

func respondChoices(r bot.Responder, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
