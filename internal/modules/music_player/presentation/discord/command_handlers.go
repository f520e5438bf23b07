package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sebola3461/fortlev/internal/bot"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/listview"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// userFacingErrors are the errors whose message can be shown as is.
var userFacingErrors = []error{
	usecases.ErrQueueNotFound,
	usecases.ErrPermissionDenied,
	usecases.ErrInvalidIndex,
	usecases.ErrSongUnavailable,
	usecases.ErrTransportFailure,
	usecases.ErrNotPlaying,
	usecases.ErrInvalidVolume,
	usecases.ErrUserNotInVoice,
	usecases.ErrWrongVoiceChannel,
	usecases.ErrNoResults,
	listview.ErrNotFound,
	listview.ErrExpired,
}

// errorMessage returns the text shown to the user for err.
func errorMessage(err error) string {
	for _, known := range userFacingErrors {
		if errors.Is(err, known) {
			return capitalize(known.Error()) + "."
		}
	}
	return "Something went wrong."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	playback *usecases.PlaybackService
	queue    *usecases.QueueService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
) *CommandHandlers {
	return &CommandHandlers{
		playback: playback,
		queue:    queue,
	}
}

// controlInput identifies the guild and the member behind an interaction.
func controlInput(i *discordgo.InteractionCreate) (usecases.ControlInput, error) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return usecases.ControlInput{}, fmt.Errorf("failed to parse guild ID: %w", err)
	}
	actor, err := interactionActor(i)
	if err != nil {
		return usecases.ControlInput{}, err
	}
	return usecases.ControlInput{GuildID: guildID, Actor: actor}, nil
}

// HandlePlay handles the /play command.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	textChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid text channel")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	// Loading a playlist can outlast the interaction deadline.
	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	output, err := h.playback.Enqueue(ctx, usecases.EnqueueInput{
		GuildID:       control.GuildID,
		TextChannelID: textChannelID,
		Actor:         control.Actor,
		Requester:     requesterFromMember(control.Actor.ID, i.Member),
		Query:         query,
	})
	if err != nil {
		return editEmbed(r, errorMessage(err), colorError)
	}

	return editEmbed(r, enqueuedDescription(output), colorSuccess)
}

func enqueuedDescription(output *usecases.EnqueueOutput) string {
	if output.IsPlaylist {
		description := fmt.Sprintf(
			"Added **%d songs** from playlist **%s** to the queue.",
			len(output.Songs),
			output.PlaylistTitle,
		)
		if output.Skipped > 0 {
			description += fmt.Sprintf(" %d unavailable songs were skipped.", output.Skipped)
		}
		return description
	}

	if len(output.Songs) == 0 {
		return "Nothing was added to the queue."
	}
	song := output.Songs[0]
	if song.URL != "" {
		return fmt.Sprintf("Added [%s](%s) to the queue at position %d.", song.Title, song.URL, output.Position+1)
	}
	return fmt.Sprintf("Added **%s** to the queue at position %d.", song.Title, output.Position+1)
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	position, err := positionOption(i, "position")
	if err != nil {
		return respondError(r, errorMessage(usecases.ErrInvalidIndex))
	}

	song, err := h.playback.Select(ctx, usecases.SelectInput{ControlInput: control, Position: position})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	description := fmt.Sprintf("Skipped to song %d.", position)
	if song != nil {
		description = fmt.Sprintf("Skipped to **%s**.", song.Title)
	}
	return respondSuccess(r, description)
}

// HandleRemove handles the /remove command.
func (h *CommandHandlers) HandleRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	position, err := positionOption(i, "index")
	if err != nil {
		return respondError(r, errorMessage(usecases.ErrInvalidIndex))
	}

	output, err := h.playback.Remove(ctx, usecases.RemoveInput{ControlInput: control, Position: position})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, fmt.Sprintf("Removed **%s** from the queue.", output.Removed.Title))
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	view, err := h.queue.OpenList(guildID)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{listEmbed(view)},
			Components: listComponents(view),
		},
	})
}

// HandleDisconnect handles the /disconnect command.
func (h *CommandHandlers) HandleDisconnect(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	if err := h.playback.Disconnect(context.Background(), control); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Disconnected.")
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	paused, err := h.playback.TogglePause(context.Background(), control)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	if paused {
		return respondSuccess(r, "Paused playback.")
	}
	return respondSuccess(r, "Resumed playback.")
}

// HandleLoop handles the /loop command.
func (h *CommandHandlers) HandleLoop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	loop, err := h.playback.ToggleLoop(context.Background(), control)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, fmt.Sprintf("Loop is now **%s**.", strings.ToLower(onOff(loop))))
}

// HandleVolume handles the /volume command.
func (h *CommandHandlers) HandleVolume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	var level int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "level" {
			level = opt.IntValue()
		}
	}

	output, err := h.playback.SetVolume(context.Background(), usecases.SetVolumeInput{
		ControlInput: control,
		Volume:       usecases.Volume(level),
	})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, fmt.Sprintf("Volume set to **%d**.", output.Volume))
}

// HandlePrevious handles the /previous command.
func (h *CommandHandlers) HandlePrevious(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	if err := h.playback.Previous(context.Background(), control); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Playing the previous song.")
}

// HandleNext handles the /next command.
func (h *CommandHandlers) HandleNext(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	if err := h.playback.Next(context.Background(), control); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Skipped.")
}

// positionOption reads a one-based queue position. Autocomplete fills the
// option with `position,N`; a bare number typed by the user is accepted too.
func positionOption(i *discordgo.InteractionCreate, name string) (int, error) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return parsePosition(opt.StringValue())
		}
	}
	return 0, fmt.Errorf("missing option %q", name)
}

func parsePosition(value string) (int, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), positionChoicePrefix)
	position, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", value, err)
	}
	if position < 1 {
		return 0, fmt.Errorf("invalid position %d", position)
	}
	return position, nil
}

func respondSuccess(r bot.Responder, description string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorError,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// followUpError reports an error on an interaction that was already
// acknowledged.
func followUpError(r bot.Responder, message string) error {
	return r.FollowUp(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: message,
				Color:       colorError,
			},
		},
		Flags: discordgo.MessageFlagsEphemeral,
	})
}

// editEmbed replaces a deferred response with a single embed.
func editEmbed(r bot.Responder, description string, color int) error {
	embeds := []*discordgo.MessageEmbed{
		{
			Description: description,
			Color:       color,
		},
	}
	return r.EditResponse(&discordgo.WebhookEdit{Embeds: &embeds})
}
