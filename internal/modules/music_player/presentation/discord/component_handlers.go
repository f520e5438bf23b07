package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sebola3461/fortlev/internal/bot"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
)

// componentTimeout bounds the work done for one button press after it was
// acknowledged.
const componentTimeout = 10 * time.Second

// ComponentHandlers handles the buttons on status messages and queue lists.
type ComponentHandlers struct {
	playback *usecases.PlaybackService
	queue    *usecases.QueueService
}

// NewComponentHandlers creates new ComponentHandlers.
func NewComponentHandlers(
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
) *ComponentHandlers {
	return &ComponentHandlers{
		playback: playback,
		queue:    queue,
	}
}

// Handle routes a button press by its custom ID.
func (h *ComponentHandlers) Handle(i *discordgo.InteractionCreate, r bot.Responder) error {
	id, err := parseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return err
	}

	if id.Token != "" {
		return h.navigateList(id, r)
	}
	return h.handleGlobal(id.Action, i, r)
}

func (h *ComponentHandlers) navigateList(id componentID, r bot.Responder) error {
	view, err := h.queue.NavigateList(usecases.NavigateListInput{Token: id.Token, Page: id.Page})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{listEmbed(view)},
			Components: listComponents(view),
		},
	})
}

func (h *ComponentHandlers) handleGlobal(
	action GlobalAction,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	control, err := controlInput(i)
	if err != nil {
		return respondError(r, "Invalid member")
	}

	if action == ActionQueue {
		view, err := h.queue.OpenList(control.GuildID)
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
	// Acknowledge first: the controls may wait on the voice connection. The
	// status message is redrawn by the queue itself.
	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), componentTimeout)
	defer cancel()

	if err := h.runControl(ctx, action, control); err != nil {
		slog.Debug("button action failed", "action", action, "guild", control.GuildID, "error", err)
		return followUpError(r, errorMessage(err))
	}
	return nil
}

func (h *ComponentHandlers) runControl(
	ctx context.Context,
	action GlobalAction,
	control usecases.ControlInput,
) error {
	var err error
	switch action {
	case ActionTime:
		err = h.playback.RefreshStatus(ctx, control.GuildID)
	case ActionPrevious:
		err = h.playback.Previous(ctx, control)
	case ActionNext:
		err = h.playback.Next(ctx, control)
	case ActionPause:
		_, err = h.playback.TogglePause(ctx, control)
	case ActionLoop:
		_, err = h.playback.ToggleLoop(ctx, control)
	case ActionVolumeUp, ActionVolumeDown:
		err = h.stepVolume(ctx, action, control)
	default:
		err = fmt.Errorf("unhandled action %q", action)
	}
	return err
}

func (h *ComponentHandlers) stepVolume(
	ctx context.Context,
	action GlobalAction,
	control usecases.ControlInput,
) error {
	step := h.playback.VolumeDown
	if action == ActionVolumeUp {
		step = h.playback.VolumeUp
	}

	output, err := step(ctx, control)
	if err != nil {
		return err
	}
	if !output.Changed {
		return nil
	}
	return h.playback.RefreshStatus(ctx, control.GuildID)
}
