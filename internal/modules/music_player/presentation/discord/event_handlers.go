package discord

import (
	"context"
	"log/slog"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/disgoorg/snowflake/v2"
)

// EventHandlers reacts to voice changes of the bot made by someone else.
type EventHandlers struct {
	voiceChannel *usecases.VoiceChannelService
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(voiceChannel *usecases.VoiceChannelService) *EventHandlers {
	return &EventHandlers{voiceChannel: voiceChannel}
}

// HandleBotVoiceChange handles the bot being moved or disconnected.
// channelID is nil when the bot was disconnected.
func (h *EventHandlers) HandleBotVoiceChange(
	ctx context.Context,
	guildID snowflake.ID,
	channelID *snowflake.ID,
) {
	slog.Debug("handling bot voice change", "guild", guildID, "channel", channelID)

	h.voiceChannel.HandleBotVoiceStateChange(ctx, usecases.BotVoiceStateChangeInput{
		GuildID:      guildID,
		NewChannelID: channelID,
	})
}
