package usecases

import (
	"context"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/disgoorg/snowflake/v2"
)

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// VoiceChannelService reacts to the bot's own voice state.
type VoiceChannelService struct {
	registry *queue.Registry
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(registry *queue.Registry) *VoiceChannelService {
	return &VoiceChannelService{registry: registry}
}

// HandleBotVoiceStateChange handles external voice state changes (bot moved or disconnected).
// A disconnected bot takes its queue down; a moved bot keeps playing where it was put.
func (v *VoiceChannelService) HandleBotVoiceStateChange(
	ctx context.Context,
	input BotVoiceStateChangeInput,
) {
	q, ok := v.registry.Get(input.GuildID)
	if !ok {
		return
	}

	if input.NewChannelID == nil {
		q.Destroy(ctx)
		return
	}

	if *input.NewChannelID != q.VoiceChannelID() {
		q.UpdateVoiceChannel(*input.NewChannelID)
	}
}
