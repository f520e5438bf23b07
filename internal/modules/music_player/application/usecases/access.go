package usecases

import (
	"fmt"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// accessLevel is the permission a control requires.
type accessLevel int

const (
	accessAny accessLevel = iota
	accessManage
	accessAdmin
)

// queueAccess looks up a guild's queue and checks the actor against it.
type queueAccess struct {
	registry   *queue.Registry
	voiceState ports.VoiceStateProvider
}

// queueFor returns the guild's queue if actor may act on it at level.
// An actor outside the queue's voice channel needs admin permission.
func (a queueAccess) queueFor(
	guildID snowflake.ID,
	actor domain.Actor,
	level accessLevel,
) (*queue.MusicQueue, error) {
	q, ok := a.registry.Get(guildID)
	if !ok {
		return nil, ErrQueueNotFound
	}
	if level == accessAny {
		return q, nil
	}

	channelID, err := a.voiceState.GetUserVoiceChannel(guildID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user voice channel: %w", err)
	}
	if channelID != q.VoiceChannelID() {
		level = accessAdmin
	}

	var permitted bool
	switch level {
	case accessAdmin:
		permitted = q.CheckAdminPermissionsFor(actor)
	default:
		permitted = q.CheckManagePermissionsFor(actor)
	}
	if !permitted {
		return nil, ErrPermissionDenied
	}

	return q, nil
}
