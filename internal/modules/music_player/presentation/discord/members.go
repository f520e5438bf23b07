package discord

import (
	"fmt"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// capabilityPermissions maps member permission bits to queue capabilities.
var capabilityPermissions = []struct {
	permission int64
	capability usecases.Capabilities
}{
	{discordgo.PermissionVoiceMuteMembers, usecases.CapabilityMuteMembers},
	{discordgo.PermissionVoiceDeafenMembers, usecases.CapabilityDeafenMembers},
	{discordgo.PermissionManageChannels, usecases.CapabilityManageChannels},
	{discordgo.PermissionAdministrator, usecases.CapabilityAdministrator},
}

func capabilitiesFromPermissions(permissions int64) usecases.Capabilities {
	var caps usecases.Capabilities
	for _, p := range capabilityPermissions {
		if permissions&p.permission == p.permission {
			caps |= p.capability
		}
	}
	return caps
}

// interactionActor returns the member that triggered the interaction.
func interactionActor(i *discordgo.InteractionCreate) (usecases.Actor, error) {
	if i.Member == nil || i.Member.User == nil {
		return usecases.Actor{}, fmt.Errorf("interaction has no member")
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return usecases.Actor{}, fmt.Errorf("failed to parse user ID: %w", err)
	}
	return usecases.Actor{
		ID:           userID,
		Capabilities: capabilitiesFromPermissions(i.Member.Permissions),
	}, nil
}

func requesterFromMember(id snowflake.ID, member *discordgo.Member) usecases.Requester {
	return usecases.Requester{
		ID:        id,
		Name:      getDisplayName(member),
		AvatarURL: member.AvatarURL(""),
	}
}

// getDisplayName returns the effective display name for a guild member.
// Priority: guild nickname > global display name > username.
func getDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
