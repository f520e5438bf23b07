package discord

import (
	"testing"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/usecases"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesFromPermissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions int64
		want        usecases.Capabilities
	}{
		{name: "none", permissions: discordgo.PermissionSendMessages, want: 0},
		{name: "mute", permissions: discordgo.PermissionVoiceMuteMembers, want: usecases.CapabilityMuteMembers},
		{
			name:        "deafen and manage channels",
			permissions: discordgo.PermissionVoiceDeafenMembers | discordgo.PermissionManageChannels,
			want:        usecases.CapabilityDeafenMembers | usecases.CapabilityManageChannels,
		},
		{name: "administrator", permissions: discordgo.PermissionAdministrator, want: usecases.CapabilityAdministrator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, capabilitiesFromPermissions(tt.permissions))
		})
	}
}

func TestInteractionActor(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "100"},
			Permissions: discordgo.PermissionAdministrator,
		},
	}}

	actor, err := interactionActor(i)
	require.NoError(t, err)
	assert.EqualValues(t, 100, actor.ID)
	assert.True(t, actor.Capabilities.HasAny(usecases.CapabilityAdministrator))

	_, err = interactionActor(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}})
	assert.Error(t, err)
}

func TestGetDisplayName(t *testing.T) {
	user := &discordgo.User{Username: "user", GlobalName: "Global"}

	assert.Equal(t, "Nick", getDisplayName(&discordgo.Member{Nick: "Nick", User: user}))
	assert.Equal(t, "Global", getDisplayName(&discordgo.Member{User: user}))
	assert.Equal(t, "user", getDisplayName(&discordgo.Member{User: &discordgo.User{Username: "user"}}))
}
