package infrastructure

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVoiceStateProvider(t *testing.T) *VoiceStateProvider {
	t.Helper()
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{
		ID: "1",
		VoiceStates: []*discordgo.VoiceState{
			{GuildID: "1", UserID: "10", ChannelID: "100"},
			{GuildID: "1", UserID: "11", ChannelID: "100"},
			{GuildID: "1", UserID: "12", ChannelID: "200"},
		},
	}))
	return &VoiceStateProvider{state: state}
}

func TestVoiceStateProvider_GetUserVoiceChannel(t *testing.T) {
	provider := newTestVoiceStateProvider(t)

	channel, err := provider.GetUserVoiceChannel(1, 12)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(200), channel)

	channel, err = provider.GetUserVoiceChannel(1, 99)
	require.NoError(t, err)
	assert.Zero(t, channel)

	_, err = provider.GetUserVoiceChannel(2, 10)
	assert.Error(t, err)
}

func TestVoiceStateProvider_ChannelOccupants(t *testing.T) {
	provider := newTestVoiceStateProvider(t)

	occupants, err := provider.ChannelOccupants(1, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []snowflake.ID{10, 11}, occupants)

	occupants, err = provider.ChannelOccupants(1, 300)
	require.NoError(t, err)
	assert.Empty(t, occupants)
}
