package discord

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a song or playlist from a URL or search",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "query",
					Description:  "URL or search term",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "skip",
			Description: "Jump to a song in the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "position",
					Description:  "Song to play",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "remove",
			Description: "Remove a song from the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "index",
					Description:  "Song to remove",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "queue",
			Description: "Show the queue",
		},
		{
			Name:        "disconnect",
			Description: "Clear the queue and leave the voice channel",
		},
		{
			Name:        "pause",
			Description: "Pause or resume playback",
		},
		{
			Name:        "loop",
			Description: "Toggle looping of the current song",
		},
		{
			Name:        "volume",
			Description: "Set the volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume from 0 to 10",
					Required:    true,
					MinValue:    floatPtr(0),
					MaxValue:    10,
				},
			},
		},
		{
			Name:        "previous",
			Description: "Play the previous song",
		},
		{
			Name:        "next",
			Description: "Play the next song",
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
