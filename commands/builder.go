package commands

import (
	"ahri-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every application command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Activate,
		defs.Deactivate,
		defs.Help,
		defs.Admin,
		defs.NSFW,
		defs.Automod,
		defs.SystemInfo,
	}
}
