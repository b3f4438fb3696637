package defs

import "github.com/bwmarrin/discordgo"

func subCommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func thresholdOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

var NSFW = &discordgo.ApplicationCommand{
	Name:        "nsfw",
	Description: "Configure the NSFW image moderator",
	Options: []*discordgo.ApplicationCommandOption{
		subCommand("help", "Show the moderator commands"),
		subCommand("enable", "Turn image scanning on"),
		subCommand("disable", "Turn image scanning off"),
		subCommand("setlogchannel", "Set where moderation logs are sent", channelOption("The log channel")),
		subCommand("setthresholds", "Set score thresholds (0.0-1.0)",
			thresholdOption("nsfw", "Explicit threshold for photos", true),
			thresholdOption("suggestive", "Suggestive threshold for photos", true),
			thresholdOption("nsfw_illustration", "Explicit threshold for illustrations", false),
			thresholdOption("suggestive_illustration", "Suggestive threshold for illustrations", false),
		),
		subCommand("addchannel", "Monitor a channel", channelOption("The channel to monitor")),
		subCommand("removechannel", "Stop monitoring a channel", channelOption("The channel to stop monitoring")),
		subCommand("whitelist", "Exempt a user from scanning", userOption("The user to exempt")),
		subCommand("unwhitelist", "Remove a user from the whitelist", userOption("The user to remove")),
		subCommand("blacklist", "Scan a user in every channel", userOption("The user to watch")),
		subCommand("unblacklist", "Remove a user from the watchlist", userOption("The user to remove")),
		subCommand("toggleglobal", "Treat everyone as blacklisted in monitored channels"),
		subCommand("viewsettings", "Show the current settings"),
		subCommand("viewwhitelist", "List whitelisted users"),
		subCommand("viewblacklist", "List blacklisted users"),
		subCommand("history", "Show recent moderation actions"),
	},
}

var Automod = &discordgo.ApplicationCommand{
	Name:        "automod",
	Description: "Configure the banned word filter",
	Options: []*discordgo.ApplicationCommandOption{
		subCommand("on", "Turn the word filter on"),
		subCommand("off", "Turn the word filter off"),
		subCommand("addword", "Ban a word", wordOption()),
		subCommand("removeword", "Unban a word", wordOption()),
		subCommand("list", "List banned words"),
	},
}

func wordOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "word",
		Description: "The word",
		Required:    true,
	}
}
