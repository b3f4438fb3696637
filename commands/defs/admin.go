package defs

import "github.com/bwmarrin/discordgo"

var adminPermission int64 = discordgo.PermissionAdministrator

var Activate = &discordgo.ApplicationCommand{
	Name:                     "activate",
	Description:              "Wake the bot up in this server (server administrators only)",
	DefaultMemberPermissions: &adminPermission,
}

var Deactivate = &discordgo.ApplicationCommand{
	Name:                     "deactivate",
	Description:              "Put the bot to sleep in this server (server administrators only)",
	DefaultMemberPermissions: &adminPermission,
}

var Help = &discordgo.ApplicationCommand{
	Name:        "help",
	Description: "Show what the bot can do",
}

var Admin = &discordgo.ApplicationCommand{
	Name:        "admin",
	Description: "Manage who may configure the bot",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Grant bot admin rights",
			Options:     []*discordgo.ApplicationCommandOption{userOption("The user to promote")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Revoke bot admin rights",
			Options:     []*discordgo.ApplicationCommandOption{userOption("The user to demote")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List bot admins",
		},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Display bot and system status information",
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func channelOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  description,
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}
