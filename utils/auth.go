package utils

import (
	"ahri-bot/model"

	"github.com/bwmarrin/discordgo"
)

// IsGuildAdmin reports whether userID may run admin commands in the guild:
// the guild owner always can, otherwise the user must be in the admin set.
func IsGuildAdmin(cfg *model.GuildConfig, userID, ownerID string) bool {
	if userID == "" {
		return false
	}
	if ownerID != "" && userID == ownerID {
		return true
	}
	return cfg != nil && cfg.HasAdmin(userID)
}

// HasAdministratorPermission checks the Discord-level Administrator permission of an interaction member.
func HasAdministratorPermission(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}
