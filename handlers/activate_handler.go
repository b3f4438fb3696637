package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// discordAdminOnly runs h for Discord administrators whether or not the guild
// is activated.
func discordAdminOnly(b *bot.Bot, h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if refusal := discordAdminRefusal(i); refusal != "" {
			utils.SendEphemeralResponse(s, i, refusal)
			return
		}
		h(s, i, b)
	}
}

// discordAdminRefusal returns the reply for a caller who may not switch the
// bot on or off, or "" when the caller may.
func discordAdminRefusal(i *discordgo.InteractionCreate) string {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return "This command can only be used in a server."
	}
	if !utils.HasAdministratorPermission(i.Member) {
		return utils.Say("no_permission")
	}
	return ""
}

// handleActivate also seeds the bot admin set with the guild owner.
func handleActivate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := b.Store.SetActivated(i.GuildID, true); err != nil {
		replyStorageError(s, i, err)
		return
	}
	if err := b.Store.EnsureOwnerAdmin(i.GuildID, guildOwner(s, i.GuildID)); err != nil {
		log.Warn().Err(err).Str("guild_id", i.GuildID).Msg("Failed to seed owner admin")
	}
	log.Info().Str("guild_id", i.GuildID).Str("user_id", i.Member.User.ID).Msg("Guild activated")
	utils.SendPublicResponse(s, i, utils.Say("activated"))
}

func handleDeactivate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := b.Store.SetActivated(i.GuildID, false); err != nil {
		replyStorageError(s, i, err)
		return
	}
	log.Info().Str("guild_id", i.GuildID).Str("user_id", i.Member.User.ID).Msg("Guild deactivated")
	utils.SendPublicResponse(s, i, utils.Say("deactivated"))
}

func handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	utils.SendEphemeralResponse(s, i, utils.Say("help_intro")+"\n"+generalHelp)
}

const generalHelp = "`/activate` / `/deactivate`: wake me up or put me to sleep\n" +
	"`/admin add|remove|list`: manage who can configure me\n" +
	"`/nsfw help`: NSFW image moderator commands\n" +
	"`/automod on|off|addword|removeword|list`: banned word filter\n" +
	"`/system-info`: bot and host status"
