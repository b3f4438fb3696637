package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/model"
	"ahri-bot/utils"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func handleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, cfg *model.GuildConfig) {
	sub, opts := subcommand(i)
	switch sub {
	case "add":
		user := opts["user"].UserValue(nil)
		changed, err := b.Settings.AddAdmin(i.GuildID, user.ID)
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		if !changed {
			utils.SendPublicResponse(s, i, fmt.Sprintf("<@%s> is already an admin~", user.ID))
			return
		}
		ack(s, i, fmt.Sprintf("<@%s> is now an admin.", user.ID))
	case "remove":
		user := opts["user"].UserValue(nil)
		changed, err := b.Settings.RemoveAdmin(i.GuildID, user.ID)
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		if !changed {
			utils.SendPublicResponse(s, i, fmt.Sprintf("<@%s> wasn't an admin~", user.ID))
			return
		}
		ack(s, i, fmt.Sprintf("<@%s> is no longer an admin.", user.ID))
	case "list":
		utils.SendEphemeralResponse(s, i, "Admins: "+mentionList(cfg.Admins, "<@%s>", " ", "(none)"))
	}
}
