package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/model"
	"ahri-bot/utils"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func handleAutomod(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, cfg *model.GuildConfig) {
	sub, opts := subcommand(i)
	switch sub {
	case "on", "off":
		if err := b.Settings.SetAutomod(i.GuildID, sub == "on"); err != nil {
			replyStorageError(s, i, err)
			return
		}
		ack(s, i, "Word filter "+strings.ToUpper(sub)+".")
	case "addword":
		word := opts["word"].StringValue()
		changed, err := b.Settings.AddBannedWord(i.GuildID, word)
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		if !changed {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("`%s` is already banned (or empty)~", word))
			return
		}
		ack(s, i, "Word banned.")
	case "removeword":
		word := opts["word"].StringValue()
		changed, err := b.Settings.RemoveBannedWord(i.GuildID, word)
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		if !changed {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("`%s` wasn't banned~", word))
			return
		}
		ack(s, i, "Word unbanned.")
	case "list":
		state := "OFF"
		if cfg.Automod.Enabled {
			state = "ON"
		}
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("Word filter: %s\nBanned words: %s",
			state, mentionList(cfg.Automod.BannedWords, "`%s`", ", ", "(none)")))
	}
}
