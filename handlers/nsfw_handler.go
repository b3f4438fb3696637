package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/model"
	"ahri-bot/moderation"
	"ahri-bot/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const historyLimit = 10

const nsfwHelp = "**NSFW Moderator: admin commands**\n" +
	"`/nsfw help`: show this help\n\n" +
	"`/nsfw enable|disable`: toggle scanning\n" +
	"`/nsfw setlogchannel #channel`: where logs are sent\n" +
	"`/nsfw setthresholds <nsfw> <suggestive> [nsfw_illustration] [suggestive_illustration]`: 0.0-1.0\n" +
	"`/nsfw addchannel #channel` / `/nsfw removechannel #channel`\n" +
	"`/nsfw whitelist @user` / `/nsfw unwhitelist @user`\n" +
	"`/nsfw blacklist @user` / `/nsfw unblacklist @user`\n" +
	"`/nsfw viewwhitelist` / `/nsfw viewblacklist`\n" +
	"`/nsfw toggleglobal`: treat everyone as blacklisted in monitored channels (whitelist still bypasses)\n" +
	"`/nsfw viewsettings`: view current settings\n" +
	"`/nsfw history`: recent moderation actions"

func handleNSFW(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, cfg *model.GuildConfig) {
	sub, opts := subcommand(i)
	guildID := i.GuildID
	set := b.Settings

	// setChange acknowledges an idempotent set operation.
	setChange := func(changed bool, err error, done, already string) {
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		if !changed {
			utils.SendPublicResponse(s, i, already)
			return
		}
		ack(s, i, done)
	}

	switch sub {
	case "help":
		utils.SendEphemeralResponse(s, i, nsfwHelp)

	case "enable", "disable":
		enabled := sub == "enable"
		if err := set.SetEnabled(guildID, enabled); err != nil {
			replyStorageError(s, i, err)
			return
		}
		if enabled {
			ack(s, i, "NSFW scanning enabled.")
		} else {
			ack(s, i, "NSFW scanning disabled.")
		}

	case "setlogchannel":
		ch := opts["channel"].ChannelValue(nil)
		if err := set.SetLogChannel(guildID, ch.ID); err != nil {
			replyStorageError(s, i, err)
			return
		}
		ack(s, i, fmt.Sprintf("Log channel set to <#%s>.", ch.ID))

	case "setthresholds":
		in := moderation.ThresholdInput{
			NSFW:       opts["nsfw"].FloatValue(),
			Suggestive: opts["suggestive"].FloatValue(),
		}
		if o, ok := opts["nsfw_illustration"]; ok {
			v := o.FloatValue()
			in.NSFWIllustration = &v
		}
		if o, ok := opts["suggestive_illustration"]; ok {
			v := o.FloatValue()
			in.SuggestiveIllustration = &v
		}
		th, err := set.SetThresholds(guildID, in)
		if errors.Is(err, moderation.ErrInvalidThreshold) {
			utils.SendEphemeralResponse(s, i, "Invalid thresholds; use numbers 0.0-1.0.")
			return
		}
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		ack(s, i, "Thresholds updated. "+formatThresholds(th))

	case "addchannel":
		ch := opts["channel"].ChannelValue(nil)
		changed, err := set.AddChannel(guildID, ch.ID)
		setChange(changed, err, fmt.Sprintf("Monitoring <#%s>.", ch.ID), fmt.Sprintf("I'm already watching <#%s>~", ch.ID))
	case "removechannel":
		ch := opts["channel"].ChannelValue(nil)
		changed, err := set.RemoveChannel(guildID, ch.ID)
		setChange(changed, err, fmt.Sprintf("Stopped monitoring <#%s>.", ch.ID), fmt.Sprintf("I wasn't watching <#%s>~", ch.ID))

	case "whitelist":
		u := opts["user"].UserValue(nil)
		changed, err := set.Whitelist(guildID, u.ID)
		setChange(changed, err, fmt.Sprintf("<@%s> whitelisted.", u.ID), fmt.Sprintf("<@%s> is already whitelisted~", u.ID))
	case "unwhitelist":
		u := opts["user"].UserValue(nil)
		changed, err := set.Unwhitelist(guildID, u.ID)
		setChange(changed, err, fmt.Sprintf("<@%s> removed from whitelist.", u.ID), fmt.Sprintf("<@%s> wasn't whitelisted~", u.ID))
	case "blacklist":
		u := opts["user"].UserValue(nil)
		changed, err := set.Blacklist(guildID, u.ID)
		setChange(changed, err, fmt.Sprintf("<@%s> added to the watchlist.", u.ID), fmt.Sprintf("<@%s> is already on the watchlist~", u.ID))
	case "unblacklist":
		u := opts["user"].UserValue(nil)
		changed, err := set.Unblacklist(guildID, u.ID)
		setChange(changed, err, fmt.Sprintf("<@%s> removed from the watchlist.", u.ID), fmt.Sprintf("<@%s> wasn't on the watchlist~", u.ID))

	case "toggleglobal":
		on, err := set.ToggleGlobal(guildID)
		if err != nil {
			replyStorageError(s, i, err)
			return
		}
		state := "DISABLED 🔓"
		if on {
			state = "ENABLED (monitored channels only) 🔒"
		}
		ack(s, i, "Global 'everyone blacklisted' is now "+state)

	case "viewsettings":
		utils.SendEphemeralResponse(s, i, formatSettings(cfg.Moderation))
	case "viewwhitelist":
		utils.SendEphemeralResponse(s, i, formatUserSet("Whitelist", cfg.Moderation.WhitelistUserIDs))
	case "viewblacklist":
		utils.SendEphemeralResponse(s, i, formatUserSet("Blacklist", cfg.Moderation.BlacklistUserIDs))

	case "history":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		recs, err := b.History.Recent(ctx, guildID, historyLimit)
		if err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Msg("Failed to read moderation history")
			utils.SendEphemeralResponse(s, i, utils.Say("oops"))
			return
		}
		counts, err := b.History.CountByAction(ctx, guildID)
		if err != nil {
			log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to count moderation history")
		}
		utils.SendEmbedResponse(s, i, historyEmbed(recs, counts), true)

	default:
		utils.SendEphemeralResponse(s, i, "I don't recognize that subcommand. Try `/nsfw help`.")
	}
}

func formatThresholds(th model.Thresholds) string {
	return fmt.Sprintf("NSFW: %.2f | Suggestive: %.2f | NSFW(illustration): %.2f | Suggestive(illustration): %.2f",
		th.NSFWPhoto, th.SuggestivePhoto, th.NSFWIllustration, th.SuggestiveIllustration)
}

func formatSettings(m model.ModerationConfig) string {
	yesNo := func(v bool, yes, no string) string {
		if v {
			return yes
		}
		return no
	}
	logChannel := "(not set)"
	if m.LogChannelID != "" {
		logChannel = fmt.Sprintf("<#%s>", m.LogChannelID)
	}
	lastUpdated := "(never)"
	if m.LastUpdated != nil {
		lastUpdated = m.LastUpdated.UTC().Format(time.RFC3339)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Enabled: %s\n", yesNo(m.Enabled, "YES", "NO"))
	fmt.Fprintf(&sb, "Log channel: %s\n", logChannel)
	fmt.Fprintf(&sb, "Monitored: %s\n", mentionList(m.ActiveChannelIDs, "<#%s>", ", ", "(none)"))
	fmt.Fprintf(&sb, "Global everyone-blacklisted: %s\n", yesNo(m.EveryoneFlag, "ON (monitored only)", "OFF"))
	fmt.Fprintf(&sb, "Thresholds → %s\n", formatThresholds(m.Thresholds))
	fmt.Fprintf(&sb, "Whitelist: %s\n", mentionList(m.WhitelistUserIDs, "<@%s>", " ", "(empty)"))
	fmt.Fprintf(&sb, "Blacklist: %s\n", mentionList(m.BlacklistUserIDs, "<@%s>", " ", "(empty)"))
	fmt.Fprintf(&sb, "Last updated: %s", lastUpdated)
	return sb.String()
}

func formatUserSet(name string, ids []string) string {
	if len(ids) == 0 {
		return name + " is empty."
	}
	return fmt.Sprintf("%sed users: %s", name, mentionList(ids, "<@%s>", " ", ""))
}

func mentionList(ids []string, format, sep, empty string) string {
	if len(ids) == 0 {
		return empty
	}
	parts := make([]string, len(ids))
	for n, id := range ids {
		parts[n] = fmt.Sprintf(format, id)
	}
	return strings.Join(parts, sep)
}

func historyEmbed(recs []model.ActionRecord, counts map[string]int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Recent moderation actions",
		Color: 0xE91E63,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("deleted %d · flagged %d · scan errors %d",
				counts[model.ActionDelete], counts[model.ActionFlag], counts[model.ActionScanError]),
		},
	}
	if len(recs) == 0 {
		embed.Description = "Nothing yet~"
		return embed
	}
	var sb strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&sb, "<t:%d:R> **%s** <@%s> in <#%s>", r.Timestamp, r.Action, r.AuthorID, r.ChannelID)
		if r.Action != model.ActionScanError {
			fmt.Fprintf(&sb, " (nsfw=%.2f/%.2f, suggestive=%.2f/%.2f, %s)",
				r.Explicit, r.NSFWThreshold, r.Suggestive, r.SuggestiveThreshold, r.MediaKind)
		}
		if r.Action == model.ActionDelete && !r.Deleted {
			sb.WriteString(" not deleted")
		}
		sb.WriteString("\n")
	}
	embed.Description = sb.String()
	return embed
}
