package handlers

import (
	"ahri-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"activate":    discordAdminOnly(b, handleActivate),
		"deactivate":  discordAdminOnly(b, handleDeactivate),
		"help":        handleHelp,
		"admin":       adminOnly(b, handleAdmin),
		"nsfw":        adminOnly(b, handleNSFW),
		"automod":     adminOnly(b, handleAutomod),
		"system-info": adminOnly(b, handleSystemInfo),
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Logged in")
	})
	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		// first contact with a guild creates its record
		if _, err := b.Store.Load(g.ID); err != nil {
			log.Error().Err(err).Str("guild_id", g.ID).Msg("Failed to load guild record")
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		handleMessageCreate(m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
}
