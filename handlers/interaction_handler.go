package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/model"
	"ahri-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type guildCommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, cfg *model.GuildConfig)

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
		h(s, i)
	}
}

// adminOnly runs h for bot admins of an activated guild and answers
// everyone else with an ephemeral refusal.
func adminOnly(b *bot.Bot, h guildCommandHandler) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
			utils.SendEphemeralResponse(s, i, "This command can only be used in a server.")
			return
		}
		cfg, err := b.Store.Load(i.GuildID)
		if err != nil {
			log.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to load guild record")
			utils.SendEphemeralResponse(s, i, utils.Say("oops"))
			return
		}
		if !cfg.Activated {
			utils.SendEphemeralResponse(s, i, utils.Say("inactive_hint"))
			return
		}
		if !utils.IsGuildAdmin(cfg, i.Member.User.ID, guildOwner(s, i.GuildID)) {
			utils.SendEphemeralResponse(s, i, utils.Say("no_permission"))
			return
		}
		h(s, i, b, cfg)
	}
}

func guildOwner(s *discordgo.Session, guildID string) string {
	g, err := s.Guild(guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Could not fetch guild owner")
		return ""
	}
	return g.OwnerID
}

// subcommand returns the invoked subcommand and its options by name.
func subcommand(i *discordgo.InteractionCreate) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", nil
	}
	sub := data.Options[0]
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		opts[opt.Name] = opt
	}
	return sub.Name, opts
}

func replyStorageError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	log.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to update guild record")
	utils.SendEphemeralResponse(s, i, utils.Say("oops"))
}

func ack(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	utils.SendPublicResponse(s, i, utils.Say("done")+" "+text)
}
