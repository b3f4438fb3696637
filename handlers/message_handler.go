package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/moderation"
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// handleMessageCreate runs the word filter, then image moderation unless the
// filter already removed the message.
func handleMessageCreate(m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil {
		return
	}
	msg := toMessage(m.Message)
	ctx := context.Background()

	deleted, err := b.WordFilter.HandleMessage(ctx, msg)
	if err != nil {
		log.Error().Err(err).Str("guild_id", msg.GuildID).Msg("Word filter failed")
	}
	if deleted {
		return
	}
	if _, err := b.Pipeline.HandleMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("guild_id", msg.GuildID).Str("message_id", msg.ID).Msg("Image moderation failed")
	}
}

func toMessage(m *discordgo.Message) moderation.Message {
	msg := moderation.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorBot = m.Author.Bot
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, moderation.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}
	return msg
}
