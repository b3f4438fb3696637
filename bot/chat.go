package bot

import (
	"ahri-bot/moderation"
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// ChatActions performs moderation actions through a discordgo session.
type ChatActions struct {
	session *discordgo.Session
}

func NewChatActions(s *discordgo.Session) *ChatActions {
	return &ChatActions{session: s}
}

func (c *ChatActions) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (c *ChatActions) SendMessage(ctx context.Context, channelID, text string, opts moderation.SendOptions) error {
	send := &discordgo.MessageSend{Content: text}
	if opts.Quiet {
		send.AllowedMentions = &discordgo.MessageAllowedMentions{}
		send.Flags = discordgo.MessageFlagsSuppressEmbeds
	}
	msg, err := c.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	if opts.DeleteAfter > 0 {
		time.AfterFunc(opts.DeleteAfter, func() {
			if err := c.session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
				log.Debug().Err(err).Str("message_id", msg.ID).Msg("Failed to expire message")
			}
		})
	}
	return nil
}
