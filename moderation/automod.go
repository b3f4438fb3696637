package moderation

import (
	"ahri-bot/utils"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// WordFilter deletes guild messages containing a banned word.
type WordFilter struct {
	store   GuildStore
	actions ChatActions
}

func NewWordFilter(store GuildStore, actions ChatActions) *WordFilter {
	return &WordFilter{store: store, actions: actions}
}

// MatchBannedWord returns the first entry of banned that occurs anywhere in
// content, ignoring case, or "".
func MatchBannedWord(content string, banned []string) string {
	text := strings.ToLower(content)
	for _, w := range banned {
		if w != "" && strings.Contains(text, strings.ToLower(w)) {
			return w
		}
	}
	return ""
}

// HandleMessage deletes msg if it contains a banned word and reports whether
// it did. Delete and notice failures are logged only.
func (f *WordFilter) HandleMessage(ctx context.Context, msg Message) (bool, error) {
	if msg.AuthorBot || msg.GuildID == "" {
		return false, nil
	}
	cfg, err := f.store.Load(msg.GuildID)
	if err != nil {
		return false, err
	}
	if !cfg.Activated || !cfg.Automod.Enabled {
		return false, nil
	}
	word := MatchBannedWord(msg.Content, cfg.Automod.BannedWords)
	if word == "" {
		return false, nil
	}

	if err := f.actions.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		log.Warn().Err(&ActionError{Op: "delete", Err: err}).Str("guild_id", msg.GuildID).Str("message_id", msg.ID).Msg("Failed to delete banned word message")
		return false, nil
	}
	log.Info().Str("guild_id", msg.GuildID).Str("author_id", msg.AuthorID).Str("word", word).Msg("Deleted message with banned word")

	notice := utils.Say("banned_word", fmt.Sprintf("<@%s>", msg.AuthorID))
	if err := f.actions.SendMessage(ctx, msg.ChannelID, notice, SendOptions{DeleteAfter: DefaultNoticeTTL}); err != nil {
		log.Warn().Err(&ActionError{Op: "send notice", Err: err}).Str("channel_id", msg.ChannelID).Msg("Failed to send banned word notice")
	}
	return true, nil
}
