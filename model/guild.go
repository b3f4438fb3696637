package model

import (
	"slices"
	"time"
)

// Default thresholds applied when a guild record has none (or only some) stored.
const (
	DefaultNSFWThreshold                   = 0.80
	DefaultSuggestiveThreshold             = 0.90
	DefaultNSFWIllustrationThreshold       = 0.90
	DefaultSuggestiveIllustrationThreshold = 0.95
)

// GuildConfig is the persisted state of one guild. One record per guild ID.
type GuildConfig struct {
	GuildID     string           `json:"guild_id"`
	Activated   bool             `json:"activated"`
	Admins      []string         `json:"admins"`
	Moderation  ModerationConfig `json:"nsfw_moderator"`
	Automod     AutomodConfig    `json:"automod"`
	LastUpdated *time.Time       `json:"last_updated"`
}

// ModerationConfig holds the image moderation settings of a guild.
type ModerationConfig struct {
	Enabled          bool       `json:"enabled"`
	LogChannelID     string     `json:"log_channel_id,omitempty"`
	ActiveChannelIDs []string   `json:"active_channel_ids"`
	WhitelistUserIDs []string   `json:"whitelist_user_ids"`
	BlacklistUserIDs []string   `json:"blacklist_user_ids"`
	EveryoneFlag     bool       `json:"everyone_blacklisted"`
	Thresholds       Thresholds `json:"thresholds"`
	LastUpdated      *time.Time `json:"last_updated"`
}

// Thresholds are the score cut-offs for photos and illustrations, each in [0, 1].
type Thresholds struct {
	NSFWPhoto              float64 `json:"nsfw"`
	SuggestivePhoto        float64 `json:"suggestive"`
	NSFWIllustration       float64 `json:"nsfw_illustration"`
	SuggestiveIllustration float64 `json:"suggestive_illustration"`
}

// AutomodConfig is the banned-word filter of a guild.
type AutomodConfig struct {
	Enabled     bool     `json:"enabled"`
	BannedWords []string `json:"banned_words"`
}

// DefaultThresholds returns the documented default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NSFWPhoto:              DefaultNSFWThreshold,
		SuggestivePhoto:        DefaultSuggestiveThreshold,
		NSFWIllustration:       DefaultNSFWIllustrationThreshold,
		SuggestiveIllustration: DefaultSuggestiveIllustrationThreshold,
	}
}

// For returns the (nsfw, suggestive) pair used for the given media kind.
func (t Thresholds) For(kind MediaKind) (nsfw, suggestive float64) {
	if kind == MediaIllustration {
		return t.NSFWIllustration, t.SuggestiveIllustration
	}
	return t.NSFWPhoto, t.SuggestivePhoto
}

// DefaultGuildConfig returns the record created on first access of a guild.
// Decoding a stored record on top of this value synthesizes any missing keys.
func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:   guildID,
		Activated: false,
		Admins:    []string{},
		Moderation: ModerationConfig{
			Enabled:          true,
			ActiveChannelIDs: []string{},
			WhitelistUserIDs: []string{},
			BlacklistUserIDs: []string{},
			Thresholds:       DefaultThresholds(),
		},
		Automod: AutomodConfig{
			BannedWords: []string{},
		},
	}
}

// HasAdmin reports whether userID is in the admin set.
func (g *GuildConfig) HasAdmin(userID string) bool {
	return slices.Contains(g.Admins, userID)
}

// IsMonitored reports whether channelID is under blanket monitoring.
func (m *ModerationConfig) IsMonitored(channelID string) bool {
	return slices.Contains(m.ActiveChannelIDs, channelID)
}

// IsWhitelisted reports whether userID is exempt from scanning.
func (m *ModerationConfig) IsWhitelisted(userID string) bool {
	return slices.Contains(m.WhitelistUserIDs, userID)
}

// IsBlacklisted reports whether userID is scanned in every channel.
func (m *ModerationConfig) IsBlacklisted(userID string) bool {
	return slices.Contains(m.BlacklistUserIDs, userID)
}

// AddID appends id to set unless already present. It reports whether set changed.
func AddID(set *[]string, id string) bool {
	if slices.Contains(*set, id) {
		return false
	}
	*set = append(*set, id)
	return true
}

// RemoveID removes every occurrence of id from set. It reports whether set changed.
func RemoveID(set *[]string, id string) bool {
	before := len(*set)
	*set = slices.DeleteFunc(*set, func(v string) bool { return v == id })
	return len(*set) != before
}
