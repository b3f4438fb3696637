package moderation

import (
	"ahri-bot/model"
	"ahri-bot/utils/database"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidThreshold is returned for threshold values outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be between 0.0 and 1.0")

var inputValidator = validator.New()

// Settings applies admin commands to guild records. Every change goes
// through the store's locked mutation. Set-style operations report whether
// anything changed; a no-op is not an error.
type Settings struct {
	store GuildStore
	now   func() time.Time
}

func NewSettings(store GuildStore) *Settings {
	return &Settings{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ThresholdInput carries the values of a setthresholds command. The
// illustration values are optional and keep their stored value when nil.
type ThresholdInput struct {
	NSFW                   float64  `validate:"gte=0,lte=1"`
	Suggestive             float64  `validate:"gte=0,lte=1"`
	NSFWIllustration       *float64 `validate:"omitempty,gte=0,lte=1"`
	SuggestiveIllustration *float64 `validate:"omitempty,gte=0,lte=1"`
}

// validate reports the first out-of-range value as ErrInvalidThreshold.
// NaN fails every range check.
func (in ThresholdInput) validate() error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s=%v", ErrInvalidThreshold, verrs[0].Field(), verrs[0].Value())
	}
	return err
}

// mutateModeration applies fn to the moderation section and stamps its
// LastUpdated. It reports false, with no error, when fn returns ErrUnchanged.
func (s *Settings) mutateModeration(guildID string, fn func(m *model.ModerationConfig) error) (*model.GuildConfig, bool, error) {
	cfg, err := s.store.Mutate(guildID, func(cfg *model.GuildConfig) error {
		if err := fn(&cfg.Moderation); err != nil {
			return err
		}
		now := s.now()
		cfg.Moderation.LastUpdated = &now
		return nil
	})
	if errors.Is(err, database.ErrUnchanged) {
		return cfg, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func (s *Settings) mutateGuild(guildID string, fn func(cfg *model.GuildConfig) error) (bool, error) {
	_, err := s.store.Mutate(guildID, fn)
	if errors.Is(err, database.ErrUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func addTo(set *[]string, id string) error {
	if !model.AddID(set, id) {
		return database.ErrUnchanged
	}
	return nil
}

func removeFrom(set *[]string, id string) error {
	if !model.RemoveID(set, id) {
		return database.ErrUnchanged
	}
	return nil
}

// SetEnabled turns image moderation on or off.
func (s *Settings) SetEnabled(guildID string, enabled bool) error {
	_, _, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		m.Enabled = enabled
		return nil
	})
	return err
}

// SetLogChannel sets the log channel; an empty ID disables channel logging.
func (s *Settings) SetLogChannel(guildID, channelID string) error {
	_, _, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		m.LogChannelID = channelID
		return nil
	})
	return err
}

// SetThresholds validates and stores new thresholds, returning the full set.
// Nothing is written if any value is out of range.
func (s *Settings) SetThresholds(guildID string, in ThresholdInput) (model.Thresholds, error) {
	if err := in.validate(); err != nil {
		return model.Thresholds{}, err
	}
	cfg, _, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		m.Thresholds.NSFWPhoto = in.NSFW
		m.Thresholds.SuggestivePhoto = in.Suggestive
		if in.NSFWIllustration != nil {
			m.Thresholds.NSFWIllustration = *in.NSFWIllustration
		}
		if in.SuggestiveIllustration != nil {
			m.Thresholds.SuggestiveIllustration = *in.SuggestiveIllustration
		}
		return nil
	})
	if err != nil {
		return model.Thresholds{}, err
	}
	return cfg.Moderation.Thresholds, nil
}

func (s *Settings) AddChannel(guildID, channelID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return addTo(&m.ActiveChannelIDs, channelID)
	})
	return changed, err
}

func (s *Settings) RemoveChannel(guildID, channelID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return removeFrom(&m.ActiveChannelIDs, channelID)
	})
	return changed, err
}

func (s *Settings) Whitelist(guildID, userID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return addTo(&m.WhitelistUserIDs, userID)
	})
	return changed, err
}

func (s *Settings) Unwhitelist(guildID, userID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return removeFrom(&m.WhitelistUserIDs, userID)
	})
	return changed, err
}

func (s *Settings) Blacklist(guildID, userID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return addTo(&m.BlacklistUserIDs, userID)
	})
	return changed, err
}

func (s *Settings) Unblacklist(guildID, userID string) (bool, error) {
	_, changed, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		return removeFrom(&m.BlacklistUserIDs, userID)
	})
	return changed, err
}

// ToggleGlobal flips the everyone flag and returns its new value.
func (s *Settings) ToggleGlobal(guildID string) (bool, error) {
	cfg, _, err := s.mutateModeration(guildID, func(m *model.ModerationConfig) error {
		m.EveryoneFlag = !m.EveryoneFlag
		return nil
	})
	if err != nil {
		return false, err
	}
	return cfg.Moderation.EveryoneFlag, nil
}

// View returns the current moderation settings of a guild.
func (s *Settings) View(guildID string) (model.ModerationConfig, error) {
	cfg, err := s.store.Load(guildID)
	if err != nil {
		return model.ModerationConfig{}, err
	}
	return cfg.Moderation, nil
}

// AddAdmin grants bot admin rights to a user.
func (s *Settings) AddAdmin(guildID, userID string) (bool, error) {
	return s.mutateGuild(guildID, func(cfg *model.GuildConfig) error {
		return addTo(&cfg.Admins, userID)
	})
}

func (s *Settings) RemoveAdmin(guildID, userID string) (bool, error) {
	return s.mutateGuild(guildID, func(cfg *model.GuildConfig) error {
		return removeFrom(&cfg.Admins, userID)
	})
}

// SetAutomod turns the banned-word filter on or off.
func (s *Settings) SetAutomod(guildID string, enabled bool) error {
	_, err := s.mutateGuild(guildID, func(cfg *model.GuildConfig) error {
		cfg.Automod.Enabled = enabled
		return nil
	})
	return err
}

// AddBannedWord stores word lower-cased. Blank words are ignored.
func (s *Settings) AddBannedWord(guildID, word string) (bool, error) {
	word = normalizeWord(word)
	if word == "" {
		return false, nil
	}
	return s.mutateGuild(guildID, func(cfg *model.GuildConfig) error {
		return addTo(&cfg.Automod.BannedWords, word)
	})
}

func (s *Settings) RemoveBannedWord(guildID, word string) (bool, error) {
	word = normalizeWord(word)
	if word == "" {
		return false, nil
	}
	return s.mutateGuild(guildID, func(cfg *model.GuildConfig) error {
		return removeFrom(&cfg.Automod.BannedWords, word)
	})
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
