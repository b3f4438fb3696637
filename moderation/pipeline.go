package moderation

import (
	"ahri-bot/classifier"
	"ahri-bot/model"
	"ahri-bot/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultMaxConcurrentScans = 4
	DefaultNoticeTTL          = 12 * time.Second
)

// ErrNoClassifier is logged when a message qualifies for scanning but no
// classifier has been configured. Moderation then does nothing.
var ErrNoClassifier = errors.New("no image classifier configured")

// GuildStore is the subset of the guild record store used by moderation.
type GuildStore interface {
	Load(guildID string) (*model.GuildConfig, error)
	Mutate(guildID string, update func(cfg *model.GuildConfig) error) (*model.GuildConfig, error)
}

type PipelineOptions struct {
	// MaxConcurrentScans bounds in-flight classifier calls across all guilds.
	MaxConcurrentScans int64
	// NoticeTTL is how long the removal notice stays in the channel.
	NoticeTTL time.Duration
	// Recorder receives delete, flag and scan error outcomes. Optional.
	Recorder ActionRecorder
}

// Pipeline scans image attachments of guild messages and acts on the verdict.
// The classifier and the scan limiter belong to the pipeline; Close releases them.
type Pipeline struct {
	store      GuildStore
	classifier classifier.Classifier
	actions    ChatActions
	recorder   ActionRecorder
	limiter    *semaphore.Weighted
	noticeTTL  time.Duration

	notice func() string
	now    func() time.Time
}

// NewPipeline builds a pipeline. clf may be nil, in which case qualifying
// messages only produce a configuration warning.
func NewPipeline(store GuildStore, clf classifier.Classifier, actions ChatActions, opts PipelineOptions) *Pipeline {
	if opts.MaxConcurrentScans <= 0 {
		opts.MaxConcurrentScans = DefaultMaxConcurrentScans
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	return &Pipeline{
		store:      store,
		classifier: clf,
		actions:    actions,
		recorder:   opts.Recorder,
		limiter:    semaphore.NewWeighted(opts.MaxConcurrentScans),
		noticeTTL:  opts.NoticeTTL,
		notice: func() string {
			return utils.Say("oops") + " " + utils.Say("nsfw_removed")
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// HandleMessage runs a message through moderation. Attachments are scanned
// one after another and scanning stops at the first deletion. It reports
// whether a deletion was decided. Only a failure to load the guild record
// is returned as an error; everything else is logged and skipped.
func (p *Pipeline) HandleMessage(ctx context.Context, msg Message) (bool, error) {
	if msg.AuthorBot || msg.GuildID == "" {
		return false, nil
	}
	cfg, err := p.store.Load(msg.GuildID)
	if err != nil {
		return false, err
	}

	images := Eligible(cfg, msg)
	if len(images) == 0 {
		return false, nil
	}
	if p.classifier == nil {
		log.Warn().Err(ErrNoClassifier).Str("guild_id", msg.GuildID).Str("message_id", msg.ID).Msg("Skipping image scan")
		p.logToChannel(ctx, cfg, utils.Warn, "Image classifier is not configured; skipping scan.")
		return false, nil
	}

	for _, att := range images {
		scores, err := p.classify(ctx, att.URL)
		if err != nil {
			p.scanFailed(ctx, cfg, msg, att, err)
			continue
		}

		decision := Decide(scores, cfg.Moderation.Thresholds)
		decisionsCount.WithLabelValues(string(decision)).Inc()
		switch decision {
		case model.DecisionDelete:
			p.remove(ctx, cfg, msg, att, scores)
			return true, nil
		case model.DecisionFlag:
			p.flag(ctx, cfg, msg, att, scores)
		}
	}
	return false, nil
}

// Eligible returns the image attachments of msg that must be scanned under
// cfg, or nil when the message is exempt. Checks run in order and stop at the
// first failure.
func Eligible(cfg *model.GuildConfig, msg Message) []Attachment {
	if msg.AuthorBot || msg.GuildID == "" {
		return nil
	}
	if !cfg.Activated || !cfg.Moderation.Enabled {
		return nil
	}
	m := &cfg.Moderation
	if m.IsWhitelisted(msg.AuthorID) {
		return nil
	}
	images := msg.ImageAttachments()
	if len(images) == 0 {
		return nil
	}

	blacklisted := m.IsBlacklisted(msg.AuthorID)
	if m.IsMonitored(msg.ChannelID) {
		if !m.EveryoneFlag && !blacklisted {
			return nil
		}
	} else if !blacklisted {
		return nil
	}
	return images
}

// classify calls the classifier while holding one slot of the shared limiter.
func (p *Pipeline) classify(ctx context.Context, imageURL string) (model.ScanScores, error) {
	if err := p.limiter.Acquire(ctx, 1); err != nil {
		return model.ScanScores{}, fmt.Errorf("waiting for scan slot: %w", err)
	}
	defer p.limiter.Release(1)

	scansInFlight.Inc()
	defer scansInFlight.Dec()
	return p.classifier.Classify(ctx, imageURL)
}

func (p *Pipeline) scanFailed(ctx context.Context, cfg *model.GuildConfig, msg Message, att Attachment, err error) {
	scanErrorsCount.Inc()
	log.Warn().Err(err).
		Str("guild_id", msg.GuildID).
		Str("channel_id", msg.ChannelID).
		Str("message_id", msg.ID).
		Str("url", att.URL).
		Msg("Image scan failed")

	cause := err.Error()
	p.logToChannel(ctx, cfg, utils.Error, fmt.Sprintf("Scan failed for image `%s` in <#%s>: %s", att.URL, msg.ChannelID, cause))
	p.record(ctx, model.ActionRecord{
		GuildID:    msg.GuildID,
		ChannelID:  msg.ChannelID,
		MessageID:  msg.ID,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		ImageURL:   att.URL,
		Action:     model.ActionScanError,
		Detail:     cause,
		Timestamp:  p.now().Unix(),
	})
}

func (p *Pipeline) remove(ctx context.Context, cfg *model.GuildConfig, msg Message, att Attachment, scores model.ScanScores) {
	deleted := true
	var detail string
	if err := p.actions.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		deleted = false
		aerr := &ActionError{Op: "delete", Err: err}
		detail = aerr.Error()
		log.Warn().Err(aerr).Str("guild_id", msg.GuildID).Str("message_id", msg.ID).Msg("Failed to delete NSFW message")
		p.logToChannel(ctx, cfg, utils.Error, fmt.Sprintf("Error deleting message with image `%s` in <#%s>: %v", att.URL, msg.ChannelID, err))
	}

	if err := p.actions.SendMessage(ctx, msg.ChannelID, p.notice(), SendOptions{DeleteAfter: p.noticeTTL}); err != nil {
		log.Warn().Err(&ActionError{Op: "send notice", Err: err}).Str("channel_id", msg.ChannelID).Msg("Failed to send removal notice")
	}

	summary := p.describe(cfg, msg, att, scores)
	if deleted {
		p.logToChannel(ctx, cfg, utils.Info, "Deleted NSFW image "+summary)
	} else {
		p.logToChannel(ctx, cfg, utils.Warn, "Flagged NSFW image "+summary+", not deleted.")
	}
	log.Info().
		Str("guild_id", msg.GuildID).
		Str("message_id", msg.ID).
		Float64("explicit", scores.Explicit).
		Float64("suggestive", scores.Suggestive).
		Str("kind", string(scores.Kind)).
		Bool("deleted", deleted).
		Msg("NSFW image removed")

	rec := p.newRecord(cfg, msg, att, scores, model.ActionDelete)
	rec.Deleted = deleted
	rec.Detail = detail
	p.record(ctx, rec)

	if _, err := p.store.Mutate(msg.GuildID, func(c *model.GuildConfig) error {
		now := p.now()
		c.Moderation.LastUpdated = &now
		return nil
	}); err != nil {
		log.Error().Err(err).Str("guild_id", msg.GuildID).Msg("Failed to persist moderation timestamp")
		p.logToChannel(ctx, cfg, utils.Error, fmt.Sprintf("Failed to save moderation settings: %v", err))
	}
}

func (p *Pipeline) flag(ctx context.Context, cfg *model.GuildConfig, msg Message, att Attachment, scores model.ScanScores) {
	p.logToChannel(ctx, cfg, utils.Warn, "Flagged suggestive image "+p.describe(cfg, msg, att, scores))
	log.Info().
		Str("guild_id", msg.GuildID).
		Str("message_id", msg.ID).
		Float64("explicit", scores.Explicit).
		Float64("suggestive", scores.Suggestive).
		Str("kind", string(scores.Kind)).
		Msg("Suggestive image flagged")
	p.record(ctx, p.newRecord(cfg, msg, att, scores, model.ActionFlag))
}

func (p *Pipeline) describe(cfg *model.GuildConfig, msg Message, att Attachment, scores model.ScanScores) string {
	nsfw, suggestive := cfg.Moderation.Thresholds.For(scores.Kind)
	return fmt.Sprintf("from %s (<@%s>) in <#%s>: `%s` (nsfw=%.2f/%.2f, suggestive=%.2f/%.2f, type=%s)",
		msg.AuthorName, msg.AuthorID, msg.ChannelID, att.URL,
		scores.Explicit, nsfw, scores.Suggestive, suggestive, scores.Kind)
}

func (p *Pipeline) newRecord(cfg *model.GuildConfig, msg Message, att Attachment, scores model.ScanScores, action string) model.ActionRecord {
	nsfw, suggestive := cfg.Moderation.Thresholds.For(scores.Kind)
	return model.ActionRecord{
		GuildID:             msg.GuildID,
		ChannelID:           msg.ChannelID,
		MessageID:           msg.ID,
		AuthorID:            msg.AuthorID,
		AuthorName:          msg.AuthorName,
		ImageURL:            att.URL,
		Action:              action,
		Explicit:            scores.Explicit,
		Suggestive:          scores.Suggestive,
		NSFWThreshold:       nsfw,
		SuggestiveThreshold: suggestive,
		MediaKind:           string(scores.Kind),
		Timestamp:           p.now().Unix(),
	}
}

func (p *Pipeline) record(ctx context.Context, rec model.ActionRecord) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Str("guild_id", rec.GuildID).Str("action", rec.Action).Msg("Failed to record moderation action")
	}
}

// logToChannel posts a line to the guild's log channel. Without a log
// channel the line is dropped.
func (p *Pipeline) logToChannel(ctx context.Context, cfg *model.GuildConfig, level utils.LogLevel, text string) {
	channelID := cfg.Moderation.LogChannelID
	if channelID == "" {
		return
	}
	line := utils.FormatLogLine(p.now(), level, text)
	if err := p.actions.SendMessage(ctx, channelID, line, SendOptions{Quiet: true}); err != nil {
		log.Warn().Err(&ActionError{Op: "send log", Err: err}).Str("channel_id", channelID).Msg("Failed to write to log channel")
	}
}

// Close releases the classifier's connections.
func (p *Pipeline) Close() {
	if c, ok := p.classifier.(interface{ Close() }); ok {
		c.Close()
	}
}
