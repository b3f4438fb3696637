package bot

import (
	"ahri-bot/classifier"
	"ahri-bot/model"
	"ahri-bot/moderation"
	"ahri-bot/utils/database"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	config             atomic.Value // *model.Config

	Store      *database.GuildStore
	History    *database.ActionLog
	Settings   *moderation.Settings
	Pipeline   *moderation.Pipeline
	WordFilter *moderation.WordFilter
	StartedAt  time.Time

	metricsServer *http.Server
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	dg.StateEnabled = false

	store, err := database.NewGuildStore(filepath.Join(cfg.DataDir, "guilds"))
	if err != nil {
		return nil, fmt.Errorf("failed to open guild store: %w", err)
	}
	history, err := database.OpenActionLog(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open moderation history: %w", err)
	}

	b := &Bot{
		Session:   dg,
		Store:     store,
		History:   history,
		Settings:  moderation.NewSettings(store),
		StartedAt: time.Now(),
	}
	b.config.Store(cfg)

	actions := NewChatActions(dg)
	b.Pipeline = moderation.NewPipeline(store, newClassifier(cfg), actions, moderation.PipelineOptions{
		MaxConcurrentScans: cfg.MaxConcurrentScans,
		NoticeTTL:          cfg.NoticeTTL,
		Recorder:           history,
	})
	b.WordFilter = moderation.NewWordFilter(store, actions)
	return b, nil
}

// newClassifier returns nil when no credentials are configured, which
// leaves image moderation in warning-only mode.
func newClassifier(cfg *model.Config) classifier.Classifier {
	if !cfg.ClassifierConfigured() {
		return nil
	}
	c := classifier.NewSightengineClient(cfg.SightengineUser, cfg.SightengineSecret, cfg.ClassifierTimeout)
	if cfg.SightengineEndpoint != "" {
		c.Endpoint = cfg.SightengineEndpoint
	}
	return c
}

// Close shuts down in reverse order of construction: gateway first so no new
// events arrive, then the classifier, history and metrics listener.
func (b *Bot) Close() {
	log.Info().Msg("Gracefully shutting down.")
	if err := b.Session.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing gateway session")
	}
	b.Pipeline.Close()
	if err := b.History.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing moderation history")
	}
	b.stopMetrics()
}

// RefreshCommands overwrites the global application commands with the current set.
func (b *Bot) RefreshCommands(cmds []*discordgo.ApplicationCommand) error {
	appID := b.Session.State.User.ID
	log.Info().Int("count", len(cmds)).Msg("Registering application commands")
	registered, err := b.Session.ApplicationCommandBulkOverwrite(appID, "", cmds)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	b.RegisteredCommands = registered
	return nil
}
