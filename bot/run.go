package bot

import (
	"ahri-bot/commands"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Run opens the gateway, registers commands and blocks until SIGINT or SIGTERM.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	cfg := b.GetConfig()
	if cfg.DisableCommandRegister {
		log.Info().Msg("Command registration disabled, keeping existing commands")
	} else if err := b.RefreshCommands(commands.GenerateCommands()); err != nil {
		log.Error().Err(err).Msg("Failed to register commands")
	}

	b.startMetrics(cfg.MetricsAddr)

	log.Info().Msg("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
