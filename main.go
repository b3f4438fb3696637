package main

import (
	"ahri-bot/bot"
	"ahri-bot/config"
	"ahri-bot/handlers"
	"ahri-bot/utils"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	utils.InitLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	utils.InitLogger(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	b, err := bot.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating bot")
	}
	defer b.Close()

	handlers.Register(b)

	if err := b.Run(); err != nil {
		log.Error().Err(err).Msg("Bot stopped")
	}
}
