package config

import (
	"ahri-bot/classifier"
	"ahri-bot/model"
	"ahri-bot/moderation"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Load reads the configuration from a .env file, the process environment and
// an optional config.yaml in the data directory, in increasing order of
// precedence for the environment.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, relying on environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("DATA_DIR"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SIGHTENGINE_ENDPOINT", classifier.DefaultSightengineEndpoint)
	v.SetDefault("CLASSIFIER_TIMEOUT", classifier.DefaultTimeout.String())
	v.SetDefault("MAX_CONCURRENT_SCANS", moderation.DefaultMaxConcurrentScans)
	v.SetDefault("NOTICE_TTL", moderation.DefaultNoticeTTL.String())
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DISABLE_COMMAND_REGISTER", false)
}

func fromViper(v *viper.Viper) (*model.Config, error) {
	token := strings.TrimSpace(v.GetString("BOT_TOKEN"))
	if token == "" {
		return nil, errors.New("BOT_TOKEN environment variable not set")
	}

	dataDir := v.GetString("DATA_DIR")
	historyDB := v.GetString("HISTORY_DB")
	if historyDB == "" {
		historyDB = filepath.Join(dataDir, "moderation.db")
	}

	cfg := &model.Config{
		BotToken:               token,
		DataDir:                dataDir,
		HistoryDBPath:          historyDB,
		SightengineUser:        v.GetString("SIGHTENGINE_USER"),
		SightengineSecret:      v.GetString("SIGHTENGINE_SECRET"),
		SightengineEndpoint:    v.GetString("SIGHTENGINE_ENDPOINT"),
		ClassifierTimeout:      durationSeconds(v, "CLASSIFIER_TIMEOUT"),
		MaxConcurrentScans:     v.GetInt64("MAX_CONCURRENT_SCANS"),
		NoticeTTL:              durationSeconds(v, "NOTICE_TTL"),
		MetricsAddr:            v.GetString("METRICS_ADDR"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		DisableCommandRegister: v.GetBool("DISABLE_COMMAND_REGISTER"),
	}

	if cfg.ClassifierTimeout <= 0 {
		log.Warn().Dur("value", cfg.ClassifierTimeout).Msg("Invalid CLASSIFIER_TIMEOUT, using default")
		cfg.ClassifierTimeout = classifier.DefaultTimeout
	}
	if cfg.MaxConcurrentScans <= 0 {
		log.Warn().Int64("value", cfg.MaxConcurrentScans).Msg("Invalid MAX_CONCURRENT_SCANS, using default")
		cfg.MaxConcurrentScans = moderation.DefaultMaxConcurrentScans
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = moderation.DefaultNoticeTTL
	}
	if !cfg.ClassifierConfigured() {
		log.Warn().Msg("SIGHTENGINE_USER or SIGHTENGINE_SECRET not set, image moderation will only log a warning")
	}
	return cfg, nil
}

// durationSeconds reads a duration, treating a bare number as seconds.
func durationSeconds(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return v.GetDuration(key)
}
