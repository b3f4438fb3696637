package model

import "time"

// Config stores the application configuration.
type Config struct {
	BotToken               string
	DataDir                string
	HistoryDBPath          string
	SightengineUser        string
	SightengineSecret      string
	SightengineEndpoint    string
	ClassifierTimeout      time.Duration
	MaxConcurrentScans     int64
	NoticeTTL              time.Duration
	MetricsAddr            string
	LogLevel               string
	DisableCommandRegister bool
}

// ClassifierConfigured reports whether credentials for the image classifier are present.
func (c *Config) ClassifierConfigured() bool {
	return c.SightengineUser != "" && c.SightengineSecret != ""
}
