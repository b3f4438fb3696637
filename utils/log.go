package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

// logPrefix returns the marker prepended to log channel lines of the given level.
func logPrefix(level LogLevel) string {
	switch level {
	case Warn:
		return "⚠️"
	case Error:
		return "❌"
	default:
		return "🚨"
	}
}

// InitLogger configures the global zerolog logger.
func InitLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// FormatLogLine renders a log channel line: "`[2006-01-02 15:04:05 UTC]` <marker> text".
func FormatLogLine(now time.Time, level LogLevel, text string) string {
	return fmt.Sprintf("`[%s]` %s %s", now.UTC().Format("2006-01-02 15:04:05 UTC"), logPrefix(level), text)
}
