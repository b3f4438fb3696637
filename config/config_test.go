package config

import (
	"ahri-bot/classifier"
	"ahri-bot/moderation"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BOT_TOKEN", "token")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "moderation.db"), cfg.HistoryDBPath)
	assert.Equal(t, classifier.DefaultSightengineEndpoint, cfg.SightengineEndpoint)
	assert.Equal(t, 30*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, int64(4), cfg.MaxConcurrentScans)
	assert.Equal(t, moderation.DefaultNoticeTTL, cfg.NoticeTTL)
	assert.False(t, cfg.ClassifierConfigured())
}

func TestFromViperRequiresToken(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViperFallsBackOnInvalidValues(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BOT_TOKEN", "token")
	v.Set("MAX_CONCURRENT_SCANS", 0)
	v.Set("CLASSIFIER_TIMEOUT", "-5s")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, int64(moderation.DefaultMaxConcurrentScans), cfg.MaxConcurrentScans)
	assert.Equal(t, classifier.DefaultTimeout, cfg.ClassifierTimeout)
}

func TestFromViperReadsBareNumbersAsSeconds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"integer", "30", 30 * time.Second},
		{"fraction", "1.5", 1500 * time.Millisecond},
		{"with unit", "45s", 45 * time.Second},
		{"minutes", "2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set("BOT_TOKEN", "token")
			v.Set("CLASSIFIER_TIMEOUT", tt.raw)
			v.Set("NOTICE_TTL", tt.raw)

			cfg, err := fromViper(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ClassifierTimeout)
			assert.Equal(t, tt.want, cfg.NoticeTTL)
		})
	}
}

func TestLoadReadsBareTimeoutFromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CLASSIFIER_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ClassifierTimeout)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
SIGHTENGINE_USER: user
SIGHTENGINE_SECRET: secret
MAX_CONCURRENT_SCANS: 8
`), 0644))
	t.Setenv("DATA_DIR", dir)
	t.Setenv("BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.ClassifierConfigured())
	assert.Equal(t, int64(8), cfg.MaxConcurrentScans)
	assert.Equal(t, filepath.Join(dir, "moderation.db"), cfg.HistoryDBPath)
}
