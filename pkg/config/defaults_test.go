package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Enabled, "blame starts enabled")
	assert.Equal(t, "git", cfg.GitBinary)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Zero(t, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
enabled: false
cache_size: 16
timeout: 3s
timezone: Asia/Tokyo
exclude: author == "dependabot[bot]"
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, `author == "dependabot[bot]"`, cfg.Exclude)
	assert.Equal(t, "git", cfg.GitBinary, "unset keys keep their default")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LINEBLAME_ENABLED", "false")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero cache", mutate: func(c *Config) { c.CacheSize = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }},
		{name: "empty binary", mutate: func(c *Config) { c.GitBinary = "" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	for _, tz := range []string{"", "UTC"} {
		loc, err := Config{Timezone: tz}.Location()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	}

	loc, err := Config{Timezone: "Local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
