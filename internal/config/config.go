package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Output format template for the now command
	// Default: "{{.Artist}} - {{.Title}}"
	OutputFormat string

	// Fixed display width for the now command, 0 disables padding
	OutputWidth int

	// Poll interval for the daemon (in seconds)
	PollInterval int

	// Player restricts scrobbling to one player name, empty accepts any
	Player string

	// Logging destination and level
	Log LogConfig

	// Last.fm client settings
	LastFM LastFMConfig

	// Discord Rich Presence settings
	Discord DiscordConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	File  string
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	// Attempts bounds the session bootstrap retry loop
	Attempts int
}

// DiscordConfig holds Rich Presence configuration
type DiscordConfig struct {
	Enabled bool
	AppID   string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")

	setDefaults(v)

	// Config file is optional
	_ = v.ReadInConfig()

	v.SetEnvPrefix("AMPLE")
	v.AutomaticEnv()

	cfg := &Config{
		OutputFormat: v.GetString("output_format"),
		OutputWidth:  v.GetInt("output_width"),
		PollInterval: v.GetInt("poll_interval"),
		Player:       v.GetString("player"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		LastFM: LastFMConfig{
			Attempts: v.GetInt("lastfm.attempts"),
		},
		Discord: DiscordConfig{
			Enabled: v.GetBool("discord.enabled"),
			AppID:   v.GetString("discord.app_id"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_format", "{{.Artist}} - {{.Title}}")
	v.SetDefault("output_width", 0)
	v.SetDefault("poll_interval", 5)
	v.SetDefault("player", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("lastfm.attempts", 10)
	v.SetDefault("discord.enabled", true)
	v.SetDefault("discord.app_id", "1399214780564246670")
}

// Dir returns the configuration directory path.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "ample")
}
