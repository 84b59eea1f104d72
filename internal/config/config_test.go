package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file from the working directory leaks in.
	dir := t.TempDir()
	origWD, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origWD) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PollInterval != 5 {
		t.Errorf("expected poll interval 5, got %d", cfg.PollInterval)
	}
	if cfg.OutputFormat != "{{.Artist}} - {{.Title}}" {
		t.Errorf("unexpected output format %q", cfg.OutputFormat)
	}
	if cfg.Player != "" {
		t.Errorf("expected no player filter, got %q", cfg.Player)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Log.Level)
	}
	if cfg.Log.File != "" {
		t.Errorf("expected stderr logging by default, got %q", cfg.Log.File)
	}
	if cfg.LastFM.Attempts != 10 {
		t.Errorf("expected 10 bootstrap attempts, got %d", cfg.LastFM.Attempts)
	}
	if !cfg.Discord.Enabled || cfg.Discord.AppID == "" {
		t.Errorf("expected discord enabled with an app id, got %+v", cfg.Discord)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("poll_interval: 2\nplayer: spotify\nlog:\n  level: debug\nlastfm:\n  attempts: 3\ndiscord:\n  enabled: false\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origWD) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PollInterval != 2 {
		t.Errorf("expected poll interval 2, got %d", cfg.PollInterval)
	}
	if cfg.Player != "spotify" {
		t.Errorf("expected player spotify, got %q", cfg.Player)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
	if cfg.LastFM.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.LastFM.Attempts)
	}
	if cfg.Discord.Enabled {
		t.Error("expected discord disabled")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origWD, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origWD) })

	t.Setenv("AMPLE_POLL_INTERVAL", "9")
	t.Setenv("AMPLE_PLAYER", "mpv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 9 {
		t.Errorf("expected poll interval 9, got %d", cfg.PollInterval)
	}
	if cfg.Player != "mpv" {
		t.Errorf("expected player mpv, got %q", cfg.Player)
	}
}
