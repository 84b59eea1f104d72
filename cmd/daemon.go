package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/ample/internal/config"
	"github.com/jfmyers9/ample/internal/creds"
	"github.com/jfmyers9/ample/internal/daemon"
	"github.com/jfmyers9/ample/internal/dispatch"
	"github.com/jfmyers9/ample/internal/media"
	"github.com/jfmyers9/ample/internal/presence"
	"github.com/jfmyers9/ample/internal/secrets"
	"github.com/jfmyers9/ample/pkg/lastfm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	daemonLogFile  string
	daemonLogLevel string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scrobbling daemon",
	Long: `Run the scrobbling daemon that watches MPRIS playback.

The daemon will:
- Poll the session bus every few seconds to detect track changes
- Update Now Playing on Last.fm when a track starts
- Scrobble a track once more than half of it has played
- Mirror the current track to Discord Rich Presence
- Handle graceful shutdown on SIGINT/SIGTERM

The daemon runs in the foreground and logs to stderr by default.
Use the --log-file flag or log.file config key to log to a rotating file.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVar(&daemonLogFile, "log-file", "", "Log file path (default: stderr)")
	daemonCmd.Flags().StringVar(&daemonLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile := daemonLogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logLevel := daemonLogLevel
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}

	logger := setupLogger(logFile, logLevel)
	logger.Info().Str("version", version).Msg("Starting ample daemon")

	poller, err := media.NewPoller()
	if err != nil {
		return fmt.Errorf("failed to create media poller: %w", err)
	}

	worker := setupScrobbling(cfg, logger)

	var sink daemon.Sink
	if cfg.Discord.Enabled {
		sink = presence.New(cfg.Discord.AppID, logger)
	}

	daemonCfg := daemon.Config{
		PollInterval: time.Duration(cfg.PollInterval) * time.Second,
		Player:       cfg.Player,
	}

	d := daemon.New(daemonCfg, poller, worker, sink, logger)
	if err := d.Run(); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}
	return nil
}

// setupScrobbling resolves Last.fm credentials and builds the dispatch
// worker. A nil return means the daemon runs presence-only.
func setupScrobbling(cfg *config.Config, logger zerolog.Logger) daemon.Dispatcher {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resolver := creds.NewResolver(&secrets.Keyring{}, logger)
	c, err := resolver.Resolve(ctx, cfg.LastFM.Attempts)
	if err != nil {
		logger.Warn().Err(err).Msg("Last.fm support not enabled")
		return nil
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     c.APIKey,
		APISecret:  c.APISecret,
		SessionKey: c.SessionKey,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Last.fm support not enabled")
		return nil
	}

	worker := dispatch.NewWorker(client, logger)
	worker.Start()
	return worker
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if logFile != "" {
		output := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		return zerolog.New(output).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
