/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ample",
	Short: "MPRIS scrobbler for Last.fm with Discord Rich Presence",
	Long: `ample watches your media player over MPRIS and scrobbles what you
listen to on Last.fm.

It runs as a foreground daemon that polls the session bus for playback,
updates Now Playing as tracks change, scrobbles once a track passes its
midpoint, and mirrors the current track to Discord Rich Presence.

It also provides a CLI command to query the currently playing track,
useful for displaying in tmux status lines or other status bars.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
