// Package cli defines the soundboard command tree.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Evman90/soundboardmaker/internal/app"
	"github.com/Evman90/soundboardmaker/internal/config"
)

// RootCmd builds the soundboard command with all subcommands attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "soundboard",
		Short:         "Voice-triggered soundboard server",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to config file (default $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(ServeCmd())
	root.AddCommand(ProfilesCmd())
	root.AddCommand(VersionCmd())
	return root
}

// loadConfig honours --config and falls back to config.Load.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// quietLogger is used by one-shot commands that report through stdout.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
