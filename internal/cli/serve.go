package cli

import (
	"github.com/spf13/cobra"

	"github.com/Evman90/soundboardmaker/internal/app"
)

// ServeCmd runs the HTTP server until interrupted.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
}
