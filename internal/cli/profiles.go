package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Evman90/soundboardmaker/internal/service/archive"
)

// ProfilesCmd manages the server-side profile archive directly on disk.
func ProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage archived profiles",
	}
	cmd.AddCommand(profilesListCmd())
	cmd.AddCommand(profilesDeleteCmd())
	return cmd
}

func openArchive(cmd *cobra.Command) (*archive.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return archive.NewService(quietLogger(), cfg.Storage.ProfilesDir, cfg.Storage.MaxProfileBytes)
}

func profilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openArchive(cmd)
			if err != nil {
				return err
			}
			entries, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list profiles: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No archived profiles")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILENAME\tSAVED\tSIZE\tFLAGS")
			for _, e := range entries {
				saved := "-"
				if !e.SavedAt.IsZero() {
					saved = e.SavedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Filename, saved, e.Size, flags(e))
			}
			return w.Flush()
		},
	}
}

func flags(e archive.Entry) string {
	switch {
	case e.Corrupt:
		return color.New(color.FgRed).Sprint("corrupt")
	case e.ReadOnly:
		return color.New(color.FgYellow).Sprint("read-only")
	default:
		return ""
	}
}

func profilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete an archived profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openArchive(cmd)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", color.New(color.FgGreen).Sprint("✓"), args[0])
			return nil
		},
	}
}
