package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newModeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Name of the host focus mode toggled during sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the focus mode name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := app.Settings.FocusModeName(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME",
		Short: "Change the focus mode name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if err := app.Settings.SetFocusModeName(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Focus mode set to %q\n", strings.TrimSpace(name))
			return nil
		},
	})
	return cmd
}
