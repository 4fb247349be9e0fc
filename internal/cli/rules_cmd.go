package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWhitelistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Apps and contacts whose notifications are always urgent",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List whitelist entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Rules.ListWhitelist(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWhitelist(entries))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add KIND VALUE",
		Short: "Whitelist an app or contact (KIND is app or contact)",
		Example: `  focusguard whitelist add app Slack
  focusguard whitelist add contact "Jane Doe"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Rules.AddWhitelist(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Whitelisted %s %q (%s)\n", entry.Kind, entry.Value, formatter.Dim(entry.ID))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove a whitelist entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Rules.RemoveWhitelist(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func newKeywordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keyword",
		Aliases: []string{"keywords"},
		Short:   "Words that mark a notification urgent",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List urgency keywords",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := app.Rules.ListKeywords(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatKeywords(keywords))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TEXT",
		Short: "Add an urgency keyword (case-insensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := app.Rules.AddKeyword(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added keyword %q (%s)\n", kw.Text, formatter.Dim(kw.ID))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove an urgency keyword",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Rules.RemoveKeyword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	})
	return cmd
}
