package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"standup/internal/export"
	"standup/internal/storage"
)

func newCopyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the standup text to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := export.Text(app.state.Date(), app.state.Snapshot())
			if err := app.clip.WriteAll(text); err != nil {
				app.log.Error("clipboard write", "err", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "Copy failed. Select & copy manually.")
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Copied standup to clipboard")
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the date's items to an .xlsx spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = app.cfg.ExportDir
			}
			path, err := export.Spreadsheet(dir, app.state.Date(), app.state.Snapshot())
			if errors.Is(err, export.ErrNoItems) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No items to export.")
				return nil
			}
			if err != nil {
				return err
			}
			app.log.Info("exported", "date", app.state.Date(), "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into (default: export_dir from config)")
	return cmd
}

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set the TUI theme; with no argument, toggle it",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{storage.ThemeLight, storage.ThemeDark},
		RunE: func(cmd *cobra.Command, args []string) error {
			var next string
			if len(args) == 1 {
				next = args[0]
			} else {
				cur, err := app.store.Theme()
				if err != nil {
					return err
				}
				next = storage.ThemeDark
				if cur == storage.ThemeDark {
					next = storage.ThemeLight
				}
			}
			if err := app.store.SetTheme(next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", next)
			return nil
		},
	}
}

func newDatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List dates that have a saved standup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := app.store.Dates()
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
