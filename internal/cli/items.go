package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"standup/internal/model"
	"standup/internal/standup"
)

func newAddCmd(app *App) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <section> <text...>",
		Short: "Add an item to yesterday, today or blockers",
		Args:  cobra.MinimumNArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			out := make([]string, 0, len(model.Sections))
			for _, s := range model.Sections {
				out = append(out, strings.ToLower(string(s)))
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, ok := model.ParseSection(args[0])
			if !ok {
				return fmt.Errorf("%w: %q (want yesterday, today or blockers)", standup.ErrUnknownSection, args[0])
			}
			if priority == "" {
				priority = app.cfg.DefaultPriority
			}
			added, err := app.state.AddItem(sec, strings.Join(args[1:], " "), model.Priority(priority))
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing added: text is empty")
				return nil
			}
			app.log.Info("item added", "date", app.state.Date(), "section", string(sec))
			fmt.Fprintf(cmd.OutOrStdout(), "Added to %s (#%d) for %s\n", sec, len(app.state.Items()), app.state.Date())
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium or high (default from config)")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items for the date, numbered for done/rm",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name := app.state.Name()
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "%s  %s\n", app.state.Date(), name)
			for _, sec := range standup.Sections(app.state.Items()) {
				fmt.Fprintf(out, "\n%s:\n", sec.Section)
				if len(sec.Items) == 0 {
					fmt.Fprintln(out, "  - (none)")
					continue
				}
				for _, it := range sec.Items {
					box := "[ ]"
					if it.Done {
						box = "[x]"
					}
					fmt.Fprintf(out, "  %d. %s [%s] %s  (%s)\n", it.Index+1, box, it.Priority, it.Text, it.Timestamp)
				}
			}
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle done for item n (as numbered by ls)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			changed, err := app.state.ToggleDone(n - 1)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "no item #%d for %s\n", n, app.state.Date())
				return nil
			}
			it := app.state.Items()[n-1]
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s\n", n, humanDone(it.Done), it.Text)
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n>",
		Aliases: []string{"delete"},
		Short:   "Delete item n (as numbered by ls)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			items := app.state.Items()
			changed, err := app.state.DeleteItem(n - 1)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "no item #%d for %s\n", n, app.state.Date())
				return nil
			}
			app.log.Info("item deleted", "date", app.state.Date(), "id", items[n-1].ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d: %s\n", n, items[n-1].Text)
			return nil
		},
	}
}

func newNameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "name [name...]",
		Short: "Show or set the name on the date's standup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.state.Name())
				return nil
			}
			name := strings.Join(args, " ")
			if err := app.state.SetName(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name for %s: %s\n", app.state.Date(), name)
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item for the date (the name is kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Clear all items for %s? [y/N] ", app.state.Date())
				answer, _ := bufio.NewReader(app.input()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled")
					return nil
				}
			}
			if err := app.state.ClearAll(); err != nil {
				return err
			}
			app.log.Info("items cleared", "date", app.state.Date())
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared all items for %s\n", app.state.Date())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("not a number: " + s)
	}
	return n, nil
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
