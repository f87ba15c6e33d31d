package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"standup/internal/config"
	"standup/internal/export"
	"standup/internal/logging"
	"standup/internal/standup"
	"standup/internal/storage"
	"standup/internal/ui"
)

// App carries persistent-flag values and the resources opened for a run.
type App struct {
	ConfigPath string
	Date       string

	cfg     config.Config
	store   *storage.Store
	state   *standup.State
	log     *slog.Logger
	logFile io.Closer

	// Overridable in tests.
	clip  export.Clipboard
	stdin io.Reader
	runUI func(*App) error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.clip == nil {
		app.clip = export.SystemClipboard{}
	}
	if app.runUI == nil {
		app.runUI = func(a *App) error {
			return ui.Run(a.state, a.store, a.clip, a.cfg, a.log)
		}
	}

	cmd := &cobra.Command{
		Use:          "standup",
		Short:        "Daily standup notes: yesterday, today, blockers",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI for today
  standup

  # Scriptable commands
  standup add today "Review PR" --priority high
  standup ls --date 2024-01-02
  standup copy
  standup export --dir ~/Desktop
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !needsStore(cmd) {
			return nil
		}
		return app.open()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr(config.EnvConfigPath, ""), "Path to config.toml (default: user config dir)")
	cmd.PersistentFlags().StringVar(&app.Date, "date", envOr("STANDUP_DATE", ""), "Date to work on, YYYY-MM-DD (default: today)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newNameCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newCopyCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newDatesCmd(app))

	app.closeAfterRun(cmd)
	return cmd
}

// needsStore is false for cobra's own commands, which must not create a
// config file or open the database.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// closeAfterRun wraps every RunE so the store is closed even when the
// command fails; cobra skips post-run hooks on error.
func (a *App) closeAfterRun(root *cobra.Command) {
	cmds := append([]*cobra.Command{root}, root.Commands()...)
	for _, c := range cmds {
		run := c.RunE
		if run == nil {
			continue
		}
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := a.close(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}
}

func (a *App) open() error {
	path := a.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log, a.logFile = logging.New(cfg.LogPath)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		a.logFile.Close()
		return err
	}
	a.store = store
	a.state = standup.New(store)
	if _, err := a.state.SetDate(a.Date); err != nil {
		a.close()
		return err
	}
	return nil
}

func (a *App) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
	return err
}

func (a *App) input() io.Reader {
	if a.stdin != nil {
		return a.stdin
	}
	return os.Stdin
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
