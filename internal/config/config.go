package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "standup.db"
	DefaultExportDir      = "exports"
	EnvConfigPath         = "STANDUP_CONFIG"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	NextSection string `toml:"next_section"`
	PrevSection string `toml:"prev_section"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Priority    string `toml:"priority"`
	EditName    string `toml:"edit_name"`
	EditDate    string `toml:"edit_date"`
	PrevDay     string `toml:"prev_day"`
	NextDay     string `toml:"next_day"`
	Copy        string `toml:"copy"`
	Export      string `toml:"export"`
	ClearAll    string `toml:"clear_all"`
	ToggleTheme string `toml:"toggle_theme"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	ExportDir       string `toml:"export_dir"`
	LogPath         string `toml:"log_path"`
	DefaultPriority string `toml:"default_priority"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath honours $STANDUP_CONFIG, then the user config dir, then
// the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "standup", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = DefaultExportDir
	}
	if cfg.DefaultPriority == "" {
		cfg.DefaultPriority = "medium"
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	return cfg.resolve(path), nil
}

// resolve anchors relative paths at the config file's directory.
func (c Config) resolve(configPath string) Config {
	base := filepath.Dir(configPath)
	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DBPath = anchor(c.DBPath)
	c.ExportDir = anchor(c.ExportDir)
	c.LogPath = anchor(c.LogPath)
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.NextSection, d.NextSection)
	fill(&k.PrevSection, d.PrevSection)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Priority, d.Priority)
	fill(&k.EditName, d.EditName)
	fill(&k.EditDate, d.EditDate)
	fill(&k.PrevDay, d.PrevDay)
	fill(&k.NextDay, d.NextDay)
	fill(&k.Copy, d.Copy)
	fill(&k.Export, d.Export)
	fill(&k.ClearAll, d.ClearAll)
	fill(&k.ToggleTheme, d.ToggleTheme)
	return k
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		ExportDir:       DefaultExportDir,
		LogPath:         "",
		DefaultPriority: "medium",
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			NextSection: "tab",
			PrevSection: "shift+tab",
			Toggle:      " ",
			Delete:      "d",
			Confirm:     "enter",
			Cancel:      "esc",
			Priority:    "ctrl+p",
			EditName:    "n",
			EditDate:    "D",
			PrevDay:     "[",
			NextDay:     "]",
			Copy:        "c",
			Export:      "x",
			ClearAll:    "C",
			ToggleTheme: "T",
		},
	}
}
