package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/games.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port             string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	SourcesFile      string `long:"sources-file" env:"SOURCES_FILE" description:"YAML file defining feed sources (built-in defaults when unset)"`
	StaticDir        string `long:"static-dir" env:"STATIC_DIR" default:"./static" description:"Directory with static assets to serve (skipped when absent)"`
	PopulateSchedule string `long:"populate-schedule" env:"POPULATE_SCHEDULE" description:"Cron spec for automatic populate runs, e.g. '@every 6h' (disabled when unset)"`

	// HTTP client configuration
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed fetch timeout in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Game Catalog/1.0" description:"User agent string for feed requests"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		Port:             raw.Port,
		SourcesFile:      raw.SourcesFile,
		StaticDir:        raw.StaticDir,
		PopulateSchedule: raw.PopulateSchedule,
		FetchTimeout:     raw.FetchTimeout,
		UserAgent:        raw.UserAgent,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
