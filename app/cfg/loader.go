package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Input/output paths
	OPMLPath   string `long:"opml" env:"OPML_PATH" default:"feed/config/sources.opml" description:"Path to the OPML document listing feed sources"`
	RulesPath  string `long:"rules" env:"RULES_PATH" default:"feed/config/rules.yml" description:"Path to the YAML rules document"`
	OutputPath string `long:"output" env:"OUTPUT_PATH" default:"feed/data/items.json" description:"Path to the JSON output file"`

	// Fetch configuration
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of concurrent feed fetch workers"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"20" description:"Per-request fetch timeout in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Rob-AntiFeed/1.0 (+https://g4dge.github.io/feed)" description:"User agent string for HTTP requests"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses configuration from command-line flags and environment
// variables. Returns (nil, nil) when help was requested.
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
		OPMLPath:     raw.OPMLPath,
		RulesPath:    raw.RulesPath,
		OutputPath:   raw.OutputPath,
		WorkerCount:  raw.WorkerCount,
		FetchTimeout: raw.FetchTimeout,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}

// GetFetchTimeout returns the per-request fetch timeout as time.Duration
func (c *Cfg) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.FetchTimeout) * time.Second
}
