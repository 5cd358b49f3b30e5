// Package cli implements the terraview command-line interface.
//
// # Commands
//
//   - browse: open the terminal noise browser
//   - plot: fetch (or load) noise and render it to SVG, PNG, JSON or text
//   - status: probe the noise service
//   - cache: manage the response cache
//   - config: show the configuration
//
// All commands support --verbose (-v) for debug logging. The logger travels
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"terraview/internal/cache"
	"terraview/internal/config"
	"terraview/internal/noiseapi"
)

const appName = "terraview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config

	// global overrides, applied on top of the config file
	endpoint string
	timeout  time.Duration
	retries  int
	noCache  bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "terraview browses procedural noise in the terminal",
		Long:         `terraview fetches sampled spectral and lattice noise from a noise service and draws it as a line plot (1D) or a lit height mesh (2D).`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/terraview/config.toml)")
	pf.StringVar(&c.endpoint, "endpoint", "", "noise endpoint URL")
	pf.DurationVar(&c.timeout, "timeout", 0, "request timeout")
	pf.IntVar(&c.retries, "retries", 0, "attempts per request")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())

	return root
}

// loadConfig reads the config file and applies flags that were set.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = c.endpoint
	}
	if flags.Changed("timeout") {
		cfg.Timeout.Duration = c.timeout
	}
	if flags.Changed("retries") {
		cfg.Retries = c.retries
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "endpoint", cfg.Endpoint, "cache", cfg.Cache.Backend)
	return nil
}

// newClient builds the noise client and the cache behind it. The caller
// closes the cache.
func (c *CLI) newClient(ctx context.Context) (*noiseapi.Client, cache.Cache) {
	store, err := cache.Open(ctx, c.cfg.Cache.Backend, c.cfg.Cache.Dir, c.cfg.Cache.RedisURL)
	if err != nil {
		loggerFromContext(ctx).Warn("cache unavailable, continuing without it", "err", err)
		store = cache.NewNullCache()
	}
	client := noiseapi.NewClient(c.cfg.Endpoint,
		noiseapi.WithTimeout(c.cfg.Timeout.Duration),
		noiseapi.WithCache(store, c.cfg.Cache.TTL.Duration),
		noiseapi.WithRetries(c.cfg.Retries),
		noiseapi.WithMaxSamples(c.cfg.MaxSamples),
		noiseapi.WithStatusPath(c.cfg.StatusPath),
		noiseapi.WithLogger(loggerFromContext(ctx)),
	)
	return client, store
}
