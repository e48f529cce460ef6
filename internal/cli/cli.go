package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/buildinfo"
	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/config"
	"github.com/matzehuels/graphweave/pkg/httputil"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphweave"

	// httpCacheDir is the response cache subdirectory of the cache directory.
	httpCacheDir = "http"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphweave turns graph fragments into force-directed layouts",
		Long: `Graphweave collects graph fragments from files or a graph service, merges them
into one graph, runs a force-directed simulation and writes a render-ready
layout. Layouts can be rendered to SVG, PNG, PDF or DOT, or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			uiOut = cmd.OutOrStdout()
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint()+")")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(def); err != nil {
			return nil
		}
		path = def
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

func defaultConfigHint() string {
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// httpCache returns the response cache used by the source client, or nil
// when caching is disabled.
func (c *CLI) httpCache(noCache bool) *httputil.Cache {
	if noCache || c.Config.Cache.Backend == config.BackendNone {
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil
	}
	hc, err := httputil.NewCache(filepath.Join(dir, httpCacheDir), c.Config.Cache.HTTPTTL.Std())
	if err != nil {
		c.Logger.Warn("response cache unavailable", "error", err)
		return nil
	}
	return hc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/graphweave/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the loaded configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Simulation: c.Config.Simulation.Force(),
		Scale:      c.Config.Projection.Scale,
		EdgeStyle:  c.Config.Projection.EdgeStyle(),
		Logger:     c.Logger,
	}
}

// layoutFlags are the per-run overrides of the [simulation] and
// [projection] tables.
type layoutFlags struct {
	seed  uint64
	ticks int
	scale float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "simulation ticks (default from config)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "projection scale (default from config)")
}

// apply overrides opts with the flags that were set explicitly.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("seed") {
		opts.Simulation.Seed = f.seed
	}
	if cmd.Flags().Changed("ticks") {
		opts.Simulation.Ticks = f.ticks
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = f.scale
	}
}
