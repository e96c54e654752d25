package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/buildinfo"
	"github.com/kelplab/custody/pkg/cache"
	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/config"
	"github.com/kelplab/custody/pkg/pipeline"
)

const appName = "custody"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command output (tables, exports, paths).
	out     io.Writer
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "custody renders KELP Chain-of-Custody forms",
		Long: `custody turns a sample submission (client, project, samples and the analytes
requested for each) into the KELP Chain-of-Custody PDF, fitting the requested
analyses into the form's vertical analysis columns.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(LogDebug)
			}
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ~/.custody/config.yaml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, catalogPath string, noCache bool) (*pipeline.Runner, error) {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	var ch cache.Cache = cache.NewNullCache()
	if !noCache {
		ch, err = c.openCache(ctx)
		if err != nil {
			return nil, err
		}
	}
	var keyer cache.Keyer
	if c.cfg.CachePrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.CachePrefix)
	}
	r := pipeline.NewRunner(ch, keyer, cat, c.Logger)
	r.TTL = c.cfg.CacheTTL
	return r, nil
}

// openCache opens the cache_backend from the configuration. An unreachable
// Redis degrades to no caching.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.cfg.CacheBackend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.RedisAddr,
			Password: c.cfg.RedisPassword,
			DB:       c.cfg.RedisDB,
		})
		if errors.Is(err, cache.ErrUnavailable) {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", c.cfg.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns cache_dir, or the per-user cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.CacheDir != "" {
		return c.cfg.CacheDir, nil
	}
	return cache.DefaultDir()
}

// loadCatalog reads a catalogue file, or returns the built-in one for an
// empty path.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// loadLogo reads the header logo. A missing file only costs the logo.
func (c *CLI) loadLogo(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.Logger.Warn("logo not loaded, rendering without it", "path", path, "err", err)
		return nil
	}
	return data
}

// pick returns flag when set, otherwise the configured value.
func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
