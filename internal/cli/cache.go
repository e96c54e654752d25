package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/cache"
	"github.com/kelplab/custody/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached PDF and column plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.CacheBackend == config.CacheNone {
				printInfo("Caching is disabled (cache_backend: none)")
				return nil
			}
			ch, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %s cannot be cleared", c.cfg.CacheBackend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared the %s cache", c.cfg.CacheBackend)
			printDetail("%s", c.cacheLocation())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory, a Redis
// address or "disabled".
func (c *CLI) cacheLocation() string {
	switch c.cfg.CacheBackend {
	case config.CacheNone:
		return "disabled"
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d", c.cfg.RedisAddr, c.cfg.RedisDB)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return "unknown: " + err.Error()
	}
	return dir
}
