package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/observability"
	"github.com/kelplab/custody/pkg/server"
)

type serveOpts struct {
	addr    string
	logo    string
	catalog string
	noCache bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form",
		Long: `Run the web form. Browsing to the address shows the Chain-of-Custody form;
submitting it downloads the PDF. The JSON API lives under /api.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default addr)")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "header logo image (default logo_path)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalogue file, .toml or .yaml (default built-in)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, pick(opts.catalog, c.cfg.CatalogPath), opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	logoPath := pick(opts.logo, c.cfg.LogoPath)
	srv := server.New(runner, server.Config{
		Addr:           pick(opts.addr, c.cfg.Addr),
		RequestTimeout: c.cfg.RequestTimeout,
		RowsPerPage:    c.cfg.RowsPerPage,
		Logo:           c.loadLogo(logoPath),
		LogoName:       filepath.Base(logoPath),
	}, logger)

	printInfo("Serving the custody form on http://%s", srv.Addr())
	printDetail("cache: %s", c.cfg.CacheBackend)
	return srv.ListenAndServe(ctx)
}
