package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kelplab/custody/pkg/cache"
	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/observability"
	"github.com/kelplab/custody/pkg/render/form"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Catalog *catalog.Catalog
	Logger  *log.Logger
	// TTL overrides the cache lifetime of artifacts and plans when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil catalogue the embedded one.
func NewRunner(c cache.Cache, keyer cache.Keyer, cat *catalog.Catalog, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Catalog: cat, Logger: logger}
}

// Execute plans and renders opts.Form. The submitted form is not modified;
// an identifier is assigned to a copy when it has none. Such a form bypasses
// the artifact cache, since its fresh identifier is printed on every page.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	f := *opts.Form
	cacheable := strings.TrimSpace(f.COCID) != ""
	f.EnsureID(opts.Now, nil)
	result := &Result{
		COCID:     f.COCID,
		Artifacts: make(map[string][]byte),
		Stats:     Stats{Samples: len(f.Samples)},
	}

	// Stage 1: Plan
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, f.COCID, len(f.Samples))
	layoutStart := time.Now()
	header := Plan(&f, r.Catalog)
	result.Header = header
	result.Stats.Columns = len(header.Columns)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, f.COCID, len(header.Columns), result.Stats.LayoutTime, nil)

	opts.Logger.Info("planned columns",
		"coc_id", f.COCID,
		"samples", len(f.Samples),
		"columns", len(header.Columns),
		"duration", result.Stats.LayoutTime)
	if len(header.Skipped) > 0 {
		opts.Logger.Warn("unknown analysis categories ignored", "categories", header.Skipped)
	}
	if header.Cramped {
		opts.Logger.Warn("analysis columns are narrower than the minimum", "columns", len(header.Columns))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Render
	hooks.OnRenderStart(ctx, f.COCID, opts.Formats)
	renderStart := time.Now()
	var (
		rendered *Rendered
		hit      bool
		err      error
	)
	if cacheable {
		rendered, hit, err = r.renderWithCache(ctx, &f, opts, result)
	} else {
		rendered, err = Render(&f, r.Catalog, result.Header, opts)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		hooks.OnRenderComplete(ctx, f.COCID, opts.Formats, 0, result.Stats.RenderTime, err)
		return nil, err
	}
	hooks.OnRenderComplete(ctx, f.COCID, opts.Formats, rendered.Pages, result.Stats.RenderTime, nil)

	result.Artifacts = rendered.Artifacts
	result.Pages = rendered.Pages
	result.Warnings = rendered.Warnings
	result.CacheHit = hit
	for _, w := range rendered.Warnings {
		opts.Logger.Warn(w)
	}
	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"pages", rendered.Pages,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) renderWithCache(ctx context.Context, f *coc.Form, opts Options, result *Result) (*Rendered, bool, error) {
	formHash, err := f.Hash()
	if err != nil {
		return nil, false, err
	}
	catHash := r.Catalog.Hash()
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(formHash, catHash, opts.ArtifactKeyOpts(format))
	}

	if !opts.Refresh {
		cached := make(map[string][]byte)
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keys[format])
			if err != nil {
				opts.Logger.Debug("cache read failed", "format", format, "err", err)
			}
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			cached[format] = data
		}
		if len(cached) == len(opts.Formats) {
			return &Rendered{
				Artifacts: cached,
				Pages:     form.FormPages(len(f.Samples), opts.RowsPerPage) + 1,
			}, true, nil
		}
	}

	rendered, err := Render(f, r.Catalog, result.Header, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered.Artifacts {
		if err := r.Cache.Set(ctx, keys[format], data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// PlanJSON returns the encoded column plan of f, cached under the plan key.
// It backs previews, so f is used as submitted and keeps an empty ID.
func (r *Runner) PlanJSON(ctx context.Context, f *coc.Form) ([]byte, bool, error) {
	if f == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "form is required")
	}
	formHash, err := f.Hash()
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.PlanKey(formHash, r.Catalog.Hash())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "plan")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "plan")

	data, err := MarshalPlan(f, r.Catalog, Plan(f, r.Catalog))
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLPlan)); err == nil {
		observability.Cache().OnCacheSet(ctx, "plan", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
