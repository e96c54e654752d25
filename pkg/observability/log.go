package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level
// structured log lines. Failures are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, cocID string, samples int) {
	h.logger.Debug("layout start", "coc_id", cocID, "samples", samples)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, cocID string, columns int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "coc_id", cocID, "err", err)
		return
	}
	h.logger.Debug("layout done", "coc_id", cocID, "columns", columns, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, cocID string, formats []string) {
	h.logger.Debug("render start", "coc_id", cocID, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, cocID string, formats []string, pages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "coc_id", cocID, "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "coc_id", cocID, "pages", pages, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
