package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kelplab/custody/pkg/buildinfo"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.indexData()); err != nil {
		s.loggerFrom(r.Context()).Error("render index", "err", err)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidForm, err, "read form submission"))
		return
	}
	f := FormFromValues(r.PostForm)
	s.render(w, r, f, pipeline.FormatPDF)
}

func (s *Server) handleAPICOC(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPDF
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.decodeForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, f, format)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	f, err := s.decodeForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.PlanJSON(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Write(data)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Catalog)
}

func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request) (*coc.Form, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return pipeline.ParseForm(body, r.Header.Get("Content-Type"))
}

// render runs the pipeline for one format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, f *coc.Form, format string) {
	now := s.now()
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Form:        f,
		Formats:     []string{format},
		RowsPerPage: s.cfg.RowsPerPage,
		Logo:        s.cfg.Logo,
		LogoName:    s.cfg.LogoName,
		Now:         now,
		Logger:      s.loggerFrom(r.Context()),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var filename string
	if format == pipeline.FormatPDF {
		if filename, err = coc.DownloadName(f, now); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	h := w.Header()
	h.Set("X-COC-ID", res.COCID)
	h.Set("X-Cache", cacheStatus(res.CacheHit))
	switch format {
	case pipeline.FormatPDF:
		h.Set("Content-Type", "application/pdf")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	case pipeline.FormatJSON:
		h.Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// writeError answers with the JSON error envelope. Errors without a code
// are reported as internal errors without their details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.loggerFrom(r.Context())

	var maxErr *http.MaxBytesError
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	case stderrors.As(err, &maxErr):
		err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxErr.Limit)
	}

	status := errors.HTTPStatus(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "err", err)
	} else {
		logger.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
