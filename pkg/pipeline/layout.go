package pipeline

import (
	"encoding/json"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/render"
	"github.com/kelplab/custody/pkg/render/form"
)

// PlanDocument is the JSON artifact: the analysis-column header of a form
// as it is drawn on the PDF.
type PlanDocument struct {
	COCID       string         `json:"coc_id,omitempty"`
	CatalogHash string         `json:"catalog_hash"`
	Header      *layout.Header `json:"header"`
}

// Plan computes the analysis-column header of f with the Helvetica metrics
// used by the PDF renderer.
func Plan(f *coc.Form, cat *catalog.Catalog) *layout.Header {
	m := render.FontMeasurer{Canvas: render.NewPDF()}
	return form.Plan(f, cat, m, layout.FitOptions{})
}

// MarshalPlan encodes a header as an indented PlanDocument.
func MarshalPlan(f *coc.Form, cat *catalog.Catalog, h *layout.Header) ([]byte, error) {
	data, err := json.MarshalIndent(PlanDocument{
		COCID:       f.COCID,
		CatalogHash: cat.Hash(),
		Header:      h,
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode column plan")
	}
	return append(data, '\n'), nil
}
