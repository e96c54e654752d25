package pipeline

import (
	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/render"
	"github.com/kelplab/custody/pkg/render/form"
)

// Rendered holds the artifacts of one render together with what the form
// renderer reported.
type Rendered struct {
	Artifacts map[string][]byte
	Pages     int
	Warnings  []string
}

// Render generates the requested formats for f. header is the plan already
// computed for f and is exported as-is for the JSON format.
func Render(f *coc.Form, cat *catalog.Catalog, header *layout.Header, opts Options) (*Rendered, error) {
	out := &Rendered{
		Artifacts: make(map[string][]byte),
		Pages:     form.FormPages(len(f.Samples), opts.RowsPerPage) + 1,
	}
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPDF:
			data, err = renderPDF(f, cat, opts, out)
		case FormatJSON:
			data, err = MarshalPlan(f, cat, header)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		out.Artifacts[format] = data
	}
	return out, nil
}

func renderPDF(f *coc.Form, cat *catalog.Catalog, opts Options, out *Rendered) ([]byte, error) {
	c := render.NewPDF(
		render.WithTitle(form.Title),
		render.WithCreator("custody"),
		render.WithCreationDate(opts.Now),
	)
	res, err := form.Render(c, f, cat, form.Options{
		Logo:        opts.Logo,
		LogoName:    opts.LogoName,
		RowsPerPage: opts.RowsPerPage,
	})
	if err != nil {
		return nil, err
	}
	out.Pages = res.Pages
	out.Warnings = append(out.Warnings, res.Warnings...)
	return c.Bytes()
}
