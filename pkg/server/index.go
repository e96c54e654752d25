package server

import (
	"embed"
	"html/template"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"analyteValue": func(category, analyte string) string { return category + analyteSep + analyte },
}).ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Categories       []catalog.Category
	Matrices         []catalog.Matrix
	Rows             []int
	TimeZones        []string
	DataDeliverables []string
	RushOptions      []string
	DeliveryMethods  []string
	CompGrab         []string
	ResidualClUnits  []string
	YesNo            []string
	Defaults         coc.Sampling
	DefaultMatrix    string
}

func (s *Server) indexData() indexData {
	rows := make([]int, s.cfg.SampleRows)
	for i := range rows {
		rows[i] = i
	}
	return indexData{
		Categories:       s.runner.Catalog.Categories(),
		Matrices:         s.runner.Catalog.Matrices(),
		Rows:             rows,
		TimeZones:        coc.TimeZones,
		DataDeliverables: coc.DataDeliverables,
		RushOptions:      coc.RushOptions,
		DeliveryMethods:  coc.DeliveryMethods,
		CompGrab:         coc.CompGrabOptions,
		ResidualClUnits:  coc.ResidualClUnits,
		YesNo:            coc.YesNo,
		Defaults: coc.Sampling{
			TimeZone:        coc.DefaultTimeZone,
			Rush:            coc.DefaultRush,
			DataDeliverable: coc.DefaultDeliverable,
		},
		DefaultMatrix: coc.DefaultMatrix,
	}
}
