package form

import (
	"fmt"
	"strings"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/render"
)

// Horizontal grid, left to right.
const (
	lm   = 18.0
	rm   = 774.0
	col2 = 237.0
	acol = 476.0

	stripW   = 10.0
	commentW = 84.0
	pncW     = 20.0

	analysisWidth = rm - acol - stripW - commentW - pncW
	kelpStripX    = acol + analysisWidth
	sidebarX      = kelpStripX + stripW
	pncX          = sidebarX + commentW
)

// Vertical grid, top to bottom.
const (
	hdrTop    = 588.0
	hdrBottom = 556.0
	secH      = 8.0

	clientRowH   = 10.0
	clientTop    = hdrBottom - secH
	clientBottom = clientTop - 5*clientRowH

	projectRowH   = 19.0
	projectTop    = clientBottom - secH
	projectBottom = projectTop - 4*projectRowH

	regRowH      = 14.5
	tzBottom     = projectBottom - regRowH
	regBottom    = tzBottom - 4*regRowH
	legendBottom = regBottom - 10

	tallTop    = clientBottom
	tallBottom = legendBottom - 32

	dataTop    = tallBottom - secH
	dataBottom = bottomTop
	dataHeight = dataTop - dataBottom

	bottomTop    = 101.5
	remarksH     = 20.0
	receivingH   = 11.0
	relinquishH  = 10.0
	formBottom   = bottomTop - secH - remarksH - receivingH - 3*relinquishH
	disclaimerY  = formBottom - 7
	footerLineY  = 18.0
	footerTextY  = 10.0
	kelpBoxX     = 620.0
	labRowH      = 18.0
	checkboxSize = 6.0
)

// MaxRowsPerPage bounds Options.RowsPerPage so rows stay legible.
const MaxRowsPerPage = 20

// Font sizes.
const (
	fsTitle  = 11.0
	fsLabel  = 6.5
	fsValue  = 8.0
	fsHeader = 6.5
	fsLegend = 5.5
	fsFooter = 5.5
)

var (
	kelpBlue  = render.Hex("#1F4E79")
	sectionBG = render.Hex("#E8ECF0")
	rowShade  = render.Hex("#F0F4F8")

	penOuter   = render.Pen{Width: 1.0}
	penSection = render.Pen{Width: 0.5}
	penInner   = render.Pen{Width: 0.3}

	labelStyle  = render.TextStyle{Size: fsLabel, Bold: true}
	valueStyle  = render.TextStyle{Size: fsValue}
	legendStyle = render.TextStyle{Size: fsLegend}
)

// Legends printed in the analysis-requested box.
var legends = []string{
	"Container Size: (1) 1L, (2) 500mL, (3) 250mL, (4) 125mL, (5) 100mL, (6) Other",
	"Preservative: (1) None, (2) HNO3, (3) H2SO4, (4) HCl, (5) NaOH, (6) Zn Acetate, (7) NaHSO4, (8) Sod.Thiosulfate, (9) Ascorbic Acid, (10) MeOH, (11) Other",
	"Mark an X for each analysis requested per sample. Columns list analytes by symbol with the method in parentheses.",
}

// Disclaimer printed under the form.
const Disclaimer = "Submitting a sample via this chain of custody constitutes acknowledgment and acceptance of the KELP's Terms and Conditions"

type sampleColumn struct {
	x0, x1 float64
	label  string
	value  func(coc.Sample) string
}

var sampleColumns = []sampleColumn{
	{lm, 178.1, "CUSTOMER SAMPLE ID", func(s coc.Sample) string { return s.ID }},
	{178.1, 209.6, "Matrix *", func(s coc.Sample) string { return strings.ToUpper(s.Matrix) }},
	{209.6, 237.4, "Comp / Grab", func(s coc.Sample) string { return s.CompGrab }},
	{237.4, 291.7, "Date", func(s coc.Sample) string { return s.StartDate }},
	{291.7, 327.0, "Time", func(s coc.Sample) string { return s.StartTime }},
	{327.0, 377.2, "Date", func(s coc.Sample) string { return s.EndDate }},
	{377.2, 412.2, "Time", func(s coc.Sample) string { return s.EndTime }},
	{412.2, 432.1, "# Cont.", func(s coc.Sample) string { return s.Containers }},
	{432.1, 455.2, "Res. Cl", func(s coc.Sample) string { return s.ResidualCl }},
	{455.2, acol, "Units", func(s coc.Sample) string { return s.ResidualClUnits }},
}

// page carries the state shared by every page of one document.
type page struct {
	c      render.Canvas
	f      *coc.Form
	cat    *catalog.Catalog
	header *layout.Header
	opts   Options
	number int
	total  int
}

func (p *page) drawForm(samples []coc.Sample, offset int) string {
	c := p.c
	c.Rect(lm, formBottom, rm-lm, hdrTop-formBottom, penOuter)

	warning := p.drawHeader()
	p.drawClient()
	p.drawLegends()
	p.drawProject()
	p.drawRegulatory()
	p.drawTableHeader()
	p.drawAnalysisColumns()
	p.drawSidebar()
	p.drawRows(samples, offset)
	p.drawBottom()
	c.TextCentered(lm, disclaimerY, rm-lm, Disclaimer, render.TextStyle{Size: fsFooter})
	p.footer()
	return warning
}

func (p *page) footer() {
	c := p.c
	doc := p.opts.Document
	c.Line(lm, footerLineY, rm, footerLineY, penInner)
	left := fmt.Sprintf("%s  |  Version %s  |  Effective: %s  |  COC ID: %s", doc.ID, doc.Version, doc.Effective, p.f.COCID)
	c.Text(lm, footerTextY, left, render.TextStyle{Size: fsFooter})
	c.TextRight(rm, footerTextY, fmt.Sprintf("CONTROLLED DOCUMENT  |  Page %d of %d", p.number, p.total), render.TextStyle{Size: fsFooter})
}

func (p *page) sectionLabel(x, y, w float64, text string) {
	p.c.FillRect(x, y, w, secH, sectionBG)
	p.c.Rect(x, y, w, secH, penInner)
	p.c.Text(x+3, y+2, text, render.TextStyle{Size: fsLabel, Bold: true, Color: kelpBlue})
}

// inline draws a single-line cell with the value following its label.
func (p *page) inline(x, y, w, h float64, label, value string) {
	p.c.Rect(x, y, w, h, penInner)
	p.c.Text(x+2, y+3, label, labelStyle)
	lw := p.c.StringWidth(label, labelStyle) + 4
	fit(p.c, x+2+lw, y+2.5, value, render.TextStyle{Size: 7}, w-lw-4)
}

// stacked draws a cell with the label above its value.
func (p *page) stacked(x, y, w, h float64, label, value string) {
	p.c.Rect(x, y, w, h, penInner)
	fit(p.c, x+2, y+h-7, label, labelStyle, w-4)
	fit(p.c, x+3, y+3.5, value, valueStyle, w-6)
}

// option draws a checkbox followed by its label and returns the x after it.
func (p *page) option(x, y float64, label string, checked bool) float64 {
	p.c.Checkbox(x, y, checkboxSize, checked)
	p.c.Text(x+checkboxSize+2, y+0.8, label, render.TextStyle{Size: fsLabel})
	return x + checkboxSize + 2 + p.c.StringWidth(label, render.TextStyle{Size: fsLabel})
}

func (p *page) drawHeader() string {
	c := p.c
	c.Line(lm, hdrBottom, rm, hdrBottom, penSection)
	warning := p.logo()

	titleX := lm + 86
	titleW := kelpBoxX - titleX
	c.TextCentered(titleX, hdrTop-14, titleW, "CHAIN-OF-CUSTODY RECORD", render.TextStyle{Size: fsTitle, Bold: true, Color: kelpBlue})
	c.TextCentered(titleX, hdrTop-25, titleW, "Chain-of-Custody is a LEGAL DOCUMENT - Complete all relevant fields", render.TextStyle{Size: fsLabel})

	c.Rect(kelpBoxX, hdrBottom, rm-kelpBoxX, hdrTop-hdrBottom, penSection)
	p.sectionLabel(kelpBoxX, hdrTop-secH, rm-kelpBoxX, "KELP USE ONLY")
	rowH := (hdrTop - secH - hdrBottom) / 2
	p.inline(kelpBoxX, hdrBottom+rowH, rm-kelpBoxX, rowH, "Ordering ID:", p.f.Lab.OrderingID)
	p.inline(kelpBoxX, hdrBottom, rm-kelpBoxX, rowH, "COC ID:", p.f.COCID)
	return warning
}

func (p *page) drawClient() {
	cl, s := p.f.Client, p.f.Sampling
	p.sectionLabel(lm, clientTop, acol-lm, "CLIENT INFORMATION")
	rows := [][4]string{
		{"Company Name:", cl.Company, "Contact/Report To:", cl.Contact},
		{"Street Address:", cl.Address, "Phone #:", cl.Phone},
		{"Container Size:", s.ContainerSize, "E-Mail:", cl.Email},
		{"Preservative:", s.Preservative, "Cc E-Mail:", cl.CCEmail},
		{"Customer Project #:", p.f.Project.Number, "Invoice To:", cl.InvoiceTo},
	}
	for i, r := range rows {
		y := clientTop - float64(i+1)*clientRowH
		p.inline(lm, y, col2-lm, clientRowH, r[0], r[1])
		p.inline(col2, y, acol-col2, clientRowH, r[2], r[3])
	}
}

func (p *page) drawLegends() {
	c := p.c
	p.sectionLabel(acol, clientTop, rm-acol, "ANALYSIS REQUESTED")
	c.Rect(acol, clientBottom, rm-acol, clientTop-clientBottom, penSection)
	y := clientTop - 7
	for _, l := range legends {
		for _, line := range wrapText(c, l, rm-acol-6, legendStyle) {
			if y < clientBottom+2 {
				return
			}
			c.Text(acol+3, y, line, legendStyle)
			y -= fsLegend + 1.5
		}
	}
}

func (p *page) drawProject() {
	pr, s := p.f.Project, p.f.Sampling
	p.sectionLabel(lm, projectTop, acol-lm, "PROJECT DETAILS")
	rows := [][4]string{
		{"Project Name:", pr.Name, "Invoice E-mail:", p.f.Client.InvoiceEmail},
		{"Site Collection Info/Facility ID:", pr.SiteInfo, "Purchase Order #:", pr.PurchaseOrder},
		{"County / State origin of sample(s):", pr.CountyState, "Quote #:", pr.QuoteNumber},
		{"Regulatory Program (DW, RCRA, etc.):", s.RegulatoryProgram, "DW PWSID # or WW Permit #:", s.PWSID},
	}
	for i, r := range rows {
		y := projectTop - float64(i+1)*projectRowH
		p.stacked(lm, y, col2-lm, projectRowH, r[0], r[1])
		p.stacked(col2, y, acol-col2, projectRowH, r[2], r[3])
	}
}

func (p *page) drawRegulatory() {
	c, s := p.c, p.f.Sampling

	c.Rect(lm, tzBottom, acol-lm, regRowH, penInner)
	c.Text(lm+3, tzBottom+4.5, "Sample Collection Time Zone:", labelStyle)
	x := 140.0
	for _, tz := range coc.TimeZones {
		p.option(x, tzBottom+4, tz, chosen(s.TimeZone, tz))
		x += 30
	}

	// Data deliverables, two options per line.
	ddW := 130.0
	c.Rect(lm, regBottom, ddW, tzBottom-regBottom, penInner)
	c.Text(lm+3, tzBottom-9, "Data Deliverables:", labelStyle)
	for i, d := range coc.DataDeliverables {
		ox := lm + 6 + float64(i%2)*62
		oy := tzBottom - 24 - float64(i/2)*14
		p.option(ox, oy, d, chosen(s.DataDeliverable, d))
	}

	rx := lm + ddW
	rw := acol - rx
	row := func(i int) float64 { return tzBottom - float64(i+1)*regRowH }
	for i := 0; i < 4; i++ {
		c.Rect(rx, row(i), rw, regRowH, penInner)
	}

	y := row(0) + 4
	c.Text(rx+3, y+0.5, "Reportable:", labelStyle)
	x = rx + 125
	for _, v := range coc.YesNo {
		x = p.option(x, y, v, chosen(s.Reportable, v)) + 12
	}

	y = row(1) + 4
	c.Text(rx+3, y+0.5, "Rush (Pre-approval required):", labelStyle)
	rush := coc.RushOptions[1 : len(coc.RushOptions)-1]
	for i, r := range rush {
		p.option(rx+125+float64(i)*40, y, r, chosen(s.Rush, r))
	}

	y = row(2) + 4
	standard := coc.RushOptions[0]
	p.option(rx+6, y, standard, s.Rush == "" || chosen(s.Rush, standard))
	fiveDay := coc.RushOptions[len(coc.RushOptions)-1]
	p.option(rx+125, y, fiveDay, chosen(s.Rush, fiveDay))

	y = row(3) + 4
	c.Text(rx+3, y+0.5, "Field Filtered (if applicable):", labelStyle)
	x = rx + 125
	for _, v := range coc.YesNo {
		x = p.option(x, y, v, chosen(s.FieldFiltered, v)) + 12
	}

	c.Rect(lm, legendBottom, acol-lm, regBottom-legendBottom, penInner)
	var names []string
	for _, m := range p.cat.Matrices() {
		names = append(names, m.Label())
	}
	fit(c, lm+3, legendBottom+3.5, "* Matrix: "+strings.Join(names, ", "), legendStyle, acol-lm-6)
}

func (p *page) drawTableHeader() {
	c := p.c
	h := legendBottom - tallBottom
	c.FillRect(lm, tallBottom, acol-lm, h, sectionBG)
	c.Rect(lm, tallBottom, acol-lm, h, penSection)

	mid := tallBottom + h/2
	groups := []struct {
		x0, x1 float64
		label  string
	}{
		{237.4, 327.0, "COMPOSITE START"},
		{327.0, 412.2, "COLLECTED OR COMPOSITE END"},
	}
	for _, g := range groups {
		c.Line(g.x0, mid, g.x1, mid, penInner)
		size := fitSize(c, g.label, render.TextStyle{Size: fsHeader, Bold: true}, g.x1-g.x0-4)
		c.TextCentered(g.x0, mid+h/4-size/3, g.x1-g.x0, g.label, render.TextStyle{Size: size, Bold: true})
	}
	for i, col := range sampleColumns {
		if i > 0 {
			c.Line(col.x0, tallBottom, col.x0, legendBottom, penInner)
		}
		st := render.TextStyle{Size: fsHeader, Bold: true}
		st.Size = fitSize(c, col.label, st, col.x1-col.x0-3)
		y := tallBottom + h/2 - st.Size/3
		if col.x0 >= 237.4 && col.x1 <= 412.2 {
			y = tallBottom + h/4 - st.Size/3
		}
		c.TextCentered(col.x0, y, col.x1-col.x0, col.label, st)
	}
}

func (p *page) drawAnalysisColumns() {
	c, h := p.c, p.header
	for i := range h.Columns {
		b := h.Box(i)
		c.Rect(b.X, b.Y, b.W, b.H, penInner)
		vf := h.Fits[i]
		for _, run := range vf.Lines {
			c.TextRotated(run.X, run.Y, run.Text, render.TextStyle{Size: run.Size, Bold: run.Font == layout.Bold})
		}
		if m := vf.Method; m != nil {
			c.TextRotated(m.X, m.Y, m.Text, render.TextStyle{Size: m.Size})
		}
	}
}

func (p *page) drawSidebar() {
	c, lab := p.c, p.f.Lab
	h := tallTop - tallBottom

	c.FillRect(kelpStripX, tallBottom, stripW, h, sectionBG)
	c.Rect(kelpStripX, tallBottom, stripW, h, penInner)
	c.TextRotated(kelpStripX+7.5, tallBottom+4, "KELP USE ONLY", render.TextStyle{Size: fsLegend, Bold: true, Color: kelpBlue})

	fields := [][2]string{
		{"Project Mgr.:", lab.ProjectManager},
		{"AcctNum / Client ID:", lab.AccountNumber},
		{"Table #:", lab.TableNumber},
		{"Profile / Template:", lab.ProfileTemplate},
		{"Prelog / Bottle Ord. ID:", lab.PrelogID},
	}
	for i, f := range fields {
		y := tallTop - float64(i+1)*labRowH
		c.Rect(sidebarX, y, commentW, labRowH, penInner)
		fit(c, sidebarX+2, y+labRowH-6.5, f[0], render.TextStyle{Size: fsLegend, Bold: true}, commentW-4)
		fit(c, sidebarX+3, y+3, f[1], render.TextStyle{Size: 7}, commentW-6)
	}
	commentTop := tallTop - float64(len(fields))*labRowH
	c.Rect(sidebarX, tallBottom, commentW, commentTop-tallBottom, penInner)
	c.TextCentered(sidebarX, tallBottom+(commentTop-tallBottom)/2, commentW, "Sample Comment", labelStyle)

	c.Rect(pncX, tallBottom, pncW, h, penInner)
	pnc := render.TextStyle{Size: 5}
	c.TextRotated(pncX+8, tallBottom+4, "Preservation non-conformance", pnc)
	c.TextRotated(pncX+15, tallBottom+4, "identified for sample", pnc)
}

// rowHeight spreads the configured rows over the sample table.
func (p *page) rowHeight() float64 {
	return dataHeight / float64(p.opts.RowsPerPage)
}

func (p *page) drawRows(samples []coc.Sample, offset int) {
	c, h := p.c, p.header
	p.sectionLabel(lm, dataTop, rm-lm, "SAMPLE INFORMATION")
	rowH := p.rowHeight()
	size := min(fsValue, rowH*0.5)

	for r := 0; r < p.opts.RowsPerPage; r++ {
		y := dataTop - float64(r+1)*rowH
		if r%2 == 1 {
			c.FillRect(lm, y, rm-lm, rowH, rowShade)
		}
		c.Line(lm, y, rm, y, penInner)
		c.Text(lm+2, y+rowH/2-2, fmt.Sprintf("%d", offset+r+1), render.TextStyle{Size: fsLegend, Color: kelpBlue})
		if r >= len(samples) {
			continue
		}
		s := samples[r]
		base := y + rowH/2 - size/3
		for i, col := range sampleColumns {
			st := render.TextStyle{Size: size}
			v := col.value(s)
			if i == 0 {
				fit(c, col.x0+12, base, v, st, col.x1-col.x0-14)
				continue
			}
			st.Size = fitSize(c, v, st, col.x1-col.x0-3)
			c.TextCentered(col.x0, base, col.x1-col.x0, v, st)
		}
		for _, i := range h.Marks(s) {
			c.TextCentered(h.Bounds[i], base, h.Bounds[i+1]-h.Bounds[i], "X", render.TextStyle{Size: size, Bold: true})
		}
		fit(c, sidebarX+2, base, s.Comment, render.TextStyle{Size: min(size, 6.5)}, commentW-4)
	}

	xs := []float64{kelpStripX, sidebarX, pncX}
	for _, col := range sampleColumns[1:] {
		xs = append(xs, col.x0)
	}
	xs = append(xs, h.Bounds...)
	for _, x := range xs {
		c.Line(x, dataBottom, x, dataTop, penInner)
	}
}

func (p *page) drawBottom() {
	c, f := p.c, p.f
	p.sectionLabel(lm, bottomTop-secH, rm-lm, "ADDITIONAL INFORMATION")

	remarksY := bottomTop - secH - remarksH
	half := (rm - lm) / 2
	p.stacked(lm, remarksY, half, remarksH, "Additional Instructions from KELP:", f.AdditionalInstructions)
	p.stacked(lm+half, remarksY, half, remarksH, "Customer Remarks / Special Conditions / Possible Hazards:", f.CustomerRemarks)

	recY := remarksY - receivingH
	rc := f.Receipt
	c.Rect(lm, recY, rm-lm, receivingH, penInner)
	p.inline(lm, recY, 130, receivingH, "# Coolers:", rc.Coolers)
	p.inline(lm+130, recY, 150, receivingH, "Thermometer ID:", rc.ThermometerID)
	p.inline(lm+280, recY, 120, receivingH, "Temp. (°C):", rc.Temperature)
	c.Text(lm+406, recY+3, "Sample(s) Received on Ice:", labelStyle)
	x := lm + 406 + c.StringWidth("Sample(s) Received on Ice:", labelStyle) + 6
	for _, v := range coc.YesNo {
		x = p.option(x, recY+2.5, v, chosen(rc.ReceivedOnIce, v)) + 10
	}

	custodyX := 562.0
	for i := 0; i < 3; i++ {
		y := recY - float64(i+1)*relinquishH
		p.inline(lm, y, 182, relinquishH, "Relinquished by / Company:", "")
		p.inline(200, y, 90, relinquishH, "Date/Time:", "")
		p.inline(290, y, 182, relinquishH, "Received by / Company:", "")
		p.inline(472, y, 90, relinquishH, "Date/Time:", "")
	}
	p.inline(custodyX, recY-relinquishH, rm-custodyX, relinquishH, "Tracking #:", rc.TrackingNumber)
	delivery := recY - 3*relinquishH
	c.Rect(custodyX, delivery, rm-custodyX, 2*relinquishH, penInner)
	c.Text(custodyX+2, delivery+relinquishH+3, "Delivered by:", labelStyle)
	for i, m := range coc.DeliveryMethods {
		ox := custodyX + 48 + float64(i%3)*52
		oy := delivery + relinquishH + 2 - float64(i/3)*relinquishH
		p.option(ox, oy, m, chosen(rc.DeliveryMethod, m))
	}
}
