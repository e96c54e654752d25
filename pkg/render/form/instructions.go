package form

import "github.com/kelplab/custody/pkg/render"

type bullet struct{ label, text string }

type section struct {
	heading string
	intro   string
	items   []bullet
	closing string
}

var instructionColumns = [2][]section{
	{
		{heading: "1. Client & Project Information:", items: []bullet{
			{"Company Name:", "Your company's name."},
			{"Street Address:", "Your mailing address."},
			{"City, State, Zip:", "Your city, state, and zip code."},
			{"Contact/Report To:", "Person designated to receive results."},
			{"Customer Project # and Project Name:", "Your project reference number and name."},
			{"Site Collection Info/Facility ID:", "Project location or facility ID."},
			{"Time Zone:", "Sample collection time zone (e.g., AK, PT, MT, CT, ET) for accurate hold times."},
			{"Purchase Order #:", "Your PO number for invoicing, if applicable."},
			{"Invoice To:", "Contact person for the invoice."},
			{"Invoice Email:", "Email address for the invoice."},
			{"Phone #:", "Your contact phone number."},
			{"E-mail:", "Your email for correspondence and the final report."},
			{"Data Deliverable:", "Required data deliverable level (Standard, Level II III IV, Other)."},
			{"Field Filtered:", "Indicate if samples were filtered in the field (Yes/No)."},
			{"Quote #:", "Quote number, if applicable."},
			{"DW PWSID # or WW Permit #:", "Relevant drinking water or wastewater permit numbers, if applicable."},
		}},
		{heading: "2. Sample Information:", items: []bullet{
			{"Customer Sample ID:", "Unique sample identifier for the report."},
			{"Collected Date:", "Sample collection date (provide start and end dates for composites)."},
			{"Collected Time:", "Sample collection time (provide start and end times for composites)."},
			{"Comp/Grab:", `"GRAB" for single-point collection; "COMP" for combined samples.`},
			{"Matrix:", "Sample type (e.g., DW, GW, WW, P, SW, OT)."},
			{"Container Size:", "Specify size (e.g., 1L, 500ml, Other)."},
		}},
	},
	{
		{heading: "2. Sample Information (continued):", items: []bullet{
			{"Container Preservation Type:", "Specify preservative (e.g., None, HNO3, H2SO4, Other)."},
			{"Analysis Requested:", "List tests or method numbers and check boxes for applicable samples."},
			{"Sample Comment:", "Notes about individual samples; identify MS/MSD samples here."},
			{"Residual Chlorine:", "Record results and units if measured."},
		}},
		{heading: "3. Additional Information & Instructions:", items: []bullet{
			{"Customer Remarks/Special Conditions/Possible Hazards:", "Note special instructions, potential hazards (attach SDS if possible), or requests for extra report copies."},
			{"Rush Request:", "For expedited results, select an option (Same Day to 5 Day) and note the due date. Pre-approval from the lab is required for all rush requests, and surcharges apply."},
			{"Collected By:", "Printed name of the sample collector."},
			{"Collected By Signature:", "Signature of the sample collector."},
			{"Relinquished By/Received By:", "Sign and date at each transfer of custody."},
		}},
		{
			heading: "4. Sample Acceptance Policy Summary:",
			intro:   "For samples to be accepted, ensure:",
			items: []bullet{
				{"", "Complete COC documentation."},
				{"", "Readable, unique sample ID on containers (indelible ink)."},
				{"", "Appropriate containers and sufficient volume."},
				{"", "Receipt within holding time and temperature requirements."},
				{"", "Containers are in good condition, seals intact (if used)."},
				{"", "Proper preservation, no headspace in volatile water samples."},
				{"", "Adequate volume for MS/MSD if required."},
			},
			closing: "Failure to meet these may result in data qualifiers. A detailed policy is available from your Project Manager. Submitting samples implies acceptance of KELP Terms and Conditions.",
		},
	},
}

// Instruction page geometry.
const (
	instrTitleY  = render.PageHeight - 52
	instrLeftX   = 30.0
	instrRightX  = 400.0
	instrColumnW = 355.0
	instrBodyFS  = 9.0
	instrLineGap = 11.0
	instrBulletX = 10.0
	instrTextX   = 22.0
)

func (p *page) drawInstructions() {
	c := p.c
	c.TextCentered(0, instrTitleY, render.PageWidth, "Chain of Custody (COC) Instructions", render.TextStyle{Size: 14, Bold: true})
	c.TextCentered(0, instrTitleY-17, render.PageWidth,
		"Complete all relevant fields on the COC form. Incomplete information may cause delays.",
		render.TextStyle{Size: 11})

	top := instrTitleY - 42
	for i, col := range instructionColumns {
		x := instrLeftX
		if i == 1 {
			x = instrRightX
		}
		y := top
		for _, sec := range col {
			y = p.drawSection(x, y, sec)
		}
	}
	p.footer()
}

func (p *page) drawSection(x, y float64, sec section) float64 {
	c := p.c
	body := render.TextStyle{Size: instrBodyFS}
	bold := render.TextStyle{Size: instrBodyFS, Bold: true}

	c.Text(x, y, sec.heading, render.TextStyle{Size: instrBodyFS + 1, Bold: true})
	y -= instrLineGap + 3
	if sec.intro != "" {
		c.Text(x+4, y, sec.intro, body)
		y -= instrLineGap
	}

	width := instrColumnW - instrTextX - 6
	for _, b := range sec.items {
		c.Text(x+instrBulletX, y+1, "•", render.TextStyle{Size: instrBodyFS - 1})
		tx := x + instrTextX
		lw := 0.0
		if b.label != "" {
			c.Text(tx, y, b.label, bold)
			lw = c.StringWidth(b.label, bold) + 3
		}
		// The first line of the description continues after the label.
		lines := wrapText(c, b.text, width-lw, body)
		c.Text(tx+lw, y, lines[0], body)
		rest := ""
		for _, l := range lines[1:] {
			if rest != "" {
				rest += " "
			}
			rest += l
		}
		y -= instrLineGap
		if rest != "" {
			for _, l := range wrapText(c, rest, width-6, body) {
				c.Text(tx+6, y, l, body)
				y -= instrLineGap
			}
		}
	}

	if sec.closing != "" {
		y -= 4
		for _, l := range wrapText(c, sec.closing, instrColumnW-8, body) {
			c.Text(x+4, y, l, body)
			y -= instrLineGap
		}
	}
	return y - 6
}
