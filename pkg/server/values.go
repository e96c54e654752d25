package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kelplab/custody/pkg/coc"
)

// analyteSep separates category and analyte in the values of the
// per-row analyte selects, e.g. "Metals|Lead".
const analyteSep = "|"

// FormFromValues builds a form from an HTML form submission. Field names are
// the JSON names of the form fields. Sample fields repeat once per table row
// and the analytes of row i are submitted as "analytes_<i>" values. Rows
// without a sample id and without analytes are dropped.
func FormFromValues(v url.Values) *coc.Form {
	f := &coc.Form{
		COCID: v.Get("coc_id"),
		Client: coc.Client{
			Company:      v.Get("company_name"),
			Contact:      v.Get("contact_name"),
			Address:      v.Get("street_address"),
			Phone:        v.Get("phone"),
			Email:        v.Get("email"),
			CCEmail:      v.Get("cc_email"),
			InvoiceTo:    v.Get("invoice_to"),
			InvoiceEmail: v.Get("invoice_email"),
		},
		Project: coc.Project{
			Number:        v.Get("project_number"),
			Name:          v.Get("project_name"),
			SiteInfo:      v.Get("site_info"),
			PurchaseOrder: v.Get("purchase_order"),
			QuoteNumber:   v.Get("quote_number"),
			CountyState:   v.Get("county_state"),
		},
		Sampling: coc.Sampling{
			TimeZone:          v.Get("time_zone"),
			DataDeliverable:   v.Get("data_deliverable"),
			RegulatoryProgram: v.Get("regulatory_program"),
			Reportable:        v.Get("reportable"),
			Rush:              v.Get("rush"),
			PWSID:             v.Get("pwsid"),
			FieldFiltered:     v.Get("field_filtered"),
			ContainerSize:     v.Get("container_size"),
			Preservative:      v.Get("preservative_type"),
		},
		Lab: coc.LabUse{
			ProjectManager:  v.Get("project_manager"),
			AccountNumber:   v.Get("acct_num"),
			TableNumber:     v.Get("table_number"),
			ProfileTemplate: v.Get("profile_template"),
			PrelogID:        v.Get("prelog_id"),
			OrderingID:      v.Get("kelp_ordering_id"),
		},
		Receipt: coc.Receipt{
			Coolers:        v.Get("num_coolers"),
			ThermometerID:  v.Get("thermometer_id"),
			Temperature:    v.Get("temperature"),
			ReceivedOnIce:  v.Get("received_on_ice"),
			TrackingNumber: v.Get("tracking_number"),
			DeliveryMethod: v.Get("delivery_method"),
		},
		AdditionalInstructions: v.Get("additional_instructions"),
		CustomerRemarks:        v.Get("customer_remarks"),
	}

	at := func(field string, i int) string {
		if vals := v[field]; i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}
	for i := range v["sample_id"] {
		s := coc.Sample{
			ID:              at("sample_id", i),
			Matrix:          at("matrix", i),
			CompGrab:        at("comp_grab", i),
			StartDate:       at("start_date", i),
			StartTime:       at("start_time", i),
			EndDate:         at("end_date", i),
			EndTime:         at("end_time", i),
			Containers:      at("num_containers", i),
			ResidualCl:      at("res_cl_result", i),
			ResidualClUnits: at("res_cl_units", i),
			Comment:         at("comment", i),
			Analyses:        coc.Analyses{},
		}
		for _, sel := range v["analytes_"+strconv.Itoa(i)] {
			category, analyte, ok := strings.Cut(sel, analyteSep)
			if !ok || category == "" || analyte == "" {
				continue
			}
			s.Analyses.Add(category, analyte)
		}
		if s.ID == "" && !s.Selected() {
			continue
		}
		f.Samples = append(f.Samples, s)
	}
	f.Normalize()
	return f
}
