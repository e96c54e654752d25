// Package coc models the values collected for one Chain-of-Custody document.
//
// A [Form] is the typed counterpart of the flat field set submitted by the web
// UI or read from a form file. It is read-only once decoded: renderers and the
// layout planner never modify it.
//
// Forms are decoded from JSON or YAML:
//
//	f, err := coc.LoadForm("submission.yaml")
//	f.EnsureID(time.Now(), nil)
//
// Each [Sample] carries its analysis selection as a map from category name to
// selected analytes. Files may also list bare category names; those entries
// decode to categories with no analytes and are ignored by column layout.
package coc

import (
	"sort"
	"strings"
)

// Form holds every field of a Chain-of-Custody submission.
type Form struct {
	COCID string `json:"coc_id,omitempty" yaml:"coc_id,omitempty"`

	Client   Client   `json:"client" yaml:"client"`
	Project  Project  `json:"project" yaml:"project"`
	Sampling Sampling `json:"sampling" yaml:"sampling"`
	Lab      LabUse   `json:"lab" yaml:"lab"`
	Receipt  Receipt  `json:"receipt" yaml:"receipt"`

	AdditionalInstructions string `json:"additional_instructions,omitempty" yaml:"additional_instructions,omitempty"`
	CustomerRemarks        string `json:"customer_remarks,omitempty" yaml:"customer_remarks,omitempty"`

	Samples []Sample `json:"samples" yaml:"samples"`
}

// Client identifies who submits and pays for the work.
type Client struct {
	Company      string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Contact      string `json:"contact_name,omitempty" yaml:"contact_name,omitempty"`
	Address      string `json:"street_address,omitempty" yaml:"street_address,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	CCEmail      string `json:"cc_email,omitempty" yaml:"cc_email,omitempty"`
	InvoiceTo    string `json:"invoice_to,omitempty" yaml:"invoice_to,omitempty"`
	InvoiceEmail string `json:"invoice_email,omitempty" yaml:"invoice_email,omitempty"`
}

// Project describes the project the samples belong to.
type Project struct {
	Number        string `json:"project_number,omitempty" yaml:"project_number,omitempty"`
	Name          string `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	SiteInfo      string `json:"site_info,omitempty" yaml:"site_info,omitempty"`
	PurchaseOrder string `json:"purchase_order,omitempty" yaml:"purchase_order,omitempty"`
	QuoteNumber   string `json:"quote_number,omitempty" yaml:"quote_number,omitempty"`
	CountyState   string `json:"county_state,omitempty" yaml:"county_state,omitempty"`
}

// Sampling holds the regulatory and container details shared by all samples.
type Sampling struct {
	TimeZone          string `json:"time_zone,omitempty" yaml:"time_zone,omitempty"`
	DataDeliverable   string `json:"data_deliverable,omitempty" yaml:"data_deliverable,omitempty"`
	RegulatoryProgram string `json:"regulatory_program,omitempty" yaml:"regulatory_program,omitempty"`
	Reportable        string `json:"reportable,omitempty" yaml:"reportable,omitempty"`
	Rush              string `json:"rush,omitempty" yaml:"rush,omitempty"`
	PWSID             string `json:"pwsid,omitempty" yaml:"pwsid,omitempty"`
	FieldFiltered     string `json:"field_filtered,omitempty" yaml:"field_filtered,omitempty"`
	ContainerSize     string `json:"container_size,omitempty" yaml:"container_size,omitempty"`
	Preservative      string `json:"preservative_type,omitempty" yaml:"preservative_type,omitempty"`
}

// LabUse holds fields completed by laboratory staff only.
type LabUse struct {
	ProjectManager  string `json:"project_manager,omitempty" yaml:"project_manager,omitempty"`
	AccountNumber   string `json:"acct_num,omitempty" yaml:"acct_num,omitempty"`
	TableNumber     string `json:"table_number,omitempty" yaml:"table_number,omitempty"`
	ProfileTemplate string `json:"profile_template,omitempty" yaml:"profile_template,omitempty"`
	PrelogID        string `json:"prelog_id,omitempty" yaml:"prelog_id,omitempty"`
	OrderingID      string `json:"kelp_ordering_id,omitempty" yaml:"kelp_ordering_id,omitempty"`
}

// Receipt records how the coolers arrived at the lab.
type Receipt struct {
	Coolers        string `json:"num_coolers,omitempty" yaml:"num_coolers,omitempty"`
	ThermometerID  string `json:"thermometer_id,omitempty" yaml:"thermometer_id,omitempty"`
	Temperature    string `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	ReceivedOnIce  string `json:"received_on_ice,omitempty" yaml:"received_on_ice,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty" yaml:"tracking_number,omitempty"`
	DeliveryMethod string `json:"delivery_method,omitempty" yaml:"delivery_method,omitempty"`
}

// Sample is one row of the custody table.
type Sample struct {
	ID              string   `json:"sample_id" yaml:"sample_id"`
	Matrix          string   `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	CompGrab        string   `json:"comp_grab,omitempty" yaml:"comp_grab,omitempty"`
	StartDate       string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	StartTime       string   `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndDate         string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	EndTime         string   `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Containers      string   `json:"num_containers,omitempty" yaml:"num_containers,omitempty"`
	ResidualCl      string   `json:"res_cl_result,omitempty" yaml:"res_cl_result,omitempty"`
	ResidualClUnits string   `json:"res_cl_units,omitempty" yaml:"res_cl_units,omitempty"`
	Comment         string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Analyses        Analyses `json:"analyses,omitempty" yaml:"analyses,omitempty"`
}

// Selected reports whether the sample selected any analyte at all.
func (s Sample) Selected() bool {
	for _, analytes := range s.Analyses {
		if len(analytes) > 0 {
			return true
		}
	}
	return false
}

// Matrices returns the distinct, upper-cased matrix codes used by samples,
// sorted. Samples without a matrix are ignored.
func Matrices(samples []Sample) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range samples {
		m := strings.ToUpper(strings.TrimSpace(s.Matrix))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
