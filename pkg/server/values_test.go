package server

import (
	"net/url"
	"testing"
)

func TestFormFromValues(t *testing.T) {
	v := url.Values{
		"company_name":     {"Acme Water"},
		"rush":             {"2 Day"},
		"kelp_ordering_id": {"ORD-9"},
		"sample_id":        {" WELL-1 ", "", "", "WELL-4"},
		"matrix":           {"dw", "GW", "WW", "ww"},
		"num_containers":   {"2"},
		"analytes_0":       {"Metals|Lead", "Metals|Copper", "Metals|Lead", "Inorganics|Chloride"},
		"analytes_1":       {"Nutrients|Nitrate"},
		"analytes_3":       {"garbage", "|Lead", "Metals|"},
	}
	f := FormFromValues(v)

	if f.Client.Company != "Acme Water" || f.Sampling.Rush != "2 Day" || f.Lab.OrderingID != "ORD-9" {
		t.Errorf("header fields = %+v %+v %+v", f.Client, f.Sampling, f.Lab)
	}
	// Row 2 has neither an id nor analytes.
	if len(f.Samples) != 3 {
		t.Fatalf("samples = %+v", f.Samples)
	}

	s := f.Samples[0]
	if s.ID != "WELL-1" || s.Matrix != "DW" || s.Containers != "2" {
		t.Errorf("sample 0 = %+v", s)
	}
	if got := s.Analyses["Metals"]; len(got) != 2 || got[0] != "Lead" || got[1] != "Copper" {
		t.Errorf("metals = %v", got)
	}
	if got := s.Analyses["Inorganics"]; len(got) != 1 {
		t.Errorf("inorganics = %v", got)
	}

	if f.Samples[1].ID != "" || f.Samples[1].Matrix != "GW" || !f.Samples[1].Selected() {
		t.Errorf("sample 1 = %+v", f.Samples[1])
	}
	if s := f.Samples[2]; s.ID != "WELL-4" || s.Selected() || s.Containers != "" {
		t.Errorf("sample 3 = %+v", s)
	}
}
