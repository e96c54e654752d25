package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kelplab/custody/pkg/errors"
)

func TestDefault(t *testing.T) {
	cat := Default()
	if cat.Len() != 8 {
		t.Fatalf("Len = %d, want 8", cat.Len())
	}

	want := []string{"Metals", "Inorganics", "Physical/General Chemistry", "Nutrients",
		"Organics", "PFAS Testing", "Disinfection", "Packages"}
	for i, c := range cat.Categories() {
		if c.Name != want[i] {
			t.Errorf("category %d = %q, want %q", i, c.Name, want[i])
		}
	}

	if Default() != cat {
		t.Error("Default should return the same instance")
	}
}

func TestLookup(t *testing.T) {
	cat := Default()

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Metals", "Metals", true},
		{"Physical/General Chemistry", "Physical/General Chemistry", true},
		{"Phys/Gen Chem", "Physical/General Chemistry", true},
		{"phys/gen chem", "Physical/General Chemistry", true},
		{"  pfas testing ", "PFAS Testing", true},
		{"Radiochemistry", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cat.Lookup(tt.name)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if got.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got.Name, tt.want)
			}
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	cat := Default()
	c, _ := cat.Lookup("Metals")
	c.Analytes[0] = "Unobtainium"

	again, _ := cat.Lookup("Metals")
	if again.Analytes[0] == "Unobtainium" {
		t.Error("Lookup result aliases catalogue storage")
	}
}

func TestSymbol(t *testing.T) {
	cat := Default()
	tests := map[string]string{
		"Lead":                   "Pb",
		"Chromium (VI)":          "Cr(VI)",
		"Total Dissolved Solids": "TDS",
		"pH":                     "pH",
		"Not An Analyte":         "Not An Analyte",
	}
	for in, want := range tests {
		if got := cat.Symbol(in); got != want {
			t.Errorf("Symbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShortName(t *testing.T) {
	cat := Default()
	if got := cat.ShortName("Physical/General Chemistry"); got != "Phys/Gen Chem" {
		t.Errorf("ShortName = %q", got)
	}
	if got := cat.ShortName("Unknown"); got != "Unknown" {
		t.Errorf("ShortName(unknown) = %q, want passthrough", got)
	}
}

func TestMethodFor(t *testing.T) {
	cat := Default()

	tests := []struct {
		name     string
		category string
		matrices []string
		want     string
	}{
		{"potable only", "Metals", []string{"DW"}, "EPA 200.8"},
		{"nonpotable only", "Metals", []string{"WW", "GW"}, "EPA 6020B"},
		{"both classes", "Metals", []string{"WW", "DW"}, "EPA 200.8, EPA 6020B"},
		{"no matrices", "Metals", nil, "EPA 200.8, EPA 6020B"},
		{"unclassified matrix", "Metals", []string{"XX"}, "EPA 200.8, EPA 6020B"},
		{"shared method deduplicated", "Inorganics", []string{"DW", "WW"}, "EPA 300.1"},
		{"lowercase code", "PFAS Testing", []string{"dw"}, "EPA 537.1"},
		{"short name", "Phys/Gen Chem", []string{"SW"}, "SM/EPA"},
		{"unknown category", "Radiochemistry", []string{"DW"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.MethodFor(tt.category, tt.matrices); got != tt.want {
				t.Errorf("MethodFor(%q, %v) = %q, want %q", tt.category, tt.matrices, got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	cat := Default()
	if cls, ok := cat.ClassOf("DW"); !ok || cls != Potable {
		t.Errorf("ClassOf(DW) = %q, %v", cls, ok)
	}
	if cls, ok := cat.ClassOf("ot"); !ok || cls != NonPotable {
		t.Errorf("ClassOf(ot) = %q, %v", cls, ok)
	}
	if _, ok := cat.ClassOf("ZZ"); ok {
		t.Error("ClassOf(ZZ) should be unknown")
	}
}

const yamlCatalog = `
matrices:
  - {code: DW, name: Drinking Water, class: potable}
  - {code: WW, name: Wastewater, class: nonpotable}
categories:
  - name: Radiochemistry
    short: Rad
    potable: ["EPA 900.0"]
    analytes: ["Gross Alpha", "Gross Beta"]
symbols:
  Gross Alpha: "α"
`

func TestParseYAML(t *testing.T) {
	cat, err := Parse([]byte(yamlCatalog), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len = %d", cat.Len())
	}
	if got := cat.ShortName("Radiochemistry"); got != "Rad" {
		t.Errorf("ShortName = %q", got)
	}
	if got := cat.MethodFor("rad", []string{"WW"}); got != "EPA 900.0" {
		t.Errorf("MethodFor fallback = %q", got)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
		code   errors.Code
	}{
		{"bad format", "json", `{}`, errors.ErrCodeInvalidFormat},
		{"empty", FormatTOML, ``, errors.ErrCodeInvalidCatalog},
		{"syntax", FormatTOML, `[[category]`, errors.ErrCodeInvalidCatalog},
		{"unknown key", FormatTOML, "[[category]]\nname = \"A\"\nanalytes = [\"x\"]\npotable = [\"m\"]\ncolour = \"red\"\n", errors.ErrCodeInvalidCatalog},
		{"no analytes", FormatTOML, "[[category]]\nname = \"A\"\npotable = [\"m\"]\n", errors.ErrCodeInvalidCatalog},
		{"no methods", FormatTOML, "[[category]]\nname = \"A\"\nanalytes = [\"x\"]\n", errors.ErrCodeInvalidCatalog},
		{"duplicate", FormatYAML, "categories:\n  - {name: A, potable: [m], analytes: [x]}\n  - {name: a, potable: [m], analytes: [y]}\n", errors.ErrCodeInvalidCatalog},
		{"short collides", FormatYAML, "categories:\n  - {name: A, potable: [m], analytes: [x]}\n  - {name: B, short: A, potable: [m], analytes: [y]}\n", errors.ErrCodeInvalidCatalog},
		{"bad class", FormatYAML, "matrices:\n  - {code: DW, class: drinkable}\ncategories:\n  - {name: A, potable: [m], analytes: [x]}\n", errors.ErrCodeInvalidCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "lab.yml")
	if err := os.WriteFile(path, []byte(yamlCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cat.Lookup("Rad"); !ok {
		t.Error("Lookup(Rad) failed after Load")
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("missing file code = %q", errors.GetCode(err))
	}
	if _, err := Load(filepath.Join(dir, "lab.json")); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("json extension code = %q", errors.GetCode(err))
	}
}

func TestEncodeTOMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().EncodeTOML(&buf); err != nil {
		t.Fatalf("EncodeTOML: %v", err)
	}
	cat, err := Parse(buf.Bytes(), FormatTOML)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if cat.Hash() != Default().Hash() {
		t.Error("exported catalogue should hash identically")
	}
}

func TestHash(t *testing.T) {
	a, _ := Parse([]byte(yamlCatalog), FormatYAML)
	b, _ := Parse([]byte(yamlCatalog), FormatYAML)
	if a.Hash() != b.Hash() {
		t.Error("Hash should be deterministic")
	}
	if a.Hash() == Default().Hash() {
		t.Error("different catalogues should hash differently")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("Hash length = %d", len(a.Hash()))
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out struct {
		Categories []struct {
			Name    string `json:"name"`
			Methods string `json:"methods"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Categories) != 8 {
		t.Fatalf("categories = %d", len(out.Categories))
	}
	if !strings.Contains(out.Categories[0].Methods, "EPA 200.8") {
		t.Errorf("Metals methods = %q", out.Categories[0].Methods)
	}
}
