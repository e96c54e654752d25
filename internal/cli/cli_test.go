package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/pipeline"
)

const testForm = `client:
  company_name: Acme Water
samples:
  - sample_id: WELL-1
    matrix: DW
    analyses:
      Metals: [Lead, Copper]
  - sample_id: WELL-2
    matrix: GW
    analyses:
      Inorganics: [Chloride]
`

// setup isolates the CLI from the user's config and cache and writes the
// test form.
func setup(t *testing.T) (dir, form string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("CUSTODY_CACHE_BACKEND", "file")
	t.Setenv("CUSTODY_CACHE_DIR", filepath.Join(dir, "cache"))
	form = filepath.Join(dir, "submission.yaml")
	if err := os.WriteFile(form, []byte(testForm), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir, form
}

// run executes the root command and returns what was written to the
// command output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"render", "columns", "catalog", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %s not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil || root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("root flags missing")
	}
}

func TestRender(t *testing.T) {
	dir, form := setup(t)
	if _, err := run(t, "render", form, "-f", "pdf,json"); err != nil {
		t.Fatal(err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "submission.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("submission.pdf is not a PDF")
	}

	data, err := os.ReadFile(filepath.Join(dir, "submission.columns.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc pipeline.PlanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Header.Columns) != 2 {
		t.Errorf("columns = %+v", doc.Header.Columns)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	if err != nil || len(entries) == 0 {
		t.Errorf("render should populate the file cache: %v", err)
	}
}

func TestRenderOutputFlag(t *testing.T) {
	dir, form := setup(t)
	out := filepath.Join(dir, "custom.pdf")
	if _, err := run(t, "render", form, "-o", out, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); !os.IsNotExist(err) {
		t.Error("--no-cache must not create the cache")
	}
}

func TestRenderErrors(t *testing.T) {
	dir, form := setup(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", form, "-f", "svg"}},
		{"stdout with two formats", []string{"render", form, "-f", "pdf,json", "-o", "-"}},
		{"missing form", []string{"render", filepath.Join(dir, "nope.yaml")}},
		{"bad extension", []string{"render", filepath.Join(dir, "form.txt")}},
		{"missing catalog", []string{"render", form, "--catalog", filepath.Join(dir, "nope.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestColumns(t *testing.T) {
	_, form := setup(t)

	out, err := run(t, "columns", form)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Metals (Pb, Cu)", "Inorganics (Chloride)", "Label", "Method"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}

	out, err = run(t, "columns", form, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var doc pipeline.PlanDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("--json output: %v", err)
	}
}

func TestCatalogCommands(t *testing.T) {
	setup(t)

	out, err := run(t, "catalog")
	if err != nil {
		t.Fatal(err)
	}
	for _, cg := range catalog.Default().Categories() {
		if !strings.Contains(out, cg.Name) {
			t.Errorf("list lacks %s", cg.Name)
		}
	}

	out, err = run(t, "catalog", "export")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Parse([]byte(out), catalog.FormatTOML)
	if err != nil {
		t.Fatalf("export does not parse: %v", err)
	}
	if cat.Hash() != catalog.Default().Hash() {
		t.Error("exported catalogue differs from the built-in one")
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir, form := setup(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", out)
	}

	if _, err := run(t, "render", form); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "cache"))
	if len(entries) != 0 {
		t.Errorf("cache holds %d entries after clear", len(entries))
	}

	t.Setenv("CUSTODY_CACHE_BACKEND", "none")
	if out, _ := run(t, "cache", "path"); strings.TrimSpace(out) != "disabled" {
		t.Errorf("disabled cache path = %q", out)
	}
}

func TestConfigFlag(t *testing.T) {
	dir, _ := setup(t)
	cfg := filepath.Join(dir, "alt.yaml")
	if err := os.WriteFile(cfg, []byte("cache_backend: bogus\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfg, "cache", "path"); err == nil {
		t.Error("an invalid config file should fail the command")
	}
}

func TestCompletion(t *testing.T) {
	setup(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "custody") {
		t.Error("bash completion should mention the command")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		n                     int
		want                  string
	}{
		{"", "forms/a.yaml", "pdf", 1, "forms/a.pdf"},
		{"", "forms/a.yaml", "json", 2, "forms/a.columns.json"},
		{"out.pdf", "a.yaml", "pdf", 1, "out.pdf"},
		{"out.pdf", "a.yaml", "json", 2, "out.columns.json"},
		{"out", "a.yaml", "pdf", 2, "out.pdf"},
		{"-", "a.yaml", "pdf", 1, "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format, tt.n); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.input, tt.format, tt.n, got, tt.want)
		}
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")
	if err := writeArtifact(path, []byte("%PDF-1.3")); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "%PDF-1.3" {
		t.Errorf("written = %q, %v", data, err)
	}

	if err := writeArtifact(dir, []byte("x")); err == nil {
		t.Error("writing over a directory should fail")
	}

	if _, err := os.Stat("/dev/full"); err == nil {
		if err := writeArtifact("/dev/full", []byte("x")); err == nil {
			t.Error("a failed write to /dev/full should be reported")
		}
	}
}

func TestLoadLogo(t *testing.T) {
	dir, _ := setup(t)
	c := New(&bytes.Buffer{}, LogInfo)
	if c.loadLogo("") != nil || c.loadLogo(filepath.Join(dir, "missing.png")) != nil {
		t.Error("absent logos load as nil")
	}
	path := filepath.Join(dir, "logo.png")
	os.WriteFile(path, []byte("png"), 0o600)
	if string(c.loadLogo(path)) != "png" {
		t.Error("logo bytes not returned")
	}
}

func TestCatalogModel(t *testing.T) {
	m := newCatalogModel(catalog.Default())
	if !strings.Contains(m.View(), "Metals") {
		t.Error("view lacks the first category")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(catalogModel)
	if m.cursor != 1 || m.current().Name != "Inorganics" {
		t.Errorf("cursor = %d (%s)", m.cursor, m.current().Name)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	if next.(catalogModel).cursor != 0 {
		t.Error("cursor should stop at the top")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestWrapMethods(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 10, "no methods"},
		{"EPA 200.8", 20, "EPA 200.8"},
		{"EPA 200.8, EPA 200.7, SM 3120 B", 20, "EPA 200.8, EPA 200.7,\nSM 3120 B"},
	}
	for _, tt := range tests {
		if got := wrapMethods(tt.in, tt.width); got != tt.want {
			t.Errorf("wrapMethods(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
