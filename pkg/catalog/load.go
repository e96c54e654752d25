package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kelplab/custody/pkg/errors"
)

// Supported catalogue encodings.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Load reads a catalogue file. The encoding is chosen by extension:
// .toml, or .yaml/.yml.
func Load(path string) (*Catalog, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "catalogue not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read %s", path)
	}
	return Parse(data, format)
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported catalogue extension: %q (must be .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte, format string) (*Catalog, error) {
	var doc document
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalogue format: %q", format)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return newCatalog(doc), nil
}

func validate(doc document) error {
	if len(doc.Categories) == 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "catalogue has no categories")
	}

	names := make(map[string]bool)
	for i, cat := range doc.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return errors.New(errors.ErrCodeInvalidCatalog, "category %d has no name", i)
		}
		name, short := fold(cat.Name), fold(cat.ShortName())
		if names[name] {
			return errors.New(errors.ErrCodeInvalidCatalog, "duplicate category %q", cat.Name)
		}
		if short != name && names[short] {
			return errors.New(errors.ErrCodeInvalidCatalog, "category %q: short name %q collides with another category", cat.Name, cat.ShortName())
		}
		names[name] = true
		names[short] = true
		if len(cat.Analytes) == 0 {
			return errors.New(errors.ErrCodeInvalidCatalog, "category %q has no analytes", cat.Name)
		}
		if len(cat.Potable) == 0 && len(cat.NonPotable) == 0 {
			return errors.New(errors.ErrCodeInvalidCatalog, "category %q has no methods", cat.Name)
		}
	}

	codes := make(map[string]bool)
	for _, m := range doc.Matrices {
		code := strings.ToUpper(strings.TrimSpace(m.Code))
		if code == "" {
			return errors.New(errors.ErrCodeInvalidCatalog, "matrix %q has no code", m.Name)
		}
		if codes[code] {
			return errors.New(errors.ErrCodeInvalidCatalog, "duplicate matrix code %q", m.Code)
		}
		codes[code] = true
		if m.Class != Potable && m.Class != NonPotable {
			return errors.New(errors.ErrCodeInvalidCatalog, "matrix %q: class must be %q or %q, got %q", m.Code, Potable, NonPotable, m.Class)
		}
	}
	return nil
}

// EncodeTOML writes the catalogue in the TOML layout [Load] accepts.
func (c *Catalog) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c.document())
}

// MarshalJSON exposes the catalogue to the web UI, with the flat method
// string of every category precomputed.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	type category struct {
		Category
		Methods string `json:"methods"`
	}
	out := struct {
		Matrices   []Matrix          `json:"matrices"`
		Categories []category        `json:"categories"`
		Symbols    map[string]string `json:"symbols"`
	}{
		Matrices: c.Matrices(),
		Symbols:  c.document().Symbols,
	}
	for _, cat := range c.categories {
		out.Categories = append(out.Categories, category{Category: cat.clone(), Methods: c.AllMethods(cat.Name)})
	}
	return json.Marshal(out)
}
