// Package catalog holds the analyte catalogue that drives the analysis
// columns of a Chain-of-Custody form.
//
// A [Catalog] is an immutable value: it is decoded once (from the embedded
// default or from an operator-supplied file) and then passed by pointer to
// everything that needs it. Nothing in this package mutates a catalogue after
// construction, so one instance can be shared by concurrent requests.
//
// # Contents
//
//   - Categories, in the canonical order their columns appear on the form
//   - Per-category regulatory methods keyed by matrix class
//   - A symbol table abbreviating analyte names (chemical symbols and
//     compact forms) for column headers
//   - Matrix codes and the class (potable or non-potable) each belongs to
//
// # Usage
//
//	cat := catalog.Default()
//	metals, ok := cat.Lookup("Metals")
//	method := cat.MethodFor("Metals", []string{"DW", "WW"}) // "EPA 200.8, EPA 6020B"
//
// Alternate catalogues are read from TOML or YAML:
//
//	cat, err := catalog.Load("lab-catalog.toml")
package catalog

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
)

// MatrixClass groups matrix codes by the method family that applies to them.
type MatrixClass string

const (
	// Potable covers drinking water.
	Potable MatrixClass = "potable"
	// NonPotable covers every other matrix (ground, waste and surface water,
	// product, other).
	NonPotable MatrixClass = "nonpotable"
)

// Matrix describes one sample matrix code.
type Matrix struct {
	Code  string      `toml:"code" yaml:"code" json:"code"`
	Name  string      `toml:"name" yaml:"name" json:"name"`
	Class MatrixClass `toml:"class" yaml:"class" json:"class"`
}

// Label returns the matrix as shown in selection lists, e.g. "Drinking Water (DW)".
func (m Matrix) Label() string {
	return m.Name + " (" + m.Code + ")"
}

// Category is a named group of analytes sharing a method family.
type Category struct {
	Name       string   `toml:"name" yaml:"name" json:"name"`
	Short      string   `toml:"short" yaml:"short" json:"short"`
	Potable    []string `toml:"potable" yaml:"potable" json:"potable"`
	NonPotable []string `toml:"nonpotable" yaml:"nonpotable" json:"nonpotable"`
	Analytes   []string `toml:"analytes" yaml:"analytes" json:"analytes"`
}

// ShortName returns the short display name, falling back to the full name.
func (c Category) ShortName() string {
	if c.Short != "" {
		return c.Short
	}
	return c.Name
}

func (c Category) clone() Category {
	c.Potable = append([]string(nil), c.Potable...)
	c.NonPotable = append([]string(nil), c.NonPotable...)
	c.Analytes = append([]string(nil), c.Analytes...)
	return c
}

// document is the on-disk shape shared by the TOML and YAML encodings.
type document struct {
	Matrices   []Matrix          `toml:"matrix" yaml:"matrices" json:"matrices"`
	Categories []Category        `toml:"category" yaml:"categories" json:"categories"`
	Symbols    map[string]string `toml:"symbols" yaml:"symbols" json:"symbols"`
}

// Catalog is an immutable analyte catalogue.
type Catalog struct {
	categories []Category
	matrices   []Matrix
	symbols    map[string]string

	byName  map[string]int // exact full name
	byShort map[string]int // exact short name
	byFold  map[string]int // lower-cased full and short names
	classes map[string]MatrixClass

	hash string
}

//go:embed catalog.toml
var defaultTOML []byte

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the built-in KELP catalogue.
// It is decoded on first use; the embedded document is validated by tests,
// so a decoding failure here is a build defect and panics.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Parse(defaultTOML, FormatTOML)
		if err != nil {
			panic("catalog: embedded catalogue is invalid: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// newCatalog indexes a decoded document. The document must already be valid.
func newCatalog(doc document) *Catalog {
	c := &Catalog{
		categories: make([]Category, len(doc.Categories)),
		matrices:   append([]Matrix(nil), doc.Matrices...),
		symbols:    make(map[string]string, len(doc.Symbols)),
		byName:     make(map[string]int, len(doc.Categories)),
		byShort:    make(map[string]int, len(doc.Categories)),
		byFold:     make(map[string]int, 2*len(doc.Categories)),
		classes:    make(map[string]MatrixClass, len(doc.Matrices)),
	}
	for i, cat := range doc.Categories {
		c.categories[i] = cat.clone()
		c.byName[cat.Name] = i
		c.byShort[cat.ShortName()] = i
		c.byFold[fold(cat.Name)] = i
		if _, taken := c.byFold[fold(cat.ShortName())]; !taken {
			c.byFold[fold(cat.ShortName())] = i
		}
	}
	for k, v := range doc.Symbols {
		c.symbols[k] = v
	}
	for _, m := range doc.Matrices {
		c.classes[strings.ToUpper(m.Code)] = m.Class
	}

	data, _ := json.Marshal(doc)
	sum := sha256.Sum256(data)
	c.hash = hex.EncodeToString(sum[:])
	return c
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Categories returns the categories in canonical form order.
// The returned slice is a copy.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// Matrices returns the matrix codes in declaration order.
func (c *Catalog) Matrices() []Matrix {
	return append([]Matrix(nil), c.matrices...)
}

// Lookup resolves a category by full name, then by short name, then
// case-insensitively by either. Samples submitted with a stale short-name
// alias still resolve to the canonical category.
func (c *Catalog) Lookup(name string) (Category, bool) {
	i, ok := c.index(name)
	if !ok {
		return Category{}, false
	}
	return c.categories[i].clone(), true
}

// Index returns the canonical position of a category, resolved like [Catalog.Lookup].
func (c *Catalog) Index(name string) (int, bool) {
	return c.index(name)
}

func (c *Catalog) index(name string) (int, bool) {
	if i, ok := c.byName[name]; ok {
		return i, true
	}
	if i, ok := c.byShort[name]; ok {
		return i, true
	}
	i, ok := c.byFold[fold(name)]
	return i, ok
}

// ShortName returns the short display name of a category, or name itself if
// the category is unknown.
func (c *Catalog) ShortName(name string) string {
	if i, ok := c.index(name); ok {
		return c.categories[i].ShortName()
	}
	return name
}

// Symbol abbreviates an analyte name. Unmapped names pass through unchanged.
func (c *Catalog) Symbol(analyte string) string {
	if s, ok := c.symbols[analyte]; ok {
		return s
	}
	return analyte
}

// ClassOf returns the matrix class of a matrix code.
func (c *Catalog) ClassOf(code string) (MatrixClass, bool) {
	cls, ok := c.classes[strings.ToUpper(strings.TrimSpace(code))]
	return cls, ok
}

// MethodFor returns the method annotation for a category given the matrix
// codes present. Potable methods come first, followed by non-potable methods
// not already listed. When none of the matrices is classified, every method
// of the category is listed. Unknown categories yield "".
func (c *Catalog) MethodFor(category string, matrices []string) string {
	i, ok := c.index(category)
	if !ok {
		return ""
	}
	cat := c.categories[i]

	var hasPotable, hasNonPotable bool
	for _, m := range matrices {
		switch cls, _ := c.ClassOf(m); cls {
		case Potable:
			hasPotable = true
		case NonPotable:
			hasNonPotable = true
		}
	}

	var methods []string
	if hasPotable {
		methods = appendUnique(methods, cat.Potable...)
	}
	if hasNonPotable {
		methods = appendUnique(methods, cat.NonPotable...)
	}
	if len(methods) == 0 {
		methods = appendUnique(methods, cat.Potable...)
		methods = appendUnique(methods, cat.NonPotable...)
	}
	return strings.Join(methods, ", ")
}

// AllMethods returns every distinct method of a category, potable first.
func (c *Catalog) AllMethods(category string) string {
	return c.MethodFor(category, nil)
}

// Hash returns a content hash of the catalogue, stable across processes.
func (c *Catalog) Hash() string { return c.hash }

func (c *Catalog) document() document {
	doc := document{
		Matrices:   c.Matrices(),
		Categories: c.Categories(),
		Symbols:    make(map[string]string, len(c.symbols)),
	}
	for k, v := range c.symbols {
		doc.Symbols[k] = v
	}
	return doc
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		dup := false
		for _, d := range dst {
			if d == it {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, it)
		}
	}
	return dst
}
