package coc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kelplab/custody/pkg/errors"
)

// Form file encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// maxFormBytes bounds a single form document.
const maxFormBytes = 4 << 20

// Decode reads one form document in the given format.
func Decode(r io.Reader, format string) (*Form, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFormBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidForm, err, "read form")
	}
	if len(data) > maxFormBytes {
		return nil, errors.New(errors.ErrCodeInvalidForm, "form exceeds %d bytes", maxFormBytes)
	}

	var f Form
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidForm, err, "decode json form")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidForm, err, "decode yaml form")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported form format: %q", format)
	}
	f.Normalize()
	return &f, nil
}

// LoadForm reads a .json, .yaml or .yml form file.
func LoadForm(path string) (*Form, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported form extension: %q (must be .json, .yaml or .yml)", filepath.Ext(path))
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "form not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidForm, err, "open %s", path)
	}
	defer file.Close()
	return Decode(file, format)
}

// Normalize trims identifiers and upper-cases matrix codes. Decode applies
// it; forms assembled field by field call it directly.
func (f *Form) Normalize() {
	f.COCID = strings.TrimSpace(f.COCID)
	for i := range f.Samples {
		s := &f.Samples[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Matrix = strings.ToUpper(strings.TrimSpace(s.Matrix))
		if s.Analyses == nil {
			s.Analyses = Analyses{}
		}
	}
}

// Hash returns a content hash of the form, used for cache keys.
// Identical field values always hash identically.
func (f *Form) Hash() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash form")
	}
	return hashBytes(data), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
