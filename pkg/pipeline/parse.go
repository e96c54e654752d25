package pipeline

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
)

// FormFormat picks the form encoding from a media type ("application/yaml")
// or a file name ("samples.yml"). Anything unrecognised is treated as JSON.
func FormFormat(nameOrType string) string {
	if mt, _, err := mime.ParseMediaType(nameOrType); err == nil && strings.Contains(mt, "/") {
		if strings.Contains(mt, "yaml") {
			return coc.FormatYAML
		}
		return coc.FormatJSON
	}
	switch strings.ToLower(filepath.Ext(nameOrType)) {
	case ".yaml", ".yml":
		return coc.FormatYAML
	}
	return coc.FormatJSON
}

// ParseForm decodes a submitted form, choosing the format from nameOrType.
func ParseForm(r io.Reader, nameOrType string) (*coc.Form, error) {
	f, err := coc.Decode(r, FormFormat(nameOrType))
	if err != nil {
		return nil, err
	}
	if f.COCID != "" && !coc.ValidID(f.COCID) {
		return nil, errors.New(errors.ErrCodeInvalidForm, "malformed coc_id %q (want %sYYMMDD-NNNN)", f.COCID, coc.IDPrefix)
	}
	return f, nil
}
