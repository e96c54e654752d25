package coc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Analyses maps a category name (full or short) to the analytes selected in it.
type Analyses map[string][]string

// UnmarshalJSON accepts either an object of category → analytes or a bare
// array of category names.
func (a *Analyses) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("analyses: %w", err)
		}
		*a = fromNames(names)
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("analyses: %w", err)
	}
	*a = m
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON.
func (a *Analyses) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("analyses: %w", err)
		}
		*a = fromNames(names)
		return nil
	}
	var m map[string][]string
	if err := value.Decode(&m); err != nil {
		return fmt.Errorf("analyses: %w", err)
	}
	*a = m
	return nil
}

func fromNames(names []string) Analyses {
	out := make(Analyses, len(names))
	for _, n := range names {
		if _, ok := out[n]; !ok {
			out[n] = nil
		}
	}
	return out
}

// Add appends analytes to a category, skipping ones already present.
func (a Analyses) Add(category string, analytes ...string) {
	have := a[category]
	for _, an := range analytes {
		dup := false
		for _, h := range have {
			if h == an {
				dup = true
				break
			}
		}
		if !dup {
			have = append(have, an)
		}
	}
	a[category] = have
}
