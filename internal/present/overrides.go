// pattern: Imperative Shell

package present

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Override replaces the derived name and description of one entry.
type Override struct {
	Name          string `yaml:"name"`
	NameEn        string `yaml:"name_en"`
	Description   string `yaml:"description"`
	DescriptionEn string `yaml:"description_en"`
}

// NameFor returns the override name in lang, or "" when none is set.
func (o Override) NameFor(lang Language) string {
	if lang == English {
		return o.NameEn
	}
	return o.Name
}

// DescriptionFor returns the override description in lang, or "".
func (o Override) DescriptionFor(lang Language) string {
	if lang == English {
		return o.DescriptionEn
	}
	return o.Description
}

// Overrides maps entry IDs to their curated presentation.
type Overrides map[string]Override

//go:embed overrides.yaml
var builtinOverrides []byte

// BuiltinOverrides returns the curated table shipped with the binary.
func BuiltinOverrides() Overrides {
	o, err := ParseOverrides(builtinOverrides)
	if err != nil {
		panic(fmt.Sprintf("embedded overrides: %v", err))
	}
	return o
}

// ParseOverrides decodes a YAML overrides table.
func ParseOverrides(data []byte) (Overrides, error) {
	o := Overrides{}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}
	return o, nil
}

// LoadOverrides returns the builtin table with the file at path merged on
// top. An empty path or a missing file yields the builtin table alone.
func LoadOverrides(path string) (Overrides, error) {
	base := BuiltinOverrides()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("failed to read overrides file: %w", err)
	}
	user, err := ParseOverrides(data)
	if err != nil {
		return base, err
	}
	return base.Merge(user), nil
}

// Merge returns a new table with other's entries layered over o. Fields left
// empty in other keep the value from o.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for id, v := range o {
		out[id] = v
	}
	for id, v := range other {
		cur := out[id]
		if v.Name != "" {
			cur.Name = v.Name
		}
		if v.NameEn != "" {
			cur.NameEn = v.NameEn
		}
		if v.Description != "" {
			cur.Description = v.Description
		}
		if v.DescriptionEn != "" {
			cur.DescriptionEn = v.DescriptionEn
		}
		out[id] = cur
	}
	return out
}
