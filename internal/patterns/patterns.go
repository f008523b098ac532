// Package patterns holds the tunable name-matching tables used to classify
// clip names, locate reference joints, and spell out variant aliases.
// Upstream names are untyped strings from third-party data, so everything
// here is a pattern list rather than a closed enumeration.
package patterns

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// RawTables mirrors the YAML schema.
type RawTables struct {
	IdleRanks        []string            `yaml:"idle_ranks"`
	IdleExclude      []string            `yaml:"idle_exclude"`
	GroundJoints     []string            `yaml:"ground_joints"`
	OverheadJoints   []string            `yaml:"overhead_joints"`
	FormLabels       []string            `yaml:"form_labels"`
	CompanionAliases map[string][]string `yaml:"companion_aliases"`
}

// Tables holds the compiled pattern tables. Immutable after load.
type Tables struct {
	IdleRanks        []*regexp.Regexp
	IdleExclude      []string
	GroundJoints     []string
	OverheadJoints   []string
	FormLabels       []string
	CompanionAliases map[string][]string
}

// Default returns the embedded tables. The embedded YAML is validated by
// tests, so a compile failure here is a programming error.
func Default() *Tables {
	t, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("patterns: embedded default invalid: %v", err))
	}
	return t
}

// Load reads pattern tables from a YAML file. An empty path returns the
// embedded defaults.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: read %s: %w", path, err)
	}
	t, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("patterns: parse %s: %w", path, err)
	}
	return t, nil
}

func parse(raw []byte) (*Tables, error) {
	var rt RawTables
	if err := yaml.Unmarshal(raw, &rt); err != nil {
		return nil, err
	}

	t := &Tables{
		IdleExclude:      rt.IdleExclude,
		GroundJoints:     rt.GroundJoints,
		OverheadJoints:   rt.OverheadJoints,
		FormLabels:       rt.FormLabels,
		CompanionAliases: rt.CompanionAliases,
	}
	for _, p := range rt.IdleRanks {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("idle rank %q: %w", p, err)
		}
		t.IdleRanks = append(t.IdleRanks, re)
	}
	return t, nil
}

// NormalizeName lowercases a third-party asset name and folds underscores
// and dots to hyphens so the tables only need one spelling.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}

// Aliases returns the known spellings for a companion alias in priority
// order. Unknown aliases yield the alias itself.
func (t *Tables) Aliases(alias string) []string {
	key := NormalizeName(alias)
	if list, ok := t.CompanionAliases[key]; ok {
		return list
	}
	if alias == "" {
		return nil
	}
	return []string{key}
}
