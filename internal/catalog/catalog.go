// Package catalog loads and indexes the character catalog the selection UI
// browses: subjects, skins, chroma ids, and per-subject display overrides.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Catalog indexes subjects by slug.
type Catalog struct {
	subjects []Subject
	bySlug   map[string]*Subject
}

// Parse reads a catalog JSON file.
func Parse(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Decode(raw)
}

// Decode builds a catalog from raw JSON.
func Decode(raw []byte) (*Catalog, error) {
	var subjects []Subject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	c := &Catalog{subjects: subjects, bySlug: make(map[string]*Subject, len(subjects))}
	for i := range c.subjects {
		s := &c.subjects[i]
		// Slugs are lowercase everywhere: lookups fold case, and the
		// candidate URLs embed the slug verbatim.
		s.Slug = strings.ToLower(s.Slug)
		if s.Slug == "" {
			return nil, fmt.Errorf("catalog: subject %d has no slug", i)
		}
		if _, dup := c.bySlug[s.Slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate slug %q", s.Slug)
		}
		c.bySlug[s.Slug] = s
	}
	return c, nil
}

// Subjects returns all subjects sorted by name.
func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	copy(out, c.subjects)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of subjects.
func (c *Catalog) Len() int {
	return len(c.subjects)
}

// Find looks a subject up by slug.
func (c *Catalog) Find(slug string) (*Subject, bool) {
	s, ok := c.bySlug[strings.ToLower(slug)]
	return s, ok
}

// Suggest returns the catalog slug closest to the given name by edit
// distance, or "" when nothing is plausibly close. The distance limit
// scales with the candidate length so short slugs don't match everything.
func (c *Catalog) Suggest(name string) string {
	name = strings.ToLower(name)
	best := ""
	bestDist := -1
	for slug := range c.bySlug {
		dist := levenshtein.ComputeDistance(name, slug)
		if dist > distanceLimit(len(slug)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && slug < best) {
			best, bestDist = slug, dist
		}
	}
	return best
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
