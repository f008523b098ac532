// Package candidates turns a selection context into the ordered list of
// speculative asset URLs to probe. Generation is pure and deterministic:
// no I/O, no errors — an empty or mismatched context yields an empty list,
// which downstream treats as immediate exhaustion.
package candidates

import (
	"fmt"
	"strings"

	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/selection"
)

// Family selects which asset family to generate candidates for.
type Family int

const (
	FamilyModel Family = iota
	FamilyChromaTexture
	FamilyCompanionModel
	FamilyCompanionTexture
	FamilyFormModel
	FamilyFormTexture
	FamilyHistoricalModel
	FamilyHistoricalTexture
	FamilyExtraModel
	FamilySplash
	FamilyLoading
)

func (f Family) String() string {
	switch f {
	case FamilyModel:
		return "model"
	case FamilyChromaTexture:
		return "chroma-texture"
	case FamilyCompanionModel:
		return "companion-model"
	case FamilyCompanionTexture:
		return "companion-texture"
	case FamilyFormModel:
		return "form-model"
	case FamilyFormTexture:
		return "form-texture"
	case FamilyHistoricalModel:
		return "historical-model"
	case FamilyHistoricalTexture:
		return "historical-texture"
	case FamilyExtraModel:
		return "extra-model"
	case FamilySplash:
		return "splash"
	case FamilyLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// textureExts are tried in order; older assets only exist as TGA.
var textureExts = []string{"png", "tga"}

// Hosts names the asset hosts. Mirror is the last-resort host for 2D art.
type Hosts struct {
	Primary string
	Mirror  string
}

// Generator builds candidate URL lists from naming templates.
type Generator struct {
	Hosts  Hosts
	Tables *patterns.Tables
}

// Generate returns the deduplicated, priority-ordered candidate URLs for
// one asset family of the given selection.
func (g *Generator) Generate(ctx selection.Context, fam Family) []string {
	if ctx.IsZero() {
		return nil
	}

	base := strings.TrimSuffix(g.Hosts.Primary, "/")
	char := fmt.Sprintf("%s/characters/%s", base, ctx.Subject)
	skin := ctx.SkinKey()

	var urls []string
	switch fam {
	case FamilyModel:
		// Base skin as the secondary probe: not every skin ships its own
		// model.
		urls = append(urls,
			fmt.Sprintf("%s/skins/%d/model.glb", char, skin),
			fmt.Sprintf("%s/skins/%d/model.glb", char, ctx.BaseSkinKey()),
		)

	case FamilyChromaTexture:
		if ctx.Variant.Kind != selection.VariantChroma {
			return nil
		}
		for _, ext := range textureExts {
			urls = append(urls, fmt.Sprintf("%s/skins/%d/chromas/%d/texture.%s", char, skin, ctx.Variant.Chroma, ext))
		}

	case FamilyCompanionModel:
		for _, a := range g.aliases(ctx.CompanionAlias) {
			urls = append(urls, fmt.Sprintf("%s/companions/%s/skins/%d/model.glb", char, a, skin))
		}

	case FamilyCompanionTexture:
		if ctx.Variant.Kind != selection.VariantChroma {
			return nil
		}
		for _, a := range g.aliases(ctx.CompanionAlias) {
			for _, ext := range textureExts {
				urls = append(urls, fmt.Sprintf("%s/companions/%s/skins/%d/chromas/%d/texture.%s", char, a, skin, ctx.Variant.Chroma, ext))
			}
		}

	case FamilyFormModel, FamilyFormTexture:
		if ctx.Variant.Kind != selection.VariantAlternateForm || !ctx.Variant.Form {
			return nil
		}
		file := "model.glb"
		if fam == FamilyFormTexture {
			file = "texture.png"
		}
		for _, label := range g.Tables.FormLabels {
			urls = append(urls, fmt.Sprintf("%s/skins/%d/forms/%s/%s", char, skin, label, file))
		}

	case FamilyHistoricalModel, FamilyHistoricalTexture:
		if ctx.Variant.Kind != selection.VariantHistorical {
			return nil
		}
		file := "model.glb"
		if fam == FamilyHistoricalTexture {
			file = "texture.png"
		}
		v := ctx.Variant.Version
		// Selected skin first, base skin as the secondary probe.
		urls = append(urls,
			fmt.Sprintf("%s/versions/%d/skins/%d/%s", char, v, skin, file),
			fmt.Sprintf("%s/versions/%d/skins/%d/%s", char, v, ctx.BaseSkinKey(), file),
		)

	case FamilyExtraModel:
		if ctx.Variant.Kind != selection.VariantExtraModel {
			return nil
		}
		for _, alias := range ctx.Variant.Aliases {
			for _, a := range g.aliases(alias) {
				urls = append(urls, fmt.Sprintf("%s/extras/%s/skins/%d/model.glb", char, a, skin))
			}
		}

	case FamilySplash, FamilyLoading:
		kind := "splash"
		if fam == FamilyLoading {
			kind = "loading"
		}
		path := fmt.Sprintf("/characters/%s/%s/%d.jpg", ctx.Subject, kind, skin)
		urls = append(urls, base+path)
		if m := strings.TrimSuffix(g.Hosts.Mirror, "/"); m != "" {
			urls = append(urls, m+path)
		}

	default:
		return nil
	}

	return Dedup(urls)
}

func (g *Generator) aliases(alias string) []string {
	if g.Tables != nil {
		return g.Tables.Aliases(alias)
	}
	if alias == "" {
		return nil
	}
	return []string{alias}
}

// Dedup removes duplicate values while preserving first-seen order.
// Duplicates would stall a fallback chain on an unchanged value.
func Dedup(urls []string) []string {
	if len(urls) < 2 {
		return urls
	}
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
