// Package selection defines the immutable selection context the resolution
// pipeline keys on. A context is a value: any field change means a new
// context, and equality is structural.
package selection

import (
	"fmt"
	"strings"
)

// VariantKind enumerates the variant axes a selection can ride on.
type VariantKind int

const (
	VariantNone VariantKind = iota
	VariantChroma
	VariantAlternateForm
	VariantHistorical
	VariantExtraModel
)

func (k VariantKind) String() string {
	switch k {
	case VariantChroma:
		return "chroma"
	case VariantAlternateForm:
		return "form"
	case VariantHistorical:
		return "historical"
	case VariantExtraModel:
		return "extra"
	default:
		return "none"
	}
}

// Variant carries the axis-specific payload. Only the field matching Kind
// is meaningful.
type Variant struct {
	Kind    VariantKind
	Chroma  int      // chroma id
	Form    bool     // alternate-form toggle
	Version int      // historical version index
	Aliases []string // extra sub-model alias set
}

// Context identifies one selection for one axis. Contexts are never mutated;
// a newer context for the same axis supersedes this one entirely.
type Context struct {
	Subject        string // catalog slug
	NumericKey     int    // subject numeric key for skin addressing
	Skin           int    // skin number within the subject
	Variant        Variant
	CompanionAlias string // set when the subject carries a companion sub-model
}

// SkinKey computes the wire skin identifier: numericKey*1000 + skinNumber.
func (c Context) SkinKey() int {
	return c.NumericKey*1000 + c.Skin
}

// BaseSkinKey is the subject's skin-0 identifier, used as a secondary probe
// target for historical versions.
func (c Context) BaseSkinKey() int {
	return c.NumericKey * 1000
}

// Key returns a string capturing structural identity. Two contexts with the
// same key are the same selection.
func (c Context) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/%d", c.Subject, c.NumericKey, c.Skin)
	if c.CompanionAlias != "" {
		fmt.Fprintf(&b, "+%s", c.CompanionAlias)
	}
	switch c.Variant.Kind {
	case VariantChroma:
		fmt.Fprintf(&b, "#chroma=%d", c.Variant.Chroma)
	case VariantAlternateForm:
		fmt.Fprintf(&b, "#form=%t", c.Variant.Form)
	case VariantHistorical:
		fmt.Fprintf(&b, "#version=%d", c.Variant.Version)
	case VariantExtraModel:
		fmt.Fprintf(&b, "#extra=%s", strings.Join(c.Variant.Aliases, ","))
	}
	return b.String()
}

// IsZero reports whether the context is empty (no subject selected).
func (c Context) IsZero() bool {
	return c.Subject == ""
}
