package selection

import "testing"

func TestSkinKeys(t *testing.T) {
	c := Context{Subject: "perdita", NumericKey: 101, Skin: 14}
	if got := c.SkinKey(); got != 101014 {
		t.Fatalf("SkinKey = %d, want 101014", got)
	}
	if got := c.BaseSkinKey(); got != 101000 {
		t.Fatalf("BaseSkinKey = %d, want 101000", got)
	}
}

func TestKeyIdentity(t *testing.T) {
	base := Context{Subject: "perdita", NumericKey: 101, Skin: 14}

	same := base
	if base.Key() != same.Key() {
		t.Fatal("identical contexts differ")
	}

	variants := []Context{
		{Subject: "perdita", NumericKey: 101, Skin: 0},
		{Subject: "other", NumericKey: 101, Skin: 14},
		{Subject: "perdita", NumericKey: 101, Skin: 14, CompanionAlias: "wolf"},
		{Subject: "perdita", NumericKey: 101, Skin: 14, Variant: Variant{Kind: VariantChroma, Chroma: 3}},
		{Subject: "perdita", NumericKey: 101, Skin: 14, Variant: Variant{Kind: VariantAlternateForm, Form: true}},
		{Subject: "perdita", NumericKey: 101, Skin: 14, Variant: Variant{Kind: VariantHistorical, Version: 2}},
	}
	seen := map[string]bool{base.Key(): true}
	for _, v := range variants {
		k := v.Key()
		if seen[k] {
			t.Fatalf("key collision: %q", k)
		}
		seen[k] = true
	}

	// Different chroma ids are different selections.
	a := Context{Subject: "p", NumericKey: 1, Variant: Variant{Kind: VariantChroma, Chroma: 3}}
	b := Context{Subject: "p", NumericKey: 1, Variant: Variant{Kind: VariantChroma, Chroma: 7}}
	if a.Key() == b.Key() {
		t.Fatal("chroma ids not part of identity")
	}
}

func TestIsZero(t *testing.T) {
	if !(Context{}).IsZero() {
		t.Fatal("empty context not zero")
	}
	if (Context{Subject: "x"}).IsZero() {
		t.Fatal("selected context reported zero")
	}
}

func TestVariantKindStrings(t *testing.T) {
	tests := []struct {
		kind VariantKind
		want string
	}{
		{VariantNone, "none"},
		{VariantChroma, "chroma"},
		{VariantAlternateForm, "form"},
		{VariantHistorical, "historical"},
		{VariantExtraModel, "extra"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Fatalf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
