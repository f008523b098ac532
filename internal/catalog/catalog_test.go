package catalog

import "testing"

const fixture = `[
  {"slug": "annet", "name": "Annet", "numeric_key": 1,
   "skins": [{"number": 0, "name": "Classic"}, {"number": 3, "name": "Frost"}]},
  {"slug": "borgnar", "name": "Borgnar", "numeric_key": 2,
   "skins": [{"number": 0, "name": "Classic"}]},
  {"slug": "aatrix", "name": "Aatrix", "numeric_key": 3,
   "skins": [{"number": 0, "name": "Classic"}]}
]`

func TestDecodeAndFind(t *testing.T) {
	c, err := Decode([]byte(fixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}

	s, ok := c.Find("annet")
	if !ok || s.NumericKey != 1 {
		t.Fatalf("Find(annet) = %+v, %t", s, ok)
	}
	// Lookup is case-insensitive on the caller side.
	if _, ok := c.Find("ANNET"); !ok {
		t.Fatal("uppercase lookup failed")
	}
	if _, ok := c.Find("nobody"); ok {
		t.Fatal("found a subject that doesn't exist")
	}

	skin, ok := s.Skin(3)
	if !ok || skin.Name != "Frost" {
		t.Fatalf("Skin(3) = %+v, %t", skin, ok)
	}
	if _, ok := s.Skin(99); ok {
		t.Fatal("found a skin that doesn't exist")
	}
}

func TestDecodeNormalizesSlugCase(t *testing.T) {
	c, err := Decode([]byte(`[{"slug": "MixedCase", "name": "Mixed"}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s, ok := c.Find("mixedcase")
	if !ok {
		t.Fatal("lowercase lookup failed")
	}
	if s.Slug != "mixedcase" {
		t.Fatalf("stored slug = %q, want lowercased", s.Slug)
	}
	if _, ok := c.Find("MixedCase"); !ok {
		t.Fatal("original-spelling lookup failed")
	}

	// Slugs differing only by case are the same subject.
	dup := `[{"slug": "Twin", "name": "A"}, {"slug": "twin", "name": "B"}]`
	if _, err := Decode([]byte(dup)); err == nil {
		t.Fatal("accepted case-folded duplicate slugs")
	}
}

func TestDecodeRejectsBadCatalogs(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatal("accepted malformed JSON")
	}
	if _, err := Decode([]byte(`[{"name": "No Slug"}]`)); err == nil {
		t.Fatal("accepted subject without slug")
	}
	dup := `[{"slug": "x", "name": "A"}, {"slug": "x", "name": "B"}]`
	if _, err := Decode([]byte(dup)); err == nil {
		t.Fatal("accepted duplicate slugs")
	}
}

func TestSubjectsSortedByName(t *testing.T) {
	c, err := Decode([]byte(fixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	subjects := c.Subjects()
	for i := 1; i < len(subjects); i++ {
		if subjects[i-1].Name > subjects[i].Name {
			t.Fatalf("subjects out of order: %q before %q", subjects[i-1].Name, subjects[i].Name)
		}
	}
}

func TestSuggest(t *testing.T) {
	c, err := Decode([]byte(fixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tests := []struct{ in, want string }{
		{"anet", "annet"},       // one edit away
		{"Borgnor", "borgnar"},  // case folded, one edit
		{"aatrix", "aatrix"},    // exact
		{"zzzzzzzzzz", ""},      // nothing plausibly close
		{"bo", ""},              // too far for a short slug
	}
	for _, tt := range tests {
		if got := c.Suggest(tt.in); got != tt.want {
			t.Fatalf("Suggest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
