package patterns

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultTablesLoad(t *testing.T) {
	tables := Default()
	if len(tables.IdleRanks) == 0 {
		t.Fatal("no idle rank patterns")
	}
	if len(tables.GroundJoints) == 0 || len(tables.OverheadJoints) == 0 {
		t.Fatal("reference joint lists empty")
	}
	if len(tables.FormLabels) == 0 {
		t.Fatal("no form labels")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Idle_Base", "idle-base"},
		{"C_BUFFBONE_GLB_GROUND_LOC", "c-buffbone-glb-ground-loc"},
		{"run.loop", "run-loop"},
		{"  Spaced  ", "spaced"},
		{"already-fine", "already-fine"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAliases(t *testing.T) {
	tables := Default()

	got := tables.Aliases("wolf")
	if len(got) == 0 || got[0] != "wolf" {
		t.Fatalf("wolf aliases = %v", got)
	}

	// Unknown aliases come back normalized as themselves.
	if got := tables.Aliases("My_Pet"); !reflect.DeepEqual(got, []string{"my-pet"}) {
		t.Fatalf("unknown alias = %v", got)
	}
	if got := tables.Aliases(""); got != nil {
		t.Fatalf("empty alias = %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	const doc = `
idle_ranks:
  - ^rest$
idle_exclude:
  - rest-to-
ground_joints:
  - base
overhead_joints:
  - head
form_labels:
  - alt
companion_aliases:
  pet: [pet, pet2]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tables.IdleRanks) != 1 || !tables.IdleRanks[0].MatchString("rest") {
		t.Fatalf("ranks = %v", tables.IdleRanks)
	}
	if !reflect.DeepEqual(tables.Aliases("pet"), []string{"pet", "pet2"}) {
		t.Fatalf("aliases = %v", tables.Aliases("pet"))
	}

	// Empty path falls back to the embedded defaults.
	tables, err = Load("")
	if err != nil || len(tables.IdleRanks) == 0 {
		t.Fatalf("Load(\"\") = %v, %v", tables, err)
	}
}

func TestLoadRejectsBadRegexp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("idle_ranks: ['[']"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("accepted invalid pattern")
	}
}
