package normalize

import (
	"math"
	"testing"

	"champ-model-viewer/internal/mathutil"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/scene"
)

func node(name string, parent int, t mathutil.Vec3) scene.Node {
	return scene.Node{
		Name:        name,
		Parent:      parent,
		Translation: t,
		Rotation:    mathutil.QuatIdentity(),
		Scale:       mathutil.Vec3{1, 1, 1},
	}
}

// jointModel has the two reference joints at the given world heights.
func jointModel(groundY, overheadY float64) *scene.Model {
	return &scene.Model{
		Nodes: []scene.Node{
			node("root", -1, mathutil.Vec3{}),
			node("BUFFBONE_GLB_GROUND_LOC", 0, mathutil.Vec3{0, groundY, 0}),
			node("C_BUFFBONE_GLB_OVERHEAD_LOC", 0, mathutil.Vec3{0, overheadY, 0}),
		},
		Joints: []int{1, 2},
	}
}

func TestSelectIdleClip(t *testing.T) {
	tables := patterns.Default()
	tests := []struct {
		name  string
		clips []string
		want  string
	}{
		{"canonical beats generic", []string{"attack1", "idle_in1", "idle_base"}, "idle_base"},
		{"transition excluded", []string{"idle_in1", "idle2"}, "idle2"},
		{"numbered tier", []string{"run", "idle1", "idle_variant"}, "idle1"},
		{"loop tier", []string{"idle_loop", "idle_variant"}, "idle_loop"},
		{"bare idle", []string{"dance", "idle"}, "idle"},
		{"generic idle tier", []string{"dance", "idle_agitated"}, "idle_agitated"},
		{"no idle at all", []string{"attack1", "run"}, "attack1"},
		{"single clip", []string{"spell3"}, "spell3"},
		{"no clips", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectIdleClip(tt.clips, tables); got != tt.want {
				t.Fatalf("SelectIdleClip(%v) = %q, want %q", tt.clips, got, tt.want)
			}
		})
	}
}

func TestNormalize_BoneHeightAndScale(t *testing.T) {
	m := jointModel(0.0, 3.6)
	pose := Normalize(m, Params{})

	// Measured height 3.6 against the default target 3.4.
	want := 3.4 / 3.6
	if math.Abs(pose.Scale-want) > 1e-9 {
		t.Fatalf("scale = %v, want %v", pose.Scale, want)
	}
	if math.Abs(pose.Scale*3.6-3.4) > 1e-9 {
		t.Fatalf("scale*height = %v, want target 3.4", pose.Scale*3.6)
	}
	if !m.Visible {
		t.Fatal("model must be visible after normalization")
	}
}

func TestNormalize_ScaleInvariant(t *testing.T) {
	for _, h := range []float64{0.001, 0.5, 3.6, 120, 9000} {
		m := jointModel(0, h)
		pose := Normalize(m, Params{TargetHeight: 3.4})
		if pose.Scale <= 0 || math.IsInf(pose.Scale, 0) || math.IsNaN(pose.Scale) {
			t.Fatalf("height %v: scale %v not positive finite", h, pose.Scale)
		}
		if math.Abs(pose.Scale*h-3.4) > 1e-6*3.4 {
			t.Fatalf("height %v: scale*h = %v, want 3.4", h, pose.Scale*h)
		}
	}
}

func TestNormalize_DegenerateHeightUsesFloor(t *testing.T) {
	// No joints, no bounds: nothing measurable.
	m := &scene.Model{Nodes: []scene.Node{node("root", -1, mathutil.Vec3{})}}
	pose := Normalize(m, Params{})
	if pose.Scale <= 0 || math.IsInf(pose.Scale, 0) {
		t.Fatalf("scale %v not positive finite", pose.Scale)
	}
	want := DefaultTargetHeight / DefaultMinHeight
	if math.Abs(pose.Scale-want) > 1e-9 {
		t.Fatalf("scale = %v, want floored %v", pose.Scale, want)
	}
}

func TestNormalize_ZeroExtentBoundsUseFloor(t *testing.T) {
	m := &scene.Model{
		Nodes:     []scene.Node{node("root", -1, mathutil.Vec3{})},
		BoundsMin: mathutil.Vec3{1, 2, 3},
		BoundsMax: mathutil.Vec3{1, 2, 3},
		HasBounds: true,
	}
	pose := Normalize(m, Params{})
	want := DefaultTargetHeight / DefaultMinHeight
	if math.Abs(pose.Scale-want) > 1e-9 {
		t.Fatalf("scale = %v, want floored %v", pose.Scale, want)
	}
}

func TestNormalize_BoundsFallbackPlacement(t *testing.T) {
	m := &scene.Model{
		Nodes:     []scene.Node{node("root", -1, mathutil.Vec3{})},
		BoundsMin: mathutil.Vec3{-1, 0.5, -2},
		BoundsMax: mathutil.Vec3{3, 2.5, 4},
		HasBounds: true,
	}
	pose := Normalize(m, Params{TargetHeight: 3.4})

	scale := 3.4 / 2.0
	if math.Abs(pose.Scale-scale) > 1e-9 {
		t.Fatalf("scale = %v, want %v", pose.Scale, scale)
	}
	if math.Abs(pose.CenterOffsetX-(-1*scale)) > 1e-9 {
		t.Fatalf("centerX = %v, want %v", pose.CenterOffsetX, -1*scale)
	}
	if math.Abs(pose.CenterOffsetZ-(-1*scale)) > 1e-9 {
		t.Fatalf("centerZ = %v, want %v", pose.CenterOffsetZ, -1*scale)
	}
	if math.Abs(pose.GroundOffsetY-(-0.5*scale)) > 1e-9 {
		t.Fatalf("groundY = %v, want %v", pose.GroundOffsetY, -0.5*scale)
	}
}

func TestNormalize_GroundJointPlacement(t *testing.T) {
	m := &scene.Model{
		Nodes: []scene.Node{
			node("root", -1, mathutil.Vec3{}),
			node("BUFFBONE_GLB_GROUND_LOC", 0, mathutil.Vec3{2, 0.4, -1}),
			node("C_BUFFBONE_GLB_OVERHEAD_LOC", 0, mathutil.Vec3{2, 3.0, -1}),
		},
		Joints: []int{1, 2},
	}
	pose := Normalize(m, Params{TargetHeight: 3.4, BaselineY: 0.2})

	scale := 3.4 / 2.6
	if math.Abs(pose.CenterOffsetX-(-2*scale)) > 1e-9 {
		t.Fatalf("centerX = %v, want %v", pose.CenterOffsetX, -2*scale)
	}
	if math.Abs(pose.CenterOffsetZ-(1*scale)) > 1e-9 {
		t.Fatalf("centerZ = %v, want %v", pose.CenterOffsetZ, 1*scale)
	}
	if math.Abs(pose.GroundOffsetY-(0.2-0.4*scale)) > 1e-9 {
		t.Fatalf("groundY = %v, want %v", pose.GroundOffsetY, 0.2-0.4*scale)
	}
}

func TestNormalize_NegativeScalesCorrected(t *testing.T) {
	m := jointModel(0, 3.6)
	m.Nodes[1].Scale = mathutil.Vec3{-1, 1, -2}
	Normalize(m, Params{})
	if got := m.Nodes[1].Scale; got != (mathutil.Vec3{1, 1, 2}) {
		t.Fatalf("scale = %v, want mirrored components corrected", got)
	}
}

func TestNormalize_PrimesIdlePose(t *testing.T) {
	m := jointModel(0, 3.6)
	m.Clips = []scene.Clip{
		{Name: "attack1"},
		{
			Name: "idle_base",
			Channels: []scene.Channel{{
				Node:  2,
				Path:  scene.PathTranslation,
				Times: []float64{0},
				Vecs:  []mathutil.Vec3{{0, 4.0, 0}},
			}},
		},
	}

	pose := Normalize(m, Params{})
	if pose.IdleClip != "idle_base" {
		t.Fatalf("idle clip = %q, want idle_base", pose.IdleClip)
	}
	if m.Playing != "idle_base" || !m.Paused {
		t.Fatalf("playback = (%q, paused=%t), want idle_base paused", m.Playing, m.Paused)
	}
	// The clip's first key must have been applied before measuring:
	// overhead moved to 4.0, so scale reflects the posed height.
	if got, want := pose.Scale, 3.4/4.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("scale = %v, want posed %v", got, want)
	}
}

func TestNormalize_ForcedIdleOverride(t *testing.T) {
	m := jointModel(0, 3.6)
	m.Clips = []scene.Clip{{Name: "idle_base"}, {Name: "idle_special"}}

	pose := Normalize(m, Params{ForcedIdle: "idle_special"})
	if pose.IdleClip != "idle_special" {
		t.Fatalf("idle clip = %q, want forced idle_special", pose.IdleClip)
	}

	// A forced clip that doesn't exist falls back to the heuristics.
	m2 := jointModel(0, 3.6)
	m2.Clips = []scene.Clip{{Name: "idle_base"}}
	pose = Normalize(m2, Params{ForcedIdle: "missing"})
	if pose.IdleClip != "idle_base" {
		t.Fatalf("idle clip = %q, want idle_base", pose.IdleClip)
	}
}
