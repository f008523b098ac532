// Package scene holds the in-memory representation of a loaded model: a
// node hierarchy with local transforms, the skin's joint set, and named
// animation clips. Ownership stays with the render surface; the normalizer
// only reads it and mutates transform state.
package scene

import (
	"champ-model-viewer/internal/mathutil"
	"champ-model-viewer/internal/patterns"
)

// Node is one transform node in the scene graph.
type Node struct {
	Name        string
	Parent      int // index into Model.Nodes, -1 for roots
	Translation mathutil.Vec3
	Rotation    mathutil.Quat
	Scale       mathutil.Vec3
}

// Model is a loaded mesh+skeleton+animation bundle of unknown scale,
// orientation, and pose.
type Model struct {
	Nodes  []Node
	Joints []int // node indices belonging to the skin
	Clips  []Clip

	// Combined visible-mesh bounds in model space at bind pose.
	BoundsMin, BoundsMax mathutil.Vec3
	HasBounds            bool

	// Root display transform, written by normalization.
	RootScale  float64
	RootOffset mathutil.Vec3
	Visible    bool

	// Playback state.
	Playing string
	Paused  bool
	time    float64
}

// ClipNames returns the clip names in authoring order.
func (m *Model) ClipNames() []string {
	names := make([]string, len(m.Clips))
	for i := range m.Clips {
		names[i] = m.Clips[i].Name
	}
	return names
}

// FindClip returns the clip with the given name, or nil.
func (m *Model) FindClip(name string) *Clip {
	for i := range m.Clips {
		if m.Clips[i].Name == name {
			return &m.Clips[i]
		}
	}
	return nil
}

// Play selects a clip for playback from its start. Reports whether the
// clip exists.
func (m *Model) Play(name string) bool {
	if m.FindClip(name) == nil {
		return false
	}
	m.Playing = name
	m.Paused = false
	m.time = 0
	return true
}

// Advance moves the timeline forward and applies the playing clip's pose
// to the node hierarchy.
func (m *Model) Advance(dt float64) {
	clip := m.FindClip(m.Playing)
	if clip == nil || m.Paused {
		return
	}
	m.time += dt
	clip.Apply(m, m.time)
}

// Pause freezes playback at the current pose.
func (m *Model) Pause() {
	m.Paused = true
}

// WorldMatrices computes world transforms for every node from the current
// local TRS state. Parent order is not assumed; chains are resolved
// recursively with memoization.
func (m *Model) WorldMatrices() []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(m.Nodes))
	resolved := make([]bool, len(m.Nodes))

	var world func(i int) mathutil.Mat4
	world = func(i int) mathutil.Mat4 {
		if resolved[i] {
			return worlds[i]
		}
		resolved[i] = true // set first: guards against parent cycles
		n := &m.Nodes[i]
		local := mathutil.FromTRS(n.Translation, n.Rotation, n.Scale)
		if n.Parent >= 0 && n.Parent < len(m.Nodes) && n.Parent != i {
			worlds[i] = mathutil.Mat4Mul(world(n.Parent), local)
		} else {
			worlds[i] = local
		}
		return worlds[i]
	}

	for i := range m.Nodes {
		world(i)
	}
	return worlds
}

// FindJoint returns the index of the first joint node whose normalized
// name matches one of the given names, scanning names in priority order.
func (m *Model) FindJoint(names []string) (int, bool) {
	for _, want := range names {
		for _, ji := range m.Joints {
			if ji < 0 || ji >= len(m.Nodes) {
				continue
			}
			if patterns.NormalizeName(m.Nodes[ji].Name) == want {
				return ji, true
			}
		}
	}
	return 0, false
}

// JointWorldPosition returns the world-space position of a joint node.
func (m *Model) JointWorldPosition(node int) mathutil.Vec3 {
	return m.WorldMatrices()[node].Translation()
}
