// Package normalize computes a canonical on-screen size, ground position,
// and idle pose for an arbitrarily-authored model. Every step degrades to
// the next heuristic tier on missing data; there is no error path.
package normalize

import (
	"math"

	"champ-model-viewer/internal/mathutil"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/scene"
)

// Defaults for display tuning. TargetHeight is world units the posed model
// should stand; MinHeight floors degenerate measurements so scale stays
// finite.
const (
	DefaultTargetHeight = 3.4
	DefaultMinHeight    = 0.1
	heightEpsilon       = 1e-6

	// One animation tick, enough to move the skeleton off the bind pose.
	tick = 1.0 / 30.0
)

// Pose is the normalized display transform derived once per loaded model.
// Immutable until a new model loads.
type Pose struct {
	Scale         float64
	GroundOffsetY float64
	CenterOffsetX float64
	CenterOffsetZ float64
	IdleClip      string
}

// Params tunes normalization. Zero values fall back to the defaults.
type Params struct {
	TargetHeight float64
	BaselineY    float64
	MinHeight    float64
	Tables       *patterns.Tables
	ForcedIdle   string // hand-tuned override; used only if the clip exists
}

func (p *Params) fill() {
	if p.TargetHeight <= 0 {
		p.TargetHeight = DefaultTargetHeight
	}
	if p.MinHeight <= 0 {
		p.MinHeight = DefaultMinHeight
	}
	if p.Tables == nil {
		p.Tables = patterns.Default()
	}
}

// Normalize poses, measures, scales, and places the model, mutating its
// transform state in place. The model is marked visible only at the end so
// it never shows unposed or unscaled.
func Normalize(m *scene.Model, p Params) Pose {
	p.fill()

	// Idle clip: prime a posed, non-animating display.
	idle := p.ForcedIdle
	if idle == "" || m.FindClip(idle) == nil {
		idle = SelectIdleClip(m.ClipNames(), p.Tables)
	}
	if idle != "" && m.Play(idle) {
		m.Advance(tick)
		m.Pause()
	}

	// Some authored assets carry mirrored negative scales that would
	// invert geometry once reparented.
	for i := range m.Nodes {
		m.Nodes[i].Scale = m.Nodes[i].Scale.Abs()
	}

	height, ground, hasGround := measure(m, p)
	scale := p.TargetHeight / math.Max(height, heightEpsilon)

	pose := Pose{Scale: scale, IdleClip: idle}
	if hasGround {
		pose.CenterOffsetX = -ground[0] * scale
		pose.CenterOffsetZ = -ground[2] * scale
		pose.GroundOffsetY = p.BaselineY - ground[1]*scale
	} else if m.HasBounds {
		cx := (m.BoundsMin[0] + m.BoundsMax[0]) / 2
		cz := (m.BoundsMin[2] + m.BoundsMax[2]) / 2
		pose.CenterOffsetX = -cx * scale
		pose.CenterOffsetZ = -cz * scale
		pose.GroundOffsetY = p.BaselineY - m.BoundsMin[1]*scale
	} else {
		pose.GroundOffsetY = p.BaselineY
	}

	m.RootScale = scale
	m.RootOffset[0] = pose.CenterOffsetX
	m.RootOffset[1] = pose.GroundOffsetY
	m.RootOffset[2] = pose.CenterOffsetZ
	m.Visible = true
	return pose
}

// measure returns the model height plus the ground reference point when
// one exists. Preference order: reference joints, mesh bounds, fixed
// floor.
func measure(m *scene.Model, p Params) (height float64, ground mathutil.Vec3, hasGround bool) {
	gi, gok := m.FindJoint(p.Tables.GroundJoints)
	oi, ook := m.FindJoint(p.Tables.OverheadJoints)
	if gok && ook {
		g := m.JointWorldPosition(gi)
		o := m.JointWorldPosition(oi)
		h := math.Abs(o[1] - g[1])
		if h > 0 {
			return h, g, true
		}
	}
	if gok {
		g := m.JointWorldPosition(gi)
		ground, hasGround = g, true
	}

	if m.HasBounds {
		h := m.BoundsMax[1] - m.BoundsMin[1]
		if h > 0 {
			return h, ground, hasGround
		}
	}

	return p.MinHeight, ground, hasGround
}
