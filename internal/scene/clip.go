package scene

import "champ-model-viewer/internal/mathutil"

// ChannelPath selects which node property a channel animates.
type ChannelPath int

const (
	PathTranslation ChannelPath = iota
	PathRotation
	PathScale
)

// Channel carries the keyframes for one node property. Rotation channels
// use Quats; the others use Vecs. Times are ascending seconds.
type Channel struct {
	Node  int
	Path  ChannelPath
	Times []float64
	Vecs  []mathutil.Vec3
	Quats []mathutil.Quat
}

// Clip is one named animation.
type Clip struct {
	Name     string
	Channels []Channel
}

// Duration returns the last keyframe time across all channels.
func (c *Clip) Duration() float64 {
	var d float64
	for i := range c.Channels {
		ts := c.Channels[i].Times
		if len(ts) > 0 && ts[len(ts)-1] > d {
			d = ts[len(ts)-1]
		}
	}
	return d
}

// Apply writes the clip's pose at time t into the model's node transforms.
// Sampling is step interpolation: the last keyframe at or before t wins,
// clamped to the first and last keys.
func (c *Clip) Apply(m *Model, t float64) {
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Node < 0 || ch.Node >= len(m.Nodes) || len(ch.Times) == 0 {
			continue
		}
		k := keyAt(ch.Times, t)
		n := &m.Nodes[ch.Node]
		switch ch.Path {
		case PathTranslation:
			if k < len(ch.Vecs) {
				n.Translation = ch.Vecs[k]
			}
		case PathRotation:
			if k < len(ch.Quats) {
				n.Rotation = ch.Quats[k].Normalize()
			}
		case PathScale:
			if k < len(ch.Vecs) {
				n.Scale = ch.Vecs[k]
			}
		}
	}
}

// keyAt returns the index of the last key time <= t, or 0 when t precedes
// every key.
func keyAt(times []float64, t float64) int {
	k := 0
	for i, ts := range times {
		if ts > t {
			break
		}
		k = i
	}
	return k
}
