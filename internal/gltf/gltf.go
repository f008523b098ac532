// Package gltf parses binary glTF (.glb) containers into scene models.
// Only the subset the viewer needs is read: the node hierarchy, the first
// skin's joints, animation channels, and POSITION bounds. Mesh geometry
// itself stays with the render surface.
package gltf

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"champ-model-viewer/internal/mathutil"
	"champ-model-viewer/internal/scene"
)

const (
	glbMagic    = 0x46546C67 // "glTF"
	chunkJSON   = 0x4E4F534A
	chunkBIN    = 0x004E4942
	compFloat32 = 5126
)

// Parse reads a .glb file and returns a scene model.
func Parse(path string) (*scene.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: read %s: %w", path, err)
	}
	m, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("gltf: %s: %w", path, err)
	}
	return m, nil
}

// Decode parses raw GLB bytes.
func Decode(raw []byte) (*scene.Model, error) {
	if len(raw) < 12 || binary.LittleEndian.Uint32(raw[0:4]) != glbMagic {
		return nil, fmt.Errorf("gltf: not a GLB container")
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != 2 {
		return nil, fmt.Errorf("gltf: unsupported container version %d", version)
	}

	var jsonChunk, binChunk []byte
	off := 12
	for off+8 <= len(raw) {
		length := int(binary.LittleEndian.Uint32(raw[off : off+4]))
		kind := binary.LittleEndian.Uint32(raw[off+4 : off+8])
		off += 8
		if off+length > len(raw) {
			return nil, fmt.Errorf("gltf: truncated chunk at %d", off)
		}
		switch kind {
		case chunkJSON:
			jsonChunk = raw[off : off+length]
		case chunkBIN:
			binChunk = raw[off : off+length]
		}
		off += length
	}
	if jsonChunk == nil {
		return nil, fmt.Errorf("gltf: missing JSON chunk")
	}

	var doc document
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("gltf: parse JSON chunk: %w", err)
	}
	return build(&doc, binChunk)
}

// document mirrors the subset of the glTF 2.0 schema the viewer reads.
type document struct {
	Nodes       []jsonNode       `json:"nodes"`
	Skins       []jsonSkin       `json:"skins"`
	Meshes      []jsonMesh       `json:"meshes"`
	Animations  []jsonAnimation  `json:"animations"`
	Accessors   []jsonAccessor   `json:"accessors"`
	BufferViews []jsonBufferView `json:"bufferViews"`
}

type jsonNode struct {
	Name        string       `json:"name"`
	Children    []int        `json:"children"`
	Mesh        *int         `json:"mesh"`
	Translation *[3]float64  `json:"translation"`
	Rotation    *[4]float64  `json:"rotation"`
	Scale       *[3]float64  `json:"scale"`
	Matrix      *[16]float64 `json:"matrix"`
}

type jsonSkin struct {
	Joints []int `json:"joints"`
}

type jsonMesh struct {
	Primitives []struct {
		Attributes map[string]int `json:"attributes"`
	} `json:"primitives"`
}

type jsonAnimation struct {
	Name     string `json:"name"`
	Channels []struct {
		Sampler int `json:"sampler"`
		Target  struct {
			Node *int   `json:"node"`
			Path string `json:"path"`
		} `json:"target"`
	} `json:"channels"`
	Samplers []struct {
		Input  int `json:"input"`
		Output int `json:"output"`
	} `json:"samplers"`
}

type jsonAccessor struct {
	BufferView    *int      `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min"`
	Max           []float64 `json:"max"`
}

type jsonBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

func build(doc *document, bin []byte) (*scene.Model, error) {
	m := &scene.Model{RootScale: 1}

	// Nodes with defaults; parent links from children lists.
	m.Nodes = make([]scene.Node, len(doc.Nodes))
	for i, jn := range doc.Nodes {
		n := scene.Node{
			Name:     jn.Name,
			Parent:   -1,
			Rotation: mathutil.QuatIdentity(),
			Scale:    mathutil.Vec3{1, 1, 1},
		}
		if jn.Translation != nil {
			n.Translation = mathutil.Vec3(*jn.Translation)
		}
		if jn.Rotation != nil {
			n.Rotation = mathutil.Quat(*jn.Rotation).Normalize()
		}
		if jn.Scale != nil {
			n.Scale = mathutil.Vec3(*jn.Scale)
		}
		if jn.Matrix != nil {
			// Matrix nodes appear on static props only; take the
			// translation and column-length scale, drop rotation.
			mat := *jn.Matrix // column-major per glTF
			n.Translation = mathutil.Vec3{mat[12], mat[13], mat[14]}
			n.Scale = mathutil.Vec3{
				mathutil.Vec3{mat[0], mat[1], mat[2]}.Len(),
				mathutil.Vec3{mat[4], mat[5], mat[6]}.Len(),
				mathutil.Vec3{mat[8], mat[9], mat[10]}.Len(),
			}
		}
		m.Nodes[i] = n
	}
	for i, jn := range doc.Nodes {
		for _, c := range jn.Children {
			if c >= 0 && c < len(m.Nodes) {
				m.Nodes[c].Parent = i
			}
		}
	}

	if len(doc.Skins) > 0 {
		m.Joints = append(m.Joints, doc.Skins[0].Joints...)
	}

	// Combined visible-mesh bounds from POSITION accessor min/max,
	// transformed into model space through each mesh node's world matrix.
	worlds := m.WorldMatrices()
	for i, jn := range doc.Nodes {
		if jn.Mesh == nil || *jn.Mesh < 0 || *jn.Mesh >= len(doc.Meshes) {
			continue
		}
		for _, prim := range doc.Meshes[*jn.Mesh].Primitives {
			ai, ok := prim.Attributes["POSITION"]
			if !ok || ai < 0 || ai >= len(doc.Accessors) {
				continue
			}
			acc := doc.Accessors[ai]
			if len(acc.Min) < 3 || len(acc.Max) < 3 {
				continue
			}
			mergeBounds(m, worlds[i],
				mathutil.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]},
				mathutil.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]})
		}
	}

	// Animations.
	for i, ja := range doc.Animations {
		name := ja.Name
		if name == "" {
			name = fmt.Sprintf("animation-%d", i)
		}
		clip := scene.Clip{Name: name}
		for _, jc := range ja.Channels {
			if jc.Target.Node == nil || jc.Sampler < 0 || jc.Sampler >= len(ja.Samplers) {
				continue
			}
			samp := ja.Samplers[jc.Sampler]
			times, err := readFloats(doc, bin, samp.Input, 1)
			if err != nil {
				return nil, err
			}
			ch := scene.Channel{Node: *jc.Target.Node}
			switch jc.Target.Path {
			case "translation", "scale":
				ch.Path = scene.PathTranslation
				if jc.Target.Path == "scale" {
					ch.Path = scene.PathScale
				}
				vals, err := readFloats(doc, bin, samp.Output, 3)
				if err != nil {
					return nil, err
				}
				for v := 0; v+2 < len(vals); v += 3 {
					ch.Vecs = append(ch.Vecs, mathutil.Vec3{vals[v], vals[v+1], vals[v+2]})
				}
			case "rotation":
				ch.Path = scene.PathRotation
				vals, err := readFloats(doc, bin, samp.Output, 4)
				if err != nil {
					return nil, err
				}
				for v := 0; v+3 < len(vals); v += 4 {
					ch.Quats = append(ch.Quats, mathutil.Quat{vals[v], vals[v+1], vals[v+2], vals[v+3]})
				}
			default:
				continue // morph weights not used
			}
			for t := 0; t < len(times); t++ {
				ch.Times = append(ch.Times, times[t])
			}
			clip.Channels = append(clip.Channels, ch)
		}
		m.Clips = append(m.Clips, clip)
	}

	return m, nil
}

func mergeBounds(m *scene.Model, world mathutil.Mat4, lo, hi mathutil.Vec3) {
	// Transform all eight corners; an axis-aligned box doesn't survive
	// rotation otherwise.
	for _, x := range []float64{lo[0], hi[0]} {
		for _, y := range []float64{lo[1], hi[1]} {
			for _, z := range []float64{lo[2], hi[2]} {
				p := world.MulPoint(mathutil.Vec3{x, y, z})
				if !m.HasBounds {
					m.BoundsMin, m.BoundsMax = p, p
					m.HasBounds = true
					continue
				}
				m.BoundsMin = mathutil.Min(m.BoundsMin, p)
				m.BoundsMax = mathutil.Max(m.BoundsMax, p)
			}
		}
	}
}

// readFloats reads a float32 accessor with comps components per element.
func readFloats(doc *document, bin []byte, accIdx, comps int) ([]float64, error) {
	if accIdx < 0 || accIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("gltf: accessor %d out of range", accIdx)
	}
	acc := doc.Accessors[accIdx]
	if acc.ComponentType != compFloat32 {
		return nil, fmt.Errorf("gltf: accessor %d: component type %d unsupported", accIdx, acc.ComponentType)
	}
	if acc.BufferView == nil {
		return make([]float64, acc.Count*comps), nil // sparse-less zeroed accessor
	}
	bv := *acc.BufferView
	if bv < 0 || bv >= len(doc.BufferViews) {
		return nil, fmt.Errorf("gltf: accessor %d: buffer view %d out of range", accIdx, bv)
	}
	view := doc.BufferViews[bv]
	stride := view.ByteStride
	if stride == 0 {
		stride = comps * 4
	}

	out := make([]float64, 0, acc.Count*comps)
	base := view.ByteOffset + acc.ByteOffset
	for i := 0; i < acc.Count; i++ {
		off := base + i*stride
		if off+comps*4 > len(bin) || off+comps*4 > view.ByteOffset+view.ByteLength {
			return nil, fmt.Errorf("gltf: accessor %d: element %d past buffer", accIdx, i)
		}
		for c := 0; c < comps; c++ {
			bits := binary.LittleEndian.Uint32(bin[off+c*4:])
			out = append(out, float64(math.Float32frombits(bits)))
		}
	}
	return out, nil
}
