package model

import (
	"fmt"
	"sync"

	"github.com/arkavo-org/vrmkit/common"
)

// Model is a loaded avatar: flat arenas of nodes, meshes, materials and
// skins, referencing each other by index. The zero value is empty and ready
// to be populated.
//
// Optional references (Node.Mesh, Node.Skin, Primitive.Material,
// Material.BaseColorTexture) use -1 as the "none" sentinel. Builders must
// set it explicitly: the zero value reads as a reference to entry 0.
//
// A Model is shared between the animation tick and the render loop. Holding
// the lock makes the transform hierarchy, morph weights and skin palettes
// mutually consistent for the duration of a frame encode.
type Model struct {
	mu sync.Mutex

	// Name is the model identifier, usually derived from the asset path.
	Name string

	// Nodes is the transform hierarchy arena.
	Nodes []Node

	// Meshes holds the model's meshes.
	Meshes []Mesh

	// Materials holds the model's materials.
	Materials []Material

	// Skins holds the model's skins.
	Skins []Skin

	// Textures holds decoded texture images referenced by materials.
	Textures []common.TextureStagingData

	generation uint64
}

// Lock acquires the model for a consistent read or write of its mutable
// state. The render loop holds it across command encoding.
func (m *Model) Lock() { m.mu.Lock() }

// Unlock releases the model.
func (m *Model) Unlock() { m.mu.Unlock() }

// Generation returns a counter that changes whenever the model's structure
// is modified. Callers caching derived per-primitive data compare it to
// detect staleness.
func (m *Model) Generation() uint64 { return m.generation }

// MarkChanged bumps the structural generation counter. Loaders call it after
// appending nodes, meshes, materials or skins.
func (m *Model) MarkChanged() { m.generation++ }

// Skinned reports whether any primitive in the model carries skinning
// attributes.
func (m *Model) Skinned() bool {
	for i := range m.Meshes {
		for j := range m.Meshes[i].Primitives {
			if m.Meshes[i].Primitives[j].Skinned() {
				return true
			}
		}
	}
	return false
}

// UpdateWorldTransforms recomposes every node's world matrix from its local
// transform and its parent's world matrix. Nodes must be ordered so that a
// parent always precedes its children, which loaders guarantee by appending
// in traversal order.
func (m *Model) UpdateWorldTransforms() {
	var local [16]float32
	for i := range m.Nodes {
		n := &m.Nodes[i]
		n.LocalMatrix(local[:])
		if n.Parent < 0 {
			copy(n.World[:], local[:])
			continue
		}
		common.Mul4(n.World[:], m.Nodes[n.Parent].World[:], local[:])
	}
}

// Validate checks the model's cross-arena references and attribute sizing.
// It returns the first inconsistency found, or nil when the model is sound.
func (m *Model) Validate() error {
	for i := range m.Nodes {
		n := &m.Nodes[i]
		// UpdateWorldTransforms walks the arena in order, so a parent must
		// precede its children; a forward or self reference would compose
		// against a stale world matrix.
		if n.Parent >= i {
			return fmt.Errorf("model: node %q parent index %d must precede node index %d", n.Name, n.Parent, i)
		}
		if n.Mesh >= len(m.Meshes) {
			return fmt.Errorf("model: node %q mesh index %d out of range", n.Name, n.Mesh)
		}
		if n.Skin >= len(m.Skins) {
			return fmt.Errorf("model: node %q skin index %d out of range", n.Name, n.Skin)
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(m.Nodes) {
				return fmt.Errorf("model: node %q child index %d out of range", n.Name, c)
			}
		}
	}
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		for j := range mesh.Primitives {
			p := &mesh.Primitives[j]
			if p.Material >= len(m.Materials) {
				return fmt.Errorf("model: mesh %q primitive %d material index %d out of range", mesh.Name, j, p.Material)
			}
			if len(p.Positions) != p.VertexCount*3 {
				return fmt.Errorf("model: mesh %q primitive %d position count %d does not match %d vertices", mesh.Name, j, len(p.Positions)/3, p.VertexCount)
			}
			for k, idx := range p.Indices {
				if int(idx) >= p.VertexCount {
					return fmt.Errorf("model: mesh %q primitive %d index %d references vertex %d past %d", mesh.Name, j, k, idx, p.VertexCount)
				}
			}
			for k := range p.Targets {
				t := &p.Targets[k]
				if len(t.PositionDeltas) != p.VertexCount*3 {
					return fmt.Errorf("model: mesh %q primitive %d target %d delta count %d does not match %d vertices", mesh.Name, j, k, len(t.PositionDeltas)/3, p.VertexCount)
				}
			}
			if len(p.Targets) > 0 && len(mesh.Weights) < len(p.Targets) {
				return fmt.Errorf("model: mesh %q has %d weights for %d targets", mesh.Name, len(mesh.Weights), len(p.Targets))
			}
		}
	}
	for i := range m.Skins {
		s := &m.Skins[i]
		if len(s.InverseBind) != len(s.Joints) {
			return fmt.Errorf("model: skin %q has %d inverse bind matrices for %d joints", s.Name, len(s.InverseBind), len(s.Joints))
		}
		for _, j := range s.Joints {
			if j < 0 || j >= len(m.Nodes) {
				return fmt.Errorf("model: skin %q joint index %d out of range", s.Name, j)
			}
		}
	}
	for i := range m.Materials {
		if m.Materials[i].BaseColorTexture >= len(m.Textures) {
			return fmt.Errorf("model: material %q texture index %d out of range", m.Materials[i].Name, m.Materials[i].BaseColorTexture)
		}
	}
	return nil
}
