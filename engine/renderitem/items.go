package renderitem

import (
	"github.com/arkavo-org/vrmkit/engine/model"
)

// RenderItem is one drawable (node, mesh, primitive) triple with its
// resolved classification for the frame. Items are built once per model
// load and never mutated in place; only the depth field is refreshed as the
// camera moves.
type RenderItem struct {
	// NodeIndex, MeshIndex and PrimIndexInMesh locate the primitive in the
	// model arenas.
	NodeIndex       int
	MeshIndex       int
	PrimIndexInMesh int

	// Index is the stable enumeration index, assigned in node/mesh/primitive
	// order. It is the final sort tie-break.
	Index int

	// MaterialIndex is the material arena index, or -1.
	MaterialIndex int

	// Category, Bucket and the effective material state come from the
	// classifier.
	Category             Category
	Bucket               int
	DeclaredAlphaMode    model.AlphaMode
	EffectiveAlphaMode   model.AlphaMode
	EffectiveCutoff      float32
	EffectiveDoubleSided bool

	// RenderQueue is the material's authored draw-priority value.
	RenderQueue int

	// Skinned reports whether the primitive is vertex-skinned.
	Skinned bool

	// Depth is the camera-space distance of the item's node, refreshed by
	// ComputeDepths for items that sort back-to-front.
	Depth float32
}

// MorphKey returns the stable identifier used to address this primitive's
// transient morph output buffer.
func (it *RenderItem) MorphKey() uint64 {
	return uint64(it.MeshIndex)<<32 | uint64(uint32(it.PrimIndexInMesh))
}

// BuildItems flattens the model into one RenderItem per (node with a mesh,
// primitive) pair, in node/mesh/primitive enumeration order. Missing or out
// of range material indices classify with opaque defaults.
//
// Parameters:
//   - m: the model to flatten; the caller must hold its lock
//
// Returns:
//   - []RenderItem: the classified drawable list in enumeration order
func BuildItems(m *model.Model) []RenderItem {
	hasSkins := len(m.Skins) > 0
	items := make([]RenderItem, 0, 16)
	index := 0
	for ni := range m.Nodes {
		node := &m.Nodes[ni]
		if node.Mesh < 0 || node.Mesh >= len(m.Meshes) {
			continue
		}
		mesh := &m.Meshes[node.Mesh]
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]

			materialName := ""
			declared := model.AlphaOpaque
			cutoff := float32(0.5)
			doubleSided := false
			queue := 0
			matIndex := -1
			if prim.Material >= 0 && prim.Material < len(m.Materials) {
				mat := &m.Materials[prim.Material]
				matIndex = prim.Material
				materialName = mat.Name
				declared = mat.AlphaMode
				cutoff = mat.AlphaCutoff
				doubleSided = mat.DoubleSided
				queue = mat.RenderQueue
			}

			c := Classify(materialName, node.Name, mesh.Name, declared, cutoff, doubleSided)

			items = append(items, RenderItem{
				NodeIndex:            ni,
				MeshIndex:            node.Mesh,
				PrimIndexInMesh:      pi,
				Index:                index,
				MaterialIndex:        matIndex,
				Category:             c.Category,
				Bucket:               c.Bucket,
				DeclaredAlphaMode:    declared,
				EffectiveAlphaMode:   c.EffectiveAlphaMode,
				EffectiveCutoff:      c.EffectiveCutoff,
				EffectiveDoubleSided: c.EffectiveDoubleSided,
				RenderQueue:          queue,
				Skinned:              hasSkins && (node.Skin >= 0 || prim.Skinned()),
			})
			index++
		}
	}
	return items
}
