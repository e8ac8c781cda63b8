package model

import (
	"github.com/arkavo-org/vrmkit/common"
)

// Node is a single entry in the model's transform hierarchy. Nodes are stored
// in a flat arena on the Model and reference each other by index.
type Node struct {
	// Name is the node identifier from the source asset.
	Name string

	// Parent is the arena index of the parent node, or -1 for a root.
	Parent int

	// Children holds the arena indices of child nodes.
	Children []int

	// Translation is the local position offset.
	Translation [3]float32

	// Rotation is the local orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the local scale factor along each axis.
	Scale [3]float32

	// Matrix, when non-nil, overrides the decomposed TRS components as the
	// local transform. Column-major 4x4.
	Matrix *[16]float32

	// World is the composed model-space transform, column-major 4x4. It is
	// refreshed by Model.UpdateWorldTransforms.
	World [16]float32

	// Mesh is the index of the mesh attached to this node, or -1.
	Mesh int

	// Skin is the index of the skin deforming the attached mesh, or -1.
	Skin int
}

// LocalMatrix composes the node's local transform into out, which must hold
// 16 floats. The raw matrix override takes precedence over the TRS
// components.
func (n *Node) LocalMatrix(out []float32) {
	if n.Matrix != nil {
		copy(out, n.Matrix[:])
		return
	}
	common.ComposeTRS(out, n.Translation, n.Rotation, n.Scale)
}
