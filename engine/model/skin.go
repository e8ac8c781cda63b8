package model

// Skin maps a set of nodes onto joint matrices for vertex skinning.
type Skin struct {
	// Name is the skin identifier from the source asset.
	Name string

	// Joints holds the node arena index of each joint, in palette order.
	Joints []int

	// InverseBind holds one column-major 4x4 inverse bind matrix per joint.
	InverseBind [][16]float32

	// PaletteOffset is the byte offset of this skin's matrix range inside
	// the shared joint-matrix buffer. Assigned when the palette is built.
	PaletteOffset uint64
}
