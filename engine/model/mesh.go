package model

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MorphTarget holds the per-vertex deltas for one blend shape of a primitive.
type MorphTarget struct {
	// Name is the target identifier from the source asset, when present.
	Name string

	// PositionDeltas holds 3 floats per vertex, added to the base position
	// scaled by the target's weight.
	PositionDeltas []float32

	// NormalDeltas holds 3 floats per vertex, or nil when the target does
	// not deform normals.
	NormalDeltas []float32
}

// Primitive is one drawable unit of a mesh: a single vertex/index range
// bound to a single material.
type Primitive struct {
	// Material is the index into the model's material arena, or -1 when the
	// primitive has no material.
	Material int

	// VertexCount is the number of vertices in the attribute arrays.
	VertexCount int

	// Positions holds 3 floats per vertex.
	Positions []float32

	// Normals holds 3 floats per vertex, or nil.
	Normals []float32

	// UVs holds 2 floats per vertex, or nil.
	UVs []float32

	// Colors holds 4 floats per vertex, or nil.
	Colors []float32

	// Joints holds 4 joint indices per vertex, or nil for rigid geometry.
	Joints []uint16

	// Weights holds 4 skinning weights per vertex, or nil.
	Weights []float32

	// Indices is the triangle index list.
	Indices []uint32

	// Targets holds the primitive's morph targets in asset order.
	Targets []MorphTarget

	// GPU buffers, populated once at upload time and immutable afterwards.
	// PositionBuffer carries Vertex and Storage usage so it can serve both
	// as the rigid vertex stream and as the compute input for morphing.
	PositionBuffer  *wgpu.Buffer
	AttributeBuffer *wgpu.Buffer
	IndexBuffer     *wgpu.Buffer

	// DeltaBuffer is the packed morph target delta storage buffer, or nil
	// when the primitive has no targets.
	DeltaBuffer *wgpu.Buffer
}

// Skinned reports whether the primitive carries joint and weight attributes.
func (p *Primitive) Skinned() bool {
	return len(p.Joints) > 0 && len(p.Weights) > 0
}

// Mesh is a named group of primitives sharing one set of morph weights.
type Mesh struct {
	// Name is the mesh identifier from the source asset.
	Name string

	// Primitives holds the drawable units of the mesh.
	Primitives []Primitive

	// Weights is the current morph weight per target. All primitives of the
	// mesh share this array; entries align with each primitive's Targets.
	Weights []float32
}
