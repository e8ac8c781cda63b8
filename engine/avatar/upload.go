package avatar

import (
	"fmt"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexAttributes is the interleaved layout of vertex slot 1, matching the
// second entry of renderVertexLayouts. Positions live in slot 0 so a morph
// output buffer can replace them without touching the other attributes.
type vertexAttributes struct {
	Normal  [3]float32
	UV      [2]float32
	Color   [4]float32
	Joints  [4]uint16
	Weights [4]float32
}

const attributeStride = 60

// uploadPrimitive creates the GPU buffers for one primitive: the position
// stream, the interleaved attribute stream, the index buffer, and the packed
// morph delta buffer when targets are present.
func (a *avatar) uploadPrimitive(label string, prim *model.Primitive) error {
	positions, err := a.r.CreateBuffer(label+" Positions",
		common.SliceToBytes(prim.Positions),
		wgpu.BufferUsageVertex|wgpu.BufferUsageStorage)
	if err != nil {
		return fmt.Errorf("position buffer: %w", err)
	}
	prim.PositionBuffer = positions

	attrs, err := a.r.CreateBuffer(label+" Attributes",
		common.SliceToBytes(interleaveAttributes(prim)),
		wgpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("attribute buffer: %w", err)
	}
	prim.AttributeBuffer = attrs

	indices := prim.Indices
	if len(indices) == 0 {
		// Non-indexed primitives draw with a sequential index buffer so the
		// draw loop has a single indexed path.
		indices = make([]uint32, prim.VertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indexBuffer, err := a.r.CreateBuffer(label+" Indices",
		common.SliceToBytes(indices), wgpu.BufferUsageIndex)
	if err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	prim.IndexBuffer = indexBuffer

	if len(prim.Targets) > 0 {
		deltas, err := a.r.CreateBuffer(label+" Morph Deltas",
			common.SliceToBytes(packDeltas(prim)), wgpu.BufferUsageStorage)
		if err != nil {
			return fmt.Errorf("delta buffer: %w", err)
		}
		prim.DeltaBuffer = deltas
	}

	return nil
}

// releaseBuffer frees one GPU buffer. Indirection over wgpu's release lets
// tests observe buffer lifetimes without a device.
var releaseBuffer = (*wgpu.Buffer).Release

// releasePrimitiveBuffers frees the geometry buffers uploaded for every
// primitive of the model and clears the handles, so a model swap or
// re-upload does not leak the outgoing geometry.
func releasePrimitiveBuffers(m *model.Model) {
	for mi := range m.Meshes {
		for pi := range m.Meshes[mi].Primitives {
			p := &m.Meshes[mi].Primitives[pi]
			for _, buf := range []**wgpu.Buffer{&p.PositionBuffer, &p.AttributeBuffer, &p.IndexBuffer, &p.DeltaBuffer} {
				if *buf != nil {
					releaseBuffer(*buf)
					*buf = nil
				}
			}
		}
	}
}

// interleaveAttributes builds the slot-1 vertex stream from the primitive's
// attribute arrays, filling defaults for attributes the primitive lacks.
func interleaveAttributes(prim *model.Primitive) []vertexAttributes {
	out := make([]vertexAttributes, prim.VertexCount)
	for i := range out {
		v := &out[i]
		v.Normal = [3]float32{0, 0, 1}
		v.Color = [4]float32{1, 1, 1, 1}
		v.Weights = [4]float32{0, 0, 0, 0}

		if len(prim.Normals) >= (i+1)*3 {
			copy(v.Normal[:], prim.Normals[i*3:i*3+3])
		}
		if len(prim.UVs) >= (i+1)*2 {
			copy(v.UV[:], prim.UVs[i*2:i*2+2])
		}
		if len(prim.Colors) >= (i+1)*4 {
			copy(v.Color[:], prim.Colors[i*4:i*4+4])
		}
		if len(prim.Joints) >= (i+1)*4 {
			copy(v.Joints[:], prim.Joints[i*4:i*4+4])
		}
		if len(prim.Weights) >= (i+1)*4 {
			copy(v.Weights[:], prim.Weights[i*4:i*4+4])
		}
	}
	return out
}

// packDeltas concatenates the morph target position deltas target-major, the
// layout the deform shader indexes by (target * vertexCount + vertex) * 3.
func packDeltas(prim *model.Primitive) []float32 {
	stride := prim.VertexCount * 3
	out := make([]float32, len(prim.Targets)*stride)
	for t, target := range prim.Targets {
		copy(out[t*stride:(t+1)*stride], target.PositionDeltas)
	}
	return out
}
