package avatar

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaveAttributesDefaults(t *testing.T) {
	prim := &model.Primitive{
		VertexCount: 2,
		Positions:   make([]float32, 6),
	}

	out := interleaveAttributes(prim)
	require.Len(t, out, 2)
	assert.Equal(t, [3]float32{0, 0, 1}, out[0].Normal)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, out[1].Color)
	assert.Equal(t, [4]float32{0, 0, 0, 0}, out[0].Weights)
}

func TestInterleaveAttributesCopiesData(t *testing.T) {
	prim := &model.Primitive{
		VertexCount: 2,
		Positions:   make([]float32, 6),
		Normals:     []float32{1, 0, 0, 0, 1, 0},
		UVs:         []float32{0.25, 0.5, 0.75, 1},
		Joints:      []uint16{1, 2, 3, 4, 5, 6, 7, 8},
		Weights:     []float32{1, 0, 0, 0, 0.5, 0.5, 0, 0},
	}

	out := interleaveAttributes(prim)
	require.Len(t, out, 2)
	assert.Equal(t, [3]float32{1, 0, 0}, out[0].Normal)
	assert.Equal(t, [2]float32{0.75, 1}, out[1].UV)
	assert.Equal(t, [4]uint16{5, 6, 7, 8}, out[1].Joints)
	assert.Equal(t, [4]float32{0.5, 0.5, 0, 0}, out[1].Weights)
}

func TestReleasePrimitiveBuffersFreesAllHandles(t *testing.T) {
	released := 0
	orig := releaseBuffer
	releaseBuffer = func(*wgpu.Buffer) { released++ }
	defer func() { releaseBuffer = orig }()

	m := &model.Model{
		Meshes: []model.Mesh{
			{
				Name: "Body",
				Primitives: []model.Primitive{
					{
						PositionBuffer:  new(wgpu.Buffer),
						AttributeBuffer: new(wgpu.Buffer),
						IndexBuffer:     new(wgpu.Buffer),
						DeltaBuffer:     new(wgpu.Buffer),
					},
					{
						// Rigid, non-morphed primitives have no delta buffer.
						PositionBuffer:  new(wgpu.Buffer),
						AttributeBuffer: new(wgpu.Buffer),
						IndexBuffer:     new(wgpu.Buffer),
					},
				},
			},
		},
	}

	releasePrimitiveBuffers(m)
	assert.Equal(t, 7, released)

	// Handles are cleared so a double release is a no-op.
	releasePrimitiveBuffers(m)
	assert.Equal(t, 7, released)
	for _, p := range m.Meshes[0].Primitives {
		assert.Nil(t, p.PositionBuffer)
		assert.Nil(t, p.AttributeBuffer)
		assert.Nil(t, p.IndexBuffer)
		assert.Nil(t, p.DeltaBuffer)
	}
}

func TestPackDeltasTargetMajor(t *testing.T) {
	prim := &model.Primitive{
		VertexCount: 2,
		Targets: []model.MorphTarget{
			{PositionDeltas: []float32{1, 2, 3, 4, 5, 6}},
			{PositionDeltas: []float32{7, 8, 9, 10, 11, 12}},
		},
	}

	packed := packDeltas(prim)
	require.Len(t, packed, 12)
	// Target 1, vertex 0 lives at (1*2+0)*3.
	assert.Equal(t, float32(7), packed[6])
	assert.Equal(t, float32(12), packed[11])
}
