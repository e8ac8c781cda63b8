package avatar

import (
	"testing"
	"unsafe"

	"github.com/arkavo-org/vrmkit/engine/renderitem"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformSizesMatchDeclaredLayouts(t *testing.T) {
	assert.Equal(t, uintptr(frameUniformSize), unsafe.Sizeof(frameUniform{}))
	assert.Equal(t, uintptr(itemUniformSize), unsafe.Sizeof(itemUniform{}))
	assert.Equal(t, uintptr(morphParamsSize), unsafe.Sizeof(morphParams{}))
	assert.Equal(t, uintptr(attributeStride), unsafe.Sizeof(vertexAttributes{}))
}

func TestBuildRenderPipelineVariants(t *testing.T) {
	st := renderitem.State{DepthWrite: true, Cull: wgpu.CullModeBack}

	solid := buildRenderPipeline(renderitem.Variant{Skinned: true}, st)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, solid.Topology())
	assert.False(t, solid.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, solid.CullMode())

	wire := buildRenderPipeline(renderitem.Variant{Wireframe: true}, st)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, wire.Topology())

	blend := buildRenderPipeline(renderitem.Variant{Blend: true}, renderitem.State{})
	assert.True(t, blend.BlendEnabled())
	assert.False(t, blend.DepthWriteEnabled())

	assert.NotEqual(t, solid.PipelineKey(), wire.PipelineKey())
	assert.NotEqual(t, solid.PipelineKey(), blend.PipelineKey())
}

func TestRenderLayoutsCoverFourGroups(t *testing.T) {
	layouts := renderBindGroupLayouts()
	require.Len(t, layouts, 4)

	assert.True(t, layouts[1].Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(itemUniformSize), layouts[1].Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, layouts[2].Entries[0].Buffer.Type)
}

func TestRenderVertexLayoutStrides(t *testing.T) {
	layouts := renderVertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(12), layouts[0].ArrayStride)
	assert.Equal(t, uint64(attributeStride), layouts[1].ArrayStride)

	// Attribute offsets stay 4-byte aligned as WebGPU requires.
	for _, attr := range layouts[1].Attributes {
		assert.Zero(t, attr.Offset%4)
	}
}
