package avatar

import (
	_ "embed"

	"github.com/arkavo-org/vrmkit/engine/light"
	"github.com/arkavo-org/vrmkit/engine/renderer/pipeline"
	"github.com/arkavo-org/vrmkit/engine/renderer/shader"
	"github.com/arkavo-org/vrmkit/engine/renderitem"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed toon.wgsl
var toonWGSL string

//go:embed morph.wgsl
var morphWGSL string

// morphPipelineKey identifies the single compute pipeline used for morph
// target deformation.
const morphPipelineKey = "morph_deform"

// itemUniformStride is the byte stride between per-item uniform windows in
// the dynamic-offset buffer. 256 is the WebGPU minimum uniform buffer offset
// alignment.
const itemUniformStride = 256

// frameUniform matches the FrameUniform struct in toon.wgsl.
type frameUniform struct {
	View      [16]float32
	Proj      [16]float32
	CameraPos [4]float32
	Lighting  light.GPULighting
}

// itemUniform matches the ItemUniform struct in toon.wgsl. One window of the
// dynamic-offset buffer per sorted item per frame slot.
type itemUniform struct {
	Model     [16]float32
	BaseColor [4]float32
	Shade     [4]float32 // rgb shade color, w shade shift
	Params    [4]float32 // x shade toony, y alpha cutoff, z mask flag, w has texture
	Skin      [4]float32 // x palette offset in matrices, y skinned flag, z morphed flag
}

// morphParams matches the MorphParams struct in morph.wgsl.
type morphParams struct {
	VertexCount uint32
	TargetCount uint32
	_           uint32
	_           uint32
}

const (
	frameUniformSize = 64 + 64 + 16 + (light.MaxLights * 32) + 16
	itemUniformSize  = 64 + 16 + 16 + 16 + 16
	morphParamsSize  = 16
)

// renderBindGroupLayouts returns the bind group layout descriptors shared by
// every render pipeline variant: frame uniform, dynamic per-item uniform,
// joint palette, and material texture.
func renderBindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	return []wgpu.BindGroupLayoutDescriptor{
		{
			Label: "Frame Uniform Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: frameUniformSize,
					},
				},
			},
		},
		{
			Label: "Item Uniform Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:             wgpu.BufferBindingTypeUniform,
						HasDynamicOffset: true,
						MinBindingSize:   itemUniformSize,
					},
				},
			},
		},
		{
			Label: "Joint Palette Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeReadOnlyStorage,
						MinBindingSize: 64,
					},
				},
			},
		},
		{
			Label: "Material Texture Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeFloat,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Sampler: wgpu.SamplerBindingLayout{
						Type: wgpu.SamplerBindingTypeFiltering,
					},
				},
			},
		},
	}
}

// renderVertexLayouts returns the two vertex buffer slots: slot 0 carries
// positions alone so the draw loop can substitute a morph output buffer,
// slot 1 carries the interleaved remaining attributes.
func renderVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: attributeStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 3},
				{Format: wgpu.VertexFormatUint16x4, Offset: 36, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 44, ShaderLocation: 5},
			},
		},
	}
}

// buildRenderPipeline constructs the pipeline object for one (variant, state)
// combination. The pipeline is not compiled until it is registered with the
// renderer.
func buildRenderPipeline(v renderitem.Variant, st renderitem.State) pipeline.Pipeline {
	vertexEntry := "vs_rigid"
	if v.Skinned {
		vertexEntry = "vs_skinned"
	}
	topology := wgpu.PrimitiveTopologyTriangleList
	if v.Wireframe {
		topology = wgpu.PrimitiveTopologyLineList
	}

	return pipeline.NewPipeline(renderitem.PipelineKey(v, st), pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(shader.NewShader("toon_vertex", toonWGSL, shader.ShaderTypeVertex, vertexEntry)),
		pipeline.WithFragmentShader(shader.NewShader("toon_fragment", toonWGSL, shader.ShaderTypeFragment, "fs_main")),
		pipeline.WithBindGroupLayoutDescriptors(renderBindGroupLayouts()...),
		pipeline.WithVertexLayouts(renderVertexLayouts()...),
		pipeline.WithTopology(topology),
		pipeline.WithBlendEnabled(v.Blend),
		pipeline.WithCullMode(st.Cull),
		pipeline.WithDepthWriteEnabled(st.DepthWrite),
		pipeline.WithDepthBias(st.DepthBias, st.DepthBiasSlopeScale),
	)
}

// buildMorphPipeline constructs the compute pipeline for morph deformation.
func buildMorphPipeline(workgroupSize uint32) pipeline.Pipeline {
	return pipeline.NewPipeline(morphPipelineKey, pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(shader.NewShader("morph_deform", morphWGSL, shader.ShaderTypeCompute, "cs_main",
			shader.WithWorkGroupSize(workgroupSize, 1, 1))),
		pipeline.WithBindGroupLayoutDescriptors(wgpu.BindGroupLayoutDescriptor{
			Label: "Morph Deform Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageCompute,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageCompute,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
				{
					Binding:    2,
					Visibility: wgpu.ShaderStageCompute,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
				{
					Binding:    3,
					Visibility: wgpu.ShaderStageCompute,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: morphParamsSize},
				},
				{
					Binding:    4,
					Visibility: wgpu.ShaderStageCompute,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
				},
			},
		}),
	)
}
