package renderer

import (
	"fmt"
	"sync"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/renderer/bind_group_provider"
	"github.com/arkavo-org/vrmkit/engine/renderer/pipeline"
	"github.com/arkavo-org/vrmkit/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawCommand describes a single indexed draw: the pipeline to bind, the bind
// groups in group order with optional dynamic offsets, the vertex buffers in
// slot order, and the index buffer to draw from.
type DrawCommand struct {
	Pipeline pipeline.Pipeline

	// BindGroups are set in group order starting at group 0.
	BindGroups []*wgpu.BindGroup

	// DynamicOffsets holds the dynamic offsets for each bind group, parallel
	// to BindGroups. A nil entry means the group has no dynamic bindings.
	DynamicOffsets [][]uint32

	// VertexBuffers are set in slot order starting at slot 0.
	VertexBuffers []*wgpu.Buffer

	IndexBuffer *wgpu.Buffer
	IndexCount  uint32
}

type renderer struct {
	mu            *sync.Mutex
	backend       RendererBackend
	backendType   RendererBackendType
	pipelineCache map[string]pipeline.Pipeline

	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	forceFallbackAdapter bool
}

// Renderer is the top-level facade over the GPU backend. It owns the pipeline
// cache and exposes the per-frame render and compute entry points along with
// resource creation helpers used during model upload.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered
	// to the display. A call to Resize is required after changing this for the new mode to
	// take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves a cached pipeline by its key, or nil if no pipeline is registered
	// under that key.
	//
	// Parameters:
	//   - key: the unique identifier for the pipeline
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline, or nil
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines compiles and caches the provided pipelines. Pipelines already
	// cached under the same key are skipped. Render and compute pipelines are dispatched
	// to the appropriate backend registration.
	//
	// Parameters:
	//   - pipelines: the pipelines to compile and cache
	//
	// Returns:
	//   - error: the first registration error encountered, otherwise nil
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// CreateBuffer creates a GPU buffer with the given usage and uploads the provided
	// data to it.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - data: the bytes to upload; the buffer size matches len(data)
	//   - usage: the buffer usage flags (CopyDst is added automatically)
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if the buffer could not be created
	CreateBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// CreateEmptyBuffer creates a zero-initialized GPU buffer of the given size.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if the buffer could not be created
	CreateEmptyBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// WriteBuffer uploads data to an existing GPU buffer at the given byte offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to upload
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// CreateBindGroup creates a bind group from an explicit layout and entries.
	//
	// Parameters:
	//   - label: a debug label for the bind group
	//   - layout: the bind group layout the entries must conform to
	//   - entries: the resource bindings
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: an error if the bind group could not be created
	CreateBindGroup(label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error)

	// InitBindGroup creates the layout, backing buffers, and bind group for a provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the layout descriptor describing each binding
	//   - bufferUsageOverrides: additional buffer usage flags keyed by binding
	//   - bufferSizeOverrides: buffer sizes keyed by binding, overriding MinBindingSize
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a texture from staging data and stores the view on the
	// provider under the given binding key.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture view on
	//   - bindingKey: the binding index the view belongs to
	//   - stagingData: the CPU-side pixel data and dimensions
	//
	// Returns:
	//   - error: an error if the texture could not be created
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler from staging data and stores it on the provider
	// under the given binding key.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index the sampler belongs to
	//   - samplerStagingData: the sampler configuration; zero values fall back to defaults
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// BeginComputeFrame creates a command encoder for batching the frame's compute
	// dispatches into one GPU submission.
	//
	// Returns:
	//   - error: an error if the command encoder could not be created
	BeginComputeFrame() error

	// DispatchCompute encodes a compute pass within the current batched compute frame.
	//
	// Parameters:
	//   - pipelineKey: the key of the cached compute pipeline to dispatch
	//   - bindGroup: the bind group set at group 0 for the dispatch
	//   - workGroupCount: the number of workgroups in the x, y, and z dimensions
	//
	// Returns:
	//   - error: an error if no pipeline is cached under the key
	DispatchCompute(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error

	// EndComputeFrame finishes the batched compute encoder and submits it to the GPU queue.
	EndComputeFrame()

	// BeginFrame acquires the next surface texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// Draw encodes a single indexed draw within the current frame's render pass.
	//
	// Parameters:
	//   - cmd: the draw command describing pipeline, bind groups, and buffers
	//
	// Returns:
	//   - error: an error if the command references an uncompiled pipeline
	Draw(cmd *DrawCommand) error

	// EndFrame ends the render pass and submits the frame's command buffer to the GPU queue.
	EndFrame()

	// Present presents the most recently submitted frame to the surface.
	Present()

	// WaitIdle blocks until the GPU has finished all submitted work.
	WaitIdle()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, targeting
// the given window's surface.
//
// Parameters:
//   - backendType: the GPU backend to use (currently only BackendTypeWGPU)
//   - window: the window whose surface the renderer presents to
//   - options: a variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer with its surface ready for rendering
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}

		var err error
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			err = r.backend.RegisterComputePipeline(p)
		case pipeline.PipelineTypeRender:
			err = r.backend.RegisterRenderPipeline(p)
		default:
			err = fmt.Errorf("unknown pipeline type for key %s", key)
		}
		if err != nil {
			return fmt.Errorf("failed to register pipeline %s: %w", key, err)
		}

		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) CreateBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return r.backend.CreateBuffer(label, data, usage)
}

func (r *renderer) CreateEmptyBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return r.backend.CreateEmptyBuffer(label, size, usage)
}

func (r *renderer) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) CreateBindGroup(label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	return r.backend.CreateBindGroup(label, layout, entries)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) BeginComputeFrame() error {
	return r.backend.BeginComputeFrame()
}

func (r *renderer) DispatchCompute(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("no compute pipeline cached under key %s", pipelineKey)
	}
	r.backend.DispatchCompute(p, bindGroup, workGroupCount)
	return nil
}

func (r *renderer) EndComputeFrame() {
	r.backend.EndComputeFrame()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(cmd *DrawCommand) error {
	if cmd.Pipeline == nil || cmd.Pipeline.Pipeline() == nil {
		return fmt.Errorf("draw command references an uncompiled pipeline")
	}
	r.backend.Draw(cmd)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) WaitIdle() {
	r.backend.WaitIdle()
}
