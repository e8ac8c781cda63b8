package avatar

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/light"
	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/arkavo-org/vrmkit/engine/morph"
	"github.com/arkavo-org/vrmkit/engine/renderer"
	"github.com/arkavo-org/vrmkit/engine/renderer/bind_group_provider"
	"github.com/arkavo-org/vrmkit/engine/renderitem"
	"github.com/arkavo-org/vrmkit/engine/skinning"
	"github.com/arkavo-org/vrmkit/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// FramesInFlight is the default depth of the per-frame uniform ring.
const FramesInFlight = 3

// ErrModelNotSet is returned by DrawFrame before a model has been loaded.
var ErrModelNotSet = errors.New("avatar: no model set")

// ErrVariantUnavailable is returned in strict mode when an item resolves to
// a pipeline variant that failed to compile or was never registered.
var ErrVariantUnavailable = errors.New("avatar: pipeline variant unavailable")

// frameSlot holds the per-frame GPU resources for one ring entry: the frame
// uniform and the dynamic-offset item uniform buffer with their bind groups.
type frameSlot struct {
	frameBuffer *wgpu.Buffer
	frameGroup  *wgpu.BindGroup
	itemBuffer  *wgpu.Buffer
	itemGroup   *wgpu.BindGroup
	capacity    int
}

// avatar is the implementation of the Avatar interface.
type avatar struct {
	mu sync.Mutex

	r          renderer.Renderer
	model      *model.Model
	cache      itemCache
	ring       *frameRing
	ringDepth  int
	slots      []frameSlot
	dispatcher morph.Dispatcher
	runner     *computeRunner
	palette    skinning.Palette
	rig        light.Rig

	paletteBuffer *wgpu.Buffer
	paletteGroup  *wgpu.BindGroup

	materials       []bind_group_provider.BindGroupProvider
	defaultMaterial bind_group_provider.BindGroupProvider

	// sorted and uniformScratch are reused across frames to avoid per-frame
	// allocation; only the encoding goroutine touches them.
	sorted         []renderitem.RenderItem
	uniformScratch []byte

	wireframe      bool
	disableCulling bool
	singleMesh     int
	strict         bool
	morphWorkers   int

	missingLogged map[string]bool
}

// Avatar is the per-frame entry point of the engine: it owns the render-item
// cache, the morph dispatcher, the joint palette, and the frame ring, and
// turns the current model state into one frame of GPU work.
type Avatar interface {
	// SetModel uploads the model's GPU resources, registers the pipeline
	// variants its items require, and makes it the drawn model. Blocks until
	// in-flight frames have completed. Passing the model that is already set
	// re-uploads it.
	//
	// Parameters:
	//   - m: the model to draw; must pass model.Validate
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	SetModel(m *model.Model) error

	// Model returns the currently drawn model, or nil.
	//
	// Returns:
	//   - *model.Model: the current model
	Model() *model.Model

	// DrawFrame encodes and submits one frame: morph compute, palette
	// upload, classification (cached), sorting, and the draw loop. Blocks
	// when all frame slots are in flight.
	//
	// Parameters:
	//   - view: the column-major view matrix
	//   - proj: the column-major projection matrix
	//
	// Returns:
	//   - error: ErrModelNotSet, a frame acquisition error, or (in strict
	//     mode) ErrVariantUnavailable; issued work is never unwound
	DrawFrame(view, proj [16]float32) error

	// Rig returns the light rig whose directions and colors feed the frame
	// uniform. Safe to mutate from any goroutine.
	//
	// Returns:
	//   - light.Rig: the toon light rig
	Rig() light.Rig

	// SetWireframe toggles line-list rendering for every item.
	//
	// Parameters:
	//   - enabled: true to draw wireframe
	SetWireframe(enabled bool)

	// SetDisableCulling forces cull mode off for every item. Debug toggle.
	//
	// Parameters:
	//   - disabled: true to disable face culling
	SetDisableCulling(disabled bool)

	// SetSingleMesh restricts drawing to one mesh index. Debug toggle.
	//
	// Parameters:
	//   - meshIndex: the mesh to draw, or -1 to draw all meshes
	SetSingleMesh(meshIndex int)

	// SetStrict makes DrawFrame return an error when an item's pipeline
	// variant is unavailable instead of skipping the item.
	//
	// Parameters:
	//   - strict: true to fail on missing variants
	SetStrict(strict bool)

	// Release frees the avatar's GPU resources. The avatar must not be used
	// afterwards.
	Release()
}

var _ Avatar = &avatar{}

// NewAvatar creates an Avatar drawing through the given renderer.
//
// Parameters:
//   - r: the renderer that owns the device and pipeline cache
//   - opts: a variadic list of AvatarBuilderOption functions
//
// Returns:
//   - Avatar: the configured avatar with an empty model slot
func NewAvatar(r renderer.Renderer, opts ...AvatarBuilderOption) Avatar {
	a := &avatar{
		r:             r,
		ringDepth:     FramesInFlight,
		palette:       skinning.NewPalette(),
		rig:           light.NewRig(),
		singleMesh:    -1,
		morphWorkers:  2,
		missingLogged: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.ring = newFrameRing(a.ringDepth)
	a.runner = newComputeRunner(r)
	a.dispatcher = morph.NewDispatcher(a.runner, morph.WithWorkers(a.morphWorkers))
	return a
}

func (a *avatar) SetModel(m *model.Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("model rejected: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Drain the ring so no in-flight frame references resources about to be
	// released, then refill it.
	for i := 0; i < a.ringDepth; i++ {
		a.ring.acquire()
	}
	a.r.WaitIdle()
	a.releaseModelResources()
	for i := 0; i < a.ringDepth; i++ {
		a.ring.release(i)
	}

	m.Lock()
	defer m.Unlock()
	m.UpdateWorldTransforms()

	for mi := range m.Meshes {
		mesh := &m.Meshes[mi]
		for pi := range mesh.Primitives {
			label := fmt.Sprintf("%s[%d]", mesh.Name, pi)
			if err := a.uploadPrimitive(label, &mesh.Primitives[pi]); err != nil {
				return fmt.Errorf("upload %s: %w", label, err)
			}
		}
	}

	a.cache.invalidate()
	items := a.cache.get(m)

	if err := a.registerPipelines(items); err != nil {
		// A failed variant is skipped at draw time; the rest of the load
		// continues.
		logger.Warn("pipeline registration incomplete", zap.Error(err))
	}

	layoutSource := a.anyRenderPipeline(items)
	if layoutSource == nil {
		return fmt.Errorf("no render pipeline variant compiled for model %q", m.Name)
	}

	if err := a.createPaletteResources(m, layoutSource); err != nil {
		return err
	}
	if err := a.createMaterialResources(m, layoutSource); err != nil {
		return err
	}
	if err := a.createFrameSlots(len(items), layoutSource); err != nil {
		return err
	}

	a.sorted = make([]renderitem.RenderItem, 0, len(items))
	a.uniformScratch = make([]byte, len(items)*itemUniformStride)
	a.model = m

	logger.Info("model loaded",
		zap.String("model", m.Name),
		zap.Int("items", len(items)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Bool("skinned", m.Skinned()))
	return nil
}

func (a *avatar) Model() *model.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *avatar) Rig() light.Rig {
	return a.rig
}

func (a *avatar) SetWireframe(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.wireframe = enabled
}

func (a *avatar) SetDisableCulling(disabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disableCulling = disabled
}

func (a *avatar) SetSingleMesh(meshIndex int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.singleMesh = meshIndex
}

func (a *avatar) SetStrict(strict bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.strict = strict
}

func (a *avatar) DrawFrame(view, proj [16]float32) error {
	a.mu.Lock()
	m := a.model
	wireframe := a.wireframe
	disableCulling := a.disableCulling
	singleMesh := a.singleMesh
	strict := a.strict
	a.mu.Unlock()

	if m == nil {
		return ErrModelNotSet
	}

	slotIndex := a.ring.acquire()
	slot := &a.slots[slotIndex]

	m.Lock()
	m.UpdateWorldTransforms()

	// Joint palette upload happens before any draw reads it this frame.
	a.palette.Update(m)
	if data := a.palette.Data(); len(data) > 0 {
		a.r.WriteBuffer(a.paletteBuffer, 0, common.SliceToBytes(data))
	}

	// Morph compute is submitted ahead of the render pass, so outputs are
	// ready when the draw loop binds them. Last frame's published buffers
	// are invalidated first; a frame with no active weights must fall back
	// to the base positions.
	a.dispatcher.BeginFrame()
	if a.dispatcher.Required(m) {
		if err := a.r.BeginComputeFrame(); err == nil {
			if _, err := a.dispatcher.Dispatch(m); err != nil {
				logger.Warn("morph dispatch failed", zap.Error(err))
			}
			a.r.EndComputeFrame()
		}
	}

	items := a.cache.get(m)
	a.sorted = append(a.sorted[:0], items...)
	renderitem.ComputeDepths(a.sorted, m, view[:])
	renderitem.SortItems(a.sorted)

	a.writeFrameUniform(slot, view, proj)
	a.writeItemUniforms(slot, m)

	var frameErr error
	if err := a.r.BeginFrame(); err != nil {
		m.Unlock()
		a.ring.release(slotIndex)
		return fmt.Errorf("begin frame: %w", err)
	}

	for i := range a.sorted {
		it := &a.sorted[i]
		if singleMesh >= 0 && it.MeshIndex != singleMesh {
			continue
		}

		st := renderitem.StateFor(it)
		if disableCulling {
			st.Cull = wgpu.CullModeNone
		}
		v := renderitem.SelectVariant(it, wireframe)
		key := renderitem.PipelineKey(v, st)

		p := a.r.Pipeline(key)
		if p == nil || p.Pipeline() == nil {
			if !a.missingLogged[key] {
				a.missingLogged[key] = true
				logger.Warn("skipping item with unavailable pipeline variant",
					zap.String("variant", key),
					zap.Int("node", it.NodeIndex),
					zap.String("category", it.Category.String()))
			}
			if strict && frameErr == nil {
				frameErr = fmt.Errorf("%w: %s", ErrVariantUnavailable, key)
			}
			continue
		}

		prim := &m.Meshes[it.MeshIndex].Primitives[it.PrimIndexInMesh]
		positions := prim.PositionBuffer
		if morphed, ok := a.dispatcher.Buffer(it.MorphKey()); ok {
			positions = morphed
		}

		indexCount := len(prim.Indices)
		if indexCount == 0 {
			indexCount = prim.VertexCount
		}

		if err := a.r.Draw(&renderer.DrawCommand{
			Pipeline:       p,
			BindGroups:     []*wgpu.BindGroup{slot.frameGroup, slot.itemGroup, a.paletteGroup, a.materialGroup(it.MaterialIndex)},
			DynamicOffsets: [][]uint32{nil, {uint32(i * itemUniformStride)}, nil, nil},
			VertexBuffers:  []*wgpu.Buffer{positions, prim.AttributeBuffer},
			IndexBuffer:    prim.IndexBuffer,
			IndexCount:     uint32(indexCount),
		}); err != nil && frameErr == nil {
			frameErr = err
		}
	}

	a.r.EndFrame()
	a.r.Present()
	m.Unlock()

	// The slot returns to the ring once the GPU is done with its uniforms.
	go func() {
		a.r.WaitIdle()
		a.ring.release(slotIndex)
	}()

	return frameErr
}

func (a *avatar) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.ringDepth; i++ {
		a.ring.acquire()
	}
	a.r.WaitIdle()
	a.releaseModelResources()
	a.model = nil
}

// writeFrameUniform uploads the slot's view/projection/lighting block.
func (a *avatar) writeFrameUniform(slot *frameSlot, view, proj [16]float32) {
	fu := frameUniform{
		View:     view,
		Proj:     proj,
		Lighting: a.rig.Uniform(),
	}
	var inv [16]float32
	if common.Invert4(inv[:], view[:]) {
		fu.CameraPos = [4]float32{inv[12], inv[13], inv[14], 1}
	}
	a.r.WriteBuffer(slot.frameBuffer, 0, common.StructToBytes(&fu))
}

// writeItemUniforms packs one itemUniform per sorted item into the slot's
// dynamic-offset buffer. Items beyond the slot capacity are dropped by the
// draw loop bounds; capacity matches the item count at load time.
func (a *avatar) writeItemUniforms(slot *frameSlot, m *model.Model) {
	n := len(a.sorted)
	if n > slot.capacity {
		n = slot.capacity
	}

	for i := 0; i < n; i++ {
		it := &a.sorted[i]
		node := &m.Nodes[it.NodeIndex]

		iu := itemUniform{
			Model:     node.World,
			BaseColor: [4]float32{1, 1, 1, 1},
			Shade:     [4]float32{1, 1, 1, 0},
			Params:    [4]float32{0.9, it.EffectiveCutoff, 0, 0},
		}
		if it.MaterialIndex >= 0 {
			mat := &m.Materials[it.MaterialIndex]
			iu.BaseColor = mat.BaseColor
			iu.Shade = [4]float32{mat.ShadeColor[0], mat.ShadeColor[1], mat.ShadeColor[2], mat.ShadeShift}
			iu.Params[0] = mat.ShadeToony
			if mat.BaseColorTexture >= 0 {
				iu.Params[3] = 1
			}
		}
		if it.EffectiveAlphaMode == model.AlphaMask {
			iu.Params[2] = 1
		}
		if it.Skinned && node.Skin >= 0 {
			iu.Skin[0] = float32(m.Skins[node.Skin].PaletteOffset / 64)
			iu.Skin[1] = 1
		}
		if _, ok := a.dispatcher.Buffer(it.MorphKey()); ok {
			iu.Skin[2] = 1
		}

		copy(a.uniformScratch[i*itemUniformStride:], common.StructToBytes(&iu))
	}

	a.r.WriteBuffer(slot.itemBuffer, 0, a.uniformScratch[:n*itemUniformStride])
}

// materialGroup returns the bind group for a material index, falling back to
// the white default for items without a material.
func (a *avatar) materialGroup(index int) *wgpu.BindGroup {
	if index >= 0 && index < len(a.materials) && a.materials[index] != nil {
		return a.materials[index].BindGroup()
	}
	return a.defaultMaterial.BindGroup()
}

// registerPipelines compiles the morph pipeline and every render variant the
// item set can resolve to, including the wireframe and culling-disabled
// toggles. Already-cached keys are skipped by the renderer.
func (a *avatar) registerPipelines(items []renderitem.RenderItem) error {
	needed := make(map[string]struct{})
	var pipelines []pipelineEntry

	add := func(v renderitem.Variant, st renderitem.State) {
		key := renderitem.PipelineKey(v, st)
		if _, ok := needed[key]; ok {
			return
		}
		needed[key] = struct{}{}
		pipelines = append(pipelines, pipelineEntry{variant: v, state: st})
	}

	for i := range items {
		it := &items[i]
		st := renderitem.StateFor(it)
		stNoCull := st
		stNoCull.Cull = wgpu.CullModeNone
		for _, wireframe := range []bool{false, true} {
			v := renderitem.SelectVariant(it, wireframe)
			add(v, st)
			add(v, stNoCull)
		}
	}

	// Deterministic registration order.
	sort.Slice(pipelines, func(i, j int) bool {
		return renderitem.PipelineKey(pipelines[i].variant, pipelines[i].state) <
			renderitem.PipelineKey(pipelines[j].variant, pipelines[j].state)
	})

	var firstErr error
	if err := a.r.RegisterPipelines(buildMorphPipeline(morph.WorkgroupSize)); err != nil {
		firstErr = err
	}
	for _, e := range pipelines {
		if err := a.r.RegisterPipelines(buildRenderPipeline(e.variant, e.state)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type pipelineEntry struct {
	variant renderitem.Variant
	state   renderitem.State
}

// anyRenderPipeline returns a compiled render pipeline to source shared bind
// group layouts from, or nil when none compiled.
func (a *avatar) anyRenderPipeline(items []renderitem.RenderItem) pipelineSource {
	for i := range items {
		it := &items[i]
		key := renderitem.PipelineKey(renderitem.SelectVariant(it, false), renderitem.StateFor(it))
		if p := a.r.Pipeline(key); p != nil && p.Pipeline() != nil {
			return p
		}
	}
	return nil
}

// pipelineSource is the slice of the pipeline API the resource setup needs.
type pipelineSource interface {
	BindGroupLayout(group int) *wgpu.BindGroupLayout
}

// createPaletteResources lays out the joint palette and creates its storage
// buffer and bind group. Models without skins get a single identity matrix
// so the palette binding is always valid.
func (a *avatar) createPaletteResources(m *model.Model, src pipelineSource) error {
	a.palette.Layout(m)

	size := a.palette.ByteSize()
	if size < 64 {
		size = 64
	}
	buf, err := a.r.CreateEmptyBuffer("Joint Palette", size,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("palette buffer: %w", err)
	}
	group, err := a.r.CreateBindGroup("Joint Palette", src.BindGroupLayout(2), []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("palette bind group: %w", err)
	}
	a.paletteBuffer = buf
	a.paletteGroup = group
	return nil
}

// createMaterialResources builds one texture/sampler bind group per material
// plus the white default used by material-less primitives.
func (a *avatar) createMaterialResources(m *model.Model, src pipelineSource) error {
	white := common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	}

	build := func(label string, staging common.TextureStagingData) (bind_group_provider.BindGroupProvider, error) {
		provider := bind_group_provider.NewBindGroupProvider(label,
			bind_group_provider.WithBindGroupLayout(src.BindGroupLayout(3)))
		if err := a.r.InitTextureView(provider, 0, staging); err != nil {
			return nil, err
		}
		if err := a.r.InitSampler(provider, 1, common.SamplerStagingData{}); err != nil {
			return nil, err
		}
		if err := a.r.InitBindGroup(provider, *materialLayoutDescriptor(), nil, nil); err != nil {
			return nil, err
		}
		return provider, nil
	}

	def, err := build("Default Material", white)
	if err != nil {
		return fmt.Errorf("default material: %w", err)
	}
	a.defaultMaterial = def

	a.materials = make([]bind_group_provider.BindGroupProvider, len(m.Materials))
	for i := range m.Materials {
		mat := &m.Materials[i]
		staging := white
		if mat.BaseColorTexture >= 0 && mat.BaseColorTexture < len(m.Textures) {
			staging = m.Textures[mat.BaseColorTexture]
		}
		provider, err := build(mat.Name, staging)
		if err != nil {
			return fmt.Errorf("material %q: %w", mat.Name, err)
		}
		a.materials[i] = provider
	}
	return nil
}

// materialLayoutDescriptor returns the group 3 layout descriptor used when
// initializing material providers.
func materialLayoutDescriptor() *wgpu.BindGroupLayoutDescriptor {
	layouts := renderBindGroupLayouts()
	return &layouts[3]
}

// createFrameSlots allocates the ring's per-frame uniform buffers and bind
// groups, sized to the model's item count.
func (a *avatar) createFrameSlots(itemCount int, src pipelineSource) error {
	if itemCount < 1 {
		itemCount = 1
	}

	a.slots = make([]frameSlot, a.ringDepth)
	for i := range a.slots {
		frameBuffer, err := a.r.CreateEmptyBuffer(fmt.Sprintf("Frame Uniform %d", i),
			frameUniformSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("frame uniform %d: %w", i, err)
		}
		frameGroup, err := a.r.CreateBindGroup(fmt.Sprintf("Frame Uniform %d", i),
			src.BindGroupLayout(0), []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: frameBuffer, Size: wgpu.WholeSize},
			})
		if err != nil {
			return fmt.Errorf("frame bind group %d: %w", i, err)
		}
		itemBuffer, err := a.r.CreateEmptyBuffer(fmt.Sprintf("Item Uniforms %d", i),
			uint64(itemCount)*itemUniformStride, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("item uniforms %d: %w", i, err)
		}
		itemGroup, err := a.r.CreateBindGroup(fmt.Sprintf("Item Uniforms %d", i),
			src.BindGroupLayout(1), []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: itemBuffer, Size: itemUniformSize},
			})
		if err != nil {
			return fmt.Errorf("item bind group %d: %w", i, err)
		}

		a.slots[i] = frameSlot{
			frameBuffer: frameBuffer,
			frameGroup:  frameGroup,
			itemBuffer:  itemBuffer,
			itemGroup:   itemGroup,
			capacity:    itemCount,
		}
	}
	return nil
}

// releaseModelResources frees every GPU resource tied to the current model.
// Callers must have drained the frame ring and waited for the GPU first.
func (a *avatar) releaseModelResources() {
	a.dispatcher.Reset()
	a.dispatcher.Release()
	a.runner.release()

	if a.model != nil {
		a.model.Lock()
		releasePrimitiveBuffers(a.model)
		a.model.Unlock()
		a.model = nil
	}

	if a.paletteGroup != nil {
		a.paletteGroup.Release()
		a.paletteGroup = nil
	}
	if a.paletteBuffer != nil {
		a.paletteBuffer.Release()
		a.paletteBuffer = nil
	}
	for _, p := range a.materials {
		if p != nil {
			p.Release()
		}
	}
	a.materials = nil
	if a.defaultMaterial != nil {
		a.defaultMaterial.Release()
		a.defaultMaterial = nil
	}
	for i := range a.slots {
		s := &a.slots[i]
		if s.frameGroup != nil {
			s.frameGroup.Release()
		}
		if s.frameBuffer != nil {
			s.frameBuffer.Release()
		}
		if s.itemGroup != nil {
			s.itemGroup.Release()
		}
		if s.itemBuffer != nil {
			s.itemBuffer.Release()
		}
	}
	a.slots = nil
	a.cache.invalidate()
}
