package avatar

import (
	"fmt"
	"sync"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/arkavo-org/vrmkit/engine/morph"
	"github.com/arkavo-org/vrmkit/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// primCompute holds the per-primitive GPU resources for morph dispatch: the
// per-target weight array, the params uniform, and the bind group tying the
// primitive's buffers to the compute pipeline. The bind group is rebuilt when
// the pooled output buffer changes identity.
type primCompute struct {
	weightsBuffer *wgpu.Buffer
	paramsBuffer  *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	boundOutput   *wgpu.Buffer
	targetCount   int
}

// computeRunner implements morph.Runner on top of the renderer. It owns the
// per-primitive dispatch resources; output buffers belong to the dispatcher's
// pool.
type computeRunner struct {
	mu        sync.Mutex
	r         renderer.Renderer
	resources map[*model.Primitive]*primCompute
}

var _ morph.Runner = &computeRunner{}

func newComputeRunner(r renderer.Renderer) *computeRunner {
	return &computeRunner{
		r:         r,
		resources: make(map[*model.Primitive]*primCompute),
	}
}

func (c *computeRunner) CreateMorphBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return c.r.CreateEmptyBuffer(label, size,
		wgpu.BufferUsageStorage|wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
}

func (c *computeRunner) DispatchMorph(prim *model.Primitive, output *wgpu.Buffer, active []morph.ActiveTarget, vertexCount int, workGroups uint32) error {
	if prim.PositionBuffer == nil || prim.DeltaBuffer == nil {
		return fmt.Errorf("primitive buffers not uploaded")
	}

	res, err := c.ensure(prim, output, vertexCount)
	if err != nil {
		return err
	}

	// Write the full per-target weight array; inactive targets are zeroed so
	// the shader's weight test skips them.
	weights := make([]float32, res.targetCount)
	for _, a := range active {
		if a.Index >= 0 && a.Index < res.targetCount {
			weights[a.Index] = a.Weight
		}
	}
	c.r.WriteBuffer(res.weightsBuffer, 0, common.SliceToBytes(weights))

	params := morphParams{
		VertexCount: uint32(vertexCount),
		TargetCount: uint32(res.targetCount),
	}
	c.r.WriteBuffer(res.paramsBuffer, 0, common.StructToBytes(&params))

	return c.r.DispatchCompute(morphPipelineKey, res.bindGroup, [3]uint32{workGroups, 1, 1})
}

// ensure creates or refreshes the per-primitive dispatch resources.
func (c *computeRunner) ensure(prim *model.Primitive, output *wgpu.Buffer, vertexCount int) (*primCompute, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.resources[prim]
	if !ok {
		weightsBuffer, err := c.r.CreateEmptyBuffer("Morph Weights",
			uint64(len(prim.Targets))*4, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
		if err != nil {
			return nil, err
		}
		paramsBuffer, err := c.r.CreateEmptyBuffer("Morph Params",
			morphParamsSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			weightsBuffer.Release()
			return nil, err
		}
		res = &primCompute{
			weightsBuffer: weightsBuffer,
			paramsBuffer:  paramsBuffer,
			targetCount:   len(prim.Targets),
		}
		c.resources[prim] = res
	}

	if res.bindGroup == nil || res.boundOutput != output {
		p := c.r.Pipeline(morphPipelineKey)
		if p == nil {
			return nil, fmt.Errorf("morph pipeline not registered")
		}
		if res.bindGroup != nil {
			res.bindGroup.Release()
		}
		bg, err := c.r.CreateBindGroup("Morph Dispatch", p.BindGroupLayout(0), []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: prim.PositionBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: prim.DeltaBuffer, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: res.weightsBuffer, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: res.paramsBuffer, Size: wgpu.WholeSize},
			{Binding: 4, Buffer: output, Size: uint64(vertexCount) * 3 * 4},
		})
		if err != nil {
			return nil, err
		}
		res.bindGroup = bg
		res.boundOutput = output
	}

	return res, nil
}

// release frees all per-primitive dispatch resources. Called on model swap.
func (c *computeRunner) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, res := range c.resources {
		if res.bindGroup != nil {
			res.bindGroup.Release()
		}
		if res.weightsBuffer != nil {
			res.weightsBuffer.Release()
		}
		if res.paramsBuffer != nil {
			res.paramsBuffer.Release()
		}
	}
	c.resources = make(map[*model.Primitive]*primCompute)
}
