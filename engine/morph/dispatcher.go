package morph

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/arkavo-org/vrmkit/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Runner executes one weighted-accumulation compute dispatch against the
// GPU: output[v] = base[v] + sum(weight[t] * delta[t][v]) over the active
// targets. The renderer backend implements it; tests substitute a fake.
type Runner interface {
	// CreateMorphBuffer allocates a storage buffer usable both as compute
	// output and as a position vertex stream.
	//
	// Parameters:
	//   - label: the debug label for the buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: non-nil when allocation failed
	CreateMorphBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// DispatchMorph encodes the compute work for one primitive into the
	// current frame's command stream.
	//
	// Parameters:
	//   - prim: the primitive whose base positions and delta buffer to read
	//   - output: the storage buffer receiving deformed positions
	//   - active: the non-trivial targets and their weights
	//   - vertexCount: the number of vertices to deform
	//   - workGroups: the x-dimension dispatch size
	//
	// Returns:
	//   - error: nil on success; a failed dispatch skips only that primitive
	DispatchMorph(prim *model.Primitive, output *wgpu.Buffer, active []ActiveTarget, vertexCount int, workGroups uint32) error
}

// dispatcher is the implementation of the Dispatcher interface.
type dispatcher struct {
	runner Runner
	pool   *bufferPool

	// outputs holds each primitive's persistent output buffer so repeated
	// frames reuse storage. published is the per-frame view handed to the
	// draw loop; BeginFrame clears it and Dispatch rebuilds it.
	outputs     map[uint64]*wgpu.Buffer
	outputSizes map[uint64]uint64
	published   map[uint64]*wgpu.Buffer

	workers    worker.DynamicWorkerPool
	numWorkers int
}

// Dispatcher decides once per frame whether GPU vertex deformation is
// needed, runs the compute pre-pass ahead of the main draw pass, and
// publishes output buffers addressable by the stable (mesh, primitive) key.
type Dispatcher interface {
	// Required reports whether any primitive needs deformation this frame.
	// When false the compute pass is skipped and nothing is published.
	//
	// Parameters:
	//   - m: the model to inspect; the caller must hold its lock
	//
	// Returns:
	//   - bool: true when a compute pre-pass is needed
	Required(m *model.Model) bool

	// BeginFrame invalidates the previous frame's published buffers. Called
	// once at the start of every frame, before Required is consulted, so a
	// frame whose weights all dropped below the threshold does not serve
	// stale deformed positions.
	BeginFrame()

	// Dispatch runs the compute pre-pass for every primitive with a
	// non-empty active target set and returns the published buffer map for
	// this frame. The map is valid only until the frame's command
	// submission; callers must not retain it.
	//
	// Parameters:
	//   - m: the model to deform; the caller must hold its lock
	//
	// Returns:
	//   - map[uint64]*wgpu.Buffer: deformed position buffers keyed by Key
	//   - error: non-nil only when no dispatch could be encoded at all
	Dispatch(m *model.Model) (map[uint64]*wgpu.Buffer, error)

	// Buffer looks up this frame's published output for a primitive key.
	//
	// Parameters:
	//   - key: the stable primitive key; see Key
	//
	// Returns:
	//   - *wgpu.Buffer: the deformed position buffer
	//   - bool: false when the primitive was not morphed this frame
	Buffer(key uint64) (*wgpu.Buffer, bool)

	// Reset returns all per-primitive buffers to the pool. Called when a
	// new model is loaded.
	Reset()

	// Release frees every GPU buffer owned by the dispatcher.
	Release()
}

var _ Dispatcher = &dispatcher{}

// DispatcherOption is a functional option for configuring a Dispatcher.
type DispatcherOption func(*dispatcher)

// WithWorkers sets the number of CPU workers used to scan primitives for
// active morph weights.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - DispatcherOption: the option to apply
func WithWorkers(n int) DispatcherOption {
	return func(d *dispatcher) {
		if n > 0 {
			d.numWorkers = n
		}
	}
}

// NewDispatcher constructs a Dispatcher that encodes compute work and
// allocates output storage through the given runner.
//
// Parameters:
//   - runner: the compute dispatch and allocation executor
//   - opts: optional configuration options
//
// Returns:
//   - Dispatcher: the constructed dispatcher
func NewDispatcher(runner Runner, opts ...DispatcherOption) Dispatcher {
	d := &dispatcher{
		runner:      runner,
		pool:        newBufferPool(runner.CreateMorphBuffer),
		outputs:     make(map[uint64]*wgpu.Buffer),
		outputSizes: make(map[uint64]uint64),
		published:   make(map[uint64]*wgpu.Buffer),
		numWorkers:  2,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.workers = worker.NewDynamicWorkerPool(d.numWorkers, 256, 1*time.Second)
	return d
}

func (d *dispatcher) Required(m *model.Model) bool {
	return Required(m)
}

func (d *dispatcher) BeginFrame() {
	d.published = make(map[uint64]*wgpu.Buffer)
}

func (d *dispatcher) Dispatch(m *model.Model) (map[uint64]*wgpu.Buffer, error) {
	d.published = make(map[uint64]*wgpu.Buffer)

	plan := d.buildPlan(m)
	for _, disp := range plan {
		prim := &m.Meshes[disp.MeshIndex].Primitives[disp.PrimIndexInMesh]
		size := uint64(disp.VertexCount) * 3 * 4

		out, err := d.output(disp.Key, size)
		if err != nil {
			logger.Warn("morph output allocation failed",
				zap.Int("mesh", disp.MeshIndex),
				zap.Int("primitive", disp.PrimIndexInMesh),
				zap.Error(err))
			continue
		}
		if err := d.runner.DispatchMorph(prim, out, disp.Active, disp.VertexCount, disp.WorkGroups); err != nil {
			logger.Warn("morph dispatch failed",
				zap.Int("mesh", disp.MeshIndex),
				zap.Int("primitive", disp.PrimIndexInMesh),
				zap.Error(err))
			continue
		}
		d.published[disp.Key] = out
	}
	return d.published, nil
}

func (d *dispatcher) Buffer(key uint64) (*wgpu.Buffer, bool) {
	buf, ok := d.published[key]
	return buf, ok
}

func (d *dispatcher) Reset() {
	for key, buf := range d.outputs {
		d.pool.put(buf, d.outputSizes[key])
		delete(d.outputs, key)
		delete(d.outputSizes, key)
	}
	d.published = make(map[uint64]*wgpu.Buffer)
}

func (d *dispatcher) Release() {
	for key, buf := range d.outputs {
		buf.Release()
		delete(d.outputs, key)
		delete(d.outputSizes, key)
	}
	d.published = nil
	d.pool.release()
}

// output returns the primitive's persistent output buffer, pulling a pooled
// or fresh allocation on first use.
func (d *dispatcher) output(key uint64, size uint64) (*wgpu.Buffer, error) {
	if buf, ok := d.outputs[key]; ok {
		return buf, nil
	}
	buf, err := d.pool.acquire(size, "morph_output")
	if err != nil {
		return nil, err
	}
	d.outputs[key] = buf
	d.outputSizes[key] = size
	return buf, nil
}

// buildPlan scans every primitive for active morph weights, one pool task
// per mesh, and flattens the results in mesh/primitive order so dispatch
// encoding stays deterministic.
func (d *dispatcher) buildPlan(m *model.Model) []Dispatch {
	perMesh := make([][]Dispatch, len(m.Meshes))

	var wg sync.WaitGroup
	for mi := range m.Meshes {
		mesh := &m.Meshes[mi]
		hasTargets := false
		for pi := range mesh.Primitives {
			if len(mesh.Primitives[pi].Targets) > 0 {
				hasTargets = true
				break
			}
		}
		if !hasTargets {
			continue
		}

		wg.Add(1)
		idx := mi
		d.workers.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				perMesh[idx] = scanMesh(idx, &m.Meshes[idx])
				return nil, nil
			},
		})
	}
	wg.Wait()

	var plan []Dispatch
	for _, dispatches := range perMesh {
		plan = append(plan, dispatches...)
	}
	return plan
}

// scanMesh builds the dispatch list for one mesh. Primitives whose active
// set is empty are skipped even when the compute pass runs for others.
func scanMesh(meshIndex int, mesh *model.Mesh) []Dispatch {
	var out []Dispatch
	for pi := range mesh.Primitives {
		prim := &mesh.Primitives[pi]
		if len(prim.Targets) == 0 {
			continue
		}
		active := activeTargets(mesh.Weights, len(prim.Targets))
		if len(active) == 0 {
			continue
		}
		out = append(out, Dispatch{
			Key:             Key(meshIndex, pi),
			MeshIndex:       meshIndex,
			PrimIndexInMesh: pi,
			VertexCount:     prim.VertexCount,
			Active:          active,
			WorkGroups:      uint32((prim.VertexCount + WorkgroupSize - 1) / WorkgroupSize),
		})
	}
	return out
}
