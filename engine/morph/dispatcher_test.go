package morph

import (
	"errors"
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedDispatch struct {
	active      []ActiveTarget
	vertexCount int
	workGroups  uint32
}

type fakeRunner struct {
	dispatches   []recordedDispatch
	allocs       int
	failDispatch bool
}

func (f *fakeRunner) CreateMorphBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	f.allocs++
	return nil, nil
}

func (f *fakeRunner) DispatchMorph(prim *model.Primitive, output *wgpu.Buffer, active []ActiveTarget, vertexCount int, workGroups uint32) error {
	if f.failDispatch {
		return errors.New("compute encode failed")
	}
	f.dispatches = append(f.dispatches, recordedDispatch{active: active, vertexCount: vertexCount, workGroups: workGroups})
	return nil
}

func morphModel() *model.Model {
	targets := []model.MorphTarget{
		{Name: "smile", PositionDeltas: make([]float32, 300)},
		{Name: "blink", PositionDeltas: make([]float32, 300)},
	}
	return &model.Model{
		Meshes: []model.Mesh{
			{
				Name:    "Face",
				Weights: []float32{0, 0},
				Primitives: []model.Primitive{
					{VertexCount: 100, Positions: make([]float32, 300), Targets: targets},
				},
			},
			{
				Name: "Body",
				Primitives: []model.Primitive{
					{VertexCount: 50, Positions: make([]float32, 150)},
				},
			},
		},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, uint64(0), Key(0, 0))
	assert.Equal(t, uint64(1)<<32|5, Key(1, 5))
}

func TestActiveTargetsEpsilon(t *testing.T) {
	active := activeTargets([]float32{0, Epsilon, 0.5, 1e-5}, 4)
	require.Len(t, active, 1)
	assert.Equal(t, 2, active[0].Index)
	assert.Equal(t, float32(0.5), active[0].Weight)
}

func TestRequired(t *testing.T) {
	m := morphModel()
	assert.False(t, Required(m), "all weights zero")

	m.Meshes[0].Weights[1] = 0.3
	assert.True(t, Required(m))

	// More targets than the direct-bind limit force the compute path even
	// with zero weights.
	m = morphModel()
	many := make([]model.MorphTarget, DirectBindLimit+1)
	for i := range many {
		many[i].PositionDeltas = make([]float32, 300)
	}
	m.Meshes[0].Primitives[0].Targets = many
	m.Meshes[0].Weights = make([]float32, len(many))
	assert.True(t, Required(m))
}

func TestDispatchPublishesActiveOnly(t *testing.T) {
	m := morphModel()
	m.Meshes[0].Weights[0] = 0.7

	runner := &fakeRunner{}
	d := NewDispatcher(runner)

	published, err := d.Dispatch(m)
	require.NoError(t, err)
	require.Len(t, published, 1)

	_, ok := published[Key(0, 0)]
	assert.True(t, ok)
	_, ok = d.Buffer(Key(0, 0))
	assert.True(t, ok)
	_, ok = d.Buffer(Key(1, 0))
	assert.False(t, ok, "primitive without targets is never published")

	require.Len(t, runner.dispatches, 1)
	rec := runner.dispatches[0]
	assert.Equal(t, []ActiveTarget{{Index: 0, Weight: 0.7}}, rec.active)
	assert.Equal(t, 100, rec.vertexCount)
	assert.Equal(t, uint32(2), rec.workGroups)
}

func TestDispatchSkipsTrivialWeights(t *testing.T) {
	m := morphModel()
	m.Meshes[0].Weights = []float32{1e-5, 0}

	runner := &fakeRunner{}
	d := NewDispatcher(runner)

	published, err := d.Dispatch(m)
	require.NoError(t, err)
	assert.Empty(t, published)
	assert.Empty(t, runner.dispatches)
}

func TestBeginFrameInvalidatesPublished(t *testing.T) {
	m := morphModel()
	m.Meshes[0].Weights[0] = 0.7

	runner := &fakeRunner{}
	d := NewDispatcher(runner)

	// Frame 1: the weight is active, so the primitive is published.
	d.BeginFrame()
	require.True(t, d.Required(m))
	_, err := d.Dispatch(m)
	require.NoError(t, err)
	_, ok := d.Buffer(Key(0, 0))
	require.True(t, ok)

	// Frame 2: every weight dropped to zero. Required is false and no
	// dispatch runs, so the previous frame's buffer must not survive; the
	// draw loop falls back to the base positions.
	m.Meshes[0].Weights[0] = 0
	d.BeginFrame()
	assert.False(t, d.Required(m))
	_, ok = d.Buffer(Key(0, 0))
	assert.False(t, ok, "inactive frame must not serve the previous frame's deformed buffer")
}

func TestDispatchFailureSkipsItem(t *testing.T) {
	m := morphModel()
	m.Meshes[0].Weights[0] = 1

	runner := &fakeRunner{failDispatch: true}
	d := NewDispatcher(runner)

	published, err := d.Dispatch(m)
	require.NoError(t, err)
	assert.Empty(t, published, "failed dispatch must not publish")
}

func TestOutputBufferReuse(t *testing.T) {
	m := morphModel()
	m.Meshes[0].Weights[0] = 1

	runner := &fakeRunner{}
	d := NewDispatcher(runner)

	_, err := d.Dispatch(m)
	require.NoError(t, err)
	_, err = d.Dispatch(m)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.allocs, "repeated frames reuse the output buffer")

	// A model reload returns buffers to the pool; the next dispatch of a
	// same-sized primitive reuses them instead of allocating.
	d.Reset()
	_, ok := d.Buffer(Key(0, 0))
	assert.False(t, ok, "reset clears published buffers")

	_, err = d.Dispatch(m)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.allocs)
}

func TestPoolSizeClass(t *testing.T) {
	assert.Equal(t, uint64(2), poolSizeClass(1, 1))
	assert.Equal(t, uint64(1024), poolSizeClass(1000, 1))
	assert.Equal(t, uint64(1536), poolSizeClass(1100, 1))
}
