package renderitem

import (
	"testing"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortBucketOrder(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: 5, Category: CategoryEye},
		{Index: 1, Bucket: 0, Category: CategoryBody},
		{Index: 2, Bucket: 2, Category: CategoryEyebrow},
		{Index: 3, Bucket: 1, Category: CategorySkin},
	}
	SortItems(items)

	got := make([]int, len(items))
	for i := range items {
		got[i] = items[i].Bucket
	}
	assert.Equal(t, []int{0, 1, 2, 5}, got)
}

func TestSortRenderQueueWithinBucket(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: 0, RenderQueue: 2000},
		{Index: 1, Bucket: 0, RenderQueue: 1000},
	}
	SortItems(items)
	assert.Equal(t, 1000, items[0].RenderQueue)
	assert.Equal(t, 2000, items[1].RenderQueue)
}

func TestSortTransparencyBackToFront(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: CategoryBlend.Bucket(), Depth: 2.0},
		{Index: 1, Bucket: CategoryBlend.Bucket(), Depth: 5.0},
	}
	SortItems(items)

	// Farther items draw first.
	assert.Equal(t, float32(5.0), items[0].Depth)
	assert.Equal(t, float32(2.0), items[1].Depth)
}

func TestSortTransparentQueueBackToFront(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: 0, RenderQueue: 3000, Depth: 1.0},
		{Index: 1, Bucket: 0, RenderQueue: 3000, Depth: 4.0},
	}
	SortItems(items)
	assert.Equal(t, float32(4.0), items[0].Depth)
}

func TestSortStable(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: 1, RenderQueue: 100},
		{Index: 1, Bucket: 1, RenderQueue: 100},
		{Index: 2, Bucket: 1, RenderQueue: 100},
	}
	SortItems(items)
	for i := range items {
		assert.Equal(t, i, items[i].Index)
	}
}

func TestSortOpaqueIgnoresDepth(t *testing.T) {
	items := []RenderItem{
		{Index: 0, Bucket: 0, Depth: 1.0},
		{Index: 1, Bucket: 0, Depth: 9.0},
	}
	SortItems(items)
	// Opaque items keep enumeration order regardless of depth.
	assert.Equal(t, 0, items[0].Index)
}

func TestComputeDepths(t *testing.T) {
	m := &model.Model{
		Materials: []model.Material{{Name: "Glass", AlphaMode: model.AlphaBlend}},
		Meshes: []model.Mesh{{
			Name: "Glass",
			Primitives: []model.Primitive{
				{Material: 0, VertexCount: 3, Positions: make([]float32, 9)},
			},
		}},
		Nodes: []model.Node{
			{Name: "near", Parent: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Translation: [3]float32{0, 0, -2}, Mesh: 0, Skin: -1},
			{Name: "far", Parent: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Translation: [3]float32{0, 0, -5}, Mesh: 0, Skin: -1},
		},
	}
	m.UpdateWorldTransforms()

	items := BuildItems(m)
	require.Len(t, items, 2)
	require.Equal(t, CategoryBlend, items[0].Category)

	// Identity view: camera at origin looking down -Z.
	view := make([]float32, 16)
	common.Identity(view)
	ComputeDepths(items, m, view)

	assert.InDelta(t, 2.0, items[0].Depth, 1e-5)
	assert.InDelta(t, 5.0, items[1].Depth, 1e-5)

	SortItems(items)
	assert.Equal(t, "far", m.Nodes[items[0].NodeIndex].Name)
}
