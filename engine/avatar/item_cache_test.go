package avatar

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheModel() *model.Model {
	return &model.Model{
		Name: "cached",
		Nodes: []model.Node{
			{Name: "Body", Mesh: 0, Parent: -1, Scale: [3]float32{1, 1, 1}, Rotation: [4]float32{0, 0, 0, 1}},
		},
		Meshes: []model.Mesh{
			{Name: "Body", Primitives: []model.Primitive{{Material: 0, VertexCount: 3, Positions: make([]float32, 9)}}},
		},
		Materials: []model.Material{
			{Name: "Body_Base", AlphaMode: model.AlphaOpaque},
		},
	}
}

func TestItemCacheReusesItems(t *testing.T) {
	m := cacheModel()
	var c itemCache

	first := c.get(m)
	require.Len(t, first, 1)

	second := c.get(m)
	assert.Same(t, &first[0], &second[0], "unchanged model should hit the cache")
}

func TestItemCacheRebuildsOnGenerationChange(t *testing.T) {
	m := cacheModel()
	var c itemCache

	first := c.get(m)
	require.Len(t, first, 1)

	m.Materials[0].AlphaMode = model.AlphaBlend
	m.MarkChanged()

	second := c.get(m)
	require.Len(t, second, 1)
	assert.Equal(t, model.AlphaBlend, second[0].DeclaredAlphaMode)
}

func TestItemCacheInvalidate(t *testing.T) {
	m := cacheModel()
	var c itemCache

	first := c.get(m)
	c.invalidate()
	second := c.get(m)

	require.Len(t, second, 1)
	// Same content, rebuilt backing array.
	assert.Equal(t, first[0].Category, second[0].Category)
}
