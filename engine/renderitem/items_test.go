package renderitem

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestModel() *model.Model {
	m := &model.Model{
		Materials: []model.Material{
			{Name: "Body_Base", AlphaMode: model.AlphaMask, AlphaCutoff: 0.5},
			{Name: "Face_Skin", AlphaMode: model.AlphaMask, AlphaCutoff: 0.2, RenderQueue: 2000},
		},
		Meshes: []model.Mesh{
			{
				Name: "Body",
				Primitives: []model.Primitive{
					{Material: 0, VertexCount: 3, Positions: make([]float32, 9)},
					{Material: 1, VertexCount: 3, Positions: make([]float32, 9)},
				},
			},
			{
				Name: "Face",
				Primitives: []model.Primitive{
					{Material: -1, VertexCount: 3, Positions: make([]float32, 9)},
				},
			},
		},
		Nodes: []model.Node{
			{Name: "root", Parent: -1, Children: []int{1, 2}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: -1, Skin: -1},
			{Name: "body", Parent: 0, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: 0, Skin: -1},
			{Name: "face", Parent: 0, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: 1, Skin: -1},
		},
	}
	return m
}

func TestBuildItemsEnumeration(t *testing.T) {
	m := buildTestModel()
	items := BuildItems(m)
	require.Len(t, items, 3)

	for i := range items {
		assert.Equal(t, i, items[i].Index)
	}

	assert.Equal(t, CategoryBody, items[0].Category)
	assert.Equal(t, CategorySkin, items[1].Category)
	// Node named "face" with no material defaults to opaque but stays in
	// the skin layer.
	assert.Equal(t, CategorySkin, items[2].Category)
}

func TestBuildItemsMissingMaterialDefaults(t *testing.T) {
	m := buildTestModel()
	items := BuildItems(m)

	it := items[2]
	assert.Equal(t, -1, it.MaterialIndex)
	assert.Equal(t, model.AlphaOpaque, it.DeclaredAlphaMode)
	assert.Equal(t, float32(0.5), it.EffectiveCutoff)
}

func TestBuildItemsRenderQueue(t *testing.T) {
	m := buildTestModel()
	items := BuildItems(m)
	assert.Equal(t, 2000, items[1].RenderQueue)
}

func TestBuildItemsSkinned(t *testing.T) {
	m := buildTestModel()
	items := BuildItems(m)
	for i := range items {
		assert.False(t, items[i].Skinned, "no skins in model")
	}

	// A node-level skin reference marks the primitive skinned once the
	// model carries skins.
	m.Skins = []model.Skin{{Name: "skin", Joints: []int{0}, InverseBind: make([][16]float32, 1)}}
	m.Nodes[1].Skin = 0
	items = BuildItems(m)
	assert.True(t, items[0].Skinned)
	assert.True(t, items[1].Skinned)
	assert.False(t, items[2].Skinned)
}

func TestMorphKey(t *testing.T) {
	it := RenderItem{MeshIndex: 3, PrimIndexInMesh: 7}
	assert.Equal(t, uint64(3)<<32|7, it.MorphKey())
}
