package renderitem

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestSelectVariant(t *testing.T) {
	it := &RenderItem{Skinned: true, EffectiveAlphaMode: model.AlphaBlend}
	v := SelectVariant(it, false)
	assert.True(t, v.Skinned)
	assert.True(t, v.Blend)
	assert.False(t, v.Wireframe)

	// Opaque and mask share the non-blending variant.
	it = &RenderItem{EffectiveAlphaMode: model.AlphaMask}
	v = SelectVariant(it, false)
	assert.False(t, v.Blend)

	v = SelectVariant(it, true)
	assert.True(t, v.Wireframe)
}

func TestStateForCategories(t *testing.T) {
	tests := []struct {
		category Category
		write    bool
		cull     wgpu.CullMode
	}{
		{CategoryBody, true, wgpu.CullModeBack},
		{CategorySkin, true, wgpu.CullModeBack},
		{CategoryClothing, true, wgpu.CullModeBack},
		{CategoryEyebrow, true, wgpu.CullModeNone},
		{CategoryEyeline, true, wgpu.CullModeNone},
		{CategoryEye, true, wgpu.CullModeNone},
		{CategoryHighlight, false, wgpu.CullModeNone},
		{CategoryTransparentZWrite, true, wgpu.CullModeNone},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			st := StateFor(&RenderItem{Category: tt.category})
			assert.Equal(t, tt.write, st.DepthWrite)
			assert.Equal(t, tt.cull, st.Cull)
		})
	}
}

func TestStateForBiasOrdering(t *testing.T) {
	body := StateFor(&RenderItem{Category: CategoryBody})
	skin := StateFor(&RenderItem{Category: CategorySkin})
	eye := StateFor(&RenderItem{Category: CategoryEye})
	highlight := StateFor(&RenderItem{Category: CategoryHighlight})

	assert.Less(t, body.DepthBias, int32(0))
	assert.Greater(t, skin.DepthBias, int32(0))
	assert.Greater(t, eye.DepthBias, skin.DepthBias)
	assert.Greater(t, highlight.DepthBias, eye.DepthBias)
}

func TestStateForDefaultCategory(t *testing.T) {
	st := StateFor(&RenderItem{Category: CategoryOpaque, EffectiveAlphaMode: model.AlphaOpaque})
	assert.True(t, st.DepthWrite)
	assert.Equal(t, wgpu.CullModeBack, st.Cull)

	st = StateFor(&RenderItem{Category: CategoryBlend, EffectiveAlphaMode: model.AlphaBlend})
	assert.False(t, st.DepthWrite)

	st = StateFor(&RenderItem{Category: CategoryOpaque, EffectiveDoubleSided: true})
	assert.Equal(t, wgpu.CullModeNone, st.Cull)
}

func TestPipelineKeyDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range []Variant{{}, {Skinned: true}, {Blend: true}, {Wireframe: true}} {
		for _, st := range []State{{}, {DepthWrite: true}, {DepthBias: 4}} {
			key := PipelineKey(v, st)
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	}
}
