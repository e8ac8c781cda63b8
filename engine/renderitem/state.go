package renderitem

import (
	"fmt"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// Variant identifies which compiled pipeline family an item binds. WebGPU
// bakes blending and topology into the pipeline object, so each distinct
// combination is a separate compiled pipeline.
type Variant struct {
	// Skinned selects the vertex-skinning shader path.
	Skinned bool

	// Blend selects the blending-enabled fragment path. Opaque and mask
	// items share the non-blending path; mask discard happens in the
	// shader, not in pipeline state.
	Blend bool

	// Wireframe overrides the topology with a line-list debug variant.
	Wireframe bool
}

// State is the fixed-function depth and cull configuration for an item.
// WebGPU bakes these into the pipeline as well, so the renderer caches one
// compiled pipeline per (Variant, State) pair.
type State struct {
	// DepthWrite enables writing to the depth buffer.
	DepthWrite bool

	// Cull is the face culling mode.
	Cull wgpu.CullMode

	// DepthBias and DepthBiasSlopeScale nudge the item's depth so stacked
	// coplanar decals resolve in the intended order.
	DepthBias           int32
	DepthBiasSlopeScale float32
}

// Depth bias tiers. Overlay decals bias progressively toward the camera;
// the base body biases away so overlays win every coplanar depth fight.
const (
	biasBody      = -1
	biasOverlay   = 2
	biasDecal     = 4
	biasEye       = 6
	biasHighlight = 8
)

// SelectVariant returns the pipeline family for an item.
//
// Parameters:
//   - it: the classified item
//   - wireframe: the global wireframe debug toggle
//
// Returns:
//   - Variant: the pipeline family to bind
func SelectVariant(it *RenderItem, wireframe bool) Variant {
	return Variant{
		Skinned:   it.Skinned,
		Blend:     it.EffectiveAlphaMode == model.AlphaBlend,
		Wireframe: wireframe,
	}
}

// StateFor returns the depth and cull state for an item, keyed by its
// category.
//
// Parameters:
//   - it: the classified item
//
// Returns:
//   - State: the fixed-function state to apply
func StateFor(it *RenderItem) State {
	switch it.Category {
	case CategoryBody:
		return State{DepthWrite: true, Cull: wgpu.CullModeBack, DepthBias: biasBody}
	case CategorySkin, CategoryClothing:
		return State{DepthWrite: true, Cull: wgpu.CullModeBack, DepthBias: biasOverlay}
	case CategoryFaceOverlay, CategoryEyebrow, CategoryEyeline:
		return State{DepthWrite: true, Cull: wgpu.CullModeNone, DepthBias: biasDecal}
	case CategoryEye:
		return State{DepthWrite: true, Cull: wgpu.CullModeNone, DepthBias: biasEye}
	case CategoryHighlight:
		return State{DepthWrite: false, Cull: wgpu.CullModeNone, DepthBias: biasHighlight}
	case CategoryTransparentZWrite:
		// Translucent trim still writes depth so later translucent layers
		// are occluded by it.
		return State{DepthWrite: true, Cull: wgpu.CullModeNone}
	default:
		st := State{
			DepthWrite: it.EffectiveAlphaMode != model.AlphaBlend,
			Cull:       wgpu.CullModeBack,
		}
		if it.EffectiveDoubleSided {
			st.Cull = wgpu.CullModeNone
		}
		return st
	}
}

// PipelineKey builds the cache key for a compiled (Variant, State) pipeline.
//
// Parameters:
//   - v: the pipeline family
//   - st: the fixed-function state
//
// Returns:
//   - string: a deterministic key unique to the combination
func PipelineKey(v Variant, st State) string {
	return fmt.Sprintf("avatar_s%t_b%t_w%t_dw%t_c%d_bias%d_%g",
		v.Skinned, v.Blend, v.Wireframe, st.DepthWrite, st.Cull, st.DepthBias, st.DepthBiasSlopeScale)
}
