package model

// AlphaMode describes how a material's alpha channel is interpreted during
// rasterization.
type AlphaMode int

const (
	// AlphaOpaque ignores the alpha channel entirely.
	AlphaOpaque AlphaMode = iota

	// AlphaMask discards fragments whose alpha falls below the cutoff.
	AlphaMask

	// AlphaBlend composites fragments over the framebuffer using standard
	// source-over blending.
	AlphaBlend
)

// String returns the lowercase name of the alpha mode.
func (m AlphaMode) String() string {
	switch m {
	case AlphaOpaque:
		return "opaque"
	case AlphaMask:
		return "mask"
	case AlphaBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// Material holds the shading parameters declared by a model asset.
// Fields are authored values; per-frame rendering may override some of them
// based on what part of the avatar the material is attached to.
type Material struct {
	// Name is the material identifier from the source asset.
	Name string

	// AlphaMode is the declared transparency mode.
	AlphaMode AlphaMode

	// AlphaCutoff is the discard threshold used when AlphaMode is AlphaMask.
	AlphaCutoff float32

	// DoubleSided disables back-face culling when true.
	DoubleSided bool

	// RenderQueue is the authored draw-priority hint. Values of 2500 and
	// above mark the material as transparent for sorting purposes.
	RenderQueue int

	// BaseColor is the RGBA base color factor.
	BaseColor [4]float32

	// ShadeColor is the RGB color used for the shadowed side of the toon
	// ramp.
	ShadeColor [3]float32

	// ShadeShift offsets the lighting term before the toon ramp is applied.
	ShadeShift float32

	// ShadeToony controls the hardness of the toon ramp transition.
	ShadeToony float32

	// BaseColorTexture is the index of the base color texture, or -1 when
	// the material is untextured.
	BaseColorTexture int
}
