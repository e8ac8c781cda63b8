package renderitem

import (
	"strings"

	"github.com/arkavo-org/vrmkit/engine/model"
)

// Category is the semantic slot a drawable primitive is assigned by name
// heuristics. It drives both the coarse draw ordering and the per-item
// depth/cull/bias state.
type Category int

const (
	// CategoryOpaque is the generic slot for unclassified opaque geometry.
	CategoryOpaque Category = iota

	// CategoryBody is base body geometry, drawn before everything layered
	// on top of it.
	CategoryBody

	// CategorySkin is skin surfaces and unclassified face geometry.
	CategorySkin

	// CategoryFaceOverlay is mouth and lip decals layered on the face.
	CategoryFaceOverlay

	// CategoryEyebrow is eyebrow decals.
	CategoryEyebrow

	// CategoryEyeline is eyeline and eyelash decals.
	CategoryEyeline

	// CategoryMask is the generic slot for alpha-masked geometry.
	CategoryMask

	// CategoryEye is the eye surface itself.
	CategoryEye

	// CategoryHighlight is eye highlight sparkle geometry.
	CategoryHighlight

	// CategoryBlend is the generic slot for alpha-blended geometry.
	CategoryBlend

	// CategoryClothing is clothing layered over the body.
	CategoryClothing

	// CategoryTransparentZWrite is translucent trim (lace, collars,
	// ribbons) that still writes depth so later layers occlude correctly.
	CategoryTransparentZWrite
)

// String returns the category name used in logs.
func (c Category) String() string {
	switch c {
	case CategoryOpaque:
		return "opaque"
	case CategoryBody:
		return "body"
	case CategorySkin:
		return "skin"
	case CategoryFaceOverlay:
		return "faceOverlay"
	case CategoryEyebrow:
		return "eyebrow"
	case CategoryEyeline:
		return "eyeline"
	case CategoryMask:
		return "mask"
	case CategoryEye:
		return "eye"
	case CategoryHighlight:
		return "highlight"
	case CategoryBlend:
		return "blend"
	case CategoryClothing:
		return "clothing"
	case CategoryTransparentZWrite:
		return "transparentZWrite"
	default:
		return "unknown"
	}
}

// Bucket returns the render-order bucket for the category. Lower buckets
// draw first; the fixed layering keeps cosmetic decals from losing
// coplanar depth fights against the surfaces under them.
func (c Category) Bucket() int {
	switch c {
	case CategoryBody, CategoryOpaque:
		return 0
	case CategorySkin:
		return 1
	case CategoryFaceOverlay, CategoryEyebrow:
		return 2
	case CategoryEyeline:
		return 3
	case CategoryMask:
		return 4
	case CategoryEye:
		return 5
	case CategoryHighlight:
		return 6
	case CategoryBlend:
		return 7
	case CategoryClothing, CategoryTransparentZWrite:
		return 8
	default:
		return 0
	}
}

// Classification is the resolved category and effective material state for
// one primitive. Effective values may differ from the material's declared
// values; the renderer always uses the effective ones.
type Classification struct {
	Category             Category
	Bucket               int
	EffectiveAlphaMode   model.AlphaMode
	EffectiveCutoff      float32
	EffectiveDoubleSided bool
}

var transparentZWriteTerms = []string{"lace", "collar", "ribbon", "frill", "ruffle"}

var clothingTerms = []string{"cloth", "tops", "bottoms", "skirt", "shorts", "pants"}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Classify assigns a category and effective material state from the names
// attached to a primitive. Matching is case-insensitive substring matching
// over the concatenated material, node and mesh names.
//
// The heuristics are best effort: unknown names fall through to generic
// opaque/mask/blend slots based on the declared alpha mode, and Classify
// never fails.
//
// Parameters:
//   - materialName, nodeName, meshName: the names attached to the primitive
//   - declared: the material's declared alpha mode
//   - cutoff: the material's declared alpha cutoff
//   - doubleSided: the material's declared double-sided flag
//
// Returns:
//   - Classification: the resolved category, bucket, and effective state
func Classify(materialName, nodeName, meshName string, declared model.AlphaMode, cutoff float32, doubleSided bool) Classification {
	name := strings.ToLower(materialName) + "|" + strings.ToLower(nodeName) + "|" + strings.ToLower(meshName)

	faceRelated := strings.Contains(name, "face") || strings.Contains(name, "eye")
	bodyLike := strings.Contains(name, "body") || strings.Contains(name, "skin") ||
		containsAny(name, clothingTerms) || containsAny(name, transparentZWriteTerms)

	c := Classification{
		EffectiveAlphaMode:   declared,
		EffectiveCutoff:      cutoff,
		EffectiveDoubleSided: doubleSided,
	}

	if faceRelated || bodyLike {
		c.Category = avatarCategory(name, faceRelated)
	} else {
		switch declared {
		case model.AlphaMask:
			c.Category = CategoryMask
		case model.AlphaBlend:
			c.Category = CategoryBlend
		default:
			c.Category = CategoryOpaque
		}
	}

	switch c.Category {
	case CategoryBody, CategorySkin, CategoryClothing, CategoryTransparentZWrite:
		// Cutout holes belong on the face. Body and skin surfaces authored
		// with mask would drop whole regions, so force them opaque unless
		// the face heuristics also matched.
		if declared == model.AlphaMask && !faceRelated {
			c.EffectiveAlphaMode = model.AlphaOpaque
		}
	case CategoryEye:
		c.EffectiveAlphaMode = model.AlphaOpaque
	case CategoryHighlight:
		c.EffectiveAlphaMode = model.AlphaBlend
	}

	if faceRelated {
		c.EffectiveDoubleSided = true
	}

	if c.Category == CategorySkin && c.EffectiveCutoff < 0.5 {
		c.EffectiveCutoff = 0.5
	}

	c.Bucket = c.Category.Bucket()
	return c
}

// avatarCategory resolves the category for face or body related names.
// Checks run most specific first; order matters because the terms overlap
// ("eyebrow" contains "eye", "face_skin" contains both "face" and "skin").
func avatarCategory(name string, faceRelated bool) Category {
	switch {
	case strings.Contains(name, "body"):
		return CategoryBody
	case containsAny(name, transparentZWriteTerms):
		return CategoryTransparentZWrite
	case containsAny(name, clothingTerms):
		return CategoryClothing
	case strings.Contains(name, "mouth"), strings.Contains(name, "lip"):
		return CategoryFaceOverlay
	case strings.Contains(name, "skin"):
		return CategorySkin
	case faceRelated && !strings.Contains(name, "eye"):
		return CategorySkin
	case strings.Contains(name, "brow"):
		return CategoryEyebrow
	case strings.Contains(name, "line"), strings.Contains(name, "lash"):
		return CategoryEyeline
	case strings.Contains(name, "highlight"):
		return CategoryHighlight
	case strings.Contains(name, "eye"):
		return CategoryEye
	default:
		return CategorySkin
	}
}
