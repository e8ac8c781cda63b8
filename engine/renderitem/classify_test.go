package renderitem

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifyBuckets(t *testing.T) {
	tests := []struct {
		name     string
		material string
		declared model.AlphaMode
		category Category
		bucket   int
	}{
		{"face skin", "Face_Skin", model.AlphaOpaque, CategorySkin, 1},
		{"body", "Body_Base", model.AlphaOpaque, CategoryBody, 0},
		{"eyebrow", "Hair_Eyebrow", model.AlphaMask, CategoryEyebrow, 2},
		{"eyeline", "Face_Eyeline", model.AlphaMask, CategoryEyeline, 3},
		{"eyelash", "Face_Eyelash", model.AlphaMask, CategoryEyeline, 3},
		{"eye", "Eye_Iris", model.AlphaBlend, CategoryEye, 5},
		{"highlight", "Eye_Highlight", model.AlphaOpaque, CategoryHighlight, 6},
		{"mouth", "Face_Mouth", model.AlphaMask, CategoryFaceOverlay, 2},
		{"lip", "Face_Lip", model.AlphaBlend, CategoryFaceOverlay, 2},
		{"clothing", "Tops_Shirt", model.AlphaOpaque, CategoryClothing, 8},
		{"skirt", "Skirt_Main", model.AlphaOpaque, CategoryClothing, 8},
		{"lace", "Lace_Trim", model.AlphaBlend, CategoryTransparentZWrite, 8},
		{"ribbon", "Hair_Ribbon", model.AlphaBlend, CategoryTransparentZWrite, 8},
		{"plain face", "Face_Base", model.AlphaOpaque, CategorySkin, 1},
		{"unmatched opaque", "Hair_Main", model.AlphaOpaque, CategoryOpaque, 0},
		{"unmatched mask", "Hair_Main", model.AlphaMask, CategoryMask, 4},
		{"unmatched blend", "Glass_Lens", model.AlphaBlend, CategoryBlend, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.material, "", "", tt.declared, 0.5, false)
			assert.Equal(t, tt.category, c.Category)
			assert.Equal(t, tt.bucket, c.Bucket)
		})
	}
}

func TestClassifyNodeAndMeshNames(t *testing.T) {
	c := Classify("MAT_001", "J_Bip_Body", "", model.AlphaOpaque, 0.5, false)
	assert.Equal(t, CategoryBody, c.Category)

	c = Classify("MAT_002", "", "EyeHighlight", model.AlphaOpaque, 0.5, false)
	assert.Equal(t, CategoryHighlight, c.Category)
}

func TestClassifyEffectiveAlphaMode(t *testing.T) {
	// Body geometry authored with mask is forced opaque.
	c := Classify("Body_Base", "", "", model.AlphaMask, 0.5, false)
	assert.Equal(t, model.AlphaOpaque, c.EffectiveAlphaMode)

	// Face materials keep their declared mask so cutout regions work.
	c = Classify("Face_Skin", "", "", model.AlphaMask, 0.5, false)
	assert.Equal(t, model.AlphaMask, c.EffectiveAlphaMode)

	// Eyes always render opaque, highlights always blend.
	c = Classify("Eye_Iris", "", "", model.AlphaBlend, 0.5, false)
	assert.Equal(t, model.AlphaOpaque, c.EffectiveAlphaMode)

	c = Classify("Eye_Highlight", "", "", model.AlphaOpaque, 0.5, false)
	assert.Equal(t, model.AlphaBlend, c.EffectiveAlphaMode)
}

func TestClassifyDoubleSided(t *testing.T) {
	c := Classify("Hair_Eyebrow", "", "", model.AlphaMask, 0.5, false)
	assert.True(t, c.EffectiveDoubleSided)

	c = Classify("Face_Skin", "", "", model.AlphaOpaque, 0.5, false)
	assert.True(t, c.EffectiveDoubleSided)

	// Non-face items keep the declared flag.
	c = Classify("Body_Base", "", "", model.AlphaOpaque, 0.5, false)
	assert.False(t, c.EffectiveDoubleSided)
}

func TestClassifySkinCutoffFloor(t *testing.T) {
	c := Classify("Face_Skin", "", "", model.AlphaMask, 0.2, false)
	assert.Equal(t, float32(0.5), c.EffectiveCutoff)

	c = Classify("Face_Skin", "", "", model.AlphaMask, 0.8, false)
	assert.Equal(t, float32(0.8), c.EffectiveCutoff)

	// Other categories keep the declared cutoff.
	c = Classify("Hair_Eyebrow", "", "", model.AlphaMask, 0.2, false)
	assert.Equal(t, float32(0.2), c.EffectiveCutoff)
}

func TestClassifyDeterministic(t *testing.T) {
	a := Classify("Face_Skin", "head", "face_mesh", model.AlphaMask, 0.3, true)
	for range 100 {
		b := Classify("Face_Skin", "head", "face_mesh", model.AlphaMask, 0.3, true)
		assert.Equal(t, a, b)
	}
}
