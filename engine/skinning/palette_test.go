package skinning

import (
	"testing"

	"github.com/arkavo-org/vrmkit/engine/model"
)

func identity16() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func skinnedModel() *model.Model {
	m := &model.Model{
		Nodes: []model.Node{
			{Name: "hips", Parent: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: -1, Skin: -1},
			{Name: "spine", Parent: 0, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Translation: [3]float32{0, 1, 0}, Mesh: -1, Skin: -1},
			{Name: "hand", Parent: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: -1, Skin: -1},
		},
		Skins: []model.Skin{
			{Name: "main", Joints: []int{0, 1}, InverseBind: [][16]float32{identity16(), identity16()}},
			{Name: "extra", Joints: []int{2}, InverseBind: [][16]float32{identity16()}},
		},
	}
	m.UpdateWorldTransforms()
	return m
}

func TestLayoutPacksContiguously(t *testing.T) {
	m := skinnedModel()
	p := NewPalette()
	p.Layout(m)

	if m.Skins[0].PaletteOffset != 0 {
		t.Errorf("expected first skin at offset 0, got %d", m.Skins[0].PaletteOffset)
	}
	if m.Skins[1].PaletteOffset != 128 {
		t.Errorf("expected second skin at offset 128, got %d", m.Skins[1].PaletteOffset)
	}
	if p.MatrixCount() != 3 {
		t.Errorf("expected 3 matrices, got %d", p.MatrixCount())
	}
	if p.ByteSize() != 192 {
		t.Errorf("expected 192 byte block, got %d", p.ByteSize())
	}
}

func TestUpdateComputesJointMatrices(t *testing.T) {
	m := skinnedModel()
	p := NewPalette()
	p.Layout(m)
	p.Update(m)

	// Identity inverse bind: the joint matrix equals the node world matrix.
	data := p.Data()
	spine := data[16:32]
	if spine[13] != 1 {
		t.Errorf("expected spine joint translation y=1, got %v", spine[13])
	}

	// Second skin's matrix lands after the first skin's two.
	hand := data[32:48]
	if hand[0] != 1 || hand[15] != 1 {
		t.Errorf("expected identity joint matrix for hand, got %v", hand)
	}
}

func TestUpdateSkipsBadJointIndex(t *testing.T) {
	m := skinnedModel()
	m.Skins[1].Joints[0] = 99
	p := NewPalette()
	p.Layout(m)
	p.Update(m)

	data := p.Data()
	for _, v := range data[32:48] {
		if v != 0 {
			t.Fatalf("expected skipped joint to leave zero matrix, got %v", v)
		}
	}
}
