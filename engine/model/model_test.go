package model

import (
	"math"
	"testing"
)

func testModel() *Model {
	m := &Model{Name: "test"}
	m.Materials = []Material{
		{Name: "Body", AlphaMode: AlphaOpaque, BaseColorTexture: -1},
	}
	m.Meshes = []Mesh{
		{
			Name: "Body",
			Primitives: []Primitive{
				{
					Material:    0,
					VertexCount: 3,
					Positions:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
					Indices:     []uint32{0, 1, 2},
				},
			},
		},
	}
	m.Nodes = []Node{
		{Name: "root", Parent: -1, Children: []int{1}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: -1, Skin: -1},
		{Name: "body", Parent: 0, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Mesh: 0, Skin: -1},
	}
	return m
}

func TestValidate(t *testing.T) {
	m := testModel()
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBadIndex(t *testing.T) {
	m := testModel()
	m.Meshes[0].Primitives[0].Indices[2] = 7
	if err := m.Validate(); err == nil {
		t.Error("expected error for out of range vertex index")
	}

	m = testModel()
	m.Nodes[1].Mesh = 5
	if err := m.Validate(); err == nil {
		t.Error("expected error for out of range mesh index")
	}

	m = testModel()
	m.Meshes[0].Primitives[0].Targets = []MorphTarget{{PositionDeltas: []float32{0, 0, 0}}}
	if err := m.Validate(); err == nil {
		t.Error("expected error for undersized morph target")
	}

	// An untextured material must carry the -1 sentinel; the zero value
	// reads as a reference to texture 0, which an untextured model lacks.
	m = testModel()
	m.Materials[0].BaseColorTexture = 0
	if err := m.Validate(); err == nil {
		t.Error("expected error for texture index into empty texture arena")
	}
}

func TestValidateParentMustPrecedeChild(t *testing.T) {
	// World transforms compose in arena order, so a forward parent reference
	// would read a stale parent matrix.
	m := testModel()
	m.Nodes[0].Parent = 1
	m.Nodes[1].Parent = -1
	if err := m.Validate(); err == nil {
		t.Error("expected error for forward parent reference")
	}

	m = testModel()
	m.Nodes[1].Parent = 1
	if err := m.Validate(); err == nil {
		t.Error("expected error for self-referencing parent")
	}
}

func TestUpdateWorldTransforms(t *testing.T) {
	m := testModel()
	m.Nodes[0].Translation = [3]float32{1, 2, 3}
	m.Nodes[1].Translation = [3]float32{0, 1, 0}
	m.UpdateWorldTransforms()

	w := m.Nodes[1].World
	// Column-major translation lives in elements 12..14.
	if w[12] != 1 || w[13] != 3 || w[14] != 3 {
		t.Errorf("expected child world translation (1, 3, 3), got (%v, %v, %v)", w[12], w[13], w[14])
	}
}

func TestUpdateWorldTransformsMatrixOverride(t *testing.T) {
	m := testModel()
	raw := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		5, 0, 0, 1,
	}
	m.Nodes[0].Matrix = &raw
	m.Nodes[0].Translation = [3]float32{100, 100, 100}
	m.UpdateWorldTransforms()

	if m.Nodes[0].World[12] != 5 {
		t.Errorf("expected matrix override translation 5, got %v", m.Nodes[0].World[12])
	}
}

func TestUpdateWorldTransformsRotation(t *testing.T) {
	m := testModel()
	// 90 degrees about Z.
	s := float32(math.Sqrt(0.5))
	m.Nodes[1].Rotation = [4]float32{0, 0, s, s}
	m.UpdateWorldTransforms()

	w := m.Nodes[1].World
	// X axis should map to Y.
	if math.Abs(float64(w[0])) > 1e-5 || math.Abs(float64(w[1])-1) > 1e-5 {
		t.Errorf("expected rotated X basis (0, 1), got (%v, %v)", w[0], w[1])
	}
}

func TestSkinned(t *testing.T) {
	m := testModel()
	if m.Skinned() {
		t.Error("expected rigid model")
	}
	p := &m.Meshes[0].Primitives[0]
	p.Joints = make([]uint16, 12)
	p.Weights = make([]float32, 12)
	if !m.Skinned() {
		t.Error("expected skinned model")
	}
}

func TestGeneration(t *testing.T) {
	m := testModel()
	g := m.Generation()
	m.MarkChanged()
	if m.Generation() == g {
		t.Error("expected generation to advance")
	}
}
