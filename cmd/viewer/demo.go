package main

import (
	"math"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
)

// ── Demo Model Configuration ───────────────────────────────────────
const (
	// demoBodySegments is the number of vertical rings in the body column.
	demoBodySegments = 12
	// demoBodySides is the number of vertices per body ring.
	demoBodySides = 16
	// demoBodyHeight is the total body height in world units.
	demoBodyHeight = 1.4
	// demoBodyRadius is the body column radius.
	demoBodyRadius = 0.22
	// demoHeadRings is the number of latitude rings in the head sphere.
	demoHeadRings = 14
	// demoHeadSides is the number of longitude segments in the head sphere.
	demoHeadSides = 20
	// demoHeadRadius is the head sphere radius.
	demoHeadRadius = 0.26
)

// newDemoModel builds a small programmatic avatar exercising every draw path:
// a skinned body column posed by three joints, a morph-targeted head with a
// mask-mode face material, and a blended visor in front of it.
//
// Returns:
//   - *model.Model: the constructed model, ready for Avatar.SetModel
func newDemoModel() *model.Model {
	m := &model.Model{Name: "demo_avatar"}

	m.Materials = []model.Material{
		{
			Name:             "body_toon",
			AlphaMode:        model.AlphaOpaque,
			BaseColor:        [4]float32{0.42, 0.55, 0.85, 1.0},
			ShadeColor:       [3]float32{0.16, 0.22, 0.45},
			ShadeShift:       0.0,
			ShadeToony:       0.9,
			BaseColorTexture: -1,
		},
		{
			Name:             "face_toon",
			AlphaMode:        model.AlphaMask,
			AlphaCutoff:      0.5,
			BaseColor:        [4]float32{0.95, 0.82, 0.72, 1.0},
			ShadeColor:       [3]float32{0.55, 0.38, 0.32},
			ShadeShift:       -0.05,
			ShadeToony:       0.85,
			BaseColorTexture: -1,
		},
		{
			Name:             "visor_glass",
			AlphaMode:        model.AlphaBlend,
			DoubleSided:      true,
			RenderQueue:      3000,
			BaseColor:        [4]float32{0.3, 0.9, 0.8, 0.35},
			ShadeColor:       [3]float32{0.1, 0.3, 0.3},
			ShadeToony:       0.5,
			BaseColorTexture: -1,
		},
	}

	m.Meshes = []model.Mesh{
		buildBodyMesh(),
		buildHeadMesh(),
		buildVisorMesh(),
	}

	// Three joints: hips at the base, spine at mid-height, head at the top.
	// Inverse bind matrices undo each joint's rest translation.
	m.Skins = []model.Skin{{
		Name:   "body_skin",
		Joints: []int{1, 2, 3},
		InverseBind: [][16]float32{
			translationMatrix(0, 0, 0),
			translationMatrix(0, -demoBodyHeight*0.5, 0),
			translationMatrix(0, -demoBodyHeight, 0),
		},
	}}

	identityQ := [4]float32{0, 0, 0, 1}
	one := [3]float32{1, 1, 1}
	m.Nodes = []model.Node{
		{Name: "root", Parent: -1, Children: []int{1}, Rotation: identityQ, Scale: one, Mesh: -1, Skin: -1},
		{Name: "hips", Parent: 0, Children: []int{2, 4}, Rotation: identityQ, Scale: one, Mesh: -1, Skin: -1},
		{Name: "spine", Parent: 1, Children: []int{3}, Translation: [3]float32{0, demoBodyHeight * 0.5, 0}, Rotation: identityQ, Scale: one, Mesh: -1, Skin: -1},
		{Name: "head", Parent: 2, Children: []int{5, 6}, Translation: [3]float32{0, demoBodyHeight * 0.5, 0}, Rotation: identityQ, Scale: one, Mesh: -1, Skin: -1},
		{Name: "body", Parent: 1, Rotation: identityQ, Scale: one, Mesh: 0, Skin: 0},
		{Name: "face", Parent: 3, Translation: [3]float32{0, demoHeadRadius, 0}, Rotation: identityQ, Scale: one, Mesh: 1, Skin: -1},
		{Name: "visor", Parent: 3, Translation: [3]float32{0, demoHeadRadius, demoHeadRadius * 1.15}, Rotation: identityQ, Scale: one, Mesh: 2, Skin: -1},
	}

	m.MarkChanged()
	return m
}

// buildBodyMesh generates a vertical column of rings with each vertex weighted
// between the two nearest joints, so bending the spine deforms it smoothly.
func buildBodyMesh() model.Mesh {
	ringCount := demoBodySegments + 1
	vertexCount := ringCount * demoBodySides

	positions := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	uvs := make([]float32, 0, vertexCount*2)
	joints := make([]uint16, 0, vertexCount*4)
	weights := make([]float32, 0, vertexCount*4)

	for ring := 0; ring < ringCount; ring++ {
		t := float32(ring) / float32(demoBodySegments)
		y := t * demoBodyHeight
		// Taper toward the top for a vaguely torso-like silhouette.
		radius := demoBodyRadius * (1.0 - 0.25*t)
		for side := 0; side < demoBodySides; side++ {
			angle := 2 * math.Pi * float64(side) / float64(demoBodySides)
			nx := float32(math.Cos(angle))
			nz := float32(math.Sin(angle))
			positions = append(positions, nx*radius, y, nz*radius)
			normals = append(normals, nx, 0, nz)
			uvs = append(uvs, float32(side)/float32(demoBodySides), t)

			// Blend between hips/spine on the lower half and spine/head on
			// the upper half, proportional to ring height.
			var j0, j1 uint16
			var w float32
			if t < 0.5 {
				j0, j1 = 0, 1
				w = t * 2
			} else {
				j0, j1 = 1, 2
				w = (t - 0.5) * 2
			}
			joints = append(joints, j0, j1, 0, 0)
			weights = append(weights, 1-w, w, 0, 0)
		}
	}

	indices := make([]uint32, 0, demoBodySegments*demoBodySides*6)
	for ring := 0; ring < demoBodySegments; ring++ {
		for side := 0; side < demoBodySides; side++ {
			a := uint32(ring*demoBodySides + side)
			b := uint32(ring*demoBodySides + (side+1)%demoBodySides)
			c := a + demoBodySides
			d := b + demoBodySides
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return model.Mesh{
		Name: "body",
		Primitives: []model.Primitive{{
			Material:    0,
			VertexCount: vertexCount,
			Positions:   positions,
			Normals:     normals,
			UVs:         uvs,
			Joints:      joints,
			Weights:     weights,
			Indices:     indices,
		}},
	}
}

// buildHeadMesh generates a UV sphere with two morph targets: "smile" bulges
// the lower front of the sphere outward, "surprise" stretches it vertically.
func buildHeadMesh() model.Mesh {
	vertexCount := (demoHeadRings + 1) * (demoHeadSides + 1)

	positions := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	uvs := make([]float32, 0, vertexCount*2)
	smile := make([]float32, 0, vertexCount*3)
	surprise := make([]float32, 0, vertexCount*3)

	for ring := 0; ring <= demoHeadRings; ring++ {
		phi := math.Pi * float64(ring) / float64(demoHeadRings)
		y := float32(math.Cos(phi))
		ringRadius := float32(math.Sin(phi))
		for side := 0; side <= demoHeadSides; side++ {
			theta := 2 * math.Pi * float64(side) / float64(demoHeadSides)
			nx := ringRadius * float32(math.Cos(theta))
			nz := ringRadius * float32(math.Sin(theta))
			positions = append(positions, nx*demoHeadRadius, y*demoHeadRadius, nz*demoHeadRadius)
			normals = append(normals, nx, y, nz)
			uvs = append(uvs, float32(side)/float32(demoHeadSides), float32(ring)/float32(demoHeadRings))

			// Smile: push the lower front quadrant forward and out.
			if y < -0.1 && nz > 0.3 {
				bulge := (nz - 0.3) * (-y) * 0.12
				smile = append(smile, nx*bulge, 0, nz*bulge+bulge)
			} else {
				smile = append(smile, 0, 0, 0)
			}
			// Surprise: stretch poles apart, pinch the equator.
			surprise = append(surprise, -nx*0.03*ringRadius, y*0.08, -nz*0.03*ringRadius)
		}
	}

	indices := make([]uint32, 0, demoHeadRings*demoHeadSides*6)
	stride := uint32(demoHeadSides + 1)
	for ring := 0; ring < demoHeadRings; ring++ {
		for side := 0; side < demoHeadSides; side++ {
			a := uint32(ring)*stride + uint32(side)
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return model.Mesh{
		Name:    "head",
		Weights: []float32{0, 0},
		Primitives: []model.Primitive{{
			Material:    1,
			VertexCount: vertexCount,
			Positions:   positions,
			Normals:     normals,
			UVs:         uvs,
			Indices:     indices,
			Targets: []model.MorphTarget{
				{Name: "smile", PositionDeltas: smile},
				{Name: "surprise", PositionDeltas: surprise},
			},
		}},
	}
}

// buildVisorMesh generates a forward-facing curved strip of quads over the
// face, drawn with the blended glass material.
func buildVisorMesh() model.Mesh {
	const segments = 8
	vertexCount := (segments + 1) * 2

	positions := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	uvs := make([]float32, 0, vertexCount*2)

	for i := 0; i <= segments; i++ {
		// Arc of ±55 degrees around the face.
		angle := (float64(i)/float64(segments) - 0.5) * (110.0 * math.Pi / 180.0)
		x := float32(math.Sin(angle)) * demoHeadRadius * 0.9
		z := float32(math.Cos(angle))*demoHeadRadius*0.25 - demoHeadRadius*0.1
		nx := float32(math.Sin(angle))
		nz := float32(math.Cos(angle))
		for _, y := range [2]float32{-demoHeadRadius * 0.28, demoHeadRadius * 0.18} {
			positions = append(positions, x, y, z)
			normals = append(normals, nx, 0, nz)
			uvs = append(uvs, float32(i)/float32(segments), (y+demoHeadRadius*0.28)/(demoHeadRadius*0.46))
		}
	}

	indices := make([]uint32, 0, segments*6)
	for i := 0; i < segments; i++ {
		a := uint32(i * 2)
		indices = append(indices, a, a+1, a+2, a+2, a+1, a+3)
	}

	return model.Mesh{
		Name: "visor",
		Primitives: []model.Primitive{{
			Material:    2,
			VertexCount: vertexCount,
			Positions:   positions,
			Normals:     normals,
			UVs:         uvs,
			Indices:     indices,
		}},
	}
}

// translationMatrix returns a column-major 4x4 translation matrix.
func translationMatrix(x, y, z float32) [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	m[12], m[13], m[14] = x, y, z
	return m
}
