package morph

import (
	"github.com/arkavo-org/vrmkit/engine/model"
)

const (
	// Epsilon is the weight below which a morph target is treated as
	// inactive. Dispatching work for weights this small would produce
	// output numerically identical to the base mesh.
	Epsilon = 1e-4

	// DirectBindLimit is the number of morph targets that can feed the
	// vertex stage directly. Primitives carrying more targets always take
	// the compute path.
	DirectBindLimit = 8

	// WorkgroupSize is the compute shader's workgroup width in vertices.
	WorkgroupSize = 64
)

// Key packs a mesh index and a primitive index within that mesh into the
// stable identifier used to address morph output buffers.
func Key(meshIndex, primIndexInMesh int) uint64 {
	return uint64(meshIndex)<<32 | uint64(uint32(primIndexInMesh))
}

// ActiveTarget is one morph target whose weight is above Epsilon.
type ActiveTarget struct {
	// Index is the target's position in the primitive's target list.
	Index int

	// Weight is the current blend weight.
	Weight float32
}

// Dispatch describes the compute work for one primitive this frame.
type Dispatch struct {
	// Key addresses the output buffer; see Key.
	Key uint64

	// MeshIndex and PrimIndexInMesh locate the primitive.
	MeshIndex       int
	PrimIndexInMesh int

	// VertexCount is the number of vertices to deform.
	VertexCount int

	// Active is the set of targets with non-trivial weights, in target
	// order.
	Active []ActiveTarget

	// WorkGroups is the x-dimension dispatch size.
	WorkGroups uint32
}

// activeTargets collects the targets whose weight exceeds Epsilon. The
// weights slice may be longer than the target count; extra entries are
// ignored.
func activeTargets(weights []float32, targetCount int) []ActiveTarget {
	var active []ActiveTarget
	n := min(targetCount, len(weights))
	for i := range n {
		if weights[i] > Epsilon {
			active = append(active, ActiveTarget{Index: i, Weight: weights[i]})
		}
	}
	return active
}

// Required reports whether any primitive in the model needs GPU
// deformation this frame: a non-trivial weight on any target, or more
// targets than the vertex stage can bind directly. Most frames have
// neither, and the compute pass is skipped entirely.
//
// Parameters:
//   - m: the model to inspect; the caller must hold its lock
//
// Returns:
//   - bool: true when a compute pre-pass is needed
func Required(m *model.Model) bool {
	for mi := range m.Meshes {
		mesh := &m.Meshes[mi]
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			if len(prim.Targets) == 0 {
				continue
			}
			if len(prim.Targets) > DirectBindLimit {
				return true
			}
			if len(activeTargets(mesh.Weights, len(prim.Targets))) > 0 {
				return true
			}
		}
	}
	return false
}
