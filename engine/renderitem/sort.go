package renderitem

import (
	"sort"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
)

// TransparentQueue is the render-queue value at and above which materials
// are treated as transparent and sorted back-to-front.
const TransparentQueue = 2500

// needsDepth reports whether an item participates in the back-to-front
// depth tie-break.
func needsDepth(it *RenderItem) bool {
	return it.RenderQueue >= TransparentQueue || it.Bucket == CategoryBlend.Bucket()
}

// ComputeDepths refreshes the camera-space distance of every item that
// sorts back-to-front. Distances come from each item's node world position
// transformed by the view matrix; the transform runs once per item here so
// the comparator never multiplies matrices.
//
// Parameters:
//   - items: the item list to refresh in place
//   - m: the model the items were built from; the caller must hold its lock
//   - view: the current column-major view matrix
func ComputeDepths(items []RenderItem, m *model.Model, view []float32) {
	for i := range items {
		it := &items[i]
		if !needsDepth(it) {
			continue
		}
		w := &m.Nodes[it.NodeIndex].World
		p := common.MulPoint(view, w[12], w[13], w[14])
		// The camera looks down -Z in view space, so distance is -z.
		it.Depth = -p[2]
	}
}

// SortItems orders the list with the four-tier comparator: render-order
// bucket, material render queue, back-to-front depth for transparent items,
// and finally the stable enumeration index. The index tie-break makes the
// order fully deterministic for identical input.
//
// Parameters:
//   - items: the item list to sort in place
func SortItems(items []RenderItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if a.Bucket != b.Bucket {
			return a.Bucket < b.Bucket
		}
		if a.RenderQueue != b.RenderQueue {
			return a.RenderQueue < b.RenderQueue
		}
		if (a.RenderQueue >= TransparentQueue || a.Bucket == CategoryBlend.Bucket()) && a.Depth != b.Depth {
			// Farther first.
			return a.Depth > b.Depth
		}
		return a.Index < b.Index
	})
}
