package avatar

import (
	"sync"

	"github.com/arkavo-org/vrmkit/engine/model"
	"github.com/arkavo-org/vrmkit/engine/renderitem"
)

// itemCache holds the classified render items for the current model.
// Classification only depends on names and material settings, so the cache
// stays valid until the model structure changes; per-frame sorting works on
// a copy. The caller must hold the model lock around get.
type itemCache struct {
	mu         sync.Mutex
	valid      bool
	generation uint64
	items      []renderitem.RenderItem
}

// get returns the cached items, rebuilding them when the cache has been
// invalidated or the model generation has advanced.
func (c *itemCache) get(m *model.Model) []renderitem.RenderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := m.Generation()
	if c.valid && c.generation == gen {
		return c.items
	}

	c.items = renderitem.BuildItems(m)
	c.generation = gen
	c.valid = true
	return c.items
}

// invalidate drops the cached items. Called on model swap.
func (c *itemCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.items = nil
}
