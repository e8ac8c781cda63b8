package morph

import (
	"math"
	"math/bits"

	"github.com/cogentcore/webgpu/wgpu"
)

// allocFunc creates a storage buffer of the given size.
type allocFunc func(label string, size uint64) (*wgpu.Buffer, error)

// bufferPool recycles morph output storage buffers. Buffers are grouped by
// rounded size class so primitives with similar vertex counts share
// allocations across model loads.
type bufferPool struct {
	alloc allocFunc
	bufs  map[uint64][]*wgpu.Buffer
}

func newBufferPool(alloc allocFunc) *bufferPool {
	return &bufferPool{
		alloc: alloc,
		bufs:  make(map[uint64][]*wgpu.Buffer),
	}
}

// acquire returns a storage buffer of at least size bytes, reusing a pooled
// buffer of the same size class when one is free.
func (p *bufferPool) acquire(size uint64, label string) (*wgpu.Buffer, error) {
	rounded := poolSizeClass(size, 1)
	if free := p.bufs[rounded]; len(free) > 0 {
		buf := free[len(free)-1]
		p.bufs[rounded] = free[:len(free)-1]
		return buf, nil
	}
	return p.alloc(label, rounded)
}

// put returns a buffer to the pool for reuse.
func (p *bufferPool) put(buf *wgpu.Buffer, size uint64) {
	rounded := poolSizeClass(size, 1)
	p.bufs[rounded] = append(p.bufs[rounded], buf)
}

// release frees every pooled buffer.
func (p *bufferPool) release() {
	for class, free := range p.bufs {
		for _, buf := range free {
			buf.Release()
		}
		delete(p.bufs, class)
	}
}

// poolSizeClass rounds x up so that only numBits significant bits remain,
// collapsing nearby sizes into shared classes.
func poolSizeClass(x uint64, numBits uint32) uint64 {
	if x > 1<<numBits {
		a := bits.LeadingZeros64(x - 1)
		b := (x - 1) | (((math.MaxUint64 / 2) >> numBits) >> a)
		return b + 1
	}
	return 1 << numBits
}
