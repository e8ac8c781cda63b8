package skinning

import (
	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine/model"
)

const matrixBytes = 64

// palette is the implementation of the Palette interface.
type palette struct {
	data        []float32
	matrixCount int
}

// Palette maintains the shared joint-matrix block for every skin of a
// model. Skins are packed contiguously so a single GPU buffer serves the
// whole model; each skin records its byte offset into the block.
//
// The palette owns only the CPU-side staging data. The renderer uploads it
// into the shared buffer before any draw that references a skin.
type Palette interface {
	// Layout assigns each skin's offset into the shared block and sizes
	// the staging data. Must run after a model load and before Update.
	//
	// Parameters:
	//   - m: the model whose skins to pack; offsets are written back to them
	Layout(m *model.Model)

	// Update recomputes every joint matrix from the current node world
	// transforms and the skins' inverse bind matrices. Joints whose node
	// index is out of range are skipped.
	//
	// Parameters:
	//   - m: the model to read; the caller must hold its lock
	Update(m *model.Model)

	// Data returns the packed joint matrices, 16 floats per matrix, in
	// skin then joint order.
	//
	// Returns:
	//   - []float32: the staging data for the shared buffer
	Data() []float32

	// ByteSize returns the size of the shared buffer in bytes.
	//
	// Returns:
	//   - uint64: the packed block size
	ByteSize() uint64

	// MatrixCount returns the total number of joint matrices across all
	// skins.
	//
	// Returns:
	//   - int: the matrix count
	MatrixCount() int
}

var _ Palette = &palette{}

// NewPalette constructs an empty Palette.
//
// Returns:
//   - Palette: the constructed palette
func NewPalette() Palette {
	return &palette{}
}

func (p *palette) Layout(m *model.Model) {
	count := 0
	for i := range m.Skins {
		m.Skins[i].PaletteOffset = uint64(count) * matrixBytes
		count += len(m.Skins[i].Joints)
	}
	p.matrixCount = count
	p.data = make([]float32, count*16)
}

func (p *palette) Update(m *model.Model) {
	for si := range m.Skins {
		skin := &m.Skins[si]
		base := int(skin.PaletteOffset) / 4
		for ji, nodeIndex := range skin.Joints {
			if nodeIndex < 0 || nodeIndex >= len(m.Nodes) {
				continue
			}
			dst := p.data[base+ji*16 : base+ji*16+16]
			common.Mul4(dst, m.Nodes[nodeIndex].World[:], skin.InverseBind[ji][:])
		}
	}
}

func (p *palette) Data() []float32 {
	return p.data
}

func (p *palette) ByteSize() uint64 {
	return uint64(p.matrixCount) * matrixBytes
}

func (p *palette) MatrixCount() int {
	return p.matrixCount
}
