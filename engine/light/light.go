package light

import (
	"sync"

	"github.com/chewxy/math32"
)

// MaxLights is the number of directional lights the toon shader reads.
const MaxLights = 2

// GPULight is the std140-compatible layout of one light in the lighting
// uniform. Direction and color are padded to vec4 boundaries.
type GPULight struct {
	Direction [3]float32
	Intensity float32
	Color     [3]float32
	_         float32
}

// GPULighting is the full lighting uniform: a fixed light array plus the
// ambient term.
type GPULighting struct {
	Lights  [MaxLights]GPULight
	Ambient [3]float32
	_       float32
}

// rigImpl is the implementation of the Rig interface.
type rigImpl struct {
	mu      sync.Mutex
	lights  [MaxLights]GPULight
	ambient [3]float32
}

// Rig holds the directional lights and ambient term for toon shading. A
// key light and an optional fill light are enough for avatar rendering;
// their directions are among the global toggles exposed to the embedding
// application.
type Rig interface {
	// SetDirection points a light. The vector is normalized; a zero vector
	// is ignored.
	//
	// Parameters:
	//   - index: the light slot, 0-based
	//   - x, y, z: the direction the light travels
	SetDirection(index int, x, y, z float32)

	// SetColor sets a light's color and intensity.
	//
	// Parameters:
	//   - index: the light slot, 0-based
	//   - r, g, b: the light color
	//   - intensity: the scalar multiplier
	SetColor(index int, r, g, b, intensity float32)

	// SetAmbient sets the ambient term.
	//
	// Parameters:
	//   - r, g, b: the ambient color
	SetAmbient(r, g, b float32)

	// Uniform snapshots the rig into the GPU uniform layout.
	//
	// Returns:
	//   - GPULighting: the current lighting state
	Uniform() GPULighting
}

var _ Rig = &rigImpl{}

// NewRig creates a lighting rig with a neutral key light from the upper
// front and a dim fill from behind.
//
// Returns:
//   - Rig: the constructed rig
func NewRig() Rig {
	r := &rigImpl{ambient: [3]float32{0.25, 0.25, 0.27}}
	r.SetDirection(0, -0.3, -0.8, -0.5)
	r.SetColor(0, 1, 1, 1, 1)
	r.SetDirection(1, 0.4, -0.2, 0.9)
	r.SetColor(1, 0.6, 0.65, 0.8, 0.35)
	return r
}

func (r *rigImpl) SetDirection(index int, x, y, z float32) {
	if index < 0 || index >= MaxLights {
		return
	}
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lights[index].Direction = [3]float32{x / length, y / length, z / length}
}

func (r *rigImpl) SetColor(index int, red, green, blue, intensity float32) {
	if index < 0 || index >= MaxLights {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lights[index].Color = [3]float32{red, green, blue}
	r.lights[index].Intensity = intensity
}

func (r *rigImpl) SetAmbient(red, green, blue float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ambient = [3]float32{red, green, blue}
}

func (r *rigImpl) Uniform() GPULighting {
	r.mu.Lock()
	defer r.mu.Unlock()
	return GPULighting{Lights: r.lights, Ambient: r.ambient}
}
