package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// Controller owns the camera's positional state. The Camera reads from it
// when recomputing matrices.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)
}

// orbitController orbits a pivot point using spherical coordinates. It is
// the standard control scheme for inspecting an avatar: drag to rotate,
// scroll to zoom, pan to move the pivot.
type orbitController struct {
	mu sync.Mutex

	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	maxElevation float32
}

// OrbitController is a Controller with orbit, zoom and pan manipulation.
type OrbitController interface {
	Controller

	// Orbit rotates around the target. Angles are in radians; positive
	// dAzimuth orbits right, positive dElevation tilts up.
	//
	// Parameters:
	//   - dAzimuth, dElevation: rotation deltas in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom adjusts the orbit radius. Positive delta moves closer to the
	// target, clamped to the configured radius range.
	//
	// Parameters:
	//   - delta: the distance change
	Zoom(delta float32)

	// Pan moves the target in the camera's screen plane.
	//
	// Parameters:
	//   - dx, dy: horizontal and vertical pan distances
	Pan(dx, dy float32)

	// SetTarget sets the pivot point.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)
}

var _ OrbitController = &orbitController{}

// NewOrbitController creates an orbit controller pivoting around the given
// target at the given starting distance.
//
// Parameters:
//   - targetX, targetY, targetZ: the initial pivot point
//   - radius: the initial distance from the pivot
//
// Returns:
//   - OrbitController: the constructed controller
func NewOrbitController(targetX, targetY, targetZ, radius float32) OrbitController {
	return &orbitController{
		target:       [3]float32{targetX, targetY, targetZ},
		radius:       radius,
		minRadius:    0.2,
		maxRadius:    50,
		maxElevation: math32.Pi/2 - 0.01,
	}
}

func (o *orbitController) Position() (x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	cosE := math32.Cos(o.elevation)
	x = o.target[0] + o.radius*cosE*math32.Sin(o.azimuth)
	y = o.target[1] + o.radius*math32.Sin(o.elevation)
	z = o.target[2] + o.radius*cosE*math32.Cos(o.azimuth)
	return x, y, z
}

func (o *orbitController) Target() (x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target[0], o.target[1], o.target[2]
}

func (o *orbitController) Orbit(dAzimuth, dElevation float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth += dAzimuth
	o.elevation += dElevation
	if o.elevation > o.maxElevation {
		o.elevation = o.maxElevation
	}
	if o.elevation < -o.maxElevation {
		o.elevation = -o.maxElevation
	}
}

func (o *orbitController) Zoom(delta float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius -= delta
	if o.radius < o.minRadius {
		o.radius = o.minRadius
	}
	if o.radius > o.maxRadius {
		o.radius = o.maxRadius
	}
}

func (o *orbitController) Pan(dx, dy float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// Screen-plane pan: right vector lies in the XZ plane perpendicular to
	// the view direction, vertical pan follows world Y.
	rightX := math32.Cos(o.azimuth)
	rightZ := -math32.Sin(o.azimuth)
	o.target[0] += dx * rightX
	o.target[2] += dx * rightZ
	o.target[1] += dy
}

func (o *orbitController) SetTarget(x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = [3]float32{x, y, z}
}
