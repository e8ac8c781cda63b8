package camera

import (
	"math"
	"testing"
)

func TestOrbitControllerDefaultPosition(t *testing.T) {
	o := NewOrbitController(0, 1, 0, 3)
	x, y, z := o.Position()
	if math.Abs(float64(x)) > 1e-5 || math.Abs(float64(y)-1) > 1e-5 || math.Abs(float64(z)-3) > 1e-5 {
		t.Errorf("expected position (0, 1, 3), got (%v, %v, %v)", x, y, z)
	}
}

func TestOrbitRotates(t *testing.T) {
	o := NewOrbitController(0, 0, 0, 2)
	o.Orbit(math.Pi/2, 0)
	x, _, z := o.Position()
	if math.Abs(float64(x)-2) > 1e-5 || math.Abs(float64(z)) > 1e-5 {
		t.Errorf("expected position (2, 0) in XZ, got (%v, %v)", x, z)
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	o := NewOrbitController(0, 0, 0, 2)
	o.Orbit(0, 10)
	_, y, _ := o.Position()
	if y > 2 {
		t.Errorf("elevation not clamped, position y = %v", y)
	}
	if y < 1.9 {
		t.Errorf("expected near-vertical camera, got y = %v", y)
	}
}

func TestZoomClampsRadius(t *testing.T) {
	o := NewOrbitController(0, 0, 0, 2)
	o.Zoom(100)
	_, _, z := o.Position()
	if math.Abs(float64(z)-0.2) > 1e-5 {
		t.Errorf("expected radius clamped to 0.2, got z = %v", z)
	}
}

func TestCameraUpdateFromController(t *testing.T) {
	o := NewOrbitController(0, 0, 0, 5)
	c := NewCamera(WithController(o), WithAspect(16.0/9.0))

	view := c.ViewMatrix()
	// Camera at (0, 0, 5) looking at origin: view translation is -5 on Z.
	if math.Abs(float64(view[14])+5) > 1e-5 {
		t.Errorf("expected view z translation -5, got %v", view[14])
	}

	o.Zoom(2)
	c.Update()
	view = c.ViewMatrix()
	if math.Abs(float64(view[14])+3) > 1e-5 {
		t.Errorf("expected view z translation -3 after zoom, got %v", view[14])
	}
}
