package light

import (
	"math"
	"testing"
)

func TestSetDirectionNormalizes(t *testing.T) {
	r := NewRig()
	r.SetDirection(0, 0, -2, 0)
	u := r.Uniform()
	if math.Abs(float64(u.Lights[0].Direction[1])+1) > 1e-6 {
		t.Errorf("expected normalized direction (0, -1, 0), got %v", u.Lights[0].Direction)
	}
}

func TestSetDirectionIgnoresZeroVector(t *testing.T) {
	r := NewRig()
	before := r.Uniform().Lights[0].Direction
	r.SetDirection(0, 0, 0, 0)
	after := r.Uniform().Lights[0].Direction
	if before != after {
		t.Error("zero vector must not change the light direction")
	}
}

func TestSetDirectionIgnoresBadIndex(t *testing.T) {
	r := NewRig()
	r.SetDirection(-1, 1, 0, 0)
	r.SetDirection(MaxLights, 1, 0, 0)
}

func TestUniformSnapshot(t *testing.T) {
	r := NewRig()
	r.SetColor(1, 1, 0, 0, 2)
	r.SetAmbient(0.1, 0.1, 0.1)
	u := r.Uniform()

	if u.Lights[1].Color != [3]float32{1, 0, 0} {
		t.Errorf("expected fill color (1, 0, 0), got %v", u.Lights[1].Color)
	}
	if u.Lights[1].Intensity != 2 {
		t.Errorf("expected intensity 2, got %v", u.Lights[1].Intensity)
	}
	if u.Ambient != [3]float32{0.1, 0.1, 0.1} {
		t.Errorf("expected ambient (0.1, 0.1, 0.1), got %v", u.Ambient)
	}
}
