package engine

import (
	"time"

	"github.com/arkavo-org/vrmkit/engine/avatar"
	"github.com/arkavo-org/vrmkit/engine/camera"
	"github.com/arkavo-org/vrmkit/engine/window"
)

type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the performance profiler at construction.
//
// Parameters:
//   - enabled: whether performance profiling output is enabled
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the animation tick rate in ticks per second.
//
// Parameters:
//   - fps: target ticks per second (defaults to 60 if <= 0)
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets the window the engine pumps messages for.
//
// Parameters:
//   - w: the window instance
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithAvatar sets the avatar drawn each render frame.
//
// Parameters:
//   - a: the avatar instance
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithAvatar(a avatar.Avatar) EngineBuilderOption {
	return func(e *engine) {
		e.avatar = a
	}
}

// WithCamera sets the camera supplying view and projection matrices.
//
// Parameters:
//   - c: the camera instance
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRenderFrameLimit caps the render loop at the given frames per second.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: the option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
