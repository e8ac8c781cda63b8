package main

import (
	"math"
	"os"

	"github.com/arkavo-org/vrmkit/common"
	"github.com/arkavo-org/vrmkit/engine"
	"github.com/arkavo-org/vrmkit/engine/avatar"
	"github.com/arkavo-org/vrmkit/engine/camera"
	"github.com/arkavo-org/vrmkit/engine/renderer"
	"github.com/arkavo-org/vrmkit/engine/window"
	"github.com/arkavo-org/vrmkit/internal/config"
	"github.com/arkavo-org/vrmkit/internal/logger"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

func main() {
	// ── Configuration + Logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	// ── Engine + Window ─────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)

	// ── Renderer ────────────────────────────────────────────────────
	presentMode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaaFromSamples(cfg.Render.MSAASamples)),
	)

	// ── Avatar ──────────────────────────────────────────────────────
	av := avatar.NewAvatar(r,
		avatar.WithFramesInFlight(cfg.Render.FramesInFlight),
		avatar.WithStrict(cfg.Debug.Strict),
	)
	av.SetWireframe(cfg.Debug.Wireframe)
	av.SetDisableCulling(cfg.Debug.DisableCulling)
	av.SetSingleMesh(cfg.Debug.SingleMesh)

	// Warm key light from the upper front-right, cool fill from the left.
	av.Rig().SetDirection(0, -0.4, -0.8, -0.5)
	av.Rig().SetColor(0, 1.0, 0.96, 0.9, 1.0)
	av.Rig().SetDirection(1, 0.6, -0.2, 0.4)
	av.Rig().SetColor(1, 0.55, 0.6, 0.75, 0.4)
	av.Rig().SetAmbient(0.25, 0.25, 0.28)

	demo := newDemoModel()
	if err := av.SetModel(demo); err != nil {
		logger.Error("model setup failed", zap.Error(err))
		os.Exit(1)
	}

	// ── Camera ──────────────────────────────────────────────────────
	orbit := camera.NewOrbitController(0, demoBodyHeight*0.75, 0, 2.4)
	cam := camera.NewCamera(
		camera.WithFov(float32(45.0*math.Pi/180.0)),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithNear(0.05),
		camera.WithFar(100),
		camera.WithController(orbit),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithAvatar(av),
		engine.WithCamera(cam),
		engine.WithTickRate(cfg.Render.TickRate),
		engine.WithProfiling(cfg.Debug.Profile),
		engine.WithRenderFrameLimit(float64(cfg.Window.FPSLimit)),
	)
	eng.SetResizeFunc(func(width, height int) {
		r.Resize(width, height)
	})

	setupInput(eng, av, orbit)
	setupAnimation(eng, av)

	logger.Info("viewer starting",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Bool("vsync", cfg.Window.VSync),
	)

	eng.Run()
	av.Release()
}

// msaaFromSamples maps a config sample count onto the renderer's supported
// MSAA levels, falling back to 4x for unrecognized values.
func msaaFromSamples(samples int) renderer.MSAASampleCount {
	switch samples {
	case 1:
		return renderer.MSAAOff
	case 8:
		return renderer.MSAA8x
	case 16:
		return renderer.MSAA16x
	default:
		return renderer.MSAA4x
	}
}

// setupInput wires mouse orbit/pan/zoom and the keyboard debug toggles.
func setupInput(eng engine.Engine, av avatar.Avatar, orbit camera.OrbitController) {
	var orbiting, panning bool
	var lastX, lastY int32

	wireframe := false
	culling := true
	singleMesh := -1

	eng.Window().SetMouseButtonCallback(func(button window.MouseButton, pressed bool, x, y int32) {
		switch button {
		case window.MouseButtonLeft:
			orbiting = pressed
		case window.MouseButtonMiddle:
			panning = pressed
		}
		lastX, lastY = x, y
	})
	eng.Window().SetMouseMoveCallback(func(x, y int32) {
		dx := float32(x - lastX)
		dy := float32(y - lastY)
		lastX, lastY = x, y
		if orbiting {
			orbit.Orbit(dx*0.008, dy*0.008)
		} else if panning {
			orbit.Pan(-dx*0.003, dy*0.003)
		}
	})
	eng.Window().SetScrollCallback(func(delta float32) {
		orbit.Zoom(delta * 0.2)
	})

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyW:
			wireframe = !wireframe
			av.SetWireframe(wireframe)
			logger.Info("wireframe toggled", zap.Bool("enabled", wireframe))
		case common.KeyC:
			culling = !culling
			av.SetDisableCulling(!culling)
			logger.Info("culling toggled", zap.Bool("enabled", culling))
		case common.KeyM:
			// Cycle: all meshes, then each mesh in turn.
			meshCount := 0
			if m := av.Model(); m != nil {
				meshCount = len(m.Meshes)
			}
			singleMesh++
			if singleMesh >= meshCount {
				singleMesh = -1
			}
			av.SetSingleMesh(singleMesh)
			logger.Info("single mesh toggled", zap.Int("mesh", singleMesh))
		case common.KeyR:
			orbit.SetTarget(0, demoBodyHeight*0.75, 0)
		}
	})
}

// setupAnimation drives the demo pose each tick: a gentle spine sway, a head
// nod, and oscillating morph weights on the face.
func setupAnimation(eng engine.Engine, av avatar.Avatar) {
	var elapsed float64

	eng.SetTickCallback(func(dt float32) {
		elapsed += float64(dt)
		m := av.Model()
		if m == nil {
			return
		}

		sway := float32(0.12 * math.Sin(elapsed*1.3))
		nod := float32(0.08 * math.Sin(elapsed*0.9+1.0))
		smile := float32(0.5 + 0.5*math.Sin(elapsed*0.7))
		surprise := float32(math.Max(0, math.Sin(elapsed*0.4-1.5)))

		m.Lock()
		// Spine sway about Z, head nod about X. Quaternions are (x, y, z, w).
		m.Nodes[2].Rotation = [4]float32{0, 0, math32.Sin(sway / 2), math32.Cos(sway / 2)}
		m.Nodes[3].Rotation = [4]float32{math32.Sin(nod / 2), 0, 0, math32.Cos(nod / 2)}
		m.Meshes[1].Weights[0] = smile
		m.Meshes[1].Weights[1] = surprise
		m.Unlock()
	})
}
