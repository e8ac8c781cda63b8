// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"`
}

// RenderConfig holds renderer and frame-pacing settings.
type RenderConfig struct {
	// FramesInFlight bounds the number of frames whose GPU work may be
	// outstanding at once. Values below 1 fall back to the default of 3.
	FramesInFlight int `yaml:"frames_in_flight"`
	// MSAASamples is the multisample count for the main render pass.
	MSAASamples int `yaml:"msaa_samples"`
	// TickRate is the animation update rate in ticks per second.
	TickRate float64 `yaml:"tick_rate"`
}

// DebugConfig holds developer toggles.
type DebugConfig struct {
	// Wireframe renders all items with the wireframe pipeline variant.
	Wireframe bool `yaml:"wireframe"`
	// DisableCulling forces cull mode "none" for every item.
	DisableCulling bool `yaml:"disable_culling"`
	// SingleMesh restricts drawing to one mesh index; -1 draws everything.
	SingleMesh int `yaml:"single_mesh"`
	// Strict promotes skipped-draw conditions (missing pipeline variants,
	// missing buffers) to hard errors for diagnostics builds.
	Strict bool `yaml:"strict"`
	// Profile enables frame-time profiling output to the log.
	Profile bool `yaml:"profile"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:    1280,
			Height:   720,
			Title:    "vrmkit viewer",
			VSync:    true,
			FPSLimit: 0,
		},
		Render: RenderConfig{
			FramesInFlight: 3,
			MSAASamples:    4,
			TickRate:       60,
		},
		Debug: DebugConfig{
			Wireframe:      false,
			DisableCulling: false,
			SingleMesh:     -1,
			Strict:         false,
			Profile:        false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
