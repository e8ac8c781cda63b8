package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Render.FramesInFlight != 3 {
		t.Errorf("expected 3 frames in flight, got %d", cfg.Render.FramesInFlight)
	}
	if cfg.Render.MSAASamples != 4 {
		t.Errorf("expected 4 MSAA samples, got %d", cfg.Render.MSAASamples)
	}

	if cfg.Debug.Wireframe {
		t.Error("expected wireframe to be false by default")
	}
	if cfg.Debug.SingleMesh != -1 {
		t.Errorf("expected single_mesh -1, got %d", cfg.Debug.SingleMesh)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
window:
  width: 1920
  height: 1080
render:
  frames_in_flight: 2
debug:
  wireframe: true
  single_mesh: 4
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if cfg.Render.FramesInFlight != 2 {
		t.Errorf("expected 2 frames in flight, got %d", cfg.Render.FramesInFlight)
	}
	if !cfg.Debug.Wireframe {
		t.Error("expected wireframe true from file")
	}
	if cfg.Debug.SingleMesh != 4 {
		t.Errorf("expected single_mesh 4, got %d", cfg.Debug.SingleMesh)
	}
	// Untouched values keep their defaults.
	if cfg.Render.TickRate != 60 {
		t.Errorf("expected tick rate default 60, got %f", cfg.Render.TickRate)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 800
	cfg.Debug.Strict = true

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Window.Width != 800 {
		t.Errorf("expected width 800 after round trip, got %d", loaded.Window.Width)
	}
	if !loaded.Debug.Strict {
		t.Error("expected strict true after round trip")
	}
}
