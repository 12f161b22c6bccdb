package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Load()

	if cfg.World.Extent != 1000 {
		t.Errorf("extent = %v, want 1000", cfg.World.Extent)
	}
	if cfg.World.TickRate != 30 {
		t.Errorf("tick rate = %d, want 30", cfg.World.TickRate)
	}
	if cfg.Octree.NumLevels != 8 {
		t.Errorf("levels = %d, want 8", cfg.Octree.NumLevels)
	}
	if cfg.Limits.MaxBodies != 100_000 {
		t.Errorf("max bodies = %d", cfg.Limits.MaxBodies)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if !cfg.Server.EnableDebug {
		t.Error("debug server should default on")
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != 1024 {
		t.Errorf("frame = %dx%d, want 1024x1024", cfg.Render.Width, cfg.Render.Height)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WORLD_EXTENT", "250.5")
	t.Setenv("WORLD_TICK_RATE", "60")
	t.Setenv("OCTREE_LEVELS", "5")
	t.Setenv("MAX_BODIES", "42")
	t.Setenv("MAX_QUERY_RESULTS", "7")
	t.Setenv("PORT", "8080")
	t.Setenv("DEMO_BODIES", "100")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")
	t.Setenv("FRAME_WIDTH", "320")
	t.Setenv("FRAME_HEIGHT", "240")

	cfg := Load()

	if cfg.World.Extent != 250.5 {
		t.Errorf("extent = %v", cfg.World.Extent)
	}
	if cfg.World.TickRate != 60 {
		t.Errorf("tick rate = %d", cfg.World.TickRate)
	}
	if cfg.Octree.NumLevels != 5 {
		t.Errorf("levels = %d", cfg.Octree.NumLevels)
	}
	if cfg.Limits.MaxBodies != 42 || cfg.Limits.MaxQueryResults != 7 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Server.Port != 8080 || cfg.Server.DemoBodies != 100 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.EnableDebug {
		t.Error("debug server should be disabled")
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != 240 {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestInvalidEnvIgnored(t *testing.T) {
	t.Setenv("WORLD_EXTENT", "not-a-number")
	t.Setenv("WORLD_TICK_RATE", "-5")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.World.Extent != 1000 {
		t.Errorf("bad extent should keep default, got %v", cfg.World.Extent)
	}
	if cfg.World.TickRate != 30 {
		t.Errorf("negative tick rate should keep default, got %d", cfg.World.TickRate)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("empty port should keep default, got %d", cfg.Server.Port)
	}
}

func TestWorldBounds(t *testing.T) {
	b := WorldConfig{Extent: 10}.Bounds()
	if b.Min.X != -10 || b.Max.Z != 10 {
		t.Errorf("bounds = %+v", b)
	}
	if c := b.Center(); c.X != 0 || c.Y != 0 || c.Z != 0 {
		t.Errorf("bounds center = %v, want origin", c)
	}
}
