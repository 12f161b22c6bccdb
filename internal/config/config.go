// Package config provides centralized configuration for the scene server.
// Defaults are compiled in; environment variables override them.
package config

import (
	"os"
	"strconv"

	"octoscene/internal/mathx"
)

// WorldConfig holds the world volume and tick settings.
type WorldConfig struct {
	Extent   float64 // World spans [-Extent, Extent] on every axis
	TickRate int     // World ticks per second
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Extent:   1000,
		TickRate: 30,
	}
}

// WorldFromEnv returns world configuration with environment overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if e := getEnvFloat("WORLD_EXTENT", 0); e > 0 {
		cfg.Extent = e
	}
	if t := getEnvInt("WORLD_TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	return cfg
}

// Bounds returns the world bounding box implied by the extent.
func (c WorldConfig) Bounds() mathx.BoundingBox {
	return mathx.BoundingBox{
		Min: mathx.Vector3{X: -c.Extent, Y: -c.Extent, Z: -c.Extent},
		Max: mathx.Vector3{X: c.Extent, Y: c.Extent, Z: c.Extent},
	}
}

// OctreeConfig holds spatial index settings.
type OctreeConfig struct {
	NumLevels int // Maximum subdivision depth
}

// DefaultOctree returns the default octree configuration.
func DefaultOctree() OctreeConfig {
	return OctreeConfig{NumLevels: 8}
}

// OctreeFromEnv returns octree configuration with environment overrides.
func OctreeFromEnv() OctreeConfig {
	cfg := DefaultOctree()
	if l := getEnvInt("OCTREE_LEVELS", 0); l > 0 {
		cfg.NumLevels = l
	}
	return cfg
}

// Limits controls resource caps protecting the server.
type Limits struct {
	MaxBodies       int // Hard cap on indexed bodies
	MaxQueryResults int // API responses truncate beyond this
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() Limits {
	return Limits{
		MaxBodies:       100_000,
		MaxQueryResults: 10_000,
	}
}

// LimitsFromEnv returns limits with environment overrides.
func LimitsFromEnv() Limits {
	cfg := DefaultLimits()

	if m := getEnvInt("MAX_BODIES", 0); m > 0 {
		cfg.MaxBodies = m
	}
	if m := getEnvInt("MAX_QUERY_RESULTS", 0); m > 0 {
		cfg.MaxQueryResults = m
	}
	return cfg
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	DemoBodies  int  // Seed this many drifting bodies at startup
	EnableDebug bool // Start the localhost pprof/metrics server
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:        3000,
		DemoBodies:  0,
		EnableDebug: true,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if d := getEnvInt("DEMO_BODIES", -1); d >= 0 {
		cfg.DemoBodies = d
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.EnableDebug = false
	}
	return cfg
}

// RenderConfig holds debug frame settings.
type RenderConfig struct {
	Width  int // Debug frame width in pixels
	Height int // Debug frame height in pixels
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{Width: 1024, Height: 1024}
}

// RenderFromEnv returns render configuration with environment overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if w := getEnvInt("FRAME_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("FRAME_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World  WorldConfig
	Octree OctreeConfig
	Limits Limits
	Server ServerConfig
	Render RenderConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		World:  WorldFromEnv(),
		Octree: OctreeFromEnv(),
		Limits: LimitsFromEnv(),
		Server: ServerFromEnv(),
		Render: RenderFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
