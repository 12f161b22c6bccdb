package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"octoscene/internal/api"
	"octoscene/internal/config"
	"octoscene/internal/mathx"
	"octoscene/internal/scene"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.Load()
	worldCfg := appConfig.World
	octreeCfg := appConfig.Octree
	limits := appConfig.Limits
	serverCfg := appConfig.Server
	renderCfg := appConfig.Render

	world := scene.NewWorld(scene.WorldConfig{
		Bounds:    worldCfg.Bounds(),
		NumLevels: octreeCfg.NumLevels,
		TickRate:  worldCfg.TickRate,
		MaxBodies: limits.MaxBodies,
	})

	// Feed tick and occupancy metrics from the tick loop.
	world.OnTick = func(d time.Duration) {
		api.RecordTick(d)
		stats := world.OctreeStats()
		api.UpdateOctreeGauges(world.BodyCount(), stats.NumOctants, stats.MaxDepth)
	}

	if serverCfg.DemoBodies > 0 {
		seedDemoBodies(world, serverCfg.DemoBodies, worldCfg.Extent)
		log.Printf("seeded %d demo bodies", serverCfg.DemoBodies)
	}

	if serverCfg.EnableDebug {
		debugCfg := api.DefaultObservabilityConfig()
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	server := api.NewServer(world, api.ServerConfig{
		MaxQueryResults: limits.MaxQueryResults,
		FrameWidth:      renderCfg.Width,
		FrameHeight:     renderCfg.Height,
	})

	world.Start()
	log.Printf("world started: extent %.0f, %d levels, %d ticks/s",
		worldCfg.Extent, octreeCfg.NumLevels, worldCfg.TickRate)

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down")
	server.Stop()
	world.Stop()
}

// seedDemoBodies fills the world with drifting boxes so the octree has
// something to index on a fresh start.
func seedDemoBodies(world *scene.World, n int, extent float64) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	span := extent * 0.9

	for i := 0; i < n; i++ {
		size := 0.5 + rng.Float64()*4
		spec := scene.BodySpec{
			Name: "demo-" + strconv.Itoa(i),
			Center: mathx.Vector3{
				X: (rng.Float64()*2 - 1) * span,
				Y: (rng.Float64()*2 - 1) * span,
				Z: (rng.Float64()*2 - 1) * span,
			},
			HalfExtents: mathx.Vector3{X: size, Y: size, Z: size},
			Velocity: mathx.Vector3{
				X: (rng.Float64()*2 - 1) * 5,
				Y: (rng.Float64()*2 - 1) * 5,
				Z: (rng.Float64()*2 - 1) * 5,
			},
		}
		if _, err := world.AddBody(spec); err != nil {
			log.Printf("demo body %d rejected: %v", i, err)
			return
		}
	}
}
