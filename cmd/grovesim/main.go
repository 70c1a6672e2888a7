// Command grovesim runs the persistent grove simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/talgya/grove/internal/api"
	"github.com/talgya/grove/internal/engine"
	"github.com/talgya/grove/internal/grove"
	"github.com/talgya/grove/internal/persistence"
	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/weather"
	"github.com/talgya/grove/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := envOr("GROVE_DB", "data/grove.db")
	port := envInt("GROVE_PORT", 8080)
	adminKey := os.Getenv("GROVE_ADMIN_KEY")
	tier := species.TierByID(envOr("GROVE_DIFFICULTY", "normal"))
	seed := int64(envInt("GROVE_SEED", 42))

	slog.Info("grove simulation starting", "db", dbPath, "difficulty", tier.ID, "seed", seed)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// ── World Map (always regenerated — deterministic from seed) ──────
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	m := world.Generate(cfg)
	slog.Info("map generated", "size", fmt.Sprintf("%dx%d", m.Width, m.Height), "water_tiles", len(m.WaterTiles()))

	m.AddStructure(world.Structure{Name: "greenhouse", Pos: world.GridPos{X: 30, Z: 30}, Radius: 4, GrowthBoost: 1.25, HarvestBoost: 1.0})
	m.AddStructure(world.Structure{Name: "mill", Pos: world.GridPos{X: 36, Z: 28}, Radius: 3, GrowthBoost: 1.0, HarvestBoost: 1.2})

	// ── Load or Seed the Grove ────────────────────────────────────────
	var trees []*grove.Tree
	var startTick uint64

	if db.HasState() {
		trees, err = db.LoadTrees()
		if err != nil {
			slog.Error("failed to load trees", "error", err)
			os.Exit(1)
		}
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}
		slog.Info("grove restored", "trees", len(trees), "tick", startTick, "sim_time", engine.SimTime(startTick))
	} else {
		trees = starterGrove(m)
		slog.Info("fresh grove planted", "trees", len(trees))
	}

	sim := engine.NewSimulation(m, trees, tier)
	sim.LastTick = startTick
	sim.Weather = weather.NewClient(os.Getenv("OPENWEATHER_API_KEY"), os.Getenv("OPENWEATHER_LOCATION"))

	// Fast-forward the grove over the downtime since the last save.
	if elapsed := db.ElapsedSinceSave(); elapsed > 1 {
		capped := elapsed
		if capped > grove.OfflineCapSec {
			capped = grove.OfflineCapSec
		}
		slog.Info("catching up offline growth",
			"away", humanize.Time(timeAgo(elapsed)),
			"applied_sec", capped,
		)
		sim.CatchUp(elapsed)
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.OnTick = sim.TickSecond
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := db.SaveState(sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}
	eng.OnSeason = sim.TickSeason

	// ── HTTP API ──────────────────────────────────────────────────────
	if adminKey == "" {
		slog.Warn("GROVE_ADMIN_KEY not set — POST endpoints disabled")
	}
	srv := &api.Server{Sim: sim, Eng: eng, Port: port, AdminKey: adminKey}
	srv.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	eng.Run()

	if err := db.SaveState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}
	slog.Info("grove saved, goodbye")
}

// starterGrove plants an initial population on a fresh map.
func starterGrove(m *world.Map) []*grove.Tree {
	plan := []struct {
		species species.ID
		pos     world.GridPos
	}{
		{"oak", world.GridPos{X: 28, Z: 30}},
		{"pine", world.GridPos{X: 31, Z: 29}},
		{"apple", world.GridPos{X: 33, Z: 31}},
		{"birch", world.GridPos{X: 29, Z: 33}},
		{"clusterfern", world.GridPos{X: 40, Z: 40}},
		{"clusterfern", world.GridPos{X: 41, Z: 40}},
		{"clusterfern", world.GridPos{X: 40, Z: 41}},
	}

	trees := make([]*grove.Tree, 0, len(plan)+1)
	for _, p := range plan {
		if m.TileAt(p.pos) == world.TileWater {
			continue
		}
		trees = append(trees, grove.NewTree(p.species, p.pos))
	}

	// A frostwillow next to water if the map has any.
	if water := m.WaterTiles(); len(water) > 0 {
		spot := world.GridPos{X: water[0].X + 1, Z: water[0].Z}
		if m.TileAt(spot) != world.TileWater {
			trees = append(trees, grove.NewTree("frostwillow", spot))
		}
	}
	return trees
}

func timeAgo(sec float64) time.Time {
	return time.Now().Add(-time.Duration(sec * float64(time.Second)))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
