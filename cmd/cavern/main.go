package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cavern/cavern/internal/config"
	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	coresys "github.com/cavern/cavern/internal/core/system"
	"github.com/cavern/cavern/internal/data"
	"github.com/cavern/cavern/internal/persist"
	"github.com/cavern/cavern/internal/prefab"
	"github.com/cavern/cavern/internal/room"
	"github.com/cavern/cavern/internal/scripting"
	"github.com/cavern/cavern/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/cavern.toml"
	if p := os.Getenv("CAVERN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Create the ECS world with the prefab callback table
	bus := event.NewBus()
	opts := append([]ecs.Option{ecs.WithLogger(log.Named("ecs"))}, prefab.Hooks(bus)...)
	world := ecs.NewWorld(opts...)
	defer world.Free()

	lifecycle := system.NewLifecycle(bus)
	spawner := prefab.NewSpawner(world, bus, log.Named("prefab"))
	rooms := room.NewManager(world, spawner, bus, log.Named("room"))

	// 4. Load the start room
	printSection("Rooms")
	start, err := data.LoadRoom(cfg.Sim.Room)
	if err != nil {
		return fmt.Errorf("load start room: %w", err)
	}
	n, err := rooms.Load(start)
	if err != nil {
		return err
	}
	printStat(start.Name, n)
	subscribeTransitions(bus, rooms, cfg.Sim.RoomDir, log)

	// 5. Scripts
	runner := coresys.NewRunner(log.Named("runner"))
	runner.SetBudget(cfg.Sim.TickRate)
	runner.Register(system.NewEventDispatchSystem(bus))
	if cfg.Scripting.Enabled {
		lua, err := scripting.NewEngine(cfg.Scripting.Dir, world, spawner, bus, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer lua.Close()
		lua.SetRoom(start)
		event.Subscribe(bus, func(ev event.RoomLoaded) {
			if r := rooms.Room(ev.Room); r != nil {
				lua.SetRoom(r)
			}
		})
		runner.Register(system.NewScriptSystem(lua))
		printStat("lua handlers", lua.Handlers())
	}

	// 6. Optional snapshot store
	var snapshots *system.SnapshotSystem
	if cfg.Database.DSN != "" {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("schema version %d", version))

		snapshots = system.NewSnapshotSystem(world, persist.NewSnapshotRepo(db), rooms.Current,
			log.Named("snapshot"), cfg.Database.SnapshotEvery, cfg.Database.SnapshotKeep)
		runner.Register(snapshots)
		log.Info("snapshot run", zap.String("run_id", snapshots.RunID().String()))
	}

	cleanup := system.NewCleanupSystem(world, log.Named("cleanup"))
	runner.Register(cleanup)

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printOK(fmt.Sprintf("tick %s", cfg.Sim.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			if cfg.Sim.MaxTicks > 0 && runner.Ticks() >= uint64(cfg.Sim.MaxTicks) {
				return shutdown(log, world, runner, snapshots, cleanup, lifecycle, "max ticks reached")
			}
		case sig := <-shutdownCh:
			return shutdown(log, world, runner, snapshots, cleanup, lifecycle, sig.String())
		}
	}
}

func shutdown(log *zap.Logger, world *ecs.World, runner *coresys.Runner, snapshots *system.SnapshotSystem, cleanup *system.CleanupSystem, lifecycle *system.Lifecycle, reason string) error {
	if snapshots != nil {
		snapshots.Save()
	}
	stats := world.Stats()
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.Int("entities", stats.Entities),
		zap.Int("destroyed", cleanup.Destroyed()),
		zap.Uint64("ticks", runner.Ticks()),
		zap.Uint64("overruns", runner.Overruns()),
	}
	for _, c := range stats.Components {
		fields = append(fields, zap.Int(c.Type, c.Count))
	}
	log.Info("simulation stopped", fields...)
	for _, c := range lifecycle.Counts() {
		log.Info("entity lifecycle",
			zap.String("kind", c.Kind),
			zap.Int("spawned", c.Spawned),
			zap.Int("destroyed", c.Destroyed))
	}
	return nil
}

// subscribeTransitions swaps rooms when a script asks for one by name; the
// room file is <roomDir>/<name>.yaml.
func subscribeTransitions(bus *event.Bus, rooms *room.Manager, roomDir string, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.RoomTransitionRequested) {
		next, err := data.LoadRoom(filepath.Join(roomDir, ev.Room+".yaml"))
		if err != nil {
			log.Error("room transition", zap.String("room", ev.Room), zap.Error(err))
			return
		}
		if err := rooms.Transition(next); err != nil {
			log.Error("room transition", zap.String("room", ev.Room), zap.Error(err))
		}
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
