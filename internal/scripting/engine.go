package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
	"github.com/cavern/cavern/internal/prefab"
)

// Engine wraps a single gopher-lua VM bound to one ECS World.
// Single-goroutine access only (game loop).
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	world   *ecs.World
	spawner *prefab.Spawner
	bus     *event.Bus
	// types resolves component names used by scripts; script-defined numeric
	// components are added to it lazily.
	types   map[string]*ecs.ComponentType
	nums    map[string]*ecs.ComponentType
	onTick  []*lua.LFunction
	failed  int
	room    *data.Room
}

// NewEngine creates a Lua engine and loads every script under scriptsDir:
// files in the directory itself first, then each subdirectory in name order.
// An empty scriptsDir loads nothing.
func NewEngine(scriptsDir string, w *ecs.World, spawner *prefab.Spawner, bus *event.Bus, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:      vm,
		log:     log,
		world:   w,
		spawner: spawner,
		bus:     bus,
		types:   builtinTypes(),
		nums:    make(map[string]*ecs.ComponentType),
	}
	e.register()

	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	entries, err := os.ReadDir(scriptsDir)
	if err != nil && !os.IsNotExist(err) {
		vm.Close()
		return nil, fmt.Errorf("read scripts dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := e.loadDir(filepath.Join(scriptsDir, entry.Name())); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", entry.Name(), err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// SetRoom sets the room that spawn() places new entities in and resolves
// bat paths against.
func (e *Engine) SetRoom(r *data.Room) { e.room = r }

// Tick calls every on_tick handler with dt in seconds. A failing handler is
// logged and the remaining handlers still run.
func (e *Engine) Tick(dt time.Duration) {
	for _, fn := range e.onTick {
		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(dt.Seconds())); err != nil {
			e.failed++
			e.log.Error("lua on_tick error", zap.Error(err))
		}
	}
}

// Handlers returns the number of registered on_tick handlers.
func (e *Engine) Handlers() int { return len(e.onTick) }

// Failures returns the number of handler calls that raised an error.
func (e *Engine) Failures() int { return e.failed }

func (e *Engine) Close() {
	e.vm.Close()
}
