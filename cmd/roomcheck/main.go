// roomcheck validates room YAML files by spawning each one into a scratch
// world and printing the resulting component counts.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
	"github.com/cavern/cavern/internal/prefab"
	"github.com/cavern/cavern/internal/room"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: roomcheck <room.yaml> [room.yaml...]")
		os.Exit(1)
	}

	failed := 0
	for _, path := range os.Args[1:] {
		if err := check(path); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func check(path string) error {
	r, err := data.LoadRoom(path)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	w := ecs.NewWorld(prefab.Hooks(bus)...)
	defer w.Free()

	rooms := room.NewManager(w, prefab.NewSpawner(w, bus, zap.NewNop()), bus, zap.NewNop())
	n, err := rooms.Load(r)
	if err != nil {
		return err
	}

	fmt.Printf("OK   %s (%s): %d entities\n", path, r.Name, n)
	for _, c := range w.Stats().Components {
		fmt.Printf("       %-16s %d\n", c.Type, c.Count)
	}

	if queued := rooms.Unload(r.Name); queued != n {
		return fmt.Errorf("unload queued %d of %d children", queued, n)
	}
	w.FlushDestroyQueue()
	if left := w.Stats().Entities; left != 0 {
		return fmt.Errorf("%d entities survived unload", left)
	}
	return nil
}
