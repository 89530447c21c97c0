package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/core/ecs"
	coresys "github.com/cavern/cavern/internal/core/system"
	"github.com/cavern/cavern/internal/persist"
)

// SnapshotWriter stores world snapshots. *persist.SnapshotRepo implements it.
type SnapshotWriter interface {
	Save(ctx context.Context, s persist.Snapshot) error
	Prune(ctx context.Context, runID uuid.UUID, keep int) (int64, error)
}

// SnapshotSystem records world statistics every interval ticks and trims the
// run to its newest keep snapshots after each save.
type SnapshotSystem struct {
	world     *ecs.World
	store     SnapshotWriter
	room      func() string
	log       *zap.Logger
	runID     uuid.UUID
	interval  int
	keep      int
	tickCount int
	tick      uint64
	lastSaved uint64
	saved     int
	pruned    int64
}

// NewSnapshotSystem saves every intervalTicks ticks. keep == 0 disables pruning.
func NewSnapshotSystem(w *ecs.World, store SnapshotWriter, room func() string, log *zap.Logger, intervalTicks, keep int) *SnapshotSystem {
	return &SnapshotSystem{
		world:    w,
		store:    store,
		room:     room,
		log:      log,
		runID:    uuid.New(),
		interval: intervalTicks,
		keep:     keep,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	s.tick++
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Save()
}

// Save writes a snapshot immediately. Called on shutdown as well; a tick is
// never saved twice.
func (s *SnapshotSystem) Save() {
	if s.saved > 0 && s.lastSaved == s.tick {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := persist.Snapshot{
		RunID:   s.runID,
		Tick:    s.tick,
		Room:    s.room(),
		Stats:   s.world.Stats(),
		TakenAt: time.Now(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error("snapshot save failed", zap.Uint64("tick", s.tick), zap.Error(err))
		return
	}
	s.saved++
	s.lastSaved = s.tick
	s.log.Debug("snapshot saved",
		zap.Uint64("tick", s.tick),
		zap.Int("entities", snap.Stats.Entities))

	if s.keep <= 0 || s.saved <= s.keep {
		return
	}
	n, err := s.store.Prune(ctx, s.runID, s.keep)
	if err != nil {
		s.log.Warn("snapshot prune failed", zap.Error(err))
		return
	}
	s.pruned += n
}

func (s *SnapshotSystem) RunID() uuid.UUID { return s.runID }

// Saved returns the number of snapshots written successfully.
func (s *SnapshotSystem) Saved() int { return s.saved }

// Pruned returns the number of snapshots deleted by pruning.
func (s *SnapshotSystem) Pruned() int64 { return s.pruned }
