package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/core/ecs"
	coresys "github.com/cavern/cavern/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
	total int
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.total += n
		s.log.Debug("entities destroyed", zap.Int("count", n))
	}
}

// Destroyed returns the number of entities destroyed since start.
func (s *CleanupSystem) Destroyed() int { return s.total }
