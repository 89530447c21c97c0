package system

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// keep their registration order.
type Runner struct {
	systems  []System
	sorted   bool
	ticks    uint64
	log      *zap.Logger
	budget   time.Duration
	overruns uint64
}

func NewRunner(log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
		log:     log,
	}
}

// SetBudget sets the wall time a full tick may take before it is logged as
// an overrun. Zero disables the check.
func (r *Runner) SetBudget(d time.Duration) { r.budget = d }

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	if r.budget <= 0 {
		for _, s := range r.systems {
			s.Update(dt)
		}
		r.ticks++
		return
	}

	var spent [PhaseCleanup + 1]time.Duration
	start := time.Now()
	for _, s := range r.systems {
		t0 := time.Now()
		s.Update(dt)
		if p := s.Phase(); p >= 0 && int(p) < len(spent) {
			spent[p] += time.Since(t0)
		}
	}
	r.ticks++

	if elapsed := time.Since(start); elapsed > r.budget {
		r.overruns++
		fields := []zap.Field{
			zap.Uint64("tick", r.ticks),
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", r.budget),
		}
		for p, d := range spent {
			if d > 0 {
				fields = append(fields, zap.Duration(Phase(p).String(), d))
			}
		}
		r.log.Warn("tick over budget", fields...)
	}
}

// TickPhase runs only the systems of one phase. It does not count as a tick.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Ticks returns the number of completed full ticks.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Overruns returns how many ticks exceeded the budget.
func (r *Runner) Overruns() uint64 { return r.overruns }

// Len returns the number of registered systems.
func (r *Runner) Len() int { return len(r.systems) }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
