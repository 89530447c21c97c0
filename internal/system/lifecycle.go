package system

import (
	"sort"

	"github.com/cavern/cavern/internal/core/event"
)

// KindCount is the lifecycle tally of one entity kind.
type KindCount struct {
	Kind      string
	Spawned   int
	Destroyed int
}

// Lifecycle tallies EntitySpawned and EntityDestroyed events per kind. It has
// no phase of its own; the events reach it through EventDispatchSystem.
type Lifecycle struct {
	counts map[string]*KindCount
}

func NewLifecycle(bus *event.Bus) *Lifecycle {
	l := &Lifecycle{counts: make(map[string]*KindCount)}
	event.Subscribe(bus, func(ev event.EntitySpawned) { l.get(ev.Kind).Spawned++ })
	event.Subscribe(bus, func(ev event.EntityDestroyed) { l.get(ev.Kind).Destroyed++ })
	return l
}

func (l *Lifecycle) get(kind string) *KindCount {
	c, ok := l.counts[kind]
	if !ok {
		c = &KindCount{Kind: kind}
		l.counts[kind] = c
	}
	return c
}

// Counts returns the tallies sorted by kind.
func (l *Lifecycle) Counts() []KindCount {
	out := make([]KindCount, 0, len(l.counts))
	for _, c := range l.counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
