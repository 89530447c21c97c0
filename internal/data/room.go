package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spawn kinds understood by the prefab package.
const (
	KindBat           = "bat"
	KindSpider        = "spider"
	KindDrill         = "drill"
	KindSavePoint     = "save_point"
	KindHealthPickup  = "health_pickup"
	KindAbilityPickup = "ability_pickup"
)

type Point struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// SpawnEntry places one prefab in a room.
type SpawnEntry struct {
	Kind string  `yaml:"kind"`
	X    float32 `yaml:"x"`
	Y    float32 `yaml:"y"`
	W    float32 `yaml:"w"`
	H    float32 `yaml:"h"`
	Path string  `yaml:"path"` // bats only; optional
	ID   string  `yaml:"id"`   // pickups only
}

// Room is a room definition: its bounds, named paths and spawn list.
type Room struct {
	Name   string             `yaml:"name"`
	Width  float32            `yaml:"width"`
	Height float32            `yaml:"height"`
	Paths  map[string][]Point `yaml:"paths"`
	Spawns []SpawnEntry       `yaml:"spawns"`
}

// LoadRoom reads and validates a room YAML file.
func LoadRoom(path string) (*Room, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room %s: %w", path, err)
	}
	room, err := ParseRoom(raw)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", path, err)
	}
	return room, nil
}

func ParseRoom(raw []byte) (*Room, error) {
	var r Room
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse room: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Room) validate() error {
	if r.Name == "" {
		return fmt.Errorf("room has no name")
	}
	for name, pts := range r.Paths {
		if len(pts) == 0 {
			return fmt.Errorf("path %q has no points", name)
		}
	}
	for i, s := range r.Spawns {
		switch s.Kind {
		case KindBat:
			if s.Path != "" && r.Paths[s.Path] == nil {
				return fmt.Errorf("spawn %d: unknown path %q", i, s.Path)
			}
		case KindSpider, KindDrill:
		case KindSavePoint:
			if s.W <= 0 || s.H <= 0 {
				return fmt.Errorf("spawn %d: save point needs a size", i)
			}
		case KindHealthPickup, KindAbilityPickup:
			if s.ID == "" {
				return fmt.Errorf("spawn %d: pickup needs an id", i)
			}
		default:
			return fmt.Errorf("spawn %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}

// Path returns the named path, or nil.
func (r *Room) Path(name string) []Point {
	return r.Paths[name]
}

// Count returns the number of spawn entries.
func (r *Room) Count() int {
	return len(r.Spawns)
}
