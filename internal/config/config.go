package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim       SimConfig       `toml:"sim"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
}

type SimConfig struct {
	Name     string        `toml:"name"`
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until signalled
	Room     string        `toml:"room"`      // room YAML loaded at startup
	RoomDir  string        `toml:"room_dir"`  // rooms reachable by transition
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DatabaseConfig configures the snapshot store. An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	SnapshotEvery   int           `toml:"snapshot_every"` // ticks between snapshots
	SnapshotKeep    int           `toml:"snapshot_keep"`  // newest snapshots kept per run; 0 keeps all
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive")
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("sim.max_ticks must not be negative")
	}
	if c.Database.DSN != "" && c.Database.SnapshotEvery <= 0 {
		return fmt.Errorf("database.snapshot_every must be positive")
	}
	if c.Database.SnapshotKeep < 0 {
		return fmt.Errorf("database.snapshot_keep must not be negative")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Name:     "cavern",
			TickRate: time.Second / 60,
			Room:     "data/rooms/cave.yaml",
			RoomDir:  "data/rooms",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			SnapshotEvery:   60,
			SnapshotKeep:    500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
