package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second/60, cfg.Sim.TickRate)
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Scripting.Enabled)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 500, cfg.Database.SnapshotKeep)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cavern.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sim]
tick_rate = "50ms"
max_ticks = 120
room = "rooms/shaft.yaml"

[database]
dsn = "postgres://localhost/cavern"
snapshot_every = 10
snapshot_keep = 0

[logging]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.Sim.TickRate)
	assert.Equal(t, 120, cfg.Sim.MaxTicks)
	assert.Equal(t, "rooms/shaft.yaml", cfg.Sim.Room)
	assert.Equal(t, "data/rooms", cfg.Sim.RoomDir)
	assert.Equal(t, 10, cfg.Database.SnapshotEvery)
	assert.Zero(t, cfg.Database.SnapshotKeep)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"negative ticks": "[sim]\nmax_ticks = -1",
		"zero snapshots": "[database]\ndsn = \"x\"\nsnapshot_every = 0",
		"malformed toml": "[sim\n",
		"negative keep":  "[database]\nsnapshot_keep = -1",
		"zero tick rate": "[sim]\ntick_rate = \"0s\"",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")
}
