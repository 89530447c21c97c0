package system

import (
	"time"

	coresys "github.com/cavern/cavern/internal/core/system"
	"github.com/cavern/cavern/internal/scripting"
)

// ScriptSystem runs the Lua on_tick handlers.
type ScriptSystem struct {
	lua *scripting.Engine
}

func NewScriptSystem(lua *scripting.Engine) *ScriptSystem {
	return &ScriptSystem{lua: lua}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.lua.Tick(dt)
}
