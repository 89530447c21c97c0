package scripting

import (
	"fmt"
	"unsafe"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cavern/cavern/internal/component"
	"github.com/cavern/cavern/internal/core/ecs"
	"github.com/cavern/cavern/internal/core/event"
	"github.com/cavern/cavern/internal/data"
)

const entityTypeName = "entity"

func builtinTypes() map[string]*ecs.ComponentType {
	types := make(map[string]*ecs.ComponentType)
	for _, t := range []*ecs.ComponentType{
		component.Transforms.Type(),
		component.Colliders.Type(),
		component.Sprites.Type(),
		component.AnimatedSprites.Type(),
		component.RoomChildren.Type(),
		component.Kinds.Type(),
		component.Enemies.Type(),
		component.Bats.Type(),
		component.PathFollowers.Type(),
		component.Spiders.Type(),
		component.Drills.Type(),
		component.SavePoints.Type(),
		component.Pickups.Type(),
	} {
		types[t.Name()] = t
	}
	return types
}

func (e *Engine) register() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(func(L *lua.LState) int {
		ent := checkEntity(L, 1)
		L.Push(lua.LString(fmt.Sprintf("entity(%d:%d)", ent.ID(), ent.Version())))
		return 1
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
		return 1
	}))

	for name, fn := range map[string]lua.LGFunction{
		"on_tick":   e.luaOnTick,
		"view":      e.luaView,
		"count":     e.luaCount,
		"valid":     e.luaValid,
		"id":        e.luaID,
		"has":       e.luaHas,
		"kind":      e.luaKind,
		"destroy":   e.luaDestroy,
		"spawn":     e.luaSpawn,
		"get_pos":   e.luaGetPos,
		"set_pos":   e.luaSetPos,
		"bat_state": e.luaBatState,
		"num":       e.luaNum,
		"set_num":   e.luaSetNum,
		"del_num":   e.luaDelNum,
		"goto_room": e.luaGotoRoom,
		"log":       e.luaLog,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func pushEntity(L *lua.LState, ent ecs.Entity) {
	ud := L.NewUserData()
	ud.Value = ent
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	L.Push(ud)
}

func checkEntity(L *lua.LState, n int) ecs.Entity {
	ud := L.CheckUserData(n)
	ent, ok := ud.Value.(ecs.Entity)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return ent
}

func (e *Engine) checkType(L *lua.LState, n int) *ecs.ComponentType {
	name := L.CheckString(n)
	if t, ok := e.types[name]; ok {
		return t
	}
	if t, ok := e.nums[name]; ok {
		return t
	}
	L.ArgError(n, "unknown component "+name)
	return nil
}

// on_tick(fn) registers fn(dt) to run every tick.
func (e *Engine) luaOnTick(L *lua.LState) int {
	e.onTick = append(e.onTick, L.CheckFunction(1))
	return 0
}

// view(name, ...) returns an array of the entities holding every named
// component. The array is a snapshot, so the loop body may mutate freely.
func (e *Engine) luaView(L *lua.LState) int {
	n := L.GetTop()
	types := make([]*ecs.ComponentType, 0, n)
	for i := 1; i <= n; i++ {
		types = append(types, e.checkType(L, i))
	}
	ents, err := ecs.Collect(e.world, types...)
	if err != nil {
		L.RaiseError("view: %s", err.Error())
		return 0
	}
	tbl := L.NewTable()
	for _, ent := range ents {
		pushEntity(L, ent)
		tbl.Append(L.Get(-1))
		L.Pop(1)
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.Count(e.checkType(L, 1))))
	return 1
}

func (e *Engine) luaValid(L *lua.LState) int {
	L.Push(lua.LBool(e.world.EntityValid(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaID(L *lua.LState) int {
	L.Push(lua.LNumber(checkEntity(L, 1).ID()))
	return 1
}

func (e *Engine) luaHas(L *lua.LState) int {
	L.Push(lua.LBool(e.world.HasComponent(checkEntity(L, 1), e.checkType(L, 2))))
	return 1
}

func (e *Engine) luaKind(L *lua.LState) int {
	k := component.Kinds.Get(e.world, checkEntity(L, 1))
	if k == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(k.Name))
	return 1
}

// destroy(e) queues e for end-of-tick destruction.
func (e *Engine) luaDestroy(L *lua.LState) int {
	e.world.MarkForDestruction(checkEntity(L, 1))
	return 0
}

// spawn(kind, x, y [, arg]) builds a prefab in the current room. arg is the
// path name for bats and the id for pickups.
func (e *Engine) luaSpawn(L *lua.LState) int {
	sp := data.SpawnEntry{
		Kind: L.CheckString(1),
		X:    float32(L.CheckNumber(2)),
		Y:    float32(L.CheckNumber(3)),
	}
	arg := L.OptString(4, "")
	switch sp.Kind {
	case data.KindHealthPickup, data.KindAbilityPickup:
		sp.ID = arg
	case data.KindSavePoint:
		sp.W, sp.H = 64, 64
	default:
		sp.Path = arg
	}
	room := e.room
	if room == nil {
		room = &data.Room{}
	}
	ent, err := e.spawner.Spawn(room, sp)
	if err != nil {
		L.RaiseError("spawn: %s", err.Error())
		return 0
	}
	pushEntity(L, ent)
	return 1
}

// get_pos(e) returns x, y or nil when e has no transform.
func (e *Engine) luaGetPos(L *lua.LState) int {
	t := component.Transforms.Get(e.world, checkEntity(L, 1))
	if t == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(t.Position.X))
	L.Push(lua.LNumber(t.Position.Y))
	return 2
}

func (e *Engine) luaSetPos(L *lua.LState) int {
	t := component.Transforms.Get(e.world, checkEntity(L, 1))
	if t == nil {
		L.Push(lua.LFalse)
		return 1
	}
	t.Position = component.Vec2{X: float32(L.CheckNumber(2)), Y: float32(L.CheckNumber(3))}
	L.Push(lua.LTrue)
	return 1
}

// bat_state(e [, offset]) returns anchor x, anchor y and offset, storing a
// new offset first when given.
func (e *Engine) luaBatState(L *lua.LState) int {
	bat := component.Bats.Get(e.world, checkEntity(L, 1))
	if bat == nil {
		L.Push(lua.LNil)
		return 1
	}
	if L.GetTop() >= 2 {
		bat.Offset = float64(L.CheckNumber(2))
	}
	L.Push(lua.LNumber(bat.Anchor.X))
	L.Push(lua.LNumber(bat.Anchor.Y))
	L.Push(lua.LNumber(bat.Offset))
	return 3
}

// num(e, name) reads a script-defined numeric component, or nil.
func (e *Engine) luaNum(L *lua.LState) int {
	ent := checkEntity(L, 1)
	t, ok := e.nums[L.CheckString(2)]
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	p := e.world.GetComponent(ent, t)
	if p == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(*(*float64)(p)))
	return 1
}

// set_num(e, name, v) attaches or overwrites a numeric component.
func (e *Engine) luaSetNum(L *lua.LState) int {
	ent := checkEntity(L, 1)
	name := L.CheckString(2)
	v := float64(L.CheckNumber(3))
	if _, builtin := e.types[name]; builtin {
		L.ArgError(2, "component "+name+" is not numeric")
		return 0
	}
	t, ok := e.nums[name]
	if !ok {
		t = ecs.NewRawType(name, 8, 8)
		e.nums[name] = t
	}
	if _, err := e.world.AddComponent(ent, t, unsafe.Pointer(&v)); err != nil {
		L.RaiseError("set_num: %s", err.Error())
	}
	return 0
}

func (e *Engine) luaDelNum(L *lua.LState) int {
	ent := checkEntity(L, 1)
	if t, ok := e.nums[L.CheckString(2)]; ok {
		e.world.RemoveComponent(ent, t)
	}
	return 0
}

// goto_room(name) requests a room transition, applied on the next tick.
func (e *Engine) luaGotoRoom(L *lua.LState) int {
	name := L.CheckString(1)
	if e.bus == nil {
		L.RaiseError("goto_room: no event bus")
		return 0
	}
	event.Emit(e.bus, event.RoomTransitionRequested{Room: name})
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
