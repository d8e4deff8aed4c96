package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"worldsim/internal/engine"
	"worldsim/internal/garage"
	"worldsim/internal/world"
)

const (
	garageTypeName  = "garage"
	vehicleTypeName = "vehicle"
	frameHook       = "on_frame"
)

// Host runs mission scripts against a world. Scripts see the world through
// the global "world" table and hold garages and vehicles as userdata.
type Host struct {
	world *world.World
	state *lua.State
	log   zerolog.Logger
}

type garageHandle struct {
	g *garage.Garage
}

// vehicleHandle does not keep the vehicle alive; once it is destroyed every
// method sees nil.
type vehicleHandle struct {
	ref engine.Ref
}

func NewHost(w *world.World, log zerolog.Logger) *Host {
	h := &Host{
		world: w,
		state: lua.NewState(),
		log:   log.With().Str("component", "script").Logger(),
	}
	lua.OpenLibraries(h.state)
	h.registerTypes()
	h.registerWorld()
	return h
}

func (h *Host) registerTypes() {
	lua.NewMetaTable(h.state, garageTypeName)
	h.state.NewTable()
	lua.SetFunctions(h.state, h.garageMethods(), 0)
	h.state.SetField(-2, "__index")
	h.state.Pop(1)

	lua.NewMetaTable(h.state, vehicleTypeName)
	h.state.NewTable()
	lua.SetFunctions(h.state, h.vehicleMethods(), 0)
	h.state.SetField(-2, "__index")
	h.state.Pop(1)
}

func (h *Host) registerWorld() {
	h.state.NewTable()
	lua.SetFunctions(h.state, []lua.RegistryFunction{
		{Name: "garage", Function: h.worldGarage},
		{Name: "create_vehicle", Function: h.worldCreateVehicle},
		{Name: "create_object", Function: h.worldCreateObject},
		{Name: "player_vehicle", Function: h.worldPlayerVehicle},
		{Name: "put_player_in", Function: h.worldPutPlayerIn},
		{Name: "warp_player", Function: h.worldWarpPlayer},
		{Name: "game_time", Function: h.worldGameTime},
		{Name: "clock", Function: h.worldClock},
		{Name: "zone_at", Function: h.worldZoneAt},
		{Name: "ground_z", Function: h.worldGroundZ},
		{Name: "hit_scan", Function: h.worldHitScan},
		{Name: "clear_cutscene", Function: h.worldClearCutscene},
		{Name: "log", Function: h.worldLog},
	}, 0)
	h.state.SetGlobal("world")
}

// RunFile loads and runs a script file.
func (h *Host) RunFile(path string) error {
	if err := lua.LoadFile(h.state, path, ""); err != nil {
		return fmt.Errorf("load lua: %w", err)
	}
	if err := h.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// RunString runs a chunk of script source.
func (h *Host) RunString(src string) error {
	if err := lua.LoadString(h.state, src); err != nil {
		return fmt.Errorf("load lua: %w", err)
	}
	if err := h.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// Frame calls the script's on_frame(time) function, if it defines one.
func (h *Host) Frame() error {
	h.state.Global(frameHook)
	if !h.state.IsFunction(-1) {
		h.state.Pop(1)
		return nil
	}
	h.state.PushNumber(float64(h.world.GameTime()))
	if err := h.state.ProtectedCall(1, 0, 0); err != nil {
		return fmt.Errorf("%s: %w", frameHook, err)
	}
	return nil
}

// --- world table ---

func checkVector(state *lua.State, first int) rl.Vector3 {
	return rl.Vector3{
		X: float32(lua.CheckNumber(state, first)),
		Y: float32(lua.CheckNumber(state, first+1)),
		Z: float32(lua.CheckNumber(state, first+2)),
	}
}

func (h *Host) model(state *lua.State, index int) uint16 {
	name := lua.CheckString(state, index)
	id, ok := h.world.Definitions().FindModel(name)
	if !ok {
		lua.Errorf(state, "unknown model %s", name)
	}
	return id
}

func (h *Host) pushGarage(state *lua.State, g *garage.Garage) {
	state.PushUserData(&garageHandle{g: g})
	lua.SetMetaTableNamed(state, garageTypeName)
}

func (h *Host) pushVehicle(state *lua.State, v *engine.Vehicle) {
	state.PushUserData(&vehicleHandle{ref: engine.RefTo(v)})
	lua.SetMetaTableNamed(state, vehicleTypeName)
}

func (h *Host) worldGarage(state *lua.State) int {
	g, ok := h.world.Garage(lua.CheckInteger(state, 1))
	if !ok {
		state.PushNil()
		return 1
	}
	h.pushGarage(state, g)
	return 1
}

func (h *Host) worldCreateVehicle(state *lua.State) int {
	id := h.model(state, 1)
	pos := checkVector(state, 2)
	deg := float32(lua.OptNumber(state, 5, 0))
	v, err := h.world.CreateVehicle(id, pos, rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, deg*rl.Deg2rad))
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	h.pushVehicle(state, v)
	return 1
}

func (h *Host) worldCreateObject(state *lua.State) int {
	id := h.model(state, 1)
	pos := checkVector(state, 2)
	inst, err := h.world.CreateInstance(id, pos, rl.QuaternionIdentity())
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	state.PushInteger(int(inst.Handle()))
	return 1
}

func (h *Host) worldPlayerVehicle(state *lua.State) int {
	p := h.world.Player()
	if p == nil || p.Character() == nil || p.Character().CurrentVehicle() == nil {
		state.PushNil()
		return 1
	}
	h.pushVehicle(state, p.Character().CurrentVehicle())
	return 1
}

func (h *Host) worldPutPlayerIn(state *lua.State) int {
	v := h.checkVehicle(state, 1)
	state.PushBoolean(v != nil && h.world.PutPlayerInVehicle(v))
	return 1
}

func (h *Host) worldWarpPlayer(state *lua.State) int {
	h.world.WarpPlayer(checkVector(state, 1))
	return 0
}

func (h *Host) worldGameTime(state *lua.State) int {
	state.PushNumber(float64(h.world.GameTime()))
	return 1
}

func (h *Host) worldClock(state *lua.State) int {
	state.PushInteger(h.world.Clock().Hour())
	state.PushInteger(h.world.Clock().Minute())
	return 2
}

func (h *Host) worldZoneAt(state *lua.State) int {
	zones := h.world.ZonesAt(checkVector(state, 1))
	if len(zones) == 0 {
		state.PushNil()
		return 1
	}
	state.PushString(zones[0].Name)
	return 1
}

func (h *Host) worldGroundZ(state *lua.State) int {
	p := h.world.Spatial().GroundHeight(checkVector(state, 1))
	state.PushNumber(float64(p.Z))
	return 1
}

func (h *Host) worldHitScan(state *lua.State) int {
	from := checkVector(state, 1)
	to := checkVector(state, 4)
	damage := float32(lua.CheckNumber(state, 7))
	_, ok := h.world.Spatial().HitScan(from, to, damage)
	state.PushBoolean(ok)
	return 1
}

func (h *Host) worldClearCutscene(state *lua.State) int {
	state.PushInteger(h.world.ClearCutscene())
	return 1
}

func (h *Host) worldLog(state *lua.State) int {
	h.log.Info().Msg(lua.CheckString(state, 1))
	return 0
}

// --- garage methods ---

func (h *Host) garageMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "activate", Function: h.garageActivate},
		{Name: "deactivate", Function: h.garageDeactivate},
		{Name: "open", Function: h.garageOpen},
		{Name: "close", Function: h.garageClose},
		{Name: "state", Function: h.garageState},
		{Name: "fraction", Function: h.garageFraction},
		{Name: "is_target_inside", Function: h.garageIsTargetInside},
		{Name: "set_target", Function: h.garageSetTarget},
		{Name: "make_swing", Function: h.garageMakeSwing},
	}
}

func checkGarage(state *lua.State) *garage.Garage {
	ud := lua.CheckUserData(state, 1, garageTypeName)
	if gh, ok := ud.(*garageHandle); ok && gh.g != nil {
		return gh.g
	}
	lua.ArgumentError(state, 1, "garage expected")
	return nil
}

func (h *Host) garageActivate(state *lua.State) int {
	checkGarage(state).Activate()
	return 0
}

func (h *Host) garageDeactivate(state *lua.State) int {
	checkGarage(state).Deactivate()
	return 0
}

func (h *Host) garageOpen(state *lua.State) int {
	checkGarage(state).Open()
	return 0
}

func (h *Host) garageClose(state *lua.State) int {
	checkGarage(state).Close()
	return 0
}

func (h *Host) garageState(state *lua.State) int {
	state.PushString(checkGarage(state).State().String())
	return 1
}

func (h *Host) garageFraction(state *lua.State) int {
	state.PushNumber(float64(checkGarage(state).Fraction()))
	return 1
}

func (h *Host) garageIsTargetInside(state *lua.State) int {
	state.PushBoolean(checkGarage(state).IsTargetInside())
	return 1
}

// set_target(nil) clears the target.
func (h *Host) garageSetTarget(state *lua.State) int {
	g := checkGarage(state)
	if state.IsNoneOrNil(2) {
		g.SetTarget(nil)
		return 0
	}
	v := h.checkVehicle(state, 2)
	if v == nil {
		g.SetTarget(nil)
		return 0
	}
	g.SetTarget(v)
	return 0
}

func (h *Host) garageMakeSwing(state *lua.State) int {
	checkGarage(state).MakeDoorSwing()
	return 0
}

// --- vehicle methods ---

func (h *Host) vehicleMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "exists", Function: h.vehicleExists},
		{Name: "position", Function: h.vehiclePosition},
		{Name: "health", Function: h.vehicleHealth},
		{Name: "set_mission", Function: h.vehicleSetMission},
		{Name: "set_throttle", Function: h.vehicleSetThrottle},
		{Name: "destroy", Function: h.vehicleDestroy},
	}
}

// checkVehicle returns the live vehicle behind the userdata at index, or nil
// once it has been destroyed.
func (h *Host) checkVehicle(state *lua.State, index int) *engine.Vehicle {
	ud := lua.CheckUserData(state, index, vehicleTypeName)
	vh, ok := ud.(*vehicleHandle)
	if !ok {
		lua.ArgumentError(state, index, "vehicle expected")
		return nil
	}
	v, _ := vh.ref.Get(h.world.Registry()).(*engine.Vehicle)
	return v
}

func (h *Host) vehicleExists(state *lua.State) int {
	state.PushBoolean(h.checkVehicle(state, 1) != nil)
	return 1
}

func (h *Host) vehiclePosition(state *lua.State) int {
	v := h.checkVehicle(state, 1)
	if v == nil {
		state.PushNil()
		return 1
	}
	p := v.Position()
	state.PushNumber(float64(p.X))
	state.PushNumber(float64(p.Y))
	state.PushNumber(float64(p.Z))
	return 3
}

func (h *Host) vehicleHealth(state *lua.State) int {
	v := h.checkVehicle(state, 1)
	if v == nil {
		state.PushNil()
		return 1
	}
	state.PushNumber(float64(v.Health))
	return 1
}

func (h *Host) vehicleSetMission(state *lua.State) int {
	if v := h.checkVehicle(state, 1); v != nil {
		v.SetLifetime(engine.LifetimeMission)
	}
	return 0
}

func (h *Host) vehicleSetThrottle(state *lua.State) int {
	v := h.checkVehicle(state, 1)
	throttle := float32(lua.CheckNumber(state, 2))
	if v != nil {
		v.Throttle = min(max(throttle, -1), 1)
	}
	return 0
}

// destroy is deferred to the end of the frame like every scripted removal.
func (h *Host) vehicleDestroy(state *lua.State) int {
	if v := h.checkVehicle(state, 1); v != nil {
		h.world.Registry().DestroyQueued(v)
	}
	return 0
}
