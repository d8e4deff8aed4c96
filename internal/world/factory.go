package world

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/engine"
)

func (w *World) unknown(kind string, id uint16) error {
	w.log.Warn().Str("kind", kind).Uint16("model", id).Msg("no definition for model")
	return fmt.Errorf("%s model %d: %w", kind, id, ErrUnknownDefinition)
}

// CreateInstance places a piece of scenery. Instances whose model has
// dynamics data can later be knocked loose.
func (w *World) CreateInstance(model uint16, pos rl.Vector3, rot rl.Quaternion) (*engine.Instance, error) {
	def, ok := w.defs.Objects[model]
	if !ok {
		return nil, w.unknown("object", model)
	}
	inst := engine.NewInstance(def, w.defs.Dynamics(def.Name), pos, rot)
	w.add(inst)
	return inst, nil
}

func (w *World) CreateVehicle(model uint16, pos rl.Vector3, rot rl.Quaternion) (*engine.Vehicle, error) {
	def, ok := w.defs.Vehicles[model]
	if !ok {
		return nil, w.unknown("vehicle", model)
	}
	v := engine.NewVehicle(def, pos, rot, w.physics)
	w.add(v)
	return v, nil
}

func (w *World) CreatePedestrian(model uint16, pos rl.Vector3) (*engine.Character, error) {
	def, ok := w.defs.Peds[model]
	if !ok {
		return nil, w.unknown("ped", model)
	}
	c := engine.NewCharacter(def, pos, rl.QuaternionIdentity())
	w.add(c)
	return c, nil
}

func (w *World) CreatePickup(model uint16, pos rl.Vector3) (*engine.Pickup, error) {
	def, ok := w.defs.Objects[model]
	if !ok {
		return nil, w.unknown("pickup", model)
	}
	p := engine.NewPickup(def, pos)
	w.add(p)
	return p, nil
}

func (w *World) CreateCutsceneObject(model uint16, pos rl.Vector3) (*engine.CutsceneObject, error) {
	def, ok := w.defs.Objects[model]
	if !ok {
		return nil, w.unknown("cutscene object", model)
	}
	c := engine.NewCutsceneObject(def, pos)
	w.add(c)
	return c, nil
}

// ClearCutscene queues every cutscene object for destruction and returns how
// many were queued. They stay live until the end of the frame.
func (w *World) ClearCutscene() int {
	n := 0
	w.reg.Cutscenes().Each(func(c *engine.CutsceneObject) {
		w.reg.DestroyQueued(c)
		n++
	})
	return n
}
