package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
)

// Instance is a placed piece of scenery. Instances with dynamics data start
// out static and are uprooted by a hard enough physical hit.
type Instance struct {
	BaseObject
	Def      *ObjectDef
	Dynamics *DynamicsData

	uprooted bool
}

func NewInstance(def *ObjectDef, dynamics *DynamicsData, pos rl.Vector3, rot rl.Quaternion) *Instance {
	inst := &Instance{
		BaseObject: newBaseObject(&def.ModelInfo, pos, rot),
		Def:        def,
		Dynamics:   dynamics,
	}
	if def.Collision != nil {
		inst.attachBody(inst, bodyFromCollision(def.Collision, physics.BodyStatic, 0))
	}
	return inst
}

func (i *Instance) Type() ObjectType {
	return TypeInstance
}

func (i *Instance) TakeDamage(info DamageInfo) {
	i.damaged.Invoke(info)
	if info.Cause != DamagePhysics || i.Dynamics == nil || i.uprooted {
		return
	}
	if info.Amount >= i.Dynamics.UprootForce {
		i.Uproot()
	}
}

// Uproot turns the instance's static body into a dynamic one carrying the
// dynamics mass. It happens at most once.
func (i *Instance) Uproot() {
	if i.uprooted || i.body == nil {
		return
	}
	i.uprooted = true
	if i.Dynamics != nil {
		i.body.SetMass(i.Dynamics.Mass)
	}
	i.body.SetKind(physics.BodyDynamic)
}

func (i *Instance) Uprooted() bool {
	return i.uprooted
}

func (i *Instance) addTo(r *Registry) Handle {
	return r.instances.insert(i)
}

func (i *Instance) removeFrom(r *Registry) bool {
	return r.instances.remove(i)
}
