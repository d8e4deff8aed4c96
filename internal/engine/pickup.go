package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Pickup is a collectable marker. It has no body.
type Pickup struct {
	BaseObject
	Def *ObjectDef

	collected bool
}

func NewPickup(def *ObjectDef, pos rl.Vector3) *Pickup {
	return &Pickup{
		BaseObject: newBaseObject(&def.ModelInfo, pos, rl.QuaternionIdentity()),
		Def:        def,
	}
}

func (p *Pickup) Type() ObjectType {
	return TypePickup
}

func (p *Pickup) TakeDamage(info DamageInfo) {
	p.damaged.Invoke(info)
}

func (p *Pickup) Collect() {
	p.collected = true
}

func (p *Pickup) Collected() bool {
	return p.collected
}

func (p *Pickup) addTo(r *Registry) Handle {
	return r.pickups.insert(p)
}

func (p *Pickup) removeFrom(r *Registry) bool {
	return r.pickups.remove(p)
}

// CutsceneObject is a prop that only exists for the duration of a cutscene.
type CutsceneObject struct {
	BaseObject
	Def *ObjectDef
}

func NewCutsceneObject(def *ObjectDef, pos rl.Vector3) *CutsceneObject {
	return &CutsceneObject{
		BaseObject: newBaseObject(&def.ModelInfo, pos, rl.QuaternionIdentity()),
		Def:        def,
	}
}

func (c *CutsceneObject) Type() ObjectType {
	return TypeCutscene
}

func (c *CutsceneObject) TakeDamage(info DamageInfo) {
	c.damaged.Invoke(info)
}

func (c *CutsceneObject) addTo(r *Registry) Handle {
	return r.cutscenes.insert(c)
}

func (c *CutsceneObject) removeFrom(r *Registry) bool {
	return r.cutscenes.remove(c)
}
