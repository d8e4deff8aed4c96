package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
)

type ObjectType int

const (
	TypeInstance ObjectType = iota
	TypeVehicle
	TypeCharacter
	TypePickup
	TypeCutscene
)

func (t ObjectType) String() string {
	switch t {
	case TypeInstance:
		return "instance"
	case TypeVehicle:
		return "vehicle"
	case TypeCharacter:
		return "character"
	case TypePickup:
		return "pickup"
	case TypeCutscene:
		return "cutscene"
	}
	return "unknown"
}

// Lifetime says who is responsible for cleaning an object up.
type Lifetime int

const (
	LifetimeRandom  Lifetime = iota // ambient, the world may remove it
	LifetimeMission                 // owned by a mission script
)

// Object is anything the registry can hold.
type Object interface {
	Handle() Handle
	Type() ObjectType
	Position() rl.Vector3
	SetPosition(p rl.Vector3)
	Rotation() rl.Quaternion
	SetRotation(q rl.Quaternion)
	TakeDamage(info DamageInfo)
	Model() *ModelInfo
	Body() *physics.Body
	Lifetime() Lifetime
	SetLifetime(l Lifetime)
	Damaged() *EventWithArg[DamageInfo]

	Generation() uint32
	setHandle(h Handle, gen uint32)
	addTo(r *Registry) Handle
	removeFrom(r *Registry) bool
}

// PhysicsTicker is implemented by objects that act on every physics substep.
type PhysicsTicker interface {
	TickPhysics(dt float32)
}

type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// BaseObject carries the state shared by every variant. A body, when
// present, is the source of truth for the position.
type BaseObject struct {
	handle    Handle
	gen       uint32
	transform Transform
	model     *ModelInfo
	body      *physics.Body
	lifetime  Lifetime
	damaged   EventWithArg[DamageInfo]
}

func newBaseObject(model *ModelInfo, pos rl.Vector3, rot rl.Quaternion) BaseObject {
	return BaseObject{
		transform: Transform{Position: pos, Rotation: rot},
		model:     model,
	}
}

func (o *BaseObject) Handle() Handle {
	return o.handle
}

// Generation is how many objects held this handle's slot before this one.
func (o *BaseObject) Generation() uint32 {
	return o.gen
}

func (o *BaseObject) setHandle(h Handle, gen uint32) {
	o.handle = h
	o.gen = gen
}

func (o *BaseObject) Position() rl.Vector3 {
	if o.body != nil {
		return o.body.Position
	}
	return o.transform.Position
}

func (o *BaseObject) SetPosition(p rl.Vector3) {
	o.transform.Position = p
	if o.body != nil {
		o.body.Position = p
	}
}

func (o *BaseObject) Rotation() rl.Quaternion {
	return o.transform.Rotation
}

func (o *BaseObject) SetRotation(q rl.Quaternion) {
	o.transform.Rotation = q
}

func (o *BaseObject) Model() *ModelInfo {
	return o.model
}

func (o *BaseObject) Body() *physics.Body {
	return o.body
}

func (o *BaseObject) Lifetime() Lifetime {
	return o.lifetime
}

func (o *BaseObject) SetLifetime(l Lifetime) {
	o.lifetime = l
}

// Damaged fires on every TakeDamage call, before the variant reacts.
func (o *BaseObject) Damaged() *EventWithArg[DamageInfo] {
	return &o.damaged
}

// attachBody binds a body to its owner so contacts and ray hits can be
// traced back to the object.
func (o *BaseObject) attachBody(owner Object, b *physics.Body) {
	b.Position = o.transform.Position
	b.UserData = owner
	o.body = b
}

// OwnerOf returns the object a body belongs to, if any.
func OwnerOf(b *physics.Body) (Object, bool) {
	if b == nil {
		return nil, false
	}
	obj, ok := b.UserData.(Object)
	return obj, ok && obj != nil
}

// bodyFromCollision builds an axis aligned box body around a model's
// collision bounds.
func bodyFromCollision(col *CollisionModel, kind physics.BodyKind, mass float32) *physics.Body {
	size := col.Bounds.Size()
	shape := physics.NewBoxShape(rl.Vector3Scale(size, 0.5))
	shape.Offset = col.Bounds.Center()
	return physics.NewBody(kind, shape, mass)
}
