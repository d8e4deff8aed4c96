package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
)

const (
	DefaultCharacterHealth = 100
	defaultCharacterRadius = 0.35
)

// Character is a pedestrian or the player's avatar. Its body is kinematic:
// it pushes dynamics but is only ever moved by its owner.
type Character struct {
	BaseObject
	Def    *PedDef
	Health float32

	vehicle *Vehicle
}

func NewCharacter(def *PedDef, pos rl.Vector3, rot rl.Quaternion) *Character {
	c := &Character{
		BaseObject: newBaseObject(&def.ModelInfo, pos, rot),
		Def:        def,
		Health:     DefaultCharacterHealth,
	}
	radius := def.Radius
	if radius <= 0 {
		radius = defaultCharacterRadius
	}
	shape := physics.NewSphereShape(radius)
	shape.Offset = rl.Vector3{Z: radius}
	c.attachBody(c, physics.NewBody(physics.BodyKinematic, shape, 0))
	return c
}

func (c *Character) Type() ObjectType {
	return TypeCharacter
}

// Position follows the vehicle while the character is driving.
func (c *Character) Position() rl.Vector3 {
	if c.vehicle != nil {
		return c.vehicle.Position()
	}
	return c.BaseObject.Position()
}

func (c *Character) TakeDamage(info DamageInfo) {
	c.damaged.Invoke(info)
	c.Health -= info.Amount
	if c.Health < 0 {
		c.Health = 0
	}
}

func (c *Character) IsDead() bool {
	return c.Health <= 0
}

// CurrentVehicle returns the vehicle the character is in, or nil.
func (c *Character) CurrentVehicle() *Vehicle {
	return c.vehicle
}

func (c *Character) EnterVehicle(v *Vehicle) {
	c.vehicle = v
	if c.body != nil {
		c.body.NoContactResponse = v != nil
	}
}

// ExitVehicle puts the character back on foot next to the vehicle.
func (c *Character) ExitVehicle(at rl.Vector3) {
	if c.vehicle == nil {
		return
	}
	c.vehicle = nil
	if c.body != nil {
		c.body.NoContactResponse = false
	}
	c.SetPosition(at)
}

func (c *Character) addTo(r *Registry) Handle {
	return r.characters.insert(c)
}

func (c *Character) removeFrom(r *Registry) bool {
	return r.characters.remove(c)
}

// Player wraps the character the user controls.
type Player struct {
	character    *Character
	inputEnabled bool
}

func NewPlayer(c *Character) *Player {
	return &Player{character: c, inputEnabled: true}
}

func (p *Player) Character() *Character {
	return p.character
}

func (p *Player) IsInputEnabled() bool {
	return p.inputEnabled
}

func (p *Player) SetInputEnabled(enabled bool) {
	p.inputEnabled = enabled
}
