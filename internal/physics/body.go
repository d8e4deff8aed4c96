package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type BodyKind int

const (
	BodyDynamic   BodyKind = iota // integrated and pushed by contacts
	BodyKinematic                 // moved by its owner, pushes dynamics
	BodyStatic                    // never moves (walls, placed scenery)
)

func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	}
	return "unknown"
}

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// Shape is a collision primitive positioned relative to its body.
// Boxes are axis aligned.
type Shape struct {
	Kind        ShapeKind
	Radius      float32
	HalfExtents rl.Vector3
	Offset      rl.Vector3
}

func NewSphereShape(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func NewBoxShape(halfExtents rl.Vector3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Body is a rigid shape tracked by the World. UserData is an opaque slot for
// the owner; the physics world never looks inside it.
type Body struct {
	Kind           BodyKind
	Shape          Shape
	Position       rl.Vector3
	LinearVelocity rl.Vector3
	Restitution    float32
	UseGravity     bool

	// NoContactResponse bodies report contacts but are never pushed.
	NoContactResponse bool

	UserData any

	mass    float32
	invMass float32
	force   rl.Vector3
	world   *World
}

func NewBody(kind BodyKind, shape Shape, mass float32) *Body {
	b := &Body{
		Kind:        kind,
		Shape:       shape,
		Restitution: 0.1,
		UseGravity:  kind == BodyDynamic,
	}
	b.SetMass(mass)
	return b
}

// SetMass updates the mass. Only dynamic bodies get a non-zero inverse mass.
func (b *Body) SetMass(mass float32) {
	b.mass = mass
	if b.Kind == BodyDynamic && mass > 0 {
		b.invMass = 1 / mass
	} else {
		b.invMass = 0
	}
}

func (b *Body) Mass() float32 {
	return b.mass
}

func (b *Body) InverseMass() float32 {
	return b.invMass
}

func (b *Body) IsStatic() bool {
	return b.Kind == BodyStatic
}

// SetKind changes how the world treats the body, moving it between the
// world's buckets when it is registered.
func (b *Body) SetKind(kind BodyKind) {
	if b.Kind == kind {
		return
	}
	w := b.world
	if w != nil {
		w.RemoveBody(b)
	}
	b.Kind = kind
	b.UseGravity = kind == BodyDynamic
	b.SetMass(b.mass)
	if kind != BodyDynamic {
		b.LinearVelocity = rl.Vector3{}
	}
	if w != nil {
		w.AddBody(b)
	}
}

// ApplyForce accumulates a force for the next integration step.
func (b *Body) ApplyForce(f rl.Vector3) {
	b.force = rl.Vector3Add(b.force, f)
}

func (b *Body) ApplyImpulse(j rl.Vector3) {
	b.LinearVelocity = rl.Vector3Add(b.LinearVelocity, rl.Vector3Scale(j, b.invMass))
}

// Center returns the world-space center of the body's shape
func (b *Body) Center() rl.Vector3 {
	return rl.Vector3Add(b.Position, b.Shape.Offset)
}

// Bounds returns the world-space AABB of the body's shape.
func (b *Body) Bounds() AABB {
	c := b.Center()
	switch b.Shape.Kind {
	case ShapeSphere:
		r := b.Shape.Radius
		return AABB{
			Min: rl.Vector3Subtract(c, rl.Vector3{X: r, Y: r, Z: r}),
			Max: rl.Vector3Add(c, rl.Vector3{X: r, Y: r, Z: r}),
		}
	default:
		return AABB{
			Min: rl.Vector3Subtract(c, b.Shape.HalfExtents),
			Max: rl.Vector3Add(c, b.Shape.HalfExtents),
		}
	}
}

func (b *Body) World() *World {
	return b.world
}
