package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// ContactPoint is a single point of intersection between two bodies.
// NormalWorldOnB points from B towards A. AppliedImpulse is filled in by the
// solver and stays zero for contacts that got no response.
type ContactPoint struct {
	PositionWorldOnA rl.Vector3
	PositionWorldOnB rl.Vector3
	NormalWorldOnB   rl.Vector3
	Penetration      float32
	AppliedImpulse   float32
}

type contact struct {
	a, b    *Body
	point   ContactPoint
	respond bool
	invA    float32
	invB    float32
	impulse rl.Vector3
	pushA   rl.Vector3
	pushB   rl.Vector3
}

var upAxis = rl.Vector3{X: 0, Y: 0, Z: 1}

// collide runs the narrow phase for one pair.
func collide(a, b *Body) (ContactPoint, bool) {
	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		return sphereVsSphere(a, b)
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		return sphereVsBox(a, b)
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		cp, ok := sphereVsBox(b, a)
		if !ok {
			return cp, false
		}
		return flip(cp), true
	default:
		return boxVsBox(a, b)
	}
}

func flip(cp ContactPoint) ContactPoint {
	cp.PositionWorldOnA, cp.PositionWorldOnB = cp.PositionWorldOnB, cp.PositionWorldOnA
	cp.NormalWorldOnB = rl.Vector3Negate(cp.NormalWorldOnB)
	return cp
}

func sphereVsSphere(a, b *Body) (ContactPoint, bool) {
	ca, cb := a.Center(), b.Center()
	diff := rl.Vector3Subtract(ca, cb)
	dist := rl.Vector3Length(diff)
	minDist := a.Shape.Radius + b.Shape.Radius
	if dist >= minDist {
		return ContactPoint{}, false
	}

	normal := upAxis
	if dist > 0.0001 {
		normal = rl.Vector3Scale(diff, 1/dist)
	}
	return ContactPoint{
		PositionWorldOnA: rl.Vector3Subtract(ca, rl.Vector3Scale(normal, a.Shape.Radius)),
		PositionWorldOnB: rl.Vector3Add(cb, rl.Vector3Scale(normal, b.Shape.Radius)),
		NormalWorldOnB:   normal,
		Penetration:      minDist - dist,
	}, true
}

func sphereVsBox(s, box *Body) (ContactPoint, bool) {
	center := s.Center()
	bounds := box.Bounds()
	closest := bounds.ClosestPoint(center)

	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= s.Shape.Radius {
		return ContactPoint{}, false
	}

	var normal rl.Vector3
	var penetration float32
	if dist > 0.0001 {
		normal = rl.Vector3Scale(diff, 1/dist)
		penetration = s.Shape.Radius - dist
	} else {
		// Center is inside the box, push out along the shallowest axis
		push := s.Bounds().Resolve(bounds)
		penetration = rl.Vector3Length(push)
		if penetration < 0.0001 {
			return ContactPoint{}, false
		}
		normal = rl.Vector3Scale(push, 1/penetration)
	}

	return ContactPoint{
		PositionWorldOnA: rl.Vector3Subtract(center, rl.Vector3Scale(normal, s.Shape.Radius)),
		PositionWorldOnB: closest,
		NormalWorldOnB:   normal,
		Penetration:      penetration,
	}, true
}

func boxVsBox(a, b *Body) (ContactPoint, bool) {
	ba, bb := a.Bounds(), b.Bounds()
	push := ba.Resolve(bb)
	penetration := rl.Vector3Length(push)
	if penetration < 0.0001 {
		return ContactPoint{}, false
	}
	normal := rl.Vector3Scale(push, 1/penetration)

	// Contact sits in the middle of the overlap region
	mid := ba.overlap(bb).Center()
	half := rl.Vector3Scale(normal, penetration/2)
	return ContactPoint{
		PositionWorldOnA: rl.Vector3Subtract(mid, half),
		PositionWorldOnB: rl.Vector3Add(mid, half),
		NormalWorldOnB:   normal,
		Penetration:      penetration,
	}, true
}

// solve computes the response impulse and positional correction for a
// contact without touching the bodies. Both are applied later by apply.
func (c *contact) solve() {
	c.invA = c.a.InverseMass()
	c.invB = c.b.InverseMass()
	invSum := c.invA + c.invB
	if invSum == 0 {
		return
	}

	normal := c.point.NormalWorldOnB

	// Split the push based on inverse mass so statics never move
	c.pushA = rl.Vector3Scale(normal, c.point.Penetration*c.invA/invSum)
	c.pushB = rl.Vector3Scale(normal, -c.point.Penetration*c.invB/invSum)

	relVel := rl.Vector3Subtract(c.a.LinearVelocity, c.b.LinearVelocity)
	velAlongNormal := rl.Vector3DotProduct(relVel, normal)

	// Only resolve if objects are moving toward each other
	if velAlongNormal > 0 {
		return
	}

	e := (c.a.Restitution + c.b.Restitution) / 2
	j := -(1 + e) * velAlongNormal
	j /= invSum

	c.impulse = rl.Vector3Scale(normal, j)
	c.point.AppliedImpulse = j
}

// apply pushes the bodies apart using the inverse masses captured by solve.
func (c *contact) apply() {
	if !c.respond {
		return
	}
	if c.invA > 0 {
		c.a.Position = rl.Vector3Add(c.a.Position, c.pushA)
		c.a.LinearVelocity = rl.Vector3Add(c.a.LinearVelocity, rl.Vector3Scale(c.impulse, c.invA))
	}
	if c.invB > 0 {
		c.b.Position = rl.Vector3Add(c.b.Position, c.pushB)
		c.b.LinearVelocity = rl.Vector3Subtract(c.b.LinearVelocity, rl.Vector3Scale(c.impulse, c.invB))
	}
}
