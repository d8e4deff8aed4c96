package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// NewAABBFromCorners orders two arbitrary corners into min/max.
func NewAABBFromCorners(a, b rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Min(a, b),
		Max: rl.Vector3Max(a, b),
	}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// Contains reports whether p lies inside the box, faces included.
func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// ClosestPoint clamps p onto the box.
func (a AABB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: clamp(p.X, a.Min.X, a.Max.X),
		Y: clamp(p.Y, a.Min.Y, a.Max.Y),
		Z: clamp(p.Z, a.Min.Z, a.Max.Z),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	// Penetration depth in each direction
	dx1 := b.Max.X - a.Min.X // push a in +X
	dx2 := a.Max.X - b.Min.X // push a in -X
	dy1 := b.Max.Y - a.Min.Y // push a in +Y
	dy2 := a.Max.Y - b.Min.Y // push a in -Y
	dz1 := b.Max.Z - a.Min.Z // push a in +Z
	dz2 := a.Max.Z - b.Min.Z // push a in -Z

	// Find the axis with minimum penetration, that's the push-out direction
	min := dx1
	result := rl.Vector3{X: dx1}

	if dx2 < min {
		min = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < min {
		min = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < min {
		min = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < min {
		min = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < min {
		result = rl.Vector3{Z: -dz2}
	}

	return result
}

// overlap returns the box shared by a and b. Only meaningful when they intersect.
func (a AABB) overlap(b AABB) AABB {
	return AABB{
		Min: rl.Vector3Max(a.Min, b.Min),
		Max: rl.Vector3Min(a.Max, b.Max),
	}
}
