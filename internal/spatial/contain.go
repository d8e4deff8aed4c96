package spatial

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/engine"
	"worldsim/internal/physics"
)

// ContainsPoint reports whether p lies inside box. All six faces count as inside.
func ContainsPoint(box physics.AABB, p rl.Vector3) bool {
	return box.Contains(p)
}

// ContainsObject reports whether obj's origin and every one of its collision
// spheres are fully inside box. Objects without collision geometry are
// judged by their origin alone.
func ContainsObject(box physics.AABB, obj engine.Object) bool {
	if obj == nil {
		return false
	}
	origin := obj.Position()
	if !box.Contains(origin) {
		return false
	}

	model := obj.Model()
	if model == nil || model.Collision == nil {
		return true
	}
	for _, s := range model.Collision.Spheres {
		c := rl.Vector3Add(origin, s.Center)
		r := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
		if !box.Contains(rl.Vector3Subtract(c, r)) || !box.Contains(rl.Vector3Add(c, r)) {
			return false
		}
	}
	return true
}

// DistanceToBox is the horizontal distance from p to box. The vertical axis
// is ignored, so a point directly above the box is at distance 0.
func DistanceToBox(box physics.AABB, p rl.Vector3) float32 {
	dx := max(box.Min.X-p.X, 0, p.X-box.Max.X)
	dy := max(box.Min.Y-p.Y, 0, p.Y-box.Max.Y)
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
