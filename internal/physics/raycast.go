package physics

import (
	"math"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RayHit struct {
	Body     *Body
	Point    rl.Vector3
	Normal   rl.Vector3
	Fraction float32 // 0 at from, 1 at to
}

// RayTest checks the segment from->to against every registered body and
// returns the closest hit. Bodies listed in ignore are skipped.
func (w *World) RayTest(from, to rl.Vector3, ignore ...*Body) (RayHit, bool) {
	delta := rl.Vector3Subtract(to, from)
	length := rl.Vector3Length(delta)
	if length < 0.0001 {
		return RayHit{}, false
	}
	direction := rl.Vector3Scale(delta, 1/length)

	var closest RayHit
	closestDist := length
	hit := false

	for _, bucket := range [][]*Body{w.Dynamics, w.Kinematics, w.Statics} {
		for _, body := range bucket {
			if slices.Contains(ignore, body) {
				continue
			}
			var point, normal rl.Vector3
			var dist float32
			var ok bool
			switch body.Shape.Kind {
			case ShapeSphere:
				point, normal, dist, ok = raycastSphere(from, direction, body.Center(), body.Shape.Radius, closestDist)
			default:
				point, normal, dist, ok = raycastBox(from, direction, body.Bounds(), closestDist)
			}
			if !ok || dist > closestDist {
				continue
			}
			closestDist = dist
			closest = RayHit{Body: body, Point: point, Normal: normal, Fraction: dist / length}
			hit = true
		}
	}

	return closest, hit
}

func raycastBox(origin, direction rl.Vector3, box AABB, maxDistance float32) (rl.Vector3, rl.Vector3, float32, bool) {
	min, max := box.Min, box.Max
	tmin := float32(-1e30)
	tmax := float32(1e30)

	slab := func(o, d, lo, hi float32) bool {
		if d == 0 {
			return o >= lo && o <= hi
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		return tmin <= tmax
	}

	if !slab(origin.X, direction.X, min.X, max.X) ||
		!slab(origin.Y, direction.Y, min.Y, max.Y) ||
		!slab(origin.Z, direction.Z, min.Z, max.Z) {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}

	if tmax < 0 || tmin > maxDistance {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	// Calculate normal based on which face was hit
	var normal rl.Vector3
	epsilon := float32(0.001)
	if abs(point.X-min.X) < epsilon {
		normal = rl.Vector3{X: -1}
	} else if abs(point.X-max.X) < epsilon {
		normal = rl.Vector3{X: 1}
	} else if abs(point.Y-min.Y) < epsilon {
		normal = rl.Vector3{Y: -1}
	} else if abs(point.Y-max.Y) < epsilon {
		normal = rl.Vector3{Y: 1}
	} else if abs(point.Z-min.Z) < epsilon {
		normal = rl.Vector3{Z: -1}
	} else {
		normal = rl.Vector3{Z: 1}
	}

	return point, normal, t, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (rl.Vector3, rl.Vector3, float32, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}

	sq := float32(math.Sqrt(float64(discriminant)))
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return point, normal, t, true
}
