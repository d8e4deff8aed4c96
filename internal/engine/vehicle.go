package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
)

const (
	DefaultVehicleHealth = 1000
	stoppedSpeed         = 0.1
)

var defaultVehicleHalfExtents = rl.Vector3{X: 1, Y: 2.2, Z: 0.7}

// RayCaster is the part of the physics world a vehicle needs for its
// suspension.
type RayCaster interface {
	RayTest(from, to rl.Vector3, ignore ...*physics.Body) (physics.RayHit, bool)
}

// Vehicle is a drivable dynamic body. Forward is +Y in vehicle space.
type Vehicle struct {
	BaseObject
	Def      *VehicleDef
	Health   float32
	Throttle float32 // -1..1
	Steer    float32 // -1..1, positive turns left

	handbrake bool
	grounded  bool
	caster    RayCaster
}

func NewVehicle(def *VehicleDef, pos rl.Vector3, rot rl.Quaternion, caster RayCaster) *Vehicle {
	v := &Vehicle{
		BaseObject: newBaseObject(&def.ModelInfo, pos, rot),
		Def:        def,
		Health:     def.Handling.MaxHealth,
		caster:     caster,
	}
	if v.Health <= 0 {
		v.Health = DefaultVehicleHealth
	}

	mass := def.Handling.Mass
	if mass <= 0 {
		mass = 1500
	}
	var body *physics.Body
	if def.Collision != nil {
		body = bodyFromCollision(def.Collision, physics.BodyDynamic, mass)
	} else {
		body = physics.NewBody(physics.BodyDynamic, physics.NewBoxShape(defaultVehicleHalfExtents), mass)
	}
	v.attachBody(v, body)
	return v
}

func (v *Vehicle) Type() ObjectType {
	return TypeVehicle
}

func (v *Vehicle) TakeDamage(info DamageInfo) {
	v.damaged.Invoke(info)
	v.Health -= info.Amount
	if v.Health < 0 {
		v.Health = 0
	}
}

func (v *Vehicle) SetHandbrake(on bool) {
	v.handbrake = on
}

func (v *Vehicle) Handbrake() bool {
	return v.handbrake
}

// Grounded reports whether any wheel touched the ground on the last substep.
func (v *Vehicle) Grounded() bool {
	return v.grounded
}

func (v *Vehicle) Velocity() rl.Vector3 {
	if v.body == nil {
		return rl.Vector3{}
	}
	return v.body.LinearVelocity
}

func (v *Vehicle) IsStopped() bool {
	return rl.Vector3Length(v.Velocity()) < stoppedSpeed
}

// Forward returns the world-space forward axis.
func (v *Vehicle) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, v.Rotation())
}

// TickPhysics runs suspension and drivetrain for one physics substep. The
// forces it applies are integrated on the next substep.
func (v *Vehicle) TickPhysics(dt float32) {
	b := v.body
	if b == nil || b.Kind != physics.BodyDynamic {
		return
	}
	h := v.Def.Handling
	up := rl.Vector3{Z: 1}

	v.grounded = false
	if v.caster != nil {
		for _, w := range v.Def.Wheels {
			mount := rl.Vector3Add(b.Position, rl.Vector3RotateByQuaternion(w.Offset, v.Rotation()))
			reach := w.SuspensionRest + w.Radius
			hit, ok := v.caster.RayTest(mount, rl.Vector3Subtract(mount, rl.Vector3Scale(up, reach)), b)
			if !ok {
				continue
			}
			v.grounded = true
			compression := reach * (1 - hit.Fraction)
			spring := w.Stiffness*compression - w.Damping*b.LinearVelocity.Z
			if spring > 0 {
				b.ApplyForce(rl.Vector3Scale(up, spring))
			}
		}
	}

	vel := b.LinearVelocity
	if v.grounded {
		forward := v.Forward()
		b.ApplyForce(rl.Vector3Scale(forward, v.Throttle*h.EngineForce))

		forwardSpeed := rl.Vector3DotProduct(vel, forward)
		if v.Steer != 0 && abs32(forwardSpeed) > stoppedSpeed {
			yaw := v.Steer * h.SteerRate * dt
			if forwardSpeed < 0 {
				yaw = -yaw
			}
			turn := rl.QuaternionFromAxisAngle(up, yaw)
			v.SetRotation(rl.QuaternionNormalize(rl.QuaternionMultiply(turn, v.Rotation())))
		}

		if v.handbrake {
			b.ApplyForce(rl.Vector3{X: -vel.X * h.BrakeForce, Y: -vel.Y * h.BrakeForce})
		}
	}

	if h.Drag > 0 {
		b.ApplyForce(rl.Vector3Scale(vel, -h.Drag))
	}
}

func (v *Vehicle) addTo(r *Registry) Handle {
	return r.vehicles.insert(v)
}

func (v *Vehicle) removeFrom(r *Registry) bool {
	return r.vehicles.remove(v)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
