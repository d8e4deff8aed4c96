package world

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"worldsim/internal/engine"
	"worldsim/internal/physics"
)

// Damage is published on World.DamageDelivered after the target took it.
type Damage struct {
	Target engine.Object
	Info   engine.DamageInfo
}

// uprootContact describes a pair where a movable placed instance is hit by
// something heavy enough to possibly knock it loose.
type uprootContact struct {
	instance *engine.Instance
	onA      bool // instance owns body a
	other    *physics.Body
	impulse  float32
}

// classifyUproot reports whether exactly one side of the pair is an instance
// with dynamics data still sitting on a static body, and if so the impulse
// the other body carries into it. Bodies that cannot move have no impulse to
// give and never classify.
func classifyUproot(a, b *physics.Body) (uprootContact, bool) {
	instA := uprootable(a)
	instB := uprootable(b)
	if (instA == nil) == (instB == nil) {
		return uprootContact{}, false
	}

	uc := uprootContact{instance: instA, onA: true, other: b}
	if instB != nil {
		uc = uprootContact{instance: instB, other: a}
	}
	inv := uc.other.InverseMass()
	if inv == 0 {
		return uprootContact{}, false
	}
	uc.impulse = rl.Vector3Length(uc.other.LinearVelocity) / inv
	return uc, true
}

func uprootable(b *physics.Body) *engine.Instance {
	if !b.IsStatic() {
		return nil
	}
	obj, ok := engine.OwnerOf(b)
	if !ok {
		return nil
	}
	inst, ok := obj.(*engine.Instance)
	if !ok || inst.Dynamics == nil {
		return nil
	}
	return inst
}

// needsResponse is installed as the physics world's veto hook. A movable
// instance lets lighter hits pass through it untouched; anything else is
// left to the default policy.
func (w *World) needsResponse(a, b *physics.Body) bool {
	uc, ok := classifyUproot(a, b)
	if !ok {
		return w.physics.DefaultNeedsResponse(a, b)
	}
	if uc.impulse < uc.instance.Dynamics.UprootForce {
		w.metrics.vetoed.Add(context.Background(), 1)
		w.contactLog.Debug().
			Uint32("instance", uint32(uc.instance.Handle())).
			Float32("impulse", uc.impulse).
			Float32("uprootForce", uc.instance.Dynamics.UprootForce).
			Msg("contact vetoed")
		return false
	}
	return w.physics.DefaultNeedsResponse(a, b)
}

// contactProcessed turns finished contacts into damage. It runs for vetoed
// contacts too, which then carry no applied impulse.
func (w *World) contactProcessed(cp *physics.ContactPoint, a, b *physics.Body) bool {
	objA, okA := engine.OwnerOf(a)
	objB, okB := engine.OwnerOf(b)
	if !okA || !okB {
		return true
	}

	if uc, ok := classifyUproot(a, b); ok && uc.impulse >= uc.instance.Dynamics.UprootForce {
		at, from := cp.PositionWorldOnB, cp.PositionWorldOnA
		if uc.onA {
			at, from = cp.PositionWorldOnA, cp.PositionWorldOnB
		}
		w.deliver(uc.instance, engine.DamageInfo{
			Location: at,
			Source:   from,
			Amount:   uc.impulse,
			Cause:    engine.DamagePhysics,
		})
	}

	if cp.AppliedImpulse > w.cfg.Damage.VehicleImpulseThreshold {
		if v, ok := objA.(*engine.Vehicle); ok {
			w.deliver(v, engine.DamageInfo{
				Location: cp.PositionWorldOnA,
				Source:   cp.PositionWorldOnB,
				Amount:   cp.AppliedImpulse,
				Cause:    engine.DamagePhysics,
			})
		}
		if v, ok := objB.(*engine.Vehicle); ok {
			w.deliver(v, engine.DamageInfo{
				Location: cp.PositionWorldOnB,
				Source:   cp.PositionWorldOnA,
				Amount:   cp.AppliedImpulse,
				Cause:    engine.DamagePhysics,
			})
		}
	}
	return true
}

func (w *World) physicsTick(_ *physics.World, dt float32) {
	w.reg.Each(func(obj engine.Object) {
		if t, ok := obj.(engine.PhysicsTicker); ok {
			t.TickPhysics(dt)
		}
	})
}

// Deliver hands a damage event to obj. Scripted damage goes through here so
// it is counted like collision damage.
func (w *World) Deliver(obj engine.Object, info engine.DamageInfo) {
	if obj == nil {
		return
	}
	w.deliver(obj, info)
}

func (w *World) deliver(obj engine.Object, info engine.DamageInfo) {
	obj.TakeDamage(info)
	w.DamageDelivered.Invoke(Damage{Target: obj, Info: info})
	w.metrics.damage.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("cause", info.Cause.String()),
		attribute.String("type", obj.Type().String()),
	))
	w.contactLog.Debug().
		Stringer("type", obj.Type()).
		Uint32("handle", uint32(obj.Handle())).
		Stringer("cause", info.Cause).
		Float32("amount", info.Amount).
		Msg("damage delivered")
}
