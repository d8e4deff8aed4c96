package spatial

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldsim/internal/engine"
	"worldsim/internal/physics"
)

var unitBox = physics.AABB{Min: rl.Vector3{}, Max: rl.Vector3{X: 10, Y: 10, Z: 10}}

func propDef(spheres ...engine.CollisionSphere) *engine.ObjectDef {
	def := &engine.ObjectDef{ModelInfo: engine.ModelInfo{ID: 1, Name: "prop"}}
	if spheres != nil {
		def.Collision = &engine.CollisionModel{
			Bounds:  physics.AABB{Min: rl.Vector3{X: -1, Y: -1, Z: -1}, Max: rl.Vector3{X: 1, Y: 1, Z: 1}},
			Spheres: spheres,
		}
	}
	return def
}

func TestContainsPointFacesInclusive(t *testing.T) {
	cases := []struct {
		p    rl.Vector3
		want bool
	}{
		{rl.Vector3{}, true},
		{rl.Vector3{X: 10, Y: 10, Z: 10}, true},
		{rl.Vector3{X: 10, Y: 5, Z: 0}, true},
		{rl.Vector3{X: 5, Y: 5, Z: 5}, true},
		{rl.Vector3{X: -0.001, Y: 5, Z: 5}, false},
		{rl.Vector3{X: 5, Y: 10.001, Z: 5}, false},
		{rl.Vector3{X: 5, Y: 5, Z: -1}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ContainsPoint(unitBox, c.p), "point %v", c.p)
	}
}

func TestContainsObjectOriginOnly(t *testing.T) {
	inside := engine.NewPickup(propDef(), rl.Vector3{X: 5, Y: 5, Z: 5})
	outside := engine.NewPickup(propDef(), rl.Vector3{X: 15, Y: 5, Z: 5})

	assert.True(t, ContainsObject(unitBox, inside))
	assert.False(t, ContainsObject(unitBox, outside))
	assert.False(t, ContainsObject(unitBox, nil))
}

func TestContainsObjectSpheres(t *testing.T) {
	def := propDef(engine.CollisionSphere{Center: rl.Vector3{Y: 2}, Radius: 1})

	fits := engine.NewPickup(def, rl.Vector3{X: 5, Y: 5, Z: 5})
	assert.True(t, ContainsObject(unitBox, fits))

	// Origin inside, sphere pokes through the +Y face
	poking := engine.NewPickup(def, rl.Vector3{X: 5, Y: 7.5, Z: 5})
	assert.False(t, ContainsObject(unitBox, poking))

	// Sphere touching the face exactly still counts
	touching := engine.NewPickup(def, rl.Vector3{X: 5, Y: 7, Z: 5})
	assert.True(t, ContainsObject(unitBox, touching))
}

func TestDistanceToBoxIgnoresHeight(t *testing.T) {
	assert.Equal(t, float32(0), DistanceToBox(unitBox, rl.Vector3{X: 5, Y: 5, Z: 500}))
	assert.Equal(t, float32(0), DistanceToBox(unitBox, rl.Vector3{X: 10, Y: 0, Z: -3}))
	assert.InDelta(t, 3, DistanceToBox(unitBox, rl.Vector3{X: 13, Y: 5}), 1e-5)
	assert.InDelta(t, 5, DistanceToBox(unitBox, rl.Vector3{X: -3, Y: -4, Z: 99}), 1e-5)
}

func newService(t *testing.T) (*Service, *physics.World) {
	t.Helper()
	w := physics.NewWorld()
	return NewService(w, zerolog.Nop()), w
}

func TestGroundHeight(t *testing.T) {
	s, w := newService(t)
	floor := physics.NewBody(physics.BodyStatic, physics.NewBoxShape(rl.Vector3{X: 20, Y: 20, Z: 1}), 0)
	floor.Position = rl.Vector3{Z: 2}
	w.AddBody(floor)

	got := s.GroundHeight(rl.Vector3{X: 3, Y: 4, Z: 50})
	assert.InDelta(t, 3, got.Z, 1e-3)
	assert.Equal(t, float32(3), got.X)
	assert.Equal(t, float32(4), got.Y)

	miss := rl.Vector3{X: 300, Y: 4, Z: 7}
	assert.Equal(t, miss, s.GroundHeight(miss), "miss returns the input unchanged")
}

func TestHitScanDamagesFirstObject(t *testing.T) {
	s, w := newService(t)
	def := &engine.VehicleDef{ModelInfo: engine.ModelInfo{ID: 2, Name: "car"}}
	near := engine.NewVehicle(def, rl.Vector3{X: 5}, rl.QuaternionIdentity(), w)
	far := engine.NewVehicle(def, rl.Vector3{X: 15}, rl.QuaternionIdentity(), w)
	w.AddBody(near.Body())
	w.AddBody(far.Body())

	var got []engine.DamageInfo
	near.Damaged().AddListener(func(d engine.DamageInfo) { got = append(got, d) })
	far.Damaged().AddListener(func(engine.DamageInfo) { t.Error("far vehicle should be shielded") })

	origin := rl.Vector3{}
	obj, ok := s.HitScan(origin, rl.Vector3{X: 30}, 25)
	require.True(t, ok)
	assert.Same(t, near, obj)

	require.Len(t, got, 1)
	assert.Equal(t, engine.DamageBullet, got[0].Cause)
	assert.Equal(t, float32(25), got[0].Amount)
	assert.Equal(t, origin, got[0].Source)
	assert.InDelta(t, 4, got[0].Location.X, 1e-3)
	assert.Equal(t, float32(1000-25), near.Health)
}

func TestHitScanMissAndOwnerless(t *testing.T) {
	s, w := newService(t)

	_, ok := s.HitScan(rl.Vector3{}, rl.Vector3{X: 30}, 10)
	assert.False(t, ok)

	w.AddBody(physics.NewBody(physics.BodyStatic, physics.NewSphereShape(1), 0))
	_, ok = s.HitScan(rl.Vector3{X: -5}, rl.Vector3{X: 5}, 10)
	assert.False(t, ok, "bodies without an owning object are ignored")
}

func TestRadiusScanUnsupported(t *testing.T) {
	s, _ := newService(t)
	assert.ErrorIs(t, s.RadiusScan(rl.Vector3{}, 5, 100), ErrRadiusScanUnsupported)
}
