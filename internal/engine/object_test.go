package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldsim/internal/physics"
)

func lampDef() *ObjectDef {
	return &ObjectDef{ModelInfo: ModelInfo{
		ID:   10,
		Name: "lamppost",
		Collision: &CollisionModel{
			Bounds: physics.AABB{Min: rl.Vector3{X: -0.2, Y: -0.2}, Max: rl.Vector3{X: 0.2, Y: 0.2, Z: 4}},
		},
	}}
}

func carDef() *VehicleDef {
	return &VehicleDef{
		ModelInfo: ModelInfo{ID: 90, Name: "stinger"},
		Handling:  Handling{Mass: 1000, EngineForce: 8000, BrakeForce: 2000, SteerRate: 1},
	}
}

func TestInstanceBodyFromCollision(t *testing.T) {
	inst := NewInstance(lampDef(), nil, rl.Vector3{X: 5, Y: 5}, rl.QuaternionIdentity())

	body := inst.Body()
	require.NotNil(t, body)
	assert.Equal(t, physics.BodyStatic, body.Kind)
	assert.Equal(t, rl.Vector3{X: 5, Y: 5, Z: 2}, body.Center())

	owner, ok := OwnerOf(body)
	require.True(t, ok)
	assert.Same(t, inst, owner)
}

func TestInstanceWithoutCollisionHasNoBody(t *testing.T) {
	inst := NewInstance(testObjectDef("decal"), nil, rl.Vector3{}, rl.QuaternionIdentity())
	assert.Nil(t, inst.Body())
}

func TestInstanceUprootOnPhysicsDamage(t *testing.T) {
	world := physics.NewWorld()
	inst := NewInstance(lampDef(), &DynamicsData{UprootForce: 200, Mass: 50}, rl.Vector3{}, rl.QuaternionIdentity())
	world.AddBody(inst.Body())

	var hits int
	inst.Damaged().AddListener(func(DamageInfo) { hits++ })

	inst.TakeDamage(DamageInfo{Amount: 199, Cause: DamagePhysics})
	assert.False(t, inst.Uprooted(), "below threshold")

	inst.TakeDamage(DamageInfo{Amount: 500, Cause: DamageBullet})
	assert.False(t, inst.Uprooted(), "only physics damage uproots")

	inst.TakeDamage(DamageInfo{Amount: 200, Cause: DamagePhysics})
	assert.True(t, inst.Uprooted())
	assert.Equal(t, 3, hits)

	body := inst.Body()
	assert.Equal(t, physics.BodyDynamic, body.Kind)
	assert.InDelta(t, 1.0/50, body.InverseMass(), 1e-6)
	assert.Contains(t, world.Dynamics, body)
	assert.NotContains(t, world.Statics, body)
}

func TestVehicleTakeDamage(t *testing.T) {
	v := NewVehicle(carDef(), rl.Vector3{}, rl.QuaternionIdentity(), nil)
	assert.Equal(t, float32(DefaultVehicleHealth), v.Health)

	v.TakeDamage(DamageInfo{Amount: 150, Cause: DamagePhysics})
	assert.Equal(t, float32(850), v.Health)

	v.TakeDamage(DamageInfo{Amount: 5000, Cause: DamageExplosion})
	assert.Equal(t, float32(0), v.Health)
}

func TestVehicleIsStopped(t *testing.T) {
	v := NewVehicle(carDef(), rl.Vector3{}, rl.QuaternionIdentity(), nil)
	assert.True(t, v.IsStopped())

	v.Body().LinearVelocity = rl.Vector3{X: 0.5}
	assert.False(t, v.IsStopped())
}

func TestVehicleSuspensionAndThrottle(t *testing.T) {
	world := physics.NewWorld()
	ground := physics.NewBody(physics.BodyStatic, physics.NewBoxShape(rl.Vector3{X: 50, Y: 50, Z: 0.5}), 0)
	ground.Position = rl.Vector3{Z: -0.5}
	world.AddBody(ground)

	def := carDef()
	def.Wheels = []WheelDef{
		{Offset: rl.Vector3{X: -1, Y: 1.5, Z: -0.3}, Radius: 0.4, SuspensionRest: 0.6, Stiffness: 20000, Damping: 500},
		{Offset: rl.Vector3{X: 1, Y: 1.5, Z: -0.3}, Radius: 0.4, SuspensionRest: 0.6, Stiffness: 20000, Damping: 500},
	}
	v := NewVehicle(def, rl.Vector3{Z: 1.2}, rl.QuaternionIdentity(), world)
	v.Body().Shape = physics.NewBoxShape(rl.Vector3{X: 1, Y: 2, Z: 0.3})
	world.AddBody(v.Body())

	v.Throttle = 1
	v.TickPhysics(world.FixedTimeStep)
	require.True(t, v.Grounded(), "wheel rays should reach the ground and skip the own body")

	world.Step(world.FixedTimeStep)
	assert.Greater(t, v.Velocity().Y, float32(0), "throttle pushes along +Y")
}

func TestVehicleAirborneHasNoDrive(t *testing.T) {
	world := physics.NewWorld()
	def := carDef()
	def.Wheels = []WheelDef{{Radius: 0.4, SuspensionRest: 0.5, Stiffness: 1000}}
	v := NewVehicle(def, rl.Vector3{Z: 50}, rl.QuaternionIdentity(), world)
	world.AddBody(v.Body())

	v.Throttle = 1
	v.TickPhysics(world.FixedTimeStep)
	assert.False(t, v.Grounded())
}

func TestCharacterFollowsVehicle(t *testing.T) {
	c := NewCharacter(&PedDef{ModelInfo: ModelInfo{ID: 1, Name: "player"}}, rl.Vector3{X: 1}, rl.QuaternionIdentity())
	v := NewVehicle(carDef(), rl.Vector3{X: 10, Y: 10}, rl.QuaternionIdentity(), nil)

	c.EnterVehicle(v)
	assert.Same(t, v, c.CurrentVehicle())
	assert.Equal(t, rl.Vector3{X: 10, Y: 10}, c.Position())
	assert.True(t, c.Body().NoContactResponse)

	c.ExitVehicle(rl.Vector3{X: 12, Y: 10})
	assert.Nil(t, c.CurrentVehicle())
	assert.Equal(t, rl.Vector3{X: 12, Y: 10}, c.Position())
	assert.False(t, c.Body().NoContactResponse)
}

func TestPlayerInput(t *testing.T) {
	p := NewPlayer(NewCharacter(&PedDef{}, rl.Vector3{}, rl.QuaternionIdentity()))
	assert.True(t, p.IsInputEnabled())
	p.SetInputEnabled(false)
	assert.False(t, p.IsInputEnabled())
}

func TestDefinitions(t *testing.T) {
	defs := NewDefinitions()
	defs.AddObject(lampDef())
	defs.AddVehicle(carDef())
	defs.SetDynamics("LampPost", DynamicsData{UprootForce: 100, Mass: 20})

	id, ok := defs.FindModel("LAMPPOST")
	require.True(t, ok)
	assert.Equal(t, uint16(10), id)

	id, ok = defs.FindModel("stinger")
	require.True(t, ok)
	assert.Equal(t, uint16(90), id)

	_, ok = defs.FindModel("nope")
	assert.False(t, ok)

	dyn := defs.Dynamics("lamppost")
	require.NotNil(t, dyn)
	assert.Equal(t, float32(100), dyn.UprootForce)
	assert.Nil(t, defs.Dynamics("bench"))
}

func TestIsDoorModel(t *testing.T) {
	assert.True(t, IsDoorModel("Door_BombShop"))
	assert.True(t, IsDoorModel("oddjgaragdoor"))
	assert.False(t, IsDoorModel("lamppost"))

	def := &ObjectDef{ModelInfo: ModelInfo{Name: "custom_gate"}, Door: true}
	assert.True(t, def.IsDoor())
}
