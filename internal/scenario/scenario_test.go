package scenario

import (
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldsim/internal/config"
	"worldsim/internal/engine"
	"worldsim/internal/garage"
	"worldsim/internal/world"
)

const lockup = `
definitions:
  objects:
    - id: 1
      name: ground
      collision: {min: [-50, -50, -1], max: [50, 50, 0]}
    - id: 2
      name: oddjgaragdoor
      door: true
      collision: {min: [-2, -0.1, 0], max: [2, 0.1, 3]}
    - id: 3
      name: lamppost
      collision:
        min: [-0.2, -0.2, 0]
        max: [0.2, 0.2, 4]
        spheres:
          - {center: [0, 0, 2], radius: 0.2}
  vehicles:
    - id: 100
      name: sentinel
      gameName: SENTINL
      handling: {mass: 1200, engineForce: 8000, maxHealth: 900}
      wheels:
        - {offset: [-0.8, 1.3, -0.3], radius: 0.35, suspensionRest: 0.4, stiffness: 30000, damping: 2000}
  peds:
    - {id: 200, name: player}
  dynamics:
    - {model: LAMPPOST, uprootForce: 400, mass: 40}
clock: {hour: 6, minute: 30}
instances:
  - {model: ground, position: [0, 0, 0]}
  - {model: oddjgaragdoor, position: [5, 0, 0]}
  - {model: lamppost, position: [20, 20, 0], heading: 90}
vehicles:
  - {label: getaway, model: sentinel, position: [30, 0, 1], mission: true}
player:
  model: player
  position: [30, 5, 10]
  vehicle: getaway
zones:
  - {name: Harwood, kind: 1, min: [0, 0, -10], max: [100, 100, 50], level: 1}
garages:
  - {kind: Mission, min: [0, 0, 0], max: [10, 10, 4], active: true, target: getaway}
  - {kind: hideout2, min: [40, 40, 0], max: [50, 50, 4]}
`

func buildWorld(t *testing.T, doc string) (*world.World, *File) {
	t.Helper()
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	w, err := world.New(config.Default(), f.BuildDefinitions(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, f.Apply(w))
	return w, f
}

func TestBuildDefinitions(t *testing.T) {
	f, err := Parse([]byte(lockup))
	require.NoError(t, err)
	defs := f.BuildDefinitions()

	door := defs.Objects[2]
	require.NotNil(t, door)
	assert.True(t, door.IsDoor())
	assert.InDelta(t, 3, door.Collision.Height(), 1e-6)

	lamp := defs.Objects[3]
	require.Len(t, lamp.Collision.Spheres, 1)
	assert.Equal(t, float32(0.2), lamp.Collision.Spheres[0].Radius)
	require.NotNil(t, defs.Dynamics("lamppost"))
	assert.Equal(t, float32(400), defs.Dynamics("lamppost").UprootForce)

	car := defs.Vehicles[100]
	require.NotNil(t, car)
	assert.Equal(t, "SENTINL", car.GameName)
	assert.Equal(t, float32(1200), car.Handling.Mass)
	require.Len(t, car.Wheels, 1)
	assert.Equal(t, rl.Vector3{X: -0.8, Y: 1.3, Z: -0.3}, car.Wheels[0].Offset)

	assert.Contains(t, defs.Peds, uint16(200))
}

func TestApply(t *testing.T) {
	w, _ := buildWorld(t, lockup)

	assert.Equal(t, 6, w.Clock().Hour())
	assert.Equal(t, 30, w.Clock().Minute())
	assert.Equal(t, 3, w.Registry().Instances().Len())
	assert.Equal(t, 1, w.Registry().Vehicles().Len())

	var lamp *engine.Instance
	w.Registry().Instances().Each(func(inst *engine.Instance) {
		if inst.Def.Name == "lamppost" {
			lamp = inst
		}
	})
	require.NotNil(t, lamp)
	require.NotNil(t, lamp.Dynamics)
	assert.InDelta(t, 90, headingOf(lamp.Rotation()), 1e-3)

	p := w.Player()
	require.NotNil(t, p)
	v := p.Character().CurrentVehicle()
	require.NotNil(t, v)
	assert.Equal(t, engine.LifetimeMission, v.Lifetime())
	assert.Equal(t, float32(900), v.Health)

	z, ok := w.Zone("harwood")
	require.True(t, ok)
	assert.Equal(t, world.ZoneInfo, z.Kind)
	assert.Equal(t, 1, z.Level)

	require.Len(t, w.Garages(), 2)
	mission := w.Garages()[0]
	assert.Equal(t, garage.Mission, mission.Kind)
	assert.True(t, mission.IsActive())
	assert.True(t, mission.HasDoor())
	assert.Same(t, v, mission.Target())
	assert.InDelta(t, 2.9, mission.DoorHeight(), 1e-5)

	hideout := w.Garages()[1]
	assert.Equal(t, garage.Hideout2, hideout.Kind)
	assert.False(t, hideout.HasDoor(), "door is more than 20 units away")
}

func TestApplyUnknownReferences(t *testing.T) {
	cases := map[string]string{
		"model":   "instances:\n  - {model: nothing, position: [0, 0, 0]}\n",
		"vehicle": "definitions:\n  peds: [{id: 1, name: player}]\nplayer: {model: player, position: [0, 0, 0], vehicle: ghost}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(doc))
			require.NoError(t, err)
			w, err := world.New(config.Default(), f.BuildDefinitions(), zerolog.Nop())
			require.NoError(t, err)
			assert.ErrorIs(t, f.Apply(w), ErrUnknownReference)
		})
	}
}

func TestApplyUnknownGarageKind(t *testing.T) {
	f, err := Parse([]byte("garages:\n  - {kind: carwash, min: [0, 0, 0], max: [1, 1, 1]}\n"))
	require.NoError(t, err)
	w, err := world.New(config.Default(), f.BuildDefinitions(), zerolog.Nop())
	require.NoError(t, err)
	assert.ErrorIs(t, f.Apply(w), garage.ErrUnknownKind)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("instances: [oops"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	w, base := buildWorld(t, lockup)
	g := w.Garages()[0]
	g.Open()
	for i := 0; i < 30; i++ {
		w.Update(w.Physics().FixedTimeStep)
	}
	require.Greater(t, g.Fraction(), float32(0))

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, Snapshot(w, base).Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Instances, 3)
	assert.Len(t, loaded.Vehicles, 1)
	assert.True(t, loaded.Vehicles[0].Mission)
	require.NotNil(t, loaded.Player)
	assert.Equal(t, loaded.Vehicles[0].Label, loaded.Player.Vehicle)
	require.Len(t, loaded.Garages, 2)
	assert.Equal(t, "Mission", loaded.Garages[0].Kind)
	assert.True(t, loaded.Garages[0].Active)
	assert.Equal(t, loaded.Vehicles[0].Label, loaded.Garages[0].Target)
	require.Len(t, loaded.Zones, 1)
	assert.Equal(t, "Harwood", loaded.Zones[0].Name)
	require.NotNil(t, loaded.Clock)
	assert.Equal(t, 6, loaded.Clock.Hour)

	for _, inst := range loaded.Instances {
		if inst.Model == "oddjgaragdoor" {
			assert.Equal(t, Vec3{5, 0, 0}, inst.Position, "doors are saved shut")
		}
	}

	w2, err := world.New(config.Default(), loaded.BuildDefinitions(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, loaded.Apply(w2))
	assert.Equal(t, w.Registry().Instances().Len(), w2.Registry().Instances().Len())
	require.Len(t, w2.Garages(), 2)
	v2 := w2.Player().Character().CurrentVehicle()
	require.NotNil(t, v2)
	assert.Same(t, v2, w2.Garages()[0].Target())
}
