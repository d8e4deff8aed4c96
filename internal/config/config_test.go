package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 1.0/60.0, cfg.Physics.FixedTimeStep, 1e-6)
	assert.Equal(t, 4, cfg.Physics.MaxSubSteps)
	assert.Equal(t, float32(100), cfg.Damage.VehicleImpulseThreshold)
	assert.Equal(t, float32(100), cfg.Query.ProbeTop)
	assert.Equal(t, float32(-100), cfg.Query.ProbeBottom)
	assert.Equal(t, float32(5), cfg.Garage.HideoutFootDistance)
	assert.Equal(t, float32(10), cfg.Garage.HideoutVehicleDistance)
	assert.Equal(t, float32(1.5), cfg.Garage.BombShopCooldown)
	assert.Equal(t, float32(1000), cfg.Garage.ResprayHealth)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "worldsim.yaml", `
log:
  level: debug
physics:
  maxSubSteps: 8
garage:
  doorSpeed: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Physics.MaxSubSteps)
	assert.Equal(t, float32(2), cfg.Garage.DoorSpeed)
	// untouched keys keep defaults
	assert.Equal(t, float32(20), cfg.Garage.DoorSearchRadius)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "worldsim.json", `{"damage": {"vehicleImpulseThreshold": 250}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(250), cfg.Damage.VehicleImpulseThreshold)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("WORLDSIM_PHYSICS_MAXSUBSTEPS", "2")
	t.Setenv("WORLDSIM_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Physics.MaxSubSteps)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", `
query:
  probeTop: -200
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "probeTop")
}
