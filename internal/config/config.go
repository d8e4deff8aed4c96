package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WORLDSIM_PHYSICS_MAXSUBSTEPS.
const EnvPrefix = "WORLDSIM"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

type PhysicsConfig struct {
	FixedTimeStep float32 `mapstructure:"fixedTimeStep"`
	MaxSubSteps   int     `mapstructure:"maxSubSteps"`
	Gravity       float32 `mapstructure:"gravity"` // along -Z
}

type DamageConfig struct {
	// Applied impulse a vehicle must exceed before a contact hurts it.
	VehicleImpulseThreshold float32 `mapstructure:"vehicleImpulseThreshold"`
}

type QueryConfig struct {
	ProbeTop    float32 `mapstructure:"probeTop"`
	ProbeBottom float32 `mapstructure:"probeBottom"`
}

type GarageConfig struct {
	DoorSpeed              float32 `mapstructure:"doorSpeed"`
	DoorSearchRadius       float32 `mapstructure:"doorSearchRadius"`
	HideoutFootDistance    float32 `mapstructure:"hideoutFootDistance"`
	HideoutVehicleDistance float32 `mapstructure:"hideoutVehicleDistance"`
	MissionOpenDistance    float32 `mapstructure:"missionOpenDistance"`
	ClearDistance          float32 `mapstructure:"clearDistance"`
	BombShopCooldown       float32 `mapstructure:"bombShopCooldown"`
	ResprayCooldown        float32 `mapstructure:"resprayCooldown"`
	ResprayHealth          float32 `mapstructure:"resprayHealth"`
}

type ClockConfig struct {
	StartHour   int `mapstructure:"startHour"`
	StartMinute int `mapstructure:"startMinute"`
	// Real seconds per game minute
	MinuteLength float32 `mapstructure:"minuteLength"`
}

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Physics PhysicsConfig `mapstructure:"physics"`
	Damage  DamageConfig  `mapstructure:"damage"`
	Query   QueryConfig   `mapstructure:"query"`
	Garage  GarageConfig  `mapstructure:"garage"`
	Clock   ClockConfig   `mapstructure:"clock"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("physics.fixedTimeStep", 1.0/60.0)
	v.SetDefault("physics.maxSubSteps", 4)
	v.SetDefault("physics.gravity", 9.81)

	v.SetDefault("damage.vehicleImpulseThreshold", 100)

	v.SetDefault("query.probeTop", 100)
	v.SetDefault("query.probeBottom", -100)

	v.SetDefault("garage.doorSpeed", 1)
	v.SetDefault("garage.doorSearchRadius", 20)
	v.SetDefault("garage.hideoutFootDistance", 5)
	v.SetDefault("garage.hideoutVehicleDistance", 10)
	v.SetDefault("garage.missionOpenDistance", 8)
	v.SetDefault("garage.clearDistance", 2)
	v.SetDefault("garage.bombShopCooldown", 1.5)
	v.SetDefault("garage.resprayCooldown", 2)
	v.SetDefault("garage.resprayHealth", 1000)

	v.SetDefault("clock.startHour", 12)
	v.SetDefault("clock.startMinute", 0)
	v.SetDefault("clock.minuteLength", 1)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration without reading any file.
func Default() Config {
	cfg, _ := decode(newViper())
	return cfg
}

// Load reads a YAML, JSON or TOML file (chosen by extension) over the
// defaults. An empty path loads defaults and environment overrides only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	if c.Physics.FixedTimeStep <= 0 {
		return fmt.Errorf("physics.fixedTimeStep must be positive, got %v", c.Physics.FixedTimeStep)
	}
	if c.Physics.MaxSubSteps < 1 {
		return fmt.Errorf("physics.maxSubSteps must be at least 1, got %d", c.Physics.MaxSubSteps)
	}
	if c.Query.ProbeTop <= c.Query.ProbeBottom {
		return fmt.Errorf("query.probeTop (%v) must be above query.probeBottom (%v)", c.Query.ProbeTop, c.Query.ProbeBottom)
	}
	if c.Garage.DoorSpeed <= 0 {
		return fmt.Errorf("garage.doorSpeed must be positive, got %v", c.Garage.DoorSpeed)
	}
	return nil
}
