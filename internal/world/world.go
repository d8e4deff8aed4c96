package world

import (
	"context"
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"worldsim/internal/config"
	"worldsim/internal/engine"
	"worldsim/internal/garage"
	"worldsim/internal/logging"
	"worldsim/internal/physics"
	"worldsim/internal/spatial"
)

// ErrUnknownDefinition is returned by the factories when a model id has no
// definition of the requested kind.
var ErrUnknownDefinition = errors.New("unknown definition")

// World is the simulation context. It owns every lookup table and wires the
// physics hooks to the gameplay rules.
type World struct {
	DamageDelivered engine.EventWithArg[Damage]

	cfg        config.Config
	root       zerolog.Logger
	log        zerolog.Logger
	contactLog zerolog.Logger

	defs    *engine.Definitions
	reg     *engine.Registry
	physics *physics.World
	spatial *spatial.Service
	clock   *Clock
	player  *engine.Player

	zones     []*Zone
	zoneNames map[string]*Zone
	garages   []*garage.Garage

	metrics instruments
}

// New builds an empty world. defs may be nil for a world that only hosts
// hand-built objects.
func New(cfg config.Config, defs *engine.Definitions, log zerolog.Logger) (*World, error) {
	if defs == nil {
		defs = engine.NewDefinitions()
	}
	wlog := log.With().Str("component", "world").Logger()

	w := &World{
		cfg:        cfg,
		root:       log,
		log:        wlog,
		contactLog: logging.Sampled(wlog),
		defs:       defs,
		reg:        engine.NewRegistry(),
		physics:    physics.NewWorld(),
		clock:      NewClock(cfg.Clock),
		zoneNames:  make(map[string]*Zone),
	}

	w.physics.Gravity = rl.Vector3{Z: -cfg.Physics.Gravity}
	w.physics.FixedTimeStep = cfg.Physics.FixedTimeStep
	w.physics.MaxSubSteps = cfg.Physics.MaxSubSteps
	w.physics.NeedsResponse = w.needsResponse
	w.physics.ContactProcessed = w.contactProcessed
	w.physics.Tick = w.physicsTick

	w.spatial = spatial.NewService(w.physics, log)
	w.spatial.SetGroundProbe(cfg.Query.ProbeTop, cfg.Query.ProbeBottom)
	w.spatial.SetDeliver(w.deliver)

	if err := w.initInstruments(); err != nil {
		return nil, err
	}
	w.reg.Destroyed.AddListener(w.onDestroyed)

	return w, nil
}

func (w *World) Registry() *engine.Registry {
	return w.reg
}

func (w *World) Physics() *physics.World {
	return w.physics
}

func (w *World) Spatial() *spatial.Service {
	return w.spatial
}

func (w *World) Definitions() *engine.Definitions {
	return w.defs
}

func (w *World) Clock() *Clock {
	return w.clock
}

// Player returns the player controller, or nil before CreatePlayer.
func (w *World) Player() *engine.Player {
	return w.player
}

// GameTime returns the simulated seconds since the world started.
func (w *World) GameTime() float32 {
	return w.clock.Elapsed()
}

// Logger returns the logger the world was built with, for components
// hosted on top of it.
func (w *World) Logger() zerolog.Logger {
	return w.root
}

// Update runs one frame: clock, physics substeps, garages, then the
// deferred destruction queue.
func (w *World) Update(dt float32) {
	w.clock.Advance(dt)
	w.physics.Step(dt)
	for _, g := range w.garages {
		g.Tick(dt)
	}
	if n := w.reg.DrainQueue(); n > 0 {
		w.log.Debug().Int("count", n).Msg("drained destroy queue")
	}
}

// add registers obj and its body.
func (w *World) add(obj engine.Object) {
	w.reg.Insert(obj)
	if b := obj.Body(); b != nil {
		w.physics.AddBody(b)
	}
}

func (w *World) onDestroyed(obj engine.Object) {
	if b := obj.Body(); b != nil {
		w.physics.RemoveBody(b)
	}
	if c := w.playerCharacter(); c != nil {
		if v := c.CurrentVehicle(); v != nil && engine.Object(v) == obj {
			w.unseat(c, v.Position())
		}
	}
	w.metrics.destroyed.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("type", obj.Type().String()),
	))
}
