package garage

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"worldsim/internal/engine"
	"worldsim/internal/physics"
	"worldsim/internal/spatial"
)

const defaultDoorHeight = 4

// Config holds the tuning shared by every garage.
type Config struct {
	DoorSpeed              float32 // door heights per second before normalisation
	DoorSearchRadius       float32
	HideoutFootDistance    float32
	HideoutVehicleDistance float32
	MissionOpenDistance    float32
	ClearDistance          float32
	BombShopCooldown       float32
	ResprayCooldown        float32
	ResprayHealth          float32
}

func DefaultConfig() Config {
	return Config{
		DoorSpeed:              1,
		DoorSearchRadius:       20,
		HideoutFootDistance:    5,
		HideoutVehicleDistance: 10,
		MissionOpenDistance:    8,
		ClearDistance:          2,
		BombShopCooldown:       1.5,
		ResprayCooldown:        2,
		ResprayHealth:          engine.DefaultVehicleHealth,
	}
}

// Transition is published on Garage.StateChanged.
type Transition struct {
	Garage *Garage
	From   State
	To     State
}

type door struct {
	ref   engine.Ref
	start rl.Vector3
}

// Garage is a box with one or two doors that open and close on their own
// according to the rules of its kind.
type Garage struct {
	ID   int
	Kind Kind
	Box  physics.AABB

	StateChanged engine.EventWithArg[Transition]

	world       engine.WorldAccess
	cfg         Config
	policy      policy
	log         zerolog.Logger
	transitions metric.Int64Counter

	state      State
	fraction   float32
	step       float32
	doorHeight float32
	door       *door
	secondDoor *door

	target      engine.Ref
	active      bool
	swing       bool
	timer       float32
	resprayDone bool
}

// New builds a garage spanning the two corners and looks for its doors
// among the world's live instances. Garages must be created after the
// placement instances are loaded.
func New(world engine.WorldAccess, id int, corner0, corner1 rl.Vector3, kind Kind, cfg Config, log zerolog.Logger) (*Garage, error) {
	if _, err := ParseKind(int(kind)); err != nil {
		return nil, err
	}

	transitions, err := meter().Int64Counter(
		"garage.transitions",
		metric.WithDescription("Garage door state changes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	g := &Garage{
		ID:          id,
		Kind:        kind,
		Box:         physics.NewAABBFromCorners(corner0, corner1),
		world:       world,
		cfg:         cfg,
		policy:      policies[kind],
		log:         log.With().Str("component", "garage").Int("garage", id).Stringer("kind", kind).Logger(),
		transitions: transitions,
		doorHeight:  defaultDoorHeight,
	}
	g.findDoors()

	if g.door != nil {
		inst := g.doorInstance(g.door)
		if inst != nil && inst.Def.Collision != nil && inst.Def.Collision.Height() > 0.1 {
			g.doorHeight = inst.Def.Collision.Height() - 0.1
		}
	} else {
		g.log.Warn().Msg("no door found, garage will stay inert")
	}

	speed := cfg.DoorSpeed
	if speed <= 0 {
		speed = 1
	}
	g.step = speed / g.doorHeight

	if kind.startsOpen() {
		g.state = Opened
		g.fraction = 1
	} else {
		g.state = Closed
		g.fraction = 0
	}
	g.updateDoor()

	return g, nil
}

func (g *Garage) findDoors() {
	mid := g.Box.Center()
	radius := g.cfg.DoorSearchRadius
	g.world.Registry().Instances().Each(func(inst *engine.Instance) {
		if !inst.Def.IsDoor() {
			return
		}
		pos := inst.Position()
		if abs(pos.X-mid.X) >= radius || abs(pos.Y-mid.Y) >= radius {
			return
		}
		d := &door{ref: engine.RefTo(inst), start: pos}
		if g.door == nil {
			g.door = d
		} else {
			g.secondDoor = d
		}
	})
}

func (g *Garage) doorInstance(d *door) *engine.Instance {
	if d == nil {
		return nil
	}
	obj := d.ref.Get(g.world.Registry())
	inst, _ := obj.(*engine.Instance)
	return inst
}

// DoorRest returns where inst sits with the door shut, if inst is one of
// this garage's doors.
func (g *Garage) DoorRest(inst *engine.Instance) (rl.Vector3, bool) {
	for _, d := range []*door{g.door, g.secondDoor} {
		if d != nil && inst != nil && g.doorInstance(d) == inst {
			return d.start, true
		}
	}
	return rl.Vector3{}, false
}

func (g *Garage) State() State {
	return g.state
}

// Fraction is how far the door is open, 0 closed and 1 fully open.
func (g *Garage) Fraction() float32 {
	return g.fraction
}

func (g *Garage) DoorHeight() float32 {
	return g.doorHeight
}

func (g *Garage) HasDoor() bool {
	return g.door != nil
}

func (g *Garage) IsActive() bool {
	return g.active
}

// Activate lets the garage react to the player. A MissionForCarToComeOut
// garage starts opening straight away.
func (g *Garage) Activate() {
	g.active = true
	if g.Kind == MissionForCarToComeOut && g.state == Closed {
		g.setState(Opening)
	}
}

func (g *Garage) Deactivate() {
	g.active = false
}

// Open forces the door up, regardless of policy.
func (g *Garage) Open() {
	if g.state == Closed || g.state == Closing {
		g.setState(Opening)
	}
}

// Close forces the door down, regardless of policy.
func (g *Garage) Close() {
	if g.state == Opened || g.state == Opening {
		g.setState(Closing)
	}
}

// SetTarget sets the object mission kinds wait for. Nil clears it.
func (g *Garage) SetTarget(obj engine.Object) {
	g.target = engine.RefTo(obj)
}

func (g *Garage) Target() engine.Object {
	return g.target.Get(g.world.Registry())
}

// MakeDoorSwing turns the sliding door into a swinging one. It cannot be
// undone and applying it again changes nothing.
func (g *Garage) MakeDoorSwing() {
	if g.swing {
		return
	}
	g.swing = true
	g.doorHeight = g.doorHeight/2 - 0.1
}

func (g *Garage) IsSwing() bool {
	return g.swing
}

// IsObjectInside reports whether obj is fully inside the garage volume.
func (g *Garage) IsObjectInside(obj engine.Object) bool {
	return spatial.ContainsObject(g.Box, obj)
}

// IsTargetInside reports whether the garage is shut with its target in it.
func (g *Garage) IsTargetInside() bool {
	if g.state != Closed {
		return false
	}
	target := g.Target()
	if target == nil {
		return false
	}
	return g.IsObjectInside(target)
}

// DistanceTo returns the horizontal distance from p to the garage.
func (g *Garage) DistanceTo(p rl.Vector3) float32 {
	return spatial.DistanceToBox(g.Box, p)
}

// Tick advances the door by one frame.
func (g *Garage) Tick(dt float32) {
	if !g.active || g.door == nil {
		return
	}

	moved := false
	switch g.state {
	case Opened:
		if g.policy.shouldClose(g) {
			g.setState(Closing)
			g.policy.onStartClosing(g)
		}

	case Closed:
		if g.policy.shouldOpen(g) {
			g.setState(Opening)
			g.policy.onStartOpening(g)
		}

	case Opening:
		if g.policy.shouldStopOpening(g) {
			g.setState(Closing)
			break
		}
		g.fraction += dt * g.step
		if g.fraction >= 1 {
			g.fraction = 1
			g.setState(Opened)
			g.policy.onOpened(g)
		}
		moved = true

	case Closing:
		if g.policy.shouldStopClosing(g) {
			g.setState(Opening)
			break
		}
		g.fraction -= dt * g.step
		if g.fraction <= 0 {
			g.fraction = 0
			g.setState(Closed)
			g.policy.onClosed(g)
		}
		moved = true
	}

	if moved {
		g.updateDoor()
	}
}

func (g *Garage) setState(s State) {
	if s == g.state {
		return
	}
	from := g.state
	g.state = s
	g.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", g.Kind.String()),
		attribute.String("state", s.String()),
	))
	g.log.Debug().Stringer("from", from).Stringer("to", s).Msg("door state changed")
	g.StateChanged.Invoke(Transition{Garage: g, From: from, To: s})
}

// updateDoor places the doors for the current fraction. Calling it again
// with the same fraction yields the same transforms.
func (g *Garage) updateDoor() {
	for _, d := range []*door{g.door, g.secondDoor} {
		inst := g.doorInstance(d)
		if inst == nil {
			continue
		}
		if g.swing {
			inst.SetRotation(rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, g.fraction*rl.Pi/2))
		}
		inst.SetPosition(rl.Vector3Add(d.start, rl.Vector3{Z: g.fraction * g.doorHeight}))
	}
}

// player returns the player character and the vehicle it is driving.
func (g *Garage) player() (*engine.Character, *engine.Vehicle) {
	p := g.world.Player()
	if p == nil || p.Character() == nil {
		return nil, nil
	}
	c := p.Character()
	return c, c.CurrentVehicle()
}

func (g *Garage) setInput(enabled bool) {
	if p := g.world.Player(); p != nil {
		p.SetInputEnabled(enabled)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
