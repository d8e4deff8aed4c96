package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"worldsim/internal/engine"
	"worldsim/internal/garage"
	"worldsim/internal/physics"
	"worldsim/internal/world"
)

// ErrUnknownReference is returned when a placement names a model or a
// vehicle label that the document does not define.
var ErrUnknownReference = errors.New("unknown reference")

type Vec3 [3]float32

func (v Vec3) vector() rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func vec3(v rl.Vector3) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// --- YAML types ---

type File struct {
	Definitions DefinitionsDoc `yaml:"definitions"`
	Clock       *ClockDoc      `yaml:"clock,omitempty"`
	Instances   []PlacementDoc `yaml:"instances,omitempty"`
	Vehicles    []VehicleDoc   `yaml:"vehicles,omitempty"`
	Player      *PlayerDoc     `yaml:"player,omitempty"`
	Zones       []ZoneDoc      `yaml:"zones,omitempty"`
	Garages     []GarageDoc    `yaml:"garages,omitempty"`
}

type DefinitionsDoc struct {
	Objects  []ObjectDoc       `yaml:"objects,omitempty"`
	Vehicles []VehicleModelDoc `yaml:"vehicles,omitempty"`
	Peds     []PedDoc          `yaml:"peds,omitempty"`
	Dynamics []DynamicsDoc     `yaml:"dynamics,omitempty"`
}

type CollisionDoc struct {
	Min     Vec3        `yaml:"min"`
	Max     Vec3        `yaml:"max"`
	Spheres []SphereDoc `yaml:"spheres,omitempty"`
}

type SphereDoc struct {
	Center Vec3    `yaml:"center"`
	Radius float32 `yaml:"radius"`
}

type ObjectDoc struct {
	ID        uint16        `yaml:"id"`
	Name      string        `yaml:"name"`
	Door      bool          `yaml:"door,omitempty"`
	Collision *CollisionDoc `yaml:"collision,omitempty"`
}

type HandlingDoc struct {
	Mass        float32 `yaml:"mass"`
	EngineForce float32 `yaml:"engineForce,omitempty"`
	BrakeForce  float32 `yaml:"brakeForce,omitempty"`
	Drag        float32 `yaml:"drag,omitempty"`
	SteerRate   float32 `yaml:"steerRate,omitempty"`
	MaxHealth   float32 `yaml:"maxHealth,omitempty"`
}

type WheelDoc struct {
	Offset         Vec3    `yaml:"offset"`
	Radius         float32 `yaml:"radius"`
	SuspensionRest float32 `yaml:"suspensionRest"`
	Stiffness      float32 `yaml:"stiffness"`
	Damping        float32 `yaml:"damping"`
}

type VehicleModelDoc struct {
	ID        uint16        `yaml:"id"`
	Name      string        `yaml:"name"`
	GameName  string        `yaml:"gameName,omitempty"`
	Collision *CollisionDoc `yaml:"collision,omitempty"`
	Handling  HandlingDoc   `yaml:"handling"`
	Wheels    []WheelDoc    `yaml:"wheels,omitempty"`
}

type PedDoc struct {
	ID     uint16  `yaml:"id"`
	Name   string  `yaml:"name"`
	Radius float32 `yaml:"radius,omitempty"`
}

type DynamicsDoc struct {
	Model       string  `yaml:"model"`
	UprootForce float32 `yaml:"uprootForce"`
	Mass        float32 `yaml:"mass"`
}

type ClockDoc struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
}

// PlacementDoc places an instance. Heading is in degrees about +Z.
type PlacementDoc struct {
	Model    string  `yaml:"model"`
	Position Vec3    `yaml:"position"`
	Heading  float32 `yaml:"heading,omitempty"`
}

type VehicleDoc struct {
	Label    string  `yaml:"label,omitempty"`
	Model    string  `yaml:"model"`
	Position Vec3    `yaml:"position"`
	Heading  float32 `yaml:"heading,omitempty"`
	Mission  bool    `yaml:"mission,omitempty"`
}

type PlayerDoc struct {
	Model    string `yaml:"model"`
	Position Vec3   `yaml:"position"`
	Vehicle  string `yaml:"vehicle,omitempty"` // vehicle label to start in
}

type ZoneDoc struct {
	Name  string `yaml:"name"`
	Kind  int    `yaml:"kind,omitempty"`
	Min   Vec3   `yaml:"min"`
	Max   Vec3   `yaml:"max"`
	Level int    `yaml:"level,omitempty"`
}

type GarageDoc struct {
	Kind   string `yaml:"kind"`
	Min    Vec3   `yaml:"min"`
	Max    Vec3   `yaml:"max"`
	Active bool   `yaml:"active,omitempty"`
	Swing  bool   `yaml:"swing,omitempty"`
	Target string `yaml:"target,omitempty"` // vehicle label
}

// --- Loading ---

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &f, nil
}

func (c *CollisionDoc) model() *engine.CollisionModel {
	if c == nil {
		return nil
	}
	m := &engine.CollisionModel{Bounds: physics.NewAABBFromCorners(c.Min.vector(), c.Max.vector())}
	for _, s := range c.Spheres {
		m.Spheres = append(m.Spheres, engine.CollisionSphere{Center: s.Center.vector(), Radius: s.Radius})
	}
	return m
}

// BuildDefinitions turns the definitions section into the lookup the world
// factories read from.
func (f *File) BuildDefinitions() *engine.Definitions {
	defs := engine.NewDefinitions()
	for _, o := range f.Definitions.Objects {
		defs.AddObject(&engine.ObjectDef{
			ModelInfo: engine.ModelInfo{ID: o.ID, Name: o.Name, Collision: o.Collision.model()},
			Door:      o.Door,
		})
	}
	for _, v := range f.Definitions.Vehicles {
		def := &engine.VehicleDef{
			ModelInfo: engine.ModelInfo{ID: v.ID, Name: v.Name, Collision: v.Collision.model()},
			GameName:  v.GameName,
			Handling: engine.Handling{
				Mass:        v.Handling.Mass,
				EngineForce: v.Handling.EngineForce,
				BrakeForce:  v.Handling.BrakeForce,
				Drag:        v.Handling.Drag,
				SteerRate:   v.Handling.SteerRate,
				MaxHealth:   v.Handling.MaxHealth,
			},
		}
		for _, wd := range v.Wheels {
			def.Wheels = append(def.Wheels, engine.WheelDef{
				Offset:         wd.Offset.vector(),
				Radius:         wd.Radius,
				SuspensionRest: wd.SuspensionRest,
				Stiffness:      wd.Stiffness,
				Damping:        wd.Damping,
			})
		}
		defs.AddVehicle(def)
	}
	for _, p := range f.Definitions.Peds {
		defs.AddPed(&engine.PedDef{ModelInfo: engine.ModelInfo{ID: p.ID, Name: p.Name}, Radius: p.Radius})
	}
	for _, d := range f.Definitions.Dynamics {
		defs.SetDynamics(d.Model, engine.DynamicsData{UprootForce: d.UprootForce, Mass: d.Mass})
	}
	return defs
}

func heading(deg float32) rl.Quaternion {
	return rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, deg*rl.Deg2rad)
}

func headingOf(q rl.Quaternion) float32 {
	return float32(2*math.Atan2(float64(q.Z), float64(q.W))) * rl.Rad2deg
}

func findModel(w *world.World, name string) (uint16, error) {
	id, ok := w.Definitions().FindModel(name)
	if !ok {
		return 0, fmt.Errorf("model %q: %w", name, ErrUnknownReference)
	}
	return id, nil
}

// Apply places everything in the document into w. Garages come last so
// their door search sees the placed instances.
func (f *File) Apply(w *world.World) error {
	if f.Clock != nil {
		w.Clock().SetTime(f.Clock.Hour, f.Clock.Minute)
	}

	for i, p := range f.Instances {
		id, err := findModel(w, p.Model)
		if err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		if _, err := w.CreateInstance(id, p.Position.vector(), heading(p.Heading)); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
	}

	labels := make(map[string]*engine.Vehicle)
	for i, v := range f.Vehicles {
		id, err := findModel(w, v.Model)
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
		veh, err := w.CreateVehicle(id, v.Position.vector(), heading(v.Heading))
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
		if v.Mission {
			veh.SetLifetime(engine.LifetimeMission)
		}
		if v.Label != "" {
			labels[v.Label] = veh
		}
	}

	vehicle := func(label string) (*engine.Vehicle, error) {
		v, ok := labels[label]
		if !ok {
			return nil, fmt.Errorf("vehicle %q: %w", label, ErrUnknownReference)
		}
		return v, nil
	}

	if p := f.Player; p != nil {
		id, err := findModel(w, p.Model)
		if err != nil {
			return fmt.Errorf("player: %w", err)
		}
		if _, err := w.CreatePlayer(id, p.Position.vector()); err != nil {
			return fmt.Errorf("player: %w", err)
		}
		if p.Vehicle != "" {
			v, err := vehicle(p.Vehicle)
			if err != nil {
				return fmt.Errorf("player: %w", err)
			}
			w.PutPlayerInVehicle(v)
		}
	}

	for _, z := range f.Zones {
		w.AddZone(z.Name, world.ZoneKind(z.Kind), z.Min.vector(), z.Max.vector(), z.Level)
	}

	for i, gd := range f.Garages {
		kind, err := garage.ParseKindName(gd.Kind)
		if err != nil {
			return fmt.Errorf("garage %d: %w", i, err)
		}
		g, err := w.CreateGarage(gd.Min.vector(), gd.Max.vector(), kind)
		if err != nil {
			return fmt.Errorf("garage %d: %w", i, err)
		}
		if gd.Swing {
			g.MakeDoorSwing()
		}
		if gd.Target != "" {
			v, err := vehicle(gd.Target)
			if err != nil {
				return fmt.Errorf("garage %d: %w", i, err)
			}
			g.SetTarget(v)
		}
		if gd.Active {
			g.Activate()
		}
	}
	return nil
}

// --- Saving ---

// Snapshot captures the placements of a running world. Definitions are
// carried over from base, since the world only knows them by id.
func Snapshot(w *world.World, base *File) *File {
	f := &File{}
	if base != nil {
		f.Definitions = base.Definitions
	}
	f.Clock = &ClockDoc{Hour: w.Clock().Hour(), Minute: w.Clock().Minute()}

	w.Registry().Instances().Each(func(inst *engine.Instance) {
		pos := inst.Position()
		for _, g := range w.Garages() {
			if rest, ok := g.DoorRest(inst); ok {
				pos = rest
				break
			}
		}
		f.Instances = append(f.Instances, PlacementDoc{
			Model:    inst.Def.Name,
			Position: vec3(pos),
			Heading:  headingOf(inst.Rotation()),
		})
	})

	labels := make(map[*engine.Vehicle]string)
	w.Registry().Vehicles().Each(func(v *engine.Vehicle) {
		label := fmt.Sprintf("vehicle%d", len(f.Vehicles))
		labels[v] = label
		f.Vehicles = append(f.Vehicles, VehicleDoc{
			Label:    label,
			Model:    v.Def.Name,
			Position: vec3(v.Position()),
			Heading:  headingOf(v.Rotation()),
			Mission:  v.Lifetime() == engine.LifetimeMission,
		})
	})

	if p := w.Player(); p != nil && p.Character() != nil {
		c := p.Character()
		f.Player = &PlayerDoc{Model: c.Def.Name, Position: vec3(c.Position())}
		if v := c.CurrentVehicle(); v != nil {
			f.Player.Vehicle = labels[v]
		}
	}

	for _, z := range w.Zones() {
		f.Zones = append(f.Zones, ZoneDoc{
			Name:  z.Name,
			Kind:  int(z.Kind),
			Min:   vec3(z.Box.Min),
			Max:   vec3(z.Box.Max),
			Level: z.Level,
		})
	}

	for _, g := range w.Garages() {
		doc := GarageDoc{
			Kind:   g.Kind.String(),
			Min:    vec3(g.Box.Min),
			Max:    vec3(g.Box.Max),
			Active: g.IsActive(),
			Swing:  g.IsSwing(),
		}
		if v, ok := g.Target().(*engine.Vehicle); ok {
			doc.Target = labels[v]
		}
		f.Garages = append(f.Garages, doc)
	}
	return f
}

func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}
