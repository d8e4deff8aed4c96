package engine

import (
	"slices"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
)

// CollisionSphere is a sphere in model space.
type CollisionSphere struct {
	Center rl.Vector3
	Radius float32
}

// CollisionModel is the model-space collision geometry of a definition.
type CollisionModel struct {
	Bounds  physics.AABB
	Spheres []CollisionSphere
}

// Height of the collision bounding box.
func (c *CollisionModel) Height() float32 {
	return c.Bounds.Max.Z - c.Bounds.Min.Z
}

// ModelInfo is the part every definition shares.
type ModelInfo struct {
	ID        uint16
	Name      string
	Collision *CollisionModel // nil when the model has no collision
}

type ObjectDef struct {
	ModelInfo
	Door bool
}

// IsDoor reports whether instances of this definition act as garage doors.
func (d *ObjectDef) IsDoor() bool {
	return d.Door || IsDoorModel(d.Name)
}

type WheelDef struct {
	Offset         rl.Vector3 // mount point relative to the vehicle origin
	Radius         float32
	SuspensionRest float32
	Stiffness      float32
	Damping        float32
}

type Handling struct {
	Mass        float32
	EngineForce float32
	BrakeForce  float32
	Drag        float32
	SteerRate   float32 // radians per second at full lock
	MaxHealth   float32
}

type VehicleDef struct {
	ModelInfo
	GameName string
	Handling Handling
	Wheels   []WheelDef
}

type PedDef struct {
	ModelInfo
	Radius float32
}

// DynamicsData holds the per-model uprooting parameters.
type DynamicsData struct {
	UprootForce float32
	Mass        float32
}

// Definitions is the pre-built lookup of everything the factories can create.
type Definitions struct {
	Objects  map[uint16]*ObjectDef
	Vehicles map[uint16]*VehicleDef
	Peds     map[uint16]*PedDef

	dynamics map[string]*DynamicsData
}

func NewDefinitions() *Definitions {
	return &Definitions{
		Objects:  make(map[uint16]*ObjectDef),
		Vehicles: make(map[uint16]*VehicleDef),
		Peds:     make(map[uint16]*PedDef),
		dynamics: make(map[string]*DynamicsData),
	}
}

func (d *Definitions) AddObject(def *ObjectDef) {
	d.Objects[def.ID] = def
}

func (d *Definitions) AddVehicle(def *VehicleDef) {
	d.Vehicles[def.ID] = def
}

func (d *Definitions) AddPed(def *PedDef) {
	d.Peds[def.ID] = def
}

// SetDynamics attaches uprooting parameters to a model name. Names compare
// case-insensitively.
func (d *Definitions) SetDynamics(modelName string, data DynamicsData) {
	d.dynamics[strings.ToLower(modelName)] = &data
}

// Dynamics returns the uprooting parameters for a model name, or nil.
func (d *Definitions) Dynamics(modelName string) *DynamicsData {
	return d.dynamics[strings.ToLower(modelName)]
}

// FindModel looks an object, vehicle or ped definition up by model name.
func (d *Definitions) FindModel(name string) (uint16, bool) {
	for id, def := range d.Objects {
		if strings.EqualFold(def.Name, name) {
			return id, true
		}
	}
	for id, def := range d.Vehicles {
		if strings.EqualFold(def.Name, name) {
			return id, true
		}
	}
	for id, def := range d.Peds {
		if strings.EqualFold(def.Name, name) {
			return id, true
		}
	}
	return 0, false
}

var doorModels = []string{
	"oddjgaragdoor",
	"bombdoor",
	"door_bombshop",
	"vheistlocdoor",
	"door2_garage",
	"ind_slidedoor",
	"bankjobdoor",
	"door_jmsgrage",
	"jamesgrge_kb",
	"door_sfehousegrge",
	"shedgaragedoor",
	"door4_garage",
	"door_col_compnd_01",
	"door_col_compnd_02",
	"door_col_compnd_03",
	"door_col_compnd_04",
	"door_col_compnd_05",
	"impex_door",
	"sub_sprayshopdoor",
	"ind_plyrwoor",
	"8ballsuburbandoor",
	"crushercrush",
	"crushertop",
}

// IsDoorModel reports whether a model name is one of the known garage door models.
func IsDoorModel(name string) bool {
	return slices.Contains(doorModels, strings.ToLower(name))
}
