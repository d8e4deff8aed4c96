package physics

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Spatial grid cell size - bodies within same or neighboring cells are checked
const CellSize = 5.0

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(pos.X / CellSize),
		Y: int(pos.Y / CellSize),
		Z: int(pos.Z / CellSize),
	}
}

// NeedsResponseFunc decides, before a contact is solved, whether the pair
// gets a physical response at all.
type NeedsResponseFunc func(a, b *Body) bool

// ContactProcessedFunc is called for every contact point of a step once
// its impulse is known.
type ContactProcessedFunc func(cp *ContactPoint, a, b *Body) bool

// TickFunc is called once per fixed substep after integration and contact
// processing.
type TickFunc func(w *World, timeStep float32)

type World struct {
	Gravity       rl.Vector3
	FixedTimeStep float32
	MaxSubSteps   int

	Dynamics   []*Body // integrated bodies
	Kinematics []*Body // owner-driven bodies (characters)
	Statics    []*Body // never move (placed scenery)

	NeedsResponse    NeedsResponseFunc
	ContactProcessed ContactProcessedFunc
	Tick             TickFunc

	grid        map[CellKey][]*Body
	contacts    []contact
	accumulator float32
}

func NewWorld() *World {
	return &World{
		Gravity:       rl.Vector3{X: 0, Y: 0, Z: -9.81},
		FixedTimeStep: 1.0 / 60.0,
		MaxSubSteps:   4,
		Dynamics:      make([]*Body, 0),
		Kinematics:    make([]*Body, 0),
		Statics:       make([]*Body, 0),
		grid:          make(map[CellKey][]*Body),
	}
}

// DefaultNeedsResponse is the policy used when no hook is installed.
func (w *World) DefaultNeedsResponse(a, b *Body) bool {
	return !a.NoContactResponse && !b.NoContactResponse
}

func (w *World) AddBody(b *Body) {
	b.world = w
	switch b.Kind {
	case BodyDynamic:
		w.Dynamics = append(w.Dynamics, b)
	case BodyKinematic:
		w.Kinematics = append(w.Kinematics, b)
	default:
		w.Statics = append(w.Statics, b)
	}
}

func (w *World) RemoveBody(b *Body) {
	if b.world != w {
		return
	}
	b.world = nil
	w.Dynamics = removeBody(w.Dynamics, b)
	w.Kinematics = removeBody(w.Kinematics, b)
	w.Statics = removeBody(w.Statics, b)
}

func removeBody(list []*Body, b *Body) []*Body {
	for i, other := range list {
		if other == b {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// BodyCount returns the number of registered bodies
func (w *World) BodyCount() int {
	return len(w.Dynamics) + len(w.Kinematics) + len(w.Statics)
}

// Step advances the simulation by dt using fixed substeps and returns how
// many substeps ran. Leftover time carries over to the next call.
func (w *World) Step(dt float32) int {
	if dt <= 0 || w.FixedTimeStep <= 0 {
		return 0
	}
	w.accumulator += dt
	steps := int(w.accumulator / w.FixedTimeStep)
	w.accumulator -= float32(steps) * w.FixedTimeStep
	if steps > w.MaxSubSteps {
		steps = w.MaxSubSteps
	}
	for i := 0; i < steps; i++ {
		w.singleStep(w.FixedTimeStep)
	}
	return steps
}

func (w *World) singleStep(dt float32) {
	// 1. Integrate forces and velocities
	for _, b := range w.Dynamics {
		accel := rl.Vector3Scale(b.force, b.invMass)
		if b.UseGravity {
			accel = rl.Vector3Add(accel, w.Gravity)
		}
		b.LinearVelocity = rl.Vector3Add(b.LinearVelocity, rl.Vector3Scale(accel, dt))
		b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(b.LinearVelocity, dt))
		b.force = rl.Vector3{}
	}

	// 2. Broad + narrow phase
	w.contacts = w.contacts[:0]
	w.detectContacts()

	// 3. Every veto for this step is decided before anything is solved
	for i := range w.contacts {
		c := &w.contacts[i]
		if w.NeedsResponse != nil {
			c.respond = w.NeedsResponse(c.a, c.b)
		} else {
			c.respond = w.DefaultNeedsResponse(c.a, c.b)
		}
	}

	// 4. Solve impulses against pre-response velocities
	for i := range w.contacts {
		if w.contacts[i].respond {
			w.contacts[i].solve()
		}
	}

	// 5. Report finalized contacts. Bodies still carry the velocities the
	// veto saw; impulses land in step 6.
	if w.ContactProcessed != nil {
		for i := range w.contacts {
			c := &w.contacts[i]
			w.ContactProcessed(&c.point, c.a, c.b)
		}
	}

	// 6. Apply responses
	for i := range w.contacts {
		w.contacts[i].apply()
	}

	// 7. Per-step hook
	if w.Tick != nil {
		w.Tick(w, dt)
	}
}

// rebuildGrid clears and repopulates the spatial hash grid
func (w *World) rebuildGrid() {
	for k := range w.grid {
		delete(w.grid, k)
	}
	for _, b := range w.Dynamics {
		cell := posToCell(b.Center())
		w.grid[cell] = append(w.grid[cell], b)
	}
}

// getNeighborBodies returns all dynamic bodies in same cell and 26 neighboring cells
func (w *World) getNeighborBodies(b *Body) []*Body {
	cell := posToCell(b.Center())
	var neighbors []*Body
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
				neighbors = append(neighbors, w.grid[key]...)
			}
		}
	}
	return neighbors
}

func (w *World) detectContacts() {
	w.rebuildGrid()

	// Dynamic vs dynamic through the grid
	checked := make(map[[2]uintptr]bool)
	for _, b := range w.Dynamics {
		for _, other := range w.getNeighborBodies(b) {
			if b == other {
				continue
			}
			// Create consistent pair key using pointer addresses (smaller first)
			ptrA, ptrB := uintptr(unsafe.Pointer(b)), uintptr(unsafe.Pointer(other))
			if ptrA > ptrB {
				ptrA, ptrB = ptrB, ptrA
			}
			key := [2]uintptr{ptrA, ptrB}
			if checked[key] {
				continue
			}
			checked[key] = true
			w.addContact(b, other)
		}
	}

	// Dynamic vs kinematic and static
	for _, b := range w.Dynamics {
		for _, k := range w.Kinematics {
			w.addContact(b, k)
		}
		for _, s := range w.Statics {
			w.addContact(b, s)
		}
	}
}

func (w *World) addContact(a, b *Body) {
	if !a.Bounds().Intersects(b.Bounds()) {
		return
	}
	cp, ok := collide(a, b)
	if !ok {
		return
	}
	w.contacts = append(w.contacts, contact{a: a, b: b, point: cp})
}
