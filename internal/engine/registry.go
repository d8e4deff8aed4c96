package engine

// Registry owns every live world object, one pool per variant, and the
// queue of objects waiting for deferred destruction.
type Registry struct {
	instances  Pool[*Instance]
	vehicles   Pool[*Vehicle]
	characters Pool[*Character]
	pickups    Pool[*Pickup]
	cutscenes  Pool[*CutsceneObject]

	queue []Object

	// Destroyed fires after an object left its pool.
	Destroyed EventWithArg[Object]
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Insert places obj in the pool for its variant and returns its handle.
// Inserting an object that is already live returns its current handle.
func (r *Registry) Insert(obj Object) Handle {
	if r.Contains(obj) {
		return obj.Handle()
	}
	return obj.addTo(r)
}

func (r *Registry) Instances() *Pool[*Instance] {
	return &r.instances
}

func (r *Registry) Vehicles() *Pool[*Vehicle] {
	return &r.vehicles
}

func (r *Registry) Characters() *Pool[*Character] {
	return &r.characters
}

func (r *Registry) Pickups() *Pool[*Pickup] {
	return &r.pickups
}

func (r *Registry) Cutscenes() *Pool[*CutsceneObject] {
	return &r.cutscenes
}

// Find resolves a typed handle. Unknown or destroyed handles return false.
func (r *Registry) Find(t ObjectType, h Handle) (Object, bool) {
	var obj Object
	var ok bool
	switch t {
	case TypeInstance:
		obj, ok = r.instances.Find(h)
	case TypeVehicle:
		obj, ok = r.vehicles.Find(h)
	case TypeCharacter:
		obj, ok = r.characters.Find(h)
	case TypePickup:
		obj, ok = r.pickups.Find(h)
	case TypeCutscene:
		obj, ok = r.cutscenes.Find(h)
	}
	if !ok {
		return nil, false
	}
	return obj, true
}

// Contains reports whether obj is currently live in this registry.
func (r *Registry) Contains(obj Object) bool {
	if obj == nil || !obj.Handle().IsValid() {
		return false
	}
	live, ok := r.Find(obj.Type(), obj.Handle())
	return ok && live == obj
}

// Len returns the number of live objects across all pools.
func (r *Registry) Len() int {
	return r.instances.Len() + r.vehicles.Len() + r.characters.Len() +
		r.pickups.Len() + r.cutscenes.Len()
}

// Each visits every live object, pool by pool.
func (r *Registry) Each(fn func(Object)) {
	r.instances.Each(func(o *Instance) { fn(o) })
	r.vehicles.Each(func(o *Vehicle) { fn(o) })
	r.characters.Each(func(o *Character) { fn(o) })
	r.pickups.Each(func(o *Pickup) { fn(o) })
	r.cutscenes.Each(func(o *CutsceneObject) { fn(o) })
}

// DestroyImmediate removes obj from its pool right away and fires
// Destroyed. Unknown or already destroyed objects are ignored.
func (r *Registry) DestroyImmediate(obj Object) bool {
	if obj == nil || !obj.removeFrom(r) {
		return false
	}
	r.Destroyed.Invoke(obj)
	return true
}

// DestroyQueued schedules obj for destruction at the next DrainQueue. The
// object stays live, and visible to iteration, until then.
func (r *Registry) DestroyQueued(obj Object) {
	if obj == nil {
		return
	}
	r.queue = append(r.queue, obj)
}

// QueueLen returns the number of objects waiting for destruction.
func (r *Registry) QueueLen() int {
	return len(r.queue)
}

// DrainQueue destroys every queued object in FIFO order and returns how
// many were actually removed. Objects queued by a Destroyed listener are
// handled in the same drain.
func (r *Registry) DrainQueue() int {
	destroyed := 0
	for i := 0; i < len(r.queue); i++ {
		if r.DestroyImmediate(r.queue[i]) {
			destroyed++
		}
	}
	r.queue = r.queue[:0]
	return destroyed
}
