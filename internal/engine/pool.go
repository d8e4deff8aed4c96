package engine

// Handle identifies a live object within its typed pool. It is the slot
// index plus one, so the zero value means "no object".
type Handle uint32

func (h Handle) IsValid() bool {
	return h != 0
}

// Pool stores one object variant in slots. Freed slots are reused last in,
// first out, so a stale handle may later resolve to a newer object. Each
// slot counts how often it was freed; a Ref carries that generation and
// stops resolving once the slot has moved on.
type Pool[T interface {
	comparable
	Object
}] struct {
	slots []T
	live  []bool
	gens  []uint32
	free  []int
	count int
}

func (p *Pool[T]) insert(obj T) Handle {
	var idx int
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[idx] = obj
		p.live[idx] = true
	} else {
		idx = len(p.slots)
		p.slots = append(p.slots, obj)
		p.live = append(p.live, true)
		p.gens = append(p.gens, 0)
	}
	p.count++
	h := Handle(idx + 1)
	obj.setHandle(h, p.gens[idx])
	return h
}

func (p *Pool[T]) remove(obj T) bool {
	idx := int(obj.Handle()) - 1
	if idx < 0 || idx >= len(p.slots) || !p.live[idx] || p.slots[idx] != obj {
		return false
	}
	var zero T
	p.slots[idx] = zero
	p.live[idx] = false
	p.gens[idx]++
	p.free = append(p.free, idx)
	p.count--
	return true
}

// Find resolves a handle to its live object.
func (p *Pool[T]) Find(h Handle) (T, bool) {
	idx := int(h) - 1
	if idx < 0 || idx >= len(p.slots) || !p.live[idx] {
		var zero T
		return zero, false
	}
	return p.slots[idx], true
}

// Each calls fn for every live object in slot order. Objects destroyed
// during the walk are skipped; objects inserted during it may not be visited.
func (p *Pool[T]) Each(fn func(T)) {
	n := len(p.slots)
	for i := 0; i < n && i < len(p.slots); i++ {
		if p.live[i] {
			fn(p.slots[i])
		}
	}
}

// Len returns the number of live objects.
func (p *Pool[T]) Len() int {
	return p.count
}
