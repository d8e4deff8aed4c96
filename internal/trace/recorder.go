package trace

import (
	"sync"

	"worldsim/internal/engine"
	"worldsim/internal/garage"
	"worldsim/internal/world"
)

const (
	EventDamage    = "damage"
	EventGarage    = "garage"
	EventDestroyed = "destroyed"
)

// Entry is one line of a trace.
type Entry struct {
	Time   float32 `json:"t"`
	Event  string  `json:"event"`
	Object string  `json:"object,omitempty"`
	Handle uint32  `json:"handle,omitempty"`
	Cause  string  `json:"cause,omitempty"`
	Amount float32 `json:"amount,omitempty"`
	Garage *int    `json:"garage,omitempty"` // set on garage events only
	Kind   string  `json:"kind,omitempty"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
}

// Recorder writes the notifications a world publishes to a trace. Write
// errors do not interrupt the simulation; the first one is kept for Err.
type Recorder struct {
	out   *JSONLZstdWriter
	world *world.World

	mu      sync.Mutex
	err     error
	written int
}

// Attach subscribes a recorder to w. Garages created after Attach are not
// recorded.
func Attach(w *world.World, out *JSONLZstdWriter) *Recorder {
	r := &Recorder{out: out, world: w}

	w.DamageDelivered.AddListener(r.onDamage)
	w.Registry().Destroyed.AddListener(r.onDestroyed)
	for _, g := range w.Garages() {
		g.StateChanged.AddListener(r.onTransition)
	}
	return r
}

func (r *Recorder) onDamage(d world.Damage) {
	r.write(Entry{
		Event:  EventDamage,
		Object: d.Target.Type().String(),
		Handle: uint32(d.Target.Handle()),
		Cause:  d.Info.Cause.String(),
		Amount: d.Info.Amount,
	})
}

func (r *Recorder) onDestroyed(obj engine.Object) {
	r.write(Entry{
		Event:  EventDestroyed,
		Object: obj.Type().String(),
		Handle: uint32(obj.Handle()),
	})
}

func (r *Recorder) onTransition(t garage.Transition) {
	id := t.Garage.ID
	r.write(Entry{
		Event:  EventGarage,
		Garage: &id,
		Kind:   t.Garage.Kind.String(),
		From:   t.From.String(),
		To:     t.To.String(),
	})
}

func (r *Recorder) write(e Entry) {
	e.Time = r.world.GameTime()
	err := r.out.Write(e)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.written++
}

// Written returns how many entries made it to the writer.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
