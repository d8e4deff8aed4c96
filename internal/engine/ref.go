package engine

// Ref is a non-owning reference to an object by type and handle. It
// resolves to nil once the object is destroyed, even after another object
// took over its slot.
type Ref struct {
	Type       ObjectType
	Handle     Handle
	Generation uint32
}

// RefTo builds a reference to a live object. A nil object gives the zero Ref.
func RefTo(obj Object) Ref {
	if obj == nil {
		return Ref{}
	}
	return Ref{Type: obj.Type(), Handle: obj.Handle(), Generation: obj.Generation()}
}

// Get resolves the reference against a registry, returning nil when it no
// longer points at a live object.
func (r Ref) Get(reg *Registry) Object {
	if !r.IsValid() || reg == nil {
		return nil
	}
	obj, ok := reg.Find(r.Type, r.Handle)
	if !ok || obj.Generation() != r.Generation {
		return nil
	}
	return obj
}

func (r Ref) IsValid() bool {
	return r.Handle.IsValid()
}
