package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestRefGet(t *testing.T) {
	reg := NewRegistry()
	obj := NewPickup(testObjectDef("Target"), rl.Vector3{})
	reg.Insert(obj)

	ref := RefTo(obj)

	found := ref.Get(reg)
	if found != obj {
		t.Errorf("Get() failed: expected %v, got %v", obj, found)
	}
}

func TestRefGetNil(t *testing.T) {
	reg := NewRegistry()

	if found := (Ref{}).Get(reg); found != nil {
		t.Error("Get() with zero handle should return nil")
	}

	missing := Ref{Type: TypePickup, Handle: 99999}
	if found := missing.Get(reg); found != nil {
		t.Error("Get() with non-existent handle should return nil")
	}

	dangling := Ref{Type: TypePickup, Handle: 1}
	if found := dangling.Get(nil); found != nil {
		t.Error("Get() with nil registry should return nil")
	}

	if RefTo(nil).IsValid() {
		t.Error("RefTo(nil) should be invalid")
	}
}

func TestRefAfterDestroy(t *testing.T) {
	reg := NewRegistry()
	obj := NewPickup(testObjectDef("Gone"), rl.Vector3{})
	reg.Insert(obj)
	ref := RefTo(obj)

	reg.DestroyImmediate(obj)

	if ref.Get(reg) != nil {
		t.Error("ref to a destroyed object should resolve to nil")
	}
}

func TestRefWrongType(t *testing.T) {
	reg := NewRegistry()
	obj := NewPickup(testObjectDef("Typed"), rl.Vector3{})
	reg.Insert(obj)

	ref := Ref{Type: TypeVehicle, Handle: obj.Handle()}
	if ref.Get(reg) != nil {
		t.Error("ref with the wrong type should not resolve")
	}
}

func TestRefAfterSlotReuse(t *testing.T) {
	reg := NewRegistry()
	old := NewPickup(testObjectDef("Old"), rl.Vector3{})
	reg.Insert(old)
	ref := RefTo(old)

	reg.DestroyImmediate(old)
	replacement := NewPickup(testObjectDef("New"), rl.Vector3{})
	reg.Insert(replacement)

	if replacement.Handle() != ref.Handle {
		t.Fatalf("expected the freed slot to be reused, got handle %d want %d", replacement.Handle(), ref.Handle)
	}
	if found := ref.Get(reg); found != nil {
		t.Errorf("ref to a destroyed object resolved to %v after its slot was reused", found)
	}
	if found := RefTo(replacement).Get(reg); found != replacement {
		t.Errorf("ref to the new occupant should resolve, got %v", found)
	}
}
