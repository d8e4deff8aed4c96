package world

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/physics"
	"worldsim/internal/spatial"
)

type ZoneKind int

const (
	ZoneNavigation ZoneKind = iota
	ZoneInfo
	ZoneMap
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneNavigation:
		return "navigation"
	case ZoneInfo:
		return "info"
	case ZoneMap:
		return "map"
	}
	return "unknown"
}

// Zone is a named box from the placement data. Zones are read-only once
// added.
type Zone struct {
	Name  string
	Kind  ZoneKind
	Box   physics.AABB
	Level int
}

// AddZone registers a zone spanning the two corners. A later zone with the
// same name shadows the earlier one for lookups but both answer ZonesAt.
func (w *World) AddZone(name string, kind ZoneKind, corner0, corner1 rl.Vector3, level int) *Zone {
	z := &Zone{
		Name:  name,
		Kind:  kind,
		Box:   physics.NewAABBFromCorners(corner0, corner1),
		Level: level,
	}
	w.zones = append(w.zones, z)
	w.zoneNames[strings.ToLower(name)] = z
	return z
}

// Zone looks a zone up by name, ignoring case.
func (w *World) Zone(name string) (*Zone, bool) {
	z, ok := w.zoneNames[strings.ToLower(name)]
	return z, ok
}

// ZonesAt returns every zone containing p, in the order they were added.
func (w *World) ZonesAt(p rl.Vector3) []*Zone {
	var out []*Zone
	for _, z := range w.zones {
		if spatial.ContainsPoint(z.Box, p) {
			out = append(out, z)
		}
	}
	return out
}

func (w *World) Zones() []*Zone {
	return w.zones
}
