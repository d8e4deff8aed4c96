package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/garage"
)

func (w *World) garageConfig() garage.Config {
	c := w.cfg.Garage
	return garage.Config{
		DoorSpeed:              c.DoorSpeed,
		DoorSearchRadius:       c.DoorSearchRadius,
		HideoutFootDistance:    c.HideoutFootDistance,
		HideoutVehicleDistance: c.HideoutVehicleDistance,
		MissionOpenDistance:    c.MissionOpenDistance,
		ClearDistance:          c.ClearDistance,
		BombShopCooldown:       c.BombShopCooldown,
		ResprayCooldown:        c.ResprayCooldown,
		ResprayHealth:          c.ResprayHealth,
	}
}

// CreateGarage adds a garage between the two corners. Doors are searched
// among the instances already placed, so call this after loading scenery.
func (w *World) CreateGarage(corner0, corner1 rl.Vector3, kind garage.Kind) (*garage.Garage, error) {
	g, err := garage.New(w, len(w.garages), corner0, corner1, kind, w.garageConfig(), w.root)
	if err != nil {
		w.log.Warn().Err(err).Int("kind", int(kind)).Msg("garage not created")
		return nil, err
	}
	w.garages = append(w.garages, g)
	return g, nil
}

// Garage returns the garage with the given index, as scripts refer to them.
func (w *World) Garage(index int) (*garage.Garage, bool) {
	if index < 0 || index >= len(w.garages) {
		return nil, false
	}
	return w.garages[index], true
}

func (w *World) Garages() []*garage.Garage {
	return w.garages
}
