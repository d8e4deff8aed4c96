// Stress test timing world updates with many vehicles crashing through a
// field of uprootable lampposts
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"worldsim/internal/config"
	"worldsim/internal/engine"
	"worldsim/internal/physics"
	"worldsim/internal/world"
)

const (
	modelGround uint16 = 1
	modelLamp   uint16 = 2
	modelCar    uint16 = 100
)

func main() {
	cfg := config.Default()

	// Test various object counts
	testCounts := []int{10, 50, 100, 250, 500, 1000}

	for _, count := range testCounts {
		if err := testWorld(cfg, count); err != nil {
			fmt.Fprintf(os.Stderr, "%5d vehicles: %v\n", count, err)
			os.Exit(1)
		}
	}
}

func definitions() *engine.Definitions {
	defs := engine.NewDefinitions()
	defs.AddObject(&engine.ObjectDef{ModelInfo: engine.ModelInfo{
		ID:   modelGround,
		Name: "ground",
		Collision: &engine.CollisionModel{Bounds: physics.AABB{
			Min: rl.Vector3{X: -500, Y: -500, Z: -1},
			Max: rl.Vector3{X: 500, Y: 500},
		}},
	}})
	defs.AddObject(&engine.ObjectDef{ModelInfo: engine.ModelInfo{
		ID:   modelLamp,
		Name: "lamppost",
		Collision: &engine.CollisionModel{Bounds: physics.AABB{
			Min: rl.Vector3{X: -0.2, Y: -0.2},
			Max: rl.Vector3{X: 0.2, Y: 0.2, Z: 5},
		}},
	}})
	defs.SetDynamics("lamppost", engine.DynamicsData{UprootForce: 400, Mass: 40})
	defs.AddVehicle(&engine.VehicleDef{
		ModelInfo: engine.ModelInfo{
			ID:   modelCar,
			Name: "sentinel",
			Collision: &engine.CollisionModel{Bounds: physics.AABB{
				Min: rl.Vector3{X: -1, Y: -2, Z: -0.5},
				Max: rl.Vector3{X: 1, Y: 2, Z: 0.8},
			}},
		},
		Handling: engine.Handling{Mass: 1200, EngineForce: 9000, Drag: 0.4, SteerRate: 1, MaxHealth: 1000},
		Wheels:   wheels(),
	})
	return defs
}

func wheels() []engine.WheelDef {
	var out []engine.WheelDef
	for _, x := range []float32{-0.8, 0.8} {
		for _, y := range []float32{-1.3, 1.3} {
			out = append(out, engine.WheelDef{
				Offset:         rl.Vector3{X: x, Y: y, Z: -0.3},
				Radius:         0.35,
				SuspensionRest: 0.4,
				Stiffness:      30000,
				Damping:        2000,
			})
		}
	}
	return out
}

func testWorld(cfg config.Config, count int) error {
	w, err := world.New(cfg, definitions(), zerolog.Nop())
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(42)) // Consistent results

	if _, err := w.CreateInstance(modelGround, rl.Vector3{}, rl.QuaternionIdentity()); err != nil {
		return err
	}

	// Spawn area grows with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/5.0

	lamps := count / 2
	for i := 0; i < lamps; i++ {
		pos := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
		}
		if _, err := w.CreateInstance(modelLamp, pos, rl.QuaternionIdentity()); err != nil {
			return err
		}
	}
	for i := 0; i < count; i++ {
		pos := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: 1 + rng.Float32()*3,
		}
		heading := rng.Float32() * 2 * rl.Pi
		v, err := w.CreateVehicle(modelCar, pos, rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, heading))
		if err != nil {
			return err
		}
		v.Throttle = 0.5 + rng.Float32()*0.5
		v.Steer = rng.Float32()*2 - 1
	}

	var damage int
	w.DamageDelivered.AddListener(func(world.Damage) { damage++ })

	dt := w.Physics().FixedTimeStep

	// Warm up
	for i := 0; i < 10; i++ {
		w.Update(dt)
	}

	start := time.Now()
	const frames = 300
	for i := 0; i < frames; i++ {
		w.Update(dt)
	}
	frameTime := time.Since(start) / frames

	uprooted := 0
	w.Registry().Instances().Each(func(inst *engine.Instance) {
		if inst.Uprooted() {
			uprooted++
		}
	})

	fmt.Printf("%5d vehicles %4d lamps: %8v/frame | %5d damage events | %4d uprooted | %d live\n",
		count, lamps, frameTime.Round(time.Microsecond), damage, uprooted, w.Registry().Len())
	return nil
}
