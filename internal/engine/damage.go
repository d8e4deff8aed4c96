package engine

import rl "github.com/gen2brain/raylib-go/raylib"

type DamageCause int

const (
	DamageBullet DamageCause = iota
	DamagePhysics
	DamageExplosion
	DamageMelee
	DamageFire
)

func (c DamageCause) String() string {
	switch c {
	case DamageBullet:
		return "bullet"
	case DamagePhysics:
		return "physics"
	case DamageExplosion:
		return "explosion"
	case DamageMelee:
		return "melee"
	case DamageFire:
		return "fire"
	}
	return "unknown"
}

// DamageInfo is handed to Object.TakeDamage. Location is where the hit
// landed in world space, Source where it came from.
type DamageInfo struct {
	Location rl.Vector3
	Source   rl.Vector3
	Amount   float32
	Cause    DamageCause
}
