package engine

// WorldAccess gives systems outside the world package the parts of the
// world they poll each frame without creating circular imports.
type WorldAccess interface {
	Registry() *Registry
	Player() *Player
	// GameTime is the simulated time in seconds since the world started.
	GameTime() float32
}
