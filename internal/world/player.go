package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"worldsim/internal/engine"
)

// exitOffset is how far to the side of a vehicle the player steps out.
const exitOffset = 2

// CreatePlayer spawns the player's character standing on the ground below
// pos. A world has one player; calling it again replaces the controller but
// leaves the old character in the world.
func (w *World) CreatePlayer(model uint16, pos rl.Vector3) (*engine.Player, error) {
	c, err := w.CreatePedestrian(model, w.spatial.GroundHeight(pos))
	if err != nil {
		return nil, err
	}
	w.player = engine.NewPlayer(c)
	return w.player, nil
}

// WarpPlayer moves the player to the ground below pos, pulling them out of
// any vehicle first.
func (w *World) WarpPlayer(pos rl.Vector3) {
	c := w.playerCharacter()
	if c == nil {
		return
	}
	ground := w.spatial.GroundHeight(pos, c.Body())
	if c.CurrentVehicle() != nil {
		w.unseat(c, ground)
		return
	}
	c.SetPosition(ground)
}

// PutPlayerInVehicle seats the player in v. The character's body leaves the
// physics world until the player gets out, so rays and contacts only meet
// the vehicle.
func (w *World) PutPlayerInVehicle(v *engine.Vehicle) bool {
	c := w.playerCharacter()
	if c == nil || v == nil || !w.reg.Contains(v) {
		return false
	}
	c.EnterVehicle(v)
	if b := c.Body(); b != nil {
		w.physics.RemoveBody(b)
	}
	return true
}

// TakePlayerOutOfVehicle puts the player on the ground beside their vehicle.
func (w *World) TakePlayerOutOfVehicle() bool {
	c := w.playerCharacter()
	if c == nil || c.CurrentVehicle() == nil {
		return false
	}
	v := c.CurrentVehicle()
	right := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, v.Rotation())
	at := rl.Vector3Add(v.Position(), rl.Vector3Scale(right, exitOffset))
	w.unseat(c, w.spatial.GroundHeight(at, c.Body(), v.Body()))
	return true
}

// unseat puts c on foot at and returns its body to the physics world.
func (w *World) unseat(c *engine.Character, at rl.Vector3) {
	c.ExitVehicle(at)
	if b := c.Body(); b != nil && b.World() == nil && w.reg.Contains(c) {
		w.physics.AddBody(b)
	}
}

func (w *World) playerCharacter() *engine.Character {
	if w.player == nil {
		return nil
	}
	return w.player.Character()
}
