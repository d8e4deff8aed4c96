package garage

import "worldsim/internal/engine"

type predicate func(g *Garage) bool

type trigger func(g *Garage)

// policy holds the rules for one garage kind. Missing predicates are false
// and missing triggers do nothing, so a kind without rules never moves on
// its own.
type policy struct {
	open        predicate
	close       predicate
	stopOpening predicate
	stopClosing predicate

	startOpening trigger
	startClosing trigger
	opened       trigger
	closed       trigger
}

func (p policy) shouldOpen(g *Garage) bool        { return eval(p.open, g) }
func (p policy) shouldClose(g *Garage) bool       { return eval(p.close, g) }
func (p policy) shouldStopOpening(g *Garage) bool { return eval(p.stopOpening, g) }
func (p policy) shouldStopClosing(g *Garage) bool { return eval(p.stopClosing, g) }

func (p policy) onStartOpening(g *Garage) { fire(p.startOpening, g) }
func (p policy) onStartClosing(g *Garage) { fire(p.startClosing, g) }
func (p policy) onOpened(g *Garage)       { fire(p.opened, g) }
func (p policy) onClosed(g *Garage)       { fire(p.closed, g) }

func eval(fn predicate, g *Garage) bool {
	return fn != nil && fn(g)
}

func fire(fn trigger, g *Garage) {
	if fn != nil {
		fn(g)
	}
}

var (
	missionPolicy = policy{
		open:         targetArriving,
		close:        targetDelivered,
		startClosing: disableInput,
		closed:       enableInput,
	}

	bombShopPolicy = policy{
		open:         cooldownElapsed,
		close:        vehicleParkedInside,
		startOpening: releasePlayerVehicle,
		startClosing: holdPlayerVehicle,
		closed:       armCooldown(func(c Config) float32 { return c.BombShopCooldown }),
	}

	resprayPolicy = policy{
		open:         cooldownElapsed,
		close:        resprayReady,
		startOpening: startRespray,
		startClosing: holdPlayerVehicle,
		closed:       finishRespray,
	}

	collectCarsPolicy = policy{
		close:        nonMissionVehicleInside,
		startOpening: enableInput,
		startClosing: disableInput,
	}

	hideoutPolicy = policy{
		open:        playerNear,
		close:       playerAway,
		stopOpening: playerAway,
		stopClosing: playerNear,
	}
)

var policies = map[Kind]policy{
	Mission:      missionPolicy,
	BombShop1:    bombShopPolicy,
	BombShop2:    bombShopPolicy,
	BombShop3:    bombShopPolicy,
	Respray:      resprayPolicy,
	CollectCars1: collectCarsPolicy,
	CollectCars2: collectCarsPolicy,
	Hideout1:     hideoutPolicy,
	Hideout2:     hideoutPolicy,
	Hideout3:     hideoutPolicy,
}

// targetArriving: the player drives the mission target up to the door.
func targetArriving(g *Garage) bool {
	c, v := g.player()
	if v == nil {
		return false
	}
	target := g.Target()
	return target != nil && target == engine.Object(v) &&
		g.DistanceTo(c.Position()) < g.cfg.MissionOpenDistance
}

// targetDelivered: the target is parked inside and the player walked out.
func targetDelivered(g *Garage) bool {
	c, v := g.player()
	if c == nil || v != nil {
		return false
	}
	target := g.Target()
	return target != nil &&
		!g.IsObjectInside(c) &&
		g.IsObjectInside(target) &&
		g.DistanceTo(c.Position()) >= g.cfg.ClearDistance
}

func cooldownElapsed(g *Garage) bool {
	return g.timer < g.world.GameTime()
}

func armCooldown(delay func(Config) float32) trigger {
	return func(g *Garage) {
		g.timer = g.world.GameTime() + delay(g.cfg)
	}
}

func vehicleParkedInside(g *Garage) bool {
	_, v := g.player()
	return v != nil && g.IsObjectInside(v) && v.IsStopped()
}

// resprayReady also re-arms the shop once the player has driven away from
// a finished respray.
func resprayReady(g *Garage) bool {
	_, v := g.player()
	if v == nil {
		return false
	}
	inside := g.IsObjectInside(v)
	if inside && v.IsStopped() && !g.resprayDone {
		return true
	}
	if !inside && g.resprayDone && g.DistanceTo(v.Position()) >= g.cfg.ClearDistance {
		g.resprayDone = false
	}
	return false
}

func startRespray(g *Garage) {
	releasePlayerVehicle(g)
	g.resprayDone = true
}

func finishRespray(g *Garage) {
	g.timer = g.world.GameTime() + g.cfg.ResprayCooldown
	if _, v := g.player(); v != nil {
		v.Health = g.cfg.ResprayHealth
	}
}

func nonMissionVehicleInside(g *Garage) bool {
	_, v := g.player()
	return v != nil && g.IsObjectInside(v) && v.Lifetime() != engine.LifetimeMission
}

func playerNear(g *Garage) bool {
	c, v := g.player()
	if c == nil {
		return false
	}
	d := g.DistanceTo(c.Position())
	if v == nil {
		return d < g.cfg.HideoutFootDistance
	}
	return d < g.cfg.HideoutVehicleDistance
}

func playerAway(g *Garage) bool {
	c, v := g.player()
	if c == nil {
		return false
	}
	d := g.DistanceTo(c.Position())
	if v == nil {
		return d >= g.cfg.HideoutFootDistance
	}
	return d >= g.cfg.HideoutVehicleDistance
}

func enableInput(g *Garage) {
	g.setInput(true)
}

func disableInput(g *Garage) {
	g.setInput(false)
}

func releasePlayerVehicle(g *Garage) {
	g.setInput(true)
	if _, v := g.player(); v != nil {
		v.SetHandbrake(false)
	}
}

func holdPlayerVehicle(g *Garage) {
	g.setInput(false)
	if _, v := g.player(); v != nil {
		v.SetHandbrake(true)
	}
}
