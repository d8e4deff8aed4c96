package spatial

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"worldsim/internal/engine"
	"worldsim/internal/physics"
)

// ErrRadiusScanUnsupported is returned by RadiusScan. Area damage is not
// modelled; callers must not fall back to an approximation.
var ErrRadiusScanUnsupported = errors.New("spatial: radius scan is not implemented")

const (
	DefaultProbeTop    = 100
	DefaultProbeBottom = -100
)

// DeliverFunc hands a damage event to its target.
type DeliverFunc func(obj engine.Object, info engine.DamageInfo)

// Service answers ray based queries against the physics world.
type Service struct {
	rays        engine.RayCaster
	deliver     DeliverFunc
	probeTop    float32
	probeBottom float32
	log         zerolog.Logger
}

func NewService(rays engine.RayCaster, log zerolog.Logger) *Service {
	return &Service{
		rays:        rays,
		deliver:     engine.Object.TakeDamage,
		probeTop:    DefaultProbeTop,
		probeBottom: DefaultProbeBottom,
		log:         log.With().Str("component", "spatial").Logger(),
	}
}

// SetDeliver routes hit scan damage through fn instead of straight to the
// target.
func (s *Service) SetDeliver(fn DeliverFunc) {
	if fn == nil {
		fn = engine.Object.TakeDamage
	}
	s.deliver = fn
}

// SetGroundProbe changes the vertical range GroundHeight searches.
func (s *Service) SetGroundProbe(top, bottom float32) {
	s.probeTop = top
	s.probeBottom = bottom
}

// GroundHeight casts straight down through p's x/y and returns the highest
// surface point, skipping the ignored bodies. If nothing is hit p comes
// back unchanged.
func (s *Service) GroundHeight(p rl.Vector3, ignore ...*physics.Body) rl.Vector3 {
	from := rl.Vector3{X: p.X, Y: p.Y, Z: s.probeTop}
	to := rl.Vector3{X: p.X, Y: p.Y, Z: s.probeBottom}
	hit, ok := s.rays.RayTest(from, to, ignore...)
	if !ok {
		return p
	}
	return hit.Point
}

// HitScan delivers bullet damage to the first object between origin and
// end. It returns the object that was hit, if any.
func (s *Service) HitScan(origin, end rl.Vector3, damage float32) (engine.Object, bool) {
	hit, ok := s.rays.RayTest(origin, end)
	if !ok {
		return nil, false
	}
	obj, ok := engine.OwnerOf(hit.Body)
	if !ok {
		s.log.Debug().Msg("hit scan struck a body without an owner")
		return nil, false
	}

	s.deliver(obj, engine.DamageInfo{
		Location: hit.Point,
		Source:   origin,
		Amount:   damage,
		Cause:    engine.DamageBullet,
	})
	s.log.Debug().
		Str("target", obj.Type().String()).
		Uint32("handle", uint32(obj.Handle())).
		Float32("damage", damage).
		Msg("hit scan")
	return obj, true
}

// RadiusScan would damage everything within radius of center. It is a
// known gap and always fails.
func (s *Service) RadiusScan(center rl.Vector3, radius, damage float32) error {
	return ErrRadiusScanUnsupported
}
