package constraint

import (
	"math"

	"github.com/akmonengine/springmass/actor"
)

// Spring links two particles of an arena with a damped Hooke's law.
// The spring only refers to the particles, the arena owns them.
type Spring struct {
	Stiffness  float64
	Damping    float64
	RestLength float64

	arena       *actor.ParticleArena
	a, b        actor.Handle
	autoDamping bool
}

// NewSpring creates a critically damped spring whose rest length is taken at bind time
func NewSpring(stiffness float64) *Spring {
	return &Spring{Stiffness: stiffness, Damping: -1}
}

// NewSpringWith creates a spring with explicit parameters.
// A negative damping asks for critical damping and a non-positive rest length
// for the separation at bind time.
func NewSpringWith(stiffness, damping, restLength float64) *Spring {
	return &Spring{Stiffness: stiffness, Damping: damping, RestLength: restLength}
}

// CriticalDamping returns 2*sqrt(k*mu), mu being the reduced mass of the pair
func CriticalDamping(stiffness, massA, massB float64) float64 {
	if stiffness <= 0 || massA+massB <= 0 {
		return 0
	}

	return 2 * math.Sqrt(stiffness*(massA*massB)/(massA+massB))
}

// SetParticles binds the spring to two particles and derives the unset parameters
func (s *Spring) SetParticles(arena *actor.ParticleArena, a, b actor.Handle) {
	s.arena = arena
	s.a = a
	s.b = b

	pa, pb := s.Particles()
	if pa == nil || pb == nil {
		return
	}

	if s.RestLength <= 0 {
		s.RestLength = pb.Position.Sub(pa.Position).Len()
	}
	if s.Damping < 0 {
		s.autoDamping = true
		s.Damping = CriticalDamping(s.Stiffness, pa.Material.GetMass(), pb.Material.GetMass())
	}
}

// Particles resolves both ends, nil for an end that no longer exists
func (s *Spring) Particles() (*actor.Particle, *actor.Particle) {
	return s.arena.Get(s.a), s.arena.Get(s.b)
}

func (s *Spring) Handles() (actor.Handle, actor.Handle) {
	return s.a, s.b
}

// SetStiffness changes k. A critically damped spring follows with its damping.
func (s *Spring) SetStiffness(stiffness float64) {
	s.Stiffness = stiffness
	if !s.autoDamping {
		return
	}

	if pa, pb := s.Particles(); pa != nil && pb != nil {
		s.Damping = CriticalDamping(s.Stiffness, pa.Material.GetMass(), pb.Material.GetMass())
	}
}

// SetDamping changes b, a negative value switching back to critical damping
func (s *Spring) SetDamping(damping float64) {
	if damping >= 0 {
		s.autoDamping = false
		s.Damping = damping
		return
	}

	s.autoDamping = true
	if pa, pb := s.Particles(); pa != nil && pb != nil {
		s.Damping = CriticalDamping(s.Stiffness, pa.Material.GetMass(), pb.Material.GetMass())
	}
}

// ApplyForce computes F = -k*x - b*v along the spring and hands F*dt to both ends
// as opposite impulses.
func (s *Spring) ApplyForce(dt float64) {
	if dt <= 0 {
		return
	}

	pa, pb := s.Particles()
	if pa == nil || pb == nil {
		return
	}

	delta := floorSmall(pb.Position.Sub(pa.Position))
	// implicit velocities, in distance per step
	relativeVelocity := floorSmall(pb.GetVelocity().Sub(pa.GetVelocity()))

	length := delta.Len()
	if length < Epsilon || math.IsNaN(length) || math.IsInf(length, 0) {
		return // coincident or diverged ends, no direction
	}
	direction := delta.Mul(1 / length)

	x := sanitize(length - s.RestLength)
	v := sanitize(relativeVelocity.Dot(direction))

	force := -s.Stiffness*x - s.Damping*v
	if math.IsNaN(force) || math.IsInf(force, 0) {
		return
	}

	impulse := direction.Mul(force * dt)
	pa.ApplyImpulse(impulse.Mul(-1))
	pb.ApplyImpulse(impulse)
}
