package constraint

import "github.com/akmonengine/springmass/actor"

// Solver resolves pairwise collisions between bodies
type Solver struct{}

func NewSolver() *Solver {
	return &Solver{}
}

// SolvePairCollision orders the pair by body type, so (a, b) and (b, a) reach the
// same resolver, then dispatches. Pairs without a resolver are left untouched.
func (s *Solver) SolvePairCollision(a, b actor.Body) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if a.Type() > b.Type() {
		a, b = b, a
	}

	if a.Type() != actor.BodyTypeParticle {
		return false // box-box, triangle-mesh... no response
	}
	particle, ok := a.(*actor.Particle)
	if !ok {
		return false
	}

	switch other := b.(type) {
	case *actor.Particle:
		return s.SolveParticleParticleCollision(particle, other)
	case *actor.Box:
		return s.SolveParticleBoxCollision(particle, other)
	case *actor.TriangleCollider:
		return s.SolveParticleTriangleCollision(particle, other)
	case *actor.Mesh:
		return s.SolveParticleMeshCollision(particle, other)
	default:
		return false // particle-sphere and particle-plane have no response
	}
}
