package constraint

import (
	"math"

	"github.com/akmonengine/springmass/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// contactBody is one side of a sphere-like contact
type contactBody interface {
	position() mgl64.Vec3
	velocity() mgl64.Vec3
	material() *actor.Material
	translate(delta mgl64.Vec3)
	addVelocity(delta mgl64.Vec3)
}

type particleContact struct {
	*actor.Particle
}

func (p particleContact) position() mgl64.Vec3 { return p.Position }
func (p particleContact) velocity() mgl64.Vec3 { return p.GetVelocity() }
func (p particleContact) material() *actor.Material { return &p.Material }
func (p particleContact) translate(delta mgl64.Vec3) { p.Translate(delta) }
func (p particleContact) addVelocity(delta mgl64.Vec3) { p.AddVelocity(delta) }

// boxContact stands for the closest point of a box, which carries no velocity
type boxContact struct {
	box   *actor.Box
	point mgl64.Vec3
}

func (b boxContact) position() mgl64.Vec3 { return b.point }
func (b boxContact) velocity() mgl64.Vec3 { return mgl64.Vec3{} }
func (b boxContact) material() *actor.Material { return &b.box.Material }
func (b boxContact) translate(delta mgl64.Vec3) { b.box.Translate(delta) }
func (b boxContact) addVelocity(delta mgl64.Vec3) {}

// resolveContact separates two spheres of combined radius radiusSum and applies
// the restitution impulse when they are closing. It returns false when they do not touch.
func resolveContact(a, b contactBody, radiusSum float64) bool {
	delta := b.position().Sub(a.position())
	distanceSq := delta.Dot(delta)
	if distanceSq >= radiusSum*radiusSum || distanceSq <= Epsilon*Epsilon {
		return false
	}

	matA, matB := a.material(), b.material()
	invMassA, invMassB := matA.GetInverseMass(), matB.GetInverseMass()
	totalInvMass := invMassA + invMassB
	if totalInvMass <= 0 {
		return true // touching, but nothing can move
	}

	distance := math.Sqrt(distanceSq)
	normal := delta.Mul(1 / distance)
	penetration := radiusSum - distance

	// ========== Positional correction ==========
	correction := normal.Mul(penetration)
	a.translate(correction.Mul(-invMassA / totalInvMass))
	b.translate(correction.Mul(invMassB / totalInvMass))

	// ========== Restitution impulse ==========
	velocityAlongNormal := b.velocity().Sub(a.velocity()).Dot(normal)
	if velocityAlongNormal > 0 {
		return true // already separating
	}

	restitution := ComputeRestitution(matA, matB)
	if math.Abs(velocityAlongNormal) < RestingSpeed {
		restitution = 0
	}

	j := -(1 + restitution) * velocityAlongNormal / totalInvMass
	impulse := normal.Mul(j)
	a.addVelocity(impulse.Mul(-invMassA))
	b.addVelocity(impulse.Mul(invMassB))

	return true
}

// SolveParticleParticleCollision resolves two overlapping particles.
// Particles excluded from self collision, and pairs of triangle corners, are skipped.
func (s *Solver) SolveParticleParticleCollision(a, b *actor.Particle) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if a.ExcludeSelfCollision || b.ExcludeSelfCollision {
		return false
	}
	// the triangle surface keeps its own corners apart
	if a.AttachedToTriangle && b.AttachedToTriangle {
		return false
	}

	return resolveContact(particleContact{a}, particleContact{b}, a.Radius+b.Radius)
}

// SolveParticleBoxCollision resolves a particle against the closest point of an oriented box
func (s *Solver) SolveParticleBoxCollision(p *actor.Particle, box *actor.Box) bool {
	if p == nil || box == nil {
		return false
	}

	closest := box.GetOBB().ClosestPoint(p.Position)

	return resolveContact(particleContact{p}, boxContact{box: box, point: closest}, p.Radius)
}

// SolveParticleTriangleCollision pushes a particle out of a triangle along the plane normal.
// Only the position is corrected: the triangle corners answer through their own constraints.
func (s *Solver) SolveParticleTriangleCollision(p *actor.Particle, t *actor.TriangleCollider) bool {
	if p == nil || t == nil || t.HasVertex(p) {
		return false
	}

	vertices, ok := t.Vertices()
	if !ok {
		return false
	}
	normal, ok := t.Normal()
	if !ok {
		return false
	}

	distance := p.Position.Sub(vertices[0]).Dot(normal)
	if math.Abs(distance) >= p.Radius || math.Abs(distance) < Epsilon {
		return false
	}

	projected := p.Position.Sub(normal.Mul(distance))
	u, v, w, ok := t.Barycentric(projected)
	if !ok || u < 0 || v < 0 || w < 0 {
		return false
	}

	penetration := p.Radius - math.Abs(distance)
	if penetration <= Epsilon {
		return false
	}

	// push back to the side the particle comes from
	p.Translate(normal.Mul(math.Copysign(penetration, distance)))

	return true
}

// SolveParticleMeshCollision runs the triangle test against every triangle of the mesh
func (s *Solver) SolveParticleMeshCollision(p *actor.Particle, m *actor.Mesh) bool {
	if p == nil || m == nil {
		return false
	}

	collided := false
	for _, t := range m.Triangles {
		if s.SolveParticleTriangleCollision(p, t) {
			collided = true
		}
	}

	return collided
}
