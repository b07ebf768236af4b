package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is a point mass with a collision radius.
// Its velocity is implicit: the displacement since the previous step.
type Particle struct {
	Position         mgl64.Vec3
	PreviousPosition mgl64.Vec3
	InitialPosition  mgl64.Vec3
	Radius           float64

	Material Material
	Gravity  mgl64.Vec3

	// AttachedToTriangle marks a particle used as a triangle collider vertex
	AttachedToTriangle bool
	// ExcludeSelfCollision disables particle-particle collisions for this particle
	ExcludeSelfCollision bool

	accumulatedForce    mgl64.Vec3
	accumulatedVelocity mgl64.Vec3

	handle Handle
}

// NewParticle creates a particle at rest
func NewParticle(position mgl64.Vec3, radius, mass float64, movable bool) *Particle {
	return &Particle{
		Position:         position,
		PreviousPosition: position,
		InitialPosition:  position,
		Radius:           math.Abs(radius),
		Material:         NewMaterial(mass, movable),
	}
}

func (p *Particle) Type() BodyType {
	return BodyTypeParticle
}

// Handle returns the arena handle of the particle, the zero Handle if it was never registered
func (p *Particle) Handle() Handle {
	return p.handle
}

func (p *Particle) GetAABB() AABB {
	return AABB{Center: p.Position, HalfExtents: mgl64.Vec3{p.Radius, p.Radius, p.Radius}}
}

func (p *Particle) GetMaterial() *Material {
	return &p.Material
}

func (p *Particle) SetGravity(gravity mgl64.Vec3) {
	p.Gravity = gravity
}

func (p *Particle) IsMovable() bool {
	return p.Material.IsMovable()
}

// GetVelocity returns the implicit velocity, in distance per step
func (p *Particle) GetVelocity() mgl64.Vec3 {
	return p.Position.Sub(p.PreviousPosition)
}

// SetVelocity rewrites the previous position so that GetVelocity returns velocity
func (p *Particle) SetVelocity(velocity mgl64.Vec3) {
	p.PreviousPosition = p.Position.Sub(velocity)
}

// AddVelocity changes the implicit velocity immediately, without moving the particle
func (p *Particle) AddVelocity(delta mgl64.Vec3) {
	if !p.IsMovable() {
		return
	}
	p.PreviousPosition = p.PreviousPosition.Sub(delta)
}

// Translate moves the particle without changing its previous position
func (p *Particle) Translate(delta mgl64.Vec3) {
	if !p.IsMovable() {
		return
	}
	p.Position = p.Position.Add(delta)
}

// AddForce accumulates a force, consumed by the next integration
func (p *Particle) AddForce(force mgl64.Vec3) {
	if p.IsMovable() {
		p.accumulatedForce = p.accumulatedForce.Add(force)
	}
}

// ApplyImpulse accumulates impulse*inverseMass as a velocity change, consumed by the next integration
func (p *Particle) ApplyImpulse(impulse mgl64.Vec3) {
	if p.IsMovable() {
		p.accumulatedVelocity = p.accumulatedVelocity.Add(impulse.Mul(p.Material.GetInverseMass()))
	}
}

// AccumulatedImpulse returns the velocity change pending for the next integration
func (p *Particle) AccumulatedImpulse() mgl64.Vec3 {
	return p.accumulatedVelocity
}

func (p *Particle) ClearForces() {
	p.accumulatedForce = mgl64.Vec3{}
	p.accumulatedVelocity = mgl64.Vec3{}
}

// Integrate performs the position Verlet update
// newPos = pos + (pos - oldPos)*friction + acceleration*dt² + impulses*dt
func (p *Particle) Integrate(dt float64) {
	if !p.IsMovable() {
		p.ClearForces()
		return
	}

	velocity := p.GetVelocity().Mul(p.Material.Friction)
	acceleration := p.Gravity.Add(p.accumulatedForce.Mul(p.Material.GetInverseMass()))

	next := p.Position.
		Add(velocity).
		Add(acceleration.Mul(dt * dt)).
		Add(p.accumulatedVelocity.Mul(dt))

	p.ClearForces()
	if !isFinite(next) {
		return
	}

	p.PreviousPosition = p.Position
	p.Position = next
}

// Reset puts the particle back at its initial position, at rest
func (p *Particle) Reset() {
	p.Position = p.InitialPosition
	p.PreviousPosition = p.InitialPosition
	p.ClearForces()
}

func (p *Particle) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(p, candidates, solver)
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}
