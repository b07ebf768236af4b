package springmass

import (
	"log"
	"math"

	"github.com/akmonengine/springmass/actor"
	"github.com/akmonengine/springmass/bvh"
	"github.com/akmonengine/springmass/config"
	"github.com/akmonengine/springmass/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// System owns the whole particle, spring and collider graph and advances it step by step.
// It is not safe for concurrent use: one stepper drives it.
type System struct {
	// Particles owns every particle of the simulation
	Particles *actor.ParticleArena
	// Rigidbodies are integrated every step
	Rigidbodies []actor.Body
	// Constraints are indexed in the BVH and solved against each other
	Constraints       []actor.Body
	Springs           []*constraint.Spring
	TriangleColliders []*actor.TriangleCollider

	BVH    *bvh.Tree[actor.Body]
	Solver actor.PairSolver

	// Gravity acceleration given to registered bodies
	Gravity  mgl64.Vec3
	Friction float64

	Logger *log.Logger
	Events Events

	steps      uint64
	candidates []actor.Body
}

// NewSystem creates an empty system configured by cfg
func NewSystem(cfg config.Config) *System {
	tree := bvh.NewTree[actor.Body]()
	tree.MaxDepth = cfg.BVHMaxDepth

	return &System{
		Particles: actor.NewParticleArena(),
		BVH:       tree,
		Solver:    constraint.NewSolver(),
		Gravity:   mgl64.Vec3(cfg.Gravity),
		Friction:  cfg.Friction,
		Logger:    log.New(log.Writer(), "[springmass] ", log.LstdFlags),
		Events:    NewEvents(),
	}
}

func (s *System) warnf(format string, args ...any) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[System] warning: "+format, args...)
}

// Steps returns the number of steps run so far
func (s *System) Steps() uint64 {
	return s.steps
}

// Update advances the simulation by one step of dt seconds:
// integration, springs, BVH rebuild, then collision solving.
func (s *System) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		s.warnf("ignoring step with invalid time step %v", dt)
		return
	}

	// Phase 1: forces & integration
	s.integrate(dt)

	// Phase 2: springs
	s.applySprings(dt)

	// Phase 3: broad phase
	BroadPhase(s.BVH, s.Constraints)

	// Phase 4: narrow phase against the broad phase candidates
	contacts := s.narrowPhase()

	s.steps++
	s.Events.flush(StepEvent{System: s, Step: s.steps, DeltaTime: dt, Contacts: contacts})
}

func (s *System) integrate(dt float64) {
	for _, body := range s.Rigidbodies {
		body.Integrate(dt)
	}
}

func (s *System) applySprings(dt float64) {
	for _, spring := range s.Springs {
		spring.ApplyForce(dt)
	}
}

// AddRigidbody registers a body to integrate. It takes the system gravity and friction,
// and particles join the system arena.
func (s *System) AddRigidbody(body actor.Body) {
	if actor.IsNil(body) {
		s.warnf("AddRigidbody called with a nil body")
		return
	}

	s.adopt(body)
	s.Rigidbodies = append(s.Rigidbodies, body)
}

// AddConstraint registers a body taking part in collisions
func (s *System) AddConstraint(body actor.Body) {
	if actor.IsNil(body) {
		s.warnf("AddConstraint called with a nil body")
		return
	}

	s.adopt(body)
	s.Constraints = append(s.Constraints, body)
}

func (s *System) adopt(body actor.Body) {
	body.SetGravity(s.Gravity)
	body.GetMaterial().Friction = s.Friction
	if p, ok := body.(*actor.Particle); ok {
		s.Particles.Add(p)
	}
}

// AddParticle registers p both as a rigid body and as a constraint, and returns its handle
func (s *System) AddParticle(p *actor.Particle) actor.Handle {
	if p == nil {
		s.warnf("AddParticle called with a nil particle")
		return actor.Handle{}
	}

	s.AddRigidbody(p)
	s.AddConstraint(p)

	return p.Handle()
}

// AddSpring registers a spring already bound to its particles
func (s *System) AddSpring(spring *constraint.Spring) {
	if spring == nil {
		s.warnf("AddSpring called with a nil spring")
		return
	}
	if a, b := spring.Particles(); a == nil || b == nil {
		s.warnf("AddSpring called with a spring not bound to two live particles")
		return
	}

	s.Springs = append(s.Springs, spring)
}

// LinkParticles creates and registers a spring between two particles of the system arena.
// A negative damping selects critical damping.
func (s *System) LinkParticles(a, b actor.Handle, stiffness, damping float64) *constraint.Spring {
	spring := constraint.NewSpringWith(stiffness, damping, 0)
	spring.SetParticles(s.Particles, a, b)
	if pa, pb := spring.Particles(); pa == nil || pb == nil {
		s.warnf("LinkParticles called with a stale handle")
		return nil
	}

	s.AddSpring(spring)

	return spring
}

// AddTriangleCollider registers a triangle, which also takes part in collisions
func (s *System) AddTriangleCollider(triangle *actor.TriangleCollider) {
	if triangle == nil {
		s.warnf("AddTriangleCollider called with a nil triangle")
		return
	}

	s.TriangleColliders = append(s.TriangleColliders, triangle)
	s.AddConstraint(triangle)
}

// RemoveParticle unregisters the particle of h and frees its arena slot.
// Springs and triangles bound to it stay registered and skip it from then on.
func (s *System) RemoveParticle(h actor.Handle) {
	p := s.Particles.Get(h)
	if p == nil {
		s.warnf("RemoveParticle called with a stale handle")
		return
	}

	s.Rigidbodies = removeBody(s.Rigidbodies, p)
	s.Constraints = removeBody(s.Constraints, p)
	s.Events.forgetBody(p)
	s.Particles.Remove(h)
}

func removeBody(bodies []actor.Body, target actor.Body) []actor.Body {
	kept := bodies[:0]
	for _, body := range bodies {
		if body != target {
			kept = append(kept, body)
		}
	}
	clear(bodies[len(kept):])

	return kept
}

func (s *System) ClearRigidbodies() {
	s.Rigidbodies = nil
}

func (s *System) ClearConstraints() {
	s.Constraints = nil
	s.candidates = s.candidates[:0]
}

func (s *System) ClearSprings() {
	s.Springs = nil
}

func (s *System) ClearTriangleColliders() {
	s.TriangleColliders = nil
}

func (s *System) ClearBVH() {
	s.BVH.Clear()
}

// ClearAll empties the system, particles included. Event listeners are kept.
func (s *System) ClearAll() {
	s.ClearSprings()
	s.ClearTriangleColliders()
	s.ClearConstraints()
	s.ClearRigidbodies()
	s.ClearBVH()
	s.Particles.Clear()
	s.Events.forget()
}

// bodies returns every registered body once
func (s *System) bodies() []actor.Body {
	seen := make(map[actor.Body]bool, len(s.Rigidbodies)+len(s.Constraints))
	bodies := make([]actor.Body, 0, len(s.Rigidbodies)+len(s.Constraints))
	for _, list := range [][]actor.Body{s.Rigidbodies, s.Constraints} {
		for _, body := range list {
			if seen[body] {
				continue
			}
			seen[body] = true
			bodies = append(bodies, body)
		}
	}

	return bodies
}

// ChangeGravity sets the gravity of every registered body
func (s *System) ChangeGravity(gravity mgl64.Vec3) {
	s.Gravity = gravity
	for _, body := range s.bodies() {
		body.SetGravity(gravity)
	}
}

// ChangeFriction sets the friction of every registered body
func (s *System) ChangeFriction(friction float64) {
	s.Friction = friction
	for _, body := range s.bodies() {
		body.GetMaterial().Friction = friction
	}
}

// ChangeStiffness sets the stiffness of every spring
func (s *System) ChangeStiffness(stiffness float64) {
	for _, spring := range s.Springs {
		spring.SetStiffness(stiffness)
	}
}

// ChangeDamping sets the damping of every spring, a negative value selecting critical damping
func (s *System) ChangeDamping(damping float64) {
	for _, spring := range s.Springs {
		spring.SetDamping(damping)
	}
}

// RotateRigidbodies rotates the initial position of every particle by the euler angles
// (radians, XYZ order) and puts the particles back there at rest.
func (s *System) RotateRigidbodies(euler mgl64.Vec3) {
	rotation := mgl64.AnglesToQuat(euler[0], euler[1], euler[2], mgl64.XYZ)
	if rotation.ApproxEqual(mgl64.QuatIdent()) || rotation.Scale(-1).ApproxEqual(mgl64.QuatIdent()) {
		return
	}

	for _, body := range s.Rigidbodies {
		if p, ok := body.(*actor.Particle); ok {
			p.InitialPosition = rotation.Rotate(p.InitialPosition)
			p.Reset()
		}
	}
}

// ResetRigidbodies puts every particle back at its initial position, at rest
func (s *System) ResetRigidbodies() {
	for _, body := range s.Rigidbodies {
		if p, ok := body.(*actor.Particle); ok {
			p.Reset()
		}
	}
}
