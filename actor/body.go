package actor

import "github.com/go-gl/mathgl/mgl64"

// BodyType tags the concrete kind of a body.
// The numeric order is the order the collision dispatcher sorts pairs by.
type BodyType int

const (
	// BodyTypeParticle is a point mass with a radius
	BodyTypeParticle BodyType = iota
	// BodyTypeSphere is a static spherical collider
	BodyTypeSphere
	// BodyTypeBox is an oriented box collider
	BodyTypeBox
	// BodyTypePlane is an infinite static plane
	BodyTypePlane
	// BodyTypeTriangle is a single triangle collider
	BodyTypeTriangle
	// BodyTypeMesh owns a set of triangle colliders
	BodyTypeMesh
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeParticle:
		return "particle"
	case BodyTypeSphere:
		return "sphere"
	case BodyTypeBox:
		return "box"
	case BodyTypePlane:
		return "plane"
	case BodyTypeTriangle:
		return "triangle"
	case BodyTypeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// PairSolver resolves a collision between two bodies and reports whether a contact was resolved
type PairSolver interface {
	SolvePairCollision(a, b Body) bool
}

// Body is the capability set shared by everything the physics system simulates
type Body interface {
	Type() BodyType
	// GetAABB returns the current world bounds, used by the BVH
	GetAABB() AABB
	GetMaterial() *Material
	SetGravity(gravity mgl64.Vec3)
	// Integrate advances the body by dt. Static bodies do nothing.
	Integrate(dt float64)
	// SolveConstraints resolves the body against the broad phase candidates and
	// returns the number of contacts resolved
	SolveConstraints(candidates []Body, solver PairSolver) int
}

// solveAgainst is the candidate loop shared by every body kind
func solveAgainst(self Body, candidates []Body, solver PairSolver) int {
	if solver == nil {
		return 0
	}

	contacts := 0
	for _, candidate := range candidates {
		if candidate == nil || candidate == self {
			continue
		}
		if solver.SolvePairCollision(self, candidate) {
			contacts++
		}
	}

	return contacts
}
