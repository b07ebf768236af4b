package springmass

import (
	"github.com/akmonengine/springmass/actor"
	"github.com/akmonengine/springmass/bvh"
)

// BroadPhase rebuilds the hierarchy over the constraint bodies.
// The previous tree is discarded.
func BroadPhase(tree *bvh.Tree[actor.Body], bodies []actor.Body) {
	tree.Rebuild(bodies)
}

// recordingSolver forwards to the system solver and records the touching pairs
type recordingSolver struct {
	solver actor.PairSolver
	events *Events
}

func (r recordingSolver) SolvePairCollision(a, b actor.Body) bool {
	if !r.solver.SolvePairCollision(a, b) {
		return false
	}
	r.events.recordCollision(a, b)

	return true
}

// narrowPhase solves every constraint body against the bodies its bounds overlap
// and returns the number of contacts resolved
func (s *System) narrowPhase() int {
	if s.Solver == nil || s.BVH.Root() == nil {
		return 0
	}

	solver := recordingSolver{solver: s.Solver, events: &s.Events}
	contacts := 0
	for _, body := range s.Constraints {
		s.candidates = s.BVH.QueryInto(body.GetAABB(), s.candidates[:0])
		contacts += body.SolveConstraints(s.candidates, solver)
	}
	clear(s.candidates)

	return contacts
}
