package constraint

import (
	"math"

	"github.com/akmonengine/springmass/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Epsilon is the distance under which contacts and directions are degenerate
	Epsilon = 1e-6
	// RestingSpeed is the normal speed, in distance per step, under which contacts do not bounce
	RestingSpeed = 0.1
	// RunawayLimit is the magnitude over which spring terms are treated as diverged
	RunawayLimit = 1e6
)

// ComputeRestitution returns the restitution of a contact, the least bouncy material wins
func ComputeRestitution(matA, matB *actor.Material) float64 {
	return math.Min(matA.Restitution, matB.Restitution)
}

// floorSmall zeroes every component whose magnitude is below Epsilon
func floorSmall(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		if math.Abs(v[i]) < Epsilon {
			v[i] = 0
		}
	}

	return v
}

// sanitize zeroes NaN, underflowing and runaway values
func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.Abs(x) < Epsilon || math.Abs(x) > RunawayLimit {
		return 0
	}

	return x
}
