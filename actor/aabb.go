package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box, stored as a center and half-extents
type AABB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// AABBFromMinMax builds the box spanning min and max.
// The corners may be given in any order.
func AABBFromMinMax(min, max mgl64.Vec3) AABB {
	return AABB{
		Center: min.Add(max).Mul(0.5),
		HalfExtents: mgl64.Vec3{
			math.Abs(max[0]-min[0]) * 0.5,
			math.Abs(max[1]-min[1]) * 0.5,
			math.Abs(max[2]-min[2]) * 0.5,
		},
	}
}

// Min returns the lowest corner of the box
func (a AABB) Min() mgl64.Vec3 {
	lo := a.Center.Sub(a.HalfExtents)
	hi := a.Center.Add(a.HalfExtents)

	return mgl64.Vec3{math.Min(lo[0], hi[0]), math.Min(lo[1], hi[1]), math.Min(lo[2], hi[2])}
}

// Max returns the highest corner of the box
func (a AABB) Max() mgl64.Vec3 {
	lo := a.Center.Sub(a.HalfExtents)
	hi := a.Center.Add(a.HalfExtents)

	return mgl64.Vec3{math.Max(lo[0], hi[0]), math.Max(lo[1], hi[1]), math.Max(lo[2], hi[2])}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	min, max := a.Min(), a.Max()

	return point.X() >= min.X() && point.X() <= max.X() &&
		point.Y() >= min.Y() && point.Y() <= max.Y() &&
		point.Z() >= min.Z() && point.Z() <= max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := other.Min(), other.Max()

	// AABBs overlap if they overlap on all three axes
	return aMax.X() >= bMin.X() && aMin.X() <= bMax.X() &&
		aMax.Y() >= bMin.Y() && aMin.Y() <= bMax.Y() &&
		aMax.Z() >= bMin.Z() && aMin.Z() <= bMax.Z()
}

// Union returns the smallest AABB enclosing both boxes
func (a AABB) Union(other AABB) AABB {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := other.Min(), other.Max()

	return AABBFromMinMax(
		mgl64.Vec3{math.Min(aMin[0], bMin[0]), math.Min(aMin[1], bMin[1]), math.Min(aMin[2], bMin[2])},
		mgl64.Vec3{math.Max(aMax[0], bMax[0]), math.Max(aMax[1], bMax[1]), math.Max(aMax[2], bMax[2])},
	)
}

// SurfaceArea is 2(xy+xz+yz) over the half-extents. Only meaningful to compare boxes.
func (a AABB) SurfaceArea() float64 {
	x := math.Abs(a.HalfExtents[0])
	y := math.Abs(a.HalfExtents[1])
	z := math.Abs(a.HalfExtents[2])

	return 2 * (x*y + x*z + y*z)
}
