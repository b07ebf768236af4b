package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// satAxisEpsilon is the squared length under which a cross product axis is discarded
const satAxisEpsilon = 1e-8

// OBB represents an oriented bounding box.
// The columns of Orientation are the box's local axes expressed in world space.
type OBB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Orientation mgl64.Mat3
}

// NewOBB derives an oriented box from a transform: the rotation gives the orientation
// and the scale stretches the half-extents.
func NewOBB(transform Transform, halfExtents mgl64.Vec3) OBB {
	h := transform.scaled(halfExtents)

	return OBB{
		Center:      transform.Position,
		HalfExtents: mgl64.Vec3{math.Abs(h[0]), math.Abs(h[1]), math.Abs(h[2])},
		Orientation: transform.RotationMatrix(),
	}
}

// orientation returns the box orientation, the zero matrix being read as the identity
func (o OBB) orientation() mgl64.Mat3 {
	if o.Orientation == (mgl64.Mat3{}) {
		return mgl64.Ident3()
	}

	return o.Orientation
}

// Axes returns the three unit local axes of the box in world space
func (o OBB) Axes() [3]mgl64.Vec3 {
	m := o.orientation()

	var axes [3]mgl64.Vec3
	for i := range axes {
		axis := m.Col(i)
		if l := axis.Len(); l > 0 {
			axis = axis.Mul(1 / l)
		}
		axes[i] = axis
	}

	return axes
}

// ToLocal transforms a world point into the box frame
func (o OBB) ToLocal(point mgl64.Vec3) mgl64.Vec3 {
	return o.orientation().Transpose().Mul3x1(point.Sub(o.Center))
}

// ToWorld transforms a point of the box frame into world space
func (o OBB) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.orientation().Mul3x1(local).Add(o.Center)
}

// ClosestPoint returns the point of the box (surface or interior) closest to point
func (o OBB) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	local := o.ToLocal(point)

	for i := 0; i < 3; i++ {
		h := math.Abs(o.HalfExtents[i])
		local[i] = math.Max(-h, math.Min(h, local[i]))
	}

	return o.ToWorld(local)
}

// AABB returns the world axis-aligned box enclosing the oriented box
func (o OBB) AABB() AABB {
	m := o.orientation()

	var half mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			half[row] += math.Abs(o.HalfExtents[col]) * math.Abs(m.At(row, col))
		}
	}

	return AABB{Center: o.Center, HalfExtents: half}
}

// projectedRadius is the half-length of the box projected on axis
func (o OBB) projectedRadius(axis mgl64.Vec3, axes [3]mgl64.Vec3) float64 {
	var r float64
	for i := range axes {
		r += math.Abs(o.HalfExtents[i]) * math.Abs(axis.Dot(axes[i]))
	}

	return r
}

// Intersects runs the separating axis test between two oriented boxes.
// When they overlap, the minimum translation vector is returned, oriented from o toward other.
func (o OBB) Intersects(other OBB) (bool, mgl64.Vec3) {
	axesA := o.Axes()
	axesB := other.Axes()

	candidates := make([]mgl64.Vec3, 0, 15)
	candidates = append(candidates, axesA[:]...)
	candidates = append(candidates, axesB[:]...)
	for i := range axesA {
		for j := range axesB {
			axis := axesA[i].Cross(axesB[j])
			if axis.Dot(axis) < satAxisEpsilon {
				continue // near parallel edges
			}
			candidates = append(candidates, axis.Normalize())
		}
	}

	delta := other.Center.Sub(o.Center)
	minOverlap := math.Inf(1)
	var mtv mgl64.Vec3

	for _, axis := range candidates {
		distance := delta.Dot(axis)
		overlap := o.projectedRadius(axis, axesA) + other.projectedRadius(axis, axesB) - math.Abs(distance)
		if overlap < 0 {
			return false, mgl64.Vec3{}
		}

		if overlap < minOverlap {
			minOverlap = overlap
			if distance < 0 {
				axis = axis.Mul(-1)
			}
			mtv = axis.Mul(overlap)
		}
	}

	return true, mtv
}
