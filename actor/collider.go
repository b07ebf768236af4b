package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an oriented box collider, placed by its transform.
// Boxes are never integrated; a static box has a zero inverse mass.
type Box struct {
	Transform   Transform
	HalfExtents mgl64.Vec3
	Material    Material
	Gravity     mgl64.Vec3

	obb OBB
}

// NewBox creates a box collider. A movable box can be pushed by contacts.
func NewBox(transform Transform, halfExtents mgl64.Vec3, mass float64, movable bool) *Box {
	b := &Box{
		Transform:   transform,
		HalfExtents: halfExtents,
		Material:    NewMaterial(mass, movable),
	}
	b.ComputeOBB()

	return b
}

// NewStaticBox creates an immovable box collider
func NewStaticBox(transform Transform, halfExtents mgl64.Vec3) *Box {
	return NewBox(transform, halfExtents, 0, false)
}

// ComputeOBB refreshes the cached oriented box from the transform
func (b *Box) ComputeOBB() {
	b.obb = NewOBB(b.Transform, b.HalfExtents)
}

// SetTransform moves the box and refreshes its oriented box
func (b *Box) SetTransform(transform Transform) {
	b.Transform = transform
	b.ComputeOBB()
}

// Translate moves the box if it is movable
func (b *Box) Translate(delta mgl64.Vec3) {
	if !b.Material.IsMovable() {
		return
	}
	b.Transform.Position = b.Transform.Position.Add(delta)
	b.ComputeOBB()
}

func (b *Box) GetOBB() OBB {
	return b.obb
}

func (b *Box) Type() BodyType {
	return BodyTypeBox
}

func (b *Box) GetAABB() AABB {
	return b.obb.AABB()
}

func (b *Box) GetMaterial() *Material {
	return &b.Material
}

func (b *Box) SetGravity(gravity mgl64.Vec3) {
	b.Gravity = gravity
}

func (b *Box) Integrate(dt float64) {}

func (b *Box) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(b, candidates, solver)
}

// Sphere is a static spherical collider
type Sphere struct {
	Transform Transform
	Radius    float64
	Material  Material
	Gravity   mgl64.Vec3
}

func NewStaticSphere(transform Transform, radius float64) *Sphere {
	return &Sphere{
		Transform: transform,
		Radius:    math.Abs(radius),
		Material:  NewMaterial(0, false),
	}
}

// WorldRadius returns the radius stretched by the largest scale component
func (s *Sphere) WorldRadius() float64 {
	scale := s.Transform.scaled(mgl64.Vec3{1, 1, 1})

	return s.Radius * math.Max(math.Abs(scale[0]), math.Max(math.Abs(scale[1]), math.Abs(scale[2])))
}

func (s *Sphere) Type() BodyType {
	return BodyTypeSphere
}

func (s *Sphere) GetAABB() AABB {
	r := s.WorldRadius()

	return AABB{Center: s.Transform.Position, HalfExtents: mgl64.Vec3{r, r, r}}
}

func (s *Sphere) GetMaterial() *Material {
	return &s.Material
}

func (s *Sphere) SetGravity(gravity mgl64.Vec3) {
	s.Gravity = gravity
}

func (s *Sphere) Integrate(dt float64) {}

func (s *Sphere) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(s, candidates, solver)
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
	Material Material
	Gravity  mgl64.Vec3
}

func NewPlane(normal mgl64.Vec3, distance float64) *Plane {
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}

	return &Plane{
		Normal:   normal,
		Distance: distance,
		Material: NewMaterial(0, false),
	}
}

func (p *Plane) Type() BodyType {
	return BodyTypePlane
}

// SignedDistance returns the distance of point to the plane, positive on the normal side
func (p *Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

func (p *Plane) GetAABB() AABB {
	const thickness = 1.0 // detection depth below the plane
	const infinity = 1e10

	// Point on the plane closest to the origin
	planePoint := p.Normal.Mul(-p.Distance)

	min := planePoint.Sub(p.Normal.Mul(thickness))
	max := planePoint

	// Extend to infinity on every axis the normal is not aligned with
	for i := 0; i < 3; i++ {
		if math.Abs(p.Normal[i]) < 1.0 {
			min[i] = -infinity
			max[i] = infinity
		}
	}

	return AABBFromMinMax(min, max)
}

func (p *Plane) GetMaterial() *Material {
	return &p.Material
}

func (p *Plane) SetGravity(gravity mgl64.Vec3) {
	p.Gravity = gravity
}

func (p *Plane) Integrate(dt float64) {}

func (p *Plane) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(p, candidates, solver)
}
