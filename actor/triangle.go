package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateAreaEpsilon is the squared cross product length under which a triangle has no plane
const degenerateAreaEpsilon = 1e-12

// DefaultTriangleThickness pads triangle bounds so flat triangles still have a volume
const DefaultTriangleThickness = 1e-3

// TriangleCollider is a triangle whose corners are either live particles (deformable)
// or fixed points (static).
type TriangleCollider struct {
	arena      *ParticleArena
	handles    [3]Handle
	points     [3]mgl64.Vec3
	deformable bool

	Thickness float64
	Material  Material
	Gravity   mgl64.Vec3
}

// NewDeformableTriangle creates a triangle reading its corners from the arena every time.
// The particles are flagged as attached to a triangle.
func NewDeformableTriangle(arena *ParticleArena, a, b, c Handle) *TriangleCollider {
	t := &TriangleCollider{
		arena:      arena,
		handles:    [3]Handle{a, b, c},
		deformable: true,
		Thickness:  DefaultTriangleThickness,
		Material:   NewMaterial(0, false),
	}

	for _, h := range t.handles {
		if p := arena.Get(h); p != nil {
			p.AttachedToTriangle = true
		}
	}

	return t
}

// NewStaticTriangle creates a triangle over three fixed points
func NewStaticTriangle(p0, p1, p2 mgl64.Vec3) *TriangleCollider {
	return &TriangleCollider{
		points:    [3]mgl64.Vec3{p0, p1, p2},
		Thickness: DefaultTriangleThickness,
		Material:  NewMaterial(0, false),
	}
}

func (t *TriangleCollider) IsDeformable() bool {
	return t.deformable
}

// Handles returns the particle handles of a deformable triangle
func (t *TriangleCollider) Handles() [3]Handle {
	return t.handles
}

// Vertices returns the current corners. It fails if a particle of a deformable triangle is gone.
func (t *TriangleCollider) Vertices() ([3]mgl64.Vec3, bool) {
	if !t.deformable {
		return t.points, true
	}

	var vertices [3]mgl64.Vec3
	for i, h := range t.handles {
		p := t.arena.Get(h)
		if p == nil {
			return vertices, false
		}
		vertices[i] = p.Position
	}

	return vertices, true
}

// HasVertex reports whether p is one of the corners of the triangle
func (t *TriangleCollider) HasVertex(p *Particle) bool {
	if !t.deformable || p == nil || !p.handle.IsValid() {
		return false
	}

	for _, h := range t.handles {
		if h == p.handle {
			return true
		}
	}

	return false
}

// Normal returns the unit normal (v1-v0)x(v2-v0). It fails on degenerate triangles.
func (t *TriangleCollider) Normal() (mgl64.Vec3, bool) {
	v, ok := t.Vertices()
	if !ok {
		return mgl64.Vec3{}, false
	}

	return triangleNormal(v)
}

func triangleNormal(v [3]mgl64.Vec3) (mgl64.Vec3, bool) {
	n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
	if n.Dot(n) < degenerateAreaEpsilon {
		return mgl64.Vec3{}, false
	}

	return n.Normalize(), true
}

// Barycentric returns the coordinates (u, v, w) of point relative to the corners,
// point ≈ u*v0 + v*v1 + w*v2, for a point lying in the triangle plane.
func (t *TriangleCollider) Barycentric(point mgl64.Vec3) (float64, float64, float64, bool) {
	v, ok := t.Vertices()
	if !ok {
		return 0, 0, 0, false
	}

	return barycentric(point, v)
}

func barycentric(point mgl64.Vec3, v [3]mgl64.Vec3) (float64, float64, float64, bool) {
	e0 := v[1].Sub(v[0])
	e1 := v[2].Sub(v[0])
	e2 := point.Sub(v[0])

	d00 := e0.Dot(e0)
	d01 := e0.Dot(e1)
	d11 := e1.Dot(e1)
	d20 := e2.Dot(e0)
	d21 := e2.Dot(e1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < degenerateAreaEpsilon {
		return 0, 0, 0, false
	}

	bv := (d11*d20 - d01*d21) / denom
	bw := (d00*d21 - d01*d20) / denom

	return 1 - bv - bw, bv, bw, true
}

// ContainsPoint reports whether point, projected on the triangle plane, lies inside the triangle
func (t *TriangleCollider) ContainsPoint(point mgl64.Vec3) bool {
	u, v, w, ok := t.Barycentric(point)

	return ok && u >= 0 && v >= 0 && w >= 0
}

// ClosestPoint returns the point of the triangle closest to point
func (t *TriangleCollider) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	v, ok := t.Vertices()
	if !ok {
		return point
	}
	a, b, c := v[0], v[1], v[2]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := point.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := point.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := point.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		return b.Add(c.Sub(b).Mul((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}

	denom := 1 / (va + vb + vc)
	return a.Add(ab.Mul(vb * denom)).Add(ac.Mul(vc * denom))
}

func (t *TriangleCollider) Type() BodyType {
	return BodyTypeTriangle
}

func (t *TriangleCollider) GetAABB() AABB {
	v, ok := t.Vertices()
	if !ok {
		return AABB{}
	}

	min, max := v[0], v[0]
	for _, p := range v[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}

	pad := mgl64.Vec3{t.Thickness, t.Thickness, t.Thickness}

	return AABBFromMinMax(min.Sub(pad), max.Add(pad))
}

func (t *TriangleCollider) GetMaterial() *Material {
	return &t.Material
}

func (t *TriangleCollider) SetGravity(gravity mgl64.Vec3) {
	t.Gravity = gravity
}

func (t *TriangleCollider) Integrate(dt float64) {}

func (t *TriangleCollider) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(t, candidates, solver)
}
