package actor

import "github.com/go-gl/mathgl/mgl64"

// Mesh owns a set of triangle colliders and collides as their union
type Mesh struct {
	Triangles []*TriangleCollider
	Material  Material
	Gravity   mgl64.Vec3
}

func NewMesh(triangles ...*TriangleCollider) *Mesh {
	m := &Mesh{Material: NewMaterial(0, false)}
	for _, t := range triangles {
		m.AddTriangle(t)
	}

	return m
}

// AddTriangle binds a triangle collider to the mesh, ignoring nil
func (m *Mesh) AddTriangle(t *TriangleCollider) {
	if t == nil {
		return
	}
	m.Triangles = append(m.Triangles, t)
}

func (m *Mesh) Type() BodyType {
	return BodyTypeMesh
}

func (m *Mesh) GetAABB() AABB {
	var bounds AABB
	first := true
	for _, t := range m.Triangles {
		if _, ok := t.Vertices(); !ok {
			continue
		}
		if first {
			bounds = t.GetAABB()
			first = false
			continue
		}
		bounds = bounds.Union(t.GetAABB())
	}

	return bounds
}

func (m *Mesh) GetMaterial() *Material {
	return &m.Material
}

func (m *Mesh) SetGravity(gravity mgl64.Vec3) {
	m.Gravity = gravity
}

func (m *Mesh) Integrate(dt float64) {}

func (m *Mesh) SolveConstraints(candidates []Body, solver PairSolver) int {
	return solveAgainst(m, candidates, solver)
}
