package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func floorTriangle() *TriangleCollider {
	return NewStaticTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
}

func TestTriangleNormal(t *testing.T) {
	n, ok := floorTriangle().Normal()
	if !ok {
		t.Fatal("Normal() failed on a valid triangle")
	}
	if !vec3Equal(n, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Normal() = %v, want (0, 0, 1)", n)
	}

	flipped := NewStaticTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
	if n, _ := flipped.Normal(); !vec3Equal(n, mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("flipped Normal() = %v, want (0, 0, -1)", n)
	}

	degenerate := NewStaticTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0})
	if _, ok := degenerate.Normal(); ok {
		t.Error("Normal() succeeded on a collinear triangle")
	}
}

func TestTriangleBarycentric(t *testing.T) {
	tri := floorTriangle()

	tests := []struct {
		name    string
		point   mgl64.Vec3
		u, v, w float64
		inside  bool
	}{
		{"first corner", mgl64.Vec3{0, 0, 0}, 1, 0, 0, true},
		{"second corner", mgl64.Vec3{1, 0, 0}, 0, 1, 0, true},
		{"interior, off plane", mgl64.Vec3{0.25, 0.25, 5}, 0.5, 0.25, 0.25, true},
		{"outside", mgl64.Vec3{1, 1, 0}, -1, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v, w, ok := tri.Barycentric(tt.point)
			if !ok {
				t.Fatal("Barycentric() failed")
			}
			if !floatEqual(u, tt.u, 1e-12) || !floatEqual(v, tt.v, 1e-12) || !floatEqual(w, tt.w, 1e-12) {
				t.Errorf("Barycentric() = (%v, %v, %v), want (%v, %v, %v)", u, v, w, tt.u, tt.v, tt.w)
			}
			if !floatEqual(u+v+w, 1, 1e-12) {
				t.Errorf("u+v+w = %v, want 1", u+v+w)
			}
			if got := tri.ContainsPoint(tt.point); got != tt.inside {
				t.Errorf("ContainsPoint() = %v, want %v", got, tt.inside)
			}
		})
	}
}

func TestTriangleClosestPoint(t *testing.T) {
	tri := floorTriangle()

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  mgl64.Vec3
	}{
		{"above interior", mgl64.Vec3{0.25, 0.25, 1}, mgl64.Vec3{0.25, 0.25, 0}},
		{"vertex region A", mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{0, 0, 0}},
		{"vertex region B", mgl64.Vec3{2, -1, 0}, mgl64.Vec3{1, 0, 0}},
		{"vertex region C", mgl64.Vec3{-0.5, 3, 1}, mgl64.Vec3{0, 1, 0}},
		{"edge AB", mgl64.Vec3{0.5, -1, 0}, mgl64.Vec3{0.5, 0, 0}},
		{"edge AC", mgl64.Vec3{-2, 0.5, 0}, mgl64.Vec3{0, 0.5, 0}},
		{"edge BC", mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0.5, 0.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.ClosestPoint(tt.point); !vec3Equal(got, tt.want, 1e-12) {
				t.Errorf("ClosestPoint(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestDeformableTriangle(t *testing.T) {
	arena := NewParticleArena()
	a := NewParticle(mgl64.Vec3{0, 0, 0}, 0.1, 1, true)
	b := NewParticle(mgl64.Vec3{1, 0, 0}, 0.1, 1, true)
	c := NewParticle(mgl64.Vec3{0, 1, 0}, 0.1, 1, true)
	outsider := NewParticle(mgl64.Vec3{0, 0, 1}, 0.1, 1, true)
	arena.Add(outsider)

	tri := NewDeformableTriangle(arena, arena.Add(a), arena.Add(b), arena.Add(c))
	if !tri.IsDeformable() {
		t.Fatal("IsDeformable() = false")
	}
	for _, p := range []*Particle{a, b, c} {
		if !p.AttachedToTriangle {
			t.Errorf("particle at %v not flagged as attached", p.Position)
		}
		if !tri.HasVertex(p) {
			t.Errorf("HasVertex(%v) = false", p.Position)
		}
	}
	if tri.HasVertex(outsider) || outsider.AttachedToTriangle {
		t.Error("outsider reported as a vertex")
	}

	// the triangle follows its particles
	c.Position = mgl64.Vec3{0, 0, 1}
	if n, _ := tri.Normal(); !vec3Equal(n, mgl64.Vec3{0, -1, 0}, 1e-12) {
		t.Errorf("Normal() after moving c = %v, want (0, -1, 0)", n)
	}

	arena.Remove(b.Handle())
	if _, ok := tri.Vertices(); ok {
		t.Error("Vertices() succeeded with a removed particle")
	}
	if tri.GetAABB() != (AABB{}) {
		t.Errorf("GetAABB() with a removed particle = %v, want zero", tri.GetAABB())
	}
}

func TestTriangleGetAABB_Padded(t *testing.T) {
	aabb := floorTriangle().GetAABB()

	if !vec3Equal(aabb.Min(), mgl64.Vec3{-DefaultTriangleThickness, -DefaultTriangleThickness, -DefaultTriangleThickness}, 1e-12) {
		t.Errorf("Min() = %v", aabb.Min())
	}
	if aabb.HalfExtents.Z() <= 0 {
		t.Error("flat triangle bounds have no thickness")
	}
}

func TestMeshGetAABB(t *testing.T) {
	mesh := NewMesh(
		floorTriangle(),
		nil,
		NewStaticTriangle(mgl64.Vec3{2, 2, 0}, mgl64.Vec3{3, 2, 0}, mgl64.Vec3{2, 3, 1}),
	)

	if len(mesh.Triangles) != 2 {
		t.Fatalf("len(Triangles) = %d, want 2", len(mesh.Triangles))
	}

	aabb := mesh.GetAABB()
	pad := DefaultTriangleThickness
	if !vec3Equal(aabb.Max(), mgl64.Vec3{3 + pad, 3 + pad, 1 + pad}, 1e-12) {
		t.Errorf("Max() = %v", aabb.Max())
	}
}
