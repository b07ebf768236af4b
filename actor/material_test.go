package actor

import "testing"

func TestNewMaterial(t *testing.T) {
	tests := []struct {
		name        string
		mass        float64
		movable     bool
		wantMass    float64
		wantInverse float64
		wantMovable bool
	}{
		{"movable unit mass", 1, true, 1, 1, true},
		{"movable heavy", 4, true, 4, 0.25, true},
		{"immovable keeps its mass", 10, false, 10, 0, false},
		{"zero mass cannot move", 0, true, 0, 0, false},
		{"negative mass is clamped", -3, true, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(tt.mass, tt.movable)

			if m.GetMass() != tt.wantMass {
				t.Errorf("GetMass() = %v, want %v", m.GetMass(), tt.wantMass)
			}
			if m.GetInverseMass() != tt.wantInverse {
				t.Errorf("GetInverseMass() = %v, want %v", m.GetInverseMass(), tt.wantInverse)
			}
			if m.IsMovable() != tt.wantMovable {
				t.Errorf("IsMovable() = %v, want %v", m.IsMovable(), tt.wantMovable)
			}
			if m.Friction != DefaultFriction || m.Restitution != DefaultRestitution {
				t.Errorf("Friction, Restitution = %v, %v, want defaults", m.Friction, m.Restitution)
			}
		})
	}
}

func TestMaterialSetMovable(t *testing.T) {
	m := NewMaterial(2, true)

	m.SetMovable(false)
	if m.IsMovable() || m.GetInverseMass() != 0 {
		t.Errorf("after SetMovable(false): movable %v, inverse mass %v", m.IsMovable(), m.GetInverseMass())
	}

	m.SetMovable(true)
	if !m.IsMovable() || m.GetInverseMass() != 0.5 {
		t.Errorf("after SetMovable(true): movable %v, inverse mass %v, want true, 0.5", m.IsMovable(), m.GetInverseMass())
	}
}
