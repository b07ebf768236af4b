package actor

const (
	// DefaultFriction is the share of the implicit velocity a particle keeps every step
	DefaultFriction = 0.99
	// DefaultRestitution is the coefficient of restitution of new bodies
	DefaultRestitution = 0.5
)

// Material holds the mass and surface response of a body.
// The inverse mass is 0 for immovable bodies and 1/mass otherwise.
type Material struct {
	mass        float64
	inverseMass float64
	movable     bool

	Friction    float64 // velocity retention for particles, 1 = no loss
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
}

// NewMaterial creates a material with the default friction and restitution
func NewMaterial(mass float64, movable bool) Material {
	m := Material{
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
	}
	m.SetMass(mass, movable)

	return m
}

// SetMass updates the mass and movability, keeping the inverse mass consistent.
// Negative masses are clamped to 0, and a zero mass cannot move.
func (m *Material) SetMass(mass float64, movable bool) {
	if mass < 0 {
		mass = 0
	}

	m.mass = mass
	m.movable = movable && mass > 0
	if m.movable {
		m.inverseMass = 1.0 / mass
	} else {
		m.inverseMass = 0
	}
}

// SetMovable toggles movability without changing the mass
func (m *Material) SetMovable(movable bool) {
	m.SetMass(m.mass, movable)
}

func (m Material) GetMass() float64 {
	return m.mass
}

func (m Material) GetInverseMass() float64 {
	return m.inverseMass
}

func (m Material) IsMovable() bool {
	return m.movable
}
