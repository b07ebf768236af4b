package actor

// Handle addresses a particle in a ParticleArena.
// The zero Handle never resolves to a particle.
type Handle struct {
	index      uint32
	generation uint32
}

// IsValid reports whether the handle was issued by an arena
func (h Handle) IsValid() bool {
	return h.generation != 0
}

// Index returns the slot index of the handle
func (h Handle) Index() int {
	return int(h.index)
}

type slot struct {
	particle   *Particle
	generation uint32
}

// ParticleArena owns the particles of a simulation.
// Removed slots are recycled with a new generation, so stale handles resolve to nil.
type ParticleArena struct {
	slots []slot
	free  []uint32
	count int
}

func NewParticleArena() *ParticleArena {
	return &ParticleArena{}
}

// Add registers a particle and returns its handle.
// Adding a particle that is already registered returns its current handle.
func (a *ParticleArena) Add(p *Particle) Handle {
	if p == nil {
		return Handle{}
	}
	if a.Get(p.handle) == p {
		return p.handle
	}

	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	s := &a.slots[index]
	s.generation++
	s.particle = p
	a.count++

	p.handle = Handle{index: index, generation: s.generation}

	return p.handle
}

// Get resolves a handle, returning nil for stale or unknown handles
func (a *ParticleArena) Get(h Handle) *Particle {
	if a == nil || !h.IsValid() || int(h.index) >= len(a.slots) {
		return nil
	}

	s := a.slots[h.index]
	if s.generation != h.generation {
		return nil
	}

	return s.particle
}

// Remove frees the slot of h. Stale handles are ignored.
func (a *ParticleArena) Remove(h Handle) {
	p := a.Get(h)
	if p == nil {
		return
	}

	s := &a.slots[h.index]
	s.particle = nil
	s.generation++
	a.free = append(a.free, h.index)
	a.count--

	p.handle = Handle{}
}

// Len returns the number of live particles
func (a *ParticleArena) Len() int {
	return a.count
}

// Each calls fn for every live particle, in slot order
func (a *ParticleArena) Each(fn func(h Handle, p *Particle)) {
	for i, s := range a.slots {
		if s.particle == nil {
			continue
		}
		fn(Handle{index: uint32(i), generation: s.generation}, s.particle)
	}
}

// Particles returns the live particles in slot order
func (a *ParticleArena) Particles() []*Particle {
	particles := make([]*Particle, 0, a.count)
	a.Each(func(_ Handle, p *Particle) {
		particles = append(particles, p)
	})

	return particles
}

// Clear drops every particle. Every previously issued handle becomes stale.
func (a *ParticleArena) Clear() {
	for i := range a.slots {
		if a.slots[i].particle != nil {
			a.slots[i].particle.handle = Handle{}
			a.slots[i].particle = nil
			a.slots[i].generation++
			a.free = append(a.free, uint32(i))
		}
	}
	a.count = 0
}
