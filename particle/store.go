package particle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// MaxParticles bounds a single population
const MaxParticles = 500000

// ErrPopulation is returned when a population request cannot be satisfied
var ErrPopulation = errors.New("particle population failed")

// Store owns the particle collection for one run
// Particles are created once by Populate and never added or removed
type Store struct {
	particles []Particle
}

// Populate allocates n particles with ids 0..n-1 initialized by seed
// seedValue 0 selects a time-based seed
func Populate(n int, seed SeedPolicy, seedValue uint64) (*Store, error) {
	if n <= 0 || n > MaxParticles {
		return nil, fmt.Errorf("%w: count %d outside [1, %d]", ErrPopulation, n, MaxParticles)
	}
	if seed == nil {
		return nil, fmt.Errorf("%w: nil seed policy", ErrPopulation)
	}

	if seedValue == 0 {
		seedValue = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seedValue, seedValue^0x9e3779b97f4a7c15))

	particles := make([]Particle, n)
	for i := range particles {
		p := seed.Seed(i, rng)
		p.ID = i
		if err := check(&p); err != nil {
			return nil, fmt.Errorf("%w: %s seed: %v", ErrPopulation, seed.Name(), err)
		}
		particles[i] = p
	}

	return &Store{particles: particles}, nil
}

// check rejects records the rules cannot integrate
func check(p *Particle) error {
	if p.Mass <= 0 {
		return fmt.Errorf("particle %d: non-positive mass %g", p.ID, p.Mass)
	}
	if p.Radius <= 0 {
		return fmt.Errorf("particle %d: non-positive radius %g", p.ID, p.Radius)
	}
	return nil
}

// Len returns the population size
func (s *Store) Len() int {
	return len(s.particles)
}

// Snapshot returns a copy of all particle state
func (s *Store) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
