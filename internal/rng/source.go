// Package rng provides the seedable random source that drives spawning.
// The same seed always yields the same sequence of draws, and the generator
// position can be captured and restored, so a recorded run replays exactly.
package rng

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// spawnStream is the PCG stream selector for the primary sequence.
const spawnStream = 0x9e3779b97f4a7c15

// Source is a deterministic generator of uniform draws.
type Source struct {
	seed   uint64
	stream uint64
	pcg    *rand.PCG
	rand   *rand.Rand
}

// New creates a source positioned at the start of the sequence for seed.
func New(seed uint64) *Source {
	return newStream(seed, spawnStream)
}

func newStream(seed, stream uint64) *Source {
	pcg := rand.NewPCG(seed, stream)
	return &Source{
		seed:   seed,
		stream: stream,
		pcg:    pcg,
		rand:   rand.New(pcg),
	}
}

// NewSeed returns a time-based seed for interactive runs.
func NewSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Float64 returns the next draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rand.Float64()
}

// Intn returns the next draw in [0, n). Returns 0 when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rand.IntN(n)
}

// Derive returns an independent source for the same seed.
// Draws from a derived source never move the parent's position.
func (s *Source) Derive(stream uint64) *Source {
	return newStream(s.seed, spawnStream^(stream*0xbf58476d1ce4e5b9+1))
}

// State captures the current generator position.
func (s *Source) State() ([]byte, error) {
	data, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("rng: cannot capture state: %w", err)
	}
	return data, nil
}

// Restore moves the generator to a position captured by State.
func (s *Source) Restore(state []byte) error {
	if err := s.pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("rng: cannot restore state: %w", err)
	}
	return nil
}
