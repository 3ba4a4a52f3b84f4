package variate

import (
	"fmt"
	"math/rand/v2"

	"github.com/iti/rngstream"
)

// MRG32k3a moduli; seed components must lie in [1, m) for their half of the state.
const (
	mrgModulus1 = 4294967087
	mrgModulus2 = 4294944443
)

// rngStreamUniform adapts an MRG32k3a stream to Uniform.
type rngStreamUniform struct {
	stream *rngstream.RngStream
}

func (u rngStreamUniform) Float64() float64 {
	return u.stream.RandU01()
}

// RngStreams hands out one MRG32k3a stream per subsystem, the generator used by
// network simulators built on github.com/iti/evt.
//
// Seed derivation: the six MRG32k3a seed components are drawn from
// PCG(seed1 = masterSeed, seed2 = fnv1a64(subsystemName)), so a stream depends only on
// the key and its name, never on the order in which subsystems are requested.
//
// Thread-safety: NOT thread-safe. rngstream.New touches package state, so providers
// must be used from a single goroutine.
type RngStreams struct {
	key        SimulationKey
	subsystems map[string]*Source
}

// NewRngStreams creates an empty RngStreams provider for key.
func NewRngStreams(key SimulationKey) *RngStreams {
	return &RngStreams{key: key, subsystems: make(map[string]*Source)}
}

// ForSubsystem returns the cached Source for name, creating and seeding its stream on first use.
func (r *RngStreams) ForSubsystem(name string) *Source {
	if src, ok := r.subsystems[name]; ok {
		return src
	}
	stream := rngstream.New(name)
	if !stream.SetSeed(mrgSeed(r.key, name)) {
		panic(fmt.Sprintf("RngStreams: derived seed rejected for subsystem %q", name))
	}
	src := NewSource(rngStreamUniform{stream: stream})
	r.subsystems[name] = src
	return src
}

// Key returns the SimulationKey used to seed these streams.
func (r *RngStreams) Key() SimulationKey {
	return r.key
}

// mrgSeed derives a valid MRG32k3a seed: every component is non-zero and below its modulus.
func mrgSeed(key SimulationKey, name string) []uint64 {
	rng := rand.New(rand.NewPCG(uint64(key), fnv1a64(name)))
	seed := make([]uint64, 6)
	for i := range seed {
		m := uint64(mrgModulus1)
		if i >= 3 {
			m = mrgModulus2
		}
		seed[i] = 1 + rng.Uint64N(m-1)
	}
	return seed
}
