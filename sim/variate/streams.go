package variate

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical scenario
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

// SubsystemArrivals is the stream used by arrival generators.
const SubsystemArrivals = "arrivals"

// SubsystemServer returns the subsystem name for the named server.
// Each server draws from its own stream so adding a server never shifts another's draws.
func SubsystemServer(name string) string {
	return fmt.Sprintf("server_%s", name)
}

// Provider hands out one variate Source per subsystem.
type Provider interface {
	ForSubsystem(name string) *Source
}

// === PartitionedStreams ===

// PartitionedStreams provides deterministic, isolated PCG streams per subsystem.
//
// Derivation formula: PCG(seed1 = masterSeed, seed2 = fnv1a64(subsystemName)).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedStreams struct {
	key        SimulationKey
	subsystems map[string]*Source
}

// NewPartitionedStreams creates PartitionedStreams from a SimulationKey.
func NewPartitionedStreams(key SimulationKey) *PartitionedStreams {
	return &PartitionedStreams{
		key:        key,
		subsystems: make(map[string]*Source),
	}
}

// ForSubsystem returns a deterministically-seeded Source for the named subsystem.
// The same subsystem name always returns the same *Source instance (cached).
// Never returns nil.
func (p *PartitionedStreams) ForSubsystem(name string) *Source {
	if src, ok := p.subsystems[name]; ok {
		return src
	}
	rng := rand.New(rand.NewPCG(uint64(p.key), fnv1a64(name)))
	src := NewSource(rng)
	p.subsystems[name] = src
	return src
}

// Key returns the SimulationKey used to create these streams.
func (p *PartitionedStreams) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
