package variate

import (
	"math"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedStreams Tests ===

func TestPartitionedStreams_DeterministicDerivation(t *testing.T) {
	// GIVEN two providers with the same key
	p1 := NewPartitionedStreams(NewSimulationKey(42))
	p2 := NewPartitionedStreams(NewSimulationKey(42))

	// WHEN drawing 3 values from the arrivals subsystem in each
	for i := 0; i < 3; i++ {
		v1 := p1.ForSubsystem(SubsystemArrivals).Exponential(1)
		v2 := p2.ForSubsystem(SubsystemArrivals).Exponential(1)

		// THEN the sequences are identical
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedStreams_SubsystemIsolation(t *testing.T) {
	// GIVEN two providers with the same key
	a := NewPartitionedStreams(NewSimulationKey(42))
	b := NewPartitionedStreams(NewSimulationKey(42))

	// WHEN A draws heavily from the arrivals stream before touching a server stream
	for i := 0; i < 10; i++ {
		a.ForSubsystem(SubsystemArrivals).Exponential(1)
	}
	aFirst := a.ForSubsystem(SubsystemServer("teller_0")).Normal(2.6, 1.1)
	bFirst := b.ForSubsystem(SubsystemServer("teller_0")).Normal(2.6, 1.1)

	// THEN the server stream is unaffected
	if aFirst != bFirst {
		t.Errorf("server first value = %v, want %v (isolation broken)", aFirst, bFirst)
	}
}

func TestPartitionedStreams_DifferentSubsystemsDiffer(t *testing.T) {
	p := NewPartitionedStreams(NewSimulationKey(7))
	x := p.ForSubsystem(SubsystemServer("a")).Exponential(1)
	y := p.ForSubsystem(SubsystemServer("b")).Exponential(1)
	if x == y {
		t.Errorf("streams for different servers produced the same first value %v", x)
	}
}

func TestPartitionedStreams_CachesInstance(t *testing.T) {
	// GIVEN a provider
	p := NewPartitionedStreams(NewSimulationKey(42))

	// WHEN the same subsystem is requested twice
	s1 := p.ForSubsystem(SubsystemArrivals)
	s2 := p.ForSubsystem(SubsystemArrivals)

	// THEN the same instance is returned
	if s1 != s2 {
		t.Error("ForSubsystem returned different instances for the same name")
	}
	if p.Key() != 42 {
		t.Errorf("Key() = %d, want 42", p.Key())
	}
}

func TestSubsystemServer_Naming(t *testing.T) {
	if got := SubsystemServer("combined"); got != "server_combined" {
		t.Errorf("SubsystemServer(combined) = %q, want server_combined", got)
	}
}

func TestRngStreams_CachesAndStaysInUnitRange(t *testing.T) {
	// GIVEN an MRG32k3a provider
	r := NewRngStreams(NewSimulationKey(42))

	// WHEN the same subsystem is requested twice
	s1 := r.ForSubsystem(SubsystemArrivals)
	s2 := r.ForSubsystem(SubsystemArrivals)

	// THEN it is cached and its draws are valid durations
	if s1 != s2 {
		t.Error("ForSubsystem returned different instances for the same name")
	}
	for i := 0; i < 100; i++ {
		if v := s1.Exponential(2); v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("draw %d = %v, want finite non-negative", i, v)
		}
	}
}

func TestRngStreams_SameKeySameDraws_IndependentOfRequestOrder(t *testing.T) {
	// GIVEN two providers with the same key, asked for subsystems in opposite orders
	a := NewRngStreams(NewSimulationKey(3))
	b := NewRngStreams(NewSimulationKey(3))
	aArr := a.ForSubsystem(SubsystemArrivals)
	aSrv := a.ForSubsystem(SubsystemServer("0"))
	bSrv := b.ForSubsystem(SubsystemServer("0"))
	bArr := b.ForSubsystem(SubsystemArrivals)

	// THEN each subsystem produces the same sequence in both providers
	for i := 0; i < 50; i++ {
		if x, y := aArr.Exponential(1), bArr.Exponential(1); x != y {
			t.Fatalf("arrivals draw %d: %v != %v", i, x, y)
		}
		if x, y := aSrv.Exponential(1), bSrv.Exponential(1); x != y {
			t.Fatalf("server draw %d: %v != %v", i, x, y)
		}
	}
}

func TestRngStreams_DifferentKeysDiffer(t *testing.T) {
	a := NewRngStreams(NewSimulationKey(3)).ForSubsystem(SubsystemArrivals)
	b := NewRngStreams(NewSimulationKey(4)).ForSubsystem(SubsystemArrivals)
	same := true
	for i := 0; i < 10; i++ {
		if a.Exponential(1) != b.Exponential(1) {
			same = false
		}
	}
	if same {
		t.Error("keys 3 and 4 produced identical arrival streams")
	}
}

func TestMrgSeed_WithinModuli(t *testing.T) {
	for _, key := range []int64{0, 1, -1, math.MaxInt64} {
		seed := mrgSeed(NewSimulationKey(key), SubsystemArrivals)
		if len(seed) != 6 {
			t.Fatalf("len(seed) = %d, want 6", len(seed))
		}
		for i, v := range seed {
			m := uint64(mrgModulus1)
			if i >= 3 {
				m = mrgModulus2
			}
			if v == 0 || v >= m {
				t.Errorf("key %d: seed[%d] = %d, want in [1, %d)", key, i, v, m)
			}
		}
	}
}
