package scenario

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queue-sim/sim"
)

func TestLoad_ValidYAML_LoadsCorrectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.yaml")
	yaml := `
version: "1"
seed: 11
days: 2
rng: pcg
trace: decisions
buffers: 3
routing:
  full_threshold: 5
  min_open: 1
arrivals:
  mode: multi-type
  mean: 1.0
  alternate_mean: 5.0
servers:
  clamp: same-type
  service:
    mode: normal
    mean: 2.6
    spread: 1.1
    min: 0.0166
  alternate:
    mode: normal
    mean: 4.1
    spread: 1.1
    min: 0.0166
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	spec, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, spec.Validate())

	assert.Equal(t, int64(11), spec.Seed)
	assert.Equal(t, 3, spec.Buffers)
	assert.Equal(t, 5, spec.Routing.FullThreshold)
	assert.True(t, spec.IsMultiType())
	assert.Equal(t, 2*MinutesPerDay, spec.StopTime())
	require.NotNil(t, spec.Servers.Alternate)
	assert.Equal(t, 4.1, spec.Servers.Alternate.Mean)

	cfg := spec.ServiceConfig(true)
	assert.Equal(t, sim.ServiceNormal, cfg.Mode)
	assert.Equal(t, sim.ClampSameType, cfg.Clamp)
	require.NotNil(t, cfg.Alternate)
	assert.Equal(t, 4.1, cfg.Alternate.Mean)
	assert.Nil(t, spec.ServiceConfig(false).Alternate)
}

func TestLoad_UnknownField_Rejected(t *testing.T) {
	_, err := Parse([]byte("seed: 1\narivals:\n  mode: exponential\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")
}

func TestSpec_StopTime(t *testing.T) {
	assert.Equal(t, 10.0, (&Spec{Horizon: 10, Days: 3}).StopTime())
	assert.Equal(t, 3*MinutesPerDay, (&Spec{Days: 3}).StopTime())
	assert.True(t, math.IsInf((&Spec{}).StopTime(), 1))
}

func TestSpec_ExponentialServiceDefaultsMean(t *testing.T) {
	spec := &Spec{Servers: ServersSpec{Service: ServiceSpec{Mode: "exponential"}}}
	assert.Equal(t, sim.DefaultServiceMean, spec.ServiceConfig(false).Regular.Mean)
}

func TestSpec_Validate_Errors(t *testing.T) {
	valid := func() *Spec { return PresetBank() }
	tests := []struct {
		name   string
		mutate func(s *Spec)
		want   string
	}{
		{"bad version", func(s *Spec) { s.Version = "9" }, "unsupported version"},
		{"negative horizon", func(s *Spec) { s.Horizon = -1 }, "horizon"},
		{"infinite horizon", func(s *Spec) { s.Horizon = math.Inf(1) }, "horizon"},
		{"negative days", func(s *Spec) { s.Days = -1 }, "days"},
		{"unknown rng", func(s *Spec) { s.RNG = "mt19937" }, "unknown rng"},
		{"unknown trace", func(s *Spec) { s.Trace = "verbose" }, "unknown trace level"},
		{"unknown arrival mode", func(s *Spec) { s.Arrivals.Mode = "batch" }, "arrivals"},
		{"missing alternate mean", func(s *Spec) { s.Arrivals.AlternateMean = 0 }, "arrivals"},
		{"no buffers", func(s *Spec) { s.Buffers = 0 }, "buffers"},
		{"no alternate service", func(s *Spec) { s.Servers.Alternate = nil }, "servers.alternate"},
		{"negative threshold", func(s *Spec) { s.Routing.MinOpen = -1 }, "routing"},
		{"mismatched modes", func(s *Spec) { s.Servers.Alternate.Mode = "exponential" }, "must match"},
		{"NaN spread", func(s *Spec) { s.Servers.Service.Spread = math.NaN() }, "servers.service.spread"},
		{"first non-finite field reported", func(s *Spec) {
			s.Servers.Service.Min = math.Inf(1)
			s.Servers.Service.Mean = math.NaN()
		}, "servers.service.mean"},
		{"negative min", func(s *Spec) { s.Servers.Alternate.Min = -1 }, "servers"},
		{"unknown clamp", func(s *Spec) { s.Servers.Clamp = "nearest" }, "clamp"},
		{"single-type with many buffers", func(s *Spec) {
			s.Arrivals = ArrivalSpec{Mode: "exponential", Mean: 1}
		}, "single buffer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
