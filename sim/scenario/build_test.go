package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/internal/testutil"
	"github.com/inference-sim/queue-sim/sim/trace"
	"github.com/inference-sim/queue-sim/sim/variate"
)

func goldenSpec(tc testutil.GoldenTestCase) *Spec {
	return &Spec{
		Version:  "1",
		Horizon:  tc.Horizon,
		Arrivals: ArrivalSpec{Mode: "schedule", Intervals: tc.ArrivalIntervals, OnExhaust: tc.OnExhaust},
		Servers:  ServersSpec{Service: ServiceSpec{Mode: "schedule", Schedule: tc.ServiceDurations}},
	}
}

// TestBuild_GoldenDataset runs every hand-traced schedule scenario.
func TestBuild_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			n, err := Build(goldenSpec(tc), Options{})
			require.NoError(t, err)

			res, err := n.Run()
			require.NoError(t, err)

			assert.Equal(t, tc.Metrics.StopReason, string(res.Reason))
			testutil.AssertFloat64Equal(t, "end_time", tc.Metrics.EndTime, res.EndTime, 1e-9)
			recs := n.Collector.Records()
			require.Len(t, recs, tc.Metrics.Completed)
			var sojourn float64
			for i, want := range tc.Completions {
				testutil.AssertFloat64Equal(t, "arrival", want.Arrival, recs[i].Arrival(), 1e-9)
				testutil.AssertFloat64Equal(t, "service_start", want.ServiceStart, recs[i].ServiceStart(), 1e-9)
				testutil.AssertFloat64Equal(t, "completion", want.Completion, recs[i].Completion(), 1e-9)
				sojourn += recs[i].Sojourn()
			}
			if len(recs) > 0 {
				testutil.AssertFloat64Equal(t, "mean_sojourn", tc.Metrics.MeanSojourn, sojourn/float64(len(recs)), 1e-9)
			}
			assert.True(t, n.Census().Balanced())
		})
	}
}

func TestBuild_Bank_Topology(t *testing.T) {
	// GIVEN the bank preset with routing tracing
	spec := PresetBank()
	spec.Trace = string(trace.TraceLevelDecisions)

	// WHEN built
	n, err := Build(spec, Options{})
	require.NoError(t, err)

	// THEN five dedicated counters and one combined counter are wired
	require.Len(t, n.Servers, 6)
	require.Len(t, n.Buffers, 7)
	assert.Equal(t, ServerName(0), n.Servers[0].Name())
	assert.Equal(t, CombinedServerName, n.Servers[5].Name())
	assert.Equal(t, variate.SubsystemServer("combined"), CombinedServerName)
	assert.Equal(t, BufferName(4), n.Buffers[4].Name())
	assert.Equal(t, CombinedRegularName, n.Buffers[5].Name())
	assert.Equal(t, CombinedAlternateName, n.Buffers[6].Name())
	require.Len(t, n.Generators, 1)
	assert.Equal(t, MinutesPerDay, n.Horizon)
	require.NotNil(t, n.Trace)
}

func TestBuild_Bank_RunsADay(t *testing.T) {
	n, err := Build(PresetBank(), Options{})
	require.NoError(t, err)

	res, err := n.Run()
	require.NoError(t, err)

	assert.Equal(t, sim.StopHorizon, res.Reason)
	assert.LessOrEqual(t, res.EndTime, MinutesPerDay)
	// about 1440 regular and 288 alternate arrivals
	c := n.Census()
	assert.True(t, c.Balanced(), c.String())
	assert.Greater(t, c.Created, int64(1500))
	assert.Less(t, c.Created, int64(2000))
	var alternates int
	for _, r := range n.Collector.Records() {
		assert.GreaterOrEqual(t, r.Wait(), 0.0)
		if r.Type == sim.AlternateEntity {
			alternates++
			assert.Equal(t, CombinedServerName, r.Location())
		}
	}
	assert.Greater(t, alternates, 0)
}

func TestBuild_SameSeed_SameRecords(t *testing.T) {
	for _, rng := range []string{RNGPCG, RNGRngStream} {
		t.Run(rng, func(t *testing.T) {
			assertSameSeedSameRecords(t, rng)
		})
	}
}

func assertSameSeedSameRecords(t *testing.T, rng string) {
	run := func(seed int64) []sim.Record {
		spec := PresetBank()
		spec.RNG = rng
		spec.Seed = seed
		spec.Days = 0
		spec.Horizon = 120
		n, err := Build(spec, Options{})
		require.NoError(t, err)
		_, err = n.Run()
		require.NoError(t, err)
		return n.Collector.Records()
	}

	a, b := run(3), run(3)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, run(4))
}

func TestBuild_RoutingTrace_RecordsEveryArrival(t *testing.T) {
	spec := PresetBank()
	spec.Days = 0
	spec.Horizon = 60
	spec.Trace = "decisions"
	n, err := Build(spec, Options{})
	require.NoError(t, err)
	_, err = n.Run()
	require.NoError(t, err)

	assert.Equal(t, int(n.Census().Created), len(n.Trace.Routings))
	summary := trace.Summarize(n.Trace)
	assert.Equal(t, len(n.Trace.Routings), summary.TotalDecisions)
	assert.Contains(t, summary.TargetDistribution, CombinedAlternateName)
}

func TestBuild_RngStreams(t *testing.T) {
	spec := PresetBank()
	spec.RNG = RNGRngStream
	spec.Days = 0
	spec.Horizon = 30
	n, err := Build(spec, Options{})
	require.NoError(t, err)
	res, err := n.Run()
	require.NoError(t, err)
	assert.Equal(t, sim.StopHorizon, res.Reason)
	assert.True(t, n.Census().Balanced())
	assert.IsType(t, &variate.RngStreams{}, NewStreams(spec))
}

func TestBuild_RoutingOverrides(t *testing.T) {
	// GIVEN a threshold of 1 so every occupied buffer counts as full
	spec := PresetBank()
	spec.Days = 0
	spec.Horizon = 5
	spec.Routing = RoutingSpec{FullThreshold: 1, MinOpen: 5}
	spec.Trace = "decisions"
	n, err := Build(spec, Options{})
	require.NoError(t, err)

	_, err = n.Run()
	require.NoError(t, err)

	// THEN regular arrivals prefer opening idle buffers
	require.NotEmpty(t, n.Trace.Routings)
	first := n.Trace.Routings[0]
	if first.EntityType == int(sim.RegularEntity) {
		assert.Equal(t, BufferName(4), first.Target)
	}
}

func TestBuild_InvalidSpec(t *testing.T) {
	_, err := Build(&Spec{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")

	_, err = Build(nil, Options{})
	assert.Error(t, err)
}

func TestBuild_StreamsOverride(t *testing.T) {
	// GIVEN two builds sharing nothing but an explicit stream provider seed
	spec := PresetPostOffice()
	spec.Horizon = 200
	run := func() []sim.Record {
		n, err := Build(spec, Options{Streams: variate.NewPartitionedStreams(variate.NewSimulationKey(99))})
		require.NoError(t, err)
		_, err = n.Run()
		require.NoError(t, err)
		return n.Collector.Records()
	}
	// THEN the override decides the draws, not spec.Seed
	assert.Equal(t, run(), run())
}
