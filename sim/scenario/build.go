package scenario

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/trace"
	"github.com/inference-sim/queue-sim/sim/variate"
)

// Component names used by Build. They double as timeline locations and stream names.
const (
	GeneratorName         = "source"
	CollectorName         = "sink"
	CombinedServerName    = "server_combined"
	CombinedRegularName   = "combined_regular"
	CombinedAlternateName = "combined_alternate"
)

// BufferName returns the name of the i-th dedicated buffer.
func BufferName(i int) string { return fmt.Sprintf("queue_%d", i) }

// ServerName returns the name of the server draining the i-th dedicated buffer.
// Server names are also their random stream names.
func ServerName(i int) string { return variate.SubsystemServer(strconv.Itoa(i)) }

// Options customizes Build.
type Options struct {
	// Log receives the run's trace lines. Nil discards them.
	Log logrus.Ext1FieldLogger
	// Streams overrides the random streams selected by Spec.RNG.
	Streams variate.Provider
}

// NewStreams returns the stream provider selected by spec.RNG.
func NewStreams(spec *Spec) variate.Provider {
	if spec.RNG == RNGRngStream {
		return variate.NewRngStreams(variate.NewSimulationKey(spec.Seed))
	}
	return variate.NewPartitionedStreams(variate.NewSimulationKey(spec.Seed))
}

// Build validates spec and assembles a network ready to Run.
func Build(spec *Spec, opts Options) (*sim.Network, error) {
	if spec == nil {
		return nil, fmt.Errorf("scenario must not be nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	streams := opts.Streams
	if streams == nil {
		streams = NewStreams(spec)
	}

	n := &sim.Network{
		Scheduler: sim.NewScheduler(log),
		Collector: sim.NewCollector(CollectorName),
		Horizon:   spec.StopTime(),
		Log:       log,
	}
	var genOpts []sim.GeneratorOption
	if level := trace.TraceLevel(spec.Trace); level.Enabled() {
		n.Trace = trace.NewSimulationTrace(level)
		genOpts = append(genOpts, sim.WithRoutingTrace(n.Trace))
	}

	var targets sim.GeneratorTargets
	if spec.IsMultiType() {
		for i := 0; i < spec.Buffers; i++ {
			buf := sim.NewBuffer(BufferName(i))
			if _, err := addServer(n, ServerName(i), spec.ServiceConfig(false), streams,
				sim.ServerSources{Regular: buf}); err != nil {
				return nil, err
			}
			n.Buffers = append(n.Buffers, buf)
			targets.Regular = append(targets.Regular, buf)
		}
		targets.CombinedRegular = sim.NewBuffer(CombinedRegularName)
		targets.CombinedAlternate = sim.NewBuffer(CombinedAlternateName)
		if _, err := addServer(n, CombinedServerName, spec.ServiceConfig(true), streams,
			sim.ServerSources{Regular: targets.CombinedRegular, Alternate: targets.CombinedAlternate}); err != nil {
			return nil, err
		}
		n.Buffers = append(n.Buffers, targets.CombinedRegular, targets.CombinedAlternate)

		policy := sim.NewThresholdShortestQueue()
		if spec.Routing.FullThreshold > 0 {
			policy.FullThreshold = spec.Routing.FullThreshold
		}
		if spec.Routing.MinOpen > 0 {
			policy.MinOpen = spec.Routing.MinOpen
		}
		genOpts = append(genOpts, sim.WithRoutingPolicy(policy))
	} else {
		buf := sim.NewBuffer(BufferName(0))
		if _, err := addServer(n, ServerName(0), spec.ServiceConfig(false), streams,
			sim.ServerSources{Regular: buf}); err != nil {
			return nil, err
		}
		n.Buffers = append(n.Buffers, buf)
		targets.Single = buf
	}

	gen, err := sim.NewGenerator(GeneratorName, n.Scheduler, spec.ArrivalConfig(),
		streams.ForSubsystem(variate.SubsystemArrivals), targets, genOpts...)
	if err != nil {
		return nil, err
	}
	n.Generators = append(n.Generators, gen)

	log.Debugf("Built scenario: %d buffers, %d servers, stop time %g", len(n.Buffers), len(n.Servers), n.Horizon)
	return n, nil
}

func addServer(n *sim.Network, name string, cfg sim.ServiceConfig, streams variate.Provider,
	sources sim.ServerSources) (*sim.Server, error) {
	srv, err := sim.NewServer(name, n.Scheduler, cfg, streams.ForSubsystem(name),
		sources, n.Collector)
	if err != nil {
		return nil, err
	}
	n.Servers = append(n.Servers, srv)
	return srv, nil
}
