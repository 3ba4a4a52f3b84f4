package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim/trace"
)

// Network is one assembled simulation run: a scheduler and every process wired to it.
// Built by sim/scenario; tests may assemble one by hand.
type Network struct {
	Scheduler  *Scheduler
	Generators []*Generator
	Buffers    []*Buffer
	Servers    []*Server
	Collector  *Collector
	Trace      *trace.SimulationTrace // nil when routing tracing is disabled
	Horizon    float64                // stop time; <= 0 runs until halted or drained
	Log        logrus.Ext1FieldLogger

	started bool
}

// Census counts where entities are at one instant.
type Census struct {
	Created   int64
	Queued    int64
	InService int64
	Collected int64
}

// Balanced reports whether every created entity is owned by exactly one component.
func (c Census) Balanced() bool {
	return c.Created == c.Queued+c.InService+c.Collected
}

func (c Census) String() string {
	return fmt.Sprintf("created=%d queued=%d in-service=%d collected=%d",
		c.Created, c.Queued, c.InService, c.Collected)
}

// Start schedules the first arrivals and lets every server make its initial pull.
// Calling Start more than once has no effect.
func (n *Network) Start() error {
	if n.started {
		return nil
	}
	n.started = true
	for _, s := range n.Servers {
		s.Start()
	}
	for _, g := range n.Generators {
		if err := g.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the network if needed and runs the scheduler up to the horizon.
func (n *Network) Run() (RunResult, error) {
	if err := n.Start(); err != nil {
		return RunResult{}, err
	}
	stop := n.Horizon
	if stop <= 0 {
		stop = math.Inf(1)
	}
	res := n.Scheduler.Run(stop)
	if n.Log != nil {
		n.Log.Infof("Run finished: %s at t=%g after %d events; %s",
			res.Reason, res.EndTime, res.EventsDispatched, n.Census())
	}
	return res, nil
}

// Census counts the entities currently held by each kind of component.
func (n *Network) Census() Census {
	var c Census
	for _, g := range n.Generators {
		c.Created += g.Created()
	}
	for _, b := range n.Buffers {
		c.Queued += int64(b.Len())
	}
	for _, s := range n.Servers {
		if s.Current() != nil {
			c.InService++
		}
	}
	if n.Collector != nil {
		c.Collected = int64(n.Collector.Len())
	}
	return c
}
