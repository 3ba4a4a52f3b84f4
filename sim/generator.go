package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim/trace"
)

// GeneratorTargets lists the buffers a generator feeds.
// Single-buffer modes use Single; ArrivalMultiType uses the other three fields.
type GeneratorTargets struct {
	Single            *Buffer
	Regular           []*Buffer
	CombinedRegular   *Buffer
	CombinedAlternate *Buffer
}

// Generator is an arrival source. Each of its events creates one entity of the event's
// type, routes it to a buffer, and schedules the next arrival of the same type.
type Generator struct {
	name     string
	sched    *Scheduler
	mode     ArrivalMode
	arrivals arrivalProcess
	onExh    ExhaustAction
	targets  GeneratorTargets
	policy   RoutingPolicy
	trace    *trace.SimulationTrace
	log      logrus.Ext1FieldLogger

	nextID    int64
	exhausted bool
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithRoutingPolicy replaces the default ThresholdShortestQueue policy.
func WithRoutingPolicy(p RoutingPolicy) GeneratorOption {
	return func(g *Generator) { g.policy = p }
}

// WithRoutingTrace records every routing decision into st.
func WithRoutingTrace(st *trace.SimulationTrace) GeneratorOption {
	return func(g *Generator) { g.trace = st }
}

// WithGeneratorLogger sets the logger used for arrival trace lines.
func WithGeneratorLogger(l logrus.Ext1FieldLogger) GeneratorOption {
	return func(g *Generator) { g.log = l }
}

// NewGenerator creates a generator. The first arrivals are scheduled by Start.
func NewGenerator(name string, sched *Scheduler, cfg ArrivalConfig, src VariateSource,
	targets GeneratorTargets, opts ...GeneratorOption) (*Generator, error) {
	if sched == nil {
		return nil, fmt.Errorf("generator %q: scheduler must not be nil", name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator %q: %w", name, err)
	}
	if cfg.Mode != ArrivalSchedule && src == nil {
		return nil, fmt.Errorf("generator %q: %s arrivals need a variate source", name, cfg.Mode)
	}
	if cfg.Mode == ArrivalMultiType {
		if len(targets.Regular) == 0 || targets.CombinedRegular == nil || targets.CombinedAlternate == nil {
			return nil, fmt.Errorf("generator %q: multi-type arrivals need regular and combined buffers", name)
		}
	} else if targets.Single == nil {
		return nil, fmt.Errorf("generator %q: %s arrivals need a target buffer", name, cfg.Mode)
	}

	g := &Generator{
		name:     name,
		sched:    sched,
		mode:     cfg.Mode,
		arrivals: newArrivalProcess(cfg, src),
		onExh:    cfg.OnExhaust,
		targets:  targets,
		policy:   NewThresholdShortestQueue(),
		log:      sched.log,
	}
	if g.onExh == "" {
		g.onExh = ExhaustHalt
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the generator name.
func (g *Generator) Name() string { return g.name }

// Created returns the number of entities created so far.
func (g *Generator) Created() int64 { return g.nextID }

// Exhausted reports whether a finite schedule has run out.
func (g *Generator) Exhausted() bool { return g.exhausted }

// Start schedules the first arrival of every stream.
func (g *Generator) Start() error {
	for _, a := range g.arrivals.first() {
		if err := g.sched.Schedule(g, int(a.typ), a.at); err != nil {
			return fmt.Errorf("generator %q: first arrival: %w", g.name, err)
		}
	}
	return nil
}

// React implements Process: one arrival of entity type eventType.
func (g *Generator) React(eventType int, now float64) {
	typ := EntityType(eventType)
	g.log.Debugf("Arrival at time = %g (%s, %s)", now, typ, g.name)

	e := NewEntity(g.nextID, typ)
	g.nextID++
	e.Stamp(now, LabelCreation, g.name)
	g.route(e, now)

	delay, ok := g.arrivals.next(typ)
	if !ok {
		g.exhausted = true
		if g.onExh == ExhaustHalt {
			g.log.Debugf("[t=%g] %s: arrival schedule exhausted, halting", now, g.name)
			g.sched.Halt()
		} else {
			g.log.Debugf("[t=%g] %s: arrival schedule exhausted, draining", now, g.name)
		}
		return
	}
	if err := g.sched.Schedule(g, eventType, now+delay); err != nil {
		panic(fmt.Sprintf("Generator.React: %s: %v", g.name, err))
	}
}

func (g *Generator) route(e *Entity, now float64) {
	if g.mode != ArrivalMultiType {
		g.targets.Single.Admit(e)
		return
	}

	snap := RoutingSnapshot{
		Regular:           make([]int, len(g.targets.Regular)),
		CombinedRegular:   g.targets.CombinedRegular.Len(),
		CombinedAlternate: g.targets.CombinedAlternate.Len(),
	}
	for i, b := range g.targets.Regular {
		snap.Regular[i] = b.Len()
	}

	decision := g.policy.Route(e.Type, snap)
	target := g.resolve(decision)
	if g.trace != nil {
		g.trace.RecordRouting(trace.RoutingRecord{
			EntityID:   e.ID,
			EntityType: int(e.Type),
			Time:       now,
			Target:     target.Name(),
			Reason:     decision.Reason,
			Lengths:    append(snap.Regular, snap.CombinedTotal()),
		})
	}
	target.Admit(e)
}

func (g *Generator) resolve(d RoutingDecision) *Buffer {
	switch {
	case d.Alternate:
		return g.targets.CombinedAlternate
	case d.Target.Combined:
		return g.targets.CombinedRegular
	case d.Target.Index >= 0 && d.Target.Index < len(g.targets.Regular):
		return g.targets.Regular[d.Target.Index]
	}
	// Should never reach here (policy contract ensures a valid target)
	panic(fmt.Sprintf("Generator.route: invalid target %+v", d.Target))
}
