package sim

import "fmt"

// VariateSource draws the random durations the network needs.
// Implementations return values >= 0; the numerical method is theirs.
// Implementations live in sim/variate.
type VariateSource interface {
	Exponential(mean float64) float64
	Normal(mean, spread float64) float64
}

// ArrivalMode selects how a generator produces inter-arrival times.
type ArrivalMode string

const (
	ArrivalExponential ArrivalMode = "exponential" // single buffer, exponential(mean)
	ArrivalSchedule    ArrivalMode = "schedule"    // single buffer, pre-specified intervals
	ArrivalMultiType   ArrivalMode = "multi-type"  // regular + alternate streams over many buffers
)

// ExhaustAction decides what a finite schedule does once it runs out.
type ExhaustAction string

const (
	// ExhaustHalt halts the scheduler: the simulation ends with its driving schedule.
	ExhaustHalt ExhaustAction = "halt"
	// ExhaustDrain stops producing and lets the rest of the network run down.
	ExhaustDrain ExhaustAction = "drain"
)

// ArrivalConfig enumerates the recognized generator options.
type ArrivalConfig struct {
	Mode          ArrivalMode
	Mean          float64       // regular (or only) stream mean inter-arrival time
	AlternateMean float64       // alternate stream mean, ArrivalMultiType only
	Intervals     []float64     // ArrivalSchedule only; Intervals[0] is the first arrival time
	OnExhaust     ExhaustAction // ArrivalSchedule only; empty means ExhaustHalt
}

// Validate checks that the options match the selected mode.
func (c ArrivalConfig) Validate() error {
	switch c.Mode {
	case ArrivalExponential:
		if c.Mean <= 0 {
			return fmt.Errorf("exponential arrivals need a positive mean, got %g", c.Mean)
		}
	case ArrivalMultiType:
		if c.Mean <= 0 || c.AlternateMean <= 0 {
			return fmt.Errorf("multi-type arrivals need positive means, got %g and %g", c.Mean, c.AlternateMean)
		}
	case ArrivalSchedule:
		if len(c.Intervals) == 0 {
			return fmt.Errorf("scheduled arrivals need at least one interval")
		}
		for i, v := range c.Intervals {
			if v < 0 {
				return fmt.Errorf("arrival interval %d is negative (%g)", i, v)
			}
		}
		if c.OnExhaust != "" && c.OnExhaust != ExhaustHalt && c.OnExhaust != ExhaustDrain {
			return fmt.Errorf("unknown exhaust action %q", c.OnExhaust)
		}
	default:
		return fmt.Errorf("unknown arrival mode %q", c.Mode)
	}
	return nil
}

// arrivalProcess produces the delay until the next arrival of a given type.
// ok is false once a finite schedule is exhausted.
type arrivalProcess interface {
	first() []scheduledArrival
	next(typ EntityType) (delay float64, ok bool)
}

type scheduledArrival struct {
	typ EntityType
	at  float64
}

type exponentialArrivals struct {
	src   VariateSource
	means map[EntityType]float64
	types []EntityType
}

func (a *exponentialArrivals) first() []scheduledArrival {
	out := make([]scheduledArrival, 0, len(a.types))
	for _, t := range a.types {
		out = append(out, scheduledArrival{typ: t, at: a.src.Exponential(a.means[t])})
	}
	return out
}

func (a *exponentialArrivals) next(typ EntityType) (float64, bool) {
	mean, ok := a.means[typ]
	if !ok {
		panic(fmt.Sprintf("exponentialArrivals.next: no stream for %s entities", typ))
	}
	return a.src.Exponential(mean), true
}

type scheduledArrivals struct {
	intervals []float64
	cursor    int
}

func (a *scheduledArrivals) first() []scheduledArrival {
	a.cursor = 0
	return []scheduledArrival{{typ: RegularEntity, at: a.intervals[0]}}
}

func (a *scheduledArrivals) next(EntityType) (float64, bool) {
	a.cursor++
	if a.cursor >= len(a.intervals) {
		return 0, false
	}
	return a.intervals[a.cursor], true
}

func newArrivalProcess(cfg ArrivalConfig, src VariateSource) arrivalProcess {
	switch cfg.Mode {
	case ArrivalSchedule:
		intervals := make([]float64, len(cfg.Intervals))
		copy(intervals, cfg.Intervals)
		return &scheduledArrivals{intervals: intervals}
	case ArrivalMultiType:
		return &exponentialArrivals{
			src:   src,
			means: map[EntityType]float64{RegularEntity: cfg.Mean, AlternateEntity: cfg.AlternateMean},
			types: []EntityType{RegularEntity, AlternateEntity},
		}
	default:
		return &exponentialArrivals{
			src:   src,
			means: map[EntityType]float64{RegularEntity: cfg.Mean},
			types: []EntityType{RegularEntity},
		}
	}
}
