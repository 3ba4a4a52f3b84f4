package sim

import "github.com/sirupsen/logrus"

// testLogger is the standard logger; TestMain sets its level.
func testLogger() logrus.Ext1FieldLogger {
	return logrus.StandardLogger()
}

// recordedEvent is one dispatch seen by a recordingProcess.
type recordedEvent struct {
	name      string
	eventType int
	time      float64
}

// recordingProcess appends every dispatch to a shared log and optionally runs a hook.
type recordingProcess struct {
	name string
	log  *[]recordedEvent
	hook func(eventType int, now float64)
}

func (p *recordingProcess) React(eventType int, now float64) {
	*p.log = append(*p.log, recordedEvent{name: p.name, eventType: eventType, time: now})
	if p.hook != nil {
		p.hook(eventType, now)
	}
}

// scriptedVariates replays fixed draws in order; it repeats the last value when exhausted.
// Recorded arguments let tests check which parameters were used.
type scriptedVariates struct {
	exp        []float64
	normal     []float64
	expMeans   []float64
	normalArgs [][2]float64
}

func (s *scriptedVariates) Exponential(mean float64) float64 {
	s.expMeans = append(s.expMeans, mean)
	return next(&s.exp)
}

func (s *scriptedVariates) Normal(mean, spread float64) float64 {
	s.normalArgs = append(s.normalArgs, [2]float64{mean, spread})
	return next(&s.normal)
}

func next(vals *[]float64) float64 {
	v := (*vals)[0]
	if len(*vals) > 1 {
		*vals = (*vals)[1:]
	}
	return v
}

// countingSink records received entities in order.
type countingSink struct {
	got []*Entity
}

func (c *countingSink) Receive(e *Entity) { c.got = append(c.got, e) }

// newScheduledNetwork assembles one generator, one buffer, one server, and a collector,
// all driven by pre-specified schedules.
func newScheduledNetwork(arrivals, services []float64, onExhaust ExhaustAction, horizon float64) *Network {
	sched := NewScheduler(testLogger())
	buf := NewBuffer("queue_0")
	col := NewCollector("sink")
	srv, err := NewServer("server_0", sched,
		ServiceConfig{Mode: ServiceSchedule, Schedule: services}, nil,
		ServerSources{Regular: buf}, col)
	if err != nil {
		panic(err)
	}
	gen, err := NewGenerator("source_0", sched,
		ArrivalConfig{Mode: ArrivalSchedule, Intervals: arrivals, OnExhaust: onExhaust}, nil,
		GeneratorTargets{Single: buf})
	if err != nil {
		panic(err)
	}
	return &Network{
		Scheduler:  sched,
		Generators: []*Generator{gen},
		Buffers:    []*Buffer{buf},
		Servers:    []*Server{srv},
		Collector:  col,
		Horizon:    horizon,
	}
}
