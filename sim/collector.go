package sim

// Record is the immutable trace of one completed entity.
type Record struct {
	EntityID int64
	Type     EntityType
	Timeline []Stamp
}

// Arrival returns the creation time.
func (r Record) Arrival() float64 {
	t, _ := stampTime(r.Timeline, LabelCreation)
	return t
}

// ServiceStart returns the time service started.
func (r Record) ServiceStart() float64 {
	t, _ := stampTime(r.Timeline, LabelServiceStart)
	return t
}

// Completion returns the time service finished.
func (r Record) Completion() float64 {
	t, _ := stampTime(r.Timeline, LabelServiceFinish)
	return t
}

// Wait returns the time spent queued before service.
func (r Record) Wait() float64 { return r.ServiceStart() - r.Arrival() }

// Sojourn returns the total time spent in the network.
func (r Record) Sojourn() float64 { return r.Completion() - r.Arrival() }

// Location returns the name of the component that served the entity.
func (r Record) Location() string {
	for _, s := range r.Timeline {
		if s.Label == LabelServiceFinish {
			return s.Location
		}
	}
	return ""
}

// Collector is the terminal sink. It records each entity's timeline and drops the entity.
type Collector struct {
	name    string
	records []Record
}

// NewCollector creates an empty collector.
func NewCollector(name string) *Collector {
	return &Collector{name: name, records: make([]Record, 0)}
}

// Name returns the collector name.
func (c *Collector) Name() string { return c.name }

// Receive implements Sink. Always succeeds.
func (c *Collector) Receive(e *Entity) {
	if e == nil {
		panic("Collector.Receive: entity must not be nil")
	}
	c.records = append(c.records, Record{EntityID: e.ID, Type: e.Type, Timeline: e.Timeline()})
}

// Len returns the number of recorded entities.
func (c *Collector) Len() int { return len(c.records) }

// Records returns the recorded entities in completion order.
// The returned records are copies; the collector's history is never mutated.
func (c *Collector) Records() []Record {
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		tl := make([]Stamp, len(r.Timeline))
		copy(tl, r.Timeline)
		out[i] = Record{EntityID: r.EntityID, Type: r.Type, Timeline: tl}
	}
	return out
}
