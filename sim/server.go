package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ServerStatus is the lifecycle state of a Server.
type ServerStatus string

const (
	Idle ServerStatus = "idle"
	Busy ServerStatus = "busy"
)

// Sink receives entities that have completed service.
type Sink interface {
	Receive(e *Entity)
}

// ServerSources lists the buffers a server pulls from.
// Alternate is set only for a combined server; it is always tried before Regular.
type ServerSources struct {
	Regular   *Buffer
	Alternate *Buffer
}

// Server serves one entity at a time. It pulls from its buffer(s) when idle,
// draws a service duration keyed by the entity type, and hands the entity to its sink
// when the completion event fires.
type Server struct {
	name    string
	sched   *Scheduler
	service serviceProcess
	sources ServerSources
	sink    Sink
	log     logrus.Ext1FieldLogger

	status     ServerStatus
	current    *Entity
	acceptedAt float64
	busyTime   float64
	served     int64
}

// NewServer creates an idle server and wires it to its buffers.
// Call Start once the network is assembled to perform the initial pull.
func NewServer(name string, sched *Scheduler, cfg ServiceConfig, src VariateSource,
	sources ServerSources, sink Sink) (*Server, error) {
	if sched == nil {
		return nil, fmt.Errorf("server %q: scheduler must not be nil", name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("server %q: %w", name, err)
	}
	if cfg.Mode != ServiceSchedule && src == nil {
		return nil, fmt.Errorf("server %q: %s service needs a variate source", name, cfg.Mode)
	}
	if sources.Regular == nil {
		return nil, fmt.Errorf("server %q: a regular source buffer is required", name)
	}
	if sources.Alternate != nil && cfg.Mode != ServiceSchedule && cfg.Alternate == nil {
		return nil, fmt.Errorf("server %q: a combined server needs alternate service parameters", name)
	}
	if sink == nil {
		return nil, fmt.Errorf("server %q: sink must not be nil", name)
	}

	s := &Server{
		name:    name,
		sched:   sched,
		service: newServiceProcess(cfg, src),
		sources: sources,
		sink:    sink,
		log:     sched.log,
		status:  Idle,
	}
	sources.Regular.Attach(s)
	if sources.Alternate != nil {
		sources.Alternate.Attach(s)
	}
	return s, nil
}

// Name returns the server name.
func (s *Server) Name() string { return s.name }

// Status returns Idle or Busy.
func (s *Server) Status() ServerStatus { return s.status }

// Current returns the entity in service, or nil when idle.
func (s *Server) Current() *Entity { return s.current }

// Served returns the number of completed services.
func (s *Server) Served() int64 { return s.served }

// BusyTime returns the accumulated busy time up to now, including the service in progress.
func (s *Server) BusyTime(now float64) float64 {
	if s.status == Busy {
		return s.busyTime + (now - s.acceptedAt)
	}
	return s.busyTime
}

// Start performs the initial pull.
func (s *Server) Start() {
	s.pull(s.sched.Now())
}

// Wake implements Consumer: an upstream buffer has received an entity.
func (s *Server) Wake() {
	if s.status == Idle {
		s.pull(s.sched.Now())
	}
}

// Offer hands an entity to the server. It is accepted only while idle.
func (s *Server) Offer(e *Entity) bool {
	if s.status != Idle || !s.service.available() {
		return false
	}
	s.accept(e, s.sched.Now())
	return true
}

// React implements Process: the completion of the entity in service.
func (s *Server) React(eventType int, now float64) {
	if s.status != Busy || s.current == nil {
		panic(fmt.Sprintf("Server.React: %s received completion event type %d while idle", s.name, eventType))
	}
	s.log.Debugf("Service complete at time = %g (%s, entity %d)", now, s.name, s.current.ID)

	e := s.current
	e.Stamp(now, LabelServiceFinish, s.name)
	s.current = nil
	s.status = Idle
	s.busyTime += now - s.acceptedAt
	s.served++
	s.sink.Receive(e)

	s.pull(now)
}

// pull asks the source buffers for work, alternate buffer first.
// A server whose finite schedule is used up halts the run instead.
func (s *Server) pull(now float64) {
	if !s.service.available() {
		s.log.Debugf("[t=%g] %s: service schedule exhausted, halting (%d queued)", now, s.name, s.queued())
		s.sched.Halt()
		return
	}
	if s.sources.Alternate != nil {
		if e, ok := s.sources.Alternate.RequestNext(); ok {
			s.accept(e, now)
			return
		}
	}
	if e, ok := s.sources.Regular.RequestNext(); ok {
		s.accept(e, now)
	}
}

func (s *Server) queued() int {
	n := s.sources.Regular.Len()
	if s.sources.Alternate != nil {
		n += s.sources.Alternate.Len()
	}
	return n
}

func (s *Server) accept(e *Entity, now float64) {
	d, ok := s.service.duration(e.Type)
	if !ok {
		panic(fmt.Sprintf("Server.accept: %s has no service duration left", s.name))
	}
	e.Stamp(now, LabelServiceStart, s.name)
	s.current = e
	s.status = Busy
	s.acceptedAt = now
	if err := s.sched.Schedule(s, s.service.eventType(e.Type), now+d); err != nil {
		panic(fmt.Sprintf("Server.accept: %s: %v", s.name, err))
	}
}
