// sim/scheduler.go
package sim

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrInvalidTime is matched (via errors.Is) by every InvalidTimeError.
var ErrInvalidTime = errors.New("invalid event time")

// InvalidTimeError reports an attempt to schedule an event before the current simulation time.
type InvalidTimeError struct {
	Now float64 // Scheduler time when Schedule was called
	At  float64 // Requested fire time
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("cannot schedule event at %g: current time is %g", e.At, e.Now)
}

// Is lets errors.Is(err, ErrInvalidTime) succeed for any InvalidTimeError.
func (e *InvalidTimeError) Is(target error) bool { return target == ErrInvalidTime }

// SchedulerState is the lifecycle state of a Scheduler.
type SchedulerState int

const (
	NotStarted SchedulerState = iota
	Running
	Stopped
)

func (s SchedulerState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StopReason tells why Run returned.
type StopReason string

const (
	StopDrained StopReason = "drained" // no pending events left
	StopHalted  StopReason = "halted"  // a process called Halt
	StopHorizon StopReason = "horizon" // the next event lies beyond the stop time
)

// RunResult summarizes a finished run.
type RunResult struct {
	Reason           StopReason
	EndTime          float64 // time of the last dispatched event
	EventsDispatched int64
}

// Scheduler is the event list that drives simulated time.
// It dispatches events in non-decreasing time order, breaking ties by insertion order.
//
// Thread-safety: NOT thread-safe. A scheduler and every process wired to it
// must be used from a single goroutine.
type Scheduler struct {
	queue     eventQueue
	now       float64
	nextSeqID int64
	state     SchedulerState
	halt      bool
	inRun     bool
	result    RunResult
	observers []func(now float64)
	log       logrus.Ext1FieldLogger
}

// NewScheduler creates an empty scheduler at time 0.
// A nil logger discards trace output.
func NewScheduler(log logrus.Ext1FieldLogger) *Scheduler {
	if log == nil {
		log = discardLogger()
	}
	s := &Scheduler{
		queue: make(eventQueue, 0),
		log:   log,
	}
	heap.Init(&s.queue)
	return s
}

// Now returns the current simulation time.
func (s *Scheduler) Now() float64 { return s.now }

// State returns the lifecycle state.
func (s *Scheduler) State() SchedulerState { return s.state }

// Pending returns the number of events not yet dispatched.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Schedule inserts an event for target at time at.
// Returns an *InvalidTimeError if at is earlier than the current time or not a number.
func (s *Scheduler) Schedule(target Process, eventType int, at float64) error {
	if target == nil {
		panic("Scheduler.Schedule: target must not be nil")
	}
	if math.IsNaN(at) || at < s.now {
		return &InvalidTimeError{Now: s.now, At: at}
	}
	heap.Push(&s.queue, event{target: target, eventType: eventType, time: at, seqID: s.nextSeqID})
	s.nextSeqID++
	return nil
}

// Observe registers fn to be called after every dispatched reaction returns.
func (s *Scheduler) Observe(fn func(now float64)) {
	s.observers = append(s.observers, fn)
}

// Halt stops the run after the currently dispatching reaction returns.
// Events already pending are never dispatched afterwards.
func (s *Scheduler) Halt() {
	s.halt = true
}

// Run dispatches events until none are pending, Halt is called, or the next event
// fires after stopTime. Pass math.Inf(1) to run until halted or drained.
// A stopped scheduler cannot be resumed; calling Run again returns the first result.
func (s *Scheduler) Run(stopTime float64) RunResult {
	if s.inRun {
		panic("Scheduler.Run: called reentrantly from a process reaction")
	}
	if s.state == Stopped {
		return s.result
	}
	s.state = Running
	s.inRun = true
	defer func() { s.inRun = false }()

	s.log.Debugf("[t=%.4f] Simulation started (stop time %g, %d pending)", s.now, stopTime, s.queue.Len())
	reason := StopDrained
	for s.queue.Len() > 0 {
		if s.halt {
			reason = StopHalted
			break
		}
		if s.queue[0].time > stopTime {
			reason = StopHorizon
			break
		}
		ev := heap.Pop(&s.queue).(event)
		s.now = ev.time
		s.result.EventsDispatched++
		s.log.Tracef("[t=%.4f] Executing %T event type %d", s.now, ev.target, ev.eventType)
		ev.target.React(ev.eventType, ev.time)
		for _, fn := range s.observers {
			fn(s.now)
		}
	}
	if reason == StopDrained && s.halt {
		reason = StopHalted
	}

	s.state = Stopped
	s.result.Reason = reason
	s.result.EndTime = s.now
	s.log.Debugf("[t=%.4f] Simulation ended (%s, %d events)", s.now, reason, s.result.EventsDispatched)
	return s.result
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
