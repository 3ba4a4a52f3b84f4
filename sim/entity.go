// Defines the Entity that flows through the queueing network.
// Tracks the entity type and an append-only timeline of (time, label, location) stamps.

package sim

import (
	"fmt"
)

// EntityType tags an entity with the arrival stream it came from.
// It doubles as the event type of generator and server events.
type EntityType int

const (
	// RegularEntity is the default customer type (event type 0).
	RegularEntity EntityType = 0
	// AlternateEntity is served only by the combined server (event type 1).
	AlternateEntity EntityType = 1
)

// Other returns the opposite entity type.
func (t EntityType) Other() EntityType {
	if t == RegularEntity {
		return AlternateEntity
	}
	return RegularEntity
}

func (t EntityType) String() string {
	switch t {
	case RegularEntity:
		return "regular"
	case AlternateEntity:
		return "alternate"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Timeline labels stamped by the network components.
const (
	LabelCreation      = "Creation"
	LabelServiceStart  = "Service started"
	LabelServiceFinish = "Service complete"
)

// Stamp is a single timeline entry.
type Stamp struct {
	Time     float64
	Label    string
	Location string
}

// Entity models a single customer's lifecycle in the simulation.
// An entity is owned by exactly one component at a time: its generator, a buffer,
// a server, or the collector once it has been recorded.
type Entity struct {
	ID   int64      // Unique identifier, assigned by the generator in creation order
	Type EntityType // Arrival stream the entity belongs to

	timeline []Stamp
}

// NewEntity creates an entity with an empty timeline.
func NewEntity(id int64, typ EntityType) *Entity {
	return &Entity{ID: id, Type: typ}
}

// Stamp appends a timeline entry. Timelines are non-decreasing in time;
// a stamp earlier than the previous one is an invariant violation.
func (e *Entity) Stamp(t float64, label, location string) {
	if n := len(e.timeline); n > 0 && t < e.timeline[n-1].Time {
		panic(fmt.Sprintf("Entity.Stamp: entity %d stamped at %g before previous stamp at %g",
			e.ID, t, e.timeline[n-1].Time))
	}
	e.timeline = append(e.timeline, Stamp{Time: t, Label: label, Location: location})
}

// Timeline returns a copy of the entity's stamps.
func (e *Entity) Timeline() []Stamp {
	out := make([]Stamp, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// StampTime returns the time of the first stamp with the given label.
func (e *Entity) StampTime(label string) (float64, bool) {
	return stampTime(e.timeline, label)
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity: (ID: %d, Type: %s, Stamps: %d)", e.ID, e.Type, len(e.timeline))
}

func stampTime(timeline []Stamp, label string) (float64, bool) {
	for _, s := range timeline {
		if s.Label == label {
			return s.Time, true
		}
	}
	return 0, false
}
