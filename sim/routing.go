package sim

import "fmt"

// Default thresholds of ThresholdShortestQueue.
const (
	DefaultFullThreshold = 4 // a buffer at or above this length counts as full
	DefaultMinOpen       = 2 // regular buffers that must be in use once regular traffic exists
)

// BufferRef names a routing target.
// Index is the position among the regular buffers; it is -1 for the combined buffers.
type BufferRef struct {
	Index    int
	Combined bool
}

// CombinedRegularRef targets the regular side of the combined buffer pair.
var CombinedRegularRef = BufferRef{Index: -1, Combined: true}

// RoutingSnapshot is a lightweight view of buffer lengths at arrival time.
type RoutingSnapshot struct {
	Regular           []int // lengths of the dedicated regular buffers, in wiring order
	CombinedRegular   int   // regular entities queued at the combined server
	CombinedAlternate int   // alternate entities queued at the combined server
}

// CombinedTotal returns the combined server's total queue length.
func (s RoutingSnapshot) CombinedTotal() int {
	return s.CombinedRegular + s.CombinedAlternate
}

// RoutingDecision encapsulates the routing decision for an entity.
type RoutingDecision struct {
	Target    BufferRef // Buffer that receives the entity
	Alternate bool      // true when the target is the combined alternate buffer
	Reason    string    // Human-readable explanation
}

// RoutingPolicy decides which buffer an arriving entity joins.
type RoutingPolicy interface {
	Route(typ EntityType, snap RoutingSnapshot) RoutingDecision
}

// ThresholdShortestQueue routes alternate entities to the combined alternate buffer and
// regular entities by shortest queue, opening idle buffers only when every buffer in use
// is full or fewer than MinOpen regular buffers are in use.
//
// Candidates are the regular buffers plus the combined buffer (measured by its total length).
// Ties are broken by the first regular buffer in wiring order; the combined buffer wins only
// when it is strictly shorter. When several regular buffers are empty the last one is opened.
type ThresholdShortestQueue struct {
	FullThreshold int
	MinOpen       int
}

// NewThresholdShortestQueue returns the policy with the default thresholds.
func NewThresholdShortestQueue() *ThresholdShortestQueue {
	return &ThresholdShortestQueue{FullThreshold: DefaultFullThreshold, MinOpen: DefaultMinOpen}
}

// Route implements RoutingPolicy for ThresholdShortestQueue.
func (p *ThresholdShortestQueue) Route(typ EntityType, snap RoutingSnapshot) RoutingDecision {
	if typ == AlternateEntity {
		return RoutingDecision{Target: CombinedRegularRef, Alternate: true, Reason: "alternate-only"}
	}
	if len(snap.Regular) == 0 {
		panic("ThresholdShortestQueue.Route: no regular buffers in snapshot")
	}

	full, occupied, occupiedRegular := 0, 0, 0
	minLen := -1 // no candidate yet
	minRef := BufferRef{Index: -1}
	zeroIdx := -1

	for i, n := range snap.Regular {
		if n > 0 {
			occupiedRegular++
			occupied++
			if n >= p.FullThreshold {
				full++
			}
			if minLen < 0 || n < minLen {
				minLen = n
				minRef = BufferRef{Index: i}
			}
		}
		if n == 0 {
			zeroIdx = i
		}
	}

	combined := snap.CombinedTotal()
	if combined > 0 {
		occupied++
	}
	if combined >= p.FullThreshold {
		full++
	}
	if minLen < 0 || combined < minLen {
		minLen = combined
		minRef = CombinedRegularRef
	}

	if occupied == full || occupiedRegular < p.MinOpen {
		if zeroIdx >= 0 {
			return RoutingDecision{
				Target: BufferRef{Index: zeroIdx},
				Reason: fmt.Sprintf("open-idle (occupied=%d full=%d regular-open=%d)", occupied, full, occupiedRegular),
			}
		}
		return RoutingDecision{
			Target: minRef,
			Reason: fmt.Sprintf("all-full shortest (len=%d)", minLen),
		}
	}
	if minRef.Combined || minRef.Index >= 0 {
		return RoutingDecision{Target: minRef, Reason: fmt.Sprintf("shortest (len=%d)", minLen)}
	}
	return RoutingDecision{Target: BufferRef{Index: zeroIdx}, Reason: "shortest fallback to idle"}
}
