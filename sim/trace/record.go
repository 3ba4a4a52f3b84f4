// Package trace provides routing-decision recording for queueing-network analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// RoutingRecord captures a single routing policy decision.
type RoutingRecord struct {
	EntityID   int64
	EntityType int
	Time       float64
	Target     string // name of the buffer the entity joined
	Reason     string
	Lengths    []int // regular buffer lengths followed by the combined total, before admission
}
