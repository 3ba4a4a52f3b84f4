// Package sim provides the core discrete-event queueing network engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - entity.go: Entity lifecycle (created → queued → in service → collected) and its timeline
//   - scheduler.go: The event list, the run loop, and its halt/stop-time semantics
//   - server.go: Pull-based service, completion events, and finite-schedule exhaustion
//
// # Architecture
//
// A Network wires four kinds of components to one Scheduler:
//   - Generator: creates entities and routes them to buffers (generator.go, arrival.go, routing.go)
//   - Buffer: unbounded FIFO that wakes attached consumers on admission (buffer.go)
//   - Server: pulls from its buffer(s) when idle and serves one entity at a time (server.go, service.go)
//   - Collector: terminal sink recording each completed timeline (collector.go)
//
// Work only moves downstream by pull: a buffer rings its consumers, and an idle
// consumer asks for the head entity. No component holds a callback registered by another.
//
// Sub-packages:
//   - sim/variate/: seeded random streams and inverse-transform variates
//   - sim/scenario/: YAML scenarios, presets, and network assembly
//   - sim/report/: completion CSV, summary statistics, replications
//   - sim/trace/: Routing decision trace recording
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - Process: receives scheduled events (Generator, Server)
//   - Consumer: woken by buffers (Server)
//   - Sink: receives finished entities (Collector)
//   - RoutingPolicy: select target buffer given a RoutingSnapshot
//   - VariateSource: exponential and normal draws
package sim
