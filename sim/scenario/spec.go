// Package scenario loads queueing network scenarios from YAML and assembles them into
// runnable sim.Network values.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/trace"
)

// MinutesPerDay converts Days into a horizon; scenario time is measured in minutes.
const MinutesPerDay = 1440.0

// Random stream families accepted by Spec.RNG.
const (
	RNGPCG       = "pcg"
	RNGRngStream = "rngstream"
)

// Spec is the top-level scenario configuration.
// Loaded from YAML via Load(path) or Parse(data).
type Spec struct {
	Version  string      `yaml:"version"`
	Seed     int64       `yaml:"seed"`
	Horizon  float64     `yaml:"horizon,omitempty"` // stop time; 0 = until halted or drained
	Days     int         `yaml:"days,omitempty"`    // used when horizon is 0
	RNG      string      `yaml:"rng,omitempty"`     // "pcg" (default) or "rngstream"
	Trace    string      `yaml:"trace,omitempty"`   // "none" (default) or "decisions"
	Routing  RoutingSpec `yaml:"routing,omitempty"`
	Arrivals ArrivalSpec `yaml:"arrivals"`
	Servers  ServersSpec `yaml:"servers"`
	Buffers  int         `yaml:"buffers,omitempty"` // dedicated regular buffers, multi-type only
}

// ArrivalSpec configures the generator.
type ArrivalSpec struct {
	Mode          string    `yaml:"mode"` // exponential, schedule, multi-type
	Mean          float64   `yaml:"mean,omitempty"`
	AlternateMean float64   `yaml:"alternate_mean,omitempty"`
	Intervals     []float64 `yaml:"intervals,omitempty"`
	OnExhaust     string    `yaml:"on_exhaust,omitempty"`
}

// ServiceSpec parameterizes one entity type's service.
type ServiceSpec struct {
	Mode     string    `yaml:"mode"` // exponential, normal, schedule
	Mean     float64   `yaml:"mean,omitempty"`
	Spread   float64   `yaml:"spread,omitempty"`
	Min      float64   `yaml:"min,omitempty"`
	Schedule []float64 `yaml:"schedule,omitempty"`
}

// ServersSpec configures every server in the network.
// Service applies to regular entities everywhere; Alternate applies to the combined server.
type ServersSpec struct {
	Service   ServiceSpec  `yaml:"service"`
	Alternate *ServiceSpec `yaml:"alternate,omitempty"`
	Clamp     string       `yaml:"clamp,omitempty"` // cross-type (default) or same-type
}

// RoutingSpec overrides the thresholds of the shortest-queue policy.
type RoutingSpec struct {
	FullThreshold int `yaml:"full_threshold,omitempty"`
	MinOpen       int `yaml:"min_open,omitempty"`
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario. It does not validate; call Validate.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// StopTime returns the scheduler stop time: Horizon if set, else Days in minutes,
// else +Inf.
func (s *Spec) StopTime() float64 {
	if s.Horizon > 0 {
		return s.Horizon
	}
	if s.Days > 0 {
		return float64(s.Days) * MinutesPerDay
	}
	return math.Inf(1)
}

// IsMultiType reports whether the scenario uses the regular/alternate topology.
func (s *Spec) IsMultiType() bool {
	return sim.ArrivalMode(s.Arrivals.Mode) == sim.ArrivalMultiType
}

// Validate checks that all fields in the spec are valid.
func (s *Spec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("unsupported version %q; valid: 1", s.Version)
	}
	if math.IsNaN(s.Horizon) || math.IsInf(s.Horizon, 0) || s.Horizon < 0 {
		return fmt.Errorf("horizon must be a finite non-negative number, got %f", s.Horizon)
	}
	if s.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", s.Days)
	}
	switch s.RNG {
	case "", RNGPCG, RNGRngStream:
	default:
		return fmt.Errorf("unknown rng %q; valid: pcg, rngstream", s.RNG)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions", s.Trace)
	}
	if err := s.ArrivalConfig().Validate(); err != nil {
		return fmt.Errorf("arrivals: %w", err)
	}
	if s.IsMultiType() {
		if s.Buffers < 1 {
			return fmt.Errorf("buffers: multi-type arrivals need at least one regular buffer, got %d", s.Buffers)
		}
		if s.Servers.Alternate == nil {
			return fmt.Errorf("servers.alternate: required by multi-type arrivals")
		}
		if s.Routing.FullThreshold < 0 || s.Routing.MinOpen < 0 {
			return fmt.Errorf("routing: thresholds must be non-negative, got full_threshold=%d min_open=%d",
				s.Routing.FullThreshold, s.Routing.MinOpen)
		}
	} else if s.Buffers > 1 {
		return fmt.Errorf("buffers: %s arrivals feed a single buffer, got %d", s.Arrivals.Mode, s.Buffers)
	}
	if err := validateFinite("servers.service", s.Servers.Service); err != nil {
		return err
	}
	if s.Servers.Alternate != nil {
		if err := validateFinite("servers.alternate", *s.Servers.Alternate); err != nil {
			return err
		}
		if s.Servers.Alternate.Mode != s.Servers.Service.Mode {
			return fmt.Errorf("servers.alternate: mode %q must match servers.service mode %q",
				s.Servers.Alternate.Mode, s.Servers.Service.Mode)
		}
	}
	if err := s.ServiceConfig(s.IsMultiType()).Validate(); err != nil {
		return fmt.Errorf("servers: %w", err)
	}
	return nil
}

// ArrivalConfig converts the arrival section to the generator's configuration.
func (s *Spec) ArrivalConfig() sim.ArrivalConfig {
	return sim.ArrivalConfig{
		Mode:          sim.ArrivalMode(s.Arrivals.Mode),
		Mean:          s.Arrivals.Mean,
		AlternateMean: s.Arrivals.AlternateMean,
		Intervals:     s.Arrivals.Intervals,
		OnExhaust:     sim.ExhaustAction(s.Arrivals.OnExhaust),
	}
}

// ServiceConfig converts the server section for a dedicated (combined=false) or
// combined server.
func (s *Spec) ServiceConfig(combined bool) sim.ServiceConfig {
	svc := s.Servers.Service
	cfg := sim.ServiceConfig{
		Mode:     sim.ServiceMode(svc.Mode),
		Regular:  serviceParams(svc),
		Schedule: svc.Schedule,
		Clamp:    sim.ClampPolicy(s.Servers.Clamp),
	}
	if combined && s.Servers.Alternate != nil {
		alt := serviceParams(*s.Servers.Alternate)
		cfg.Alternate = &alt
	}
	return cfg
}

func serviceParams(svc ServiceSpec) sim.ServiceParams {
	p := sim.ServiceParams{Mean: svc.Mean, Spread: svc.Spread, Min: svc.Min}
	if sim.ServiceMode(svc.Mode) == sim.ServiceExponential && p.Mean == 0 {
		p.Mean = sim.DefaultServiceMean
	}
	return p
}

func validateFinite(prefix string, svc ServiceSpec) error {
	fields := []struct {
		name string
		val  float64
	}{{"mean", svc.Mean}, {"spread", svc.Spread}, {"min", svc.Min}}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%s.%s must be a finite number, got %f", prefix, f.name, f.val)
		}
	}
	return nil
}
