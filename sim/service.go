package sim

import "fmt"

// DefaultServiceMean is the exponential service mean used when none is given.
const DefaultServiceMean = 30.0

// ServiceMode selects how a server draws service durations.
type ServiceMode string

const (
	ServiceExponential ServiceMode = "exponential" // exponential(mean), clamped per ClampPolicy
	ServiceNormal      ServiceMode = "normal"      // normal(mean, spread) per entity type, clamped per ClampPolicy
	ServiceSchedule    ServiceMode = "schedule"    // pre-specified durations
)

// ClampPolicy decides which minimum replaces a duration drawn below the floor.
type ClampPolicy string

const (
	// ClampCrossType compares every draw against the regular minimum and replaces a
	// too-short duration with the alternate type's minimum (0 when the server has none).
	// This is the default.
	ClampCrossType ClampPolicy = "cross-type"
	// ClampSameType replaces a too-short duration with the drawn type's own minimum.
	ClampSameType ClampPolicy = "same-type"
)

// ServiceParams parameterizes one entity type's service distribution.
type ServiceParams struct {
	Mean   float64
	Spread float64 // standard deviation; ignored by ServiceExponential
	Min    float64 // floor; a draw below it is clamped per ClampPolicy
}

// ServiceConfig enumerates the recognized server options.
// Alternate is only used by servers that pull from a combined buffer pair.
type ServiceConfig struct {
	Mode      ServiceMode
	Regular   ServiceParams
	Alternate *ServiceParams
	Schedule  []float64
	Clamp     ClampPolicy
}

// Validate checks that the options match the selected mode.
func (c ServiceConfig) Validate() error {
	switch c.Mode {
	case ServiceExponential, ServiceNormal:
		if err := c.Regular.validate("regular"); err != nil {
			return err
		}
		if c.Alternate != nil {
			if err := c.Alternate.validate("alternate"); err != nil {
				return err
			}
		}
	case ServiceSchedule:
		if len(c.Schedule) == 0 {
			return fmt.Errorf("scheduled service needs at least one duration")
		}
		for i, v := range c.Schedule {
			if v < 0 {
				return fmt.Errorf("service duration %d is negative (%g)", i, v)
			}
		}
	default:
		return fmt.Errorf("unknown service mode %q", c.Mode)
	}
	switch c.Clamp {
	case "", ClampCrossType, ClampSameType:
	default:
		return fmt.Errorf("unknown clamp policy %q", c.Clamp)
	}
	return nil
}

func (p ServiceParams) validate(which string) error {
	if p.Mean <= 0 {
		return fmt.Errorf("%s service mean must be positive, got %g", which, p.Mean)
	}
	if p.Spread < 0 {
		return fmt.Errorf("%s service spread must be non-negative, got %g", which, p.Spread)
	}
	if p.Min < 0 {
		return fmt.Errorf("%s service minimum must be non-negative, got %g", which, p.Min)
	}
	return nil
}

// serviceProcess produces the duration of the next service.
// ok is false once a finite schedule is exhausted.
type serviceProcess interface {
	duration(typ EntityType) (float64, bool)
	available() bool
	// eventType is the completion event type for an entity of type typ.
	eventType(typ EntityType) int
}

type drawnService struct {
	src    VariateSource
	mode   ServiceMode
	params map[EntityType]ServiceParams
	clamp  ClampPolicy
}

func (s *drawnService) duration(typ EntityType) (float64, bool) {
	p := s.paramsFor(typ)
	var d float64
	if s.mode == ServiceExponential {
		d = s.src.Exponential(p.Mean)
	} else {
		d = s.src.Normal(p.Mean, p.Spread)
	}
	if s.clamp == ClampSameType {
		if d < p.Min {
			d = p.Min
		}
		return d, true
	}
	if d < s.params[RegularEntity].Min {
		d = s.alternateMin()
	}
	return d, true
}

// alternateMin is the alternate type's floor, or 0 on a server without alternate parameters.
func (s *drawnService) alternateMin() float64 {
	if p, ok := s.params[AlternateEntity]; ok {
		return p.Min
	}
	return 0
}

// paramsFor falls back to the regular parameters on single-type servers.
func (s *drawnService) paramsFor(typ EntityType) ServiceParams {
	if p, ok := s.params[typ]; ok {
		return p
	}
	return s.params[RegularEntity]
}

func (s *drawnService) available() bool { return true }

func (s *drawnService) eventType(typ EntityType) int { return int(typ) }

type scheduledService struct {
	durations []float64
	cursor    int
}

func (s *scheduledService) duration(EntityType) (float64, bool) {
	if s.cursor >= len(s.durations) {
		return 0, false
	}
	d := s.durations[s.cursor]
	s.cursor++
	return d, true
}

func (s *scheduledService) available() bool { return s.cursor < len(s.durations) }

func (s *scheduledService) eventType(EntityType) int { return int(RegularEntity) }

func newServiceProcess(cfg ServiceConfig, src VariateSource) serviceProcess {
	if cfg.Mode == ServiceSchedule {
		durations := make([]float64, len(cfg.Schedule))
		copy(durations, cfg.Schedule)
		return &scheduledService{durations: durations}
	}
	params := map[EntityType]ServiceParams{RegularEntity: cfg.Regular}
	if cfg.Alternate != nil {
		params[AlternateEntity] = *cfg.Alternate
	}
	clamp := cfg.Clamp
	if clamp == "" {
		clamp = ClampCrossType
	}
	return &drawnService{src: src, mode: cfg.Mode, params: params, clamp: clamp}
}
