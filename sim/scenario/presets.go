package scenario

import (
	"fmt"
	"sort"
)

// Built-in scenario presets.
// Each returns a valid Spec ready for use with Build.

// PresetLab is the single-counter scenario driven entirely by finite schedules.
// Its completions can be traced by hand: 2.4, 3.1 and 3.3.
func PresetLab() *Spec {
	return &Spec{
		Version: "1", Horizon: 10,
		Arrivals: ArrivalSpec{Mode: "schedule", Intervals: []float64{0.4, 1.2, 0.5}, OnExhaust: "drain"},
		Servers: ServersSpec{
			Service: ServiceSpec{Mode: "schedule", Schedule: []float64{2.0, 0.7, 0.2}},
		},
	}
}

// PresetBank is a bank day: five regular counters plus one combined counter that also
// serves the alternate customers, with one-second minimum service times.
func PresetBank() *Spec {
	return &Spec{
		Version: "1", Seed: 42, Days: 1,
		Arrivals: ArrivalSpec{Mode: "multi-type", Mean: 1.0, AlternateMean: 5.0},
		Buffers:  5,
		Servers: ServersSpec{
			Service:   ServiceSpec{Mode: "normal", Mean: 2.6, Spread: 1.1, Min: 1.0 / 60},
			Alternate: &ServiceSpec{Mode: "normal", Mean: 4.1, Spread: 1.1, Min: 1.0 / 60},
		},
	}
}

// PresetPostOffice is a single exponential counter (M/M/1) with utilisation 0.8.
func PresetPostOffice() *Spec {
	return &Spec{
		Version: "1", Seed: 7, Horizon: 10000,
		Arrivals: ArrivalSpec{Mode: "exponential", Mean: 5.0},
		Servers: ServersSpec{
			Service: ServiceSpec{Mode: "exponential", Mean: 4.0},
		},
	}
}

var presets = map[string]func() *Spec{
	"lab":         PresetLab,
	"bank":        PresetBank,
	"post-office": PresetPostOffice,
}

// Preset returns a fresh copy of the named built-in scenario.
func Preset(name string) (*Spec, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid: %v", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in scenarios in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
