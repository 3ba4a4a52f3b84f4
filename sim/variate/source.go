// Package variate draws the exponential and normal durations the queueing network needs.
// Uniform streams are inverted through gonum's distribution quantiles, so a stream
// yields the same durations whatever generator produced its uniforms.
package variate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform produces uniform variates in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Uniform interface {
	Float64() float64
}

// Source implements sim.VariateSource by inverse-transform sampling.
// All draws are >= 0.
type Source struct {
	u Uniform
}

// NewSource wraps a uniform stream.
func NewSource(u Uniform) *Source {
	if u == nil {
		panic("variate.NewSource: uniform stream must not be nil")
	}
	return &Source{u: u}
}

// Exponential draws from an exponential distribution with the given mean.
// A non-positive mean yields 0.
func (s *Source) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return distuv.Exponential{Rate: 1 / mean}.Quantile(s.open())
}

// Normal draws from a normal distribution truncated at 0.
// A zero spread yields the mean.
func (s *Source) Normal(mean, spread float64) float64 {
	if spread <= 0 {
		return math.Max(mean, 0)
	}
	v := distuv.Normal{Mu: mean, Sigma: spread}.Quantile(s.open())
	return math.Max(v, 0)
}

// open maps the stream onto the open interval (0, 1) so quantiles stay finite.
func (s *Source) open() float64 {
	p := s.u.Float64()
	if p <= 0 {
		return math.SmallestNonzeroFloat64
	}
	if p >= 1 {
		return math.Nextafter(1, 0)
	}
	return p
}
