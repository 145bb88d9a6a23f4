// Package varfuncs provides the mean-to-variance relations used by the GLM
// exponential families. Variance functions are stateless apart from the
// parameters fixed at construction time (the Binomial trial counts and the
// negative binomial dispersion).
package varfuncs

import (
	"math"

	"github.com/glmgo/glmgo/core/parallel"
	"github.com/glmgo/glmgo/pkg/errors"
)

// FloatEps is the double precision machine epsilon, used to keep mean
// values away from the boundary of a variance function's domain.
var FloatEps = math.Nextafter(1, 2) - 1

// Variance maps mean values to variance values elementwise. Deriv is the
// derivative of the relation with respect to the mean.
type Variance interface {
	Name() string
	Call(mu []float64) []float64
	Deriv(mu []float64) []float64
}

const parallelThreshold = 10000

func apply(x []float64, f func(float64) float64) []float64 {
	y := make([]float64, len(x))
	parallel.ParallelizeWithThreshold(len(x), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			y[i] = f(x[i])
		}
	})
	return y
}

// ---------------------------------------------------------------------------
// Constant
// ---------------------------------------------------------------------------

// Constant is the unit variance function V(mu) = 1 of the Gaussian family.
type Constant struct{}

// NewConstant returns the constant variance function.
func NewConstant() *Constant { return &Constant{} }

func (*Constant) Name() string { return "Constant" }

func (*Constant) Call(mu []float64) []float64 {
	return apply(mu, func(float64) float64 { return 1 })
}

func (*Constant) Deriv(mu []float64) []float64 {
	return apply(mu, func(float64) float64 { return 0 })
}

// ---------------------------------------------------------------------------
// Power
// ---------------------------------------------------------------------------

// Power is the power variance function V(mu) = |mu|^p. Exponents 1, 2 and
// 3 give the Poisson, Gamma and inverse Gaussian relations.
type Power struct {
	power float64
}

// NewPower returns the power variance function with the given exponent.
func NewPower(power float64) *Power { return &Power{power: power} }

// NewMu returns the identity variance function V(mu) = mu.
func NewMu() *Power { return NewPower(1) }

// NewMuSquared returns V(mu) = mu^2.
func NewMuSquared() *Power { return NewPower(2) }

// NewMuCubed returns V(mu) = mu^3.
func NewMuCubed() *Power { return NewPower(3) }

func (*Power) Name() string { return "Power" }

// Power returns the exponent of the relation.
func (v *Power) Power() float64 { return v.power }

func (v *Power) Call(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		return math.Pow(math.Abs(m), v.power)
	})
}

func (v *Power) Deriv(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		d := v.power * math.Pow(math.Abs(m), v.power-1)
		if m < 0 {
			return -d
		}
		return d
	})
}

// ---------------------------------------------------------------------------
// Binomial
// ---------------------------------------------------------------------------

// Binomial is the Binomial variance function V(mu) = p(1-p)n with
// p = mu/n. A nil trial-count slice means n = 1 for every observation
// (the Bernoulli case); otherwise n holds per-observation trial counts.
type Binomial struct {
	n []float64
}

// NewBinomial returns the Binomial variance function for the given
// per-observation trial counts. Pass nil for the Bernoulli case n = 1.
func NewBinomial(n []float64) *Binomial { return &Binomial{n: n} }

func (*Binomial) Name() string { return "Binomial" }

// N returns the per-observation trial counts, or nil when n is the
// scalar 1.
func (v *Binomial) N() []float64 { return v.n }

func clipUnit(p float64) float64 {
	return errors.ClipValue(p, FloatEps, 1-FloatEps)
}

func (v *Binomial) at(i int) float64 {
	if v.n == nil {
		return 1
	}
	return v.n[i]
}

func (v *Binomial) Call(mu []float64) []float64 {
	out := make([]float64, len(mu))
	parallel.ParallelizeWithThreshold(len(mu), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			n := v.at(i)
			p := clipUnit(mu[i] / n)
			out[i] = p * (1 - p) * n
		}
	})
	return out
}

func (v *Binomial) Deriv(mu []float64) []float64 {
	out := make([]float64, len(mu))
	parallel.ParallelizeWithThreshold(len(mu), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			p := clipUnit(mu[i] / v.at(i))
			out[i] = 1 - 2*p
		}
	})
	return out
}

// ---------------------------------------------------------------------------
// NegBinom
// ---------------------------------------------------------------------------

// NegBinom is the negative binomial variance function
// V(mu) = mu + alpha*mu^2 for a fixed dispersion alpha.
type NegBinom struct {
	alpha float64
}

// NewNegBinom returns the negative binomial variance function with
// dispersion alpha.
func NewNegBinom(alpha float64) *NegBinom { return &NegBinom{alpha: alpha} }

func (*NegBinom) Name() string { return "NegBinom" }

// Alpha returns the dispersion parameter of the relation.
func (v *NegBinom) Alpha() float64 { return v.alpha }

func (v *NegBinom) Call(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		if m < FloatEps {
			m = FloatEps
		}
		return m + v.alpha*m*m
	})
}

func (v *NegBinom) Deriv(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		if m < FloatEps {
			m = FloatEps
		}
		return 1 + 2*v.alpha*m
	})
}
