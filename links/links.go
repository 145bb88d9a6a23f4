// Package links provides the link functions used by the GLM exponential
// families: invertible, differentiable scalar transforms between the mean
// response and the linear predictor scale, applied elementwise over
// observation vectors.
package links

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/glmgo/glmgo/core/parallel"
	"github.com/glmgo/glmgo/pkg/errors"
)

// FloatEps is the double precision machine epsilon, the lower clipping
// bound used to keep logarithms of near-zero arguments finite.
var FloatEps = math.Nextafter(1, 2) - 1

// Kind identifies a link function.
type Kind uint8

// The supported link function kinds.
const (
	KindLog Kind = iota
	KindIdentity
	KindLogit
	KindPower
	KindInversePower
	KindSqrt
	KindCLogLog
	KindProbit
	KindCauchy
	KindNegBinom

	maxKind = KindNegBinom
)

// String returns the name of the link kind.
func (k Kind) String() string {
	switch k {
	case KindLog:
		return "Log"
	case KindIdentity:
		return "Identity"
	case KindLogit:
		return "Logit"
	case KindPower:
		return "Power"
	case KindInversePower:
		return "InversePower"
	case KindSqrt:
		return "Sqrt"
	case KindCLogLog:
		return "CLogLog"
	case KindProbit:
		return "Probit"
	case KindCauchy:
		return "Cauchy"
	case KindNegBinom:
		return "NegBinom"
	default:
		return "Unknown"
	}
}

// Link is an invertible, differentiable scalar transform applied
// elementwise. Inverse(Call(mu)) must round-trip to mu within floating
// point tolerance over the owning family's valid mean range. Clip clamps
// mean values into the link's safe numerical domain; callers are
// responsible for clipping before differentiating at a boundary.
type Link interface {
	Kind() Kind
	Name() string
	Call(mu []float64) []float64
	Inverse(eta []float64) []float64
	Deriv(mu []float64) []float64
	Deriv2(mu []float64) []float64
	InverseDeriv(eta []float64) []float64
	Clip(mu []float64) []float64
}

// IsValid reports whether l is one of the link implementations known to
// this package. Family constructors reject anything else.
func IsValid(l Link) bool {
	return l != nil && l.Kind() <= maxKind
}

// Vectors shorter than this are transformed inline; longer ones are chunked
// across CPU cores.
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

func clipUnit(p float64) float64 {
	return errors.ClipValue(p, FloatEps, 1-FloatEps)
}

func clipPositive(x float64) float64 {
	return errors.ClipValue(x, FloatEps, math.Inf(1))
}

// ---------------------------------------------------------------------------
// Logit
// ---------------------------------------------------------------------------

// Logit is the canonical Binomial link g(p) = log(p/(1-p)).
type Logit struct{}

// NewLogit returns the logit link.
func NewLogit() *Logit { return &Logit{} }

func (*Logit) Kind() Kind   { return KindLogit }
func (*Logit) Name() string { return "Logit" }

func (*Logit) Call(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		return math.Log(p / (1 - p))
	})
}

func (*Logit) Inverse(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		return 1 / (1 + math.Exp(-z))
	})
}

func (*Logit) Deriv(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		return 1 / (p * (1 - p))
	})
}

func (*Logit) Deriv2(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		v := p * (1 - p)
		return (2*p - 1) / (v * v)
	})
}

func (*Logit) InverseDeriv(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		t := 1 / (1 + math.Exp(-z))
		return t * (1 - t)
	})
}

func (*Logit) Clip(mu []float64) []float64 {
	return apply(mu, clipUnit)
}

// ---------------------------------------------------------------------------
// Log
// ---------------------------------------------------------------------------

// Log is the log link g(mu) = log(mu), canonical for Poisson.
type Log struct{}

// NewLog returns the log link.
func NewLog() *Log { return &Log{} }

func (*Log) Kind() Kind   { return KindLog }
func (*Log) Name() string { return "Log" }

func (*Log) Call(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		return math.Log(clipPositive(m))
	})
}

func (*Log) Inverse(eta []float64) []float64 {
	return apply(eta, math.Exp)
}

func (*Log) Deriv(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		return 1 / clipPositive(m)
	})
}

func (*Log) Deriv2(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		m = clipPositive(m)
		return -1 / (m * m)
	})
}

func (*Log) InverseDeriv(eta []float64) []float64 {
	return apply(eta, math.Exp)
}

func (*Log) Clip(mu []float64) []float64 {
	return apply(mu, clipPositive)
}

// ---------------------------------------------------------------------------
// Power family: Identity, Sqrt, InversePower and arbitrary exponents
// ---------------------------------------------------------------------------

// Power is the power transform link g(mu) = mu^p. Identity, Sqrt and
// InversePower are fixed-exponent instances of it.
type Power struct {
	kind  Kind
	name  string
	power float64
}

// NewPower returns the power link with the given exponent.
func NewPower(power float64) *Power {
	return &Power{kind: KindPower, name: "Power", power: power}
}

// NewIdentity returns the identity link, the power link with exponent 1.
func NewIdentity() *Power {
	return &Power{kind: KindIdentity, name: "Identity", power: 1}
}

// NewSqrt returns the square-root link, the power link with exponent 1/2.
func NewSqrt() *Power {
	return &Power{kind: KindSqrt, name: "Sqrt", power: 0.5}
}

// NewInversePower returns the reciprocal link, the power link with
// exponent -1, canonical for Gamma.
func NewInversePower() *Power {
	return &Power{kind: KindInversePower, name: "InversePower", power: -1}
}

func (l *Power) Kind() Kind   { return l.kind }
func (l *Power) Name() string { return l.name }

// Power returns the exponent of the transform.
func (l *Power) Power() float64 { return l.power }

func (l *Power) Call(mu []float64) []float64 {
	if l.power == 1 {
		out := make([]float64, len(mu))
		copy(out, mu)
		return out
	}
	return apply(mu, func(m float64) float64 {
		return math.Pow(m, l.power)
	})
}

func (l *Power) Inverse(eta []float64) []float64 {
	if l.power == 1 {
		out := make([]float64, len(eta))
		copy(out, eta)
		return out
	}
	return apply(eta, func(z float64) float64 {
		return math.Pow(z, 1/l.power)
	})
}

func (l *Power) Deriv(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		return l.power * math.Pow(m, l.power-1)
	})
}

func (l *Power) Deriv2(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		return l.power * (l.power - 1) * math.Pow(m, l.power-2)
	})
}

func (l *Power) InverseDeriv(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		return math.Pow(z, 1/l.power-1) / l.power
	})
}

func (l *Power) Clip(mu []float64) []float64 {
	out := make([]float64, len(mu))
	copy(out, mu)
	return out
}

// ---------------------------------------------------------------------------
// CLogLog
// ---------------------------------------------------------------------------

// CLogLog is the complementary log-log link g(p) = log(-log(1-p)).
type CLogLog struct{}

// NewCLogLog returns the complementary log-log link.
func NewCLogLog() *CLogLog { return &CLogLog{} }

func (*CLogLog) Kind() Kind   { return KindCLogLog }
func (*CLogLog) Name() string { return "CLogLog" }

func (*CLogLog) Call(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		return math.Log(-math.Log(1 - p))
	})
}

func (*CLogLog) Inverse(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		return 1 - math.Exp(-math.Exp(z))
	})
}

func (*CLogLog) Deriv(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		return 1 / ((p - 1) * math.Log(1-p))
	})
}

func (*CLogLog) Deriv2(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		p = clipUnit(p)
		f := math.Log(1 - p)
		r := -1 / ((1 - p) * (1 - p) * f)
		return r * (1 + 1/f)
	})
}

func (*CLogLog) InverseDeriv(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		return math.Exp(z - math.Exp(z))
	})
}

func (*CLogLog) Clip(mu []float64) []float64 {
	return apply(mu, clipUnit)
}

// ---------------------------------------------------------------------------
// CDF links: Probit and Cauchy
// ---------------------------------------------------------------------------

type unitDist interface {
	CDF(x float64) float64
	Quantile(p float64) float64
	Prob(x float64) float64
}

// CDFLink maps a mean in (0,1) through the quantile function of a
// continuous distribution: g(p) = Q(p), g^-1(z) = F(z). Probit uses the
// standard normal, Cauchy the standard Cauchy (Student's t with one degree
// of freedom).
type CDFLink struct {
	kind Kind
	name string
	dist unitDist
}

// NewProbit returns the probit link over the standard normal distribution.
func NewProbit() *CDFLink {
	return &CDFLink{kind: KindProbit, name: "Probit", dist: distuv.Normal{Mu: 0, Sigma: 1}}
}

// NewCauchy returns the Cauchy link over the standard Cauchy distribution.
func NewCauchy() *CDFLink {
	return &CDFLink{kind: KindCauchy, name: "Cauchy", dist: distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 1}}
}

func (l *CDFLink) Kind() Kind   { return l.kind }
func (l *CDFLink) Name() string { return l.name }

func (l *CDFLink) Call(mu []float64) []float64 {
	return apply(mu, func(p float64) float64 {
		return l.dist.Quantile(clipUnit(p))
	})
}

func (l *CDFLink) Inverse(eta []float64) []float64 {
	return apply(eta, l.dist.CDF)
}

func (l *CDFLink) derivScalar(p float64) float64 {
	return 1 / l.dist.Prob(l.dist.Quantile(clipUnit(p)))
}

func (l *CDFLink) Deriv(mu []float64) []float64 {
	return apply(mu, l.derivScalar)
}

// Deriv2 differentiates Deriv by central difference; the second derivative
// has no closed form shared by all distributions.
func (l *CDFLink) Deriv2(mu []float64) []float64 {
	const h = 1e-5
	return apply(mu, func(p float64) float64 {
		return (l.derivScalar(p+h) - l.derivScalar(p-h)) / (2 * h)
	})
}

func (l *CDFLink) InverseDeriv(eta []float64) []float64 {
	return apply(eta, l.dist.Prob)
}

func (l *CDFLink) Clip(mu []float64) []float64 {
	return apply(mu, clipUnit)
}

// ---------------------------------------------------------------------------
// NegBinom
// ---------------------------------------------------------------------------

// NegBinom is the canonical negative binomial link
// g(mu) = log(mu/(mu + 1/alpha)) for a fixed dispersion alpha.
type NegBinom struct {
	alpha float64
}

// NewNegBinom returns the negative binomial link with dispersion alpha.
func NewNegBinom(alpha float64) *NegBinom {
	return &NegBinom{alpha: alpha}
}

func (*NegBinom) Kind() Kind   { return KindNegBinom }
func (*NegBinom) Name() string { return "NegBinom" }

// Alpha returns the dispersion parameter of the link.
func (l *NegBinom) Alpha() float64 { return l.alpha }

func (l *NegBinom) Call(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		m = clipPositive(m)
		return math.Log(m / (m + 1/l.alpha))
	})
}

func (l *NegBinom) Inverse(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		return -1 / (l.alpha * (1 - math.Exp(-z)))
	})
}

func (l *NegBinom) Deriv(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		m = clipPositive(m)
		return 1 / (m + l.alpha*m*m)
	})
}

func (l *NegBinom) Deriv2(mu []float64) []float64 {
	return apply(mu, func(m float64) float64 {
		m = clipPositive(m)
		v := m + l.alpha*m*m
		return -(1 + 2*l.alpha*m) / (v * v)
	})
}

func (l *NegBinom) InverseDeriv(eta []float64) []float64 {
	return apply(eta, func(z float64) float64 {
		ez := math.Exp(z)
		return ez / (l.alpha * (1 - ez) * (1 - ez))
	})
}

func (l *NegBinom) Clip(mu []float64) []float64 {
	return apply(mu, clipPositive)
}
