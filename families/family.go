// Package families implements the one-parameter exponential family
// distributions that drive GLM fitting: Gaussian, Poisson, QuasiPoisson,
// Gamma, Binomial and NegativeBinomial. Each family owns one link function
// and one variance function and computes the quantities an IRLS-style
// optimizer needs (starting values, observation weights, deviance,
// log-likelihood, deviance residuals and Anscombe residuals) as pure
// functions of the observed response and a current mean estimate.
//
// A family instance is immutable after construction, with one documented
// exception: Binomial.Initialize refines the trial counts once from the
// observed response before fitting starts. After that point instances are
// safe to share read-only across concurrent fitting runs.
//
// Mean values driven to the boundary of validity (mu near 0 or 1, endog at
// 0) are handled by the floors each formula defines; where no floor is
// defined the result is NaN or Inf and propagates to the caller, which
// decides whether to abort fitting.
package families

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/glmgo/glmgo/core/parallel"
	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/pkg/errors"
	"github.com/glmgo/glmgo/varfuncs"
)

var floatEps = math.Nextafter(1, 2) - 1

// Family is the uniform contract shared by the exponential family
// distributions. A fitting loop calls StartingMu once, then iterates
// Fitted/Predict, Weights and Deviance until convergence, then LogLike,
// ResidDev and ResidAnscombe for reporting.
//
// freqWeights slices may be nil, meaning every observation has frequency 1.
type Family interface {
	// Name returns the family name.
	Name() string

	// Link returns the link function owned by the family.
	Link() links.Link

	// Variance returns the variance function owned by the family.
	Variance() varfuncs.Variance

	// ValidRange returns the closed interval of permissible mean values.
	ValidRange() (lo, hi float64)

	// IsSafeLink reports whether the link guarantees range-preserving
	// predictions for this family.
	IsSafeLink(l links.Link) bool

	// StartingMu returns a deterministic initial mean guess from the raw
	// response.
	StartingMu(y []float64) []float64

	// Weights returns the IRLS weights 1/(deriv(mu)^2 * variance(mu)).
	// A zero variance yields Inf, which propagates; callers clip mean
	// values away from the boundary first.
	Weights(mu []float64) []float64

	// Fitted returns the mean implied by a linear predictor, the inverse
	// link of linPred.
	Fitted(linPred []float64) []float64

	// Predict returns the linear predictor implied by a mean, the forward
	// link of mu.
	Predict(mu []float64) []float64

	// Deviance returns twice the log-likelihood ratio between the
	// saturated and fitted model. Non-negative for any mean inside the
	// family's valid range.
	Deviance(endog, mu, freqWeights []float64, scale float64) float64

	// ResidDev returns the per-observation signed deviance residuals.
	ResidDev(endog, mu []float64, scale float64) []float64

	// LogLike returns the total log-likelihood at the given mean and
	// scale.
	LogLike(endog, mu, freqWeights []float64, scale float64) float64

	// ResidAnscombe returns the variance-stabilizing Anscombe residuals.
	ResidAnscombe(endog, mu []float64) []float64
}

// Vectors shorter than this are processed inline; longer ones are chunked
// across CPU cores. Reductions stay sequential, so scalar outputs differ
// only at reduction-order ULP level.
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

func apply2(x, y []float64, f func(xi, yi float64) float64) []float64 {
	out := make([]float64, len(x))
	parallel.ParallelizeWithThreshold(len(x), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(x[i], y[i])
		}
	})
	return out
}

// weightAt treats a nil weight slice as all ones.
func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// clipLow trims x into [floatEps, +Inf) before a logarithm or division.
func clipLow(x float64) float64 {
	return errors.ClipValue(x, floatEps, math.Inf(1))
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// baseFamily carries the per-instance link and variance configuration and
// supplies the default method bodies shared across families.
type baseFamily struct {
	name      string
	link      links.Link
	variance  varfuncs.Variance
	validLo   float64
	validHi   float64
	safeKinds []links.Kind
}

func (f *baseFamily) Name() string                { return f.name }
func (f *baseFamily) Link() links.Link            { return f.link }
func (f *baseFamily) Variance() varfuncs.Variance { return f.variance }

func (f *baseFamily) ValidRange() (lo, hi float64) {
	return f.validLo, f.validHi
}

func (f *baseFamily) IsSafeLink(l links.Link) bool {
	if l == nil {
		return false
	}
	for _, k := range f.safeKinds {
		if l.Kind() == k {
			return true
		}
	}
	return false
}

func (f *baseFamily) StartingMu(y []float64) []float64 {
	m := stat.Mean(y, nil)
	return apply(y, func(v float64) float64 {
		return (v + m) / 2
	})
}

func (f *baseFamily) Weights(mu []float64) []float64 {
	deriv := f.link.Deriv(mu)
	va := f.variance.Call(mu)
	w := make([]float64, len(mu))
	parallel.ParallelizeWithThreshold(len(mu), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			w[i] = 1 / (deriv[i] * deriv[i] * va[i])
		}
	})
	return w
}

func (f *baseFamily) Fitted(linPred []float64) []float64 {
	return f.link.Inverse(linPred)
}

func (f *baseFamily) Predict(mu []float64) []float64 {
	return f.link.Call(mu)
}

// resolveLink applies the family's default when link is nil, rejects
// objects that are not links known to this library, and rejects links
// outside the family's allowed set.
func resolveLink(op string, link links.Link, def func() links.Link, allowed []links.Kind) (links.Link, error) {
	if link == nil {
		return def(), nil
	}
	if !links.IsValid(link) {
		return nil, errors.NewValueError(op, "the input should be a valid link object")
	}
	for _, k := range allowed {
		if link.Kind() == k {
			return link, nil
		}
	}
	return nil, errors.NewValidationError("link",
		"invalid link for family, should be in "+kindNames(allowed), link.Name())
}

func kindNames(kinds []links.Kind) string {
	s := "["
	for i, k := range kinds {
		if i > 0 {
			s += " "
		}
		s += k.String()
	}
	return s + "]"
}
