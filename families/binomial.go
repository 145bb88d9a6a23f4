package families

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"

	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/pkg/errors"
	"github.com/glmgo/glmgo/varfuncs"
)

// logFloor is the additive floor that keeps boundary logarithms finite in
// the Binomial formulas.
const logFloor = 1e-200

// Binomial is the Binomial exponential family over proportions in (0, 1).
// The canonical link is the logit link.
//
// A fresh instance is a Bernoulli family: every observation has one trial.
// Initialize refines the trial counts once from a two-column
// (successes, failures) response before fitting starts; every downstream
// formula branches on whether the trial count is the scalar 1 or a
// per-observation vector.
type Binomial struct {
	baseFamily

	// n holds per-observation trial counts after a two-column Initialize;
	// nil means the scalar 1.
	n []float64
}

// NewBinomial returns a Binomial family with the given link, or the logit
// link when link is nil. Allowed links are logit, probit, cauchy, log,
// cloglog and identity.
func NewBinomial(link links.Link) (*Binomial, error) {
	l, err := resolveLink("NewBinomial", link, func() links.Link { return links.NewLogit() },
		[]links.Kind{links.KindLogit, links.KindProbit, links.KindCauchy,
			links.KindLog, links.KindCLogLog, links.KindIdentity})
	if err != nil {
		return nil, err
	}
	return &Binomial{baseFamily: baseFamily{
		name:     "Binomial",
		link:     l,
		variance: varfuncs.NewBinomial(nil),
		validLo:  0,
		validHi:  1,
		safeKinds: []links.Kind{links.KindLogit, links.KindProbit,
			links.KindCauchy, links.KindCLogLog},
	}}, nil
}

// N returns the per-observation trial counts, or nil while the trial count
// is the scalar 1.
func (f *Binomial) N() []float64 { return f.n }

// StartingMu returns (y + 0.5) / 2, a good IRLS starting value for
// proportions.
func (f *Binomial) StartingMu(y []float64) []float64 {
	return apply(y, func(v float64) float64 {
		return (v + 0.5) / 2
	})
}

// Initialize derives the working response from the raw one. A two-column
// (successes, failures) matrix yields the proportions
// successes/(successes+failures), per-observation trial counts, and
// rebinds the family's variance function to those counts. A one-column
// matrix is taken to hold proportions already and leaves the trial count
// at the scalar 1. Initialize is a one-time refinement that must happen
// before fitting starts; the family is immutable afterwards.
func (f *Binomial) Initialize(endog mat.Matrix) (y, n []float64, err error) {
	r, c := endog.Dims()
	if r == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Binomial.Initialize")
	}

	switch c {
	case 1:
		y = make([]float64, r)
		n = make([]float64, r)
		for i := 0; i < r; i++ {
			y[i] = endog.At(i, 0)
			n[i] = 1
		}
		return y, n, nil
	case 2:
		y = make([]float64, r)
		n = make([]float64, r)
		for i := 0; i < r; i++ {
			succ := endog.At(i, 0)
			n[i] = succ + endog.At(i, 1)
			y[i] = succ / n[i]
		}
		f.n = n
		f.variance = varfuncs.NewBinomial(n)
		return y, n, nil
	default:
		return nil, nil, errors.NewDimensionError("Binomial.Initialize", 2, c, 1)
	}
}

// Deviance branches on the trial count. For Bernoulli data it is
// -2*sum(w*(1[y=1]*log(mu) + 1[y!=1]*log(1-mu))); for grouped data it is
// 2*sum(w*n*(y*log(y/mu) + (1-y)*log((1-y)/(1-mu)))). Both logarithms are
// floored. The scale argument is not used.
func (f *Binomial) Deviance(endog, mu, freqWeights []float64, scale float64) float64 {
	var dev float64
	if f.n == nil {
		for i := range endog {
			var t float64
			if endog[i] == 1 {
				t = math.Log(mu[i] + logFloor)
			} else {
				t = math.Log(1 - mu[i] + logFloor)
			}
			dev -= 2 * weightAt(freqWeights, i) * t
		}
		return dev
	}

	for i := range endog {
		y, m := endog[i], mu[i]
		t := y*math.Log(y/m+logFloor) + (1-y)*math.Log((1-y)/(1-m)+logFloor)
		dev += 2 * weightAt(freqWeights, i) * f.n[i] * t
	}
	return dev
}

// ResidDev mirrors the Deviance branch split with a signed square-root
// form. The mean is clipped through the link's boundary helper first.
func (f *Binomial) ResidDev(endog, mu []float64, scale float64) []float64 {
	mu = f.link.Clip(mu)
	if f.n == nil {
		return apply2(endog, mu, func(y, m float64) float64 {
			var p float64
			if y == 1 {
				p = m
			} else {
				p = 1 - m
			}
			return sign(y-m) * math.Sqrt(-2*math.Log(p)) / scale
		})
	}

	out := make([]float64, len(endog))
	for i := range endog {
		y, m := endog[i], mu[i]
		t := y*math.Log(y/m+logFloor) + (1-y)*math.Log((1-y)/(1-m)+logFloor)
		out[i] = sign(y-m) * math.Sqrt(2*f.n[i]*t) / scale
	}
	return out
}

// LogLike branches on the trial count. The Bernoulli form is
// scale*sum(w*(y*log(mu/(1-mu)) + log(1-mu))); the grouped form
// reconstructs success counts y*n and adds the log binomial coefficient as
// a difference of log-gamma terms.
func (f *Binomial) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	var ll float64
	if f.n == nil {
		for i := range endog {
			y, m := endog[i], mu[i]
			ll += weightAt(freqWeights, i) * (y*math.Log(m/(1-m)+logFloor) + math.Log(1-m))
		}
		return scale * ll
	}

	for i := range endog {
		n := f.n[i]
		y := endog[i] * n // convert back to successes
		m := mu[i]
		t := lgamma(n+1) - lgamma(y+1) - lgamma(n-y+1)
		t += y*math.Log(m/(1-m)) + n*math.Log(1-m)
		ll += weightAt(freqWeights, i) * t
	}
	return scale * ll
}

// coxSnell is the Cox and Snell (1968) transform used by the Binomial
// Anscombe residuals: the regularized incomplete beta function at
// (2/3, 2/3) rescaled by the complete beta function.
func coxSnell(x float64) float64 {
	return mathext.RegIncBeta(2.0/3, 2.0/3, x) * mathext.Beta(2.0/3, 2.0/3)
}

// ResidAnscombe returns
// sqrt(n) * (coxSnell(y) - coxSnell(mu)) / (mu^(1/6) * (1-mu)^(1/6)).
func (f *Binomial) ResidAnscombe(endog, mu []float64) []float64 {
	out := make([]float64, len(endog))
	for i := range endog {
		n := 1.0
		if f.n != nil {
			n = f.n[i]
		}
		m := mu[i]
		out[i] = math.Sqrt(n) * (coxSnell(endog[i]) - coxSnell(m)) /
			(math.Pow(m, 1.0/6) * math.Pow(1-m, 1.0/6))
	}
	return out
}
