package families

import (
	"math"
	"sync"

	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/pkg/errors"
	"github.com/glmgo/glmgo/varfuncs"
)

// Poisson is the Poisson exponential family, with mean domain (0, inf) and
// variance V(mu) = mu. The canonical link is the log link.
type Poisson struct {
	baseFamily
}

// NewPoisson returns a Poisson family with the given link, or the log link
// when link is nil. Allowed links are log, identity and sqrt.
func NewPoisson(link links.Link) (*Poisson, error) {
	l, err := resolveLink("NewPoisson", link, func() links.Link { return links.NewLog() },
		[]links.Kind{links.KindLog, links.KindIdentity, links.KindSqrt})
	if err != nil {
		return nil, err
	}
	return &Poisson{baseFamily{
		name:      "Poisson",
		link:      l,
		variance:  varfuncs.NewMu(),
		validLo:   0,
		validHi:   math.Inf(1),
		safeKinds: []links.Kind{links.KindLog},
	}}, nil
}

// ResidDev returns sign(y-mu) * sqrt(2*(y*log(y/mu) - (y-mu))) / scale,
// with y/mu clipped away from zero before the logarithm.
func (f *Poisson) ResidDev(endog, mu []float64, scale float64) []float64 {
	return apply2(endog, mu, func(y, m float64) float64 {
		em := clipLow(y / m)
		return sign(y-m) * math.Sqrt(2*(y*math.Log(em)-(y-m))) / scale
	})
}

// Deviance returns 2*sum(w * y * log(y/mu)) / scale. This is the partial
// form without the -(y-mu) term; ResidDev carries the full per-observation
// expansion.
func (f *Poisson) Deviance(endog, mu, freqWeights []float64, scale float64) float64 {
	var dev float64
	for i := range endog {
		em := clipLow(endog[i] / mu[i])
		dev += 2 * weightAt(freqWeights, i) * endog[i] * math.Log(em)
	}
	return dev / scale
}

// LogLike returns scale * sum(w * (y*log(mu) - mu - logGamma(y+1))).
func (f *Poisson) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	var ll float64
	for i := range endog {
		ll += weightAt(freqWeights, i) * (endog[i]*math.Log(mu[i]) - mu[i] - lgamma(endog[i]+1))
	}
	return scale * ll
}

// ResidAnscombe returns (3/2) * (y^(2/3) - mu^(2/3)) / mu^(1/6).
func (f *Poisson) ResidAnscombe(endog, mu []float64) []float64 {
	return apply2(endog, mu, func(y, m float64) float64 {
		return 1.5 * (math.Pow(y, 2.0/3) - math.Pow(m, 2.0/3)) / math.Pow(m, 1.0/6)
	})
}

// QuasiPoisson shares every Poisson formula but has no true likelihood:
// LogLike always returns NaN, a designed unsupported-metric sentinel for
// the quasi-likelihood, and raises an UndefinedMetricWarning the first
// time it is called on an instance.
type QuasiPoisson struct {
	Poisson

	warnOnce sync.Once
}

// NewQuasiPoisson returns a QuasiPoisson family with the given link, or
// the log link when link is nil. Allowed links are log, identity and sqrt.
func NewQuasiPoisson(link links.Link) (*QuasiPoisson, error) {
	p, err := NewPoisson(link)
	if err != nil {
		return nil, err
	}
	p.name = "QuasiPoisson"
	return &QuasiPoisson{Poisson: *p}, nil
}

// LogLike returns NaN: the quasi-likelihood is not a true likelihood.
func (f *QuasiPoisson) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	f.warnOnce.Do(func() {
		errors.Warn(errors.NewUndefinedMetricWarning(
			"loglike", "the quasi-likelihood not being a true likelihood", math.NaN()))
	})
	return math.NaN()
}
