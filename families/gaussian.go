package families

import (
	"math"

	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/varfuncs"
)

// Gaussian is the Gaussian exponential family, with unrestricted mean
// domain and constant variance. The canonical link is the identity link.
type Gaussian struct {
	baseFamily
}

// NewGaussian returns a Gaussian family with the given link, or the
// identity link when link is nil. Allowed links are log, identity and
// inverse power; every allowed link is range preserving here.
func NewGaussian(link links.Link) (*Gaussian, error) {
	l, err := resolveLink("NewGaussian", link, func() links.Link { return links.NewIdentity() },
		[]links.Kind{links.KindLog, links.KindIdentity, links.KindInversePower})
	if err != nil {
		return nil, err
	}
	return &Gaussian{baseFamily{
		name:      "Gaussian",
		link:      l,
		variance:  varfuncs.NewConstant(),
		validLo:   math.Inf(-1),
		validHi:   math.Inf(1),
		safeKinds: []links.Kind{links.KindLog, links.KindIdentity, links.KindInversePower},
	}}, nil
}

// ResidDev returns (y - mu) / sqrt(variance(mu)) / scale.
func (f *Gaussian) ResidDev(endog, mu []float64, scale float64) []float64 {
	va := f.variance.Call(mu)
	out := make([]float64, len(endog))
	for i := range endog {
		out[i] = (endog[i] - mu[i]) / math.Sqrt(va[i]) / scale
	}
	return out
}

// Deviance returns sum(w * (y - mu)^2) / scale.
func (f *Gaussian) Deviance(endog, mu, freqWeights []float64, scale float64) float64 {
	var dev float64
	for i := range endog {
		r := endog[i] - mu[i]
		dev += weightAt(freqWeights, i) * r * r
	}
	return dev / scale
}

// LogLike has two branches. Under the identity link (a power link with
// exponent 1) it is the concentrated least-squares log-likelihood through
// the residual sum of squares, which is scale free. Under any other link
// it is the general exponential family form.
func (f *Gaussian) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	if p, ok := f.link.(*links.Power); ok && p.Power() == 1 {
		nobs2 := float64(len(endog)) / 2
		fit := f.Fitted(mu)
		var ssr float64
		for i := range endog {
			r := endog[i] - fit[i]
			ssr += r * r
		}
		llf := -math.Log(ssr) * nobs2
		llf -= (1 + math.Log(math.Pi/nobs2)) * nobs2
		return llf
	}

	var ll float64
	for i := range endog {
		y, m := endog[i], mu[i]
		ll += weightAt(freqWeights, i) * ((y*m-m*m/2)/scale - y*y/(2*scale) - 0.5*math.Log(2*math.Pi*scale))
	}
	return ll
}

// ResidAnscombe returns y - mu: Gaussian residuals are already variance
// stabilized.
func (f *Gaussian) ResidAnscombe(endog, mu []float64) []float64 {
	return apply2(endog, mu, func(y, m float64) float64 {
		return y - m
	})
}
