package families

import (
	"math"

	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/varfuncs"
)

// Gamma is the Gamma exponential family, with mean domain (0, inf) and
// variance V(mu) = mu^2. The canonical link is the inverse power link.
type Gamma struct {
	baseFamily
}

// NewGamma returns a Gamma family with the given link, or the inverse
// power link when link is nil. Allowed links are log, identity and inverse
// power; only the log link is range preserving.
func NewGamma(link links.Link) (*Gamma, error) {
	l, err := resolveLink("NewGamma", link, func() links.Link { return links.NewInversePower() },
		[]links.Kind{links.KindLog, links.KindIdentity, links.KindInversePower})
	if err != nil {
		return nil, err
	}
	return &Gamma{baseFamily{
		name:      "Gamma",
		link:      l,
		variance:  varfuncs.NewMuSquared(),
		validLo:   0,
		validHi:   math.Inf(1),
		safeKinds: []links.Kind{links.KindLog},
	}}, nil
}

// Deviance returns 2*sum(w * ((y-mu)/mu - log(y/mu))), with y/mu clipped
// away from zero before the logarithm. The scale argument is not used.
func (f *Gamma) Deviance(endog, mu, freqWeights []float64, scale float64) float64 {
	var dev float64
	for i := range endog {
		em := clipLow(endog[i] / mu[i])
		dev += 2 * weightAt(freqWeights, i) * ((endog[i]-mu[i])/mu[i] - math.Log(em))
	}
	return dev
}

// ResidDev returns sign(y-mu) * sqrt(-2*(-(y-mu)/mu + log(y/mu))). The
// scale argument is not used.
func (f *Gamma) ResidDev(endog, mu []float64, scale float64) []float64 {
	return apply2(endog, mu, func(y, m float64) float64 {
		em := clipLow(y / m)
		return sign(y-m) * math.Sqrt(-2*(-(y-m)/m+math.Log(em)))
	})
}

// LogLike returns
// -(1/scale)*sum(w*(y/mu + log(mu) + (scale-1)*log(y) + log(scale) +
// scale*logGamma(1/scale))).
func (f *Gamma) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	var ll float64
	for i := range endog {
		y, m := endog[i], mu[i]
		v := y/m + math.Log(m) + (scale-1)*math.Log(y) + math.Log(scale) + scale*lgamma(1/scale)
		ll += weightAt(freqWeights, i) * v
	}
	return -ll / scale
}

// ResidAnscombe returns 3*(y^(1/3) - mu^(1/3)) / mu^(1/3).
func (f *Gamma) ResidAnscombe(endog, mu []float64) []float64 {
	return apply2(endog, mu, func(y, m float64) float64 {
		cm := math.Cbrt(m)
		return 3 * (math.Cbrt(y) - cm) / cm
	})
}
