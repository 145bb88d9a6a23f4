package families

import (
	"math"

	"github.com/glmgo/glmgo/links"
	"github.com/glmgo/glmgo/pkg/errors"
	"github.com/glmgo/glmgo/varfuncs"
)

// NegativeBinomial is the negative binomial exponential family with a
// fixed dispersion parameter alpha, giving the mean-variance relation
// Var = mu + alpha*mu^2. The canonical-style default link is the log link.
//
// Beyond the uniform Family contract it exposes per-observation
// log-likelihoods and variants parameterized by variance (analytic)
// weights; the uniform methods delegate with unit variance weights.
type NegativeBinomial struct {
	baseFamily

	alpha float64
}

// NewNegativeBinomial returns a negative binomial family with the given
// link and dispersion alpha, or the log link when link is nil. Allowed
// links are log, cloglog, identity, the negative binomial link, and power.
// alpha must be positive; usual values lie between 0.01 and 2.
func NewNegativeBinomial(link links.Link, alpha float64) (*NegativeBinomial, error) {
	if !(alpha > 0) {
		return nil, errors.NewValidationError("alpha", "must be positive", alpha)
	}
	l, err := resolveLink("NewNegativeBinomial", link, func() links.Link { return links.NewLog() },
		[]links.Kind{links.KindLog, links.KindCLogLog, links.KindIdentity,
			links.KindNegBinom, links.KindPower})
	if err != nil {
		return nil, err
	}
	return &NegativeBinomial{
		baseFamily: baseFamily{
			name:      "NegativeBinomial",
			link:      l,
			variance:  varfuncs.NewNegBinom(alpha),
			validLo:   0,
			validHi:   math.Inf(1),
			safeKinds: []links.Kind{links.KindLog},
		},
		alpha: alpha,
	}, nil
}

// Alpha returns the dispersion parameter.
func (f *NegativeBinomial) Alpha() float64 { return f.alpha }

// ResidDev returns the per-observation deviance contributions
// 2*(y*log(y/mu) - (y+1/alpha)*log((y+1/alpha)/(mu+1/alpha))), with y/mu
// clipped away from zero. Unlike the other families these values are not
// signed square roots; Deviance is their weighted sum. The scale argument
// is not used.
func (f *NegativeBinomial) ResidDev(endog, mu []float64, scale float64) []float64 {
	ia := 1 / f.alpha
	return apply2(endog, mu, func(y, m float64) float64 {
		em := clipLow(y / m)
		rd := y * math.Log(em)
		rd -= (y + ia) * math.Log((y+ia)/(m+ia))
		return 2 * rd
	})
}

// DevianceWeighted returns sum(resid_dev * freqWeights * varWeights / scale).
func (f *NegativeBinomial) DevianceWeighted(endog, mu, varWeights, freqWeights []float64, scale float64) float64 {
	rd := f.ResidDev(endog, mu, 1)
	var dev float64
	for i := range rd {
		dev += rd[i] * weightAt(freqWeights, i) * weightAt(varWeights, i) / scale
	}
	return dev
}

// Deviance is DevianceWeighted with unit variance weights.
func (f *NegativeBinomial) Deviance(endog, mu, freqWeights []float64, scale float64) float64 {
	return f.DevianceWeighted(endog, mu, nil, freqWeights, scale)
}

// LogLikeObs returns the per-observation log-likelihood
//
//	(y*log(alpha*mu) - (y+1/alpha)*log(1+alpha*mu)
//	 + logGamma(y+1/alpha) - logGamma(1/alpha) - logGamma(y+1))
//	* varWeights / scale.
func (f *NegativeBinomial) LogLikeObs(endog, mu, varWeights []float64, scale float64) []float64 {
	ia := 1 / f.alpha
	c := lgamma(ia)
	out := make([]float64, len(endog))
	for i := range endog {
		y, m := endog[i], mu[i]
		ll := y * math.Log(f.alpha*m)
		ll -= (y + ia) * math.Log(1+f.alpha*m)
		ll += lgamma(y+ia) - c - lgamma(y+1)
		out[i] = weightAt(varWeights, i) / scale * ll
	}
	return out
}

// LogLikeWeighted sums the per-observation log-likelihoods under frequency
// weights.
func (f *NegativeBinomial) LogLikeWeighted(endog, mu, varWeights, freqWeights []float64, scale float64) float64 {
	obs := f.LogLikeObs(endog, mu, varWeights, scale)
	var ll float64
	for i := range obs {
		ll += obs[i] * weightAt(freqWeights, i)
	}
	return ll
}

// LogLike is LogLikeWeighted with unit variance weights.
func (f *NegativeBinomial) LogLike(endog, mu, freqWeights []float64, scale float64) float64 {
	return f.LogLikeWeighted(endog, mu, nil, freqWeights, scale)
}

// ResidAnscombeWeighted returns the Anscombe residuals
//
//	(3/2) * (y^(2/3)*H(-alpha*y) - mu^(2/3)*H(-alpha*mu))
//	/ (mu*(1+alpha*mu)*scale^3)^(1/6) * sqrt(varWeights)
//
// where H(x) is the Gauss hypergeometric function 2F1(2/3, 1/3; 5/3; x).
func (f *NegativeBinomial) ResidAnscombeWeighted(endog, mu, varWeights []float64, scale float64) []float64 {
	hyp := func(x float64) float64 {
		return hyp2f1(2.0/3, 1.0/3, 5.0/3, x)
	}
	out := make([]float64, len(endog))
	for i := range endog {
		y, m := endog[i], mu[i]
		r := 1.5 * (math.Pow(y, 2.0/3)*hyp(-f.alpha*y) - math.Pow(m, 2.0/3)*hyp(-f.alpha*m))
		r /= math.Pow(m*(1+f.alpha*m)*scale*scale*scale, 1.0/6)
		out[i] = r * math.Sqrt(weightAt(varWeights, i))
	}
	return out
}

// ResidAnscombe is ResidAnscombeWeighted with unit variance weights and
// unit scale.
func (f *NegativeBinomial) ResidAnscombe(endog, mu []float64) []float64 {
	return f.ResidAnscombeWeighted(endog, mu, nil, 1)
}
