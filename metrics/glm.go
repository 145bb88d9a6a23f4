// Package metrics provides goodness-of-fit summaries for fitted GLM means:
// the Pearson chi-squared statistic, information criteria and deviance
// based fit fractions. All functions take the response and fitted mean as
// plain slices together with the family that produced the fit.
package metrics

import (
	"math"

	"github.com/glmgo/glmgo/families"
	"github.com/glmgo/glmgo/pkg/errors"
)

func checkLengths(op string, endog, mu []float64) error {
	if len(endog) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(mu) != len(endog) {
		return errors.NewDimensionError(op, len(endog), len(mu), 0)
	}
	return nil
}

func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}

// PearsonChi2 returns sum(w * (y-mu)^2 / V(mu)) / scale, the Pearson
// chi-squared statistic of the fit.
func PearsonChi2(f families.Family, endog, mu, freqWeights []float64, scale float64) (float64, error) {
	if err := checkLengths("PearsonChi2", endog, mu); err != nil {
		return 0, err
	}
	va := f.Variance().Call(mu)
	var chi2 float64
	for i := range endog {
		r := endog[i] - mu[i]
		chi2 += weightAt(freqWeights, i) * r * r / va[i]
	}
	return chi2 / scale, nil
}

// AIC returns -2*loglike + 2*nparams, the Akaike information criterion of
// a fit with nparams estimated parameters.
func AIC(f families.Family, endog, mu, freqWeights []float64, scale float64, nparams int) (float64, error) {
	if err := checkLengths("AIC", endog, mu); err != nil {
		return 0, err
	}
	ll := f.LogLike(endog, mu, freqWeights, scale)
	return -2*ll + 2*float64(nparams), nil
}

// BIC returns the deviance based Bayesian information criterion
// deviance - df_resid * log(nobs), with df_resid = nobs - nparams.
func BIC(f families.Family, endog, mu, freqWeights []float64, scale float64, nparams int) (float64, error) {
	if err := checkLengths("BIC", endog, mu); err != nil {
		return 0, err
	}
	nobs := float64(len(endog))
	dev := f.Deviance(endog, mu, freqWeights, scale)
	return dev - (nobs-float64(nparams))*math.Log(nobs), nil
}

// nullMu fills a vector with the frequency-weighted mean of the response,
// the fitted mean of the intercept-only model.
func nullMu(endog, freqWeights []float64) []float64 {
	var sum, wsum float64
	for i := range endog {
		w := weightAt(freqWeights, i)
		sum += w * endog[i]
		wsum += w
	}
	mean := sum / wsum
	mu := make([]float64, len(endog))
	for i := range mu {
		mu[i] = mean
	}
	return mu
}

// DevianceExplained returns 1 - deviance/null_deviance, the fraction of the
// intercept-only deviance removed by the fit. A perfect fit gives 1, the
// intercept-only fit gives 0.
func DevianceExplained(f families.Family, endog, mu, freqWeights []float64, scale float64) (float64, error) {
	if err := checkLengths("DevianceExplained", endog, mu); err != nil {
		return 0, err
	}
	dev := f.Deviance(endog, mu, freqWeights, scale)
	devNull := f.Deviance(endog, nullMu(endog, freqWeights), freqWeights, scale)
	return 1 - dev/devNull, nil
}

// McFaddenR2 returns 1 - loglike/null_loglike, McFadden's pseudo R
// squared against the intercept-only model.
func McFaddenR2(f families.Family, endog, mu, freqWeights []float64, scale float64) (float64, error) {
	if err := checkLengths("McFaddenR2", endog, mu); err != nil {
		return 0, err
	}
	ll := f.LogLike(endog, mu, freqWeights, scale)
	llNull := f.LogLike(endog, nullMu(endog, freqWeights), freqWeights, scale)
	return 1 - ll/llNull, nil
}
