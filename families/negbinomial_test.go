package families

import (
	"math"
	"testing"

	glmerrors "github.com/glmgo/glmgo/pkg/errors"
)

func TestNegBinomialAlphaValidation(t *testing.T) {
	for _, alpha := range []float64{0, -1, math.NaN()} {
		_, err := NewNegativeBinomial(nil, alpha)
		if err == nil {
			t.Errorf("alpha=%v: expected an error", alpha)
			continue
		}
		var valErr *glmerrors.ValidationError
		if !glmerrors.As(err, &valErr) {
			t.Errorf("alpha=%v: expected *ValidationError, got %v", alpha, err)
		}
	}
}

func TestNegBinomialVariance(t *testing.T) {
	nb, err := NewNegativeBinomial(nil, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	mu := []float64{0.5, 1, 2, 4}
	va := nb.Variance().Call(mu)
	for i, m := range mu {
		want := m + 0.5*m*m
		if !scalarClose(va[i], want, 1e-12) {
			t.Errorf("variance(%v) = %v, want %v", m, va[i], want)
		}
	}
}

func TestNegBinomialResidDevZeroAtFit(t *testing.T) {
	nb, _ := NewNegativeBinomial(nil, 0.8)
	mu := []float64{0.5, 1, 2.5, 4}
	rd := nb.ResidDev(mu, mu, 1)
	for i, r := range rd {
		if !scalarClose(r, 0, 1e-12) {
			t.Errorf("resid_dev[%d] = %v, want 0", i, r)
		}
	}
	if dev := nb.Deviance(mu, mu, nil, 1); !scalarClose(dev, 0, 1e-12) {
		t.Errorf("deviance at endog==mu: got %v, want 0", dev)
	}
}

func TestNegBinomialDevianceWeighted(t *testing.T) {
	nb, _ := NewNegativeBinomial(nil, 0.8)
	endog := []float64{0, 1, 3, 5}
	mu := []float64{0.5, 1.2, 2.5, 4}
	freq := []float64{1, 2, 1, 3}
	varw := []float64{1, 1, 0.5, 2}
	scale := 2.0

	rd := nb.ResidDev(endog, mu, 1)
	var want float64
	for i := range rd {
		want += rd[i] * freq[i] * varw[i] / scale
	}
	got := nb.DevianceWeighted(endog, mu, varw, freq, scale)
	if !scalarClose(got, want, 1e-12) {
		t.Errorf("weighted deviance = %v, want %v", got, want)
	}
}

// As alpha tends to zero the negative binomial collapses to the Poisson,
// so its formulas must approach the Poisson ones on the same data.
func TestNegBinomialPoissonLimit(t *testing.T) {
	const alpha = 1e-6
	nb, err := NewNegativeBinomial(nil, alpha)
	if err != nil {
		t.Fatal(err)
	}
	poisson, _ := NewPoisson(nil)

	endog := []float64{0, 1, 3, 5}
	mu := []float64{0.5, 1.2, 2.5, 4}

	// Each deviance contribution approaches the squared Poisson deviance
	// residual.
	rdNB := nb.ResidDev(endog, mu, 1)
	rdP := poisson.ResidDev(endog, mu, 1)
	for i := range rdNB {
		if !scalarClose(rdNB[i], rdP[i]*rdP[i], 1e-4) {
			t.Errorf("resid_dev[%d] = %v, want ~%v", i, rdNB[i], rdP[i]*rdP[i])
		}
	}

	llNB := nb.LogLike(endog, mu, nil, 1)
	llP := poisson.LogLike(endog, mu, nil, 1)
	if !scalarClose(llNB, llP, 5e-4) {
		t.Errorf("loglike = %v, want ~%v", llNB, llP)
	}
}

func TestNegBinomialAnscombePoissonLimit(t *testing.T) {
	const alpha = 1e-8
	nb, _ := NewNegativeBinomial(nil, alpha)
	poisson, _ := NewPoisson(nil)

	endog := []float64{0, 1, 3, 5}
	mu := []float64{0.5, 1.2, 2.5, 4}

	raNB := nb.ResidAnscombe(endog, mu)
	raP := poisson.ResidAnscombe(endog, mu)
	for i := range raNB {
		if !scalarClose(raNB[i], raP[i], 1e-6) {
			t.Errorf("anscombe[%d] = %v, want ~%v", i, raNB[i], raP[i])
		}
	}
}

func TestNegBinomialAnscombeLargeCounts(t *testing.T) {
	// Large alpha*mu pushes the hypergeometric evaluation deep into its
	// slowly-converging region; the residuals must stay finite, vanish at
	// endog == mu and keep the sign of y - mu.
	nb, _ := NewNegativeBinomial(nil, 1)
	endog := []float64{800, 1000, 1200}
	mu := []float64{1000, 1000, 1000}

	ra := nb.ResidAnscombe(endog, mu)
	for i, r := range ra {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Fatalf("anscombe[%d] = %v", i, r)
		}
	}
	if ra[0] >= 0 {
		t.Errorf("anscombe[0] = %v, want < 0 for y < mu", ra[0])
	}
	if !scalarClose(ra[1], 0, 1e-12) {
		t.Errorf("anscombe at y==mu: got %v, want 0", ra[1])
	}
	if ra[2] <= 0 {
		t.Errorf("anscombe[2] = %v, want > 0 for y > mu", ra[2])
	}
}

func TestNegBinomialLogLikeObs(t *testing.T) {
	alpha := 0.5
	nb, _ := NewNegativeBinomial(nil, alpha)
	endog := []float64{0, 1, 3}
	mu := []float64{0.5, 1.2, 2.5}

	obs := nb.LogLikeObs(endog, mu, nil, 1)
	ia := 1 / alpha
	for i := range endog {
		y, m := endog[i], mu[i]
		lgYI, _ := math.Lgamma(y + ia)
		lgI, _ := math.Lgamma(ia)
		lgY1, _ := math.Lgamma(y + 1)
		want := y*math.Log(alpha*m) - (y+ia)*math.Log(1+alpha*m) + lgYI - lgI - lgY1
		if !scalarClose(obs[i], want, 1e-10) {
			t.Errorf("loglike_obs[%d] = %v, want %v", i, obs[i], want)
		}
	}

	// The summed form under frequency weights.
	freq := []float64{2, 1, 3}
	var want float64
	for i := range obs {
		want += obs[i] * freq[i]
	}
	if got := nb.LogLike(endog, mu, freq, 1); !scalarClose(got, want, 1e-12) {
		t.Errorf("loglike = %v, want %v", got, want)
	}
}
