package families

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/glmgo/glmgo/links"
)

func TestGaussianDevianceIsSSR(t *testing.T) {
	gaussian, _ := NewGaussian(nil)
	endog := []float64{1, 2, 3}
	mu := []float64{1.1, 1.9, 3.2}

	want := 0.01 + 0.01 + 0.04
	if dev := gaussian.Deviance(endog, mu, nil, 1); !scalarClose(dev, want, 1e-12) {
		t.Errorf("deviance = %v, want %v", dev, want)
	}

	rd := gaussian.ResidDev(endog, mu, 1)
	var sumsq float64
	for _, r := range rd {
		sumsq += r * r
	}
	if !scalarClose(sumsq, want, 1e-12) {
		t.Errorf("sum(rd^2) = %v, want %v", sumsq, want)
	}
}

func TestGaussianLogLikeIdentityLink(t *testing.T) {
	// With the identity link the log-likelihood profiles out the variance
	// and reduces to the least-squares form in the residual sum of squares.
	gaussian, _ := NewGaussian(nil)
	endog := []float64{1, 2, 3}
	mu := []float64{1.1, 1.9, 3.2}

	ssr := 0.06
	nobs2 := 1.5
	want := -math.Log(ssr)*nobs2 - (1+math.Log(math.Pi/nobs2))*nobs2

	if got := gaussian.LogLike(endog, mu, nil, 1); !scalarClose(got, want, 1e-10) {
		t.Errorf("loglike = %v, want %v", got, want)
	}
}

func TestGaussianLogLikeLogLink(t *testing.T) {
	// Any non-identity link takes the general exponential-family form.
	gaussian, err := NewGaussian(links.NewLog())
	if err != nil {
		t.Fatal(err)
	}
	endog := []float64{1, 2, 3}
	mu := []float64{1.1, 1.9, 3.2}
	scale := 0.5

	var want float64
	for i := range endog {
		d := endog[i] - mu[i]
		want += (d*d/scale + math.Log(scale) + math.Log(2*math.Pi)) / -2
	}
	if got := gaussian.LogLike(endog, mu, nil, scale); !scalarClose(got, want, 1e-10) {
		t.Errorf("loglike = %v, want %v", got, want)
	}
}

func TestGaussianResidAnscombe(t *testing.T) {
	gaussian, _ := NewGaussian(nil)
	endog := []float64{1, 2, 3}
	mu := []float64{1.1, 1.9, 3.2}

	want := []float64{-0.1, 0.1, -0.2}
	if got := gaussian.ResidAnscombe(endog, mu); !floats.EqualApprox(got, want, 1e-12) {
		t.Errorf("anscombe = %v, want %v", got, want)
	}
}
