// Package glmgo implements the one-parameter exponential families used by
// generalized linear models: Gaussian, Poisson, QuasiPoisson, Gamma,
// Binomial and NegativeBinomial.
//
// A family bundles a link function, a mean-to-variance relation and the
// likelihood formulas derived from them. Fitting loops obtain starting
// values and iteration weights from the family and score a fitted mean
// through its deviance, log-likelihood and residual methods:
//
//	poisson, err := families.NewPoisson(nil) // canonical log link
//	if err != nil {
//		// invalid link choice
//	}
//	mu := poisson.StartingMu(endog)
//	w := poisson.Weights(mu)
//	dev := poisson.Deviance(endog, mu, nil, 1)
//	rd := poisson.ResidDev(endog, mu, 1)
//
// The subpackages divide the work: links holds the link functions,
// varfuncs the variance relations, families the family types and metrics
// the goodness-of-fit summaries. Boundary inputs are clipped where a
// formula would otherwise produce a spurious infinity; genuinely undefined
// values propagate as NaN rather than panic.
package glmgo
