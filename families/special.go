package families

import "math"

// hyp2f1 evaluates the Gauss hypergeometric function 2F1(a, b; c; x) for
// x <= 0, the only region the negative binomial Anscombe residual needs
// (its arguments are -alpha*y and -alpha*mu with nonnegative y, mu).
// Negative arguments are mapped into [0, 1) by the Pfaff transformation
//
//	2F1(a, b; c; x) = (1-x)^(-a) * 2F1(a, c-b; c; x/(x-1))
//
// where the Gauss series converges. c-a-b must not be an integer.
func hyp2f1(a, b, c, x float64) float64 {
	switch {
	case x == 0:
		return 1
	case x >= 1:
		return math.NaN()
	case x > 0:
		return hyp2f1Unit(a, b, c, x)
	}
	z := x / (x - 1)
	return math.Pow(1-x, -a) * hyp2f1Unit(a, c-b, c, z)
}

// hyp2f1Unit evaluates on (0, 1). The Gauss series is geometric in z, so
// direct summation stalls as z approaches 1 (large negative x after the
// Pfaff map); there the linear transformation connecting z to 1-z keeps
// both sub-series short.
func hyp2f1Unit(a, b, c, z float64) float64 {
	if z <= 0.75 {
		return hyp2f1Series(a, b, c, z)
	}
	s := c - a - b
	w := 1 - z
	t1 := math.Gamma(c) * math.Gamma(s) / (math.Gamma(c-a) * math.Gamma(c-b)) *
		hyp2f1Series(a, b, 1-s, w)
	t2 := math.Pow(w, s) * math.Gamma(c) * math.Gamma(-s) / (math.Gamma(a) * math.Gamma(b)) *
		hyp2f1Series(c-a, c-b, 1+s, w)
	return t1 + t2
}

// hyp2f1Series sums the defining Gauss series. Callers keep z at or below
// 0.75, where the terms decay geometrically and the convergence test fires
// long before the iteration bound.
func hyp2f1Series(a, b, c, z float64) float64 {
	term := 1.0
	sum := 1.0
	for k := 0; k < 500; k++ {
		fk := float64(k)
		term *= (a + fk) * (b + fk) / ((c + fk) * (fk + 1)) * z
		sum += term
		if math.Abs(term) < 1e-15*math.Abs(sum) {
			break
		}
	}
	return sum
}
