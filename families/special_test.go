package families

import (
	"math"
	"testing"
)

func TestHyp2f1AtZero(t *testing.T) {
	if got := hyp2f1(2.0/3, 1.0/3, 5.0/3, 0); got != 1 {
		t.Errorf("2F1(...; 0) = %v, want 1", got)
	}
}

// The defining Gauss series converges for |x| < 1, so for moderate negative
// arguments the Pfaff-transformed evaluation can be checked against a naive
// direct summation.
func TestHyp2f1AgainstDirectSeries(t *testing.T) {
	a, b, c := 2.0/3, 1.0/3, 5.0/3
	for _, x := range []float64{-0.1, -0.25, -0.5, -0.9} {
		term := 1.0
		sum := 1.0
		for k := 0; k < 400; k++ {
			fk := float64(k)
			term *= (a + fk) * (b + fk) / ((c + fk) * (fk + 1)) * x
			sum += term
		}
		if got := hyp2f1(a, b, c, x); !scalarClose(got, sum, 1e-12) {
			t.Errorf("2F1(%v) = %v, want %v", x, got, sum)
		}
	}
}

func TestHyp2f1LargeNegative(t *testing.T) {
	// The Pfaff transformation keeps the evaluation inside the unit disk
	// even where the direct series diverges; check monotone decay toward
	// zero-ish values and finiteness far out.
	prev := hyp2f1(2.0/3, 1.0/3, 5.0/3, -1)
	for _, x := range []float64{-2, -5, -10, -100, -1000, -1e4} {
		got := hyp2f1(2.0/3, 1.0/3, 5.0/3, x)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("2F1(%v) = %v", x, got)
		}
		if got >= prev {
			t.Errorf("2F1 not decreasing at %v: %v >= %v", x, got, prev)
		}
		prev = got
	}

	// Spot value: 2F1(2/3, 1/3; 5/3; -1000) through the 1-z connection
	// formula evaluated by hand, 1001^(-2/3) * (2*1001^(1/3)*S - C), with
	// S and C short convergent sums.
	got := hyp2f1(2.0/3, 1.0/3, 5.0/3, -1000)
	if !scalarClose(got, 0.186344, 1e-4) {
		t.Errorf("2F1(-1000) = %v, want ~0.186344", got)
	}
}

func TestHyp2f1EulerTransformation(t *testing.T) {
	// 2F1(a, b; c; x) = (1-x)^(c-a-b) * 2F1(c-a, c-b; c; x). The two sides
	// run through different parameter triples and therefore different
	// series, so a truncated or stalled summation breaks the identity.
	a, b, c := 2.0/3, 1.0/3, 5.0/3
	for _, x := range []float64{-0.5, -3, -10, -100, -500, -1000, -1e4} {
		lhs := hyp2f1(a, b, c, x)
		rhs := math.Pow(1-x, c-a-b) * hyp2f1(c-a, c-b, c, x)
		if !scalarClose(lhs/rhs, 1, 1e-10) {
			t.Errorf("identity broken at %v: lhs %v, rhs %v", x, lhs, rhs)
		}
	}
}

func TestHyp2f1ContinuousAcrossSeriesSwitch(t *testing.T) {
	// x = -3 maps to z = 0.75, the boundary between direct summation and
	// the 1-z connection formula; both evaluations must agree there.
	a, b, c := 2.0/3, 1.0/3, 5.0/3
	lo := hyp2f1(a, b, c, -3-1e-9)
	hi := hyp2f1(a, b, c, -3+1e-9)
	if !scalarClose(lo, hi, 1e-9) {
		t.Errorf("discontinuity across the series switch: %v vs %v", lo, hi)
	}
}
