package stats

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a two-sample comparison is requested
// with fewer than two data points on either side. The comparison is refused
// outright rather than producing a meaningless value.
var ErrInsufficientData = errors.New("need at least two data points per team to run this test")

// Compare runs a two-sample Student's t test and returns the two-tailed
// p-value, with degrees of freedom min(n1,n2)-1.
func Compare(a, b []float64) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, ErrInsufficientData
	}
	df := float64(min(len(a), len(b)) - 1)
	t := -math.Abs(tTwoSample(a, b))
	return studentTCDF(t, df) * 2, nil
}

// tTwoSample computes the pooled-variance two-sample t statistic.
func tTwoSample(a, b []float64) float64 {
	n1 := float64(len(a))
	n2 := float64(len(b))
	pooled := ((n1-1)*sampleVariance(a) + (n2-1)*sampleVariance(b)) / (n1 + n2 - 2)
	denom := math.Sqrt(pooled * (1/n1 + 1/n2))
	if denom == 0 {
		return 0
	}
	return (Mean(a) - Mean(b)) / denom
}

// studentTCDF is the CDF of Student's t distribution with df degrees of
// freedom, via the regularized incomplete beta function.
func studentTCDF(t, df float64) float64 {
	x := df / (df + t*t)
	p := 0.5 * regIncompleteBeta(df/2, 0.5, x)
	if t > 0 {
		return 1 - p
	}
	return p
}

// regIncompleteBeta evaluates I_x(a, b) using the continued fraction
// expansion (Numerical Recipes 6.4).
func regIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	lgab, _ := math.Lgamma(a + b)
	front := math.Exp(lgab - lga - lgb + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-30
	)
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm
		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c
		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h
}
