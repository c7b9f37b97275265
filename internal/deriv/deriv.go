// Package deriv approximates Jacobians by finite differences. It exists
// as a diagnostic against the analytic derivatives, not as a substitute
// for them.
package deriv

import "math"

// cubeEps is the optimal relative step for central differences.
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, 1.0/3)

// Func evaluates an m-vector valued function of an n-vector. It must not
// retain or mutate x.
type Func func(x []float64) []float64

// Central approximates the m×n Jacobian of f at x0 with central
// differences, returned row-major. The step per variable scales with
// the magnitude of the entry, following the scipy rule
// h = eps^(1/3) · max(1, |x|).
func Central(f Func, x0 []float64, m int) []float64 {
	n := len(x0)
	jac := make([]float64, m*n)
	x := make([]float64, n)
	copy(x, x0)
	for j := 0; j < n; j++ {
		h := cubeEps * math.Max(1, math.Abs(x0[j]))
		x[j] = x0[j] + h
		hi := f(x)
		x[j] = x0[j] - h
		lo := f(x)
		x[j] = x0[j]
		for i := 0; i < m; i++ {
			jac[i*n+j] = (hi[i] - lo[i]) / (2 * h)
		}
	}
	return jac
}

// MaxRel returns the largest relative deviation between two equally
// shaped row-major matrices, measured against max(1, |b|) per entry so
// near-zero entries are compared absolutely.
func MaxRel(a, b []float64) float64 {
	worst := 0.0
	for i := range a {
		d := math.Abs(a[i]-b[i]) / math.Max(1, math.Abs(b[i]))
		if d > worst {
			worst = d
		}
	}
	return worst
}
