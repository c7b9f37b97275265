package arm

import (
	"math/rand"
	"testing"

	"github.com/san-kum/trajopt/internal/deriv"
)

const jacTol = 1e-5

// flatten lays a 6×9 block out row-major for comparison with deriv.Central.
func flatten(m [StateDim][BlockDim]float64) []float64 {
	out := make([]float64, 0, StateDim*BlockDim)
	for _, row := range m {
		out = append(out, row[:]...)
	}
	return out
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		z, zdot := randomPoint(rng)
		fz, fdot := Jacobian(p, z, zdot)

		fdZ := deriv.Central(func(x []float64) []float64 {
			return Residual(p, x, zdot)
		}, z, StateDim)
		if d := deriv.MaxRel(flatten(fz), fdZ); d > jacTol {
			t.Fatalf("trial %d: ∂f/∂z deviates from finite differences by %g", trial, d)
		}

		fdDot := deriv.Central(func(x []float64) []float64 {
			return Residual(p, z, x)
		}, zdot, StateDim)
		// fdot is padded to block width; compare the live six columns.
		got := make([]float64, 0, StateDim*StateDim)
		for r := 0; r < StateDim; r++ {
			got = append(got, fdot[r][:StateDim]...)
		}
		if d := deriv.MaxRel(got, fdDot); d > jacTol {
			t.Fatalf("trial %d: ∂f/∂ż deviates from finite differences by %g", trial, d)
		}
	}
}

func TestJacobianBaseColumnStructurallyZero(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(8))
	z, zdot := randomPoint(rng)

	fz, _ := Jacobian(p, z, zdot)
	for r := NumJoints; r < StateDim; r++ {
		if fz[r][0] != 0 {
			t.Errorf("force row %d depends on the cyclic base angle: %g", r, fz[r][0])
		}
	}
}

func TestJacobianControlColumnsDiagonal(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(9))
	z, zdot := randomPoint(rng)

	fz, fdot := Jacobian(p, z, zdot)
	for r := 0; r < StateDim; r++ {
		for c := 2 * NumJoints; c < BlockDim; c++ {
			want := 0.0
			if r >= NumJoints && c-2*NumJoints == r-NumJoints {
				want = -1
			}
			if fz[r][c] != want {
				t.Errorf("fz[%d][%d] = %g, want %g", r, c, fz[r][c], want)
			}
			if fdot[r][c] != 0 {
				t.Errorf("fdot[%d][%d] = %g, want 0", r, c, fdot[r][c])
			}
		}
	}
}
