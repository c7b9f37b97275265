package nlp

import (
	"math/rand"
	"testing"

	"github.com/san-kum/trajopt/internal/arm"
	"github.com/san-kum/trajopt/internal/deriv"
)

func testProblem(t *testing.T, n int, scheme Scheme) *Problem {
	t.Helper()
	xIni := [arm.StateDim]float64{0.3, -0.5, 1.1, 0, 0, 0}
	xFinal := [arm.StateDim]float64{-0.8, 0.9, 0.2, 0, 0, 0}
	p, err := NewProblem(n, 0, float64(n-1)*0.5, scheme, xIni, xFinal, 24, nil)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func TestNewProblemValidation(t *testing.T) {
	var x [arm.StateDim]float64
	if _, err := NewProblem(1, 0, 1, BackwardEuler, x, x, 24, nil); err == nil {
		t.Error("accepted single-node horizon")
	}
	if _, err := NewProblem(5, 1, 1, BackwardEuler, x, x, 24, nil); err == nil {
		t.Error("accepted empty horizon")
	}
	if _, err := NewProblem(5, 0, 1, Scheme(9), x, x, 24, nil); err == nil {
		t.Error("accepted unknown scheme")
	}
	if _, err := NewProblem(5, 0, 1, Midpoint, x, x, 0, nil); err == nil {
		t.Error("accepted zero voltage cap")
	}
}

func TestParseScheme(t *testing.T) {
	if s, err := ParseScheme("backward_euler"); err != nil || s != BackwardEuler {
		t.Errorf("backward_euler: %v %v", s, err)
	}
	if s, err := ParseScheme("midpoint"); err != nil || s != Midpoint {
		t.Errorf("midpoint: %v %v", s, err)
	}
	if _, err := ParseScheme("rk4"); err == nil {
		t.Error("accepted unknown scheme name")
	}
}

// Replicating the initial state across all nodes zeroes the first
// boundary block exactly; the final block is the known XIni−XFinal gap.
func TestConstraintsReplicatedInitialState(t *testing.T) {
	p := testProblem(t, 6, Midpoint)
	x := make([]float64, p.Layout().NumVars())
	for node := 0; node < p.N; node++ {
		lo, _ := p.Layout().Block(node)
		copy(x[lo:], p.XIni[:])
	}

	g := p.Constraints(x)
	if len(g) != p.Layout().NumConstraints() {
		t.Fatalf("constraint length %d, want %d", len(g), p.Layout().NumConstraints())
	}

	off := (p.N - 1) * arm.StateDim
	for i := 0; i < arm.StateDim; i++ {
		if g[off+i] != 0 {
			t.Errorf("initial boundary row %d: got %g, want 0", i, g[off+i])
		}
		want := p.XIni[i] - p.XFinal[i]
		if g[off+arm.StateDim+i] != want {
			t.Errorf("final boundary row %d: got %g, want %g", i, g[off+arm.StateDim+i], want)
		}
	}
}

// An all-zero decision vector leaves the boundary blocks holding exactly
// the negated target states.
func TestConstraintsZeroVectorBoundary(t *testing.T) {
	p := testProblem(t, 3, BackwardEuler)
	x := make([]float64, p.Layout().NumVars())

	g := p.Constraints(x)
	off := (p.N - 1) * arm.StateDim
	for i := 0; i < arm.StateDim; i++ {
		if g[off+i] != -p.XIni[i] {
			t.Errorf("initial boundary row %d: got %g, want %g", i, g[off+i], -p.XIni[i])
		}
		if g[off+arm.StateDim+i] != -p.XFinal[i] {
			t.Errorf("final boundary row %d: got %g, want %g", i, g[off+arm.StateDim+i], -p.XFinal[i])
		}
	}

	// At rest the kinematic defect rows vanish too.
	for seg := 0; seg < p.N-1; seg++ {
		for i := 0; i < arm.NumJoints; i++ {
			if g[seg*arm.StateDim+i] != 0 {
				t.Errorf("segment %d kinematic row %d: got %g", seg, i, g[seg*arm.StateDim+i])
			}
		}
	}
}

// Swapping the boundary states mirrors the boundary residual blocks.
func TestConstraintsSwappedBoundary(t *testing.T) {
	p := testProblem(t, 4, BackwardEuler)
	q := p.Swapped()
	x := make([]float64, p.Layout().NumVars())

	gp := p.Constraints(x)
	gq := q.Constraints(x)
	off := (p.N - 1) * arm.StateDim
	for i := 0; i < arm.StateDim; i++ {
		if gp[off+i] != gq[off+arm.StateDim+i] || gp[off+arm.StateDim+i] != gq[off+i] {
			t.Errorf("row %d: boundary blocks did not swap", i)
		}
	}
	if p.XIni != q.XFinal || p.XFinal != q.XIni {
		t.Error("Swapped did not exchange boundary states")
	}
}

func TestCallbacksAreIdempotent(t *testing.T) {
	for _, scheme := range []Scheme{BackwardEuler, Midpoint} {
		p := testProblem(t, 5, scheme)
		rng := rand.New(rand.NewSource(3))
		x := p.InitialGuess(rng)
		pat := p.NewPattern(rand.New(rand.NewSource(4)))

		g1 := p.Constraints(x)
		g2 := p.Constraints(x)
		for i := range g1 {
			if g1[i] != g2[i] {
				t.Fatalf("%v: constraints differ at %d", scheme, i)
			}
		}

		if p.Objective(x) != p.Objective(x) {
			t.Fatalf("%v: objective not idempotent", scheme)
		}

		grad1 := make([]float64, len(x))
		grad2 := make([]float64, len(x))
		p.Gradient(x, grad1)
		p.Gradient(x, grad2)
		for i := range grad1 {
			if grad1[i] != grad2[i] {
				t.Fatalf("%v: gradient differs at %d", scheme, i)
			}
		}

		v1 := make([]float64, pat.NNZ())
		v2 := make([]float64, pat.NNZ())
		p.JacobianValues(pat, x, v1)
		p.JacobianValues(pat, x, v2)
		for i := range v1 {
			if v1[i] != v2[i] {
				t.Fatalf("%v: jacobian values differ at %d", scheme, i)
			}
		}
	}
}

// The assembled sparse Jacobian must match a dense finite-difference
// probe of the constraint vector for both schemes.
func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	for _, scheme := range []Scheme{BackwardEuler, Midpoint} {
		p := testProblem(t, 4, scheme)
		lay := p.Layout()
		rng := rand.New(rand.NewSource(11))
		x := p.InitialGuess(rng)
		pat := p.NewPattern(rng)

		dense := make([]float64, lay.NumConstraints()*lay.NumVars())
		for _, tr := range p.JacobianTriplets(pat, x) {
			dense[tr.Row*lay.NumVars()+tr.Col] = tr.Val
		}

		fd := deriv.Central(func(y []float64) []float64 {
			return p.Constraints(y)
		}, x, lay.NumConstraints())

		if d := deriv.MaxRel(dense, fd); d > 1e-4 {
			t.Errorf("%v: jacobian deviates from finite differences by %g", scheme, d)
		}
	}
}

// A directional probe through the triplet product must agree with a
// central difference of the constraints along the same direction.
func TestJacobianDirectionalDerivative(t *testing.T) {
	p := testProblem(t, 5, Midpoint)
	lay := p.Layout()
	rng := rand.New(rand.NewSource(12))
	x := p.InitialGuess(rng)
	pat := p.NewPattern(rng)

	dir := make([]float64, lay.NumVars())
	for i := range dir {
		dir[i] = 2*rng.Float64() - 1
	}

	jv := make([]float64, lay.NumConstraints())
	mulVec(p.JacobianTriplets(pat, x), jv, dir)

	const eps = 1e-6
	xp := make([]float64, len(x))
	xm := make([]float64, len(x))
	for i := range x {
		xp[i] = x[i] + eps*dir[i]
		xm[i] = x[i] - eps*dir[i]
	}
	gp := p.Constraints(xp)
	gm := p.Constraints(xm)
	for i := range jv {
		fd := (gp[i] - gm[i]) / (2 * eps)
		if d := abs(jv[i]-fd) / max1(abs(fd)); d > 1e-4 {
			t.Fatalf("row %d: J·v=%g, fd=%g", i, jv[i], fd)
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max1(x float64) float64 {
	if x > 1 {
		return x
	}
	return 1
}
