package nlp

import "math/rand"

// Pattern is the fixed nonzero structure of the constraint Jacobian.
// The symbolic sparsity of the dynamics does not depend on numeric
// values, only on which terms are structurally zero, so the nonzeros of
// one random probe represent the structure everywhere.
type Pattern struct {
	Rows []int
	Cols []int
	// take maps each retained nonzero to its ordinal in the full
	// deterministic triplet stream of appendJacobian.
	take []int
}

// NewPattern probes the Jacobian once at a random point drawn from rng
// and records which entries came out nonzero. The pattern is computed
// once per Problem and reused for every JacobianValues call.
func (p *Problem) NewPattern(rng *rand.Rand) *Pattern {
	probe := make([]float64, p.layout.NumVars())
	for i := range probe {
		probe[i] = 2*rng.Float64() - 1
	}

	full := p.appendJacobian(nil, probe)
	pat := &Pattern{}
	for k, t := range full {
		if t.Val != 0 {
			pat.Rows = append(pat.Rows, t.Row)
			pat.Cols = append(pat.Cols, t.Col)
			pat.take = append(pat.take, k)
		}
	}
	return pat
}

// NNZ is the number of structural nonzeros.
func (pat *Pattern) NNZ() int {
	return len(pat.Rows)
}

// JacobianValues evaluates the constraint Jacobian at x and writes the
// values of the pattern's nonzeros into out, aligned with pat.Rows and
// pat.Cols. out must have length pat.NNZ().
func (p *Problem) JacobianValues(pat *Pattern, x, out []float64) {
	full := p.appendJacobian(nil, x)
	for k, ord := range pat.take {
		out[k] = full[ord].Val
	}
}

// JacobianTriplets evaluates the Jacobian at x on the pattern and returns
// it as a coordinate list.
func (p *Problem) JacobianTriplets(pat *Pattern, x []float64) []Triplet {
	vals := make([]float64, pat.NNZ())
	p.JacobianValues(pat, x, vals)
	ts := make([]Triplet, pat.NNZ())
	for k := range ts {
		ts[k] = Triplet{Row: pat.Rows[k], Col: pat.Cols[k], Val: vals[k]}
	}
	return ts
}
