package nlp

import "github.com/san-kum/trajopt/internal/arm"

// Constraints evaluates the full equality constraint vector at x: one
// six-row defect per segment, then the initial- and final-state boundary
// residuals. A feasible trajectory drives every entry to zero.
func (p *Problem) Constraints(x []float64) []float64 {
	h := p.StepSize()
	defect := p.Scheme.defect()
	g := make([]float64, p.layout.NumConstraints())

	for seg := 0; seg < p.N-1; seg++ {
		lo1, hi1 := p.layout.Block(seg)
		lo2, hi2 := p.layout.Block(seg + 1)
		copy(g[seg*arm.StateDim:], defect(p.Robot, h, x[lo1:hi1], x[lo2:hi2]))
	}

	off := (p.N - 1) * arm.StateDim
	first, _ := p.layout.State(0)
	last, _ := p.layout.State(p.N - 1)
	for i := 0; i < arm.StateDim; i++ {
		g[off+i] = x[first+i] - p.XIni[i]
		g[off+arm.StateDim+i] = x[last+i] - p.XFinal[i]
	}
	return g
}

// appendJacobian emits every structural entry of the constraint Jacobian
// at x as triplets, in a fixed deterministic order: per segment the
// earlier-node block then the later-node block, row-major, followed by
// the two boundary identity blocks. The emission order is the anchor the
// sparsity Pattern indexes into.
func (p *Problem) appendJacobian(buf []Triplet, x []float64) []Triplet {
	h := p.StepSize()
	defectJac := p.Scheme.defectJacobian()
	if buf == nil {
		buf = make([]Triplet, 0, p.jacobianEntries())
	}

	for seg := 0; seg < p.N-1; seg++ {
		lo1, hi1 := p.layout.Block(seg)
		lo2, hi2 := p.layout.Block(seg + 1)
		j1, j2 := defectJac(p.Robot, h, x[lo1:hi1], x[lo2:hi2])
		rowBase := seg * arm.StateDim
		for r := 0; r < arm.StateDim; r++ {
			for c := 0; c < arm.BlockDim; c++ {
				buf = append(buf, Triplet{rowBase + r, lo1 + c, j1[r][c]})
			}
			for c := 0; c < arm.BlockDim; c++ {
				buf = append(buf, Triplet{rowBase + r, lo2 + c, j2[r][c]})
			}
		}
	}

	off := (p.N - 1) * arm.StateDim
	first, _ := p.layout.State(0)
	last, _ := p.layout.State(p.N - 1)
	for i := 0; i < arm.StateDim; i++ {
		buf = append(buf, Triplet{off + i, first + i, 1})
		buf = append(buf, Triplet{off + arm.StateDim + i, last + i, 1})
	}
	return buf
}

// jacobianEntries is the fixed length of the stream appendJacobian emits.
func (p *Problem) jacobianEntries() int {
	return (p.N-1)*2*arm.StateDim*arm.BlockDim + 2*arm.StateDim
}
