package nlp

import "github.com/san-kum/trajopt/internal/arm"

// Layout maps named per-node quantities into the flat decision vector.
// Node blocks are laid out contiguously in time order; within a block the
// offsets are angles 0..2, velocities 3..5, controls 6..8.
type Layout struct {
	N        int
	Angle    [arm.NumJoints][]int
	Velocity [arm.NumJoints][]int
	Control  [arm.NumJoints][]int
}

// NewLayout builds the strided index sequences for an N-node horizon.
func NewLayout(n int) Layout {
	l := Layout{N: n}
	for j := 0; j < arm.NumJoints; j++ {
		l.Angle[j] = strided(n, j)
		l.Velocity[j] = strided(n, arm.NumJoints+j)
		l.Control[j] = strided(n, 2*arm.NumJoints+j)
	}
	return l
}

func strided(n, offset int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i*arm.BlockDim + offset
	}
	return idx
}

// NumVars is the decision vector length, N·9.
func (l Layout) NumVars() int {
	return l.N * arm.BlockDim
}

// NumConstraints is the constraint vector length: six defect rows per
// segment plus two six-row boundary blocks.
func (l Layout) NumConstraints() int {
	return (l.N-1)*arm.StateDim + 2*arm.StateDim
}

// Block returns the slice bounds of node i's block.
func (l Layout) Block(i int) (lo, hi int) {
	lo = i * arm.BlockDim
	return lo, lo + arm.BlockDim
}

// State returns the slice bounds of node i's state (angles + velocities).
func (l Layout) State(i int) (lo, hi int) {
	lo = i * arm.BlockDim
	return lo, lo + arm.StateDim
}
