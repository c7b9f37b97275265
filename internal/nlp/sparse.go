package nlp

// Triplet is one coordinate-list entry of a sparse matrix.
type Triplet struct {
	Row, Col int
	Val      float64
}

// mulVec accumulates dst = T·x for a triplet list.
func mulVec(ts []Triplet, dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for _, t := range ts {
		dst[t.Row] += t.Val * x[t.Col]
	}
}
