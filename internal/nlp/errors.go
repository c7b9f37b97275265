package nlp

import "errors"

// Configuration errors, reported before any solver work starts.
var (
	// ErrNodeCount indicates a horizon with fewer than two nodes.
	ErrNodeCount = errors.New("nlp: node count must be at least 2")

	// ErrHorizon indicates a non-positive time horizon.
	ErrHorizon = errors.New("nlp: final time must exceed initial time")

	// ErrScheme indicates an unknown discretization scheme.
	ErrScheme = errors.New("nlp: unknown discretization scheme")

	// ErrVoltageCap indicates a non-positive storage voltage cap.
	ErrVoltageCap = errors.New("nlp: storage voltage cap must be positive")
)
