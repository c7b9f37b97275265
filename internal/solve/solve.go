// Package solve drives the external NLP solver over the transcription
// callbacks. The solver is a black box: it owns the decision vector
// between callback invocations and reports convergence as a status.
package solve

import (
	"context"
	"math/rand"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/trajopt/internal/nlp"
)

// Options tune the solver run.
type Options struct {
	// MaxEval caps the number of objective evaluations per leg.
	MaxEval int
	// FtolRel is the relative objective-change stopping tolerance.
	FtolRel float64
	// DefectTol is the feasibility tolerance per equality constraint row.
	DefectTol float64
	// Seed drives the initial guess and the sparsity probe.
	Seed int64
}

// Result is the outcome of one solver leg.
type Result struct {
	// X is the decision vector the solver returned, converged or not.
	X []float64
	// Energy is the objective at X.
	Energy float64
	// Converged reports whether the solver stopped at a tolerance rather
	// than an error or evaluation cap.
	Converged bool
	// Status is the solver's verdict in its own words.
	Status string
	// Evaluations counts objective callbacks consumed.
	Evaluations int
}

// Session runs the forward and the boundary-swapped reverse problem.
type Session struct {
	prob *nlp.Problem
	opts Options
	log  *zap.SugaredLogger
}

func NewSession(prob *nlp.Problem, opts Options, log *zap.SugaredLogger) *Session {
	return &Session{prob: prob, opts: opts, log: log}
}

// Run solves A→B then B→A. Non-convergence of either leg is carried in
// the Result status, not returned as an error: the caller post-processes
// whatever iterate came back.
func (s *Session) Run(ctx context.Context) (forward, reverse *Result, err error) {
	rng := rand.New(rand.NewSource(s.opts.Seed))

	s.log.Infow("solving forward leg",
		"nodes", s.prob.N, "scheme", s.prob.Scheme.String(), "h", s.prob.StepSize())
	forward, err = s.solveLeg(ctx, s.prob, rng)
	if err != nil {
		return nil, nil, errors.Wrap(err, "forward leg")
	}

	s.log.Infow("solving reverse leg")
	reverse, err = s.solveLeg(ctx, s.prob.Swapped(), rng)
	if err != nil {
		return forward, nil, errors.Wrap(err, "reverse leg")
	}
	return forward, reverse, nil
}

type optimizeReturn struct {
	x     []float64
	score float64
	err   error
}

func (s *Session) solveLeg(ctx context.Context, prob *nlp.Problem, rng *rand.Rand) (*Result, error) {
	lay := prob.Layout()
	n := lay.NumVars()
	m := lay.NumConstraints()

	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(n))
	if err != nil {
		return nil, errors.Wrap(err, "create solver")
	}
	defer opt.Destroy()

	// The sparsity structure is probed once per leg and reused by every
	// Jacobian callback below.
	pattern := prob.NewPattern(rng)
	vals := make([]float64, pattern.NNZ())
	evals := 0

	objective := func(x, gradient []float64) float64 {
		evals++
		if len(gradient) > 0 {
			prob.Gradient(x, gradient)
		}
		return prob.Objective(x)
	}

	defects := func(result, x, gradient []float64) {
		copy(result, prob.Constraints(x))
		if len(gradient) > 0 {
			prob.JacobianValues(pattern, x, vals)
			scatter(gradient, n, pattern, vals)
		}
	}

	lo, hi := prob.Bounds()
	tol := make([]float64, m)
	for i := range tol {
		tol[i] = s.opts.DefectTol
	}
	err = multierr.Combine(
		opt.SetLowerBounds(lo),
		opt.SetUpperBounds(hi),
		opt.SetMinObjective(objective),
		opt.AddEqualityMConstraint(defects, tol),
		opt.SetFtolRel(s.opts.FtolRel),
		opt.SetMaxEval(s.opts.MaxEval),
	)
	if err != nil {
		return nil, errors.Wrap(err, "configure solver")
	}

	guess := prob.InitialGuess(rng)

	solveChan := make(chan *optimizeReturn, 1)
	go func() {
		x, score, optErr := opt.Optimize(guess)
		solveChan <- &optimizeReturn{x, score, optErr}
	}()

	var sol *optimizeReturn
	select {
	case <-ctx.Done():
		err = multierr.Combine(opt.ForceStop(), ctx.Err())
		<-solveChan
		return nil, err
	case sol = <-solveChan:
	}

	// Optimize reports an error only for negative NLopt codes; a run
	// that hit the evaluation or time cap returns nil. LastStatus
	// carries the actual stopping reason either way.
	status := opt.LastStatus()
	res := &Result{
		X:           sol.x,
		Energy:      sol.score,
		Converged:   converged(status),
		Status:      status,
		Evaluations: evals,
	}
	if sol.err != nil && sol.x == nil {
		return nil, errors.Wrap(sol.err, "solver returned no iterate")
	}
	if !res.Converged {
		// Keep the returned iterate and let the caller decide; solver
		// non-convergence is a status here, not an error.
		s.log.Warnw("solver did not converge, keeping last iterate",
			"status", status, "evaluations", evals)
		return res, nil
	}

	s.log.Infow("leg solved",
		"status", status, "energy", res.Energy, "evaluations", evals)
	return res, nil
}

// converged reports whether an NLopt status belongs to the
// tolerance/success family. Resource caps (MAXEVAL_REACHED,
// MAXTIME_REACHED) stop the solver without certifying feasibility.
func converged(status string) bool {
	switch status {
	case "SUCCESS", "STOPVAL_REACHED", "FTOL_REACHED", "XTOL_REACHED":
		return true
	}
	return false
}

// scatter expands the sparse Jacobian values into the dense row-major
// m×n gradient array the solver hands us.
func scatter(gradient []float64, n int, pat *nlp.Pattern, vals []float64) {
	for i := range gradient {
		gradient[i] = 0
	}
	for k, v := range vals {
		gradient[pat.Rows[k]*n+pat.Cols[k]] = v
	}
}
