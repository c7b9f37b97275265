// Package nlp transcribes the continuous-time optimal-control problem of
// the manipulator into a sparse nonlinear program.
//
// A trajectory over N nodes is a flat decision vector of N contiguous
// 9-value blocks (angles, velocities, controls). The dynamics are
// enforced as equality defect constraints over the N−1 segments between
// consecutive nodes, discretized with either Backward Euler or Midpoint
// collocation, plus two boundary blocks pinning the first and last node
// states. [Problem] exposes the four callbacks a gradient-based NLP
// solver consumes:
//
//   - [Problem.Objective]: the electrical energy functional
//   - [Problem.Gradient]: its exact closed-form gradient
//   - [Problem.Constraints]: the stacked defect + boundary vector
//   - [Problem.JacobianValues]: the constraint Jacobian on a fixed
//     sparsity [Pattern]
//
// Every callback is a pure function of the decision vector; the only
// precomputed state is the Pattern, whose structure never changes for a
// fixed Problem.
package nlp
