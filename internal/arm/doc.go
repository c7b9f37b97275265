// Package arm models a three-joint manipulator driven by regenerative
// electrical motors as an implicit second-order system f(z, ż) = 0.
//
// The model covers:
//
//   - rigid-body dynamics (inertia, Coriolis, gravity) derived from a
//     kinetic-energy basis with coefficients Theta[0..9]
//   - back-EMF damping from the motor electrical circuit
//   - viscous friction (Theta[10..12]) and a two-term tanh Stribeck
//     friction model
//
// The base joint is cyclic: its angle appears in none of the inertia,
// Coriolis, or gravity terms. [Residual] evaluates the equations of
// motion and [Jacobian] returns their exact analytic derivatives.
package arm
