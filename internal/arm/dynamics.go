package arm

import "math"

// Residual evaluates the implicit equations of motion f(z, zdot).
//
// z is one node block: three joint angles, three joint velocities and
// three torque-equivalent controls. zdot is the time derivative of the
// state part of z. The first three rows force kinematic consistency
// (position derivative equals velocity); the last three are the
// generalized force balance D(q)·q̈ + c(q,q̇) + g(q) + drag(q̇) − u.
func Residual(p *Params, z, zdot []float64) []float64 {
	q2, q3 := z[1], z[2]
	qd := z[3:6]
	u := z[6:9]
	acc := zdot[3:6]

	d11, d22, d23, d33 := p.inertia(q2, q3)
	cor := p.coriolis(q2, q3, qd)
	grav := p.gravity(q2, q3)

	f := make([]float64, StateDim)
	for i := 0; i < NumJoints; i++ {
		f[i] = zdot[i] - qd[i]
	}
	f[3] = d11*acc[0] + cor[0] + grav[0] + p.drag(0, qd[0]) - u[0]
	f[4] = d22*acc[1] + d23*acc[2] + cor[1] + grav[1] + p.drag(1, qd[1]) - u[1]
	f[5] = d23*acc[1] + d33*acc[2] + cor[2] + grav[2] + p.drag(2, qd[2]) - u[2]
	return f
}

// inertia returns the nonzero entries of the symmetric mass matrix.
// The base row decouples from the others, so only d11, d22, d23 and d33
// are structurally nonzero.
func (p *Params) inertia(q2, q3 float64) (d11, d22, d23, d33 float64) {
	c2 := math.Cos(q2)
	c3 := math.Cos(q3)
	c23 := math.Cos(q2 + q3)
	th := &p.Theta
	d11 = th[0] + th[1]*c2*c2 + th[2]*c23*c23 + 2*th[3]*c2*c23
	d22 = th[4] + th[5] + 2*th[6]*c3
	d23 = th[5] + th[6]*c3
	d33 = th[5] + th[7]
	return d11, d22, d23, d33
}

// d11Partials returns ∂D11/∂q2 and ∂D11/∂q3. Products of two trig
// factors collapse into double-angle terms.
func (p *Params) d11Partials(q2, q3 float64) (dq2, dq3 float64) {
	th := &p.Theta
	dq2 = -th[1]*math.Sin(2*q2) - th[2]*math.Sin(2*(q2+q3)) - 2*th[3]*math.Sin(2*q2+q3)
	dq3 = -th[2]*math.Sin(2*(q2+q3)) - 2*th[3]*math.Cos(q2)*math.Sin(q2+q3)
	return dq2, dq3
}

// coriolis returns the Coriolis/centrifugal generalized force vector.
func (p *Params) coriolis(q2, q3 float64, qd []float64) [3]float64 {
	s3 := math.Sin(q3)
	dp, dq := p.d11Partials(q2, q3)
	th6 := p.Theta[6]
	var c [3]float64
	c[0] = (dp*qd[1] + dq*qd[2]) * qd[0]
	c[1] = -th6*s3*(2*qd[1]*qd[2]+qd[2]*qd[2]) - 0.5*dp*qd[0]*qd[0]
	c[2] = th6*s3*qd[1]*qd[1] - 0.5*dq*qd[0]*qd[0]
	return c
}

// gravity returns the gravity load vector. The base joint rotates about
// the vertical axis and carries no gravity load.
func (p *Params) gravity(q2, q3 float64) [3]float64 {
	c2 := math.Cos(q2)
	c23 := math.Cos(q2 + q3)
	return [3]float64{0, p.Theta[8]*c2 + p.Theta[9]*c23, p.Theta[9] * c23}
}

// drag collects every velocity-proportional or friction torque on joint j:
// back-EMF damping, viscous friction and the Stribeck term.
func (p *Params) drag(j int, v float64) float64 {
	return (p.BackEMF(j)+p.Theta[10+j])*v + p.Friction(j, v)
}

// dragSlope is d/dv of drag.
func (p *Params) dragSlope(j int, v float64) float64 {
	return p.BackEMF(j) + p.Theta[10+j] + p.FrictionSlope(j, v)
}
