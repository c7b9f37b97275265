package arm

import "math"

// Jacobian returns the exact partial derivatives of Residual with respect
// to the node block z (fz) and the derivative block zdot (fdot). Both are
// laid out against the 9-wide node block; fdot is nonzero only in the
// first six columns. The base angle column of fz is structurally zero in
// the force rows because the base joint is cyclic.
func Jacobian(p *Params, z, zdot []float64) (fz, fdot [StateDim][BlockDim]float64) {
	q2, q3 := z[1], z[2]
	qd := z[3:6]
	acc := zdot[3:6]

	s2, c2 := math.Sin(q2), math.Cos(q2)
	s3, c3 := math.Sin(q3), math.Cos(q3)
	s23, c23 := math.Sin(q2+q3), math.Cos(q2+q3)
	th := &p.Theta

	d11, d22, d23, d33 := p.inertia(q2, q3)
	dp, dq := p.d11Partials(q2, q3)

	// Second partials of D11. The mixed partial ∂²D11/∂q2∂q3 appears in
	// two places and equals dpq3 either way.
	cos2q2q3 := math.Cos(2*q2 + q3)
	cos2q23 := math.Cos(2 * (q2 + q3))
	dpq2 := -2*th[1]*math.Cos(2*q2) - 2*th[2]*cos2q23 - 4*th[3]*cos2q2q3
	dpq3 := -2*th[2]*cos2q23 - 2*th[3]*cos2q2q3
	dqq3 := -2*th[2]*cos2q23 - 2*th[3]*c2*c23

	// Kinematic rows: ż_pos − vel.
	for i := 0; i < NumJoints; i++ {
		fz[i][NumJoints+i] = -1
		fdot[i][i] = 1
	}

	// Base joint force row.
	fz[3][1] = dp*acc[0] + (dpq2*qd[1]+dpq3*qd[2])*qd[0]
	fz[3][2] = dq*acc[0] + (dpq3*qd[1]+dqq3*qd[2])*qd[0]
	fz[3][3] = dp*qd[1] + dq*qd[2] + p.dragSlope(0, qd[0])
	fz[3][4] = dp * qd[0]
	fz[3][5] = dq * qd[0]
	fz[3][6] = -1
	fdot[3][3] = d11

	// Shoulder force row.
	fz[4][1] = -0.5*dpq2*qd[0]*qd[0] - th[8]*s2 - th[9]*s23
	fz[4][2] = -th[6]*s3*(2*acc[1]+acc[2]) - th[6]*c3*(2*qd[1]*qd[2]+qd[2]*qd[2]) -
		0.5*dpq3*qd[0]*qd[0] - th[9]*s23
	fz[4][3] = -dp * qd[0]
	fz[4][4] = -2*th[6]*s3*qd[2] + p.dragSlope(1, qd[1])
	fz[4][5] = -2 * th[6] * s3 * (qd[1] + qd[2])
	fz[4][7] = -1
	fdot[4][4] = d22
	fdot[4][5] = d23

	// Elbow force row.
	fz[5][1] = -0.5*dpq3*qd[0]*qd[0] - th[9]*s23
	fz[5][2] = -th[6]*s3*acc[1] + th[6]*c3*qd[1]*qd[1] - 0.5*dqq3*qd[0]*qd[0] - th[9]*s23
	fz[5][3] = -dq * qd[0]
	fz[5][4] = 2 * th[6] * s3 * qd[1]
	fz[5][5] = p.dragSlope(2, qd[2])
	fz[5][8] = -1
	fdot[5][4] = d23
	fdot[5][5] = d33

	return fz, fdot
}
