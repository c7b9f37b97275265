package arm

const (
	// NumJoints is the number of actuated joints.
	NumJoints = 3
	// StateDim is the length of the state vector (angles + velocities).
	StateDim = 6
	// BlockDim is the length of one node block (state + controls).
	BlockDim = 9
)

// Params holds the physical parameters of the manipulator and its drives.
// Immutable after load.
type Params struct {
	// R is the armature resistance per motor [ohm].
	R [3]float64 `yaml:"resistance"`
	// A is the torque-constant/gear-ratio product per motor [N·m/A].
	A [3]float64 `yaml:"torque_gear"`
	// Theta holds the inertial, gravity and viscous coefficients.
	// Theta[0..7] multiply the kinetic-energy basis terms, Theta[8..9]
	// the gravity terms, Theta[10..12] are viscous friction.
	Theta [13]float64 `yaml:"theta"`
	// Lambda holds the five Stribeck friction coefficients per joint.
	Lambda [3][5]float64 `yaml:"lambda"`
}

// DefaultParams returns the identified parameter set for the lab arm.
func DefaultParams() *Params {
	return &Params{
		R: [3]float64{1.6, 1.6, 2.2},
		A: [3]float64{2.1, 2.1, 1.4},
		Theta: [13]float64{
			0.37,             // base inertia
			0.25,             // (m2+m3)·l2²
			0.12,             // m3·l3²
			0.10,             // m3·l2·l3
			0.42,             // shoulder constant inertia
			0.12,             // elbow link inertia
			0.10,             // shoulder/elbow coupling
			0.05,             // elbow rotor inertia
			9.60,             // shoulder gravity moment
			3.10,             // elbow gravity moment
			0.08, 0.08, 0.05, // viscous friction
		},
		Lambda: [3][5]float64{
			{0.30, 45, 6, 0.25, 35},
			{0.34, 42, 6, 0.28, 35},
			{0.18, 50, 7, 0.15, 40},
		},
	}
}

// BackEMF returns the electrical damping coefficient A[j]²/R[j] for joint j.
func (p *Params) BackEMF(j int) float64 {
	return p.A[j] * p.A[j] / p.R[j]
}

// ControlGain returns A[j]/R[j], the torque-equivalent produced per volt.
func (p *Params) ControlGain(j int) float64 {
	return p.A[j] / p.R[j]
}
