package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// Roll is roll moment objective row
	Roll = iota
	// Pitch is pitch moment objective row
	Pitch
	// Yaw is yaw moment objective row
	Yaw
	// Thrust is collective thrust objective row
	Thrust
)

// Rotor is a single multirotor propeller
type Rotor struct {
	// X is rotor position along body x axis (forward)
	X float64
	// Y is rotor position along body y axis (right)
	Y float64
	// Dir is spin direction: 1 for counter-clockwise, -1 for clockwise
	Dir float64
}

// Multirotor is multirotor airframe
type Multirotor struct {
	// Rotors are the airframe rotors
	Rotors []Rotor
	// Kt is thrust produced by a unit rotor command
	Kt float64
	// Km is reaction torque produced by a unit rotor command
	Km float64
}

// NewMultirotor creates new airframe with n rotors evenly spread on a circle
// with radius arm, the first one rotated by offset radians from the forward axis.
// Neighbouring rotors spin in opposite directions.
// It returns error if n is not even and at least 4, or if either of arm, kt or km is not positive.
func NewMultirotor(n int, arm, offset, kt, km float64) (*Multirotor, error) {
	if n < 4 || n%2 != 0 {
		return nil, fmt.Errorf("invalid number of rotors: %d", n)
	}

	if arm <= 0 || kt <= 0 || km <= 0 {
		return nil, fmt.Errorf("invalid airframe parameters: arm=%v kt=%v km=%v", arm, kt, km)
	}

	rotors := make([]Rotor, n)
	for i := range rotors {
		angle := offset + 2*math.Pi*float64(i)/float64(n)
		dir := 1.0
		if i%2 == 1 {
			dir = -1.0
		}
		rotors[i] = Rotor{X: arm * math.Cos(angle), Y: arm * math.Sin(angle), Dir: dir}
	}

	return &Multirotor{Rotors: rotors, Kt: kt, Km: km}, nil
}

// NewQuadX creates new X configuration quadrotor.
func NewQuadX(arm, kt, km float64) (*Multirotor, error) {
	return NewMultirotor(4, arm, math.Pi/4, kt, km)
}

// Dims returns the number of actuators and control objectives.
func (m *Multirotor) Dims() (nu, nv int) {
	return len(m.Rotors), Thrust + 1
}

// Effectiveness returns control effectiveness matrix of the airframe.
// Its rows map rotor commands to roll, pitch and yaw moments and collective thrust.
func (m *Multirotor) Effectiveness() *mat.Dense {
	nu, nv := m.Dims()
	eff := mat.NewDense(nv, nu, nil)

	for j, r := range m.Rotors {
		eff.Set(Roll, j, -r.Y*m.Kt)
		eff.Set(Pitch, j, r.X*m.Kt)
		eff.Set(Yaw, j, r.Dir*m.Km)
		eff.Set(Thrust, j, m.Kt)
	}

	return eff
}

// Observe returns control objective achieved by rotor commands u.
// It returns error if u has invalid dimension.
func (m *Multirotor) Observe(u mat.Vector) (mat.Vector, error) {
	nu, nv := m.Dims()
	if u == nil || u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	out := mat.NewVecDense(nv, nil)
	out.MulVec(m.Effectiveness(), u)

	return out, nil
}

// String implements the Stringer interface.
func (m *Multirotor) String() string {
	return fmt.Sprintf("Multirotor{\nRotors=%v\nB=%v\n}", m.Rotors,
		mat.Formatted(m.Effectiveness(), mat.Prefix("  "), mat.Squeeze()))
}
