package hardware

// NumActuators is the number of actuators on the arm. The native angle
// record is sized to it; this is a property of the physical device, not a
// tunable.
const NumActuators = 6

// Angles is the device's native angle record: one single-precision value
// per actuator, in actuator order. It only lives at the session boundary
// and is rebuilt from the position buffers every cycle.
type Angles [NumActuators]float32

// Actuator returns the angle of actuator n using the vendor's 1-based
// numbering.
func (a Angles) Actuator(n int) float32 {
	return a[n-1]
}

// AnglesFromPositions converts framework positions (degrees, float64) to a
// native record, truncating to single precision. Slot order follows joint
// declaration order; positions beyond the record size are ignored and
// missing slots stay zero.
func AnglesFromPositions(positions []float64) Angles {
	var a Angles
	for i, p := range positions {
		if i >= NumActuators {
			break
		}
		a[i] = float32(p)
	}
	return a
}

// Positions widens the native record back to framework positions.
func (a Angles) Positions() []float64 {
	positions := make([]float64, NumActuators)
	for i, v := range a {
		positions[i] = float64(v)
	}
	return positions
}
