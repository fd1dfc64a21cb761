// Package hardware exposes the Ovis arm's joint positions as readable and
// writable position interfaces to an external motion-control loop, while
// delegating the actual device exchange to a communication session.
package hardware

import "fmt"

// JointName identifies a joint of the arm.
type JointName string

// Joint names for the 6-DOF Ovis arm, in actuator order.
const (
	Actuator1 JointName = "actuator_1"
	Actuator2 JointName = "actuator_2"
	Actuator3 JointName = "actuator_3"
	Actuator4 JointName = "actuator_4"
	Actuator5 JointName = "actuator_5"
	Actuator6 JointName = "actuator_6"
)

// AllJoints returns all joint names in order (matching actuator IDs 1-6).
func AllJoints() []JointName {
	return []JointName{
		Actuator1,
		Actuator2,
		Actuator3,
		Actuator4,
		Actuator5,
		Actuator6,
	}
}

// Joint describes one controllable degree of freedom: a name and its slot
// in the state/command buffers.
type Joint struct {
	Name  JointName `json:"name"`
	Index int       `json:"index"`
}

// JointSet is the ordered list of joints supplied at initialization. It is
// fixed for the lifetime of the hardware interface and defines the size of
// all position buffers.
type JointSet []Joint

// DefaultJointSet returns the full 6-joint set of the arm.
func DefaultJointSet() JointSet {
	js := make(JointSet, 0, NumActuators)
	for i, name := range AllJoints() {
		js = append(js, Joint{Name: name, Index: i})
	}
	return js
}

// Validate checks that the joint set is usable: non-empty, no more joints
// than the arm has actuators, unique non-empty names, and indices forming
// the contiguous range 0..N-1.
func (js JointSet) Validate() error {
	if len(js) == 0 {
		return fmt.Errorf("empty joint set")
	}
	if len(js) > NumActuators {
		return fmt.Errorf("%d joints declared, arm has %d actuators", len(js), NumActuators)
	}
	seen := make(map[JointName]bool, len(js))
	for i, j := range js {
		if j.Name == "" {
			return fmt.Errorf("joint %d has no name", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("duplicate joint name %q", j.Name)
		}
		seen[j.Name] = true
		if j.Index != i {
			return fmt.Errorf("joint %q declares index %d, expected %d", j.Name, j.Index, i)
		}
	}
	return nil
}

// Names returns the joint names in declaration order.
func (js JointSet) Names() []JointName {
	names := make([]JointName, len(js))
	for i, j := range js {
		names[i] = j.Name
	}
	return names
}
