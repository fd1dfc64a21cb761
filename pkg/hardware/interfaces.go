package hardware

// PositionKind tags the exported interfaces; the arm only exposes joint
// positions.
const PositionKind = "position"

// StateInterface is a named read-only handle onto one joint's slot in the
// state buffer. The control loop reads positions through it without going
// back through the hardware interface.
type StateInterface struct {
	name  JointName
	kind  string
	value *float64
}

// Name returns the joint name the handle is bound to.
func (s StateInterface) Name() JointName { return s.name }

// Kind returns the interface kind, always "position".
func (s StateInterface) Kind() string { return s.kind }

// Value returns the joint's last-known position in degrees. NaN until the
// first successful read.
func (s StateInterface) Value() float64 { return *s.value }

// CommandInterface is a named writable handle onto one joint's slot in the
// command buffer.
type CommandInterface struct {
	name  JointName
	kind  string
	value *float64
}

// Name returns the joint name the handle is bound to.
func (c CommandInterface) Name() JointName { return c.name }

// Kind returns the interface kind, always "position".
func (c CommandInterface) Kind() string { return c.kind }

// Value returns the currently commanded position.
func (c CommandInterface) Value() float64 { return *c.value }

// SetValue sets the desired position for the joint, picked up by the next
// write cycle.
func (c CommandInterface) SetValue(v float64) { *c.value = v }

// StateInterfaces exports one position handle per joint, bound directly to
// the state buffer slots.
func (o *Ovis) StateInterfaces() []StateInterface {
	out := make([]StateInterface, len(o.joints))
	for i, j := range o.joints {
		out[i] = StateInterface{name: j.Name, kind: PositionKind, value: &o.states[i]}
	}
	return out
}

// CommandInterfaces exports one position handle per joint, bound directly
// to the command buffer slots.
func (o *Ovis) CommandInterfaces() []CommandInterface {
	out := make([]CommandInterface, len(o.joints))
	for i, j := range o.joints {
		out[i] = CommandInterface{name: j.Name, kind: PositionKind, value: &o.commands[i]}
	}
	return out
}
