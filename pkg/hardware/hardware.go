package hardware

import (
	"context"
	"math"
	"time"

	"github.com/alexandra1610/ovis-go/pkg/hwlog"
)

// LifecycleState tracks where the hardware interface is in its lifecycle.
type LifecycleState int

const (
	Unconfigured LifecycleState = iota
	Configured
	Active
	Inactive
	Finalized
)

func (s LifecycleState) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Session is a live connection to the arm controller. Exactly one session
// exists between a successful Activate and the next Deactivate or Close.
type Session interface {
	// Angles fetches the current actuator angles. Blocks on device I/O.
	Angles(ctx context.Context) (Angles, error)
	// SetAngles commands actuator angles. Blocks on device I/O.
	SetAngles(ctx context.Context, a Angles) error
	// Close releases the connection. The hardware layer treats release as
	// infallible; the session reports underlying trouble on its own
	// side-channel.
	Close() error
}

// SessionOpener establishes a session for the given joint set. Activate
// calls it once per attempt; it must not return a half-open session.
type SessionOpener func(ctx context.Context, joints JointSet) (Session, error)

// Options configures a hardware interface.
type Options struct {
	// Opener establishes device sessions on activation. Required.
	Opener SessionOpener
	// Events receives structured lifecycle and cycle events. Optional;
	// defaults to a no-op logger.
	Events hwlog.Logger
}

// Ovis adapts the arm to a generic position-controlled hardware interface:
// a state buffer and a command buffer, one slot per joint, exchanged with
// the device once per control cycle. All methods must be called from a
// single logical thread; only session creation is guarded against the rest
// of the process.
type Ovis struct {
	joints   JointSet
	states   []float64
	commands []float64

	opener  SessionOpener
	session Session
	state   LifecycleState
	events  hwlog.Logger
}

// New returns an unconfigured hardware interface. Init must be called
// before any other lifecycle method.
func New(opts Options) *Ovis {
	events := opts.Events
	if events == nil {
		events = hwlog.Nop{}
	}
	return &Ovis{
		opener: opts.Opener,
		state:  Unconfigured,
		events: events,
	}
}

// Init validates the joint set and allocates the position buffers, one
// slot per joint, filled with NaN until real data flows. It does not touch
// the device.
func (o *Ovis) Init(joints JointSet) error {
	if err := joints.Validate(); err != nil {
		cfgErr := &ConfigurationError{Reason: "invalid joint set", Err: err}
		o.events.Log(hwlog.ErrorEvent("init", cfgErr.Error()))
		return cfgErr
	}

	o.joints = joints
	o.states = nanSlice(len(joints))
	o.commands = nanSlice(len(joints))

	o.events.Log(hwlog.StateChangeEvent("", o.state.String(), "initialized"))
	return nil
}

// Configure transitions to Configured. There is no extra validation today;
// the method exists so callers drive the same lifecycle once there is.
// With a live session the interface is already past Configured, so the
// call is a no-op rather than a relabel.
func (o *Ovis) Configure() error {
	if o.session != nil {
		return nil
	}
	o.transition(Configured, "configure")
	return nil
}

// Activate opens the device session. On failure no session is retained,
// the lifecycle state is unchanged and the caller decides whether to try
// again; there is no internal retry.
func (o *Ovis) Activate(ctx context.Context) error {
	if o.session != nil {
		return commErr("open", ErrAlreadyActive)
	}

	session, err := o.opener(ctx, o.joints)
	if err != nil {
		openErr := commErr("open", err)
		o.events.Log(hwlog.ErrorEvent("activate", openErr.Error()))
		return openErr
	}

	o.session = session
	o.transition(Active, "activate")
	return nil
}

// Deactivate releases the device session if one exists. Idempotent and
// infallible; calling it on an inactive interface is a no-op.
func (o *Ovis) Deactivate() error {
	o.releaseSession()
	if o.state == Active {
		o.transition(Inactive, "deactivate")
	}
	return nil
}

// Close finalizes the interface, releasing the session no matter which
// state it was in. Safe even if Activate never ran or failed.
func (o *Ovis) Close() error {
	o.releaseSession()
	if o.state != Finalized {
		o.transition(Finalized, "close")
	}
	return nil
}

// Read fetches the device angles into the state buffer. On failure the
// buffer keeps its previous values, so exported state always reflects the
// last known good positions. The timestamp and period are accepted for
// control-loop conformance and not used.
func (o *Ovis) Read(ctx context.Context, _ time.Time, _ time.Duration) error {
	if o.session == nil {
		return commErr("read", ErrNoSession)
	}

	angles, err := o.session.Angles(ctx)
	if err != nil {
		readErr := commErr("read", err)
		o.events.Log(hwlog.CycleEvent("read", nil, readErr.Error()))
		return readErr
	}

	positions := angles.Positions()
	for i := range o.joints {
		o.states[i] = positions[i]
	}
	o.events.Log(hwlog.CycleEvent("read", o.states, ""))
	return nil
}

// Write pushes the command buffer to the device. The command is applied in
// full or considered not to have taken effect at all.
func (o *Ovis) Write(ctx context.Context, _ time.Time, _ time.Duration) error {
	if o.session == nil {
		return commErr("write", ErrNoSession)
	}

	angles := AnglesFromPositions(o.commands)
	if err := o.session.SetAngles(ctx, angles); err != nil {
		writeErr := commErr("write", err)
		o.events.Log(hwlog.CycleEvent("write", nil, writeErr.Error()))
		return writeErr
	}

	o.events.Log(hwlog.CycleEvent("write", o.commands, ""))
	return nil
}

// State reports the current lifecycle state.
func (o *Ovis) State() LifecycleState { return o.state }

// Joints returns the joint set fixed at initialization.
func (o *Ovis) Joints() JointSet { return o.joints }

func (o *Ovis) transition(to LifecycleState, reason string) {
	from := o.state
	o.state = to
	o.events.Log(hwlog.StateChangeEvent(from.String(), to.String(), reason))
}

func (o *Ovis) releaseSession() {
	if o.session == nil {
		return
	}
	if err := o.session.Close(); err != nil {
		// Release is infallible by contract; keep the diagnostic visible.
		o.events.Log(hwlog.ErrorEvent("close", err.Error()))
	}
	o.session = nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
