// Package hwlog is the structured event side-channel for the hardware
// interface. The core emits events at lifecycle transitions and per-cycle
// reads/writes instead of formatting log lines itself; applications decide
// where the events go by providing a Logger.
package hwlog

import "time"

// Logger receives hardware events. Implementations must not block the
// control cycle; drop or buffer if the sink is slow.
type Logger interface {
	Log(Event)
}

// Event is one hardware event. Exactly one of the payload fields is set.
type Event struct {
	Time        time.Time
	StateChange *StateChange
	Cycle       *Cycle
	Error       *Error
}

// StateChange records a lifecycle transition. Old is empty when the entity
// first reports its state rather than transitioning.
type StateChange struct {
	Old    string
	New    string
	Reason string
}

// Cycle records one read or write cycle. Positions is nil on failure, in
// which case Err carries the diagnostic.
type Cycle struct {
	Op        string
	Positions []float64
	Err       string
}

// Error records a failure outside the cycle path, such as a failed
// activation or a swallowed close error.
type Error struct {
	Op      string
	Message string
}

// StateChangeEvent builds a timestamped lifecycle transition event.
func StateChangeEvent(from, to, reason string) Event {
	return Event{
		Time:        time.Now(),
		StateChange: &StateChange{Old: from, New: to, Reason: reason},
	}
}

// CycleEvent builds a timestamped cycle event. positions is copied so the
// event stays valid after the buffer is overwritten.
func CycleEvent(op string, positions []float64, errMsg string) Event {
	var copied []float64
	if positions != nil {
		copied = make([]float64, len(positions))
		copy(copied, positions)
	}
	return Event{
		Time:  time.Now(),
		Cycle: &Cycle{Op: op, Positions: copied, Err: errMsg},
	}
}

// ErrorEvent builds a timestamped error event.
func ErrorEvent(op, message string) Event {
	return Event{
		Time:  time.Now(),
		Error: &Error{Op: op, Message: message},
	}
}

// Nop discards all events.
type Nop struct{}

func (Nop) Log(Event) {}

// MultiLogger fans events out to every child logger in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a logger that forwards each event to all children.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(e Event) {
	for _, l := range m.loggers {
		l.Log(e)
	}
}

var (
	_ Logger = Nop{}
	_ Logger = (*MultiLogger)(nil)
)
