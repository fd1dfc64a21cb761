package hardware

import (
	"errors"
	"fmt"
)

// Sentinel conditions surfaced by lifecycle and cycle operations.
var (
	// ErrNoSession is the cause when read/write runs without a live session.
	ErrNoSession = errors.New("no device session")
	// ErrAlreadyActive is returned by Activate when a session already exists.
	ErrAlreadyActive = errors.New("already active")
	// ErrBusInUse is the cause when another session holds the device bus.
	ErrBusInUse = errors.New("device bus already in use")
)

// ConfigurationError reports an invalid joint set or interface declaration
// at initialization. The hardware interface stays unusable until Init is
// called again successfully.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CommunicationError reports a failure opening or using the device session.
// From Activate it aborts the transition; from Read/Write it marks that one
// cycle as failed while the interface stays active.
type CommunicationError struct {
	Op  string // "open", "read", "write", "close"
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

func commErr(op string, err error) *CommunicationError {
	return &CommunicationError{Op: op, Err: err}
}
