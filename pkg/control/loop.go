// Package control drives the hardware interface the way a motion-control
// framework would: lifecycle bring-up, then a fixed-rate cycle of reads
// (and optionally writes) on a single goroutine.
package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexandra1610/ovis-go/pkg/hardware"
	"github.com/alexandra1610/ovis-go/pkg/hwlog"
)

// State is one cycle's view of the arm.
type State struct {
	Positions map[hardware.JointName]float64
	Timestamp time.Time
	Err       error
}

// Config holds configuration for the loop.
type Config struct {
	// Opener establishes the device session on activation. Required.
	Opener hardware.SessionOpener
	// Events receives hardware events. Optional.
	Events hwlog.Logger
	// Hz is the cycle frequency. Defaults to 30.
	Hz int
	// Hold commands the arm to hold its current pose: after the first
	// successful read the state is copied into the command buffer and
	// written back every cycle.
	Hold bool
}

// Loop owns a hardware interface and runs its control cycle. All hardware
// calls happen on the Start goroutine; consumers watch States.
type Loop struct {
	hw   *hardware.Ovis
	hz   int
	hold bool

	stateHandles []hardware.StateInterface
	cmdHandles   []hardware.CommandInterface
	holdSeeded   bool

	mu      sync.Mutex
	running bool
	stateCh chan State
}

// NewLoop initializes and configures a hardware interface for the full
// joint set. The device is not touched until Start.
func NewLoop(cfg Config) (*Loop, error) {
	hw := hardware.New(hardware.Options{Opener: cfg.Opener, Events: cfg.Events})
	if err := hw.Init(hardware.DefaultJointSet()); err != nil {
		return nil, fmt.Errorf("init hardware: %w", err)
	}
	if err := hw.Configure(); err != nil {
		return nil, fmt.Errorf("configure hardware: %w", err)
	}

	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}

	return &Loop{
		hw:           hw,
		hz:           cfg.Hz,
		hold:         cfg.Hold,
		stateHandles: hw.StateInterfaces(),
		cmdHandles:   hw.CommandInterfaces(),
		stateCh:      make(chan State, 1),
	}, nil
}

// States returns a channel that receives state updates. A slow consumer
// loses intermediate states, never the newest one.
func (l *Loop) States() <-chan State {
	return l.stateCh
}

// Hz returns the cycle frequency.
func (l *Loop) Hz() int {
	return l.hz
}

// Start activates the hardware and runs the cycle until ctx is canceled.
// An activation failure is returned as-is; the caller decides whether to
// retry.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("already running")
	}
	l.running = true
	l.mu.Unlock()

	if err := l.hw.Activate(ctx); err != nil {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		return err
	}

	period := time.Second / time.Duration(l.hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.hw.Deactivate()
			l.mu.Lock()
			l.running = false
			l.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			l.step(ctx, period)
		}
	}
}

// Close finalizes the hardware interface. Call after Start has returned.
func (l *Loop) Close() error {
	return l.hw.Close()
}

func (l *Loop) step(ctx context.Context, period time.Duration) {
	now := time.Now()

	if err := l.hw.Read(ctx, now, period); err != nil {
		l.sendState(State{Err: err, Timestamp: now})
		return
	}

	if l.hold {
		if !l.holdSeeded {
			for i, h := range l.stateHandles {
				l.cmdHandles[i].SetValue(h.Value())
			}
			l.holdSeeded = true
		}
		if err := l.hw.Write(ctx, now, period); err != nil {
			l.sendState(State{Err: err, Timestamp: now})
			return
		}
	}

	positions := make(map[hardware.JointName]float64, len(l.stateHandles))
	for _, h := range l.stateHandles {
		positions[h.Name()] = h.Value()
	}
	l.sendState(State{Positions: positions, Timestamp: now})
}

func (l *Loop) sendState(s State) {
	select {
	case l.stateCh <- s:
	default:
		// Drop the stale state and replace it with the new one.
		select {
		case <-l.stateCh:
		default:
		}
		select {
		case l.stateCh <- s:
		default:
		}
	}
}
