package control

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandra1610/ovis-go/pkg/hardware"
)

type fakeSession struct {
	angles   hardware.Angles
	setCalls int
	closes   int
}

func (f *fakeSession) Angles(context.Context) (hardware.Angles, error) {
	return f.angles, nil
}

func (f *fakeSession) SetAngles(context.Context, hardware.Angles) error {
	f.setCalls++
	return nil
}

func (f *fakeSession) Close() error {
	f.closes++
	return nil
}

func openerFor(s hardware.Session, err error) hardware.SessionOpener {
	return func(context.Context, hardware.JointSet) (hardware.Session, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func TestLoopDeliversStates(t *testing.T) {
	session := &fakeSession{angles: hardware.Angles{1, 2, 3, 4, 5, 6}}
	loop, err := NewLoop(Config{Opener: openerFor(session, nil), Hz: 200})
	require.NoError(t, err)
	defer loop.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Start(ctx) }()

	select {
	case state := <-loop.States():
		require.NoError(t, state.Err)
		require.Len(t, state.Positions, hardware.NumActuators)
		assert.InDelta(t, 1.0, state.Positions[hardware.Actuator1], 1e-6)
		assert.InDelta(t, 6.0, state.Positions[hardware.Actuator6], 1e-6)
	case <-time.After(2 * time.Second):
		t.Fatal("no state delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestLoopHoldWritesBack(t *testing.T) {
	session := &fakeSession{angles: hardware.Angles{10, 20, 30, 40, 50, 60}}
	loop, err := NewLoop(Config{Opener: openerFor(session, nil), Hz: 200, Hold: true})
	require.NoError(t, err)
	defer loop.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Start(ctx) }()

	select {
	case state := <-loop.States():
		require.NoError(t, state.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no state delivered")
	}

	cancel()
	<-done
	assert.Greater(t, session.setCalls, 0)
}

// All hardware calls belong to the Start goroutine, so shutting down means
// canceling, waiting for Start to return and only then closing the loop.
// This is the ordering every caller must follow; running it under the race
// detector keeps Close from ever overlapping an in-flight cycle.
func TestLoopShutdownWaitsForStart(t *testing.T) {
	session := &fakeSession{angles: hardware.Angles{1, 2, 3, 4, 5, 6}}
	loop, err := NewLoop(Config{Opener: openerFor(session, nil), Hz: 200})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Start(ctx) }()

	select {
	case <-loop.States():
	case <-time.After(2 * time.Second):
		t.Fatal("no state delivered")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// Deactivation already ran inside Start; Close only finalizes.
	assert.Equal(t, 1, session.closes)
	require.NoError(t, loop.Close())
	assert.Equal(t, 1, session.closes)
}

func TestLoopActivationFailure(t *testing.T) {
	openErr := errors.New("port busy")
	loop, err := NewLoop(Config{Opener: openerFor(nil, openErr)})
	require.NoError(t, err)
	defer loop.Close()

	err = loop.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, openErr)

	// A failed start leaves the loop restartable.
	err = loop.Start(context.Background())
	assert.ErrorIs(t, err, openErr)
}
