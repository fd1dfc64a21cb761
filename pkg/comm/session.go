package comm

import (
	"context"
	"fmt"
	"sync"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/alexandra1610/ovis-go/pkg/hardware"
	"github.com/alexandra1610/ovis-go/pkg/hwlog"
)

// busMu guards session creation: the servo bus is an exclusive resource
// and a second session against the same arm must not be opened from
// elsewhere in the process while one is live.
var busMu sync.Mutex

// BusSession is a live connection to the arm over the feetech servo bus.
// It implements hardware.Session.
type BusSession struct {
	bus    *feetech.Bus
	group  *feetech.ServoGroup
	servos []ServoCalibration // one entry per joint, declaration order
	events hwlog.Logger
	closed bool
}

// Open establishes a session for the given joint set: acquires the bus
// lock, opens the serial bus, builds the servo group and enables torque.
// Any failure after the port opens tears everything down again, so a
// half-open session is never returned. Fails immediately if another
// session holds the bus.
func Open(ctx context.Context, cfg Config, joints hardware.JointSet, events hwlog.Logger) (*BusSession, error) {
	if events == nil {
		events = hwlog.Nop{}
	}

	cal := DefaultCalibration()
	if cfg.CalibrationPath != "" {
		loaded, err := LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			return nil, err
		}
		cal = loaded
	}
	servos, err := cal.ForJoints(joints)
	if err != nil {
		return nil, err
	}

	if !busMu.TryLock() {
		return nil, fmt.Errorf("%s: %w", cfg.Port, hardware.ErrBusInUse)
	}

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.baud(),
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		busMu.Unlock()
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := make([]int, len(servos))
	for i, sc := range servos {
		ids[i] = sc.ID
	}
	group := feetech.NewServoGroupByIDs(bus, ids...)

	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		busMu.Unlock()
		return nil, fmt.Errorf("enable torque: %w", err)
	}

	return &BusSession{
		bus:    bus,
		group:  group,
		servos: servos,
		events: events,
	}, nil
}

// Close disables torque, closes the bus and releases the bus lock. The
// lifecycle treats release as infallible, so underlying errors are only
// reported on the event side-channel. Safe to call more than once.
func (s *BusSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.group.DisableAll(context.Background()); err != nil {
		s.events.Log(hwlog.ErrorEvent("close", fmt.Sprintf("disable torque: %v", err)))
	}
	if err := s.bus.Close(); err != nil {
		s.events.Log(hwlog.ErrorEvent("close", fmt.Sprintf("close bus: %v", err)))
	}
	busMu.Unlock()
	return nil
}

// Angles sync-reads all servo positions and converts them to joint
// degrees in declaration order.
func (s *BusSession) Angles(ctx context.Context) (hardware.Angles, error) {
	raw, err := s.group.Positions(ctx)
	if err != nil {
		return hardware.Angles{}, fmt.Errorf("read positions: %w", err)
	}

	var a hardware.Angles
	for i, sc := range s.servos {
		ticks, ok := raw[sc.ID]
		if !ok {
			return hardware.Angles{}, fmt.Errorf("servo %d missing from sync read", sc.ID)
		}
		a[i] = float32(sc.Degrees(ticks))
	}
	return a, nil
}

// SetAngles converts joint degrees to raw positions and sync-writes all
// servos in one exchange.
func (s *BusSession) SetAngles(ctx context.Context, a hardware.Angles) error {
	target := make(feetech.PositionMap, len(s.servos))
	for i, sc := range s.servos {
		target[sc.ID] = sc.Ticks(float64(a[i]))
	}

	if err := s.group.SetPositions(ctx, target); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	return nil
}

var _ hardware.Session = (*BusSession)(nil)
