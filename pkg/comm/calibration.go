package comm

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/alexandra1610/ovis-go/pkg/hardware"
)

// STS servos report positions as ticks over a full revolution.
const (
	ticksPerRev = 4096
	tickCenter  = 2048
	degPerTick  = 360.0 / float64(ticksPerRev)
)

// ServoCalibration maps one joint onto a servo on the bus: its ID, the
// homing offset measured during setup and the mechanically safe tick range.
type ServoCalibration struct {
	ID           int `json:"id"`
	HomingOffset int `json:"homing_offset"`
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// Degrees converts a raw servo position to joint degrees, zero at the
// homed center position.
func (c ServoCalibration) Degrees(raw int) float64 {
	return float64(raw-tickCenter-c.HomingOffset) * degPerTick
}

// Ticks converts joint degrees to a raw servo position, clamped to the
// calibrated range.
func (c ServoCalibration) Ticks(deg float64) int {
	raw := int(math.Round(deg/degPerTick)) + tickCenter + c.HomingOffset
	if c.RangeMax > c.RangeMin {
		if raw < c.RangeMin {
			raw = c.RangeMin
		} else if raw > c.RangeMax {
			raw = c.RangeMax
		}
	}
	return raw
}

// Calibration holds calibration data for all joints, keyed by joint name.
type Calibration map[hardware.JointName]ServoCalibration

// DefaultCalibration assumes actuator n sits on servo ID n with no homing
// offset and the full mechanical range. Good enough for bring-up; run
// ovisctl setup for real offsets.
func DefaultCalibration() Calibration {
	cal := make(Calibration, hardware.NumActuators)
	for i, name := range hardware.AllJoints() {
		cal[name] = ServoCalibration{ID: i + 1, RangeMin: 0, RangeMax: ticksPerRev - 1}
	}
	return cal
}

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var raw map[string]ServoCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, sc := range raw {
		cal[hardware.JointName(name)] = sc
	}
	return cal, nil
}

// ForJoints returns the calibration entries for a joint set, in joint
// declaration order. Every joint must be calibrated.
func (c Calibration) ForJoints(joints hardware.JointSet) ([]ServoCalibration, error) {
	servos := make([]ServoCalibration, 0, len(joints))
	for _, j := range joints {
		sc, ok := c[j.Name]
		if !ok {
			return nil, fmt.Errorf("no calibration for joint %q", j.Name)
		}
		servos = append(servos, sc)
	}
	return servos, nil
}

// ByID returns the joint name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (hardware.JointName, ServoCalibration, bool) {
	for name, sc := range c {
		if sc.ID == id {
			return name, sc, true
		}
	}
	return "", ServoCalibration{}, false
}
