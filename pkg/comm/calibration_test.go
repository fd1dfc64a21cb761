package comm

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandra1610/ovis-go/pkg/hardware"
)

func TestServoCalibrationDegrees(t *testing.T) {
	cal := ServoCalibration{ID: 1, RangeMin: 0, RangeMax: 4095}

	tests := []struct {
		raw      int
		expected float64
	}{
		{2048, 0},     // center -> 0°
		{3072, 90},    // +quarter turn
		{1024, -90},   // -quarter turn
		{2048 + 512, 45},
	}

	for _, tt := range tests {
		got := cal.Degrees(tt.raw)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("Degrees(%d) = %f, want %f", tt.raw, got, tt.expected)
		}
	}
}

func TestServoCalibrationHomingOffset(t *testing.T) {
	cal := ServoCalibration{ID: 1, HomingOffset: 100, RangeMin: 0, RangeMax: 4095}

	assert.InDelta(t, 0, cal.Degrees(2148), 0.001)
	assert.Equal(t, 2148, cal.Ticks(0))
}

func TestServoCalibrationTicksClamps(t *testing.T) {
	cal := ServoCalibration{ID: 1, RangeMin: 1000, RangeMax: 3000}

	assert.Equal(t, 1000, cal.Ticks(-180))
	assert.Equal(t, 3000, cal.Ticks(180))
	assert.Equal(t, 2048, cal.Ticks(0))
}

func TestServoCalibrationRoundTrip(t *testing.T) {
	cal := ServoCalibration{ID: 1, HomingOffset: -37, RangeMin: 0, RangeMax: 4095}

	for raw := 500; raw <= 3500; raw += 100 {
		deg := cal.Degrees(raw)
		back := cal.Ticks(deg)
		if math.Abs(float64(back-raw)) > 1 {
			t.Errorf("round-trip failed: %d -> %f -> %d", raw, deg, back)
		}
	}
}

func TestCalibrationForJoints(t *testing.T) {
	cal := DefaultCalibration()
	joints := hardware.DefaultJointSet()

	servos, err := cal.ForJoints(joints)
	require.NoError(t, err)
	require.Len(t, servos, len(joints))
	for i, sc := range servos {
		assert.Equal(t, i+1, sc.ID)
	}

	// A joint without calibration is an error, not a silent skip.
	delete(cal, hardware.Actuator4)
	_, err = cal.ForJoints(joints)
	assert.Error(t, err)
}

func TestCalibrationByID(t *testing.T) {
	cal := Calibration{
		hardware.Actuator1: ServoCalibration{ID: 1, RangeMin: 100, RangeMax: 200},
		hardware.Actuator6: ServoCalibration{ID: 6, RangeMin: 300, RangeMax: 400},
	}

	name, sc, ok := cal.ByID(1)
	require.True(t, ok)
	assert.Equal(t, hardware.Actuator1, name)
	assert.Equal(t, 100, sc.RangeMin)

	_, _, ok = cal.ByID(99)
	assert.False(t, ok)
}

func TestLoadCalibration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	data := `{
		"actuator_1": {"id": 1, "homing_offset": 12, "range_min": 800, "range_max": 3300},
		"actuator_2": {"id": 2, "range_min": 0, "range_max": 4095}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cal, err := LoadCalibration(path)
	require.NoError(t, err)
	require.Len(t, cal, 2)
	assert.Equal(t, 12, cal[hardware.Actuator1].HomingOffset)
	assert.Equal(t, 2, cal[hardware.Actuator2].ID)

	_, err = LoadCalibration(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
