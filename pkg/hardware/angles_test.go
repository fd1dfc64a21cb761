package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnglesRoundTrip(t *testing.T) {
	in := []float64{0.1, -42.5, 179.99, -179.99, 12.345678, 90}

	out := AnglesFromPositions(in).Positions()

	require.Len(t, out, NumActuators)
	for i := range in {
		// Truncation to single precision loses anything beyond ~7
		// significant digits, so compare approximately.
		assert.InDelta(t, in[i], out[i], 1e-4, "slot %d", i)
	}
}

func TestAnglesFromPositionsTruncates(t *testing.T) {
	a := AnglesFromPositions([]float64{123.4567890123, 0, 0, 0, 0, 0})
	assert.Equal(t, float32(123.4567890123), a[0])
}

func TestAnglesShortInput(t *testing.T) {
	a := AnglesFromPositions([]float64{1, 2, 3})
	assert.Equal(t, Angles{1, 2, 3, 0, 0, 0}, a)
}

func TestActuatorAccessor(t *testing.T) {
	a := Angles{11, 22, 33, 44, 55, 66}
	for n := 1; n <= NumActuators; n++ {
		assert.Equal(t, a[n-1], a.Actuator(n))
	}
}
