package hwlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) Log(e Event) { r.events = append(r.events, e) }

func TestCycleEventCopiesPositions(t *testing.T) {
	positions := []float64{1, 2, 3}
	e := CycleEvent("read", positions, "")

	positions[0] = 99
	assert.Equal(t, 1.0, e.Cycle.Positions[0])
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := NewMultiLogger(a, b)

	m.Log(StateChangeEvent("configured", "active", "activate"))
	m.Log(ErrorEvent("read", "timeout"))

	require.Len(t, a.events, 2)
	require.Len(t, b.events, 2)
	assert.Equal(t, "active", a.events[0].StateChange.New)
	assert.Equal(t, "timeout", b.events[1].Error.Message)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewSlogAdapter(logger)

	a.Log(StateChangeEvent("unconfigured", "configured", "configure"))
	a.Log(CycleEvent("read", []float64{1.5, 2.5}, ""))
	a.Log(CycleEvent("write", nil, "bus gone"))
	a.Log(ErrorEvent("activate", "device open: no such port"))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "msg=lifecycle")
	assert.Contains(t, lines[0], "new_state=configured")
	assert.Contains(t, lines[1], "msg=cycle")
	assert.Contains(t, lines[1], "op=read")
	assert.Contains(t, lines[2], "level=ERROR")
	assert.Contains(t, lines[2], "bus gone")
	assert.Contains(t, lines[3], "op=activate")
}
