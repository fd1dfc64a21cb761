package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	slogmulti "github.com/samber/slog-multi"

	"github.com/alexandra1610/ovis-go/pkg/comm"
	"github.com/alexandra1610/ovis-go/pkg/control"
	"github.com/alexandra1610/ovis-go/pkg/hardware"
	"github.com/alexandra1610/ovis-go/pkg/hwlog"
)

type MonitorCommand struct {
	Hz      int    `long:"hz" default:"30" description:"Cycle frequency"`
	Hold    bool   `long:"hold" description:"Command the arm to hold its current pose"`
	LogFile string `long:"log" default:"ovisctl.log" description:"Event log file"`
	LogJSON string `long:"log-json" description:"Also write events as JSON lines to this file"`
}

const maxLogs = 5

// One chart color per actuator, indexed in joint order.
var jointPalette = [hardware.NumActuators]string{"196", "208", "226", "46", "51", "201"}

func jointColor(name hardware.JointName) string {
	for i, n := range hardware.AllJoints() {
		if n == name {
			return jointPalette[i]
		}
	}
	return "7"
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	logStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Foreground(lipgloss.Color("9"))
)

// uiLogger feeds hardware events into the TUI log box. Events are dropped
// rather than ever blocking the control cycle.
type uiLogger struct {
	ch chan string
}

func newUILogger() *uiLogger {
	return &uiLogger{ch: make(chan string, 10)}
}

func (u *uiLogger) Log(e hwlog.Event) {
	var msg string
	switch {
	case e.StateChange != nil:
		if e.StateChange.Old == "" {
			msg = fmt.Sprintf("hardware %s (%s)", e.StateChange.New, e.StateChange.Reason)
		} else {
			msg = fmt.Sprintf("%s -> %s (%s)", e.StateChange.Old, e.StateChange.New, e.StateChange.Reason)
		}
	case e.Error != nil:
		msg = fmt.Sprintf("%s failed: %s", e.Error.Op, e.Error.Message)
	case e.Cycle != nil && e.Cycle.Err != "":
		msg = fmt.Sprintf("%s cycle: %s", e.Cycle.Op, e.Cycle.Err)
	default:
		return // per-cycle data stays off the log box
	}

	select {
	case u.ch <- fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), msg):
	default:
	}
}

type monitorModel struct {
	loop          *control.Loop
	uiLogs        *uiLogger
	chart         *streamlinechart.Model
	width, height int
	logs          []string
	quitting      bool
	lastPositions map[hardware.JointName]float64
}

func (m *monitorModel) addLog(msg string) {
	if m.logs = append(m.logs, msg); len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// resize fits the chart between the header, legend and log box, with a
// floor so tiny terminals still render something usable.
func (m *monitorModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.chart.Resize(max(m.width-4, 40), max(m.height-13, 10))
}

// Messages from the loop
type stateMsg control.State
type logMsg string

func waitForState(loop *control.Loop) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-loop.States())
	}
}

func waitForLog(ui *uiLogger) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ui.ch)
	}
}

func initialMonitorModel(loop *control.Loop, ui *uiLogger) monitorModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-180, 180),
	)
	for _, name := range hardware.AllJoints() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(name)))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return monitorModel{
		loop:   loop,
		uiLogs: ui,
		chart:  &chart,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.loop),
		waitForLog(m.uiLogs),
	)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := control.State(msg)
		// Chart only advances while the arm moves, so an idle trace
		// stays put instead of scrolling flat lines.
		if state.Positions != nil && !maps.Equal(state.Positions, m.lastPositions) {
			for name, pos := range state.Positions {
				m.chart.PushDataSet(string(name), pos)
			}
			m.chart.DrawAll()
			m.lastPositions = state.Positions
		}
		if state.Err != nil {
			m.addLog(fmt.Sprintf("[%s] cycle error: %v", state.Timestamp.Format("15:04:05"), state.Err))
		}
		return m, waitForState(m.loop)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.uiLogs)
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}

	header := titleStyle.Render("Ovis Monitor") + fmt.Sprintf(" - %d Hz", m.loop.Hz())
	if m.width > 0 {
		header += statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height))
	}

	logLines := statusStyle.Render("Press 'q' to quit")
	if len(m.logs) > 0 {
		logLines = strings.Join(m.logs, "\n")
	}

	return strings.Join([]string{
		header,
		"",
		chartStyle.Render(m.chart.View()),
		renderLegend(),
		logStyle.Width(m.width - 4).Render(logLines),
		"",
	}, "\n")
}

func renderLegend() string {
	items := make([]string, 0, hardware.NumActuators)
	for _, name := range hardware.AllJoints() {
		mark := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(name))).Bold(true).Render("━━")
		items = append(items, mark+" "+string(name))
	}
	return strings.Join(items, "  ")
}

// buildEvents wires the event side-channel: slog handlers fan out to the
// text log file (and optionally a JSON file), and the TUI log box gets its
// own feed.
func (c *MonitorCommand) buildEvents(ui *uiLogger) (hwlog.Logger, func(), error) {
	var handlers []slog.Handler
	var closers []func()

	textFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	closers = append(closers, func() { textFile.Close() })
	handlers = append(handlers, slog.NewTextHandler(textFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if c.LogJSON != "" {
		jsonFile, err := os.OpenFile(c.LogJSON, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			textFile.Close()
			return nil, nil, fmt.Errorf("open JSON log file: %w", err)
		}
		closers = append(closers, func() { jsonFile.Close() })
		handlers = append(handlers, slog.NewJSONHandler(jsonFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	events := hwlog.NewMultiLogger(hwlog.NewSlogAdapter(logger), ui)
	cleanup := func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}
	return events, cleanup, nil
}

func (c *MonitorCommand) Execute(args []string) error {
	cfg, err := comm.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'ovisctl setup' first.")
		os.Exit(1)
	}

	ui := newUILogger()
	events, cleanup, err := c.buildEvents(ui)
	if err != nil {
		return err
	}
	defer cleanup()

	loop, err := control.NewLoop(control.Config{
		Opener: func(ctx context.Context, joints hardware.JointSet) (hardware.Session, error) {
			return comm.Open(ctx, *cfg, joints, events)
		},
		Events: events,
		Hz:     c.Hz,
		Hold:   c.Hold,
	})
	if err != nil {
		log.Fatalf("Failed to create control loop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- loop.Start(ctx)
	}()

	p := tea.NewProgram(initialMonitorModel(loop, ui), tea.WithAltScreen())
	_, runErr := p.Run()

	// The loop owns all hardware calls; wait for it to come back before
	// finalizing the hardware interface.
	cancel()
	if err := <-done; err != nil && err != context.Canceled {
		log.Printf("Control loop error: %v", err)
	}
	loop.Close()

	if runErr != nil {
		log.Fatalf("Error running program: %v", runErr)
	}
	return nil
}
