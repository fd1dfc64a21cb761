package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/alexandra1610/ovis-go/pkg/comm"
	"github.com/alexandra1610/ovis-go/pkg/hardware"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Baud int `long:"baud" default:"1000000" description:"Servo bus baud rate"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Ovis Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━"))
	fmt.Println()

	ports := c.findArms()
	if len(ports) == 0 {
		fmt.Println("No arm found.")
		fmt.Println("Make sure the arm is connected and powered on.")
		os.Exit(1)
	}

	port := ports[0]
	if len(ports) > 1 {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Multiple arms found. Which port is the Ovis arm?").
					Options(huh.NewOptions(ports...)...).
					Value(&port),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	cfg := comm.Config{Port: port, BaudRate: c.Baud}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render(fmt.Sprintf("Configuration written to %s", comm.DefaultConfigFile)))
	fmt.Println(dimStyle.Render("Run 'ovisctl monitor' to watch joint positions."))
	return nil
}

// findArms probes every serial port for a bus answering with the arm's six
// actuator IDs.
func (c *SetupCommand) findArms() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: c.Baud,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		servos, err := bus.Scan(ctx, 1, hardware.NumActuators)
		cancel()
		bus.Close()
		if err != nil {
			continue
		}

		if isOvisArm(servos) {
			fmt.Printf("  Found arm on %s\n", port)
			found = append(found, port)
		}
	}

	return found
}

func isOvisArm(servos []feetech.FoundServo) bool {
	if len(servos) != hardware.NumActuators {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}
	for i := 1; i <= hardware.NumActuators; i++ {
		if !ids[i] {
			return false
		}
	}
	return true
}
