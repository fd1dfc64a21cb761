// Package ovis provides a hardware interface for the Ovis 6-DOF robot arm.
//
// The arm's joint positions are exposed as named, per-joint state and
// command interfaces to an external motion-control loop, while the actual
// device exchange runs over the arm's servo bus.
//
// # Installation
//
//	go install github.com/alexandra1610/ovis-go/cmd/ovisctl@latest
//
// # Usage
//
// First, detect the arm and write the configuration file:
//
//	ovisctl setup
//
// Then watch the joint positions live:
//
//	ovisctl monitor
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/ovisctl: CLI with setup and monitor commands
//   - pkg/hardware: lifecycle state machine, position buffers and the
//     exported per-joint interfaces
//   - pkg/comm: servo bus session, calibration and device configuration
//   - pkg/control: fixed-rate control loop driving the hardware interface
//   - pkg/hwlog: structured event side-channel for diagnostics
package ovis
