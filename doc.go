// Package stalkbot drives an xArm fitted with a stalk clamp: it asks a
// perception service where the stalk is, clamps it with a fixed eight-step
// approach and backs out again.
//
// # Installation
//
//	go install github.com/gwillem/stalkbot/cmd/stalkctl@latest
//
// # Usage
//
// First, write a config file for the rig:
//
//	stalkctl setup
//
// Then detect, clamp and retract:
//
//	stalkctl approach --plane
//
// Without hardware, start the simulator and point the config at it:
//
//	stalk-sim --addr 127.0.0.1:8420
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/stalkctl: operator CLI
//   - cmd/stalk-sim: simulated arm bridge and perception service
//   - pkg/motion: approach plans and the sequencer that executes them
//   - pkg/robot: arm command boundary, bridge client and simulated arm
//   - pkg/perception: stalk detection client
//   - pkg/accessory: box dispenser over serial
//   - pkg/config: config file loading and saving
package stalkbot
