package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config string `short:"c" long:"config" description:"Config file (default: $STALKBOT_CONFIG or stalkbot.toml)"`

	Setup    SetupCommand    `command:"setup" description:"Write a config file for this rig"`
	Home     HomeCommand     `command:"home" description:"Move the arm to its home configuration"`
	Plane    PlaneCommand    `command:"plane" description:"Move the arm to the approach plane"`
	Rotate   RotateCommand   `command:"rotate" description:"Rotate the tool joint"`
	Approach ApproachCommand `command:"approach" description:"Detect a stalk, clamp it and retract"`
	Demo     DemoCommand     `command:"demo" description:"Run the blind demonstration script"`
	Deploy   DeployCommand   `command:"deploy" description:"Open a box on the accessory dispenser"`
	Watch    WatchCommand    `command:"watch" description:"Run a cycle with a live chart of commanded offsets"`
	Plan     PlanCommand     `command:"plan" description:"Print the approach plan for a target without moving"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "stalkctl - stalk clamp motion control for the xArm rig"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
