package main

import (
	"fmt"
	"os"

	"github.com/gwillem/stalkbot/pkg/motion"
)

type HomeCommand struct{}

func (c *HomeCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := connect(ctx, os.Stderr)
	if err != nil {
		return err
	}
	return r.seq.GoHome(ctx)
}

type PlaneCommand struct {
	Camera bool `long:"camera" description:"Also clear the camera and turn the tool back to face the row"`
}

func (c *PlaneCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := connect(ctx, os.Stderr)
	if err != nil {
		return err
	}
	if err := r.seq.GoToApproachPlane(ctx); err != nil {
		return err
	}
	if c.Camera {
		return r.seq.GoToCameraPlane(ctx)
	}
	return nil
}

type RotateCommand struct {
	Deg float64 `short:"d" long:"deg" default:"90" description:"Tool joint rotation in degrees, relative to the current angle"`
}

func (c *RotateCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := connect(ctx, os.Stderr)
	if err != nil {
		return err
	}
	return r.seq.RotateToolAxis(ctx, c.Deg)
}

type DemoCommand struct {
	Side string `short:"s" long:"side" default:"right" choice:"left" choice:"right" description:"Row to reach into"`
	Yes  bool   `short:"y" long:"yes" description:"Do not ask for confirmation"`
}

func (c *DemoCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if !c.Yes {
		ok, err := confirm(fmt.Sprintf("Run the blind %s demonstration?", c.Side),
			"Fixed deltas, no sensor feedback. Keep the area clear.")
		if err != nil || !ok {
			return err
		}
	}

	r, err := connect(ctx, os.Stderr)
	if err != nil {
		return err
	}
	return r.seq.Demo(ctx, motion.Side(c.Side))
}
