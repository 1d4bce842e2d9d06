package main

import (
	"fmt"

	"github.com/gwillem/stalkbot/pkg/motion"
)

type PlanCommand struct {
	X float64 `short:"x" long:"x" required:"true" description:"Target offset X in mm"`
	Y float64 `short:"y" long:"y" required:"true" description:"Target offset Y in mm"`
	Z float64 `short:"z" long:"z" description:"Target offset Z in mm"`
}

func (c *PlanCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plan := motion.BuildApproachPlan(motion.TargetOffset{X: c.X, Y: c.Y, Z: c.Z}, cfg.Offsets)
	fmt.Println(renderPlan(plan))
	return nil
}
