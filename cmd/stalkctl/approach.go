package main

import (
	"fmt"
	"os"
)

type ApproachCommand struct {
	Plane bool `long:"plane" description:"Move to the approach plane before detecting"`
	Yes   bool `short:"y" long:"yes" description:"Do not ask before moving"`
	Hold  bool `long:"hold" description:"Stay clamped; do not retract"`
}

func (c *ApproachCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := connect(ctx, os.Stderr)
	if err != nil {
		return err
	}

	if c.Plane {
		if err := r.seq.GoToApproachPlane(ctx); err != nil {
			fmt.Println(renderFailure(err))
			return err
		}
	}

	target, err := r.perception().FetchTargetOffset(ctx, r.cfg.PerceptionTimeout())
	if err != nil {
		return fmt.Errorf("detect stalk: %w", err)
	}

	plan := r.seq.Plan(target)
	fmt.Println(renderPlan(plan))
	fmt.Println()

	if !c.Yes {
		ok, err := confirm("Execute approach?", "The arm moves through all steps above without stopping.")
		if err != nil || !ok {
			return err
		}
	}

	state, err := r.seq.ExecuteForward(ctx, plan)
	if err != nil {
		fmt.Println(renderFailure(err))
		return err
	}
	fmt.Println(successStyle.Render("Clamped."))

	if c.Hold {
		return nil
	}
	if !c.Yes {
		ok, err := confirm("Retract and return home?", "")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(dimStyle.Render("Holding. Retract manually before the next approach."))
			return nil
		}
	}

	if err := r.seq.ExecuteReverse(ctx, state); err != nil {
		fmt.Println(renderFailure(err))
		return err
	}
	fmt.Println(successStyle.Render("Retracted to " + r.seq.Home().Name + "."))
	return nil
}
