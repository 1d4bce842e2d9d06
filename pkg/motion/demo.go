package motion

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gwillem/stalkbot/pkg/robot"
)

// Side selects which row the demonstration scripts reach into.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Blind intents used only by the demonstration scripts.
const (
	IntentBlindApproach Intent = "blind_approach"
	IntentBlindInsert   Intent = "blind_insert"
	IntentBlindExtract  Intent = "blind_extract"
	IntentBlindReturn   Intent = "blind_return"
)

// Fixed blind distances of the demonstration scripts, in millimeters. These
// are hand-tuned for visual checks and are independent of Offsets.
const (
	blindApproachY = 230
	blindInsertX   = 80
)

// demoScript returns the open-loop move list for side. The script reaches the
// row with fixed deltas and no sensor feedback; it exists to check the
// mechanics visually and is not part of the sensor-driven path.
func (s *Sequencer) demoScript(side Side) ([]move, error) {
	var turn, reach float64
	switch side {
	case SideLeft:
		turn, reach = s.offsets.JointSixQuarterTurn, -blindApproachY
	case SideRight:
		turn, reach = -s.offsets.JointSixQuarterTurn, blindApproachY
	default:
		return nil, fmt.Errorf("unknown demo side %q", side)
	}

	return []move{
		absolute(IntentHome, s.home.Joints),
		absolute(IntentPlane, s.plane.Joints),
		jointOffset(IntentRotateTool, robot.ToolRotation(turn)),
		relative(IntentBlindApproach, robot.Translate(0, reach, 0)),
		relative(IntentBlindInsert, robot.Translate(-blindInsertX, 0, 0)),
		pause(s.dwell),
		relative(IntentBlindExtract, robot.Translate(blindInsertX, 0, 0)),
		relative(IntentBlindReturn, robot.Translate(0, -reach, 0)),
		jointOffset(IntentRotateTool, robot.ToolRotation(-turn)),
		absolute(IntentPlane, s.plane.Joints),
		absolute(IntentHome, s.home.Joints),
	}, nil
}

// Demo runs the blind demonstration script for side.
func (s *Sequencer) Demo(ctx context.Context, side Side) error {
	moves, err := s.demoScript(side)
	if err != nil {
		return err
	}
	attempt := uuid.New()
	s.logger.Warn().
		Str("attempt", attempt.String()).
		Str("side", string(side)).
		Msg("blind demonstration, no sensor feedback")
	return s.run(ctx, attempt, PhaseDemo, moves)
}

// DemoLeft runs the blind demonstration into the left row.
func (s *Sequencer) DemoLeft(ctx context.Context) error {
	return s.Demo(ctx, SideLeft)
}

// DemoRight runs the blind demonstration into the right row.
func (s *Sequencer) DemoRight(ctx context.Context) error {
	return s.Demo(ctx, SideRight)
}
