// Package motion turns a detected stalk offset into the clamp choreography
// and executes it, forward and in reverse, against a robot.MotionActuator.
package motion

import (
	"fmt"

	"github.com/gwillem/stalkbot/pkg/robot"
)

// TargetOffset is the detected displacement from the tool frame to the stalk,
// in millimeters.
type TargetOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (t TargetOffset) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", t.X, t.Y, t.Z)
}

// Intent tags what a step is for.
type Intent string

// Approach intents, in plan order.
const (
	IntentAlign        Intent = "align"
	IntentApproach     Intent = "approach"
	IntentCompensate   Intent = "compensate"
	IntentDescend      Intent = "descend"
	IntentCenter       Intent = "center"
	IntentInsert       Intent = "insert"
	IntentRecenter     Intent = "recenter"
	IntentFunnelSettle Intent = "funnel_settle"
)

// Retract and transition intents.
const (
	IntentClear        Intent = "clear"
	IntentBackOutX     Intent = "back_out_x"
	IntentBackOutY     Intent = "back_out_y"
	IntentHome         Intent = "home"
	IntentPlane        Intent = "approach_plane"
	IntentRotateTool   Intent = "rotate_tool"
	IntentCameraClear  Intent = "camera_clear"
	IntentCameraRotate Intent = "camera_rotate"
	IntentDwell        Intent = "dwell"
)

// ApproachIntents lists the intents of an approach plan in order.
func ApproachIntents() []Intent {
	return []Intent{
		IntentAlign,
		IntentApproach,
		IntentCompensate,
		IntentDescend,
		IntentCenter,
		IntentInsert,
		IntentRecenter,
		IntentFunnelSettle,
	}
}

// Step is one relative motion of a plan. Blocking is always true: the next
// step is only issued after this one completes.
type Step struct {
	Delta    robot.RelativeDelta
	Intent   Intent
	Blocking bool
}

// MotionPlan is an immutable approach plan. It can be executed once.
type MotionPlan struct {
	target   TargetOffset
	steps    []Step
	reverseX float64
	reverseY float64
	consumed bool
}

// BuildApproachPlan maps a detected target offset to the eight-step approach.
// Only the center and approach moves are recorded for reversal: the retract
// must clear the stalk without dragging back through the insertion depth.
func BuildApproachPlan(target TargetOffset, o Offsets) *MotionPlan {
	jaw := o.JawOffsetX()
	approachY := target.Y + o.TrimY
	centerX := -jaw

	step := func(intent Intent, x, y, z float64) Step {
		return Step{Delta: robot.Translate(x, y, z), Intent: intent, Blocking: true}
	}

	return &MotionPlan{
		target: target,
		steps: []Step{
			step(IntentAlign, target.X+jaw, 0, 0),
			step(IntentApproach, 0, approachY, 0),
			step(IntentCompensate, 0, o.OvershootY, 0),
			step(IntentDescend, 0, 0, target.Z),
			step(IntentCenter, centerX, 0, 0),
			step(IntentInsert, -o.InsertDepth, 0, 0),
			step(IntentRecenter, o.RetractDepth, 0, 0),
			step(IntentFunnelSettle, 0, o.FunnelY, 0),
		},
		reverseX: -centerX,
		reverseY: -approachY,
	}
}

// Target returns the offset the plan was built from.
func (p *MotionPlan) Target() TargetOffset { return p.target }

// Steps returns a copy of the plan's steps.
func (p *MotionPlan) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Len returns the number of steps.
func (p *MotionPlan) Len() int { return len(p.steps) }

// Reversal returns the X and Y deltas that undo the center and approach
// moves.
func (p *MotionPlan) Reversal() (x, y float64) {
	return p.reverseX, p.reverseY
}

// Consumed reports whether the plan has been handed to a sequencer.
func (p *MotionPlan) Consumed() bool { return p.consumed }
