package motion

import (
	"fmt"
	"math"
)

// Offsets are the tuned mechanical corrections applied around a detected
// target. All distances are millimeters, angles are degrees. They are
// measured on the rig, never derived.
type Offsets struct {
	// GripperHalfWidth is the distance from the gripper center to the edge
	// of the C clamp.
	GripperHalfWidth float64 `toml:"gripper_half_width" mapstructure:"gripper_half_width"`
	TrimX            float64 `toml:"trim_x" mapstructure:"trim_x"`
	TrimY            float64 `toml:"trim_y" mapstructure:"trim_y"`
	// InsertDepth drives the clamp past the stalk for a firm grip.
	InsertDepth float64 `toml:"insert_depth" mapstructure:"insert_depth"`
	// RetractDepth backs off to the clamping position. Tuned independently
	// of InsertDepth.
	RetractDepth float64 `toml:"retract_depth" mapstructure:"retract_depth"`
	// OvershootY compensates the systematic undershoot of the approach.
	OvershootY float64 `toml:"overshoot_y" mapstructure:"overshoot_y"`
	// FunnelY lets the stalk settle onto the edge of the guide funnel.
	FunnelY             float64 `toml:"funnel_y" mapstructure:"funnel_y"`
	JointSixQuarterTurn float64 `toml:"joint_six_quarter_turn" mapstructure:"joint_six_quarter_turn"`
	// ReverseClearanceY is the outward move that starts every retract.
	ReverseClearanceY float64 `toml:"reverse_clearance_y" mapstructure:"reverse_clearance_y"`
	// CameraClearanceY keeps the wrist camera off the stalk while the tool
	// rotates.
	CameraClearanceY float64 `toml:"camera_clearance_y" mapstructure:"camera_clearance_y"`
}

// DefaultOffsets returns the values tuned on the field rig.
func DefaultOffsets() Offsets {
	return Offsets{
		GripperHalfWidth:    80 + 5,
		TrimX:               29,
		TrimY:               -32,
		InsertDepth:         14,
		RetractDepth:        25,
		OvershootY:          8,
		FunnelY:             12,
		JointSixQuarterTurn: 90,
		ReverseClearanceY:   10,
		CameraClearanceY:    35,
	}
}

// JawOffsetX is the X distance between the open jaw and the clamp centerline.
func (o Offsets) JawOffsetX() float64 {
	return o.GripperHalfWidth + o.TrimX
}

// Validate rejects non-finite values.
func (o Offsets) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"gripper_half_width", o.GripperHalfWidth},
		{"trim_x", o.TrimX},
		{"trim_y", o.TrimY},
		{"insert_depth", o.InsertDepth},
		{"retract_depth", o.RetractDepth},
		{"overshoot_y", o.OvershootY},
		{"funnel_y", o.FunnelY},
		{"joint_six_quarter_turn", o.JointSixQuarterTurn},
		{"reverse_clearance_y", o.ReverseClearanceY},
		{"camera_clearance_y", o.CameraClearanceY},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("offset %s is not finite", f.name)
		}
	}
	return nil
}
