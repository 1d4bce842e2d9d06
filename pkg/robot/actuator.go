package robot

import (
	"context"
	"errors"
)

var (
	// ErrFault is returned when the arm rejects a command or fails to report
	// completion in time.
	ErrFault = errors.New("actuator fault")

	// ErrNotReady is returned when motion is commanded before the arm is
	// enabled and set ready.
	ErrNotReady = errors.New("actuator not ready")
)

// Mode selects the arm controller mode.
type Mode int

const (
	// ModePosition is blocking position control, the only mode the
	// sequencer uses.
	ModePosition Mode = 0
	// ModeServo streams servo targets.
	ModeServo Mode = 1
	// ModeTeach puts the arm in manual (gravity compensated) mode.
	ModeTeach Mode = 2
)

// MotionActuator is the manipulator command boundary. Every motion call blocks
// until the arm reports completion.
type MotionActuator interface {
	Enable(ctx context.Context) error
	SetMode(ctx context.Context, mode Mode) error
	SetReady(ctx context.Context) error

	// MoveRelative moves the tool by d relative to its current pose.
	MoveRelative(ctx context.Context, d RelativeDelta) error
	// MoveJoints moves all joints to absolute angles.
	MoveJoints(ctx context.Context, angles JointAngles) error
	// MoveJointsRelative offsets the joints by the given angles.
	MoveJointsRelative(ctx context.Context, delta JointAngles) error
}

// PoseReader is implemented by actuators that can report their tool pose.
type PoseReader interface {
	Pose(ctx context.Context) (AbsolutePose, error)
}
