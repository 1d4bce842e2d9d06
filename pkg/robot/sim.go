package robot

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CommandKind names a command recorded by SimArm.
type CommandKind string

const (
	CmdEnable             CommandKind = "enable"
	CmdSetMode            CommandKind = "set_mode"
	CmdSetReady           CommandKind = "set_ready"
	CmdMoveRelative       CommandKind = "move_relative"
	CmdMoveJoints         CommandKind = "move_joints"
	CmdMoveJointsRelative CommandKind = "move_joints_relative"
)

// IsMotion reports whether the command moves the arm.
func (k CommandKind) IsMotion() bool {
	return k == CmdMoveRelative || k == CmdMoveJoints || k == CmdMoveJointsRelative
}

// Command is one call received by SimArm.
type Command struct {
	Kind   CommandKind
	Delta  RelativeDelta
	Joints JointAngles
	Mode   Mode
	Err    error
}

// SimArm is an in-memory arm for tests and bench runs. It has no kinematic
// model: relative tool moves change the tool pose, joint moves change the
// joint angles, and an absolute joint move onto a known configuration snaps
// the tool pose to that configuration's stored pose.
type SimArm struct {
	mu       sync.Mutex
	pose     AbsolutePose
	joints   JointAngles
	mode     Mode
	enabled  bool
	ready    bool
	known    []Configuration
	commands []Command
	motions  int
	failAt   int
	latency  time.Duration
}

// NewSimArm creates a simulated arm resting in start. Known configurations
// (start included) are used to resolve absolute joint moves to tool poses.
func NewSimArm(start Configuration, known ...Configuration) *SimArm {
	return &SimArm{
		pose:   start.Pose,
		joints: start.Joints,
		known:  append([]Configuration{start}, known...),
	}
}

// FailOnMotion makes the n-th motion command (1-based) fail. Zero disables
// fault injection.
func (s *SimArm) FailOnMotion(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAt = n
}

// SetLatency makes every motion take d before completing.
func (s *SimArm) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Enable implements MotionActuator.
func (s *SimArm) Enable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	s.record(Command{Kind: CmdEnable})
	return nil
}

// SetMode implements MotionActuator.
func (s *SimArm) SetMode(ctx context.Context, mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode < ModePosition || mode > ModeTeach {
		err := fmt.Errorf("%w: unknown mode %d", ErrFault, mode)
		s.record(Command{Kind: CmdSetMode, Mode: mode, Err: err})
		return err
	}
	s.mode = mode
	s.ready = false
	s.record(Command{Kind: CmdSetMode, Mode: mode})
	return nil
}

// SetReady implements MotionActuator.
func (s *SimArm) SetReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		err := fmt.Errorf("%w: %w: motors disabled", ErrFault, ErrNotReady)
		s.record(Command{Kind: CmdSetReady, Err: err})
		return err
	}
	s.ready = true
	s.record(Command{Kind: CmdSetReady})
	return nil
}

// MoveRelative implements MotionActuator.
func (s *SimArm) MoveRelative(ctx context.Context, d RelativeDelta) error {
	return s.motion(Command{Kind: CmdMoveRelative, Delta: d}, func() {
		s.pose = s.pose.Apply(d)
	})
}

// MoveJoints implements MotionActuator.
func (s *SimArm) MoveJoints(ctx context.Context, angles JointAngles) error {
	return s.motion(Command{Kind: CmdMoveJoints, Joints: angles}, func() {
		s.joints = angles
		for _, c := range s.known {
			if c.Joints == angles {
				s.pose = c.Pose
				return
			}
		}
	})
}

// MoveJointsRelative implements MotionActuator.
func (s *SimArm) MoveJointsRelative(ctx context.Context, delta JointAngles) error {
	return s.motion(Command{Kind: CmdMoveJointsRelative, Joints: delta}, func() {
		s.joints = s.joints.Add(delta)
	})
}

func (s *SimArm) motion(cmd Command, apply func()) error {
	s.mu.Lock()
	s.motions++
	switch {
	case !s.ready || s.mode != ModePosition:
		cmd.Err = fmt.Errorf("%w: %w", ErrFault, ErrNotReady)
	case s.failAt > 0 && s.motions == s.failAt:
		cmd.Err = fmt.Errorf("%w: injected fault on motion %d", ErrFault, s.motions)
	}
	s.record(cmd)
	latency := s.latency
	s.mu.Unlock()

	if cmd.Err != nil {
		return cmd.Err
	}
	if latency > 0 {
		time.Sleep(latency)
	}

	s.mu.Lock()
	apply()
	s.mu.Unlock()
	return nil
}

func (s *SimArm) record(cmd Command) {
	s.commands = append(s.commands, cmd)
}

// Pose implements PoseReader.
func (s *SimArm) Pose(ctx context.Context) (AbsolutePose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose, nil
}

// Joints returns the current joint angles.
func (s *SimArm) Joints() JointAngles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joints
}

// Commands returns a copy of every command received so far.
func (s *SimArm) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Motions returns only the motion commands received so far.
func (s *SimArm) Motions() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Command
	for _, c := range s.commands {
		if c.Kind.IsMotion() {
			out = append(out, c)
		}
	}
	return out
}
