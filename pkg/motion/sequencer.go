package motion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gwillem/stalkbot/internal/observability"
	"github.com/gwillem/stalkbot/pkg/robot"
)

// DefaultDwell is the pause the demonstration scripts hold inside the stalk.
const DefaultDwell = 3 * time.Second

// TargetSource yields one detected target offset per call.
type TargetSource interface {
	FetchTargetOffset(ctx context.Context, timeout time.Duration) (TargetOffset, error)
}

// Sequencer executes plans and named transitions one blocking command at a
// time. It keeps no motion history; the only state carried between an
// approach and its retract is the ReversalState handed to the caller.
type Sequencer struct {
	arm     robot.MotionActuator
	offsets Offsets
	home    robot.Configuration
	plane   robot.Configuration
	dwell   time.Duration
	logger  zerolog.Logger
	events  chan Event
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithOffsets replaces the tuned offsets.
func WithOffsets(o Offsets) Option {
	return func(s *Sequencer) { s.offsets = o }
}

// WithConfigurations replaces the home and approach-plane configurations.
func WithConfigurations(home, plane robot.Configuration) Option {
	return func(s *Sequencer) {
		s.home = home
		s.plane = plane
	}
}

// WithDwell sets the pause used by the demonstration scripts.
func WithDwell(d time.Duration) Option {
	return func(s *Sequencer) { s.dwell = d }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithEventBuffer sets the capacity of the Events channel.
func WithEventBuffer(n int) Option {
	return func(s *Sequencer) {
		if n > 0 {
			s.events = make(chan Event, n)
		}
	}
}

// NewSequencer creates a sequencer driving arm.
func NewSequencer(arm robot.MotionActuator, opts ...Option) *Sequencer {
	s := &Sequencer{
		arm:     arm,
		offsets: DefaultOffsets(),
		home:    robot.Home,
		plane:   robot.ApproachPlane,
		dwell:   DefaultDwell,
		logger:  log.Logger,
		events:  make(chan Event, 32),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Offsets returns the offsets plans are built with.
func (s *Sequencer) Offsets() Offsets { return s.offsets }

// Home returns the home configuration.
func (s *Sequencer) Home() robot.Configuration { return s.home }

// Initialize enables the arm and puts it in blocking position mode. Call
// once before the first motion.
func (s *Sequencer) Initialize(ctx context.Context) error {
	s.logger.Info().Msg("initializing arm")
	if err := s.arm.Enable(ctx); err != nil {
		return fmt.Errorf("enable motion: %w", err)
	}
	if err := s.arm.SetMode(ctx, robot.ModePosition); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	if err := s.arm.SetReady(ctx); err != nil {
		return fmt.Errorf("set ready: %w", err)
	}
	return nil
}

// Plan builds an approach plan for target with the sequencer's offsets.
func (s *Sequencer) Plan(target TargetOffset) *MotionPlan {
	return BuildApproachPlan(target, s.offsets)
}

// ExecuteForward runs every step of plan in order. On success it returns the
// state needed to retract. On failure the arm is left where the failing
// step stopped it and nothing is undone.
func (s *Sequencer) ExecuteForward(ctx context.Context, plan *MotionPlan) (*ReversalState, error) {
	if plan == nil || len(plan.steps) == 0 {
		return nil, ErrNoPlan
	}
	if plan.consumed {
		return nil, ErrPlanConsumed
	}
	plan.consumed = true

	attempt := uuid.New()
	s.logger.Info().
		Str("attempt", attempt.String()).
		Stringer("target", plan.target).
		Msg("approach")

	moves := make([]move, 0, len(plan.steps))
	for _, st := range plan.steps {
		moves = append(moves, relative(st.Intent, st.Delta))
	}
	if err := s.run(ctx, attempt, PhaseForward, moves); err != nil {
		return nil, err
	}

	x, y := plan.Reversal()
	return &ReversalState{attempt: attempt, reverseX: x, reverseY: y}, nil
}

// ExecuteReverse backs out of the approach that produced state and returns
// home. The state is consumed even if a step faults.
func (s *Sequencer) ExecuteReverse(ctx context.Context, state *ReversalState) error {
	if !state.Valid() {
		return ErrNoActiveApproach
	}
	state.consumed = true

	s.logger.Info().Str("attempt", state.attempt.String()).Msg("retract")
	return s.run(ctx, state.attempt, PhaseReverse, []move{
		relative(IntentClear, robot.Translate(0, s.offsets.ReverseClearanceY, 0)),
		relative(IntentBackOutX, robot.Translate(state.reverseX, 0, 0)),
		relative(IntentBackOutY, robot.Translate(0, state.reverseY, 0)),
		absolute(IntentHome, s.home.Joints),
	})
}

// Approach fetches one target from src and executes the resulting plan. No
// motion is attempted when the fetch fails.
func (s *Sequencer) Approach(ctx context.Context, src TargetSource, timeout time.Duration) (*MotionPlan, *ReversalState, error) {
	target, err := src.FetchTargetOffset(ctx, timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch target: %w", err)
	}
	plan := s.Plan(target)
	state, err := s.ExecuteForward(ctx, plan)
	return plan, state, err
}

// GoHome moves to the home configuration.
func (s *Sequencer) GoHome(ctx context.Context) error {
	return s.transition(ctx, absolute(IntentHome, s.home.Joints))
}

// GoToApproachPlane moves to the approach-plane configuration.
func (s *Sequencer) GoToApproachPlane(ctx context.Context) error {
	return s.transition(ctx, absolute(IntentPlane, s.plane.Joints))
}

// RotateToolAxis turns the tool joint by deg relative to its current angle.
func (s *Sequencer) RotateToolAxis(ctx context.Context, deg float64) error {
	return s.transition(ctx, jointOffset(IntentRotateTool, robot.ToolRotation(deg)))
}

// GoToCameraPlane moves out in Y so the wrist camera clears the stalk, then
// rotates the tool a quarter turn back to face the row.
func (s *Sequencer) GoToCameraPlane(ctx context.Context) error {
	return s.transition(ctx,
		relative(IntentCameraClear, robot.Translate(0, s.offsets.CameraClearanceY, 0)),
		relative(IntentCameraRotate, robot.Rotate(0, 0, -s.offsets.JointSixQuarterTurn)),
	)
}

func (s *Sequencer) transition(ctx context.Context, moves ...move) error {
	return s.run(ctx, uuid.New(), PhaseTransition, moves)
}

type moveKind int

const (
	moveRelative moveKind = iota
	moveJoints
	moveJointsRelative
	moveDwell
)

type move struct {
	kind   moveKind
	intent Intent
	delta  robot.RelativeDelta
	joints robot.JointAngles
	dwell  time.Duration
}

func relative(intent Intent, d robot.RelativeDelta) move {
	return move{kind: moveRelative, intent: intent, delta: d}
}

func absolute(intent Intent, j robot.JointAngles) move {
	return move{kind: moveJoints, intent: intent, joints: j}
}

func jointOffset(intent Intent, j robot.JointAngles) move {
	return move{kind: moveJointsRelative, intent: intent, joints: j}
}

func pause(d time.Duration) move {
	return move{kind: moveDwell, intent: IntentDwell, dwell: d}
}

// run dispatches moves strictly in order. It stops at the first failure and
// never undoes completed moves.
func (s *Sequencer) run(ctx context.Context, attempt uuid.UUID, phase string, moves []move) error {
	total := len(moves)
	for i, m := range moves {
		index := i + 1
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s step %d (%s): %w", phase, index, m.intent, err)
		}

		ev := Event{
			Attempt: attempt,
			Phase:   phase,
			Index:   index,
			Total:   total,
			Intent:  m.intent,
			Delta:   m.delta,
		}
		if m.kind == moveJoints || m.kind == moveJointsRelative {
			j := m.joints
			ev.Joints = &j
		}

		logEvent := s.logger.Info().
			Str("attempt", attempt.String()).
			Str("phase", phase).
			Int("step", index).
			Int("of", total).
			Str("intent", string(m.intent))
		switch m.kind {
		case moveRelative:
			logEvent.Stringer("delta", m.delta)
		case moveJoints, moveJointsRelative:
			logEvent.Floats64("joints", m.joints[:])
		case moveDwell:
			logEvent.Dur("dwell", m.dwell)
		}
		logEvent.Msg("step")

		start := time.Now()
		err := s.dispatch(ctx, m)
		ev.Timestamp = time.Now()
		if m.kind != moveDwell {
			observability.RecordStep(phase, string(m.intent), ev.Timestamp.Sub(start), err == nil)
		}

		if err != nil {
			ev.Err = err
			s.emit(ev)
			if m.kind == moveDwell {
				return fmt.Errorf("%s step %d (%s): %w", phase, index, m.intent, err)
			}
			s.logger.Error().Err(err).
				Str("attempt", attempt.String()).
				Str("phase", phase).
				Int("step", index).
				Str("intent", string(m.intent)).
				Msg("step failed, arm left at last reached pose")
			return &StepError{Attempt: attempt, Phase: phase, Index: index, Intent: m.intent, Err: err}
		}
		s.emit(ev)
	}
	return nil
}

func (s *Sequencer) dispatch(ctx context.Context, m move) error {
	switch m.kind {
	case moveRelative:
		return s.arm.MoveRelative(ctx, m.delta)
	case moveJoints:
		return s.arm.MoveJoints(ctx, m.joints)
	case moveJointsRelative:
		return s.arm.MoveJointsRelative(ctx, m.joints)
	case moveDwell:
		if m.dwell <= 0 {
			return nil
		}
		t := time.NewTimer(m.dwell)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("unknown move kind %d", m.kind)
	}
}
