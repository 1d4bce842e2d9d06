package robot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func readySim(t *testing.T) *SimArm {
	t.Helper()
	ctx := context.Background()
	sim := NewSimArm(Home, ApproachPlane)
	require.NoError(t, sim.Enable(ctx))
	require.NoError(t, sim.SetMode(ctx, ModePosition))
	require.NoError(t, sim.SetReady(ctx))
	return sim
}

func TestSimArm_RejectsMotionBeforeReady(t *testing.T) {
	sim := NewSimArm(Home)

	err := sim.MoveRelative(context.Background(), Translate(1, 0, 0))
	require.ErrorIs(t, err, ErrFault)
	require.ErrorIs(t, err, ErrNotReady)

	pose, _ := sim.Pose(context.Background())
	require.Equal(t, Home.Pose, pose)
	require.Len(t, sim.Motions(), 1)
}

func TestSimArm_SetReadyRequiresEnable(t *testing.T) {
	sim := NewSimArm(Home)
	require.ErrorIs(t, sim.SetReady(context.Background()), ErrNotReady)
}

func TestSimArm_RelativeMovesAccumulate(t *testing.T) {
	sim := readySim(t)
	ctx := context.Background()

	require.NoError(t, sim.MoveRelative(ctx, Translate(10, 0, 0)))
	require.NoError(t, sim.MoveRelative(ctx, Translate(0, -5, 2)))

	pose, err := sim.Pose(ctx)
	require.NoError(t, err)
	want := Home.Pose.Apply(Translate(10, -5, 2))
	require.True(t, pose.ApproxEqual(want, 1e-9), "got %v want %v", pose, want)
}

func TestSimArm_JointMoveSnapsToKnownConfiguration(t *testing.T) {
	sim := readySim(t)
	ctx := context.Background()

	require.NoError(t, sim.MoveJoints(ctx, ApproachPlane.Joints))
	pose, _ := sim.Pose(ctx)
	require.Equal(t, ApproachPlane.Pose, pose)

	require.NoError(t, sim.MoveRelative(ctx, Translate(0, 30, 0)))
	require.NoError(t, sim.MoveJoints(ctx, Home.Joints))
	pose, _ = sim.Pose(ctx)
	require.Equal(t, Home.Pose, pose)
	require.Equal(t, Home.Joints, sim.Joints())
}

func TestSimArm_RelativeJointMove(t *testing.T) {
	sim := readySim(t)
	require.NoError(t, sim.MoveJointsRelative(context.Background(), ToolRotation(90)))
	require.Equal(t, JointAngles{0, -90, 0, 0, 0, 90}, sim.Joints())
}

func TestSimArm_FailOnMotion(t *testing.T) {
	sim := readySim(t)
	ctx := context.Background()
	sim.FailOnMotion(2)

	require.NoError(t, sim.MoveRelative(ctx, Translate(1, 0, 0)))
	err := sim.MoveRelative(ctx, Translate(1, 0, 0))
	require.True(t, errors.Is(err, ErrFault))
	require.NoError(t, sim.MoveRelative(ctx, Translate(1, 0, 0)))

	motions := sim.Motions()
	require.Len(t, motions, 3)
	require.Error(t, motions[1].Err)

	pose, _ := sim.Pose(ctx)
	require.InDelta(t, Home.Pose.Position.X+2, pose.Position.X, 1e-9)
}
