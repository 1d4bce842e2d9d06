package motion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/stalkbot/pkg/robot"
)

func TestDemo_Scripts(t *testing.T) {
	tests := []struct {
		side  Side
		turn  float64
		reach float64
	}{
		{SideLeft, 90, -230},
		{SideRight, -90, 230},
	}

	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			seq, sim := newTestSequencer(t)
			ctx := context.Background()

			require.NoError(t, seq.Demo(ctx, tt.side))

			motions := sim.Motions()
			require.Len(t, motions, 10)
			require.Equal(t, robot.Home.Joints, motions[0].Joints)
			require.Equal(t, robot.ApproachPlane.Joints, motions[1].Joints)
			require.Equal(t, robot.ToolRotation(tt.turn), motions[2].Joints)
			require.Equal(t, robot.Translate(0, tt.reach, 0), motions[3].Delta)
			require.Equal(t, robot.Translate(-80, 0, 0), motions[4].Delta)
			require.Equal(t, robot.Translate(80, 0, 0), motions[5].Delta)
			require.Equal(t, robot.Translate(0, -tt.reach, 0), motions[6].Delta)
			require.Equal(t, robot.ToolRotation(-tt.turn), motions[7].Joints)
			require.Equal(t, robot.ApproachPlane.Joints, motions[8].Joints)
			require.Equal(t, robot.Home.Joints, motions[9].Joints)

			pose, _ := sim.Pose(ctx)
			require.Equal(t, robot.Home.Pose, pose)
		})
	}
}

func TestDemo_UnknownSide(t *testing.T) {
	seq, sim := newTestSequencer(t)
	require.Error(t, seq.Demo(context.Background(), Side("up")))
	require.Empty(t, sim.Motions())
}

func TestDemo_DwellHonorsCancel(t *testing.T) {
	seq, sim := newTestSequencer(t, WithDwell(DefaultDwell))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- seq.DemoLeft(ctx) }()

	for e := range seq.Events() {
		if e.Intent == IntentBlindInsert {
			break
		}
	}
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, sim.Motions(), 5)
}
