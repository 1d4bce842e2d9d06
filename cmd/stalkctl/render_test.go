package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/stalkbot/pkg/motion"
	"github.com/gwillem/stalkbot/pkg/robot"
)

func TestRenderPlanListsEveryIntent(t *testing.T) {
	plan := motion.BuildApproachPlan(motion.TargetOffset{X: 100, Y: 200, Z: -50}, motion.DefaultOffsets())
	out := renderPlan(plan)
	for _, intent := range motion.ApproachIntents() {
		require.Contains(t, out, string(intent))
	}
	require.Contains(t, out, "(100.0, 200.0, -50.0)")
}

func TestFormatMM(t *testing.T) {
	require.Equal(t, "·", formatMM(0))
	require.Equal(t, "+211.5", formatMM(211.5))
	require.Equal(t, "-32.0", formatMM(-32))
}

func TestRenderFailureNamesStep(t *testing.T) {
	err := &motion.StepError{
		Attempt: uuid.New(),
		Phase:   motion.PhaseForward,
		Index:   3,
		Intent:  motion.IntentCompensate,
		Err:     errors.New("bridge timeout"),
	}
	out := renderFailure(err)
	require.Contains(t, out, "step 3")
	require.Contains(t, out, "compensate")
	require.Contains(t, out, "bridge timeout")
}

func TestFormOutcome(t *testing.T) {
	submitted, err := formOutcome(nil)
	require.NoError(t, err)
	require.True(t, submitted)

	submitted, err = formOutcome(fmt.Errorf("run form: %w", huh.ErrUserAborted))
	require.NoError(t, err)
	require.False(t, submitted)

	ioErr := errors.New("open /dev/tty: no such device")
	submitted, err = formOutcome(ioErr)
	require.ErrorIs(t, err, ioErr)
	require.False(t, submitted)
}

func TestWatchModelAccumulatesOffset(t *testing.T) {
	m := newWatchModel("test", nil, make(lineWriter, 1), nil)

	m.apply(motion.Event{Delta: robot.Translate(10, 0, 0)})
	m.apply(motion.Event{Delta: robot.Translate(0, -5, 2)})
	require.Equal(t, [3]float64{10, -5, 2}, m.offset)

	m.apply(motion.Event{Delta: robot.Translate(1, 1, 1), Err: errors.New("fault")})
	require.Equal(t, [3]float64{10, -5, 2}, m.offset)

	home := robot.Home.Joints
	m.apply(motion.Event{Joints: &home})
	require.Equal(t, [3]float64{}, m.offset)
}

func TestChartArea(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"unknown size", 0, 0, 80, 20},
		{"full screen", 120, 40, 116, 40 - fixedRows - frameRows},
		{"tiny terminal", 20, 10, minChartCols, minChartRows},
	}
	for _, tt := range tests {
		cols, rows := chartArea(tt.w, tt.h)
		require.Equal(t, tt.cols, cols, tt.name)
		require.Equal(t, tt.rows, rows, tt.name)
	}
}

func TestWatchModelKeepsLogTail(t *testing.T) {
	m := newWatchModel("test", nil, make(lineWriter, 1), nil)
	for i := 1; i <= tailLines+2; i++ {
		m.note(fmt.Sprintf("line %d", i))
	}
	require.Len(t, m.tail, tailLines)
	require.Equal(t, "line 3", m.tail[0])

	m.note("a\nb")
	require.Equal(t, []string{"line 5", "line 6", "a", "b"}, m.tail)
}

func TestLineWriterDropsWhenFull(t *testing.T) {
	w := make(lineWriter, 1)
	n, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.Equal(t, "first", <-w)
}
