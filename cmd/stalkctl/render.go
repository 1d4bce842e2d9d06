package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/stalkbot/pkg/motion"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderPlan prints the steps of plan as a table, followed by the retract
// deltas it will leave behind.
func renderPlan(plan *motion.MotionPlan) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "intent", "dx", "dy", "dz")

	for i, st := range plan.Steps() {
		d := st.Delta.Translation
		t.Row(
			fmt.Sprintf("%d", i+1),
			string(st.Intent),
			formatMM(d.X),
			formatMM(d.Y),
			formatMM(d.Z),
		)
	}

	x, y := plan.Reversal()
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Approach plan"))
	sb.WriteString(dimStyle.Render(" target " + plan.Target().String() + " mm"))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("retract: back out x %s, y %s", formatMM(x), formatMM(y))))
	return sb.String()
}

func formatMM(v float64) string {
	if v == 0 {
		return "·"
	}
	return fmt.Sprintf("%+.1f", v)
}

// renderFailure describes where a sequence stopped.
func renderFailure(err error) string {
	var se *motion.StepError
	if errors.As(err, &se) {
		return errorStyle.Render(fmt.Sprintf("%s stopped at step %d (%s)", se.Phase, se.Index, se.Intent)) +
			"\n" + dimStyle.Render("arm left at the last reached pose: "+se.Err.Error())
	}
	return errorStyle.Render(err.Error())
}

func confirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Go").
				Negative("Abort").
				Value(&ok),
		),
	)
	submitted, err := formOutcome(form.Run())
	if err != nil || !submitted {
		return false, err
	}
	return ok, nil
}

// formOutcome separates an operator abort from a terminal failure.
func formOutcome(err error) (submitted bool, _ error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, huh.ErrUserAborted):
		return false, nil
	default:
		return false, err
	}
}
