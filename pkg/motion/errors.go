package motion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrActuatorFault is returned when the arm rejects or times out on a
	// motion. The arm is left at the last pose it reached.
	ErrActuatorFault = errors.New("actuator fault")

	// ErrNoActiveApproach is returned when a retract is requested without
	// an unconsumed reversal state from a completed approach.
	ErrNoActiveApproach = errors.New("no active approach to reverse")

	// ErrPlanConsumed is returned when a plan is executed a second time.
	ErrPlanConsumed = errors.New("motion plan already executed")

	// ErrNoPlan is returned when a nil or empty plan is executed.
	ErrNoPlan = errors.New("no motion plan")
)

// StepError reports the step at which a sequence stopped.
type StepError struct {
	Attempt uuid.UUID
	Phase   string
	Index   int // 1-based
	Intent  Intent
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step %d (%s): %v", e.Phase, e.Index, e.Intent, e.Err)
}

// Unwrap exposes both ErrActuatorFault and the adapter error.
func (e *StepError) Unwrap() []error {
	return []error{ErrActuatorFault, e.Err}
}
