package motion

import (
	"time"

	"github.com/google/uuid"

	"github.com/gwillem/stalkbot/pkg/robot"
)

// Sequence phases reported in events and metrics.
const (
	PhaseForward    = "forward"
	PhaseReverse    = "reverse"
	PhaseTransition = "transition"
	PhaseDemo       = "demo"
)

// Event reports the outcome of one step.
type Event struct {
	Attempt   uuid.UUID
	Phase     string
	Index     int // 1-based
	Total     int
	Intent    Intent
	Delta     robot.RelativeDelta
	Joints    *robot.JointAngles
	Err       error
	Timestamp time.Time
}

// Events returns a channel that receives step events. Events are dropped,
// oldest first, when nobody reads them.
func (s *Sequencer) Events() <-chan Event {
	return s.events
}

func (s *Sequencer) emit(e Event) {
	select {
	case s.events <- e:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- e:
		default:
		}
	}
}
