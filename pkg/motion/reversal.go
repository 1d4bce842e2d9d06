package motion

import "github.com/google/uuid"

// ReversalState is the single-use capability to retract from a completed
// approach. Only ExecuteForward creates a valid one; ExecuteReverse consumes
// it.
type ReversalState struct {
	attempt  uuid.UUID
	reverseX float64
	reverseY float64
	consumed bool
}

// Valid reports whether the state can still be used to retract.
func (r *ReversalState) Valid() bool {
	return r != nil && r.attempt != uuid.Nil && !r.consumed
}

// Attempt returns the ID of the approach this state undoes.
func (r *ReversalState) Attempt() uuid.UUID { return r.attempt }

// Deltas returns the X and Y back-out moves.
func (r *ReversalState) Deltas() (x, y float64) {
	return r.reverseX, r.reverseY
}
