package hanoi

import (
	"errors"
	"fmt"
)

// Configuration failures. They are returned wrapped in a *errors.Error with
// code INVALID_CONFIGURATION, so both errors.Is(err, ErrTooFewPegs) and a
// code check succeed.
var (
	// ErrTooFewPegs is returned when the puzzle has fewer than three pegs.
	ErrTooFewPegs = errors.New("too few pegs")

	// ErrNoAuxiliary is returned when no peg besides source and destination exists.
	ErrNoAuxiliary = errors.New("no auxiliary peg")

	// ErrSamePeg is returned when source and destination are the same peg.
	ErrSamePeg = errors.New("source and destination are the same peg")

	// ErrPegOutOfRange is returned when a peg index does not exist.
	ErrPegOutOfRange = errors.New("peg index out of range")
)

// EmptyPegError is the panic value raised when a ring is popped from an
// empty peg. A correct solver never does this, so it signals a bug or a
// corrupted starting state.
type EmptyPegError struct {
	Peg int // index of the peg, or -1 when unknown
}

func (e *EmptyPegError) Error() string {
	if e.Peg < 0 {
		return "tried to move a ring from an empty peg"
	}
	return fmt.Sprintf("tried to move a ring from empty peg %d", e.Peg)
}
