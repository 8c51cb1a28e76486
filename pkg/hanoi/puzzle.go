package hanoi

import (
	"cmp"
	"math"
	"slices"

	errs "github.com/matzehuels/hanoi/pkg/errors"
)

// Move describes one single-ring move. Seq is the value of the move
// counter after the move, so the first move has Seq 1.
type Move[T cmp.Ordered] struct {
	Ring T
	From int
	To   int
	Seq  uint64
}

// Puzzle holds the pegs, the source and destination indices and the move
// counter. Only the source, destination and one auxiliary peg take part in
// a solve; additional pegs stay untouched.
//
// The zero value is not usable; build puzzles with New or NewPuzzle.
type Puzzle[T cmp.Ordered] struct {
	pegs        []Peg[T]
	source      int
	destination int
	moves       uint64
	initial     []T
	onMove      func(Move[T])
}

// New builds a puzzle with numPegs pegs, rings n..1 stacked on source and
// every other peg empty.
func New(rings, numPegs, source, destination int) (*Puzzle[int], error) {
	if err := errs.ValidateRingCount(rings); err != nil {
		return nil, err
	}
	if err := errs.ValidatePegCount(numPegs); err != nil {
		return nil, err
	}
	if err := checkIndices(numPegs, source, destination); err != nil {
		return nil, err
	}
	pegs := make([]Peg[int], numPegs)
	pegs[source] = StartingPeg(rings)
	return NewPuzzle(pegs, source, destination)
}

// NewPuzzle builds a puzzle from existing pegs. The pegs are copied.
// It rejects out-of-range indices and a source equal to the destination.
// Fewer than three pegs is accepted; MoveTower reports it.
func NewPuzzle[T cmp.Ordered](pegs []Peg[T], source, destination int) (*Puzzle[T], error) {
	if err := checkIndices(len(pegs), source, destination); err != nil {
		return nil, err
	}
	owned := make([]Peg[T], len(pegs))
	for i := range pegs {
		owned[i] = NewPeg(pegs[i].rings...)
	}
	return &Puzzle[T]{
		pegs:        owned,
		source:      source,
		destination: destination,
		initial:     owned[source].Rings(),
	}, nil
}

func checkIndices(count, source, destination int) error {
	if err := errs.ValidatePegIndex("source", source, count); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfiguration, ErrPegOutOfRange, "%s", errs.UserMessage(err))
	}
	if err := errs.ValidatePegIndex("destination", destination, count); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfiguration, ErrPegOutOfRange, "%s", errs.UserMessage(err))
	}
	if source == destination {
		return errs.Wrap(errs.ErrCodeInvalidConfiguration, ErrSamePeg, "source and destination are both peg %d", source)
	}
	return nil
}

// OnMove registers fn to be called after every single-ring move.
// Passing nil removes the observer.
func (p *Puzzle[T]) OnMove(fn func(Move[T])) { p.onMove = fn }

// Moves returns the number of single-ring moves made so far.
func (p *Puzzle[T]) Moves() uint64 { return p.moves }

// Source returns the index of the source peg.
func (p *Puzzle[T]) Source() int { return p.source }

// Destination returns the index of the destination peg.
func (p *Puzzle[T]) Destination() int { return p.destination }

// PegCount returns the number of pegs, including inert ones.
func (p *Puzzle[T]) PegCount() int { return len(p.pegs) }

// Peg returns a copy of peg i.
func (p *Puzzle[T]) Peg(i int) Peg[T] { return NewPeg(p.pegs[i].rings...) }

// Rings returns the number of rings in the puzzle across all pegs.
func (p *Puzzle[T]) Rings() int {
	n := 0
	for i := range p.pegs {
		n += p.pegs[i].Len()
	}
	return n
}

// Equal reports whether both puzzles have identical pegs, roles and counters.
func (p *Puzzle[T]) Equal(other *Puzzle[T]) bool {
	if p.source != other.source || p.destination != other.destination || p.moves != other.moves {
		return false
	}
	return slices.EqualFunc(p.pegs, other.pegs, func(a, b Peg[T]) bool { return a.Equal(b) })
}

// FindAuxiliary returns the lowest peg index that is neither the source nor
// the destination.
func (p *Puzzle[T]) FindAuxiliary() (int, error) {
	if len(p.pegs) < 3 {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfiguration, ErrTooFewPegs,
			"this configuration is impossible to solve: %d pegs, need at least 3", len(p.pegs))
	}
	for i := range p.pegs {
		if i != p.source && i != p.destination {
			return i, nil
		}
	}
	return 0, errs.Wrap(errs.ErrCodeInvalidConfiguration, ErrNoAuxiliary,
		"auxiliary peg could not be found for source %d and destination %d", p.source, p.destination)
}

// MoveTopPeg moves the top ring of peg from onto peg to and counts the move.
// It does not check that the move is legal.
func (p *Puzzle[T]) MoveTopPeg(from, to int) {
	if p.pegs[from].Len() == 0 {
		panic(&EmptyPegError{Peg: from})
	}
	ring := p.pegs[from].Pop()
	p.pegs[to].Push(ring)
	p.moves++
	if p.onMove != nil {
		p.onMove(Move[T]{Ring: ring, From: from, To: to, Seq: p.moves})
	}
}

// MoveTower moves every ring on the source peg to the destination peg.
// Configuration and overflow errors are returned before any peg changes.
// Calling MoveTower on an already solved puzzle is not supported.
func (p *Puzzle[T]) MoveTower() error {
	aux, err := p.FindAuxiliary()
	if err != nil {
		return err
	}
	n := p.pegs[p.source].Len()
	required, err := MovesRequired(n)
	if err != nil {
		return err
	}
	if p.moves > math.MaxUint64-required {
		return errs.New(errs.ErrCodeOverflow, "move counter at %d cannot absorb %d more moves", p.moves, required)
	}
	p.solve(n, p.source, p.destination, aux)
	return nil
}

func (p *Puzzle[T]) solve(n, source, destination, auxiliary int) {
	if n == 0 {
		return
	}
	p.solve(n-1, source, auxiliary, destination)
	p.MoveTopPeg(source, destination)
	p.solve(n-1, auxiliary, destination, source)
}

// Verify checks that the puzzle is in its terminal state: the source and
// every other peg are empty, the destination holds the starting tower in
// order, and the counter equals 2^n - 1.
func (p *Puzzle[T]) Verify() error {
	for i := range p.pegs {
		if i == p.destination {
			continue
		}
		if p.pegs[i].Len() != 0 {
			return errs.New(errs.ErrCodeVerification, "peg %d still holds %v", i, p.pegs[i].String())
		}
	}
	dst := &p.pegs[p.destination]
	if !slices.Equal(dst.rings, p.initial) {
		return errs.New(errs.ErrCodeVerification, "destination peg holds %v, want %v", dst.String(), p.initial)
	}
	want, err := MovesRequired(len(p.initial))
	if err != nil {
		return err
	}
	if p.moves != want {
		return errs.New(errs.ErrCodeVerification, "made %d moves, want %d", p.moves, want)
	}
	return nil
}

// MovesRequired returns 2^n - 1, the optimal number of moves for n rings.
func MovesRequired(n int) (uint64, error) {
	if err := errs.ValidateRingCount(n); err != nil {
		return 0, err
	}
	if n == 64 {
		return math.MaxUint64, nil
	}
	return 1<<uint(n) - 1, nil
}
