package hanoi

import (
	"cmp"
	"fmt"
	"slices"
)

// Peg is a stack of rings ordered from bottom (index 0) to top.
// Push does not enforce the size ordering; the solver guarantees it.
// Read methods take a value receiver so copies returned by Puzzle.Peg
// support them directly.
type Peg[T cmp.Ordered] struct {
	rings []T
}

// NewPeg returns a peg holding rings, bottom first. The slice is copied.
func NewPeg[T cmp.Ordered](rings ...T) Peg[T] {
	return Peg[T]{rings: slices.Clone(rings)}
}

// StartingPeg returns a peg loaded with rings n..1, largest at the bottom.
func StartingPeg(n int) Peg[int] {
	rings := make([]int, 0, max(n, 0))
	for r := n; r >= 1; r-- {
		rings = append(rings, r)
	}
	return Peg[int]{rings: rings}
}

// Push places ring on top of the peg.
func (p *Peg[T]) Push(ring T) {
	p.rings = append(p.rings, ring)
}

// Pop removes and returns the top ring.
// It panics with *EmptyPegError if the peg is empty.
func (p *Peg[T]) Pop() T {
	n := len(p.rings)
	if n == 0 {
		panic(&EmptyPegError{Peg: -1})
	}
	ring := p.rings[n-1]
	p.rings = p.rings[:n-1]
	return ring
}

// Top returns the top ring without removing it.
func (p Peg[T]) Top() (T, bool) {
	if len(p.rings) == 0 {
		var zero T
		return zero, false
	}
	return p.rings[len(p.rings)-1], true
}

// Len returns the number of rings on the peg.
func (p Peg[T]) Len() int { return len(p.rings) }

// Rings returns a copy of the rings, bottom first.
func (p Peg[T]) Rings() []T { return slices.Clone(p.rings) }

// Ordered reports whether the rings strictly decrease from bottom to top.
func (p Peg[T]) Ordered() bool {
	for i := 1; i < len(p.rings); i++ {
		if p.rings[i] >= p.rings[i-1] {
			return false
		}
	}
	return true
}

// Equal reports whether both pegs hold the same rings in the same order.
func (p Peg[T]) Equal(other Peg[T]) bool {
	return slices.Equal(p.rings, other.rings)
}

func (p Peg[T]) String() string {
	return fmt.Sprint(p.rings)
}
