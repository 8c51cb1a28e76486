// Package hanoi models the Towers of Hanoi puzzle and solves it with the
// classic recursive three-peg algorithm.
//
// # Overview
//
// A [Puzzle] owns a slice of [Peg] values, a source index, a destination
// index and a move counter. Each peg is a stack of rings ordered bottom to
// top; a legal state keeps every peg strictly decreasing upward, so no ring
// ever rests on a smaller one.
//
// # Basic Usage
//
// Build a puzzle with [New] and solve it with [Puzzle.MoveTower]:
//
//	p, err := hanoi.New(3, 3, 0, 2)
//	if err != nil {
//	    return err
//	}
//	if err := p.MoveTower(); err != nil {
//	    return err
//	}
//	fmt.Println(p.Moves()) // 7
//
// [Puzzle.Verify] checks the terminal state: the source peg is empty, the
// destination holds every ring in its starting order, all other pegs are
// empty and the counter equals 2^n - 1.
//
// # Algorithm
//
// Moving n rings from source to destination first moves the top n-1 rings
// to the auxiliary peg, then moves the largest ring directly, then moves the
// n-1 rings from the auxiliary peg onto it. This produces exactly 2^n - 1
// single-ring moves, all routed through [Puzzle.MoveTopPeg]. Recursion depth
// equals n, and n is capped at 64 because the counter is a uint64.
//
// # Errors
//
// Configuration problems (fewer than three pegs, no auxiliary peg, source
// equal to destination, out-of-range indices) are returned as errors before
// any peg is touched. Popping an empty peg is an invariant violation and
// panics with [*EmptyPegError].
//
// # Concurrency
//
// A Puzzle is not safe for concurrent use. Observers registered with
// [Puzzle.OnMove] run synchronously on the solving goroutine.
package hanoi
