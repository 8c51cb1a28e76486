package errors

// Limits shared by the CLI, configuration loading and the HTTP API.
const (
	// MaxRings is the largest ring count whose 2^n - 1 moves fit a uint64 counter.
	MaxRings = 64

	// MaxPegs bounds the number of pegs a puzzle may be built with.
	// Only three are ever used by the solver; the rest stay empty.
	MaxPegs = 64
)

// ValidateRingCount checks that n rings can be solved without overflowing
// the move counter.
//
// Validation rules:
//   - n must not be negative (INVALID_INPUT)
//   - n must not exceed MaxRings (OVERFLOW)
func ValidateRingCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "ring count cannot be negative: %d", n)
	}
	if n > MaxRings {
		return New(ErrCodeOverflow, "%d rings need 2^%d - 1 moves, which overflows a 64-bit counter (max %d rings)", n, n, MaxRings)
	}
	return nil
}

// ValidatePegCount checks the number of pegs requested for a puzzle.
// Fewer than three pegs is accepted here; the solver reports it as a
// configuration error when it looks for an auxiliary peg.
func ValidatePegCount(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "peg count must be at least 1: %d", n)
	}
	if n > MaxPegs {
		return New(ErrCodeInvalidInput, "peg count too large (max %d): %d", MaxPegs, n)
	}
	return nil
}

// ValidatePegIndex checks that idx addresses one of count pegs.
func ValidatePegIndex(name string, idx, count int) error {
	if idx < 0 || idx >= count {
		return New(ErrCodeInvalidConfiguration, "%s peg %d out of range [0, %d)", name, idx, count)
	}
	return nil
}
